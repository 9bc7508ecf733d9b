package loyalty

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/enums"
)

func TestPointsFor(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"0":      0,
		"-5":     0,
		"12.90":  12,
		"49.99":  49,
		"150.00": 150,
	}
	for total, want := range cases {
		if got := PointsFor(decimal.RequireFromString(total)); got != want {
			t.Fatalf("PointsFor(%s) = %d, want %d", total, got, want)
		}
	}
}

func TestLevelFor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		points int
		want   enums.LoyaltyLevel
	}{
		{0, enums.LoyaltyLevelBronze},
		{499, enums.LoyaltyLevelBronze},
		{500, enums.LoyaltyLevelSilver},
		{1500, enums.LoyaltyLevelGold},
		{4999, enums.LoyaltyLevelGold},
		{5000, enums.LoyaltyLevelDiamond},
	}
	for _, tc := range cases {
		if got := LevelFor(tc.points); got != tc.want {
			t.Fatalf("LevelFor(%d) = %s, want %s", tc.points, got, tc.want)
		}
	}
}

func TestNextLevel(t *testing.T) {
	t.Parallel()

	next, points, ok := NextLevel(enums.LoyaltyLevelBronze)
	if !ok || next != enums.LoyaltyLevelSilver || points != 500 {
		t.Fatalf("unexpected next level from bronze: %s %d %v", next, points, ok)
	}
	if _, _, ok := NextLevel(enums.LoyaltyLevelDiamond); ok {
		t.Fatal("diamond has no next level")
	}
}
