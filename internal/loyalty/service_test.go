package loyalty

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/db/dbtest"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/enums"
	pkgerrors "github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/errors"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/logger"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := dbtest.Open(t)
	svc, err := NewService(NewRepository(db), logger.Nop())
	require.NoError(t, err)
	return svc, db
}

func TestAwardCreditsFirstOrder(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	award, err := svc.Award(ctx, db, "(11) 98765-4321", decimal.RequireFromString("34.70"))
	require.NoError(t, err)
	assert.Equal(t, 34, award.PointsEarned)
	assert.Equal(t, "11987654321", award.Account.Phone)
	assert.Equal(t, enums.LoyaltyLevelBronze, award.Account.Level)
	assert.Equal(t, []enums.Achievement{enums.AchievementFirstOrder}, award.NewAchievements)
	assert.False(t, award.LevelUp)
	assert.Equal(t, 466, award.Account.PointsToNext)

	account, err := svc.Get(ctx, "11987654321")
	require.NoError(t, err)
	assert.Equal(t, 34, account.Points)
	assert.Equal(t, 1, account.OrdersCount)
}

func TestAwardUnlocksAchievementsOnce(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	phone := "11912345678"

	var last *Award
	for i := 0; i < 5; i++ {
		award, err := svc.Award(ctx, db, phone, decimal.RequireFromString("160.00"))
		require.NoError(t, err)
		if i == 1 {
			assert.Empty(t, award.NewAchievements)
		}
		last = award
	}

	assert.Equal(t, []enums.Achievement{enums.AchievementRegular}, last.NewAchievements)
	assert.ElementsMatch(t, []enums.Achievement{
		enums.AchievementFirstOrder, enums.AchievementBigOrder, enums.AchievementRegular,
	}, last.Account.Achievements)
	assert.Equal(t, 800, last.Account.LifetimePoints)
	assert.Equal(t, enums.LoyaltyLevelSilver, last.Account.Level)
}

func TestAwardReportsLevelUp(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	award, err := svc.Award(ctx, db, "11900001111", decimal.RequireFromString("520.00"))
	require.NoError(t, err)
	assert.True(t, award.LevelUp)
	assert.Equal(t, enums.LoyaltyLevelSilver, award.Account.Level)
}

func TestAwardRollsBackWithTransaction(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := svc.Award(ctx, tx, "11955554444", decimal.RequireFromString("80")); err != nil {
			return err
		}
		return pkgerrors.New(pkgerrors.CodeConflict, "abort")
	})
	require.Error(t, err)

	account, err := svc.Get(ctx, "11955554444")
	require.NoError(t, err)
	assert.Zero(t, account.Points)
	assert.Zero(t, account.OrdersCount)
}

func TestGetUnknownPhoneAndValidation(t *testing.T) {
	svc, _ := newTestService(t)

	account, err := svc.Get(context.Background(), "+55 11 90000-0000")
	require.NoError(t, err)
	assert.Equal(t, enums.LoyaltyLevelBronze, account.Level)
	assert.Empty(t, account.Achievements)

	_, err = svc.Get(context.Background(), "123")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}
