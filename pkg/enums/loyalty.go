package enums

import "fmt"

// LoyaltyLevel is the tier a customer reaches by lifetime points.
type LoyaltyLevel string

const (
	LoyaltyLevelBronze  LoyaltyLevel = "bronze"
	LoyaltyLevelSilver  LoyaltyLevel = "silver"
	LoyaltyLevelGold    LoyaltyLevel = "gold"
	LoyaltyLevelDiamond LoyaltyLevel = "diamond"
)

var validLoyaltyLevels = []LoyaltyLevel{
	LoyaltyLevelBronze,
	LoyaltyLevelSilver,
	LoyaltyLevelGold,
	LoyaltyLevelDiamond,
}

func (l LoyaltyLevel) String() string {
	return string(l)
}

func (l LoyaltyLevel) IsValid() bool {
	for _, candidate := range validLoyaltyLevels {
		if candidate == l {
			return true
		}
	}
	return false
}

func ParseLoyaltyLevel(value string) (LoyaltyLevel, error) {
	for _, candidate := range validLoyaltyLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid loyalty level %q", value)
}

// Achievement identifies a one-time badge unlocked by ordering behaviour.
type Achievement string

const (
	AchievementFirstOrder Achievement = "first_order"
	AchievementRegular    Achievement = "regular"
	AchievementBigOrder   Achievement = "big_order"
)

func (a Achievement) String() string {
	return string(a)
}
