// Package loyalty awards points, levels and achievements for placed orders.
package loyalty

import (
	"github.com/shopspring/decimal"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/enums"
)

const (
	regularOrders = 5
)

var bigOrderTotal = decimal.NewFromInt(150)

// levelThresholds is ordered from the highest level down.
var levelThresholds = []struct {
	level  enums.LoyaltyLevel
	points int
}{
	{enums.LoyaltyLevelDiamond, 5000},
	{enums.LoyaltyLevelGold, 1500},
	{enums.LoyaltyLevelSilver, 500},
	{enums.LoyaltyLevelBronze, 0},
}

// PointsFor gives one point per whole real of the order total.
func PointsFor(total decimal.Decimal) int {
	if !total.IsPositive() {
		return 0
	}
	return int(total.Floor().IntPart())
}

// LevelFor maps lifetime points to a level.
func LevelFor(lifetimePoints int) enums.LoyaltyLevel {
	for _, threshold := range levelThresholds {
		if lifetimePoints >= threshold.points {
			return threshold.level
		}
	}
	return enums.LoyaltyLevelBronze
}

// NextLevel returns the next level and the lifetime points it needs, or false at the top.
func NextLevel(current enums.LoyaltyLevel) (enums.LoyaltyLevel, int, bool) {
	for i := len(levelThresholds) - 1; i > 0; i-- {
		if levelThresholds[i].level == current {
			next := levelThresholds[i-1]
			return next.level, next.points, true
		}
	}
	return "", 0, false
}

// unlocked lists achievements earned by an account after an order, in a fixed order.
func unlocked(ordersCount int, orderTotal decimal.Decimal) []enums.Achievement {
	var out []enums.Achievement
	if ordersCount >= 1 {
		out = append(out, enums.AchievementFirstOrder)
	}
	if ordersCount >= regularOrders {
		out = append(out, enums.AchievementRegular)
	}
	if orderTotal.GreaterThanOrEqual(bigOrderTotal) {
		out = append(out, enums.AchievementBigOrder)
	}
	return out
}
