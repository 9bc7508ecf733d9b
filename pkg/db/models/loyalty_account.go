package models

import (
	"time"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/enums"
)

// LoyaltyAccount tracks points and achievements per customer phone number.
type LoyaltyAccount struct {
	Phone          string             `gorm:"column:phone;primaryKey"`
	Points         int                `gorm:"column:points;not null;default:0"`
	LifetimePoints int                `gorm:"column:lifetime_points;not null;default:0"`
	OrdersCount    int                `gorm:"column:orders_count;not null;default:0"`
	Level          enums.LoyaltyLevel `gorm:"column:level;not null;default:'bronze'"`
	Achievements   []string           `gorm:"column:achievements;type:jsonb;serializer:json"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
