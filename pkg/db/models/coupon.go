package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/enums"
)

// Coupon stores the eligibility rules of a discount code. Code is stored upper-case.
type Coupon struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Code          string           `gorm:"column:code;not null;uniqueIndex"`
	Description   string           `gorm:"column:description;not null;default:''"`
	DiscountType  enums.CouponType `gorm:"column:discount_type;not null"`
	DiscountValue decimal.Decimal  `gorm:"column:discount_value;type:numeric(10,2);not null"`
	MinOrderValue decimal.Decimal  `gorm:"column:min_order_value;type:numeric(10,2);not null;default:0"`
	MaxDiscount   *decimal.Decimal `gorm:"column:max_discount;type:numeric(10,2)"`
	IsActive      bool             `gorm:"column:is_active;not null"`
	ValidFrom     *time.Time       `gorm:"column:valid_from"`
	ValidUntil    *time.Time       `gorm:"column:valid_until"`
	UsageLimit    *int             `gorm:"column:usage_limit"`
	UsageCount    int              `gorm:"column:usage_count;not null;default:0"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Coupon) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
