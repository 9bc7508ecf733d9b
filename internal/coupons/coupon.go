// Package coupons validates discount codes and turns them into discount amounts.
package coupons

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/db/models"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/enums"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/money"
)

// Rejection reasons reported in COUPON_REJECTED details.
const (
	ReasonEmptyCode     = "empty_code"
	ReasonNotFound      = "not_found"
	ReasonInactive      = "inactive"
	ReasonNotYetValid   = "not_yet_valid"
	ReasonExpired       = "expired"
	ReasonUsageLimit    = "usage_limit_reached"
	ReasonMinOrderValue = "min_order_value"
)

// Coupon is the snapshot of a coupon's rules kept on an applied coupon.
type Coupon struct {
	ID            uuid.UUID        `json:"id"`
	Code          string           `json:"code"`
	Description   string           `json:"description"`
	DiscountType  enums.CouponType `json:"discount_type"`
	DiscountValue decimal.Decimal  `json:"discount_value"`
	MinOrderValue decimal.Decimal  `json:"min_order_value"`
	MaxDiscount   *decimal.Decimal `json:"max_discount,omitempty"`
	ValidFrom     *time.Time       `json:"valid_from,omitempty"`
	ValidUntil    *time.Time       `json:"valid_until,omitempty"`
	UsageLimit    *int             `json:"usage_limit,omitempty"`
	UsageCount    int              `json:"usage_count"`
	IsActive      bool             `json:"is_active"`
}

// NormalizeCode trims and upper-cases a code. Codes compare case-insensitively.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Discount is the amount this coupon takes off subtotal.
//
// Percentage coupons are capped by MaxDiscount when set, every discount is
// capped at the subtotal, and a subtotal under MinOrderValue yields zero.
func (c Coupon) Discount(subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() || subtotal.LessThan(c.MinOrderValue) {
		return decimal.Zero
	}
	var amount decimal.Decimal
	switch c.DiscountType {
	case enums.CouponTypePercentage:
		amount = money.Percent(subtotal, c.DiscountValue)
		if c.MaxDiscount != nil {
			amount = money.Min(amount, *c.MaxDiscount)
		}
	case enums.CouponTypeFixed:
		amount = c.DiscountValue
	default:
		return decimal.Zero
	}
	return money.Round(money.NonNegative(money.Min(amount, subtotal)))
}

// rejection returns the reason this coupon cannot be used at now for subtotal, or "".
func (c Coupon) rejection(now time.Time, subtotal decimal.Decimal) string {
	if reason := c.ineligibility(now); reason != "" {
		return reason
	}
	if subtotal.LessThan(c.MinOrderValue) {
		return ReasonMinOrderValue
	}
	return ""
}

// ineligibility covers every rule that does not depend on the order amount.
func (c Coupon) ineligibility(now time.Time) string {
	switch {
	case !c.IsActive:
		return ReasonInactive
	case c.ValidFrom != nil && now.Before(*c.ValidFrom):
		return ReasonNotYetValid
	case c.ValidUntil != nil && now.After(*c.ValidUntil):
		return ReasonExpired
	case c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit:
		return ReasonUsageLimit
	}
	return ""
}

func fromModel(row models.Coupon) Coupon {
	return Coupon{
		ID:            row.ID,
		Code:          row.Code,
		Description:   row.Description,
		DiscountType:  row.DiscountType,
		DiscountValue: row.DiscountValue,
		MinOrderValue: row.MinOrderValue,
		MaxDiscount:   row.MaxDiscount,
		ValidFrom:     row.ValidFrom,
		ValidUntil:    row.ValidUntil,
		UsageLimit:    row.UsageLimit,
		UsageCount:    row.UsageCount,
		IsActive:      row.IsActive,
	}
}

// ToModel converts a coupon into its persisted row. Codes are stored normalized.
func ToModel(c Coupon) models.Coupon {
	return models.Coupon{
		ID:            c.ID,
		Code:          NormalizeCode(c.Code),
		Description:   c.Description,
		DiscountType:  c.DiscountType,
		DiscountValue: c.DiscountValue,
		MinOrderValue: c.MinOrderValue,
		MaxDiscount:   c.MaxDiscount,
		IsActive:      c.IsActive,
		ValidFrom:     c.ValidFrom,
		ValidUntil:    c.ValidUntil,
		UsageLimit:    c.UsageLimit,
		UsageCount:    c.UsageCount,
	}
}
