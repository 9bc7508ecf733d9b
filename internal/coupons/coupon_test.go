package coupons

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/enums"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func TestDiscount(t *testing.T) {
	maxDiscount := d("10.00")
	cases := []struct {
		name     string
		coupon   Coupon
		subtotal string
		want     string
	}{
		{
			name:     "percentage",
			coupon:   Coupon{DiscountType: enums.CouponTypePercentage, DiscountValue: d("10")},
			subtotal: "60.00",
			want:     "6.00",
		},
		{
			name:     "percentage capped by max discount",
			coupon:   Coupon{DiscountType: enums.CouponTypePercentage, DiscountValue: d("50"), MaxDiscount: &maxDiscount},
			subtotal: "60.00",
			want:     "10.00",
		},
		{
			name:     "fixed",
			coupon:   Coupon{DiscountType: enums.CouponTypeFixed, DiscountValue: d("5.00")},
			subtotal: "60.00",
			want:     "5.00",
		},
		{
			name:     "fixed capped at subtotal",
			coupon:   Coupon{DiscountType: enums.CouponTypeFixed, DiscountValue: d("15.00")},
			subtotal: "12.90",
			want:     "12.90",
		},
		{
			name:     "below minimum order",
			coupon:   Coupon{DiscountType: enums.CouponTypeFixed, DiscountValue: d("5.00"), MinOrderValue: d("30.00")},
			subtotal: "29.99",
			want:     "0",
		},
		{
			name:     "empty cart",
			coupon:   Coupon{DiscountType: enums.CouponTypeFixed, DiscountValue: d("5.00")},
			subtotal: "0",
			want:     "0",
		},
		{
			name:     "percentage rounds to centavos",
			coupon:   Coupon{DiscountType: enums.CouponTypePercentage, DiscountValue: d("15")},
			subtotal: "12.90",
			want:     "1.94",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.coupon.Discount(d(tc.subtotal))
			assert.True(t, d(tc.want).Equal(got), "want %s got %s", tc.want, got)
		})
	}
}

func TestRejection(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)
	limit := 2

	base := Coupon{IsActive: true, DiscountType: enums.CouponTypeFixed, DiscountValue: d("5"), MinOrderValue: d("20")}

	assert.Empty(t, base.rejection(now, d("20")))

	inactive := base
	inactive.IsActive = false
	assert.Equal(t, ReasonInactive, inactive.rejection(now, d("50")))

	future := base
	future.ValidFrom = &after
	assert.Equal(t, ReasonNotYetValid, future.rejection(now, d("50")))

	expired := base
	expired.ValidUntil = &before
	assert.Equal(t, ReasonExpired, expired.rejection(now, d("50")))

	used := base
	used.UsageLimit = &limit
	used.UsageCount = 2
	assert.Equal(t, ReasonUsageLimit, used.rejection(now, d("50")))

	assert.Equal(t, ReasonMinOrderValue, base.rejection(now, d("19.99")))
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "BEMVINDO10", NormalizeCode("  bemVindo10 "))
}
