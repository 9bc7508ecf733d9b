package cron

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/coupons"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/orders"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/db/dbtest"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/db/models"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/enums"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/logger"
)

var jobNow = time.Date(2026, 4, 2, 18, 0, 0, 0, time.UTC)

func TestPendingOrderExpiryCancelsOnlyStalePendingOrders(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	seed := func(number string, status enums.OrderStatus, age time.Duration) {
		order := models.Order{
			OrderNumber:     number,
			SessionID:       "sess",
			CustomerName:    "Ana",
			CustomerPhone:   "11999990000",
			DeliveryAddress: "Rua A, 1",
			PaymentMethod:   enums.PaymentMethodPix,
			Status:          status,
			Subtotal:        decimal.NewFromInt(20),
			DeliveryFee:     decimal.RequireFromString("8.90"),
			Discount:        decimal.Zero,
			Total:           decimal.RequireFromString("28.90"),
			CouponCodes:     []string{},
		}
		require.NoError(t, db.Create(&order).Error)
		require.NoError(t, db.Model(&order).UpdateColumn("created_at", jobNow.Add(-age)).Error)
	}
	seed("JC-1", enums.OrderStatusPending, 7*time.Hour)
	seed("JC-2", enums.OrderStatusPending, time.Hour)
	seed("JC-3", enums.OrderStatusConfirmed, 9*time.Hour)

	job, err := NewPendingOrderExpiry(orders.NewRepository(db), 6*time.Hour, logger.Nop())
	require.NoError(t, err)
	job.now = func() time.Time { return jobNow }
	require.NoError(t, job.Run(ctx))

	statuses := map[string]enums.OrderStatus{}
	var rows []models.Order
	require.NoError(t, db.Find(&rows).Error)
	for _, row := range rows {
		statuses[row.OrderNumber] = row.Status
	}
	assert.Equal(t, enums.OrderStatusCancelled, statuses["JC-1"])
	assert.Equal(t, enums.OrderStatusPending, statuses["JC-2"])
	assert.Equal(t, enums.OrderStatusConfirmed, statuses["JC-3"])
}

func TestCouponExpiryDeactivatesLapsedCoupons(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	repo := coupons.NewRepository(db)

	past := jobNow.Add(-time.Hour)
	future := jobNow.Add(time.Hour)
	for code, until := range map[string]*time.Time{"OLD": &past, "LIVE": &future, "FOREVER": nil} {
		require.NoError(t, repo.Upsert(ctx, coupons.Coupon{
			Code:          code,
			DiscountType:  enums.CouponTypeFixed,
			DiscountValue: decimal.NewFromInt(5),
			MinOrderValue: decimal.Zero,
			ValidUntil:    until,
			IsActive:      true,
		}))
	}

	job, err := NewCouponExpiry(repo, logger.Nop())
	require.NoError(t, err)
	job.now = func() time.Time { return jobNow }
	require.NoError(t, job.Run(ctx))

	for code, active := range map[string]bool{"OLD": false, "LIVE": true, "FOREVER": true} {
		coupon, err := repo.FindByCode(ctx, code)
		require.NoError(t, err)
		require.NotNil(t, coupon)
		assert.Equal(t, active, coupon.IsActive, code)
	}
}

func TestJobConstructorsValidate(t *testing.T) {
	_, err := NewPendingOrderExpiry(nil, time.Hour, logger.Nop())
	assert.Error(t, err)
	_, err = NewPendingOrderExpiry(orders.NewRepository(nil), 0, logger.Nop())
	assert.Error(t, err)
	_, err = NewCouponExpiry(nil, logger.Nop())
	assert.Error(t, err)
}
