package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/logger"
)

type staleOrderCanceller interface {
	CancelStalePending(ctx context.Context, cutoff, now time.Time) (int64, error)
}

type expiredCouponDeactivator interface {
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// PendingOrderExpiry cancels orders nobody confirmed within ttl.
type PendingOrderExpiry struct {
	orders staleOrderCanceller
	ttl    time.Duration
	logg   *logger.Logger
	now    func() time.Time
}

func NewPendingOrderExpiry(orders staleOrderCanceller, ttl time.Duration, logg *logger.Logger) (*PendingOrderExpiry, error) {
	if orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("pending order ttl must be positive")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &PendingOrderExpiry{orders: orders, ttl: ttl, logg: logg, now: time.Now}, nil
}

func (j *PendingOrderExpiry) Name() string { return "expire_pending_orders" }

func (j *PendingOrderExpiry) Run(ctx context.Context) error {
	now := j.now().UTC()
	n, err := j.orders.CancelStalePending(ctx, now.Add(-j.ttl), now)
	if err != nil {
		return fmt.Errorf("cancel stale orders: %w", err)
	}
	if n > 0 {
		j.logg.Info(j.logg.WithField(ctx, "cancelled", n), "orders.expired")
	}
	return nil
}

// CouponExpiry deactivates coupons past their valid_until.
type CouponExpiry struct {
	coupons expiredCouponDeactivator
	logg    *logger.Logger
	now     func() time.Time
}

func NewCouponExpiry(coupons expiredCouponDeactivator, logg *logger.Logger) (*CouponExpiry, error) {
	if coupons == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &CouponExpiry{coupons: coupons, logg: logg, now: time.Now}, nil
}

func (j *CouponExpiry) Name() string { return "deactivate_expired_coupons" }

func (j *CouponExpiry) Run(ctx context.Context) error {
	n, err := j.coupons.DeactivateExpired(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate coupons: %w", err)
	}
	if n > 0 {
		j.logg.Info(j.logg.WithField(ctx, "deactivated", n), "coupons.expired")
	}
	return nil
}
