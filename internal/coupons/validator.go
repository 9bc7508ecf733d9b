package coupons

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/config"
	pkgerrors "github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/errors"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/logger"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/metrics"
)

type finder interface {
	FindByCode(ctx context.Context, code string) (*Coupon, error)
}

// Validator checks coupon eligibility. Lookups run behind a circuit breaker so
// a failing store turns into fast DEPENDENCY_ERROR responses.
type Validator struct {
	repo    finder
	breaker *gobreaker.CircuitBreaker[*Coupon]
	metrics *metrics.StorefrontMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// NewValidator wires the breaker settings from cfg.
func NewValidator(repo finder, cfg config.CouponsConfig, m *metrics.StorefrontMetrics, logg *logger.Logger) (*Validator, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	settings := gobreaker.Settings{
		Name:        "coupons",
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.BreakerFailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			ctx := logg.WithFields(context.Background(), map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
			logg.Warn(ctx, "circuit breaker state changed")
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
	return &Validator{
		repo:    repo,
		breaker: gobreaker.NewCircuitBreaker[*Coupon](settings),
		metrics: m,
		logg:    logg,
		now:     time.Now,
	}, nil
}

// Validate returns the coupon and the discount it gives on subtotal.
//
// Eligibility failures return COUPON_REJECTED with a reason detail. Store
// failures, including an open breaker, return DEPENDENCY_ERROR.
func (v *Validator) Validate(ctx context.Context, code string, subtotal decimal.Decimal) (Coupon, decimal.Decimal, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return v.reject(ReasonEmptyCode)
	}

	found, err := v.breaker.Execute(func() (*Coupon, error) {
		return v.repo.FindByCode(ctx, normalized)
	})
	if err != nil {
		v.metrics.IncCoupon(metrics.ResultError)
		v.logg.Error(v.logg.WithField(ctx, "coupon_code", normalized), "coupon lookup failed", err)
		return Coupon{}, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "coupon service unavailable")
	}
	if found == nil {
		return v.reject(ReasonNotFound)
	}
	if reason := found.rejection(v.now(), subtotal); reason != "" {
		if reason == ReasonMinOrderValue {
			v.metrics.IncCoupon(metrics.ResultRejected)
			return Coupon{}, decimal.Zero, pkgerrors.New(pkgerrors.CodeCouponRejected, "order below coupon minimum").
				WithDetails(map[string]any{"reason": reason, "min_order_value": found.MinOrderValue.StringFixed(2)})
		}
		return v.reject(reason)
	}

	v.metrics.IncCoupon(metrics.ResultOK)
	return *found, found.Discount(subtotal), nil
}

func (v *Validator) reject(reason string) (Coupon, decimal.Decimal, error) {
	v.metrics.IncCoupon(metrics.ResultRejected)
	return Coupon{}, decimal.Zero, pkgerrors.New(pkgerrors.CodeCouponRejected, "invalid or expired coupon").
		WithDetails(map[string]any{"reason": reason})
}
