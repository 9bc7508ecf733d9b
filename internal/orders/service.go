// Package orders turns carts into orders and tracks their status.
package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/cart"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/coupons"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/loyalty"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/db/models"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/enums"
	pkgerrors "github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/errors"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/logger"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/metrics"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/pagination"
)

type Service interface {
	Checkout(ctx context.Context, sessionID string, input CheckoutInput) (*Order, error)
	Get(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*OrderList, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*Order, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartCheckout interface {
	Checkout(ctx context.Context, sessionID string, place func(ctx context.Context, c *cart.Cart, totals cart.Totals) error) (*cart.View, error)
}

type couponRedeemer interface {
	RedeemTx(ctx context.Context, tx *gorm.DB, ids []uuid.UUID, now time.Time) error
}

type loyaltyAwarder interface {
	Award(ctx context.Context, tx *gorm.DB, phone string, orderTotal decimal.Decimal) (*loyalty.Award, error)
}

type numberSource interface {
	Next(ctx context.Context) (string, error)
}

// Deps groups the collaborators of the orders service.
type Deps struct {
	Repo    *Repository
	Tx      txRunner
	Carts   cartCheckout
	Coupons couponRedeemer
	Loyalty loyaltyAwarder
	Numbers numberSource
	Metrics *metrics.StorefrontMetrics
	Logger  *logger.Logger
}

type service struct {
	repo    *Repository
	tx      txRunner
	carts   cartCheckout
	coupons couponRedeemer
	loyalty loyaltyAwarder
	numbers numberSource
	metrics *metrics.StorefrontMetrics
	logg    *logger.Logger
	now     func() time.Time
}

func NewService(deps Deps) (Service, error) {
	switch {
	case deps.Repo == nil:
		return nil, fmt.Errorf("orders repository required")
	case deps.Tx == nil:
		return nil, fmt.Errorf("transaction runner required")
	case deps.Carts == nil:
		return nil, fmt.Errorf("cart service required")
	case deps.Coupons == nil:
		return nil, fmt.Errorf("coupon redeemer required")
	case deps.Loyalty == nil:
		return nil, fmt.Errorf("loyalty service required")
	case deps.Numbers == nil:
		return nil, fmt.Errorf("order number source required")
	case deps.Logger == nil:
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    deps.Repo,
		tx:      deps.Tx,
		carts:   deps.Carts,
		coupons: deps.Coupons,
		loyalty: deps.Loyalty,
		numbers: deps.Numbers,
		metrics: deps.Metrics,
		logg:    deps.Logger,
		now:     time.Now,
	}, nil
}

// Checkout writes the session's cart as an order, redeems its coupons and
// credits loyalty points in one transaction, then clears the cart. Line
// prices are the ones frozen in the cart.
func (s *service) Checkout(ctx context.Context, sessionID string, input CheckoutInput) (*Order, error) {
	input, phone, err := validateCheckout(input)
	if err != nil {
		s.metrics.IncCheckout(metrics.ResultRejected)
		return nil, err
	}

	var placed *models.Order
	var award *loyalty.Award
	view, err := s.carts.Checkout(ctx, sessionID, func(ctx context.Context, c *cart.Cart, totals cart.Totals) error {
		number, err := s.numbers.Next(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate order number")
		}
		order := buildOrder(number, sessionID, input, phone, c, totals)

		return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
			}
			if err := s.coupons.RedeemTx(ctx, tx, couponIDs(c), s.now()); err != nil {
				var rejected *coupons.RedeemError
				if errors.As(err, &rejected) {
					return pkgerrors.Wrap(pkgerrors.CodeCouponRejected, err, "invalid or expired coupon").
						WithDetails(map[string]any{"reason": rejected.Reason, "code": rejected.Code})
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redeem coupons")
			}
			credited, err := s.loyalty.Award(ctx, tx, phone, order.Total)
			if err != nil {
				return err
			}
			placed, award = order, credited
			return nil
		})
	})
	if err != nil {
		result := metrics.ResultRejected
		if pkgerrors.IsRetryable(err) {
			result = metrics.ResultError
		}
		s.metrics.IncCheckout(result)
		return nil, err
	}

	s.metrics.IncCheckout(metrics.ResultOK)
	logCtx := s.logg.WithFields(s.logg.WithOrderID(ctx, placed.ID.String()), map[string]any{
		"order_number": placed.OrderNumber,
		"total":        placed.Total.StringFixed(2),
	})
	if view != nil && view.PersistenceWarning != "" {
		s.logg.Warn(logCtx, "order placed but cart clear was not persisted")
	}
	s.logg.Info(logCtx, "order placed")

	out := fromModel(*placed)
	out.Loyalty = award
	return &out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "load order")
	}
	out := fromModel(*row)
	return &out, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (*OrderList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	if filters.Phone != "" {
		phone, err := loyalty.NormalizePhone(filters.Phone)
		if err != nil {
			return nil, err
		}
		filters.Phone = phone
	}
	filters.SessionID = strings.TrimSpace(filters.SessionID)

	rows, next, err := s.repo.List(ctx, filters, params.Limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	out := &OrderList{Orders: make([]Order, 0, len(rows))}
	for _, row := range rows {
		out.Orders = append(out.Orders, fromModel(row))
	}
	if next != nil {
		out.NextCursor = pagination.EncodeCursor(*next)
	}
	return out, nil
}

// UpdateStatus moves an order to any valid status. Delivered and cancelled
// orders can no longer change.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status").
			WithDetails(map[string]any{"status": status})
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "load order")
	}
	if row.Status == status {
		out := fromModel(*row)
		return &out, nil
	}
	if row.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order status can no longer change").
			WithDetails(map[string]any{"current_status": row.Status, "requested_status": status})
	}

	updated, err := s.repo.UpdateStatus(ctx, id, row.Status, status, s.now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	if !updated {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order changed concurrently")
	}

	s.logg.Info(s.logg.WithFields(s.logg.WithOrderID(ctx, id.String()), map[string]any{
		"from_status": row.Status.String(),
		"to_status":   status.String(),
	}), "order status updated")
	return s.Get(ctx, id)
}

func validateCheckout(input CheckoutInput) (CheckoutInput, string, error) {
	input.CustomerName = strings.TrimSpace(input.CustomerName)
	input.DeliveryAddress = strings.TrimSpace(input.DeliveryAddress)

	fields := map[string]string{}
	if input.CustomerName == "" {
		fields["customer_name"] = "is required"
	}
	if input.DeliveryAddress == "" {
		fields["delivery_address"] = "is required"
	}
	if !input.PaymentMethod.IsValid() {
		fields["payment_method"] = "must be one of pix, credit_card, debit_card, cash"
	}
	phone, err := loyalty.NormalizePhone(input.CustomerPhone)
	if err != nil {
		fields["customer_phone"] = "must contain 10 to 13 digits"
	}
	if len(fields) > 0 {
		return input, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid checkout data").WithDetails(fields)
	}
	return input, phone, nil
}

func buildOrder(number, sessionID string, input CheckoutInput, phone string, c *cart.Cart, totals cart.Totals) *models.Order {
	order := &models.Order{
		OrderNumber:     number,
		SessionID:       sessionID,
		CustomerName:    input.CustomerName,
		CustomerPhone:   phone,
		DeliveryAddress: input.DeliveryAddress,
		PaymentMethod:   input.PaymentMethod,
		Status:          enums.OrderStatusPending,
		Notes:           optionalString(input.Notes),
		Subtotal:        totals.Subtotal,
		DeliveryFee:     totals.DeliveryFee,
		Discount:        totals.Discount,
		Total:           totals.Total,
		CouponCodes:     []string{},
	}
	for _, applied := range discounting(c) {
		order.CouponCodes = append(order.CouponCodes, applied.Coupon.Code)
	}
	for i, item := range c.Items() {
		order.LineItems = append(order.LineItems, models.OrderLineItem{
			ProductID:      item.Product.ID,
			ProductName:    item.Product.Name,
			SizeID:         item.SizeID,
			SizeName:       item.SizeName,
			Customizations: item.Customizations,
			Notes:          optionalString(item.Notes),
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			TotalPrice:     item.TotalPrice,
			Position:       i,
		})
	}
	return order
}

// discounting drops applied coupons that currently take nothing off, such as
// one whose minimum order is no longer met. They are neither redeemed nor recorded.
func discounting(c *cart.Cart) []cart.AppliedCoupon {
	var out []cart.AppliedCoupon
	for _, a := range c.AppliedCoupons() {
		if a.DiscountAmount.IsPositive() {
			out = append(out, a)
		}
	}
	return out
}

func couponIDs(c *cart.Cart) []uuid.UUID {
	applied := discounting(c)
	ids := make([]uuid.UUID, 0, len(applied))
	for _, a := range applied {
		ids = append(ids, a.Coupon.ID)
	}
	return ids
}

func mapRepoError(err error, action string) error {
	if errors.Is(err, ErrOrderNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
