package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/cart"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/catalog/catalogtest"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/coupons"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/loyalty"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/selection"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/config"
	pkgdb "github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/db"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/db/dbtest"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/db/models"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/enums"
	pkgerrors "github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/errors"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/logger"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/pagination"
)

var policy = cart.DeliveryPolicy{
	FreeDeliveryThreshold: catalogtest.D("50.00"),
	FlatDeliveryFee:       catalogtest.D("8.90"),
}

// memoryCarts runs checkouts against one in-memory cart.
type memoryCarts struct {
	cart *cart.Cart
}

func (m *memoryCarts) Checkout(ctx context.Context, _ string, place func(context.Context, *cart.Cart, cart.Totals) error) (*cart.View, error) {
	if m.cart.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}
	if err := place(ctx, m.cart, m.cart.Totals(policy)); err != nil {
		return nil, err
	}
	m.cart.Clear()
	return &cart.View{}, nil
}

type sequence struct{ n int }

func (s *sequence) Next(context.Context) (string, error) {
	s.n++
	return fmt.Sprintf("JC-TEST-%04d", s.n), nil
}

type fixture struct {
	db        *gorm.DB
	svc       Service
	carts     *memoryCarts
	coupons   *coupons.Repository
	validator *coupons.Validator
	loyalty   loyalty.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	couponRepo := coupons.NewRepository(db)
	validator, err := coupons.NewValidator(couponRepo, config.CouponsConfig{BreakerMinRequests: 100, BreakerFailureRatio: 1}, nil, logger.Nop())
	require.NoError(t, err)
	loyaltySvc, err := loyalty.NewService(loyalty.NewRepository(db), logger.Nop())
	require.NoError(t, err)

	carts := &memoryCarts{cart: cart.New()}
	svc, err := NewService(Deps{
		Repo:    NewRepository(db),
		Tx:      pkgdb.NewFromConn(db),
		Carts:   carts,
		Coupons: couponRepo,
		Loyalty: loyaltySvc,
		Numbers: &sequence{},
		Logger:  logger.Nop(),
	})
	require.NoError(t, err)
	return &fixture{db: db, svc: svc, carts: carts, coupons: couponRepo, validator: validator, loyalty: loyaltySvc}
}

func (f *fixture) addPastel(t *testing.T, qty int) {
	t.Helper()
	_, err := f.carts.cart.AddItem(catalogtest.Pastel(), cart.AddOptions{
		Selections: []selection.Selection{{GroupID: catalogtest.SaboresID, OptionID: catalogtest.CarneID, Quantity: 1}},
		Quantity:   qty,
		Notes:      "sem cebola",
	})
	require.NoError(t, err)
}

func (f *fixture) seedCoupon(t *testing.T, code string, limit *int) {
	t.Helper()
	f.seedCouponMin(t, code, limit, "0")
}

func (f *fixture) seedCouponMin(t *testing.T, code string, limit *int, minOrder string) {
	t.Helper()
	require.NoError(t, f.coupons.Upsert(context.Background(), coupons.Coupon{
		Code:          code,
		DiscountType:  enums.CouponTypeFixed,
		DiscountValue: catalogtest.D("5.00"),
		MinOrderValue: catalogtest.D(minOrder),
		IsActive:      true,
		UsageLimit:    limit,
	}))
}

func (f *fixture) couponUsage(t *testing.T, code string) int {
	t.Helper()
	coupon, err := f.coupons.FindByCode(context.Background(), code)
	require.NoError(t, err)
	require.NotNil(t, coupon)
	return coupon.UsageCount
}

func validInput() CheckoutInput {
	return CheckoutInput{
		CustomerName:    "Maria Silva",
		CustomerPhone:   "(11) 98888-7777",
		DeliveryAddress: "Rua das Flores, 123",
		PaymentMethod:   enums.PaymentMethodPix,
		Notes:           "interfone 12",
	}
}

func TestCheckoutPlacesOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedCoupon(t, "CINCO", nil)
	f.addPastel(t, 2)
	_, err := f.carts.cart.ApplyCoupon(ctx, "cinco", f.validator)
	require.NoError(t, err)

	order, err := f.svc.Checkout(ctx, "sess-1", validInput())
	require.NoError(t, err)

	assert.Equal(t, "JC-TEST-0001", order.OrderNumber)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Equal(t, "11988887777", order.CustomerPhone)
	assert.True(t, catalogtest.D("25.80").Equal(order.Subtotal))
	assert.True(t, catalogtest.D("8.90").Equal(order.DeliveryFee))
	assert.True(t, catalogtest.D("5.00").Equal(order.Discount))
	assert.True(t, catalogtest.D("29.70").Equal(order.Total))
	assert.Equal(t, []string{"CINCO"}, order.CouponCodes)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
	require.NotNil(t, order.Items[0].Notes)
	assert.Equal(t, "sem cebola", *order.Items[0].Notes)
	require.NotNil(t, order.Loyalty)
	assert.Equal(t, 29, order.Loyalty.PointsEarned)

	assert.True(t, f.carts.cart.IsEmpty(), "cart is cleared after checkout")

	stored, err := f.svc.Get(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "Carne", stored.Items[0].Customizations[0].Options[0].OptionName)

	coupon, err := f.coupons.FindByCode(ctx, "CINCO")
	require.NoError(t, err)
	assert.Equal(t, 1, coupon.UsageCount)
}

func TestCheckoutValidation(t *testing.T) {
	f := newFixture(t)
	f.addPastel(t, 1)

	_, err := f.svc.Checkout(context.Background(), "sess", CheckoutInput{PaymentMethod: "boleto", CustomerPhone: "12"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details := typed.Details().(map[string]string)
	assert.Contains(t, details, "customer_name")
	assert.Contains(t, details, "customer_phone")
	assert.Contains(t, details, "payment_method")
	assert.Contains(t, details, "delivery_address")
	assert.False(t, f.carts.cart.IsEmpty())
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Checkout(context.Background(), "sess", validInput())
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeEmptyCart))
}

func TestCheckoutRollsBackWhenCouponExhausted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	limit := 1
	f.seedCoupon(t, "UNICO", &limit)
	f.addPastel(t, 1)
	_, err := f.carts.cart.ApplyCoupon(ctx, "UNICO", f.validator)
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&models.Coupon{}).Where("code = ?", "UNICO").Update("usage_count", 1).Error)

	_, err = f.svc.Checkout(ctx, "sess", validInput())
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeCouponRejected))
	assert.False(t, f.carts.cart.IsEmpty(), "failed checkout keeps the cart")

	var count int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)

	account, err := f.loyalty.Get(ctx, validInput().CustomerPhone)
	require.NoError(t, err)
	assert.Zero(t, account.OrdersCount)
}

func TestCheckoutSkipsCouponWithoutDiscount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	limit := 1
	f.seedCouponMin(t, "MIN40", &limit, "40.00")
	f.addPastel(t, 4)
	_, err := f.carts.cart.ApplyCoupon(ctx, "MIN40", f.validator)
	require.NoError(t, err)

	f.carts.cart.UpdateQuantity(f.carts.cart.Items()[0].ID, 1)
	require.Len(t, f.carts.cart.AppliedCoupons(), 1)
	require.True(t, f.carts.cart.AppliedCoupons()[0].DiscountAmount.IsZero())

	order, err := f.svc.Checkout(ctx, "sess", validInput())
	require.NoError(t, err)
	assert.True(t, order.Discount.IsZero())
	assert.Empty(t, order.CouponCodes)
	assert.Zero(t, f.couponUsage(t, "MIN40"), "a coupon that gave nothing keeps its use")
}

func TestCheckoutRejectsCouponNoLongerEligible(t *testing.T) {
	cases := []struct {
		name   string
		change map[string]any
		reason string
	}{
		{"expired", map[string]any{"valid_until": time.Now().UTC().Add(-time.Hour)}, coupons.ReasonExpired},
		{"deactivated", map[string]any{"is_active": false}, coupons.ReasonInactive},
		{"not yet valid", map[string]any{"valid_from": time.Now().UTC().Add(24 * time.Hour)}, coupons.ReasonNotYetValid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			f.seedCoupon(t, "CINCO", nil)
			f.addPastel(t, 2)
			_, err := f.carts.cart.ApplyCoupon(ctx, "CINCO", f.validator)
			require.NoError(t, err)

			require.NoError(t, f.db.Model(&models.Coupon{}).Where("code = ?", "CINCO").Updates(tc.change).Error)

			_, err = f.svc.Checkout(ctx, "sess", validInput())
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeCouponRejected, typed.Code())
			details := typed.Details().(map[string]any)
			assert.Equal(t, tc.reason, details["reason"])
			assert.Equal(t, "CINCO", details["code"])

			assert.False(t, f.carts.cart.IsEmpty(), "rejected checkout keeps the cart")
			var count int64
			require.NoError(t, f.db.Model(&models.Order{}).Count(&count).Error)
			assert.Zero(t, count)
			assert.Zero(t, f.couponUsage(t, "CINCO"))
		})
	}
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addPastel(t, 1)
	order, err := f.svc.Checkout(ctx, "sess", validInput())
	require.NoError(t, err)

	updated, err := f.svc.UpdateStatus(ctx, order.ID, enums.OrderStatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPreparing, updated.Status)

	same, err := f.svc.UpdateStatus(ctx, order.ID, enums.OrderStatusPreparing)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPreparing, same.Status)

	_, err = f.svc.UpdateStatus(ctx, order.ID, enums.OrderStatus("lost"))
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = f.svc.UpdateStatus(ctx, order.ID, enums.OrderStatusDelivered)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, order.ID, enums.OrderStatusCancelled)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))

	_, err = f.svc.UpdateStatus(ctx, uuid.New(), enums.OrderStatusConfirmed)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestListPaginatesNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := NewRepository(f.db)
	base := time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &models.Order{
			OrderNumber:     fmt.Sprintf("JC-LIST-%d", i),
			SessionID:       "sess-list",
			CustomerName:    "Ana",
			CustomerPhone:   "11977776666",
			DeliveryAddress: "Av. Brasil, 10",
			PaymentMethod:   enums.PaymentMethodCash,
			Status:          enums.OrderStatusPending,
			Subtotal:        catalogtest.D("10"),
			DeliveryFee:     catalogtest.D("8.90"),
			Discount:        catalogtest.D("0"),
			Total:           catalogtest.D("18.90"),
			CreatedAt:       base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, repo.Create(ctx, &models.Order{
		OrderNumber: "JC-OTHER", SessionID: "other", CustomerName: "Bia", CustomerPhone: "11911112222",
		DeliveryAddress: "Rua A", PaymentMethod: enums.PaymentMethodPix, Status: enums.OrderStatusPending,
		Subtotal: catalogtest.D("1"), DeliveryFee: catalogtest.D("0"), Discount: catalogtest.D("0"), Total: catalogtest.D("1"),
	}))

	first, err := f.svc.List(ctx, ListFilters{Phone: "(11) 97777-6666"}, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Orders, 2)
	assert.Equal(t, "JC-LIST-2", first.Orders[0].OrderNumber)
	assert.Equal(t, "JC-LIST-1", first.Orders[1].OrderNumber)
	require.NotEmpty(t, first.NextCursor)

	second, err := f.svc.List(ctx, ListFilters{SessionID: "sess-list"}, pagination.Params{Limit: 2, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Orders, 1)
	assert.Equal(t, "JC-LIST-0", second.Orders[0].OrderNumber)
	assert.Empty(t, second.NextCursor)

	_, err = f.svc.List(ctx, ListFilters{}, pagination.Params{Cursor: "%%%"})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}
