// Package cart owns the storefront cart: line items, applied coupons and the
// totals derived from them, plus the per-session service that persists it.
package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/catalog"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/coupons"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/config"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/money"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/types"
)

// ProductSnapshot is the catalog data frozen on a line item when it is added.
type ProductSnapshot struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	ImageURL        *string          `json:"image_url,omitempty"`
	Price           decimal.Decimal  `json:"price"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price,omitempty"`
}

// LineItem is one product configuration and its order quantity.
// UnitPrice is fixed when the item is first added.
type LineItem struct {
	ID             uuid.UUID                `json:"id"`
	Product        ProductSnapshot          `json:"product"`
	SizeID         *uuid.UUID               `json:"size_id,omitempty"`
	SizeName       *string                  `json:"size_name,omitempty"`
	Customizations types.LineCustomizations `json:"customizations"`
	Notes          string                   `json:"notes,omitempty"`
	Quantity       int                      `json:"quantity"`
	UnitPrice      decimal.Decimal          `json:"unit_price"`
	TotalPrice     decimal.Decimal          `json:"total_price"`
	CreatedAt      time.Time                `json:"created_at"`
}

// AppliedCoupon is a validated coupon and the discount it currently gives.
type AppliedCoupon struct {
	Coupon         coupons.Coupon  `json:"coupon"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	AppliedAt      time.Time       `json:"applied_at"`
}

// DeliveryPolicy decides the delivery fee from the subtotal.
type DeliveryPolicy struct {
	FreeDeliveryThreshold decimal.Decimal
	FlatDeliveryFee       decimal.Decimal
}

// PolicyFromConfig reads the delivery settings of the cart config.
func PolicyFromConfig(cfg config.CartConfig) DeliveryPolicy {
	return DeliveryPolicy{
		FreeDeliveryThreshold: cfg.FreeDeliveryThreshold,
		FlatDeliveryFee:       cfg.FlatDeliveryFee,
	}
}

// Fee is zero at or above the threshold and the flat fee below it.
func (p DeliveryPolicy) Fee(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(p.FreeDeliveryThreshold) {
		return decimal.Zero
	}
	return p.FlatDeliveryFee
}

// Totals is the read-only money view of a cart.
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
	ItemCount   int             `json:"item_count"`
}

// Cart is the aggregate of line items and applied coupons. Every mutation
// leaves the applied coupon discounts consistent with the current subtotal.
// A Cart is not safe for concurrent use.
type Cart struct {
	items   []LineItem
	coupons []AppliedCoupon
	now     func() time.Time
	newID   func() uuid.UUID
}

// Option customizes a Cart.
type Option func(*Cart)

// WithClock replaces time.Now for created and applied timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Cart) {
		c.now = now
	}
}

// WithIDs replaces uuid.New for line item ids.
func WithIDs(newID func() uuid.UUID) Option {
	return func(c *Cart) {
		c.newID = newID
	}
}

// New returns an empty cart.
func New(opts ...Option) *Cart {
	c := &Cart{
		now:   time.Now,
		newID: uuid.New,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Items returns a copy of the line items in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// AppliedCoupons returns a copy of the applied coupons in application order.
func (c *Cart) AppliedCoupons() []AppliedCoupon {
	out := make([]AppliedCoupon, len(c.coupons))
	copy(out, c.coupons)
	return out
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Item looks up a line item by id.
func (c *Cart) Item(id uuid.UUID) (LineItem, bool) {
	if idx := c.indexOf(id); idx >= 0 {
		return c.items[idx], true
	}
	return LineItem{}, false
}

// Totals recomputes subtotal, delivery fee, discount and total.
func (c *Cart) Totals(policy DeliveryPolicy) Totals {
	subtotal := c.subtotal()
	discount := decimal.Zero
	for _, applied := range c.coupons {
		discount = discount.Add(applied.DiscountAmount)
	}
	fee := policy.Fee(subtotal)
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return Totals{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Discount:    money.Round(discount),
		Total:       money.NonNegative(money.Round(subtotal.Add(fee).Sub(discount))),
		ItemCount:   count,
	}
}

func (c *Cart) subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range c.items {
		subtotal = subtotal.Add(item.TotalPrice)
	}
	return money.Round(subtotal)
}

func (c *Cart) indexOf(id uuid.UUID) int {
	for i, item := range c.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// recompute refreshes every applied coupon's discount against the subtotal.
func (c *Cart) recompute() {
	subtotal := c.subtotal()
	for i := range c.coupons {
		c.coupons[i].DiscountAmount = c.coupons[i].Coupon.Discount(subtotal)
	}
}

func snapshotProduct(p catalog.Product) ProductSnapshot {
	return ProductSnapshot{
		ID:              p.ID,
		Name:            p.Name,
		ImageURL:        p.ImageURL,
		Price:           p.Price,
		DiscountedPrice: p.DiscountedPrice,
	}
}
