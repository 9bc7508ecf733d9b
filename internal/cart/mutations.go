package cart

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/catalog"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/coupons"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/pricing"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/selection"
	pkgerrors "github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/errors"
)

// MaxLineQuantity caps the quantity of a single line item.
const MaxLineQuantity = 99

// AddOptions describes the configuration being added.
type AddOptions struct {
	SizeID     *uuid.UUID
	Selections []selection.Selection
	Quantity   int
	Notes      string
}

// CouponValidator checks a code against the current subtotal.
type CouponValidator interface {
	Validate(ctx context.Context, code string, subtotal decimal.Decimal) (coupons.Coupon, decimal.Decimal, error)
}

// AddItem prices the configuration and stores it as a line item. A line with
// the same product, size, customizations and notes absorbs the quantity
// instead; its unit price stays the one fixed at first add and the merged
// quantity is capped at MaxLineQuantity.
//
// Selections are replayed through a selection.Resolver so stored lines always
// respect group and option caps. On error the cart is unchanged.
func (c *Cart) AddItem(product catalog.Product, opts AddOptions) (LineItem, error) {
	if !product.IsAvailable {
		return LineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "product is unavailable").
			WithDetails(map[string]any{"product_id": product.ID})
	}
	if opts.Quantity < 1 || opts.Quantity > MaxLineQuantity {
		return LineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be between 1 and 99")
	}

	selections, err := normalizeSelections(product, opts.Selections)
	if err != nil {
		return LineItem{}, err
	}

	var sizeID *uuid.UUID
	var sizeName *string
	if opts.SizeID != nil {
		if size, ok := product.Size(*opts.SizeID); ok {
			if !size.IsAvailable {
				return LineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "size is unavailable").
					WithDetails(map[string]any{"size_id": size.ID})
			}
			id, name := size.ID, size.Name
			sizeID, sizeName = &id, &name
		}
	}

	quote, err := pricing.Price(product, sizeID, selections, opts.Quantity)
	if err != nil {
		return LineItem{}, err
	}

	customizations := selection.ResolveForCart(product, selections)
	notes := strings.TrimSpace(opts.Notes)
	key := identityKey(product.ID, sizeID, customizations, notes)

	for i := range c.items {
		item := &c.items[i]
		if identityKey(item.Product.ID, item.SizeID, item.Customizations, item.Notes) != key {
			continue
		}
		item.Quantity = min(item.Quantity+opts.Quantity, MaxLineQuantity)
		item.TotalPrice = pricing.LineTotal(item.UnitPrice, item.Quantity)
		c.recompute()
		return *item, nil
	}

	item := LineItem{
		ID:             c.newID(),
		Product:        snapshotProduct(product),
		SizeID:         sizeID,
		SizeName:       sizeName,
		Customizations: customizations,
		Notes:          notes,
		Quantity:       opts.Quantity,
		UnitPrice:      quote.UnitPrice,
		TotalPrice:     quote.TotalPrice,
		CreatedAt:      c.now().UTC(),
	}
	c.items = append(c.items, item)
	c.recompute()
	return item, nil
}

// UpdateQuantity sets an item's quantity, capped at MaxLineQuantity. Zero or
// less removes the item and unknown ids are ignored.
func (c *Cart) UpdateQuantity(id uuid.UUID, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(id)
		return
	}
	idx := c.indexOf(id)
	if idx < 0 {
		return
	}
	quantity = min(quantity, MaxLineQuantity)
	c.items[idx].Quantity = quantity
	c.items[idx].TotalPrice = pricing.LineTotal(c.items[idx].UnitPrice, quantity)
	c.recompute()
}

// RemoveItem deletes a line item. Unknown ids are ignored.
func (c *Cart) RemoveItem(id uuid.UUID) {
	idx := c.indexOf(id)
	if idx < 0 {
		return
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	c.recompute()
}

// Clear drops every line item and applied coupon.
func (c *Cart) Clear() {
	c.items = nil
	c.coupons = nil
}

// ApplyCoupon validates code and applies it, replacing an earlier application
// of the same coupon. Validation errors are returned unchanged and leave the
// cart as it was.
func (c *Cart) ApplyCoupon(ctx context.Context, code string, validator CouponValidator) (AppliedCoupon, error) {
	if validator == nil {
		return AppliedCoupon{}, pkgerrors.New(pkgerrors.CodeDependency, "coupon validator unavailable")
	}
	coupon, discount, err := validator.Validate(ctx, code, c.subtotal())
	if err != nil {
		return AppliedCoupon{}, err
	}

	c.dropCoupon(coupon.ID)
	applied := AppliedCoupon{
		Coupon:         coupon,
		DiscountAmount: discount,
		AppliedAt:      c.now().UTC(),
	}
	c.coupons = append(c.coupons, applied)
	return applied, nil
}

// RemoveCoupon drops an applied coupon. Unknown ids are ignored.
func (c *Cart) RemoveCoupon(couponID uuid.UUID) {
	c.dropCoupon(couponID)
}

func (c *Cart) dropCoupon(couponID uuid.UUID) {
	kept := c.coupons[:0]
	for _, applied := range c.coupons {
		if applied.Coupon.ID != couponID {
			kept = append(kept, applied)
		}
	}
	c.coupons = kept
}

// normalizeSelections replays selections through a resolver. Entries naming
// groups or options the product lacks are skipped, quantities above an
// option's max are clamped, and the caps and required groups are enforced.
func normalizeSelections(product catalog.Product, in []selection.Selection) ([]selection.Selection, error) {
	resolver := selection.NewResolver(product)
	for _, sel := range in {
		switch resolver.SetQuantity(sel.GroupID, sel.OptionID, sel.Quantity) {
		case selection.OutcomeLimitReached:
			group, _ := product.Group(sel.GroupID)
			return nil, pkgerrors.New(pkgerrors.CodeSelectionLimit, "too many options selected").
				WithDetails(map[string]any{
					"group_id":       group.ID,
					"group_name":     group.Name,
					"max_selections": group.MaxSelections,
				})
		case selection.OutcomeUnavailable:
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "option is unavailable").
				WithDetails(map[string]any{"group_id": sel.GroupID, "option_id": sel.OptionID})
		}
	}

	if missing := resolver.MissingRequired(); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, group := range missing {
			names = append(names, group.Name)
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "required customizations missing").
			WithDetails(map[string]any{"groups": names})
	}
	return resolver.Selections(), nil
}
