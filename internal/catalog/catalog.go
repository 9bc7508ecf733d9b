package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/enums"
)

// Category is a storefront menu section.
type Category struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Slug     string    `json:"slug"`
	Position int       `json:"position"`
}

// Product is immutable reference data for selection and pricing.
// Sizes and Groups are kept in display order.
type Product struct {
	ID                 uuid.UUID            `json:"id"`
	CategoryID         uuid.UUID            `json:"category_id"`
	Name               string               `json:"name"`
	Description        string               `json:"description"`
	ImageURL           *string              `json:"image_url,omitempty"`
	Price              decimal.Decimal      `json:"price"`
	DiscountedPrice    *decimal.Decimal     `json:"discounted_price,omitempty"`
	IsAvailable        bool                 `json:"is_available"`
	IsFeatured         bool                 `json:"is_featured"`
	PreparationMinutes int                  `json:"preparation_minutes"`
	Rating             decimal.Decimal      `json:"rating"`
	Sizes              []Size               `json:"sizes"`
	Groups             []CustomizationGroup `json:"customizations"`
}

// Size is a product variant with a signed price delta applied once per unit.
type Size struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
	IsAvailable   bool            `json:"is_available"`
}

// CustomizationGroup caps how many distinct options may be chosen.
// A nil MaxSelections is unbounded.
type CustomizationGroup struct {
	ID            uuid.UUID             `json:"id"`
	Name          string                `json:"name"`
	IsRequired    bool                  `json:"is_required"`
	MaxSelections *int                  `json:"max_selections,omitempty"`
	SelectionMode enums.SelectionMode   `json:"selection_mode"`
	Options       []CustomizationOption `json:"options"`
}

// CustomizationOption carries a per-unit price delta and an optional quantity cap.
type CustomizationOption struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
	MaxQuantity   *int            `json:"max_quantity,omitempty"`
	IsAvailable   bool            `json:"is_available"`
}

// BasePrice is the discounted price when present, otherwise the list price.
func (p Product) BasePrice() decimal.Decimal {
	if p.DiscountedPrice != nil {
		return *p.DiscountedPrice
	}
	return p.Price
}

// Size looks up a size by id.
func (p Product) Size(id uuid.UUID) (Size, bool) {
	for _, size := range p.Sizes {
		if size.ID == id {
			return size, true
		}
	}
	return Size{}, false
}

// Group looks up a customization group by id.
func (p Product) Group(id uuid.UUID) (CustomizationGroup, bool) {
	for _, group := range p.Groups {
		if group.ID == id {
			return group, true
		}
	}
	return CustomizationGroup{}, false
}

// Option resolves a group and an option inside it in one step.
func (p Product) Option(groupID, optionID uuid.UUID) (CustomizationGroup, CustomizationOption, bool) {
	group, ok := p.Group(groupID)
	if !ok {
		return CustomizationGroup{}, CustomizationOption{}, false
	}
	option, ok := group.Option(optionID)
	if !ok {
		return CustomizationGroup{}, CustomizationOption{}, false
	}
	return group, option, true
}

// Option looks up an option by id.
func (g CustomizationGroup) Option(id uuid.UUID) (CustomizationOption, bool) {
	for _, option := range g.Options {
		if option.ID == id {
			return option, true
		}
	}
	return CustomizationOption{}, false
}

// AllowsAnother reports whether a group with distinct selections already
// chosen can take one more.
func (g CustomizationGroup) AllowsAnother(distinct int) bool {
	return g.MaxSelections == nil || distinct < *g.MaxSelections
}

// Clamp caps quantity at MaxQuantity. The second value reports whether it was lowered.
func (o CustomizationOption) Clamp(quantity int) (int, bool) {
	if o.MaxQuantity != nil && quantity > *o.MaxQuantity {
		return *o.MaxQuantity, true
	}
	return quantity, false
}
