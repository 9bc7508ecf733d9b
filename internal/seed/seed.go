// Package seed loads a JSON menu fixture into the catalog and coupon tables.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/catalog"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/coupons"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/db/models"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/enums"
)

//go:embed menu.json
var defaultMenu []byte

type Fixture struct {
	Categories []Category `json:"categories" validate:"required,min=1,dive"`
	Products   []Product  `json:"products" validate:"dive"`
	Coupons    []Coupon   `json:"coupons" validate:"dive"`
}

type Category struct {
	ID   *uuid.UUID `json:"id"`
	Name string     `json:"name" validate:"required"`
	Slug string     `json:"slug" validate:"required"`
}

type Product struct {
	ID                 *uuid.UUID       `json:"id"`
	Category           string           `json:"category" validate:"required"`
	Name               string           `json:"name" validate:"required"`
	Description        string           `json:"description"`
	ImageURL           *string          `json:"image_url"`
	Price              decimal.Decimal  `json:"price"`
	DiscountedPrice    *decimal.Decimal `json:"discounted_price"`
	Unavailable        bool             `json:"unavailable"`
	Featured           bool             `json:"featured"`
	PreparationMinutes int              `json:"preparation_minutes" validate:"gte=0"`
	Rating             decimal.Decimal  `json:"rating"`
	Sizes              []Size           `json:"sizes" validate:"dive"`
	Customizations     []Group          `json:"customizations" validate:"dive"`
}

type Size struct {
	Name          string          `json:"name" validate:"required"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
	Unavailable   bool            `json:"unavailable"`
}

type Group struct {
	Name          string   `json:"name" validate:"required"`
	Required      bool     `json:"required"`
	MaxSelections *int     `json:"max_selections" validate:"omitempty,gt=0"`
	SelectionMode string   `json:"selection_mode" validate:"omitempty,oneof=single multiple quantity"`
	Options       []Option `json:"options" validate:"required,min=1,dive"`
}

type Option struct {
	Name          string          `json:"name" validate:"required"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
	MaxQuantity   *int            `json:"max_quantity" validate:"omitempty,gt=0"`
	Unavailable   bool            `json:"unavailable"`
}

type Coupon struct {
	Code          string           `json:"code" validate:"required"`
	Description   string           `json:"description"`
	DiscountType  string           `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue decimal.Decimal  `json:"discount_value"`
	MinOrderValue decimal.Decimal  `json:"min_order_value"`
	MaxDiscount   *decimal.Decimal `json:"max_discount"`
	ValidFrom     *time.Time       `json:"valid_from"`
	ValidUntil    *time.Time       `json:"valid_until"`
	UsageLimit    *int             `json:"usage_limit" validate:"omitempty,gte=0"`
	Inactive      bool             `json:"inactive"`
}

// Default returns the bundled storefront menu.
func Default() (*Fixture, error) {
	return Load(bytes.NewReader(defaultMenu))
}

// Load decodes and validates a fixture. Unknown fields are rejected.
func Load(r io.Reader) (*Fixture, error) {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	var f Fixture
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if err := validator.New().Struct(&f); err != nil {
		return nil, fmt.Errorf("validate fixture: %w", err)
	}
	if err := f.check(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *Fixture) check() error {
	slugs := map[string]bool{}
	for _, c := range f.Categories {
		if slugs[c.Slug] {
			return fmt.Errorf("duplicate category slug %q", c.Slug)
		}
		slugs[c.Slug] = true
	}
	for _, p := range f.Products {
		if !slugs[p.Category] {
			return fmt.Errorf("product %q references unknown category %q", p.Name, p.Category)
		}
		if p.Price.IsNegative() {
			return fmt.Errorf("product %q has a negative price", p.Name)
		}
		if p.DiscountedPrice != nil && p.DiscountedPrice.IsNegative() {
			return fmt.Errorf("product %q has a negative discounted price", p.Name)
		}
	}
	codes := map[string]bool{}
	for _, c := range f.Coupons {
		code := coupons.NormalizeCode(c.Code)
		if codes[code] {
			return fmt.Errorf("duplicate coupon code %q", code)
		}
		codes[code] = true
		if c.DiscountValue.IsNegative() {
			return fmt.Errorf("coupon %q has a negative value", code)
		}
	}
	return nil
}

// Rows converts the fixture into catalog rows. Positions follow fixture order
// and missing ids are generated.
func (f *Fixture) Rows() ([]models.Category, []models.Product) {
	categories := make([]models.Category, 0, len(f.Categories))
	bySlug := map[string]uuid.UUID{}
	for i, c := range f.Categories {
		id := idOrNew(c.ID)
		bySlug[c.Slug] = id
		categories = append(categories, models.Category{
			ID: id, Name: c.Name, Slug: c.Slug, Position: i + 1, IsActive: true,
		})
	}

	products := make([]models.Product, 0, len(f.Products))
	for i, p := range f.Products {
		id := idOrNew(p.ID)
		row := models.Product{
			ID:                 id,
			CategoryID:         bySlug[p.Category],
			Name:               p.Name,
			Description:        p.Description,
			ImageURL:           p.ImageURL,
			Price:              p.Price,
			DiscountedPrice:    p.DiscountedPrice,
			IsAvailable:        !p.Unavailable,
			IsFeatured:         p.Featured,
			PreparationMinutes: p.PreparationMinutes,
			Rating:             p.Rating,
			Position:           i + 1,
		}
		for j, s := range p.Sizes {
			row.Sizes = append(row.Sizes, models.ProductSize{
				ID: uuid.New(), ProductID: id, Name: s.Name,
				PriceModifier: s.PriceModifier, IsAvailable: !s.Unavailable, Position: j,
			})
		}
		for j, g := range p.Customizations {
			group := models.CustomizationGroup{
				ID:            uuid.New(),
				ProductID:     id,
				Name:          g.Name,
				IsRequired:    g.Required,
				MaxSelections: g.MaxSelections,
				SelectionMode: selectionMode(g),
				Position:      j,
			}
			for k, o := range g.Options {
				group.Options = append(group.Options, models.CustomizationOption{
					ID: uuid.New(), GroupID: group.ID, Name: o.Name,
					PriceModifier: o.PriceModifier, MaxQuantity: o.MaxQuantity,
					IsAvailable: !o.Unavailable, Position: k,
				})
			}
			row.Groups = append(row.Groups, group)
		}
		products = append(products, row)
	}
	return categories, products
}

// CouponRules converts the fixture coupons. Codes are normalized.
func (f *Fixture) CouponRules() []coupons.Coupon {
	out := make([]coupons.Coupon, 0, len(f.Coupons))
	for _, c := range f.Coupons {
		out = append(out, coupons.Coupon{
			Code:          coupons.NormalizeCode(c.Code),
			Description:   c.Description,
			DiscountType:  enums.CouponType(c.DiscountType),
			DiscountValue: c.DiscountValue,
			MinOrderValue: c.MinOrderValue,
			MaxDiscount:   c.MaxDiscount,
			ValidFrom:     c.ValidFrom,
			ValidUntil:    c.ValidUntil,
			UsageLimit:    c.UsageLimit,
			IsActive:      !c.Inactive,
		})
	}
	return out
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Summary reports what Apply wrote.
type Summary struct {
	Categories int
	Products   int
	Coupons    int
}

// Apply replaces the catalog and upserts coupons in one transaction.
// Existing coupon usage counts survive a reseed.
func Apply(ctx context.Context, db txRunner, f *Fixture) (Summary, error) {
	categories, products := f.Rows()
	rules := f.CouponRules()
	err := db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := catalog.NewRepository(tx).ReplaceCatalog(ctx, categories, products); err != nil {
			return fmt.Errorf("replace catalog: %w", err)
		}
		couponRepo := coupons.NewRepository(tx)
		for _, c := range rules {
			if err := couponRepo.Upsert(ctx, c); err != nil {
				return fmt.Errorf("upsert coupon %s: %w", c.Code, err)
			}
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	return Summary{Categories: len(categories), Products: len(products), Coupons: len(rules)}, nil
}

func idOrNew(id *uuid.UUID) uuid.UUID {
	if id != nil && *id != uuid.Nil {
		return *id
	}
	return uuid.New()
}

func selectionMode(g Group) enums.SelectionMode {
	if g.SelectionMode != "" {
		return enums.SelectionMode(g.SelectionMode)
	}
	if g.MaxSelections != nil && *g.MaxSelections == 1 {
		return enums.SelectionModeSingle
	}
	return enums.SelectionModeMultiple
}
