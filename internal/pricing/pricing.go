// Package pricing computes unit and line prices for a configured product.
package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/catalog"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/selection"
	pkgerrors "github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/errors"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/money"
)

// Quote is the priced result for one product configuration.
type Quote struct {
	BasePrice     decimal.Decimal `json:"base_price"`
	SizeModifier  decimal.Decimal `json:"size_modifier"`
	OptionsAmount decimal.Decimal `json:"options_amount"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      int             `json:"quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	// SizeName is empty when no size resolved.
	SizeName string `json:"size_name,omitempty"`
}

// Price applies the size and option modifiers to the product's base price.
// Unresolved sizes, groups and options contribute nothing. The unit price is
// rounded to centavos and never negative.
func Price(product catalog.Product, sizeID *uuid.UUID, selections []selection.Selection, quantity int) (Quote, error) {
	if quantity < 1 {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	quote := Quote{
		BasePrice:     product.BasePrice(),
		SizeModifier:  decimal.Zero,
		OptionsAmount: decimal.Zero,
		Quantity:      quantity,
	}

	if sizeID != nil {
		if size, ok := product.Size(*sizeID); ok {
			quote.SizeModifier = size.PriceModifier
			quote.SizeName = size.Name
		}
	}

	for _, sel := range selections {
		if sel.Quantity <= 0 {
			continue
		}
		_, option, ok := product.Option(sel.GroupID, sel.OptionID)
		if !ok {
			continue
		}
		quote.OptionsAmount = quote.OptionsAmount.Add(option.PriceModifier.Mul(decimal.NewFromInt(int64(sel.Quantity))))
	}

	unit := money.Sum(quote.BasePrice, quote.SizeModifier, quote.OptionsAmount)
	quote.UnitPrice = money.NonNegative(money.Round(unit))
	quote.TotalPrice = LineTotal(quote.UnitPrice, quantity)
	return quote, nil
}

// LineTotal is unit price times quantity, rounded to centavos.
func LineTotal(unit decimal.Decimal, quantity int) decimal.Decimal {
	return money.Round(unit.Mul(decimal.NewFromInt(int64(quantity))))
}
