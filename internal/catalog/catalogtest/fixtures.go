// Package catalogtest provides a small fixed menu for tests.
package catalogtest

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/catalog"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/enums"
)

var (
	ProductID = uuid.MustParse("7d1c6f3e-6a55-4b59-9c1e-0a3f6e2f0001")

	SizeMedioID  = uuid.MustParse("7d1c6f3e-6a55-4b59-9c1e-0a3f6e2f0101")
	SizeGrandeID = uuid.MustParse("7d1c6f3e-6a55-4b59-9c1e-0a3f6e2f0102")

	SaboresID = uuid.MustParse("7d1c6f3e-6a55-4b59-9c1e-0a3f6e2f0201")
	CarneID   = uuid.MustParse("7d1c6f3e-6a55-4b59-9c1e-0a3f6e2f0211")
	QueijoID  = uuid.MustParse("7d1c6f3e-6a55-4b59-9c1e-0a3f6e2f0212")
	FrangoID  = uuid.MustParse("7d1c6f3e-6a55-4b59-9c1e-0a3f6e2f0213")
	PalmitoID = uuid.MustParse("7d1c6f3e-6a55-4b59-9c1e-0a3f6e2f0214")

	AdicionaisID = uuid.MustParse("7d1c6f3e-6a55-4b59-9c1e-0a3f6e2f0301")
	CatupiryID   = uuid.MustParse("7d1c6f3e-6a55-4b59-9c1e-0a3f6e2f0311")
	BaconID      = uuid.MustParse("7d1c6f3e-6a55-4b59-9c1e-0a3f6e2f0312")

	BordaID       = uuid.MustParse("7d1c6f3e-6a55-4b59-9c1e-0a3f6e2f0401")
	TradicionalID = uuid.MustParse("7d1c6f3e-6a55-4b59-9c1e-0a3f6e2f0411")
	ChocolateID   = uuid.MustParse("7d1c6f3e-6a55-4b59-9c1e-0a3f6e2f0412")
)

// D parses a decimal literal and panics on bad input.
func D(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func intPtr(v int) *int { return &v }

// Pastel returns "Pastel Gourmet" priced at 12.90 with:
//   - sizes Médio (+0.00) and Grande (+3.00)
//   - Sabores: required, up to 2 distinct flavours; Palmito is unavailable
//   - Adicionais: unbounded; Catupiry +2.50 (max 3 units), Bacon +3.00
//   - Borda: single choice; Chocolate +4.00
func Pastel() catalog.Product {
	return catalog.Product{
		ID:                 ProductID,
		Name:               "Pastel Gourmet",
		Description:        "Massa crocante frita na hora",
		Price:              D("12.90"),
		IsAvailable:        true,
		PreparationMinutes: 15,
		Rating:             D("4.8"),
		Sizes: []catalog.Size{
			{ID: SizeMedioID, Name: "Médio", PriceModifier: D("0"), IsAvailable: true},
			{ID: SizeGrandeID, Name: "Grande", PriceModifier: D("3.00"), IsAvailable: true},
		},
		Groups: []catalog.CustomizationGroup{
			{
				ID:            SaboresID,
				Name:          "Sabores",
				IsRequired:    true,
				MaxSelections: intPtr(2),
				SelectionMode: enums.SelectionModeMultiple,
				Options: []catalog.CustomizationOption{
					{ID: CarneID, Name: "Carne", PriceModifier: D("0"), IsAvailable: true},
					{ID: QueijoID, Name: "Queijo", PriceModifier: D("0"), IsAvailable: true},
					{ID: FrangoID, Name: "Frango", PriceModifier: D("1.00"), IsAvailable: true},
					{ID: PalmitoID, Name: "Palmito", PriceModifier: D("2.00"), IsAvailable: false},
				},
			},
			{
				ID:            AdicionaisID,
				Name:          "Adicionais",
				SelectionMode: enums.SelectionModeQuantity,
				Options: []catalog.CustomizationOption{
					{ID: CatupiryID, Name: "Catupiry", PriceModifier: D("2.50"), MaxQuantity: intPtr(3), IsAvailable: true},
					{ID: BaconID, Name: "Bacon", PriceModifier: D("3.00"), IsAvailable: true},
				},
			},
			{
				ID:            BordaID,
				Name:          "Borda",
				MaxSelections: intPtr(1),
				SelectionMode: enums.SelectionModeSingle,
				Options: []catalog.CustomizationOption{
					{ID: TradicionalID, Name: "Tradicional", PriceModifier: D("0"), IsAvailable: true},
					{ID: ChocolateID, Name: "Chocolate", PriceModifier: D("4.00"), IsAvailable: true},
				},
			},
		},
	}
}

// Plain returns a product with no sizes or customizations.
func Plain(price string) catalog.Product {
	return catalog.Product{
		ID:          uuid.New(),
		Name:        "Coxinha",
		Price:       D(price),
		IsAvailable: true,
	}
}
