package catalogtest

import (
	"github.com/google/uuid"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/catalog"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/db/models"
)

var (
	SalgadosID = uuid.MustParse("7d1c6f3e-6a55-4b59-9c1e-0a3f6e2f0901")
	DocesID    = uuid.MustParse("7d1c6f3e-6a55-4b59-9c1e-0a3f6e2f0902")
)

// Categories returns the fixture categories as rows.
func Categories() []models.Category {
	return []models.Category{
		{ID: SalgadosID, Name: "Salgados", Slug: "salgados", Position: 1, IsActive: true},
		{ID: DocesID, Name: "Doces", Slug: "doces", Position: 2, IsActive: true},
	}
}

// ProductModel converts a domain product into rows under categoryID.
// Positions follow slice order.
func ProductModel(p catalog.Product, categoryID uuid.UUID, position int) models.Product {
	row := models.Product{
		ID:                 p.ID,
		CategoryID:         categoryID,
		Name:               p.Name,
		Description:        p.Description,
		ImageURL:           p.ImageURL,
		Price:              p.Price,
		DiscountedPrice:    p.DiscountedPrice,
		IsAvailable:        p.IsAvailable,
		IsFeatured:         p.IsFeatured,
		PreparationMinutes: p.PreparationMinutes,
		Rating:             p.Rating,
		Position:           position,
	}
	for i, s := range p.Sizes {
		row.Sizes = append(row.Sizes, models.ProductSize{
			ID:            s.ID,
			ProductID:     p.ID,
			Name:          s.Name,
			PriceModifier: s.PriceModifier,
			IsAvailable:   s.IsAvailable,
			Position:      i,
		})
	}
	for i, g := range p.Groups {
		group := models.CustomizationGroup{
			ID:            g.ID,
			ProductID:     p.ID,
			Name:          g.Name,
			IsRequired:    g.IsRequired,
			MaxSelections: g.MaxSelections,
			SelectionMode: g.SelectionMode,
			Position:      i,
		}
		for j, o := range g.Options {
			group.Options = append(group.Options, models.CustomizationOption{
				ID:            o.ID,
				GroupID:       g.ID,
				Name:          o.Name,
				PriceModifier: o.PriceModifier,
				MaxQuantity:   o.MaxQuantity,
				IsAvailable:   o.IsAvailable,
				Position:      j,
			})
		}
		row.Groups = append(row.Groups, group)
	}
	return row
}
