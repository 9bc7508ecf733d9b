package catalog

import (
	"sort"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/db/models"
)

func categoryFromModel(m models.Category) Category {
	return Category{
		ID:       m.ID,
		Name:     m.Name,
		Slug:     m.Slug,
		Position: m.Position,
	}
}

func productFromModel(m models.Product) Product {
	p := Product{
		ID:                 m.ID,
		CategoryID:         m.CategoryID,
		Name:               m.Name,
		Description:        m.Description,
		ImageURL:           m.ImageURL,
		Price:              m.Price,
		DiscountedPrice:    m.DiscountedPrice,
		IsAvailable:        m.IsAvailable,
		IsFeatured:         m.IsFeatured,
		PreparationMinutes: m.PreparationMinutes,
		Rating:             m.Rating,
		Sizes:              make([]Size, 0, len(m.Sizes)),
		Groups:             make([]CustomizationGroup, 0, len(m.Groups)),
	}

	sizes := append([]models.ProductSize(nil), m.Sizes...)
	sort.SliceStable(sizes, func(i, j int) bool { return sizes[i].Position < sizes[j].Position })
	for _, s := range sizes {
		p.Sizes = append(p.Sizes, Size{
			ID:            s.ID,
			Name:          s.Name,
			PriceModifier: s.PriceModifier,
			IsAvailable:   s.IsAvailable,
		})
	}

	groups := append([]models.CustomizationGroup(nil), m.Groups...)
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Position < groups[j].Position })
	for _, g := range groups {
		group := CustomizationGroup{
			ID:            g.ID,
			Name:          g.Name,
			IsRequired:    g.IsRequired,
			MaxSelections: g.MaxSelections,
			SelectionMode: g.SelectionMode,
			Options:       make([]CustomizationOption, 0, len(g.Options)),
		}
		options := append([]models.CustomizationOption(nil), g.Options...)
		sort.SliceStable(options, func(i, j int) bool { return options[i].Position < options[j].Position })
		for _, o := range options {
			group.Options = append(group.Options, CustomizationOption{
				ID:            o.ID,
				Name:          o.Name,
				PriceModifier: o.PriceModifier,
				MaxQuantity:   o.MaxQuantity,
				IsAvailable:   o.IsAvailable,
			})
		}
		p.Groups = append(p.Groups, group)
	}
	return p
}
