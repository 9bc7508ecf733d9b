package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a menu item together with its sizes and customization groups.
type Product struct {
	ID                 uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	CategoryID         uuid.UUID            `gorm:"column:category_id;type:uuid;not null;index"`
	Name               string               `gorm:"column:name;not null"`
	Description        string               `gorm:"column:description;not null;default:''"`
	ImageURL           *string              `gorm:"column:image_url"`
	Price              decimal.Decimal      `gorm:"column:price;type:numeric(10,2);not null"`
	DiscountedPrice    *decimal.Decimal     `gorm:"column:discounted_price;type:numeric(10,2)"`
	IsAvailable        bool                 `gorm:"column:is_available;not null"`
	IsFeatured         bool                 `gorm:"column:is_featured;not null"`
	PreparationMinutes int                  `gorm:"column:preparation_minutes;not null;default:0"`
	Rating             decimal.Decimal      `gorm:"column:rating;type:numeric(2,1);not null;default:0"`
	Position           int                  `gorm:"column:position;not null;default:0"`
	Sizes              []ProductSize        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Groups             []CustomizationGroup `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// ProductSize is a size variant with a signed price delta.
type ProductSize struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ProductID     uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index"`
	Name          string          `gorm:"column:name;not null"`
	PriceModifier decimal.Decimal `gorm:"column:price_modifier;type:numeric(10,2);not null;default:0"`
	IsAvailable   bool            `gorm:"column:is_available;not null"`
	Position      int             `gorm:"column:position;not null;default:0"`
}

func (s *ProductSize) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
