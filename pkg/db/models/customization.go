package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/enums"
)

// CustomizationGroup is a named set of add-ons ("Sabores", "Adicionais").
// A nil MaxSelections means the group is unbounded.
type CustomizationGroup struct {
	ID            uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	ProductID     uuid.UUID             `gorm:"column:product_id;type:uuid;not null;index"`
	Name          string                `gorm:"column:name;not null"`
	IsRequired    bool                  `gorm:"column:is_required;not null"`
	MaxSelections *int                  `gorm:"column:max_selections"`
	SelectionMode enums.SelectionMode   `gorm:"column:selection_mode;not null;default:'multiple'"`
	Position      int                   `gorm:"column:position;not null;default:0"`
	Options       []CustomizationOption `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
}

func (g *CustomizationGroup) BeforeCreate(*gorm.DB) error {
	ensureID(&g.ID)
	return nil
}

// CustomizationOption is one selectable add-on. A nil MaxQuantity is unbounded.
type CustomizationOption struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	GroupID       uuid.UUID       `gorm:"column:group_id;type:uuid;not null;index"`
	Name          string          `gorm:"column:name;not null"`
	PriceModifier decimal.Decimal `gorm:"column:price_modifier;type:numeric(10,2);not null;default:0"`
	MaxQuantity   *int            `gorm:"column:max_quantity"`
	IsAvailable   bool            `gorm:"column:is_available;not null"`
	Position      int             `gorm:"column:position;not null;default:0"`
}

func (o *CustomizationOption) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}
