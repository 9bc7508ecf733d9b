package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/enums"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/types"
)

// Order is the persisted result of a checkout.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber     string              `gorm:"column:order_number;not null;uniqueIndex"`
	SessionID       string              `gorm:"column:session_id;not null;index"`
	CustomerName    string              `gorm:"column:customer_name;not null"`
	CustomerPhone   string              `gorm:"column:customer_phone;not null;index"`
	DeliveryAddress string              `gorm:"column:delivery_address;not null"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;not null"`
	Status          enums.OrderStatus   `gorm:"column:status;not null;default:'pending'"`
	Notes           *string             `gorm:"column:notes"`
	Subtotal        decimal.Decimal     `gorm:"column:subtotal;type:numeric(10,2);not null"`
	DeliveryFee     decimal.Decimal     `gorm:"column:delivery_fee;type:numeric(10,2);not null"`
	Discount        decimal.Decimal     `gorm:"column:discount;type:numeric(10,2);not null"`
	Total           decimal.Decimal     `gorm:"column:total;type:numeric(10,2);not null"`
	CouponCodes     []string            `gorm:"column:coupon_codes;type:jsonb;serializer:json"`
	LineItems       []OrderLineItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}

// OrderLineItem snapshots one cart line at checkout time.
type OrderLineItem struct {
	ID             uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	OrderID        uuid.UUID                `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      uuid.UUID                `gorm:"column:product_id;type:uuid;not null"`
	ProductName    string                   `gorm:"column:product_name;not null"`
	SizeID         *uuid.UUID               `gorm:"column:size_id;type:uuid"`
	SizeName       *string                  `gorm:"column:size_name"`
	Customizations types.LineCustomizations `gorm:"column:customizations;type:jsonb;serializer:json"`
	Notes          *string                  `gorm:"column:notes"`
	Quantity       int                      `gorm:"column:quantity;not null"`
	UnitPrice      decimal.Decimal          `gorm:"column:unit_price;type:numeric(10,2);not null"`
	TotalPrice     decimal.Decimal          `gorm:"column:total_price;type:numeric(10,2);not null"`
	Position       int                      `gorm:"column:position;not null;default:0"`
	CreatedAt      time.Time                `gorm:"column:created_at;autoCreateTime"`
}

func (l *OrderLineItem) BeforeCreate(*gorm.DB) error {
	ensureID(&l.ID)
	return nil
}
