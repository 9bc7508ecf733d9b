package orders

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/loyalty"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/db/models"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/enums"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/types"
)

// CheckoutInput carries the customer data collected at checkout.
type CheckoutInput struct {
	CustomerName    string
	CustomerPhone   string
	DeliveryAddress string
	PaymentMethod   enums.PaymentMethod
	Notes           string
}

// ListFilters narrows the order listing. Empty fields are ignored.
type ListFilters struct {
	SessionID string
	Phone     string
	Status    *enums.OrderStatus
}

// Order is the API view of a placed order.
type Order struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	SessionID       string              `json:"session_id"`
	CustomerName    string              `json:"customer_name"`
	CustomerPhone   string              `json:"customer_phone"`
	DeliveryAddress string              `json:"delivery_address"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method"`
	PaymentLabel    string              `json:"payment_label"`
	Status          enums.OrderStatus   `json:"status"`
	Notes           *string             `json:"notes,omitempty"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	DeliveryFee     decimal.Decimal     `json:"delivery_fee"`
	Discount        decimal.Decimal     `json:"discount"`
	Total           decimal.Decimal     `json:"total"`
	CouponCodes     []string            `json:"coupon_codes"`
	Items           []LineItem          `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	Loyalty         *loyalty.Award      `json:"loyalty,omitempty"`
}

// LineItem is one ordered product configuration.
type LineItem struct {
	ID             uuid.UUID                `json:"id"`
	ProductID      uuid.UUID                `json:"product_id"`
	ProductName    string                   `json:"product_name"`
	SizeID         *uuid.UUID               `json:"size_id,omitempty"`
	SizeName       *string                  `json:"size_name,omitempty"`
	Customizations types.LineCustomizations `json:"customizations"`
	Notes          *string                  `json:"notes,omitempty"`
	Quantity       int                      `json:"quantity"`
	UnitPrice      decimal.Decimal          `json:"unit_price"`
	TotalPrice     decimal.Decimal          `json:"total_price"`
}

// OrderList wraps one page of orders plus the next page cursor.
type OrderList struct {
	Orders     []Order `json:"orders"`
	NextCursor string  `json:"next_cursor,omitempty"`
}

func fromModel(row models.Order) Order {
	order := Order{
		ID:              row.ID,
		OrderNumber:     row.OrderNumber,
		SessionID:       row.SessionID,
		CustomerName:    row.CustomerName,
		CustomerPhone:   row.CustomerPhone,
		DeliveryAddress: row.DeliveryAddress,
		PaymentMethod:   row.PaymentMethod,
		PaymentLabel:    row.PaymentMethod.Label(),
		Status:          row.Status,
		Notes:           row.Notes,
		Subtotal:        row.Subtotal,
		DeliveryFee:     row.DeliveryFee,
		Discount:        row.Discount,
		Total:           row.Total,
		CouponCodes:     row.CouponCodes,
		Items:           make([]LineItem, 0, len(row.LineItems)),
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	if order.CouponCodes == nil {
		order.CouponCodes = []string{}
	}
	for _, item := range row.LineItems {
		order.Items = append(order.Items, LineItem{
			ID:             item.ID,
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			SizeID:         item.SizeID,
			SizeName:       item.SizeName,
			Customizations: item.Customizations,
			Notes:          item.Notes,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			TotalPrice:     item.TotalPrice,
		})
	}
	return order
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
