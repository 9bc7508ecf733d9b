package enums

import (
	"fmt"
	"strings"
)

// PaymentMethod is how the customer settles on delivery or pickup. No payment
// is captured online.
type PaymentMethod string

const (
	PaymentMethodPix        PaymentMethod = "pix"
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodDebitCard  PaymentMethod = "debit_card"
	PaymentMethodCash       PaymentMethod = "cash"
)

var paymentMethodLabels = map[PaymentMethod]string{
	PaymentMethodPix:        "Pix",
	PaymentMethodCreditCard: "Cartão de crédito",
	PaymentMethodDebitCard:  "Cartão de débito",
	PaymentMethodCash:       "Dinheiro",
}

func (p PaymentMethod) String() string { return string(p) }

func (p PaymentMethod) IsValid() bool {
	_, ok := paymentMethodLabels[p]
	return ok
}

// Label is the customer-facing name shown on receipts.
func (p PaymentMethod) Label() string {
	if label, ok := paymentMethodLabels[p]; ok {
		return label
	}
	return string(p)
}

// ParsePaymentMethod accepts the wire value in any case.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	method := PaymentMethod(strings.ToLower(strings.TrimSpace(value)))
	if !method.IsValid() {
		return "", fmt.Errorf("invalid payment method %q", value)
	}
	return method, nil
}
