package enums

import "testing"

func TestParseOrderStatus(t *testing.T) {
	for _, status := range validOrderStatuses {
		got, err := ParseOrderStatus(string(status))
		if err != nil || got != status {
			t.Fatalf("parse %q: got %q err %v", status, got, err)
		}
	}
	if _, err := ParseOrderStatus("shipped"); err == nil {
		t.Fatal("expected error for unknown status")
	}
	if _, err := ParseOrderStatus("PENDING"); err == nil {
		t.Fatal("parsing is case sensitive")
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	terminal := map[OrderStatus]bool{
		OrderStatusDelivered: true,
		OrderStatusCancelled: true,
	}
	for _, status := range validOrderStatuses {
		if status.IsTerminal() != terminal[status] {
			t.Fatalf("%s: IsTerminal=%v", status, status.IsTerminal())
		}
	}
}

func TestEnumValidity(t *testing.T) {
	cases := []struct {
		name  string
		valid bool
	}{
		{"payment pix", PaymentMethodPix.IsValid()},
		{"payment bogus", !PaymentMethod("boleto").IsValid()},
		{"coupon fixed", CouponTypeFixed.IsValid()},
		{"coupon bogus", !CouponType("bogo").IsValid()},
		{"selection single", SelectionModeSingle.IsValid()},
		{"selection bogus", !SelectionMode("radio").IsValid()},
		{"level gold", LoyaltyLevelGold.IsValid()},
		{"level bogus", !LoyaltyLevel("platinum").IsValid()},
	}
	for _, tc := range cases {
		if !tc.valid {
			t.Fatalf("%s: unexpected validity", tc.name)
		}
	}

	if _, err := ParsePaymentMethod("cash"); err != nil {
		t.Fatalf("parse cash: %v", err)
	}
	if _, err := ParseCouponType("percentage"); err != nil {
		t.Fatalf("parse percentage: %v", err)
	}
	if _, err := ParseSelectionMode("quantity"); err != nil {
		t.Fatalf("parse quantity: %v", err)
	}
	if _, err := ParseLoyaltyLevel("diamond"); err != nil {
		t.Fatalf("parse diamond: %v", err)
	}
}

func TestPaymentMethodLabels(t *testing.T) {
	method, err := ParsePaymentMethod(" PIX ")
	if err != nil || method != PaymentMethodPix {
		t.Fatalf("expected pix, got %q %v", method, err)
	}
	if got := PaymentMethodCreditCard.Label(); got != "Cartão de crédito" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := PaymentMethod("boleto").Label(); got != "boleto" {
		t.Fatalf("unknown methods should echo their value, got %q", got)
	}
}
