package types

import (
	"testing"

	"github.com/google/uuid"
)

func TestLineCustomizationsQuantities(t *testing.T) {
	optionA := uuid.New()
	optionB := uuid.New()
	lines := LineCustomizations{{
		GroupID:   uuid.New(),
		GroupName: "Adicionais",
		Options: []CustomizationChoice{
			{OptionID: optionA, OptionName: "Catupiry"},
			{OptionID: optionA, OptionName: "Catupiry"},
			{OptionID: optionB, OptionName: "Bacon"},
		},
	}}

	qty := lines.Quantities()
	if qty[optionA] != 2 || qty[optionB] != 1 {
		t.Fatalf("unexpected quantities %v", qty)
	}
	if len(LineCustomizations(nil).Quantities()) != 0 {
		t.Fatal("nil customizations should have no quantities")
	}
}
