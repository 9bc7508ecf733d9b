package types

import "github.com/google/uuid"

// CustomizationChoice is one unit of a chosen option. An option picked with
// quantity N appears N times in its group.
type CustomizationChoice struct {
	OptionID   uuid.UUID `json:"option_id"`
	OptionName string    `json:"option_name"`
}

// LineCustomization groups the choices made inside one customization group.
type LineCustomization struct {
	GroupID   uuid.UUID             `json:"group_id"`
	GroupName string                `json:"group_name"`
	Options   []CustomizationChoice `json:"options"`
}

// LineCustomizations is the cart and order storage form.
type LineCustomizations []LineCustomization

// Quantities collapses repeated choices back into option -> quantity.
func (c LineCustomizations) Quantities() map[uuid.UUID]int {
	out := make(map[uuid.UUID]int)
	for _, group := range c {
		for _, choice := range group.Options {
			out[choice.OptionID]++
		}
	}
	return out
}
