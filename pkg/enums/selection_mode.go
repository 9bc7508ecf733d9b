package enums

import "fmt"

// SelectionMode tells clients which control drives a customization group.
// single: radio, multiple: checkboxes, quantity: per-option steppers.
type SelectionMode string

const (
	SelectionModeSingle   SelectionMode = "single"
	SelectionModeMultiple SelectionMode = "multiple"
	SelectionModeQuantity SelectionMode = "quantity"
)

var validSelectionModes = []SelectionMode{
	SelectionModeSingle,
	SelectionModeMultiple,
	SelectionModeQuantity,
}

func (m SelectionMode) String() string {
	return string(m)
}

func (m SelectionMode) IsValid() bool {
	for _, candidate := range validSelectionModes {
		if candidate == m {
			return true
		}
	}
	return false
}

func ParseSelectionMode(value string) (SelectionMode, error) {
	for _, candidate := range validSelectionModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid selection mode %q", value)
}
