// Package selection keeps a product's customization choices consistent with
// the group and option caps of the catalog.
package selection

import (
	"github.com/google/uuid"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/catalog"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/types"
)

// Outcome reports what a resolver operation did. Rejections are outcomes, not errors.
type Outcome string

const (
	OutcomeApplied      Outcome = "applied"
	OutcomeRemoved      Outcome = "removed"
	OutcomeLimitReached Outcome = "limit_reached"
	OutcomeClamped      Outcome = "clamped"
	OutcomeUnknown      Outcome = "unknown"
	OutcomeUnavailable  Outcome = "unavailable"
)

// Changed reports whether the selection set was modified.
func (o Outcome) Changed() bool {
	return o == OutcomeApplied || o == OutcomeRemoved || o == OutcomeClamped
}

// Selection is one chosen option. Quantity 0 is the same as absent.
type Selection struct {
	GroupID  uuid.UUID `json:"group_id"`
	OptionID uuid.UUID `json:"option_id"`
	Quantity int       `json:"quantity"`
}

// Resolver holds the selections of a single product configuration session.
// It is not safe for concurrent use.
type Resolver struct {
	product    catalog.Product
	selections []Selection
}

// NewResolver starts an empty session for product.
func NewResolver(product catalog.Product) *Resolver {
	return &Resolver{product: product}
}

// SetQuantity sets the quantity of (groupID, optionID).
//
// Zero removes the selection. A new distinct option is refused with
// OutcomeLimitReached once the group holds max_selections options; updating an
// existing selection never counts against the cap. Quantities above the
// option's max_quantity are stored at the max and reported as OutcomeClamped.
func (r *Resolver) SetQuantity(groupID, optionID uuid.UUID, quantity int) Outcome {
	group, option, ok := r.product.Option(groupID, optionID)
	if !ok {
		return OutcomeUnknown
	}
	idx := r.indexOf(groupID, optionID)

	if quantity <= 0 {
		if idx >= 0 {
			r.selections = append(r.selections[:idx], r.selections[idx+1:]...)
			return OutcomeRemoved
		}
		return OutcomeApplied
	}

	if !option.IsAvailable {
		return OutcomeUnavailable
	}

	stored, clamped := option.Clamp(quantity)
	outcome := OutcomeApplied
	if clamped {
		outcome = OutcomeClamped
	}

	if idx >= 0 {
		r.selections[idx].Quantity = stored
		return outcome
	}

	if !group.AllowsAnother(r.distinctInGroup(groupID)) {
		return OutcomeLimitReached
	}
	r.selections = append(r.selections, Selection{GroupID: groupID, OptionID: optionID, Quantity: stored})
	return outcome
}

// SingleSelect replaces every selection in the group with (optionID, 1).
func (r *Resolver) SingleSelect(groupID, optionID uuid.UUID) Outcome {
	_, option, ok := r.product.Option(groupID, optionID)
	if !ok {
		return OutcomeUnknown
	}
	if !option.IsAvailable {
		return OutcomeUnavailable
	}
	kept := r.selections[:0]
	for _, sel := range r.selections {
		if sel.GroupID != groupID {
			kept = append(kept, sel)
		}
	}
	r.selections = append(kept, Selection{GroupID: groupID, OptionID: optionID, Quantity: 1})
	return OutcomeApplied
}

// MultiSelectToggle is SetQuantity with 1 when checked and 0 when not.
func (r *Resolver) MultiSelectToggle(groupID, optionID uuid.UUID, checked bool) Outcome {
	if checked {
		return r.SetQuantity(groupID, optionID, 1)
	}
	return r.SetQuantity(groupID, optionID, 0)
}

// Selections returns a copy of the current selections in insertion order.
func (r *Resolver) Selections() []Selection {
	out := make([]Selection, len(r.selections))
	copy(out, r.selections)
	return out
}

// Quantity returns the stored quantity for an option, zero when absent.
func (r *Resolver) Quantity(groupID, optionID uuid.UUID) int {
	if idx := r.indexOf(groupID, optionID); idx >= 0 {
		return r.selections[idx].Quantity
	}
	return 0
}

// LimitReached reports whether the group cannot take another distinct option.
func (r *Resolver) LimitReached(groupID uuid.UUID) bool {
	group, ok := r.product.Group(groupID)
	if !ok {
		return false
	}
	return !group.AllowsAnother(r.distinctInGroup(groupID))
}

// MissingRequired lists required groups that have no selection, in catalog order.
func (r *Resolver) MissingRequired() []catalog.CustomizationGroup {
	var missing []catalog.CustomizationGroup
	for _, group := range r.product.Groups {
		if group.IsRequired && r.distinctInGroup(group.ID) == 0 {
			missing = append(missing, group)
		}
	}
	return missing
}

// Reset drops every selection.
func (r *Resolver) Reset() {
	r.selections = nil
}

// Resolve is ResolveForCart over the current selections.
func (r *Resolver) Resolve() types.LineCustomizations {
	return ResolveForCart(r.product, r.selections)
}

func (r *Resolver) indexOf(groupID, optionID uuid.UUID) int {
	for i, sel := range r.selections {
		if sel.GroupID == groupID && sel.OptionID == optionID {
			return i
		}
	}
	return -1
}

func (r *Resolver) distinctInGroup(groupID uuid.UUID) int {
	count := 0
	for _, sel := range r.selections {
		if sel.GroupID == groupID && sel.Quantity > 0 {
			count++
		}
	}
	return count
}

// ResolveForCart converts flat selections into the grouped cart form.
//
// Zero quantities are dropped, groups follow catalog order, options keep the
// order in which they were selected, and quantity N becomes N repeated
// entries. Selections naming a group or option the product does not have are
// skipped.
func ResolveForCart(product catalog.Product, selections []Selection) types.LineCustomizations {
	byGroup := make(map[uuid.UUID][]types.CustomizationChoice)
	for _, sel := range selections {
		if sel.Quantity <= 0 {
			continue
		}
		_, option, ok := product.Option(sel.GroupID, sel.OptionID)
		if !ok {
			continue
		}
		for i := 0; i < sel.Quantity; i++ {
			byGroup[sel.GroupID] = append(byGroup[sel.GroupID], types.CustomizationChoice{
				OptionID:   option.ID,
				OptionName: option.Name,
			})
		}
	}

	out := types.LineCustomizations{}
	for _, group := range product.Groups {
		choices, ok := byGroup[group.ID]
		if !ok {
			continue
		}
		out = append(out, types.LineCustomization{
			GroupID:   group.ID,
			GroupName: group.Name,
			Options:   choices,
		})
	}
	return out
}
