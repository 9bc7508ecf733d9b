package models

import (
	"github.com/google/uuid"
)

// ensureID assigns a random id when none was provided. Primary keys are
// generated in Go so the same models work on postgres and sqlite.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All lists every persisted model, in dependency order.
func All() []any {
	return []any{
		&Category{},
		&Product{},
		&ProductSize{},
		&CustomizationGroup{},
		&CustomizationOption{},
		&Coupon{},
		&Order{},
		&OrderLineItem{},
		&LoyaltyAccount{},
	}
}
