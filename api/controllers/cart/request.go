package cart

import (
	"github.com/google/uuid"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/cart"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/selection"
)

const maxNotesLength = 200

type selectionPayload struct {
	GroupID  uuid.UUID `json:"group_id" validate:"required"`
	OptionID uuid.UUID `json:"option_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"gte=0,lte=99"`
}

type addItemRequest struct {
	ProductID  uuid.UUID          `json:"product_id" validate:"required"`
	SizeID     *uuid.UUID         `json:"size_id"`
	Selections []selectionPayload `json:"selections" validate:"max=100,dive"`
	Quantity   int                `json:"quantity" validate:"min=1,max=99"`
	Notes      string             `json:"notes" validate:"max=500"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0,lte=99"`
}

type applyCouponRequest struct {
	Code string `json:"code" validate:"required,max=40"`
}

func toAddItemInput(payload addItemRequest, notes string) cart.AddItemInput {
	selections := make([]selection.Selection, 0, len(payload.Selections))
	for _, sel := range payload.Selections {
		selections = append(selections, selection.Selection{
			GroupID:  sel.GroupID,
			OptionID: sel.OptionID,
			Quantity: sel.Quantity,
		})
	}
	return cart.AddItemInput{
		ProductID:  payload.ProductID,
		SizeID:     payload.SizeID,
		Selections: selections,
		Quantity:   payload.Quantity,
		Notes:      notes,
	}
}
