package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/api/responses"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/api/validators"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/catalog"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/pricing"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/selection"
	pkgerrors "github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/errors"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/logger"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/types"
)

const (
	opSetQuantity = "set_quantity"
	opSelect      = "select"
	opToggle      = "toggle"
)

type quoteOperation struct {
	Type     string    `json:"type" validate:"required,oneof=set_quantity select toggle"`
	GroupID  uuid.UUID `json:"group_id" validate:"required"`
	OptionID uuid.UUID `json:"option_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"gte=0,lte=99"`
	Checked  bool      `json:"checked"`
}

type quoteRequest struct {
	SizeID     *uuid.UUID       `json:"size_id"`
	Quantity   int              `json:"quantity" validate:"gte=0,lte=99"`
	Operations []quoteOperation `json:"operations" validate:"max=100,dive"`
}

type operationResult struct {
	Type     string            `json:"type"`
	GroupID  uuid.UUID         `json:"group_id"`
	OptionID uuid.UUID         `json:"option_id"`
	Outcome  selection.Outcome `json:"outcome"`
}

type missingGroup struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type quoteResponse struct {
	Results         []operationResult        `json:"results"`
	Selections      []selection.Selection    `json:"selections"`
	Customizations  types.LineCustomizations `json:"customizations"`
	MissingRequired []missingGroup           `json:"missing_required"`
	LimitReached    []uuid.UUID              `json:"limit_reached"`
	Complete        bool                     `json:"complete"`
	Quote           pricing.Quote            `json:"quote"`
}

// ProductQuote replays selection operations against the product and prices
// the result. Rejected operations are reported per entry and do not fail the
// request.
func ProductQuote(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		productID, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Quantity == 0 {
			payload.Quantity = 1
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resolver := selection.NewResolver(*product)
		results := make([]operationResult, 0, len(payload.Operations))
		for _, op := range payload.Operations {
			var outcome selection.Outcome
			switch op.Type {
			case opSetQuantity:
				outcome = resolver.SetQuantity(op.GroupID, op.OptionID, op.Quantity)
			case opSelect:
				outcome = resolver.SingleSelect(op.GroupID, op.OptionID)
			case opToggle:
				outcome = resolver.MultiSelectToggle(op.GroupID, op.OptionID, op.Checked)
			}
			results = append(results, operationResult{Type: op.Type, GroupID: op.GroupID, OptionID: op.OptionID, Outcome: outcome})
		}

		quote, err := pricing.Price(*product, payload.SizeID, resolver.Selections(), payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := quoteResponse{
			Results:         results,
			Selections:      resolver.Selections(),
			Customizations:  resolver.Resolve(),
			MissingRequired: []missingGroup{},
			LimitReached:    []uuid.UUID{},
			Quote:           quote,
		}
		for _, group := range resolver.MissingRequired() {
			resp.MissingRequired = append(resp.MissingRequired, missingGroup{ID: group.ID, Name: group.Name})
		}
		for _, group := range product.Groups {
			if resolver.LimitReached(group.ID) {
				resp.LimitReached = append(resp.LimitReached, group.ID)
			}
		}
		resp.Complete = len(resp.MissingRequired) == 0
		responses.WriteSuccess(w, resp)
	}
}
