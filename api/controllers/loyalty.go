package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/api/responses"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/loyalty"
	pkgerrors "github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/errors"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/logger"
)

// LoyaltyAccount returns the points and level for a phone. Unknown phones
// get an empty bronze account.
func LoyaltyAccount(svc loyalty.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "loyalty service unavailable"))
			return
		}
		account, err := svc.Get(r.Context(), chi.URLParam(r, "phone"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, account)
	}
}
