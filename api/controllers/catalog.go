package controllers

import (
	"net/http"
	"strings"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/api/responses"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/api/validators"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/catalog"
	pkgerrors "github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/errors"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/logger"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/pagination"
)

const maxSearchLength = 80

func CategoriesList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

// ProductsList pages the menu. Supports category, q, available, limit and page.
func ProductsList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := validators.ParseQueryInt(r, "page", 1, 1, 10000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		available, err := validators.ParseQueryBool(r, "available")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		filters := catalog.ListFilters{
			CategorySlug:  strings.ToLower(validators.SanitizeString(query.Get("category"), maxSearchLength)),
			Query:         validators.SanitizeString(query.Get("q"), maxSearchLength),
			AvailableOnly: available,
		}

		result, err := svc.ListProducts(r.Context(), filters, pagination.Page{Number: page, Limit: limit})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func ProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
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
		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}
