package middleware

import (
	"net/http"
	"strings"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/api/responses"
	pkgerrors "github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/errors"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/logger"
)

const cartSessionHeader = "X-Cart-Session"

// CartSession requires the X-Cart-Session header and carries its value in
// the request context and log fields.
func CartSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(cartSessionHeader))
			if sessionID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, cartSessionHeader+" header required"))
				return
			}

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
