package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/api/responses"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/config"
	pkgerrors "github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/errors"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-JC-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and redis. Any failure answers 503 with the
// failing dependency names.
func HealthReady(cfg *config.Config, logg *logger.Logger, db Pinger, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-JC-Env", cfg.App.Env)
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]Pinger{"database": db, "redis": cache}
		failed := map[string]string{}
		for name, dep := range checks {
			if dep == nil {
				failed[name] = "not configured"
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				failed[name] = err.Error()
			}
		}
		if len(failed) > 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(failed))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
