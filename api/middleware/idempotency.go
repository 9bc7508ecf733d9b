package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/api/responses"
	pkgerrors "github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/errors"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/logger"
	pkgredis "github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/redis"
)

const (
	idempotencyHeader = "Idempotency-Key"
	replayedHeader    = "Idempotent-Replayed"
)

// maxPendingTTL bounds how long a reservation outlives a crashed request.
const maxPendingTTL = time.Minute

// replay is what gets cached for a key. Body is []byte so encoding/json
// base64-encodes it. A Pending record marks a request still being handled.
type replay struct {
	Pending     bool   `json:"pending,omitempty"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
	Fingerprint string `json:"fingerprint"`
}

// Idempotency replays the first non-5xx response for a (session, method, path,
// key) tuple for ttl. The key is reserved before the handler runs, so a
// concurrent retry gets a conflict instead of a second execution. A retry with
// a different body is rejected. A 5xx or a panic releases the reservation.
// Mount per route with chi's With.
func Idempotency(store pkgredis.IdempotencyStore, ttl time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	pendingTTL := min(ttl, maxPendingTTL)
	return func(next http.Handler) http.Handler {
		if store == nil || ttl <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			clientKey := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			if clientKey == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, idempotencyHeader+" header required"))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			sum := sha256.Sum256(body)
			fingerprint := hex.EncodeToString(sum[:])
			scope := SessionIDFromContext(ctx) + "|" + r.Method + "|" + r.URL.Path
			key := store.IdempotencyKey(scope, clientKey)

			marker, _ := json.Marshal(replay{Pending: true, Fingerprint: fingerprint})
			reserved, err := store.SetNX(ctx, key, string(marker), pendingTTL)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve idempotency key"))
				return
			}
			if !reserved {
				answerExisting(w, r, store, key, fingerprint, logg)
				return
			}

			completed := false
			defer func() {
				if !completed {
					if err := store.Del(context.WithoutCancel(ctx), key); err != nil {
						logg.Error(ctx, "idempotency.release_failed", err)
					}
				}
			}()

			var captured bytes.Buffer
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&captured)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if status >= http.StatusInternalServerError {
				return
			}
			payload, err := json.Marshal(replay{
				Status:      status,
				ContentType: ww.Header().Get("Content-Type"),
				Body:        captured.Bytes(),
				Fingerprint: fingerprint,
			})
			if err == nil {
				err = store.Set(ctx, key, string(payload), ttl)
			}
			if err != nil {
				logg.Error(ctx, "idempotency.store_failed", err)
				return
			}
			completed = true
		})
	}
}

// answerExisting handles a key someone else already reserved: replay a finished
// response, or report the request as still in flight.
func answerExisting(w http.ResponseWriter, r *http.Request, store pkgredis.IdempotencyStore, key, fingerprint string, logg *logger.Logger) {
	ctx := r.Context()
	cached, err := store.Get(ctx, key)
	if err != nil && !pkgredis.IsNil(err) {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
		return
	}
	if cached == "" {
		// released between SetNX and Get; the client may retry
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "request with this idempotency key is in progress"))
		return
	}
	var prior replay
	if err := json.Unmarshal([]byte(cached), &prior); err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record"))
		return
	}
	switch {
	case prior.Fingerprint != fingerprint:
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
	case prior.Pending:
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "request with this idempotency key is in progress"))
	default:
		prior.writeTo(w)
	}
}

func (p replay) writeTo(w http.ResponseWriter) {
	if p.ContentType != "" {
		w.Header().Set("Content-Type", p.ContentType)
	}
	w.Header().Set(replayedHeader, "true")
	w.WriteHeader(p.Status)
	_, _ = w.Write(p.Body)
}
