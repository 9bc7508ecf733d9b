package middleware

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	pkgerrors "github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/errors"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/logger"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/redis"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewFromRaw(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func countingHandler(calls *int32, status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(calls, 1)
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = fmt.Fprintf(w, `{"call":%d,"echo":%s}`, n, body)
	})
}

func checkoutRequest(key, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	req.Header.Set(idempotencyHeader, key)
	return req.WithContext(WithSessionID(req.Context(), "sess-1"))
}

func TestIdempotencyReplaysFirstResponse(t *testing.T) {
	mr, store := newRedis(t)
	var calls int32
	handler := Idempotency(store, time.Hour, logger.Nop())(countingHandler(&calls, http.StatusCreated))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, checkoutRequest("abc", `{"a":1}`))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, checkoutRequest("abc", `{"a":1}`))

	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
	if second.Code != http.StatusCreated {
		t.Fatalf("expected replayed 201, got %d", second.Code)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("replayed body mismatch: %q vs %q", second.Body.String(), first.Body.String())
	}
	if second.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("expected replay header")
	}
	key := store.IdempotencyKey("sess-1|POST|/api/v1/checkout", "abc")
	if ttl := mr.TTL(key); ttl != time.Hour {
		t.Fatalf("expected 1h ttl, got %v", ttl)
	}
}

func TestIdempotencyRejectsDifferentBody(t *testing.T) {
	_, store := newRedis(t)
	var calls int32
	handler := Idempotency(store, time.Hour, logger.Nop())(countingHandler(&calls, http.StatusCreated))

	handler.ServeHTTP(httptest.NewRecorder(), checkoutRequest("abc", `{"a":1}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, checkoutRequest("abc", `{"a":2}`))

	if rec.Code != pkgerrors.MetadataFor(pkgerrors.CodeIdempotency).HTTPStatus {
		t.Fatalf("expected idempotency conflict, got %d", rec.Code)
	}
	if calls != 1 {
		t.Fatalf("expected a single handler call, got %d", calls)
	}
}

func TestIdempotencyRequiresKey(t *testing.T) {
	_, store := newRedis(t)
	var calls int32
	handler := Idempotency(store, time.Hour, logger.Nop())(countingHandler(&calls, http.StatusCreated))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, checkoutRequest("", `{}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without key, got %d", rec.Code)
	}
	if calls != 0 {
		t.Fatalf("handler must not run without key")
	}
}

func TestIdempotencyDoesNotStoreServerErrors(t *testing.T) {
	_, store := newRedis(t)
	var calls int32
	handler := Idempotency(store, time.Hour, logger.Nop())(countingHandler(&calls, http.StatusServiceUnavailable))

	handler.ServeHTTP(httptest.NewRecorder(), checkoutRequest("retry", `{}`))
	handler.ServeHTTP(httptest.NewRecorder(), checkoutRequest("retry", `{}`))
	if calls != 2 {
		t.Fatalf("expected both attempts to reach the handler, got %d", calls)
	}
}

func TestIdempotencyRejectsRetryWhileFirstIsInFlight(t *testing.T) {
	mr, store := newRedis(t)
	var calls int32
	entered := make(chan struct{})
	release := make(chan struct{})
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		close(entered)
		<-release
		w.WriteHeader(http.StatusCreated)
	})
	handler := Idempotency(store, time.Hour, logger.Nop())(slow)

	done := make(chan *httptest.ResponseRecorder)
	go func() {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, checkoutRequest("dup", `{"a":1}`))
		done <- rec
	}()
	<-entered

	key := store.IdempotencyKey("sess-1|POST|/api/v1/checkout", "dup")
	if ttl := mr.TTL(key); ttl <= 0 || ttl > maxPendingTTL {
		t.Fatalf("expected reservation bounded by %v, got %v", maxPendingTTL, ttl)
	}

	retry := httptest.NewRecorder()
	handler.ServeHTTP(retry, checkoutRequest("dup", `{"a":1}`))
	if retry.Code != http.StatusConflict {
		t.Fatalf("expected 409 while the first request runs, got %d", retry.Code)
	}

	close(release)
	if first := <-done; first.Code != http.StatusCreated {
		t.Fatalf("expected first request to finish with 201, got %d", first.Code)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected one execution, got %d", n)
	}

	replayed := httptest.NewRecorder()
	handler.ServeHTTP(replayed, checkoutRequest("dup", `{"a":1}`))
	if replayed.Code != http.StatusCreated || replayed.Header().Get(replayedHeader) != "true" {
		t.Fatalf("expected replay after completion, got %d", replayed.Code)
	}
}

func TestIdempotencyReleasesKeyOnPanic(t *testing.T) {
	mr, store := newRedis(t)
	handler := Idempotency(store, time.Hour, logger.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	func() {
		defer func() { _ = recover() }()
		handler.ServeHTTP(httptest.NewRecorder(), checkoutRequest("crash", `{}`))
	}()

	if mr.Exists(store.IdempotencyKey("sess-1|POST|/api/v1/checkout", "crash")) {
		t.Fatal("expected reservation to be released after a panic")
	}
}

func TestCartSessionRequiresHeader(t *testing.T) {
	var seen string
	handler := CartSession(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without session header, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(cartSessionHeader, "  sess-42 ")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || seen != "sess-42" {
		t.Fatalf("expected session to pass through, got %d %q", rec.Code, seen)
	}
}

func TestRecovererWritesInternalError(t *testing.T) {
	handler := Recoverer(logger.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 after panic, got %d", rec.Code)
	}
}

func TestRequestIDEchoesHeader(t *testing.T) {
	handler := RequestID(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get(requestIDHeader); got != "req-1" {
		t.Fatalf("expected request id echo, got %q", got)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected generated request id")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, strings.Repeat("x", maxRequestIDBytes+1))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get(requestIDHeader); len(got) != 36 {
		t.Fatalf("expected oversized id to be replaced by a uuid, got %q", got)
	}
}
