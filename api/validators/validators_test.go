package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/errors"
)

type itemPayload struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"min=1,max=99"`
}

func TestDecodeJSONBodyReportsFieldErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"product_id":"nope","quantity":0}`))

	var payload itemPayload
	err := DecodeJSONBody(req, &payload)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details := typed.Details().(map[string]string)
	if details["product_id"] != "must be a valid uuid" {
		t.Fatalf("unexpected product_id detail %q", details["product_id"])
	}
	if details["quantity"] != "must be at least 1" {
		t.Fatalf("unexpected quantity detail %q", details["quantity"])
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"product_id":"7d1c6f3e-6a55-4b59-9c1e-0a3f6e2f0001","quantity":1,"price":"0.01"}`))

	var payload itemPayload
	if err := DecodeJSONBody(req, &payload); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for unknown field, got %v", err)
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=500&page=x", nil)

	if v, err := ParseQueryInt(req, "missing", 25, 1, 100); err != nil || v != 25 {
		t.Fatalf("expected default 25, got %d %v", v, err)
	}
	if _, err := ParseQueryInt(req, "limit", 25, 1, 100); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected out of range error, got %v", err)
	}
	if _, err := ParseQueryInt(req, "page", 1, 1, 100); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected numeric error, got %v", err)
	}
}

func TestSanitizeStringKeepsRunesWhole(t *testing.T) {
	if got := SanitizeString("  pão de queijo  ", 2); got != "p" {
		t.Fatalf("expected cut before the multi-byte rune, got %q", got)
	}
	if got := SanitizeString(" sem cebola ", 0); got != "sem cebola" {
		t.Fatalf("unexpected %q", got)
	}
}
