package httpx

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/tikdhq/tikd/internal/platform/errors"
)

func TestChainAppliesInDeclarationOrder(t *testing.T) {
	t.Parallel()

	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		order = append(order, "handler")
		w.WriteHeader(http.StatusNoContent)
	}), tag("outer"), nil, tag("inner"))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := strings.Join(order, ","); got != "outer,inner,handler" {
		t.Fatalf("unexpected order %q", got)
	}
	if recorder.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", recorder.Code)
	}
}

func TestRequestIDGeneratesAndEchoes(t *testing.T) {
	t.Parallel()

	var seen string
	handler := Chain(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("X-Request-ID")
	}), RequestID())

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" {
		t.Fatal("expected generated request id on the request")
	}
	if got := recorder.Header().Get("X-Request-ID"); got != seen {
		t.Fatalf("response id %q does not echo request id %q", got, seen)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "caller-chosen")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	if got := recorder.Header().Get("X-Request-ID"); got != "caller-chosen" {
		t.Fatalf("expected caller id to be kept, got %q", got)
	}
}

func TestRecoverPanicWrites500(t *testing.T) {
	t.Parallel()

	handler := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), RecoverPanic())

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", recorder.Code)
	}
}

func TestWriteJSONSetsContentType(t *testing.T) {
	t.Parallel()

	recorder := httptest.NewRecorder()
	if err := WriteJSON(recorder, http.StatusCreated, map[string]string{"id": "x"}); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", recorder.Code)
	}
	if got := recorder.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
		t.Fatalf("unexpected content type %q", got)
	}
	if !strings.Contains(recorder.Body.String(), `"id":"x"`) {
		t.Fatalf("unexpected body %q", recorder.Body.String())
	}
}

func TestWriteErrorUsesTypedStatus(t *testing.T) {
	t.Parallel()

	recorder := httptest.NewRecorder()
	WriteError(recorder, apperrors.E(apperrors.KindNotFound, "event not found"))
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
	if got := strings.TrimSpace(recorder.Body.String()); got != "event not found" {
		t.Fatalf("expected plain-text message, got %q", got)
	}
	if ct := recorder.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("expected text/plain, got %q", ct)
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"name":"a","extra":true}`))
	var target payload
	err := DecodeJSON(req, &target)
	if err == nil {
		t.Fatal("expected unknown field error")
	}
	if apperrors.HTTPStatus(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 mapping, got %d", apperrors.HTTPStatus(err))
	}

	req = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"name":"a"}`))
	if err := DecodeJSON(req, &target); err != nil {
		t.Fatalf("decode valid body: %v", err)
	}
	if target.Name != "a" {
		t.Fatalf("unexpected target %+v", target)
	}
}
