package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestErrorMessageFallsBackToKind(t *testing.T) {
	t.Parallel()

	err := E(KindNotFound, "")
	if err.Error() != "not_found" {
		t.Fatalf("expected kind fallback message, got %q", err.Error())
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		kind Kind
		want int
	}{
		{KindInvalidInput, http.StatusBadRequest},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindUnavailable, http.StatusServiceUnavailable},
		{KindUnknown, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(E(tc.kind, "boom")); got != tc.want {
			t.Fatalf("kind %s: expected status %d, got %d", tc.kind, tc.want, got)
		}
	}
}

func TestHTTPStatusUnwrapsWrappedErrors(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("update member: %w", E(KindForbidden, "role change not allowed"))
	if got := HTTPStatus(wrapped); got != http.StatusForbidden {
		t.Fatalf("expected 403 for wrapped typed error, got %d", got)
	}
	if got := HTTPStatus(fmt.Errorf("plain failure")); got != http.StatusInternalServerError {
		t.Fatalf("expected 500 for untyped error, got %d", got)
	}
	if got := HTTPStatus(nil); got != http.StatusOK {
		t.Fatalf("expected 200 for nil error, got %d", got)
	}
}
