package cursor

import (
	"strings"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	c := New(1761000000000, "event-42", "status=published q=gala")
	token, err := Encode(c)
	if err != nil {
		t.Fatalf("encode cursor: %v", err)
	}
	decoded, err := Decode(token)
	if err != nil {
		t.Fatalf("decode cursor: %v", err)
	}
	if decoded != c {
		t.Fatalf("expected %+v, got %+v", c, decoded)
	}
}

func TestDecodeRejectsMalformedTokens(t *testing.T) {
	t.Parallel()

	if _, err := Decode(""); err == nil {
		t.Fatal("expected error for empty token")
	}
	if _, err := Decode("!!!not-base64!!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
	if _, err := Decode("bm90LWpzb24"); err == nil {
		t.Fatal("expected error for invalid json payload")
	}
}

func TestValidateFilterHashDetectsFilterChange(t *testing.T) {
	t.Parallel()

	c := New(1000, "evt-1", "status=draft")
	if err := ValidateFilterHash(c, "status=draft"); err != nil {
		t.Fatalf("expected matching filter to validate: %v", err)
	}
	err := ValidateFilterHash(c, "status=published")
	if err == nil {
		t.Fatal("expected error when filter changed")
	}
	if !strings.Contains(err.Error(), "filter changed") {
		t.Fatalf("unexpected error message: %v", err)
	}
}

func TestHashFilterEmptyIsEmpty(t *testing.T) {
	t.Parallel()

	if got := HashFilter(""); got != "" {
		t.Fatalf("expected empty hash for empty filter, got %q", got)
	}
	if HashFilter("a") == HashFilter("b") {
		t.Fatal("expected distinct hashes for distinct filters")
	}
}
