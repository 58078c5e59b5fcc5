package optimistic

import "testing"

func TestStoreSetIsSynchronouslyVisible(t *testing.T) {
	t.Parallel()

	store := NewStore(map[string]bool{"email": true})
	store.Set(func(prev map[string]bool) map[string]bool {
		next := make(map[string]bool, len(prev))
		for k, v := range prev {
			next[k] = v
		}
		next["email"] = false
		return next
	})
	if store.Get()["email"] {
		t.Fatal("expected update visible immediately after Set")
	}
}

func TestStoreIgnoresNilUpdater(t *testing.T) {
	t.Parallel()

	store := NewStore(42)
	store.Set(nil)
	if got := store.Get(); got != 42 {
		t.Fatalf("expected value unchanged, got %d", got)
	}
}
