package storage

import "testing"

func TestNewStoreMemory(t *testing.T) {
	for _, kind := range []string{"", "memory"} {
		store, err := NewStore(kind, "")
		if err != nil {
			t.Fatalf("new %q store: %v", kind, err)
		}
		if _, ok := store.(*MemoryStore); !ok {
			t.Fatalf("NewStore(%q) = %T, want *MemoryStore", kind, store)
		}
	}
}

func TestNewStoreUnsupported(t *testing.T) {
	_, err := NewStore("mysql", "")
	if err == nil {
		t.Fatal("expected unsupported store error")
	}
}
