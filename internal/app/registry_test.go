package app

import "testing"

func TestRegistryResolveMissing(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Resolve("ghost"); ok {
		t.Fatal("resolved a user that was never registered")
	}
}

func TestRegistryLastWriteWins(t *testing.T) {
	r := NewRegistry()
	r.Register("u1", "conn-old")
	r.Register("u1", "conn-new")

	cid, ok := r.Resolve("u1")
	if !ok {
		t.Fatal("expected u1 to resolve")
	}
	if cid != "conn-new" {
		t.Fatalf("expected reconnect to overwrite mapping, got %q", cid)
	}
	if r.Len() != 1 {
		t.Fatalf("expected a single entry per user, got %d", r.Len())
	}
}

func TestRegistryUnregisterByConnection(t *testing.T) {
	r := NewRegistry()
	r.Register("u1", "conn-1")
	r.Register("u2", "conn-2")

	r.Unregister("conn-1")
	if _, ok := r.Resolve("u1"); ok {
		t.Fatal("u1 should be gone after its connection unregistered")
	}
	if _, ok := r.Resolve("u2"); !ok {
		t.Fatal("u2 should be untouched")
	}

	// Unknown connection is a no-op.
	r.Unregister("conn-1")
	if r.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", r.Len())
	}
}

func TestRegisterStaleMappingOnlyMatchingRemoved(t *testing.T) {
	r := NewRegistry()
	r.Register("u1", "conn-old")
	// Reconnect overwrites, so unregistering the old connection must not
	// remove the fresh mapping.
	r.Register("u1", "conn-new")
	r.Unregister("conn-old")

	if cid, ok := r.Resolve("u1"); !ok || cid != "conn-new" {
		t.Fatalf("fresh mapping lost: ok=%v cid=%q", ok, cid)
	}
}
