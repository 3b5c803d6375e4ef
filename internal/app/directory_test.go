package app

import (
	"testing"

	"github.com/lingoroom/relay/internal/domain"
)

func mustParticipant(t *testing.T, id, name string) domain.Participant {
	t.Helper()
	p, err := domain.NewParticipant(domain.UserID(id), name)
	if err != nil {
		t.Fatalf("NewParticipant(%q): %v", id, err)
	}
	return p
}

func TestJoinCreatesRoomWithFirstLanguage(t *testing.T) {
	d := NewDirectory()
	d.Join("r1", mustParticipant(t, "a", "Alice"), "python")
	// A later joiner's language is ignored once the room exists.
	d.Join("r1", mustParticipant(t, "b", "Bob"), "german")

	if _, ok := d.FindAvailable("german", 6); ok {
		t.Fatal("room language should be fixed at creation")
	}
	if rid, ok := d.FindAvailable("python", 6); !ok || rid != "r1" {
		t.Fatalf("expected r1 for python, got %q ok=%v", rid, ok)
	}
}

func TestJoinIsIdempotentPerUserID(t *testing.T) {
	d := NewDirectory()
	d.Join("r1", mustParticipant(t, "a", "Alice"), "python")
	d.Join("r1", mustParticipant(t, "b", "Bob"), "python")
	snap := d.Join("r1", mustParticipant(t, "a", "Alice again"), "python")

	if len(snap) != 2 {
		t.Fatalf("duplicate join must not grow the list: %v", snap)
	}
	seen := map[domain.UserID]int{}
	for _, p := range snap {
		seen[p.UserID]++
	}
	if seen["a"] != 1 || seen["b"] != 1 {
		t.Fatalf("each userId must appear exactly once: %v", seen)
	}
	// Insertion order preserved, original record kept.
	if snap[0].UserID != "a" || snap[0].Name != "Alice" {
		t.Fatalf("first participant mangled: %+v", snap[0])
	}
}

func TestJoinResetsReadyFlagOnNewParticipantsOnly(t *testing.T) {
	d := NewDirectory()
	p := mustParticipant(t, "a", "Alice")
	p.IsReady = true // whatever the client claims, a fresh join starts not ready
	snap := d.Join("r1", p, "python")
	if snap[0].IsReady {
		t.Fatal("new participant must start with isReady=false")
	}

	if !d.SetReady("r1", "a", true) {
		t.Fatal("SetReady should find the participant")
	}
	snap = d.Join("r1", mustParticipant(t, "a", "Alice"), "python")
	if !snap[0].IsReady {
		t.Fatal("idempotent re-join must not reset an existing ready flag")
	}
}

func TestLeaveUnknownRoomAndUser(t *testing.T) {
	d := NewDirectory()
	if _, ok, _ := d.Leave("nope", "a"); ok {
		t.Fatal("leaving an unknown room must report ok=false")
	}

	d.Join("r1", mustParticipant(t, "a", "Alice"), "python")
	snap, ok, deleted := d.Leave("r1", "stranger")
	if !ok || deleted {
		t.Fatalf("unknown user leave: ok=%v deleted=%v", ok, deleted)
	}
	if len(snap) != 1 {
		t.Fatalf("unknown user leave must not change the list: %v", snap)
	}
}

func TestLeaveLastParticipantDeletesRoom(t *testing.T) {
	d := NewDirectory()
	d.Join("r1", mustParticipant(t, "a", "Alice"), "python")

	snap, ok, deleted := d.Leave("r1", "a")
	if !ok || !deleted {
		t.Fatalf("expected synchronous deletion: ok=%v deleted=%v", ok, deleted)
	}
	if len(snap) != 0 {
		t.Fatalf("final snapshot should be empty: %v", snap)
	}
	if _, ok := d.FindAvailable("python", 6); ok {
		t.Fatal("deleted room must not be matchable")
	}
	if _, ok := d.Snapshot("r1"); ok {
		t.Fatal("deleted room must not be readable")
	}
}

func TestSetReadyNeverCreatesPhantoms(t *testing.T) {
	d := NewDirectory()
	d.Join("r1", mustParticipant(t, "a", "Alice"), "python")

	if d.SetReady("r1", "phantom", true) {
		t.Fatal("unknown user must be a no-op")
	}
	if d.SetReady("nope", "a", true) {
		t.Fatal("unknown room must be a no-op")
	}
	snap, _ := d.Snapshot("r1")
	if len(snap) != 1 {
		t.Fatalf("phantom participant appeared: %v", snap)
	}
}

func TestSetReadyTouchesOnlyTarget(t *testing.T) {
	d := NewDirectory()
	d.Join("r1", mustParticipant(t, "a", "Alice"), "python")
	d.Join("r1", mustParticipant(t, "b", "Bob"), "python")
	d.SetReady("r1", "a", true)
	d.SetReady("r1", "b", true)
	d.SetReady("r1", "a", false)

	snap, _ := d.Snapshot("r1")
	for _, p := range snap {
		switch p.UserID {
		case "a":
			if p.IsReady {
				t.Fatal("a should have been toggled back off")
			}
		case "b":
			if !p.IsReady {
				t.Fatal("b's flag must not be reset by a's change")
			}
		}
	}
}

func TestFindAvailableHonorsCapacity(t *testing.T) {
	d := NewDirectory()
	for i := 0; i < 6; i++ {
		d.Join("full", mustParticipant(t, string(rune('a'+i)), "x"), "python")
	}
	if _, ok := d.FindAvailable("python", 6); ok {
		t.Fatal("a room at capacity must never be returned")
	}

	d.Join("open", mustParticipant(t, "z", "Zoe"), "python")
	if rid, ok := d.FindAvailable("python", 6); !ok || rid != "open" {
		t.Fatalf("expected the room with seats, got %q ok=%v", rid, ok)
	}
}

func TestFindAvailableScansInInsertionOrder(t *testing.T) {
	d := NewDirectory()
	d.Join("first", mustParticipant(t, "a", "A"), "python")
	d.Join("second", mustParticipant(t, "b", "B"), "python")

	if rid, _ := d.FindAvailable("python", 6); rid != "first" {
		t.Fatalf("first matching room should win, got %q", rid)
	}

	// Deleting the older room promotes the next one.
	d.Leave("first", "a")
	if rid, _ := d.FindAvailable("python", 6); rid != "second" {
		t.Fatalf("expected second after deletion, got %q", rid)
	}
}

func TestListReflectsDirectory(t *testing.T) {
	d := NewDirectory()
	d.Join("r1", mustParticipant(t, "a", "A"), "python")
	d.Join("r2", mustParticipant(t, "b", "B"), "french")

	infos := d.List()
	if len(infos) != 2 {
		t.Fatalf("expected 2 rooms, got %v", infos)
	}
	if infos[0].ID != "r1" || infos[0].Language != "python" || infos[0].Participants != 1 {
		t.Fatalf("unexpected info: %+v", infos[0])
	}
}
