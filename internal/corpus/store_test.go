package corpus

import (
	"context"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Add(ctx, "++++++++[>++++++++<-]>+.", "ascii A")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	entry, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if entry.Source != "++++++++[>++++++++<-]>+." {
		t.Errorf("Source = %q", entry.Source)
	}
	if entry.Note != "ascii A" {
		t.Errorf("Note = %q", entry.Note)
	}
}

func TestAddDeduplicatesByHash(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id1, err := s.Add(ctx, "+[]", "first")
	if err != nil {
		t.Fatal(err)
	}
	id2, err := s.Add(ctx, "+[]", "second")
	if err != nil {
		t.Fatal(err)
	}
	if id1 != id2 {
		t.Errorf("Add of identical source returned different IDs: %s != %s", id1, id2)
	}

	entries, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("List() returned %d entries, want 1", len(entries))
	}
}

func TestListOrdersMostRecentFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Add(ctx, "+", "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Add(ctx, "-", "b"); err != nil {
		t.Fatal(err)
	}

	entries, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Source != "-" {
		t.Errorf("entries[0].Source = %q, want %q (most recent first)", entries[0].Source, "-")
	}
}
