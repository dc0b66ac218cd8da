package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func entryAt(t *testing.T, id string, at time.Time) *WorklistEntry {
	t.Helper()
	return &WorklistEntry{
		Kind:       WorklistKindAssignment,
		ID:         mustUUID(t, id),
		ItemID:     mustUUID(t, id),
		AssignedAt: at,
	}
}

func TestSortWorklistNewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	oldest := entryAt(t, "00000000-0000-0000-0000-00000000000a", base.Add(-2*time.Hour))
	middle := entryAt(t, "00000000-0000-0000-0000-00000000000b", base.Add(-time.Hour))
	newest := entryAt(t, "00000000-0000-0000-0000-00000000000c", base)

	entries := []*WorklistEntry{oldest, newest, middle}
	SortWorklist(entries)

	if entries[0] != newest || entries[1] != middle || entries[2] != oldest {
		t.Fatalf("wrong order: got %v, %v, %v", entries[0].ID, entries[1].ID, entries[2].ID)
	}
}

func TestSortWorklistTieBreaksOnID(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := entryAt(t, "00000000-0000-0000-0000-00000000000a", at)
	second := entryAt(t, "00000000-0000-0000-0000-00000000000b", at)

	entries := []*WorklistEntry{second, first}
	SortWorklist(entries)
	if entries[0] != first || entries[1] != second {
		t.Fatalf("tie not broken by id: got %v, %v", entries[0].ID, entries[1].ID)
	}
}

func TestPaginateWorklist(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := make([]*WorklistEntry, 0, 5)
	for i := 0; i < 5; i++ {
		entries = append(entries, &WorklistEntry{ID: uuid.New(), AssignedAt: at})
	}

	page := PaginateWorklist(entries, 1, 2)
	if len(page.Entries) != 2 || page.Total != 5 {
		t.Fatalf("page 1: want 2 of 5, got %d of %d", len(page.Entries), page.Total)
	}
	page = PaginateWorklist(entries, 3, 2)
	if len(page.Entries) != 1 {
		t.Fatalf("page 3: want 1 entry, got %d", len(page.Entries))
	}
	page = PaginateWorklist(entries, 4, 2)
	if len(page.Entries) != 0 {
		t.Fatalf("page past end: want 0 entries, got %d", len(page.Entries))
	}
}

func TestPaginateWorklistDefaults(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []*WorklistEntry{{ID: uuid.New(), AssignedAt: at}}

	page := PaginateWorklist(entries, 0, 0)
	if page.Page != 1 || page.PageSize != 20 {
		t.Fatalf("want defaults page=1 size=20, got page=%d size=%d", page.Page, page.PageSize)
	}
	if len(page.Entries) != 1 {
		t.Fatalf("want 1 entry, got %d", len(page.Entries))
	}
}
