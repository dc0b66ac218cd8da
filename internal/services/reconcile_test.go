package services

import (
	"testing"

	"github.com/google/uuid"
)

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	if err != nil {
		t.Fatalf("bad uuid %q: %v", s, err)
	}
	return id
}

func TestReconcileDiffBasic(t *testing.T) {
	a := mustUUID(t, "00000000-0000-0000-0000-00000000000a")
	b := mustUUID(t, "00000000-0000-0000-0000-00000000000b")
	c := mustUUID(t, "00000000-0000-0000-0000-00000000000c")

	added, removed := ReconcileDiff([]uuid.UUID{a, b}, []uuid.UUID{b, c})
	if len(added) != 1 || added[0] != c {
		t.Fatalf("added: want=[%v] got=%v", c, added)
	}
	if len(removed) != 1 || removed[0] != a {
		t.Fatalf("removed: want=[%v] got=%v", a, removed)
	}
}

func TestReconcileDiffNoChange(t *testing.T) {
	a := mustUUID(t, "00000000-0000-0000-0000-00000000000a")
	b := mustUUID(t, "00000000-0000-0000-0000-00000000000b")

	added, removed := ReconcileDiff([]uuid.UUID{a, b}, []uuid.UUID{b, a})
	if len(added) != 0 {
		t.Fatalf("added: want empty got=%v", added)
	}
	if len(removed) != 0 {
		t.Fatalf("removed: want empty got=%v", removed)
	}
}

func TestReconcileDiffEmptyDesiredRemovesAll(t *testing.T) {
	a := mustUUID(t, "00000000-0000-0000-0000-00000000000a")
	b := mustUUID(t, "00000000-0000-0000-0000-00000000000b")

	added, removed := ReconcileDiff([]uuid.UUID{b, a}, nil)
	if len(added) != 0 {
		t.Fatalf("added: want empty got=%v", added)
	}
	// Sorted by id string regardless of input order.
	if len(removed) != 2 || removed[0] != a || removed[1] != b {
		t.Fatalf("removed: want=[%v %v] got=%v", a, b, removed)
	}
}

func TestReconcileDiffEmptyCurrentAddsAll(t *testing.T) {
	a := mustUUID(t, "00000000-0000-0000-0000-00000000000a")
	b := mustUUID(t, "00000000-0000-0000-0000-00000000000b")

	added, removed := ReconcileDiff(nil, []uuid.UUID{b, a})
	if len(added) != 2 || added[0] != a || added[1] != b {
		t.Fatalf("added: want=[%v %v] got=%v", a, b, added)
	}
	if len(removed) != 0 {
		t.Fatalf("removed: want empty got=%v", removed)
	}
}

func TestReconcileDiffDuplicatesCollapse(t *testing.T) {
	a := mustUUID(t, "00000000-0000-0000-0000-00000000000a")
	b := mustUUID(t, "00000000-0000-0000-0000-00000000000b")

	added, removed := ReconcileDiff([]uuid.UUID{a, a}, []uuid.UUID{a, b, b})
	if len(added) != 1 || added[0] != b {
		t.Fatalf("added: want=[%v] got=%v", b, added)
	}
	if len(removed) != 0 {
		t.Fatalf("removed: want empty got=%v", removed)
	}
}

func TestReconcileDiffDisjointSides(t *testing.T) {
	a := mustUUID(t, "00000000-0000-0000-0000-00000000000a")
	b := mustUUID(t, "00000000-0000-0000-0000-00000000000b")
	c := mustUUID(t, "00000000-0000-0000-0000-00000000000c")
	d := mustUUID(t, "00000000-0000-0000-0000-00000000000d")

	added, removed := ReconcileDiff([]uuid.UUID{a, b}, []uuid.UUID{c, d})
	for _, id := range added {
		for _, rid := range removed {
			if id == rid {
				t.Fatalf("id %v appears on both sides of the diff", id)
			}
		}
	}
	if len(added) != 2 || len(removed) != 2 {
		t.Fatalf("want 2 added, 2 removed; got added=%v removed=%v", added, removed)
	}
}
