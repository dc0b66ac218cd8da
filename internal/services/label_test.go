package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/medtrace/pathlab-backend/internal/types"
)

func TestEffectiveLabelsFlagsInheritance(t *testing.T) {
	urgent := &types.Label{ID: uuid.New(), Name: "urgent"}
	biopsy := &types.Label{ID: uuid.New(), Name: "biopsy"}
	external := &types.Label{ID: uuid.New(), Name: "external"}

	got := EffectiveLabels(
		[]*types.Label{urgent, biopsy},
		[]*types.Label{external},
	)
	if len(got) != 3 {
		t.Fatalf("want 3 labels, got %d", len(got))
	}
	if got[0].Name != "biopsy" || got[1].Name != "external" || got[2].Name != "urgent" {
		t.Fatalf("wrong order: %s, %s, %s", got[0].Name, got[1].Name, got[2].Name)
	}
	if got[0].Inherited || got[2].Inherited {
		t.Fatal("own labels must not be flagged inherited")
	}
	if !got[1].Inherited {
		t.Fatal("order label must be flagged inherited")
	}
}

func TestEffectiveLabelsOwnWinsOnOverlap(t *testing.T) {
	urgent := &types.Label{ID: uuid.New(), Name: "urgent"}

	got := EffectiveLabels(
		[]*types.Label{urgent},
		[]*types.Label{urgent},
	)
	if len(got) != 1 {
		t.Fatalf("want 1 label, got %d", len(got))
	}
	if got[0].Inherited {
		t.Fatal("label on both sample and order must count as the sample's own")
	}
}

func TestEffectiveLabelsHandlesNilAndEmpty(t *testing.T) {
	urgent := &types.Label{ID: uuid.New(), Name: "urgent"}

	got := EffectiveLabels(nil, []*types.Label{nil, urgent})
	if len(got) != 1 || got[0].Label != urgent || !got[0].Inherited {
		t.Fatalf("want inherited [urgent], got %v", got)
	}
	if got := EffectiveLabels(nil, nil); len(got) != 0 {
		t.Fatalf("want empty result, got %d entries", len(got))
	}
}
