package services

import (
	"sort"

	"github.com/google/uuid"
)

// ReconcileDiff computes the membership changes needed to move current to
// desired: added = desired \ current, removed = current \ desired. Both
// results are sorted by id string so event payloads render deterministically.
// Duplicate ids in either input collapse to one.
func ReconcileDiff(current, desired []uuid.UUID) (added, removed []uuid.UUID) {
	currentSet := make(map[uuid.UUID]struct{}, len(current))
	for _, id := range current {
		currentSet[id] = struct{}{}
	}
	desiredSet := make(map[uuid.UUID]struct{}, len(desired))
	for _, id := range desired {
		desiredSet[id] = struct{}{}
	}

	added = make([]uuid.UUID, 0)
	for id := range desiredSet {
		if _, ok := currentSet[id]; !ok {
			added = append(added, id)
		}
	}
	removed = make([]uuid.UUID, 0)
	for id := range currentSet {
		if _, ok := desiredSet[id]; !ok {
			removed = append(removed, id)
		}
	}

	sortUUIDs(added)
	sortUUIDs(removed)
	return added, removed
}

func sortUUIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
}
