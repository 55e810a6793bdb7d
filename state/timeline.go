package state

import (
	"sort"

	"github.com/dogechain-lab/moveledger/types"
)

// Timeline is the version history of one object. Versions are kept in
// ascending order. DeletedAt is set while the object is tombstoned.
type Timeline struct {
	Versions  []*types.Object
	DeletedAt *types.SequenceNumber
}

func (t *Timeline) search(version types.SequenceNumber) int {
	return sort.Search(len(t.Versions), func(i int) bool {
		return t.Versions[i].Version >= version
	})
}

// Find returns the entry recorded at exactly version
func (t *Timeline) Find(version types.SequenceNumber) (*types.Object, bool) {
	i := t.search(version)
	if i < len(t.Versions) && t.Versions[i].Version == version {
		return t.Versions[i], true
	}

	return nil, false
}

// Latest returns the highest recorded version
func (t *Timeline) Latest() *types.Object {
	if len(t.Versions) == 0 {
		return nil
	}

	return t.Versions[len(t.Versions)-1]
}

// put records obj, replacing an entry of the same version
func (t *Timeline) put(obj *types.Object) {
	i := t.search(obj.Version)
	if i < len(t.Versions) && t.Versions[i].Version == obj.Version {
		t.Versions[i] = obj

		return
	}

	t.Versions = append(t.Versions, nil)
	copy(t.Versions[i+1:], t.Versions[i:])
	t.Versions[i] = obj
}

// Copy returns a deep copy
func (t *Timeline) Copy() *Timeline {
	c := &Timeline{
		Versions: make([]*types.Object, len(t.Versions)),
	}

	for i, obj := range t.Versions {
		c.Versions[i] = obj.Copy()
	}

	if t.DeletedAt != nil {
		deletedAt := *t.DeletedAt
		c.DeletedAt = &deletedAt
	}

	return c
}
