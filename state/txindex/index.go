package txindex

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dogechain-lab/moveledger/types"
)

var (
	ErrInvalidFilter = errors.New("invalid transaction filter")
)

type digestSet map[types.Digest]struct{}

// Indices is a multi predicate secondary index over recorded transactions.
// Every query is answered from the maps without visiting transaction
// records.
type Indices struct {
	indexed digestSet

	bySender          map[types.Address]digestSet
	byRecipient       map[types.Address]digestSet
	bySenderRecipient map[addressPair]digestSet

	byInputObject   map[types.ObjectID]digestSet
	byCreatedObject map[types.ObjectID]digestSet
	byMutatedObject map[types.ObjectID]digestSet
	byDeletedObject map[types.ObjectID]digestSet
	byWrappedObject map[types.ObjectID]digestSet

	byMoveCall map[MoveFunction]digestSet
	byPackage  map[types.ObjectID]digestSet
	byModule   map[moduleKey]digestSet

	byKind map[string]digestSet
}

func NewIndices() *Indices {
	return &Indices{
		indexed:           make(digestSet),
		bySender:          make(map[types.Address]digestSet),
		byRecipient:       make(map[types.Address]digestSet),
		bySenderRecipient: make(map[addressPair]digestSet),
		byInputObject:     make(map[types.ObjectID]digestSet),
		byCreatedObject:   make(map[types.ObjectID]digestSet),
		byMutatedObject:   make(map[types.ObjectID]digestSet),
		byDeletedObject:   make(map[types.ObjectID]digestSet),
		byWrappedObject:   make(map[types.ObjectID]digestSet),
		byMoveCall:        make(map[MoveFunction]digestSet),
		byPackage:         make(map[types.ObjectID]digestSet),
		byModule:          make(map[moduleKey]digestSet),
		byKind:            make(map[string]digestSet),
	}
}

func insert[K comparable](m map[K]digestSet, key K, digest types.Digest) {
	set, ok := m[key]
	if !ok {
		set = make(digestSet)
		m[key] = set
	}

	set[digest] = struct{}{}
}

// IndexTransaction records tx under every predicate it matches. Indexing
// the same digest twice is a no-op.
func (i *Indices) IndexTransaction(tx *types.TransactionData, changes []types.ObjectChange) *Metadata {
	m := BuildMetadata(tx, changes)
	i.Index(m)

	return m
}

// Index fans metadata out into the per predicate maps
func (i *Indices) Index(m *Metadata) {
	if _, ok := i.indexed[m.Digest]; ok {
		return
	}

	i.indexed[m.Digest] = struct{}{}

	insert(i.bySender, m.Sender, m.Digest)

	for _, to := range m.Recipients {
		insert(i.byRecipient, to, m.Digest)
		insert(i.bySenderRecipient, addressPair{From: m.Sender, To: to}, m.Digest)
	}

	for _, id := range m.InputObjects {
		insert(i.byInputObject, id, m.Digest)
	}

	for _, id := range m.Created {
		insert(i.byCreatedObject, id, m.Digest)
	}

	for _, id := range m.Mutated {
		insert(i.byMutatedObject, id, m.Digest)
	}

	for _, id := range m.Deleted {
		insert(i.byDeletedObject, id, m.Digest)
	}

	for _, id := range m.Wrapped {
		insert(i.byWrappedObject, id, m.Digest)
	}

	for _, call := range m.MoveCalls {
		insert(i.byMoveCall, call, m.Digest)
		insert(i.byPackage, call.Package, m.Digest)
		insert(i.byModule, moduleKey{Package: call.Package, Module: call.Module}, m.Digest)
	}

	insert(i.byKind, m.Kind, m.Digest)
}

// Contains reports whether digest has been indexed
func (i *Indices) Contains(digest types.Digest) bool {
	_, ok := i.indexed[digest]

	return ok
}

// Len is the number of indexed transactions
func (i *Indices) Len() int {
	return len(i.indexed)
}

// Query returns the digests matching filter in ascending order. The
// checkpoint filter is accepted but never matches: no checkpoint index is
// kept.
func (i *Indices) Query(filter types.TransactionFilter) ([]types.Digest, error) {
	switch filter.Kind {
	case types.FilterCheckpoint:
		return nil, nil
	case types.FilterMoveFunction:
		return i.queryMoveFunction(filter.Package, filter.Module, filter.Function)
	case types.FilterInputObject:
		return union(i.byInputObject[filter.Object]), nil
	case types.FilterChangedObject:
		return union(
			i.byCreatedObject[filter.Object],
			i.byMutatedObject[filter.Object],
			i.byWrappedObject[filter.Object],
		), nil
	case types.FilterAffectedObject:
		return union(
			i.byInputObject[filter.Object],
			i.byCreatedObject[filter.Object],
			i.byMutatedObject[filter.Object],
			i.byDeletedObject[filter.Object],
			i.byWrappedObject[filter.Object],
		), nil
	case types.FilterFromAddress:
		return union(i.bySender[filter.From]), nil
	case types.FilterToAddress:
		return union(i.byRecipient[filter.To]), nil
	case types.FilterFromAndToAddress:
		return union(i.bySenderRecipient[addressPair{From: filter.From, To: filter.To}]), nil
	case types.FilterFromOrToAddress:
		return union(i.bySender[filter.From], i.byRecipient[filter.To]), nil
	case types.FilterTransactionKind, types.FilterTransactionKindIn:
		sets := make([]digestSet, 0, len(filter.Kinds))
		for _, kind := range filter.Kinds {
			sets = append(sets, i.byKind[kind])
		}

		return union(sets...), nil
	}

	return nil, fmt.Errorf("%w: unknown filter kind %s", ErrInvalidFilter, filter.Kind)
}

func (i *Indices) queryMoveFunction(pkg types.ObjectID, module, function string) ([]types.Digest, error) {
	switch {
	case function != "" && module == "":
		return nil, fmt.Errorf("%w: function %s requires a module", ErrInvalidFilter, function)
	case function != "":
		return union(i.byMoveCall[MoveFunction{Package: pkg, Module: module, Function: function}]), nil
	case module != "":
		return union(i.byModule[moduleKey{Package: pkg, Module: module}]), nil
	}

	return union(i.byPackage[pkg]), nil
}

func union(sets ...digestSet) []types.Digest {
	seen := make(digestSet)

	var digests []types.Digest

	for _, set := range sets {
		for d := range set {
			if _, ok := seen[d]; ok {
				continue
			}

			seen[d] = struct{}{}
			digests = append(digests, d)
		}
	}

	sort.Slice(digests, func(i, j int) bool {
		return string(digests[i][:]) < string(digests[j][:])
	})

	return digests
}

// Digests returns the indexed digests in ascending order
func (i *Indices) Digests() []types.Digest {
	return union(i.indexed)
}
