package txindex

import (
	"sort"

	"github.com/dogechain-lab/moveledger/types"
)

// MoveFunction identifies a called function
type MoveFunction struct {
	Package  types.ObjectID
	Module   string
	Function string
}

type moduleKey struct {
	Package types.ObjectID
	Module  string
}

type addressPair struct {
	From types.Address
	To   types.Address
}

// Metadata is the denormalized view of one transaction used to fan out
// index updates
type Metadata struct {
	Digest       types.Digest
	Sender       types.Address
	Recipients   []types.Address
	InputObjects []types.ObjectID
	Created      []types.ObjectID
	Mutated      []types.ObjectID
	Deleted      []types.ObjectID
	Wrapped      []types.ObjectID
	MoveCalls    []MoveFunction
	Kind         string
}

// BuildMetadata derives the metadata of tx from its declared inputs and
// calls and its already computed object changes
func BuildMetadata(tx *types.TransactionData, changes []types.ObjectChange) *Metadata {
	var (
		recipients = make(map[types.Address]struct{})
		inputs     = make(map[types.ObjectID]struct{})
		created    = make(map[types.ObjectID]struct{})
		mutated    = make(map[types.ObjectID]struct{})
		deleted    = make(map[types.ObjectID]struct{})
		wrapped    = make(map[types.ObjectID]struct{})
	)

	addRecipient := func(owner *types.Owner) {
		if owner == nil {
			return
		}

		if addr, ok := owner.OwnerAddress(); ok {
			recipients[addr] = struct{}{}
		}
	}

	for _, c := range changes {
		switch c.Kind {
		case types.ChangeCreated:
			created[c.ObjectID] = struct{}{}
			addRecipient(c.Owner)
		case types.ChangeMutated:
			mutated[c.ObjectID] = struct{}{}
		case types.ChangeTransferred:
			mutated[c.ObjectID] = struct{}{}
			addRecipient(c.Recipient)
		case types.ChangeDeleted:
			deleted[c.ObjectID] = struct{}{}
		case types.ChangeWrapped:
			wrapped[c.ObjectID] = struct{}{}
		case types.ChangePublished:
		}
	}

	for _, in := range tx.Inputs() {
		if id, ok := in.ObjectID(); ok {
			inputs[id] = struct{}{}
		}
	}

	m := &Metadata{
		Digest:       tx.Digest(),
		Sender:       tx.Sender,
		InputObjects: sortedIDs(inputs),
		Created:      sortedIDs(created),
		Mutated:      sortedIDs(mutated),
		Deleted:      sortedIDs(deleted),
		Wrapped:      sortedIDs(wrapped),
		Kind:         tx.Kind.String(),
	}

	for _, call := range tx.MoveCalls() {
		m.MoveCalls = append(m.MoveCalls, MoveFunction{
			Package:  call.Package,
			Module:   call.Module,
			Function: call.Function,
		})
	}

	for addr := range recipients {
		m.Recipients = append(m.Recipients, addr)
	}

	sort.Slice(m.Recipients, func(i, j int) bool {
		return string(m.Recipients[i][:]) < string(m.Recipients[j][:])
	})

	return m
}

func sortedIDs(set map[types.ObjectID]struct{}) []types.ObjectID {
	if len(set) == 0 {
		return nil
	}

	ids := make([]types.ObjectID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		return string(ids[i][:]) < string(ids[j][:])
	})

	return ids
}
