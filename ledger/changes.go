package ledger

import (
	"math/big"
	"sort"

	"github.com/dogechain-lab/moveledger/executor"
	"github.com/dogechain-lab/moveledger/types"
)

// objectChanges classifies every object touched by a transaction. Written
// objects come first ordered by id, followed by deleted and wrapped ones.
func objectChanges(sender types.Address, store *executor.TemporaryStore) []types.ObjectChange {
	var changes []types.ObjectChange

	for _, obj := range store.Written() {
		if obj.IsPackage() {
			changes = append(changes, types.ObjectChange{
				Kind:     types.ChangePublished,
				Sender:   sender,
				ObjectID: obj.ID,
				Version:  obj.Version,
				Digest:   obj.Digest(),
				Modules:  obj.ModuleNames(),
			})

			continue
		}

		owner := obj.Owner
		change := types.ObjectChange{
			Sender:     sender,
			ObjectType: obj.Type.TypeTag(),
			ObjectID:   obj.ID,
			Version:    obj.Version,
			Digest:     obj.Digest(),
		}

		prev, existed := store.Previous(obj.ID)

		switch {
		case !existed:
			change.Kind = types.ChangeCreated
			change.Owner = &owner
		case prev.Owner == obj.Owner:
			change.Kind = types.ChangeMutated
			change.Owner = &owner
			change.PreviousVersion = prev.Version
		default:
			change.Kind = types.ChangeTransferred
			change.Recipient = &owner
			change.PreviousVersion = prev.Version
		}

		changes = append(changes, change)
	}

	type tombstone struct {
		id      types.ObjectID
		wrapped bool
	}

	var tombstones []tombstone

	for _, id := range store.Deleted() {
		tombstones = append(tombstones, tombstone{id: id})
	}

	for _, obj := range store.WrappedObjects() {
		tombstones = append(tombstones, tombstone{id: obj.ID, wrapped: true})
	}

	sort.Slice(tombstones, func(i, j int) bool {
		return string(tombstones[i].id[:]) < string(tombstones[j].id[:])
	})

	for _, ts := range tombstones {
		prev, ok := store.Previous(ts.id)
		if !ok || prev.Type == nil {
			continue
		}

		change := types.ObjectChange{
			Kind:            types.ChangeDeleted,
			Sender:          sender,
			ObjectType:      prev.Type.TypeTag(),
			ObjectID:        ts.id,
			Version:         store.LamportVersion(),
			PreviousVersion: prev.Version,
			Digest:          types.ObjectDigestDeleted,
		}

		if ts.wrapped {
			change.Kind = types.ChangeWrapped
			change.Digest = types.ObjectDigestWrapped
		}

		changes = append(changes, change)
	}

	return changes
}

type balanceKey struct {
	owner    types.Owner
	coinType types.TypeTag
}

func ownerLess(a, b types.Owner) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}

	if a.Address != b.Address {
		return string(a.Address[:]) < string(b.Address[:])
	}

	return a.InitialSharedVersion < b.InitialSharedVersion
}

// balanceChanges nets the coin value moved per (owner, coin type). Zero
// deltas are dropped.
func balanceChanges(store *executor.TemporaryStore) []types.BalanceChange {
	deltas := make(map[balanceKey]*big.Int)

	account := func(obj *types.Object, credit bool) {
		coinType, ok := obj.CoinType()
		if !ok {
			return
		}

		value, err := obj.CoinValue()
		if err != nil {
			return
		}

		key := balanceKey{owner: obj.Owner, coinType: coinType}

		delta, ok := deltas[key]
		if !ok {
			delta = new(big.Int)
			deltas[key] = delta
		}

		if credit {
			delta.Add(delta, new(big.Int).SetUint64(value))
		} else {
			delta.Sub(delta, new(big.Int).SetUint64(value))
		}
	}

	debitPrevious := func(id types.ObjectID) {
		if prev, ok := store.Previous(id); ok {
			account(prev, false)
		}
	}

	for _, obj := range store.Written() {
		account(obj, true)
		debitPrevious(obj.ID)
	}

	for _, id := range store.Deleted() {
		debitPrevious(id)
	}

	for _, obj := range store.WrappedObjects() {
		debitPrevious(obj.ID)
	}

	changes := make([]types.BalanceChange, 0, len(deltas))

	for key, delta := range deltas {
		if delta.Sign() == 0 {
			continue
		}

		changes = append(changes, types.BalanceChange{
			Owner:    key.owner,
			CoinType: key.coinType,
			Amount:   delta,
		})
	}

	sort.Slice(changes, func(i, j int) bool {
		if changes[i].Owner != changes[j].Owner {
			return ownerLess(changes[i].Owner, changes[j].Owner)
		}

		return changes[i].CoinType < changes[j].CoinType
	})

	return changes
}

// transactionEvents stamps the emitted events with their position
func transactionEvents(digest types.Digest, events []types.Event, timestampMs uint64) []types.TransactionEvent {
	if len(events) == 0 {
		return nil
	}

	out := make([]types.TransactionEvent, 0, len(events))

	for i, ev := range events {
		ts := timestampMs
		out = append(out, types.TransactionEvent{
			ID:          types.EventID{TxDigest: digest, EventSeq: uint64(i)},
			Event:       ev,
			TimestampMs: &ts,
		})
	}

	return out
}
