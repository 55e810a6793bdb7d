package txindex

import (
	"sort"

	"github.com/dogechain-lab/fastrlp"
	"github.com/dogechain-lab/moveledger/types"
)

func (s digestSet) sorted() []types.Digest {
	return union(s)
}

func copySets[K comparable](m map[K]digestSet) map[K]digestSet {
	c := make(map[K]digestSet, len(m))

	for k, set := range m {
		cs := make(digestSet, len(set))
		for d := range set {
			cs[d] = struct{}{}
		}

		c[k] = cs
	}

	return c
}

// Copy returns a deep copy of the indices
func (i *Indices) Copy() *Indices {
	c := &Indices{
		indexed:           make(digestSet, len(i.indexed)),
		bySender:          copySets(i.bySender),
		byRecipient:       copySets(i.byRecipient),
		bySenderRecipient: copySets(i.bySenderRecipient),
		byInputObject:     copySets(i.byInputObject),
		byCreatedObject:   copySets(i.byCreatedObject),
		byMutatedObject:   copySets(i.byMutatedObject),
		byDeletedObject:   copySets(i.byDeletedObject),
		byWrappedObject:   copySets(i.byWrappedObject),
		byMoveCall:        copySets(i.byMoveCall),
		byPackage:         copySets(i.byPackage),
		byModule:          copySets(i.byModule),
		byKind:            copySets(i.byKind),
	}

	for d := range i.indexed {
		c.indexed[d] = struct{}{}
	}

	return c
}

type setEntry struct {
	raw     string
	key     *fastrlp.Value
	digests []types.Digest
}

// marshalSets encodes m as a list of [key, [digests]] ordered by the
// encoded key, so equal indices always encode to equal bytes
func marshalSets[K comparable](
	ar *fastrlp.Arena,
	m map[K]digestSet,
	marshalKey func(*fastrlp.Arena, K) *fastrlp.Value,
) *fastrlp.Value {
	entries := make([]setEntry, 0, len(m))

	for k, set := range m {
		key := marshalKey(ar, k)

		entries = append(entries, setEntry{
			raw:     string(key.MarshalTo(nil)),
			key:     key,
			digests: set.sorted(),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].raw < entries[j].raw
	})

	v := ar.NewArray()

	for _, e := range entries {
		pair := ar.NewArray()
		pair.Set(e.key)
		pair.Set(types.NewDigests(ar, e.digests))
		v.Set(pair)
	}

	return v
}

func unmarshalSets[K comparable](
	v *fastrlp.Value,
	name string,
	unmarshalKey func(*fastrlp.Value) (K, error),
) (map[K]digestSet, error) {
	elems, err := types.ElemsOf(v, name, -1)
	if err != nil {
		return nil, err
	}

	m := make(map[K]digestSet, len(elems))

	for _, elem := range elems {
		pair, err := types.ElemsOf(elem, name+" entry", 2)
		if err != nil {
			return nil, err
		}

		key, err := unmarshalKey(pair[0])
		if err != nil {
			return nil, err
		}

		digests, err := types.DecodeDigests(pair[1])
		if err != nil {
			return nil, err
		}

		set := make(digestSet, len(digests))
		for _, d := range digests {
			set[d] = struct{}{}
		}

		m[key] = set
	}

	return m, nil
}

func marshalAddress(ar *fastrlp.Arena, a types.Address) *fastrlp.Value {
	return a.MarshalWith(ar)
}

func unmarshalAddress(v *fastrlp.Value) (types.Address, error) {
	var a types.Address

	err := a.UnmarshalValue(v)

	return a, err
}

func marshalObjectID(ar *fastrlp.Arena, id types.ObjectID) *fastrlp.Value {
	return id.MarshalWith(ar)
}

func unmarshalObjectID(v *fastrlp.Value) (types.ObjectID, error) {
	var id types.ObjectID

	err := id.UnmarshalValue(v)

	return id, err
}

func marshalPair(ar *fastrlp.Arena, p addressPair) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(p.From.MarshalWith(ar))
	v.Set(p.To.MarshalWith(ar))

	return v
}

func unmarshalPair(v *fastrlp.Value) (addressPair, error) {
	var p addressPair

	elems, err := types.ElemsOf(v, "address pair", 2)
	if err != nil {
		return p, err
	}

	if err := p.From.UnmarshalValue(elems[0]); err != nil {
		return p, err
	}

	err = p.To.UnmarshalValue(elems[1])

	return p, err
}

func marshalFunction(ar *fastrlp.Arena, f MoveFunction) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(f.Package.MarshalWith(ar))
	v.Set(ar.NewBytes([]byte(f.Module)))
	v.Set(ar.NewBytes([]byte(f.Function)))

	return v
}

func unmarshalFunction(v *fastrlp.Value) (MoveFunction, error) {
	var f MoveFunction

	elems, err := types.ElemsOf(v, "move function", 3)
	if err != nil {
		return f, err
	}

	if err := f.Package.UnmarshalValue(elems[0]); err != nil {
		return f, err
	}

	if f.Module, err = types.DecodeString(elems[1]); err != nil {
		return f, err
	}

	f.Function, err = types.DecodeString(elems[2])

	return f, err
}

func marshalModule(ar *fastrlp.Arena, m moduleKey) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(m.Package.MarshalWith(ar))
	v.Set(ar.NewBytes([]byte(m.Module)))

	return v
}

func unmarshalModule(v *fastrlp.Value) (moduleKey, error) {
	var m moduleKey

	elems, err := types.ElemsOf(v, "module", 2)
	if err != nil {
		return m, err
	}

	if err := m.Package.UnmarshalValue(elems[0]); err != nil {
		return m, err
	}

	m.Module, err = types.DecodeString(elems[1])

	return m, err
}

func marshalKind(ar *fastrlp.Arena, kind string) *fastrlp.Value {
	return ar.NewBytes([]byte(kind))
}

func (i *Indices) MarshalRLP() []byte {
	return types.MarshalRLP(i)
}

func (i *Indices) UnmarshalRLP(b []byte) error {
	return types.UnmarshalRLP(b, i)
}

func (i *Indices) MarshalWith(ar *fastrlp.Arena) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(types.NewDigests(ar, i.indexed.sorted()))
	v.Set(marshalSets(ar, i.bySender, marshalAddress))
	v.Set(marshalSets(ar, i.byRecipient, marshalAddress))
	v.Set(marshalSets(ar, i.bySenderRecipient, marshalPair))
	v.Set(marshalSets(ar, i.byInputObject, marshalObjectID))
	v.Set(marshalSets(ar, i.byCreatedObject, marshalObjectID))
	v.Set(marshalSets(ar, i.byMutatedObject, marshalObjectID))
	v.Set(marshalSets(ar, i.byDeletedObject, marshalObjectID))
	v.Set(marshalSets(ar, i.byWrappedObject, marshalObjectID))
	v.Set(marshalSets(ar, i.byMoveCall, marshalFunction))
	v.Set(marshalSets(ar, i.byPackage, marshalObjectID))
	v.Set(marshalSets(ar, i.byModule, marshalModule))
	v.Set(marshalSets(ar, i.byKind, marshalKind))

	return v
}

func (i *Indices) UnmarshalValue(v *fastrlp.Value) error {
	elems, err := types.ElemsOf(v, "indices", 13)
	if err != nil {
		return err
	}

	digests, err := types.DecodeDigests(elems[0])
	if err != nil {
		return err
	}

	i.indexed = make(digestSet, len(digests))
	for _, d := range digests {
		i.indexed[d] = struct{}{}
	}

	if i.bySender, err = unmarshalSets(elems[1], "by sender", unmarshalAddress); err != nil {
		return err
	}

	if i.byRecipient, err = unmarshalSets(elems[2], "by recipient", unmarshalAddress); err != nil {
		return err
	}

	if i.bySenderRecipient, err = unmarshalSets(elems[3], "by sender and recipient", unmarshalPair); err != nil {
		return err
	}

	if i.byInputObject, err = unmarshalSets(elems[4], "by input object", unmarshalObjectID); err != nil {
		return err
	}

	if i.byCreatedObject, err = unmarshalSets(elems[5], "by created object", unmarshalObjectID); err != nil {
		return err
	}

	if i.byMutatedObject, err = unmarshalSets(elems[6], "by mutated object", unmarshalObjectID); err != nil {
		return err
	}

	if i.byDeletedObject, err = unmarshalSets(elems[7], "by deleted object", unmarshalObjectID); err != nil {
		return err
	}

	if i.byWrappedObject, err = unmarshalSets(elems[8], "by wrapped object", unmarshalObjectID); err != nil {
		return err
	}

	if i.byMoveCall, err = unmarshalSets(elems[9], "by move call", unmarshalFunction); err != nil {
		return err
	}

	if i.byPackage, err = unmarshalSets(elems[10], "by package", unmarshalObjectID); err != nil {
		return err
	}

	if i.byModule, err = unmarshalSets(elems[11], "by module", unmarshalModule); err != nil {
		return err
	}

	i.byKind, err = unmarshalSets(elems[12], "by kind", types.DecodeString)

	return err
}
