package chain

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/dogechain-lab/moveledger/types"
)

var ErrEmptyGenesisPackage = errors.New("genesis package has no modules")

// GenesisAccount is funded with one gas coin per entry of Coins
type GenesisAccount struct {
	Coins []uint64 `json:"coins"`
}

// GenesisAlloc is the initial funding of the ledger
type GenesisAlloc map[types.Address]*GenesisAccount

// Genesis describes the objects present before the first transaction
type Genesis struct {
	// TimestampMs seeds the clock object
	TimestampMs uint64 `json:"timestampMs"`
	// Alloc funds accounts with gas coins
	Alloc GenesisAlloc `json:"alloc,omitempty"`
	// Packages are published at version 1 under their given ids
	Packages []*GenesisPackage `json:"packages,omitempty"`
}

// GenesisPackage is a package installed at genesis, such as the framework
type GenesisPackage struct {
	ID      types.ObjectID        `json:"id"`
	Modules []types.PackageModule `json:"modules"`
}

// Chain bundles the genesis and protocol params of a sandbox
type Chain struct {
	Name    string   `json:"name"`
	Genesis *Genesis `json:"genesis"`
	Params  *Params  `json:"params"`
}

// DefaultGenesis installs placeholder stdlib and framework packages
func DefaultGenesis() *Genesis {
	return &Genesis{
		Packages: []*GenesisPackage{
			{
				ID: types.StdlibPackageID,
				Modules: []types.PackageModule{
					{Name: "ascii"}, {Name: "option"}, {Name: "string"}, {Name: "vector"},
				},
			},
			{
				ID: types.FrameworkPackageID,
				Modules: []types.PackageModule{
					{Name: "clock"}, {Name: "coin"}, {Name: "dynamic_field"},
					{Name: "dynamic_object_field"}, {Name: "event"}, {Name: "object"},
					{Name: "package"}, {Name: "pay"}, {Name: "sui"}, {Name: "transfer"},
				},
			},
		},
	}
}

// DefaultChain is the configuration used when none is supplied
func DefaultChain() *Chain {
	return &Chain{
		Name:    "sandbox",
		Genesis: DefaultGenesis(),
		Params:  DefaultParams(),
	}
}

// Objects builds the genesis objects in a deterministic order: packages,
// the clock, then gas coins sorted by owner.
func (g *Genesis) Objects() []*types.Object {
	var objects []*types.Object

	for _, pkg := range g.Packages {
		objects = append(objects, types.NewPackage(pkg.ID, 1, pkg.Modules, types.ZeroDigest))
	}

	objects = append(objects, NewClockObject(1, g.TimestampMs, types.ZeroDigest))

	owners := make([]types.Address, 0, len(g.Alloc))
	for addr := range g.Alloc {
		owners = append(owners, addr)
	}

	sort.Slice(owners, func(i, j int) bool {
		return string(owners[i][:]) < string(owners[j][:])
	})

	for _, owner := range owners {
		for i, value := range g.Alloc[owner].Coins {
			id := GenesisCoinID(owner, uint64(i))
			objects = append(objects, types.NewGasCoin(id, 1, owner, value, types.ZeroDigest))
		}
	}

	return objects
}

// GenesisCoinID derives the id of the index-th genesis coin of owner
func GenesisCoinID(owner types.Address, index uint64) types.ObjectID {
	seed := types.MarshalDigest("GenesisCoin::", owner)

	var id types.ObjectID

	copy(id[:], seed[:])
	id[types.AddressLength-1] ^= byte(index)
	id[types.AddressLength-2] ^= byte(index >> 8)

	return id
}

// NewClockObject builds the shared clock holding timestampMs
func NewClockObject(version types.SequenceNumber, timestampMs uint64, prev types.Digest) *types.Object {
	body := make([]byte, 8)
	putUint64(body, timestampMs)

	return types.NewMoveObject(types.ClockObjectID, version, types.SharedOwner(1), types.ClockType, body, prev)
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

// Import reads a chain description from a json file
func Import(path string) (*Chain, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chain file %s: %w", path, err)
	}

	return importChain(data)
}

func importChain(content []byte) (*Chain, error) {
	chain := &Chain{
		Genesis: DefaultGenesis(),
		Params:  DefaultParams(),
	}

	if err := json.Unmarshal(content, chain); err != nil {
		return nil, err
	}

	if err := chain.Params.Validate(); err != nil {
		return nil, err
	}

	for _, pkg := range chain.Genesis.Packages {
		if len(pkg.Modules) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyGenesisPackage, pkg.ID)
		}
	}

	return chain, nil
}
