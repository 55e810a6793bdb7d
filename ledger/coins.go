package ledger

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dogechain-lab/moveledger/helper/blake2b"
	"github.com/dogechain-lab/moveledger/types"
)

var (
	ErrInvalidCoinType = errors.New("invalid coin type")
)

// mintID derives the id of the n-th minted coin
func mintID(n uint64) types.ObjectID {
	return types.ObjectID(blake2b.Sum256([]byte("MintedCoin::"), types.EncodeU64(n)))
}

func coinTypeOrDefault(coinType types.TypeTag) (types.TypeTag, error) {
	if coinType == "" {
		return types.SuiCoinType, nil
	}

	if !coinType.IsStruct() {
		return "", fmt.Errorf("%w: %s", ErrInvalidCoinType, coinType)
	}

	return coinType, nil
}

// Mint creates a coin of amount owned by owner outside of any transaction.
// An empty coin type mints SUI.
func (e *Engine) Mint(owner types.Address, amount uint64, coinType types.TypeTag) (types.ObjectID, error) {
	coinType, err := coinTypeOrDefault(coinType)
	if err != nil {
		return types.ObjectID{}, err
	}

	id, next := e.nextMintID()
	if err := e.insertCoin(id, owner, amount, coinType); err != nil {
		return types.ObjectID{}, err
	}

	e.mints = next

	return id, nil
}

// nextMintID returns the first free minted coin id and the counter value
// following it, leaving the counter untouched
func (e *Engine) nextMintID() (types.ObjectID, uint64) {
	counter := e.mints

	id := mintID(counter)
	for e.store.Exists(id) {
		counter++
		id = mintID(counter)
	}

	return id, counter + 1
}

func (e *Engine) insertCoin(id types.ObjectID, owner types.Address, amount uint64, coinType types.TypeTag) error {
	coin := types.NewCoin(id, 1, types.AddressOwner(owner), coinType, amount, types.ZeroDigest)
	if err := e.store.Insert(coin); err != nil {
		return err
	}

	e.metrics.SetLiveObjects(float64(e.store.Len()))
	e.logger.Debug("minted coin", "id", id, "owner", owner, "amount", amount, "type", coinType)

	return nil
}

func (e *Engine) coinObjects(owner types.Address, coinType types.TypeTag) []*types.Object {
	var coins []*types.Object

	for _, obj := range e.store.OwnedBy(owner) {
		if t, ok := obj.CoinType(); ok && (coinType == "" || t == coinType) {
			coins = append(coins, obj)
		}
	}

	return coins
}

// Coins lists the coins of coinType owned by owner, ordered by id. An
// empty coin type lists SUI.
func (e *Engine) Coins(owner types.Address, coinType types.TypeTag) ([]types.Coin, error) {
	coinType, err := coinTypeOrDefault(coinType)
	if err != nil {
		return nil, err
	}

	objs := e.coinObjects(owner, coinType)
	coins := make([]types.Coin, 0, len(objs))

	for _, obj := range objs {
		value, err := obj.CoinValue()
		if err != nil {
			return nil, err
		}

		coins = append(coins, types.Coin{
			CoinType:            coinType,
			CoinObjectID:        obj.ID,
			Version:             obj.Version,
			Digest:              obj.Digest(),
			Balance:             value,
			PreviousTransaction: obj.PreviousTransaction,
		})
	}

	return coins, nil
}

// Balance sums the coins of coinType owned by owner. An empty coin type
// sums SUI.
func (e *Engine) Balance(owner types.Address, coinType types.TypeTag) (uint64, error) {
	coins, err := e.Coins(owner, coinType)
	if err != nil {
		return 0, err
	}

	var total uint64

	for _, c := range coins {
		if total+c.Balance < total {
			return 0, fmt.Errorf("balance of %s overflows", owner)
		}

		total += c.Balance
	}

	return total, nil
}

// AllBalances totals every coin type owned by owner, ordered by type
func (e *Engine) AllBalances(owner types.Address) ([]types.Balance, error) {
	byType := make(map[types.TypeTag]*types.Balance)

	for _, obj := range e.coinObjects(owner, "") {
		coinType, _ := obj.CoinType()

		value, err := obj.CoinValue()
		if err != nil {
			return nil, err
		}

		b, ok := byType[coinType]
		if !ok {
			b = &types.Balance{CoinType: coinType}
			byType[coinType] = b
		}

		if b.TotalBalance+value < b.TotalBalance {
			return nil, fmt.Errorf("balance of %s in %s overflows", owner, coinType)
		}

		b.CoinObjectCount++
		b.TotalBalance += value
	}

	balances := make([]types.Balance, 0, len(byType))
	for _, b := range byType {
		balances = append(balances, *b)
	}

	sort.Slice(balances, func(i, j int) bool {
		return balances[i].CoinType < balances[j].CoinType
	})

	return balances, nil
}

// DefaultGasPayment returns references to every SUI coin of owner
func (e *Engine) DefaultGasPayment(owner types.Address) []types.ObjectRef {
	var refs []types.ObjectRef

	for _, obj := range e.coinObjects(owner, types.SuiCoinType) {
		refs = append(refs, obj.Reference())
	}

	return refs
}
