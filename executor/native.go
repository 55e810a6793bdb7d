package executor

import (
	"errors"
	"math"

	"github.com/dogechain-lab/moveledger/chain"
	"github.com/dogechain-lab/moveledger/types"
	"github.com/hashicorp/go-hclog"
)

// NativeExecutor interprets programmable transactions. Move calls are
// dispatched to natively implemented functions registered by
// (package, module, function); the framework natives are registered by
// default.
type NativeExecutor struct {
	logger  hclog.Logger
	natives map[string]NativeFunction
}

func NewNativeExecutor(logger hclog.Logger) *NativeExecutor {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	e := &NativeExecutor{
		logger:  logger.Named("executor"),
		natives: make(map[string]NativeFunction),
	}

	e.registerBuiltins()

	return e
}

// Register installs fn as the implementation of package::module::function
func (e *NativeExecutor) Register(pkg types.ObjectID, module, function string, fn NativeFunction) {
	e.natives[functionKey(pkg, module, function)] = fn
}

// Execute runs the transaction. Command failures revert every change but
// the gas charge and are reported in the output rather than returned.
func (e *NativeExecutor) Execute(p *ExecutionParams) *ExecutionOutput {
	store := NewTemporaryStore(p.Store, p.Inputs, p.Digest)

	gas := p.Gas
	if gas == nil {
		gas = NewUnmeteredGasStatus()
	}

	params := p.Params
	if params == nil {
		params = chain.DefaultParams()
	}

	gasID, execErr := smashGas(store, p.Inputs)
	if execErr == nil {
		snapshot := store.Snapshot()

		execErr = e.run(store, gas, params, p)
		if execErr != nil {
			store.RevertToSnapshot(snapshot)
		}

		if err := chargeGas(store, gas, gasID); err != nil {
			if execErr == nil {
				execErr = AsExecutionError(err, InsufficientGas)
			}

			store.RevertToSnapshot(snapshot)
			gas.ResetStorage()
			// the gas coin alone is always charged
			_ = chargeGas(store, gas, gasID)
		}
	}

	store.finalize()

	status := types.ExecutionStatus{Success: execErr == nil}
	if execErr != nil {
		status.Error = execErr.Error()

		e.logger.Debug("execution failed", "digest", p.Digest, "err", execErr)
	}

	return &ExecutionOutput{
		Store:   store,
		Effects: store.effects(status, p.Epoch, gas.Summary(), gasID),
		Err:     execErr,
	}
}

// smashGas merges every gas payment coin into the first one
func smashGas(store *TemporaryStore, inputs *CheckedInputObjects) (types.ObjectID, *ExecutionError) {
	if inputs == nil || len(inputs.Gas) == 0 {
		return types.ObjectID{}, newError(InvalidGasObject, "no gas payment objects")
	}

	primary := inputs.Gas[0].Copy()
	seen := map[types.ObjectID]struct{}{primary.ID: {}}

	total, err := primary.CoinValue()
	if err != nil || !primary.IsGasCoin() {
		return primary.ID, newError(InvalidGasObject, "gas object %s is not a SUI coin", primary.ID)
	}

	for _, coin := range inputs.Gas[1:] {
		if _, dup := seen[coin.ID]; dup {
			return primary.ID, newError(InvalidGasObject, "gas object %s is listed twice", coin.ID)
		}

		seen[coin.ID] = struct{}{}

		value, err := coin.CoinValue()
		if err != nil || !coin.IsGasCoin() {
			return primary.ID, newError(InvalidGasObject, "gas object %s is not a SUI coin", coin.ID)
		}

		if total > math.MaxUint64-value {
			return primary.ID, newError(CoinBalanceOverflow, "gas coins overflow")
		}

		total += value

		store.Delete(coin.ID)
	}

	if len(inputs.Gas) > 1 {
		_ = primary.SetCoinValue(total)
		store.Write(primary)
	}

	return primary.ID, nil
}

// chargeGas prices the writes of the transaction and deducts the net cost
// from the gas coin, recording the storage rebate on every written object
func chargeGas(store *TemporaryStore, gas *GasStatus, gasID types.ObjectID) error {
	var size, rebate uint64

	gasCoin, ok := store.Read(gasID)
	if !ok {
		return newError(InvalidGasObject, "gas object %s was consumed", gasID)
	}

	for _, obj := range store.Written() {
		if obj.ID == gasID {
			continue
		}

		size += uint64(obj.Size())

		if prev, ok := store.Previous(obj.ID); ok {
			rebate += prev.StorageRebate
		}

		obj = obj.Copy()
		obj.StorageRebate = gas.StorageRebateFor(obj.Size())
		store.Write(obj)
	}

	for _, id := range store.Deleted() {
		if prev, ok := store.Previous(id); ok {
			rebate += prev.StorageRebate
		}
	}

	for _, obj := range store.WrappedObjects() {
		if prev, ok := store.Previous(obj.ID); ok {
			rebate += prev.StorageRebate
		}
	}

	size += uint64(gasCoin.Size())

	if prev, ok := store.Previous(gasID); ok {
		rebate += prev.StorageRebate
	}

	err := gas.ChargeStorage(size, rebate)

	summary := gas.Summary()
	cost := summary.ComputationCost + summary.StorageCost

	if cost > gas.Budget() {
		cost = gas.Budget()
	}

	value, _ := gasCoin.CoinValue()

	switch {
	case value+summary.StorageRebate < value:
		value = math.MaxUint64
	default:
		value += summary.StorageRebate
	}

	if value < cost {
		value = 0
	} else {
		value -= cost
	}

	_ = gasCoin.SetCoinValue(value)
	gasCoin.StorageRebate = gas.StorageRebateFor(gasCoin.Size())
	store.Write(gasCoin)

	return err
}

// execution holds the per transaction interpreter state
type execution struct {
	ctx     *CallContext
	inputs  []types.CallArg
	results [][]Value
	gasID   types.ObjectID
}

func (e *NativeExecutor) run(
	store *TemporaryStore,
	gas *GasStatus,
	params *chain.Params,
	p *ExecutionParams,
) *ExecutionError {
	if p.Kind.Type != types.KindProgrammableTransaction || p.Kind.Programmable == nil {
		return newError(UnsupportedTransaction, "unsupported transaction kind %s", p.Kind)
	}

	pt := p.Kind.Programmable

	if err := gas.ChargeComputation(params.MinComputationUnits); err != nil {
		return newError(InsufficientGas, "%s", err)
	}

	x := &execution{
		ctx: &CallContext{
			store:       store,
			sender:      p.Sender,
			epoch:       p.Epoch,
			timestampMs: p.TimestampMs,
		},
		inputs: pt.Inputs,
	}

	if len(p.Inputs.Gas) > 0 {
		x.gasID = p.Inputs.Gas[0].ID
	}

	for i, cmd := range pt.Commands {
		if err := gas.ChargeComputation(params.CommandUnits); err != nil {
			return &ExecutionError{Kind: InsufficientGas, Command: i, Message: err.Error()}
		}

		values, err := e.runCommand(x, cmd)
		if err != nil {
			kind := MoveAbort
			if errors.Is(err, ErrOutOfGas) {
				kind = InsufficientGas
			}

			execErr := AsExecutionError(err, kind)

			return &ExecutionError{Kind: execErr.Kind, Command: i, Message: execErr.Message}
		}

		x.results = append(x.results, values)
	}

	return nil
}

func (x *execution) arg(a types.Argument) (Value, error) {
	switch a.Kind {
	case types.ArgGasCoin:
		return ObjectValue(x.gasID), nil
	case types.ArgInput:
		if int(a.Index) >= len(x.inputs) {
			return Value{}, newError(InvalidArgument, "input %d out of range", a.Index)
		}

		in := x.inputs[a.Index]
		if id, ok := in.ObjectID(); ok {
			return ObjectValue(id), nil
		}

		return PureValue(in.Pure), nil
	case types.ArgResult, types.ArgNestedResult:
		if int(a.Index) >= len(x.results) {
			return Value{}, newError(InvalidArgument, "result %d is not available", a.Index)
		}

		values := x.results[a.Index]

		if a.Kind == types.ArgResult {
			if len(values) != 1 {
				return Value{}, newError(InvalidArgument, "result %d has %d values", a.Index, len(values))
			}

			return values[0], nil
		}

		if int(a.Nested) >= len(values) {
			return Value{}, newError(InvalidArgument, "nested result %d.%d out of range", a.Index, a.Nested)
		}

		return values[a.Nested], nil
	}

	return Value{}, newError(InvalidArgument, "unknown argument %s", a)
}

func (x *execution) args(list []types.Argument) ([]Value, error) {
	values := make([]Value, 0, len(list))

	for _, a := range list {
		v, err := x.arg(a)
		if err != nil {
			return nil, err
		}

		values = append(values, v)
	}

	return values, nil
}

func (e *NativeExecutor) runCommand(x *execution, cmd types.Command) ([]Value, error) {
	switch cmd.Kind {
	case types.CommandMoveCall:
		return e.moveCall(x, cmd.MoveCall)
	case types.CommandTransferObjects:
		return nil, x.transferObjects(cmd.Arguments, cmd.Argument)
	case types.CommandSplitCoins:
		return x.splitCoins(cmd.Argument, cmd.Arguments)
	case types.CommandMergeCoins:
		return nil, x.mergeCoins(cmd.Argument, cmd.Arguments)
	case types.CommandPublish:
		return x.publish(cmd.Modules, cmd.Dependencies)
	case types.CommandMakeMoveVec:
		elems, err := x.args(cmd.Arguments)
		if err != nil {
			return nil, err
		}

		return []Value{{Elements: elems}}, nil
	}

	return nil, newError(UnsupportedTransaction, "unknown command %s", cmd.Kind)
}

func (e *NativeExecutor) moveCall(x *execution, call *types.MoveCall) ([]Value, error) {
	if call == nil {
		return nil, newError(InvalidArgument, "missing move call")
	}

	pkg, ok := x.ctx.LoadObject(call.Package)
	if !ok || !pkg.IsPackage() {
		return nil, newError(PackageNotFound, "package %s not found", call.Package)
	}

	found := false

	for _, name := range pkg.ModuleNames() {
		if name == call.Module {
			found = true

			break
		}
	}

	if !found {
		return nil, newError(FunctionNotFound, "module %s::%s not found", call.Package.ShortString(), call.Module)
	}

	fn, ok := e.natives[functionKey(call.Package, call.Module, call.Function)]
	if !ok {
		return nil, newError(FunctionNotFound, "function %s::%s::%s not found",
			call.Package.ShortString(), call.Module, call.Function)
	}

	args, err := x.args(call.Arguments)
	if err != nil {
		return nil, err
	}

	x.ctx.call = call
	defer func() { x.ctx.call = nil }()

	return fn(x.ctx, call.TypeArguments, args)
}

func (x *execution) transferObjects(objects []types.Argument, recipient types.Argument) error {
	to, err := x.arg(recipient)
	if err != nil {
		return err
	}

	addr, err := AddressArg(to)
	if err != nil {
		return err
	}

	values, err := x.args(objects)
	if err != nil {
		return err
	}

	for _, v := range values {
		obj, err := x.ctx.Object(v)
		if err != nil {
			return err
		}

		if err := x.ctx.Transfer(obj, types.AddressOwner(addr)); err != nil {
			return err
		}
	}

	return nil
}

// splitCoins creates one coin per amount. New coins belong to the sender
// until transferred.
func (x *execution) splitCoins(coinArg types.Argument, amounts []types.Argument) ([]Value, error) {
	v, err := x.arg(coinArg)
	if err != nil {
		return nil, err
	}

	coin, err := x.ctx.MutableObject(v)
	if err != nil {
		return nil, err
	}

	balance, err := coin.CoinValue()
	if err != nil {
		return nil, newError(InvalidArgument, "object %s is not a coin", coin.ID)
	}

	coinType, _ := coin.CoinType()

	values, err := x.args(amounts)
	if err != nil {
		return nil, err
	}

	results := make([]Value, 0, len(values))

	for _, av := range values {
		amount, err := U64(av)
		if err != nil {
			return nil, err
		}

		if amount > balance {
			return nil, newError(InsufficientCoinBalance,
				"coin %s holds %d, split of %d requested", coin.ID, balance, amount)
		}

		balance -= amount

		id := x.ctx.NewObjectID()
		x.ctx.Write(types.NewCoin(id, 0, types.AddressOwner(x.ctx.Sender()), coinType, amount, x.ctx.Digest()))

		results = append(results, ObjectValue(id))
	}

	_ = coin.SetCoinValue(balance)
	x.ctx.Write(coin)

	return results, nil
}

func (x *execution) mergeCoins(destination types.Argument, sources []types.Argument) error {
	v, err := x.arg(destination)
	if err != nil {
		return err
	}

	dest, err := x.ctx.MutableObject(v)
	if err != nil {
		return err
	}

	total, err := dest.CoinValue()
	if err != nil {
		return newError(InvalidArgument, "object %s is not a coin", dest.ID)
	}

	destType, _ := dest.CoinType()

	for _, src := range sources {
		if src.Kind == types.ArgGasCoin {
			return newError(InvalidGasObject, "the gas coin can only be merged into")
		}

		sv, err := x.arg(src)
		if err != nil {
			return err
		}

		coin, err := x.ctx.MutableObject(sv)
		if err != nil {
			return err
		}

		if coin.ID == dest.ID {
			return newError(InvalidArgument, "coin %s merged into itself", coin.ID)
		}

		value, err := coin.CoinValue()
		if err != nil {
			return newError(InvalidArgument, "object %s is not a coin", coin.ID)
		}

		if coinType, _ := coin.CoinType(); coinType != destType {
			return newError(CoinTypeMismatch, "cannot merge %s into %s", coinType, destType)
		}

		if total > math.MaxUint64-value {
			return newError(CoinBalanceOverflow, "merged balance overflows")
		}

		total += value

		x.ctx.Delete(coin.ID)
	}

	_ = dest.SetCoinValue(total)
	x.ctx.Write(dest)

	return nil
}

// publish installs a package and returns its upgrade capability
func (x *execution) publish(modules []types.PackageModule, deps []types.ObjectID) ([]Value, error) {
	if len(modules) == 0 {
		return nil, newError(PublishError, "package has no modules")
	}

	seen := make(map[string]struct{}, len(modules))

	for _, m := range modules {
		if m.Name == "" {
			return nil, newError(PublishError, "module without a name")
		}

		if _, dup := seen[m.Name]; dup {
			return nil, newError(PublishError, "duplicate module %s", m.Name)
		}

		seen[m.Name] = struct{}{}
	}

	for _, dep := range deps {
		if pkg, ok := x.ctx.LoadObject(dep); !ok || !pkg.IsPackage() {
			return nil, newError(PackageNotFound, "dependency %s not found", dep)
		}
	}

	pkgID := x.ctx.NewObjectID()
	x.ctx.Write(types.NewPackage(pkgID, 1, modules, x.ctx.Digest()))

	capBody := make([]byte, 0, types.AddressLength+9)
	capBody = append(capBody, pkgID[:]...)
	capBody = append(capBody, types.EncodeU64(1)...)
	capBody = append(capBody, 0) // compatible policy

	upgradeCap := x.ctx.NewObject(types.AddressOwner(x.ctx.Sender()), types.UpgradeCapType, capBody)

	return []Value{ObjectValue(upgradeCap.ID)}, nil
}

var _ Executor = (*NativeExecutor)(nil)
