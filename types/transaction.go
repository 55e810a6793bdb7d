package types

import (
	"fmt"

	"github.com/dogechain-lab/fastrlp"
	"github.com/dogechain-lab/moveledger/helper/blake2b"
)

// IntentTransaction prefixes transaction bytes before signing
var IntentTransaction = []byte{0, 0, 0}

type CallArgKind uint8

const (
	CallArgPure CallArgKind = iota
	CallArgImmOrOwnedObject
	CallArgSharedObject
	CallArgReceiving
)

// CallArg is one input of a programmable transaction
type CallArg struct {
	Kind                 CallArgKind
	Pure                 []byte
	Object               ObjectRef
	InitialSharedVersion SequenceNumber
	Mutable              bool
}

func PureArg(b []byte) CallArg {
	return CallArg{Kind: CallArgPure, Pure: b}
}

func OwnedObjectArg(ref ObjectRef) CallArg {
	return CallArg{Kind: CallArgImmOrOwnedObject, Object: ref}
}

func SharedObjectArg(id ObjectID, initialSharedVersion SequenceNumber, mutable bool) CallArg {
	return CallArg{
		Kind:                 CallArgSharedObject,
		Object:               ObjectRef{ObjectID: id},
		InitialSharedVersion: initialSharedVersion,
		Mutable:              mutable,
	}
}

func ReceivingArg(ref ObjectRef) CallArg {
	return CallArg{Kind: CallArgReceiving, Object: ref}
}

// ObjectID returns the referenced object for object inputs
func (a CallArg) ObjectID() (ObjectID, bool) {
	if a.Kind == CallArgPure {
		return ObjectID{}, false
	}

	return a.Object.ObjectID, true
}

type ArgumentKind uint8

const (
	ArgGasCoin ArgumentKind = iota
	ArgInput
	ArgResult
	ArgNestedResult
)

// Argument refers to a value available to a command
type Argument struct {
	Kind   ArgumentKind
	Index  uint16
	Nested uint16
}

func GasCoinArg() Argument {
	return Argument{Kind: ArgGasCoin}
}

func InputArg(i uint16) Argument {
	return Argument{Kind: ArgInput, Index: i}
}

func ResultArg(i uint16) Argument {
	return Argument{Kind: ArgResult, Index: i}
}

func NestedResultArg(i, j uint16) Argument {
	return Argument{Kind: ArgNestedResult, Index: i, Nested: j}
}

func (a Argument) String() string {
	switch a.Kind {
	case ArgGasCoin:
		return "GasCoin"
	case ArgInput:
		return fmt.Sprintf("Input(%d)", a.Index)
	case ArgResult:
		return fmt.Sprintf("Result(%d)", a.Index)
	}

	return fmt.Sprintf("NestedResult(%d, %d)", a.Index, a.Nested)
}

type CommandKind uint8

const (
	CommandMoveCall CommandKind = iota
	CommandTransferObjects
	CommandSplitCoins
	CommandMergeCoins
	CommandPublish
	CommandMakeMoveVec
)

func (k CommandKind) String() string {
	switch k {
	case CommandMoveCall:
		return "MoveCall"
	case CommandTransferObjects:
		return "TransferObjects"
	case CommandSplitCoins:
		return "SplitCoins"
	case CommandMergeCoins:
		return "MergeCoins"
	case CommandPublish:
		return "Publish"
	case CommandMakeMoveVec:
		return "MakeMoveVec"
	}

	return fmt.Sprintf("CommandKind(%d)", uint8(k))
}

// MoveCall invokes package::module::function
type MoveCall struct {
	Package       ObjectID
	Module        string
	Function      string
	TypeArguments []TypeTag
	Arguments     []Argument
}

// Command is one step of a programmable transaction.
//
// TransferObjects moves Arguments to the address in Argument, SplitCoins
// splits Argument into Arguments amounts, MergeCoins merges Arguments into
// Argument, MakeMoveVec collects Arguments.
type Command struct {
	Kind         CommandKind
	MoveCall     *MoveCall
	Argument     Argument
	Arguments    []Argument
	Modules      []PackageModule
	Dependencies []ObjectID
}

func MoveCallCommand(call *MoveCall) Command {
	return Command{Kind: CommandMoveCall, MoveCall: call}
}

func TransferObjectsCommand(objects []Argument, recipient Argument) Command {
	return Command{Kind: CommandTransferObjects, Arguments: objects, Argument: recipient}
}

func SplitCoinsCommand(coin Argument, amounts []Argument) Command {
	return Command{Kind: CommandSplitCoins, Argument: coin, Arguments: amounts}
}

func MergeCoinsCommand(destination Argument, sources []Argument) Command {
	return Command{Kind: CommandMergeCoins, Argument: destination, Arguments: sources}
}

func PublishCommand(modules []PackageModule, dependencies []ObjectID) Command {
	return Command{Kind: CommandPublish, Modules: modules, Dependencies: dependencies}
}

func MakeMoveVecCommand(elements []Argument) Command {
	return Command{Kind: CommandMakeMoveVec, Arguments: elements}
}

// ProgrammableTransaction is a list of inputs and the commands over them
type ProgrammableTransaction struct {
	Inputs   []CallArg
	Commands []Command
}

type TransactionKindType uint8

const (
	KindProgrammableTransaction TransactionKindType = iota
)

// TransactionKind wraps the payload of a transaction
type TransactionKind struct {
	Type         TransactionKindType
	Programmable *ProgrammableTransaction
}

func (k TransactionKind) String() string {
	switch k.Type {
	case KindProgrammableTransaction:
		return "ProgrammableTransaction"
	}

	return fmt.Sprintf("TransactionKind(%d)", uint8(k.Type))
}

// GasData describes who pays for a transaction and how much
type GasData struct {
	Payment []ObjectRef
	Owner   Address
	Price   uint64
	Budget  uint64
}

// TransactionData is the unsigned payload of a transaction
type TransactionData struct {
	Kind       TransactionKind
	Sender     Address
	GasData    GasData
	Expiration uint64
}

// NewProgrammableTransactionData builds a transaction paid by the sender
func NewProgrammableTransactionData(
	sender Address,
	payment []ObjectRef,
	pt *ProgrammableTransaction,
	budget uint64,
	price uint64,
) *TransactionData {
	return &TransactionData{
		Kind: TransactionKind{
			Type:         KindProgrammableTransaction,
			Programmable: pt,
		},
		Sender: sender,
		GasData: GasData{
			Payment: payment,
			Owner:   sender,
			Price:   price,
			Budget:  budget,
		},
	}
}

// Digest identifies the transaction
func (t *TransactionData) Digest() Digest {
	return MarshalDigest("TransactionData::", t)
}

// SigningDigest is the message signed by every signer of the transaction
func (t *TransactionData) SigningDigest() Digest {
	return Digest(blake2b.Sum256(IntentTransaction, MarshalRLP(t)))
}

// Inputs returns the programmable inputs, if any
func (t *TransactionData) Inputs() []CallArg {
	if t.Kind.Programmable == nil {
		return nil
	}

	return t.Kind.Programmable.Inputs
}

// Commands returns the programmable commands, if any
func (t *TransactionData) Commands() []Command {
	if t.Kind.Programmable == nil {
		return nil
	}

	return t.Kind.Programmable.Commands
}

// MoveCalls lists every move call of the transaction in order
func (t *TransactionData) MoveCalls() []*MoveCall {
	var calls []*MoveCall

	for _, c := range t.Commands() {
		if c.Kind == CommandMoveCall && c.MoveCall != nil {
			calls = append(calls, c.MoveCall)
		}
	}

	return calls
}

// GasOwner returns the sponsor, defaulting to the sender
func (t *TransactionData) GasOwner() Address {
	if t.GasData.Owner == ZeroAddress {
		return t.Sender
	}

	return t.GasData.Owner
}

func (t *TransactionData) MarshalRLP() []byte {
	return MarshalRLP(t)
}

func (t *TransactionData) UnmarshalRLP(b []byte) error {
	return UnmarshalRLP(b, t)
}

func (t *TransactionData) MarshalWith(ar *fastrlp.Arena) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(t.Kind.MarshalWith(ar))
	v.Set(t.Sender.MarshalWith(ar))
	v.Set(t.GasData.MarshalWith(ar))
	v.Set(ar.NewUint(t.Expiration))

	return v
}

func (t *TransactionData) UnmarshalValue(v *fastrlp.Value) error {
	elems, err := ElemsOf(v, "transaction data", 4)
	if err != nil {
		return err
	}

	if err := t.Kind.UnmarshalValue(elems[0]); err != nil {
		return err
	}

	if err := t.Sender.UnmarshalValue(elems[1]); err != nil {
		return err
	}

	if err := t.GasData.UnmarshalValue(elems[2]); err != nil {
		return err
	}

	t.Expiration, err = elems[3].GetUint64()

	return err
}

func (g GasData) MarshalWith(ar *fastrlp.Arena) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(newObjectRefs(ar, g.Payment))
	v.Set(g.Owner.MarshalWith(ar))
	v.Set(ar.NewUint(g.Price))
	v.Set(ar.NewUint(g.Budget))

	return v
}

func (g *GasData) UnmarshalValue(v *fastrlp.Value) error {
	elems, err := ElemsOf(v, "gas data", 4)
	if err != nil {
		return err
	}

	if g.Payment, err = decodeObjectRefs(elems[0]); err != nil {
		return err
	}

	if err := g.Owner.UnmarshalValue(elems[1]); err != nil {
		return err
	}

	if g.Price, err = elems[2].GetUint64(); err != nil {
		return err
	}

	g.Budget, err = elems[3].GetUint64()

	return err
}

func (k TransactionKind) MarshalWith(ar *fastrlp.Arena) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(ar.NewUint(uint64(k.Type)))

	pt := ar.NewArray()

	if k.Programmable != nil {
		inputs := ar.NewArray()
		for _, in := range k.Programmable.Inputs {
			inputs.Set(in.MarshalWith(ar))
		}

		commands := ar.NewArray()
		for _, c := range k.Programmable.Commands {
			commands.Set(c.MarshalWith(ar))
		}

		pt.Set(inputs)
		pt.Set(commands)
	}

	v.Set(pt)

	return v
}

func (k *TransactionKind) UnmarshalValue(v *fastrlp.Value) error {
	elems, err := ElemsOf(v, "transaction kind", 2)
	if err != nil {
		return err
	}

	kind, err := elems[0].GetUint64()
	if err != nil {
		return err
	}

	if kind != uint64(KindProgrammableTransaction) {
		return fmt.Errorf("%w: unknown transaction kind %d", ErrRLPDecode, kind)
	}

	k.Type = TransactionKindType(kind)

	pt, err := ElemsOf(elems[1], "programmable transaction", -1)
	if err != nil {
		return err
	}

	if len(pt) == 0 {
		k.Programmable = nil

		return nil
	}

	if len(pt) != 2 {
		return fmt.Errorf("%w: programmable transaction has %d elements", ErrRLPDecode, len(pt))
	}

	k.Programmable = &ProgrammableTransaction{}

	inputs, err := ElemsOf(pt[0], "inputs", -1)
	if err != nil {
		return err
	}

	for _, iv := range inputs {
		in := CallArg{}
		if err := in.UnmarshalValue(iv); err != nil {
			return err
		}

		k.Programmable.Inputs = append(k.Programmable.Inputs, in)
	}

	commands, err := ElemsOf(pt[1], "commands", -1)
	if err != nil {
		return err
	}

	for _, cv := range commands {
		c := Command{}
		if err := c.UnmarshalValue(cv); err != nil {
			return err
		}

		k.Programmable.Commands = append(k.Programmable.Commands, c)
	}

	return nil
}

func (a CallArg) MarshalWith(ar *fastrlp.Arena) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(ar.NewUint(uint64(a.Kind)))
	v.Set(ar.NewCopyBytes(a.Pure))
	v.Set(a.Object.MarshalWith(ar))
	v.Set(ar.NewUint(uint64(a.InitialSharedVersion)))
	v.Set(newBool(ar, a.Mutable))

	return v
}

func (a *CallArg) UnmarshalValue(v *fastrlp.Value) error {
	elems, err := ElemsOf(v, "call arg", 5)
	if err != nil {
		return err
	}

	kind, err := elems[0].GetUint64()
	if err != nil {
		return err
	}

	if kind > uint64(CallArgReceiving) {
		return fmt.Errorf("%w: unknown call arg kind %d", ErrRLPDecode, kind)
	}

	a.Kind = CallArgKind(kind)

	if a.Pure, err = DecodeBytes(elems[1]); err != nil {
		return err
	}

	if err := a.Object.UnmarshalValue(elems[2]); err != nil {
		return err
	}

	version, err := elems[3].GetUint64()
	if err != nil {
		return err
	}

	a.InitialSharedVersion = SequenceNumber(version)
	a.Mutable, err = decodeBool(elems[4])

	return err
}

func (a Argument) MarshalWith(ar *fastrlp.Arena) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(ar.NewUint(uint64(a.Kind)))
	v.Set(ar.NewUint(uint64(a.Index)))
	v.Set(ar.NewUint(uint64(a.Nested)))

	return v
}

func (a *Argument) UnmarshalValue(v *fastrlp.Value) error {
	elems, err := ElemsOf(v, "argument", 3)
	if err != nil {
		return err
	}

	fields := make([]uint64, 3)

	for i, elem := range elems {
		if fields[i], err = elem.GetUint64(); err != nil {
			return err
		}
	}

	if fields[0] > uint64(ArgNestedResult) || fields[1] > 0xffff || fields[2] > 0xffff {
		return fmt.Errorf("%w: invalid argument", ErrRLPDecode)
	}

	a.Kind, a.Index, a.Nested = ArgumentKind(fields[0]), uint16(fields[1]), uint16(fields[2])

	return nil
}

func newArguments(ar *fastrlp.Arena, args []Argument) *fastrlp.Value {
	v := ar.NewArray()
	for _, a := range args {
		v.Set(a.MarshalWith(ar))
	}

	return v
}

func decodeArguments(v *fastrlp.Value) ([]Argument, error) {
	elems, err := ElemsOf(v, "arguments", -1)
	if err != nil {
		return nil, err
	}

	if len(elems) == 0 {
		return nil, nil
	}

	args := make([]Argument, len(elems))

	for i, elem := range elems {
		if err := args[i].UnmarshalValue(elem); err != nil {
			return nil, err
		}
	}

	return args, nil
}

func (c Command) MarshalWith(ar *fastrlp.Arena) *fastrlp.Value {
	v := ar.NewArray()
	v.Set(ar.NewUint(uint64(c.Kind)))

	call := ar.NewArray()

	if c.MoveCall != nil {
		call.Set(c.MoveCall.Package.MarshalWith(ar))
		call.Set(newString(ar, c.MoveCall.Module))
		call.Set(newString(ar, c.MoveCall.Function))

		typeArgs := ar.NewArray()
		for _, t := range c.MoveCall.TypeArguments {
			typeArgs.Set(newString(ar, string(t)))
		}

		call.Set(typeArgs)
		call.Set(newArguments(ar, c.MoveCall.Arguments))
	}

	v.Set(call)
	v.Set(c.Argument.MarshalWith(ar))
	v.Set(newArguments(ar, c.Arguments))

	modules := ar.NewArray()

	for _, m := range c.Modules {
		mv := ar.NewArray()
		mv.Set(newString(ar, m.Name))
		mv.Set(ar.NewCopyBytes(m.Bytecode))
		modules.Set(mv)
	}

	v.Set(modules)
	v.Set(NewObjectIDs(ar, c.Dependencies))

	return v
}

func (c *Command) UnmarshalValue(v *fastrlp.Value) error {
	elems, err := ElemsOf(v, "command", 6)
	if err != nil {
		return err
	}

	kind, err := elems[0].GetUint64()
	if err != nil {
		return err
	}

	if kind > uint64(CommandMakeMoveVec) {
		return fmt.Errorf("%w: unknown command kind %d", ErrRLPDecode, kind)
	}

	c.Kind = CommandKind(kind)

	call, err := ElemsOf(elems[1], "move call", -1)
	if err != nil {
		return err
	}

	c.MoveCall = nil

	if len(call) > 0 {
		if c.MoveCall, err = decodeMoveCall(call); err != nil {
			return err
		}
	}

	if err := c.Argument.UnmarshalValue(elems[2]); err != nil {
		return err
	}

	if c.Arguments, err = decodeArguments(elems[3]); err != nil {
		return err
	}

	modules, err := ElemsOf(elems[4], "modules", -1)
	if err != nil {
		return err
	}

	c.Modules = nil

	for _, mv := range modules {
		fields, err := ElemsOf(mv, "module", 2)
		if err != nil {
			return err
		}

		m := PackageModule{}

		if m.Name, err = DecodeString(fields[0]); err != nil {
			return err
		}

		if m.Bytecode, err = DecodeBytes(fields[1]); err != nil {
			return err
		}

		c.Modules = append(c.Modules, m)
	}

	c.Dependencies, err = DecodeObjectIDs(elems[5])

	return err
}

func decodeMoveCall(fields []*fastrlp.Value) (*MoveCall, error) {
	if len(fields) != 5 {
		return nil, fmt.Errorf("%w: move call has %d elements", ErrRLPDecode, len(fields))
	}

	call := &MoveCall{}

	if err := call.Package.UnmarshalValue(fields[0]); err != nil {
		return nil, err
	}

	var err error

	if call.Module, err = DecodeString(fields[1]); err != nil {
		return nil, err
	}

	if call.Function, err = DecodeString(fields[2]); err != nil {
		return nil, err
	}

	typeArgs, err := decodeStrings(fields[3], "type arguments")
	if err != nil {
		return nil, err
	}

	for _, t := range typeArgs {
		call.TypeArguments = append(call.TypeArguments, TypeTag(t))
	}

	if call.Arguments, err = decodeArguments(fields[4]); err != nil {
		return nil, err
	}

	return call, nil
}
