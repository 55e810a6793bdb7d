package types

import "fmt"

type FilterKind uint8

const (
	FilterCheckpoint FilterKind = iota
	FilterMoveFunction
	FilterInputObject
	FilterChangedObject
	FilterAffectedObject
	FilterFromAddress
	FilterToAddress
	FilterFromAndToAddress
	FilterFromOrToAddress
	FilterTransactionKind
	FilterTransactionKindIn
)

func (k FilterKind) String() string {
	switch k {
	case FilterCheckpoint:
		return "Checkpoint"
	case FilterMoveFunction:
		return "MoveFunction"
	case FilterInputObject:
		return "InputObject"
	case FilterChangedObject:
		return "ChangedObject"
	case FilterAffectedObject:
		return "AffectedObject"
	case FilterFromAddress:
		return "FromAddress"
	case FilterToAddress:
		return "ToAddress"
	case FilterFromAndToAddress:
		return "FromAndToAddress"
	case FilterFromOrToAddress:
		return "FromOrToAddress"
	case FilterTransactionKind:
		return "TransactionKind"
	case FilterTransactionKindIn:
		return "TransactionKindIn"
	}

	return fmt.Sprintf("FilterKind(%d)", uint8(k))
}

// TransactionFilter selects recorded transactions. Only the fields
// relevant to Kind are read.
type TransactionFilter struct {
	Kind       FilterKind
	Checkpoint uint64
	Package    ObjectID
	Module     string
	Function   string
	Object     ObjectID
	From       Address
	To         Address
	Kinds      []string
}

func FilterByCheckpoint(checkpoint uint64) TransactionFilter {
	return TransactionFilter{Kind: FilterCheckpoint, Checkpoint: checkpoint}
}

// FilterByMoveFunction matches calls into a package, optionally narrowed
// to a module and then a function
func FilterByMoveFunction(pkg ObjectID, module, function string) TransactionFilter {
	return TransactionFilter{Kind: FilterMoveFunction, Package: pkg, Module: module, Function: function}
}

func FilterByInputObject(id ObjectID) TransactionFilter {
	return TransactionFilter{Kind: FilterInputObject, Object: id}
}

func FilterByChangedObject(id ObjectID) TransactionFilter {
	return TransactionFilter{Kind: FilterChangedObject, Object: id}
}

func FilterByAffectedObject(id ObjectID) TransactionFilter {
	return TransactionFilter{Kind: FilterAffectedObject, Object: id}
}

func FilterBySender(from Address) TransactionFilter {
	return TransactionFilter{Kind: FilterFromAddress, From: from}
}

func FilterByRecipient(to Address) TransactionFilter {
	return TransactionFilter{Kind: FilterToAddress, To: to}
}

func FilterByFromAndTo(from, to Address) TransactionFilter {
	return TransactionFilter{Kind: FilterFromAndToAddress, From: from, To: to}
}

func FilterByFromOrTo(addr Address) TransactionFilter {
	return TransactionFilter{Kind: FilterFromOrToAddress, From: addr, To: addr}
}

func FilterByTransactionKind(kind string) TransactionFilter {
	return TransactionFilter{Kind: FilterTransactionKind, Kinds: []string{kind}}
}

func FilterByTransactionKindIn(kinds ...string) TransactionFilter {
	return TransactionFilter{Kind: FilterTransactionKindIn, Kinds: kinds}
}

func (f TransactionFilter) String() string {
	switch f.Kind {
	case FilterMoveFunction:
		return fmt.Sprintf("MoveFunction(%s::%s::%s)", f.Package.ShortString(), f.Module, f.Function)
	case FilterInputObject, FilterChangedObject, FilterAffectedObject:
		return fmt.Sprintf("%s(%s)", f.Kind, f.Object)
	case FilterFromAddress, FilterFromOrToAddress:
		return fmt.Sprintf("%s(%s)", f.Kind, f.From)
	case FilterToAddress:
		return fmt.Sprintf("%s(%s)", f.Kind, f.To)
	case FilterFromAndToAddress:
		return fmt.Sprintf("%s(%s, %s)", f.Kind, f.From, f.To)
	case FilterTransactionKind, FilterTransactionKindIn:
		return fmt.Sprintf("%s(%v)", f.Kind, f.Kinds)
	}

	return fmt.Sprintf("%s(%d)", f.Kind, f.Checkpoint)
}
