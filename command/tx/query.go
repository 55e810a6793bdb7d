package tx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dogechain-lab/moveledger/command"
	"github.com/dogechain-lab/moveledger/command/helper"
	"github.com/dogechain-lab/moveledger/types"
	"github.com/spf13/cobra"
)

const (
	bySenderFlag         = "sender"
	byRecipientFlag      = "recipient"
	byFromOrToFlag       = "address"
	byInputObjectFlag    = "input-object"
	byChangedObjectFlag  = "changed-object"
	byAffectedObjectFlag = "affected-object"
	byFunctionFlag       = "function"
	byKindFlag           = "kind"
	byCheckpointFlag     = "checkpoint"
)

var (
	errNoFilter       = errors.New("exactly one filter is required, or --sender with --recipient")
	errInvalidFuncRef = errors.New("expected package[::module[::function]]")
)

var queryParams = &queryTxParams{}

type queryTxParams struct {
	sender         string
	recipient      string
	fromOrTo       string
	inputObject    string
	changedObject  string
	affectedObject string
	function       string
	kinds          []string
	checkpoint     uint64
}

func queryCommand() *cobra.Command {
	queryCmd := &cobra.Command{
		Use:   "query",
		Short: "Lists recorded transactions matching a filter",
		Args:  cobra.NoArgs,
		Run:   runQueryCommand,
	}

	flags := queryCmd.Flags()
	flags.StringVar(&queryParams.sender, bySenderFlag, "", "transactions sent by the address")
	flags.StringVar(&queryParams.recipient, byRecipientFlag, "", "transactions sending objects to the address")
	flags.StringVar(&queryParams.fromOrTo, byFromOrToFlag, "", "transactions sent by or to the address")
	flags.StringVar(&queryParams.inputObject, byInputObjectFlag, "", "transactions taking the object as input")
	flags.StringVar(&queryParams.changedObject, byChangedObjectFlag, "", "transactions changing the object")
	flags.StringVar(&queryParams.affectedObject, byAffectedObjectFlag, "", "transactions taking or changing the object")
	flags.StringVar(&queryParams.function, byFunctionFlag, "", "transactions calling package[::module[::function]]")
	flags.StringSliceVar(&queryParams.kinds, byKindFlag, nil, "transactions of any of the kinds")
	flags.Uint64Var(&queryParams.checkpoint, byCheckpointFlag, 0, "transactions of the checkpoint")

	return queryCmd
}

func parseMoveFunction(raw string) (types.TransactionFilter, error) {
	parts := strings.Split(raw, "::")
	if len(parts) > 3 {
		return types.TransactionFilter{}, fmt.Errorf("%w: %q", errInvalidFuncRef, raw)
	}

	pkg, err := types.ParseObjectID(parts[0])
	if err != nil {
		return types.TransactionFilter{}, err
	}

	parts = append(parts, "", "")

	return types.FilterByMoveFunction(pkg, parts[1], parts[2]), nil
}

// filter converts the one filter flag that was set
func (p *queryTxParams) filter(cmd *cobra.Command) (types.TransactionFilter, error) {
	changed := func(name string) bool {
		return cmd.Flags().Changed(name)
	}

	set := 0

	for _, name := range []string{
		bySenderFlag, byRecipientFlag, byFromOrToFlag, byInputObjectFlag, byChangedObjectFlag,
		byAffectedObjectFlag, byFunctionFlag, byKindFlag, byCheckpointFlag,
	} {
		if changed(name) {
			set++
		}
	}

	fromAndTo := changed(bySenderFlag) && changed(byRecipientFlag)
	if set == 0 || (set > 1 && !(fromAndTo && set == 2)) {
		return types.TransactionFilter{}, errNoFilter
	}

	object := func(raw string, build func(types.ObjectID) types.TransactionFilter) (types.TransactionFilter, error) {
		id, err := types.ParseObjectID(raw)
		if err != nil {
			return types.TransactionFilter{}, err
		}

		return build(id), nil
	}

	switch {
	case fromAndTo:
		addrs, err := helper.ParseAddresses([]string{p.sender, p.recipient})
		if err != nil {
			return types.TransactionFilter{}, err
		}

		return types.FilterByFromAndTo(addrs[0], addrs[1]), nil
	case changed(bySenderFlag):
		addr, err := types.ParseAddress(p.sender)

		return types.FilterBySender(addr), err
	case changed(byRecipientFlag):
		addr, err := types.ParseAddress(p.recipient)

		return types.FilterByRecipient(addr), err
	case changed(byFromOrToFlag):
		addr, err := types.ParseAddress(p.fromOrTo)

		return types.FilterByFromOrTo(addr), err
	case changed(byInputObjectFlag):
		return object(p.inputObject, types.FilterByInputObject)
	case changed(byChangedObjectFlag):
		return object(p.changedObject, types.FilterByChangedObject)
	case changed(byAffectedObjectFlag):
		return object(p.affectedObject, types.FilterByAffectedObject)
	case changed(byFunctionFlag):
		return parseMoveFunction(p.function)
	case changed(byKindFlag):
		if len(p.kinds) == 1 {
			return types.FilterByTransactionKind(p.kinds[0]), nil
		}

		return types.FilterByTransactionKindIn(p.kinds...), nil
	}

	return types.FilterByCheckpoint(p.checkpoint), nil
}

func runQueryCommand(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	filter, err := queryParams.filter(cmd)
	if err != nil {
		outputter.SetError(err)

		return
	}

	s, err := helper.OpenSession(cmd)
	if err != nil {
		outputter.SetError(err)

		return
	}
	defer s.Close()

	responses, err := s.Engine.Query(filter)
	if err != nil {
		outputter.SetError(err)

		return
	}

	result := &QueryResult{Filter: filter.String(), Transactions: make([]*TransactionResult, 0, len(responses))}
	for _, resp := range responses {
		result.Transactions = append(result.Transactions, &TransactionResult{TransactionResponse: resp})
	}

	outputter.SetCommandResult(result)
}
