package tx

import (
	"fmt"
	"strings"

	"github.com/dogechain-lab/moveledger/command/helper"
	"github.com/dogechain-lab/moveledger/ledger"
	"github.com/dogechain-lab/moveledger/types"
)

func effectsRows(effects *types.TransactionEffects) []string {
	status := "success"
	if !effects.Status.Success {
		status = fmt.Sprintf("failure: %s", effects.Status.Error)
	}

	return []string{
		fmt.Sprintf("Status|%s", status),
		fmt.Sprintf("Computation Cost|%d", effects.GasUsed.ComputationCost),
		fmt.Sprintf("Storage Cost|%d", effects.GasUsed.StorageCost),
		fmt.Sprintf("Storage Rebate|%d", effects.GasUsed.StorageRebate),
		fmt.Sprintf("Gas Object|%s", effects.GasObject.Reference),
	}
}

func changesList(changes []types.ObjectChange, balances []types.BalanceChange) string {
	var buffer strings.Builder

	if len(changes) > 0 {
		rows := []string{"Change|Object ID|Version|Type"}
		for _, c := range changes {
			rows = append(rows, fmt.Sprintf("%s|%s|%d|%s", c.Kind, c.ObjectID, c.Version, c.ObjectType))
		}

		buffer.WriteString("\n\n[OBJECT CHANGES]\n")
		buffer.WriteString(helper.FormatList(rows))
	}

	if len(balances) > 0 {
		rows := []string{"Owner|Coin Type|Amount"}
		for _, b := range balances {
			rows = append(rows, fmt.Sprintf("%s|%s|%s", b.Owner, b.CoinType, b.Amount))
		}

		buffer.WriteString("\n\n[BALANCE CHANGES]\n")
		buffer.WriteString(helper.FormatList(rows))
	}

	return buffer.String()
}

type TransactionResult struct {
	*types.TransactionResponse
}

func (r *TransactionResult) GetOutput() string {
	var buffer strings.Builder

	buffer.WriteString("\n[TRANSACTION]\n")

	rows := []string{fmt.Sprintf("Digest|%s", r.Digest)}

	if r.Checkpoint != nil {
		rows = append(rows, fmt.Sprintf("Checkpoint|%d", *r.Checkpoint))
	}

	if r.TimestampMs != nil {
		rows = append(rows, fmt.Sprintf("Timestamp|%d", *r.TimestampMs))
	}

	if r.Effects != nil {
		rows = append(rows, effectsRows(r.Effects)...)
	} else {
		rows = append(rows, "Status|rejected before execution")
	}

	for _, e := range r.Errors {
		rows = append(rows, fmt.Sprintf("Error|%s", e))
	}

	buffer.WriteString(helper.FormatKV(rows))
	buffer.WriteString(changesList(r.ObjectChanges, r.BalanceChanges))
	buffer.WriteString("\n")

	return buffer.String()
}

type DryRunResult struct {
	*types.DryRunResponse
}

func (r *DryRunResult) GetOutput() string {
	var buffer strings.Builder

	buffer.WriteString("\n[DRY RUN]\n")

	var rows []string

	if r.Effects != nil {
		rows = append(rows, effectsRows(r.Effects)...)
	}

	if r.ExecutionErrorSource != "" {
		rows = append(rows, fmt.Sprintf("Error|%s", r.ExecutionErrorSource))
	}

	buffer.WriteString(helper.FormatKV(rows))
	buffer.WriteString(changesList(r.ObjectChanges, r.BalanceChanges))
	buffer.WriteString("\n")

	return buffer.String()
}

type PublishResult struct {
	Package *types.ObjectID `json:"packageId,omitempty"`
	*TransactionResult
}

func newPublishResult(resp *types.TransactionResponse) *PublishResult {
	r := &PublishResult{TransactionResult: &TransactionResult{TransactionResponse: resp}}

	if id, ok := ledger.PublishedPackage(resp); ok {
		r.Package = &id
	}

	return r
}

func (r *PublishResult) GetOutput() string {
	if r.Package == nil {
		return r.TransactionResult.GetOutput()
	}

	return fmt.Sprintf("\n[PACKAGE]\n%s\n%s",
		helper.FormatKV([]string{fmt.Sprintf("Package ID|%s", r.Package)}),
		r.TransactionResult.GetOutput(),
	)
}

type DigestsResult struct {
	Digests []types.Digest `json:"digests"`
}

func (r *DigestsResult) GetOutput() string {
	var buffer strings.Builder

	buffer.WriteString("\n[TRANSACTIONS]\n")

	if len(r.Digests) == 0 {
		buffer.WriteString("No transactions recorded\n")

		return buffer.String()
	}

	for _, d := range r.Digests {
		buffer.WriteString(d.String())
		buffer.WriteString("\n")
	}

	return buffer.String()
}

type QueryResult struct {
	Filter       string               `json:"filter"`
	Transactions []*TransactionResult `json:"transactions"`
}

func (r *QueryResult) GetOutput() string {
	var buffer strings.Builder

	buffer.WriteString(fmt.Sprintf("\n[QUERY %s]\n", r.Filter))

	if len(r.Transactions) == 0 {
		buffer.WriteString("No transactions found\n")

		return buffer.String()
	}

	rows := []string{"Digest|Checkpoint|Status"}

	for _, tx := range r.Transactions {
		checkpoint, status := "-", "rejected"

		if tx.Checkpoint != nil {
			checkpoint = fmt.Sprintf("%d", *tx.Checkpoint)
		}

		if tx.Effects != nil {
			status = "success"
			if !tx.Effects.Status.Success {
				status = "failure"
			}
		}

		rows = append(rows, fmt.Sprintf("%s|%s|%s", tx.Digest, checkpoint, status))
	}

	buffer.WriteString(helper.FormatList(rows))
	buffer.WriteString("\n")

	return buffer.String()
}
