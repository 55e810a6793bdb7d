package tx

import (
	"errors"

	"github.com/dogechain-lab/moveledger/command"
	"github.com/dogechain-lab/moveledger/command/helper"
	"github.com/dogechain-lab/moveledger/crypto"
	"github.com/dogechain-lab/moveledger/types"
	"github.com/spf13/cobra"
)

const defaultBudget = 50_000_000

var errNoKey = errors.New("a sender key is required")

// submitParams are shared by the commands that sign and execute a
// programmable transaction
type submitParams struct {
	key    string
	scheme string
	budget uint64
	reject string
	dryRun bool

	signer crypto.KeyPair
}

func setSubmitFlags(cmd *cobra.Command, p *submitParams) {
	helper.RegisterSignerFlags(cmd, &p.key, &p.scheme)

	cmd.Flags().Uint64Var(
		&p.budget,
		command.BudgetFlag,
		defaultBudget,
		"the gas budget in MIST",
	)

	cmd.Flags().StringVar(
		&p.reject,
		command.RejectFlag,
		"",
		"reject the transaction before execution with this reason",
	)

	cmd.Flags().BoolVar(
		&p.dryRun,
		command.DryRunFlag,
		false,
		"simulate the transaction without recording it",
	)
}

func (p *submitParams) validateFlags() error {
	if p.key == "" {
		return errNoKey
	}

	signer, err := helper.ParseKeyPair(p.key, p.scheme)
	if err != nil {
		return err
	}

	p.signer = signer

	return nil
}

// gasPayment is every SUI coin of sender except the excluded ones
func gasPayment(s *helper.Session, sender types.Address, exclude ...types.ObjectID) []types.ObjectRef {
	payment := s.Engine.DefaultGasPayment(sender)

	out := payment[:0]

PAYMENT_LOOP:
	for _, ref := range payment {
		for _, id := range exclude {
			if ref.ObjectID == id {
				continue PAYMENT_LOOP
			}
		}

		out = append(out, ref)
	}

	return out
}

// submit builds the transaction of the signer paying with its SUI coins,
// then dry runs or executes it. Recorded transactions are committed.
func (p *submitParams) submit(
	s *helper.Session,
	pt *types.ProgrammableTransaction,
	exclude ...types.ObjectID,
) (command.CommandResult, error) {
	sender := p.signer.Address()

	data := types.NewProgrammableTransactionData(
		sender,
		gasPayment(s, sender, exclude...),
		pt,
		p.budget,
		s.Engine.ReferenceGasPrice(),
	)

	if p.dryRun {
		resp, err := s.Engine.DryRun(data)
		if err != nil {
			return nil, err
		}

		return &DryRunResult{DryRunResponse: resp}, nil
	}

	tx, err := crypto.SignTransaction(data, p.signer)
	if err != nil {
		return nil, err
	}

	if p.reject != "" {
		s.Engine.RejectNext(p.reject)
	}

	resp, err := s.Engine.Execute(tx)
	if err != nil {
		return nil, err
	}

	if resp.Effects != nil {
		if _, err := s.Commit(); err != nil {
			return nil, err
		}
	}

	return &TransactionResult{TransactionResponse: resp}, nil
}

// runSubmit opens a session and submits the transaction built by build
func runSubmit(cmd *cobra.Command, p *submitParams, build func() (*types.ProgrammableTransaction, error)) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	pt, err := build()
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

	result, err := p.submit(s, pt)
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(result)
}
