package genesis

import (
	"errors"
	"fmt"

	"github.com/dogechain-lab/moveledger/command/helper"
	"github.com/dogechain-lab/moveledger/ledger"
	"github.com/dogechain-lab/moveledger/types"
)

const (
	forceFlag       = "force"
	initialTimeFlag = "initial-time"
	fundFlag        = "fund"
	fundAmountFlag  = "fund-amount"
)

var errZeroFunding = errors.New("fund amount must be positive")

var params = &genesisParams{}

type genesisParams struct {
	force       bool
	initialTime uint64
	rawFund     []string
	fundAmount  uint64

	fund []types.Address
}

func (p *genesisParams) validateFlags() error {
	if len(p.rawFund) > 0 && p.fundAmount == 0 {
		return errZeroFunding
	}

	fund, err := helper.ParseAddresses(p.rawFund)
	if err != nil {
		return fmt.Errorf("invalid --%s: %w", fundFlag, err)
	}

	p.fund = fund

	return nil
}

func (p *genesisParams) engineOptions(initialTimeSet bool) []ledger.Option {
	if !initialTimeSet {
		return nil
	}

	return []ledger.Option{ledger.WithInitialTime(p.initialTime)}
}

func (p *genesisParams) fundAccounts(s *helper.Session) ([]FundedAccount, error) {
	funded := make([]FundedAccount, 0, len(p.fund))

	for _, addr := range p.fund {
		id, err := s.Engine.Mint(addr, p.fundAmount, "")
		if err != nil {
			return nil, err
		}

		funded = append(funded, FundedAccount{Address: addr, CoinID: id, Amount: p.fundAmount})
	}

	return funded, nil
}
