package coin

import (
	"fmt"
	"strings"

	"github.com/dogechain-lab/moveledger/command/helper"
	"github.com/dogechain-lab/moveledger/types"
)

type MintResult struct {
	Owner types.Address `json:"owner"`
	Coin  types.Coin    `json:"coin"`
}

func (r *MintResult) GetOutput() string {
	var buffer strings.Builder

	buffer.WriteString("\n[COIN MINTED]\n")
	buffer.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("Owner|%s", r.Owner),
		fmt.Sprintf("Coin|%s", r.Coin.CoinObjectID),
		fmt.Sprintf("Coin Type|%s", r.Coin.CoinType),
		fmt.Sprintf("Balance|%d", r.Coin.Balance),
	}))
	buffer.WriteString("\n")

	return buffer.String()
}

type BalancesResult struct {
	Owner    types.Address   `json:"owner"`
	Balances []types.Balance `json:"balances"`
}

func (r *BalancesResult) GetOutput() string {
	var buffer strings.Builder

	buffer.WriteString(fmt.Sprintf("\n[BALANCES OF %s]\n", r.Owner))

	rows := []string{"Coin Type|Coins|Total"}
	for _, b := range r.Balances {
		rows = append(rows, fmt.Sprintf("%s|%d|%d", b.CoinType, b.CoinObjectCount, b.TotalBalance))
	}

	buffer.WriteString(helper.FormatList(rows))
	buffer.WriteString("\n")

	return buffer.String()
}

type CoinsResult struct {
	Owner types.Address `json:"owner"`
	Coins []types.Coin  `json:"coins"`
}

func (r *CoinsResult) GetOutput() string {
	var buffer strings.Builder

	buffer.WriteString(fmt.Sprintf("\n[COINS OF %s]\n", r.Owner))

	if len(r.Coins) == 0 {
		buffer.WriteString("No coins found\n")

		return buffer.String()
	}

	rows := []string{"Coin|Version|Coin Type|Balance"}
	for _, c := range r.Coins {
		rows = append(rows, fmt.Sprintf("%s|%d|%s|%d", c.CoinObjectID, c.Version, c.CoinType, c.Balance))
	}

	buffer.WriteString(helper.FormatList(rows))
	buffer.WriteString("\n")

	return buffer.String()
}
