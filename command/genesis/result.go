package genesis

import (
	"fmt"
	"strings"

	"github.com/dogechain-lab/moveledger/command/helper"
	"github.com/dogechain-lab/moveledger/types"
)

type FundedAccount struct {
	Address types.Address  `json:"address"`
	CoinID  types.ObjectID `json:"coinObjectId"`
	Amount  uint64         `json:"amount"`
}

type GenesisResult struct {
	Chain      string          `json:"chain"`
	DataDir    string          `json:"dataDir"`
	Snapshot   string          `json:"snapshot"`
	TimeMs     uint64          `json:"timeMs"`
	Objects    int             `json:"objects"`
	Checkpoint uint64          `json:"checkpoint"`
	Funded     []FundedAccount `json:"funded,omitempty"`
}

func (r *GenesisResult) GetOutput() string {
	var buffer strings.Builder

	buffer.WriteString("\n[LEDGER INITIALIZED]\n")
	buffer.WriteString(helper.FormatKV([]string{
		fmt.Sprintf("Chain|%s", r.Chain),
		fmt.Sprintf("Data Directory|%s", r.DataDir),
		fmt.Sprintf("Snapshot|%s", r.Snapshot),
		fmt.Sprintf("Clock|%d", r.TimeMs),
		fmt.Sprintf("Objects|%d", r.Objects),
		fmt.Sprintf("Checkpoint|%d", r.Checkpoint),
	}))

	if len(r.Funded) > 0 {
		rows := []string{"Address|Coin|Amount"}
		for _, f := range r.Funded {
			rows = append(rows, fmt.Sprintf("%s|%s|%d", f.Address, f.CoinID, f.Amount))
		}

		buffer.WriteString("\n\n[FUNDED]\n")
		buffer.WriteString(helper.FormatList(rows))
	}

	buffer.WriteString("\n")

	return buffer.String()
}
