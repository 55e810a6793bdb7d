package coin

import (
	"github.com/dogechain-lab/moveledger/command"
	"github.com/dogechain-lab/moveledger/command/helper"
	"github.com/dogechain-lab/moveledger/types"
	"github.com/spf13/cobra"
)

const (
	coinTypeFlag = "coin-type"
	amountFlag   = "amount"
)

var (
	coinType   string
	mintAmount uint64
)

func GetCommand() *cobra.Command {
	coinCmd := &cobra.Command{
		Use:   "coin",
		Short: "Top level command for minting and inspecting coins. Only accepts subcommands.",
	}

	registerSubcommands(coinCmd)

	return coinCmd
}

func registerSubcommands(baseCmd *cobra.Command) {
	mintCmd := &cobra.Command{
		Use:   "mint <address>",
		Short: "Mints a new coin for an address",
		Args:  cobra.ExactArgs(1),
		Run:   runMintCommand,
	}

	mintCmd.Flags().Uint64Var(&mintAmount, amountFlag, 0, "the coin value")
	_ = mintCmd.MarkFlagRequired(amountFlag)

	balanceCmd := &cobra.Command{
		Use:   "balance <address>",
		Short: "Returns the balance of an address, of every coin type unless one is given",
		Args:  cobra.ExactArgs(1),
		Run:   runBalanceCommand,
	}

	listCmd := &cobra.Command{
		Use:   "list <address>",
		Short: "Lists the coins of an address",
		Args:  cobra.ExactArgs(1),
		Run:   runListCommand,
	}

	for _, cmd := range []*cobra.Command{mintCmd, balanceCmd, listCmd} {
		cmd.Flags().StringVar(&coinType, coinTypeFlag, "", "the coin type, SUI when omitted")
	}

	baseCmd.AddCommand(mintCmd, balanceCmd, listCmd)
}

type coinFunc func(s *helper.Session, owner types.Address, tag types.TypeTag) (command.CommandResult, error)

// parseCoinType normalizes the --coin-type flag, empty meaning SUI
func parseCoinType() (types.TypeTag, error) {
	if coinType == "" {
		return "", nil
	}

	return types.ParseTypeTag(coinType)
}

// withOwner parses the address argument and opens a session for fn
func withOwner(cmd *cobra.Command, args []string, fn coinFunc) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	owner, err := types.ParseAddress(args[0])
	if err != nil {
		outputter.SetError(err)

		return
	}

	tag, err := parseCoinType()
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

	result, err := fn(s, owner, tag)
	if err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(result)
}

func runMintCommand(cmd *cobra.Command, args []string) {
	withOwner(cmd, args, func(s *helper.Session, owner types.Address, tag types.TypeTag) (command.CommandResult, error) {
		id, err := s.Engine.Mint(owner, mintAmount, tag)
		if err != nil {
			return nil, err
		}

		if _, err := s.Commit(); err != nil {
			return nil, err
		}

		coins, err := s.Engine.Coins(owner, tag)
		if err != nil {
			return nil, err
		}

		for _, c := range coins {
			if c.CoinObjectID == id {
				return &MintResult{Owner: owner, Coin: c}, nil
			}
		}

		return &MintResult{Owner: owner, Coin: types.Coin{CoinObjectID: id, Balance: mintAmount}}, nil
	})
}

func runBalanceCommand(cmd *cobra.Command, args []string) {
	withOwner(cmd, args, func(s *helper.Session, owner types.Address, tag types.TypeTag) (command.CommandResult, error) {
		if tag == "" {
			balances, err := s.Engine.AllBalances(owner)
			if err != nil {
				return nil, err
			}

			return &BalancesResult{Owner: owner, Balances: balances}, nil
		}

		coins, err := s.Engine.Coins(owner, tag)
		if err != nil {
			return nil, err
		}

		total, err := s.Engine.Balance(owner, tag)
		if err != nil {
			return nil, err
		}

		return &BalancesResult{
			Owner: owner,
			Balances: []types.Balance{{
				CoinType:        tag,
				CoinObjectCount: len(coins),
				TotalBalance:    total,
			}},
		}, nil
	})
}

func runListCommand(cmd *cobra.Command, args []string) {
	withOwner(cmd, args, func(s *helper.Session, owner types.Address, tag types.TypeTag) (command.CommandResult, error) {
		coins, err := s.Engine.Coins(owner, tag)
		if err != nil {
			return nil, err
		}

		return &CoinsResult{Owner: owner, Coins: coins}, nil
	})
}
