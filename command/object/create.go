package object

import (
	"errors"

	"github.com/dogechain-lab/moveledger/command"
	"github.com/dogechain-lab/moveledger/command/helper"
	"github.com/dogechain-lab/moveledger/types"
	"github.com/spf13/cobra"
)

const (
	idFlag       = "id"
	typeFlag     = "type"
	ownerFlag    = "owner"
	contentsFlag = "contents"
	sharedFlag   = "shared"
)

var errNoOwner = errors.New("either --owner or --shared is required")

var createParams = &objectCreateParams{}

type objectCreateParams struct {
	rawID       string
	rawType     string
	rawOwner    string
	rawContents string
	shared      bool
}

func (p *objectCreateParams) object() (*types.Object, error) {
	id, err := types.ParseObjectID(p.rawID)
	if err != nil {
		return nil, err
	}

	tag, err := types.ParseStructTag(p.rawType)
	if err != nil {
		return nil, err
	}

	var owner types.Owner

	switch {
	case p.shared:
		owner = types.SharedOwner(1)
	case p.rawOwner != "":
		addr, err := types.ParseAddress(p.rawOwner)
		if err != nil {
			return nil, err
		}

		owner = types.AddressOwner(addr)
	default:
		return nil, errNoOwner
	}

	body, err := types.ParseHexBytes(p.rawContents)
	if err != nil {
		return nil, err
	}

	return types.NewMoveObject(id, 1, owner, tag, body, types.ZeroDigest), nil
}

func createCommand() *cobra.Command {
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Inserts a move object at version 1, outside of any transaction",
		Args:  cobra.NoArgs,
		Run:   runCreateCommand,
	}

	createCmd.Flags().StringVar(&createParams.rawID, idFlag, "", "the object id")
	createCmd.Flags().StringVar(&createParams.rawType, typeFlag, "", "the struct type, as in 0x2::coin::Coin<0x2::sui::SUI>")
	createCmd.Flags().StringVar(&createParams.rawOwner, ownerFlag, "", "the owning address")
	createCmd.Flags().StringVar(&createParams.rawContents, contentsFlag, "", "the hex encoded contents following the uid")
	createCmd.Flags().BoolVar(&createParams.shared, sharedFlag, false, "create a shared object")

	_ = createCmd.MarkFlagRequired(idFlag)
	_ = createCmd.MarkFlagRequired(typeFlag)

	createCmd.MarkFlagsMutuallyExclusive(ownerFlag, sharedFlag)

	return createCmd
}

func runCreateCommand(cmd *cobra.Command, _ []string) {
	outputter := command.InitializeOutputter(cmd)
	defer outputter.WriteOutput()

	obj, err := createParams.object()
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

	if err := s.Engine.CreateObject(obj); err != nil {
		outputter.SetError(err)

		return
	}

	if _, err := s.Commit(); err != nil {
		outputter.SetError(err)

		return
	}

	outputter.SetCommandResult(NewObjectResult(obj))
}
