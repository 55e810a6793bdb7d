package helper

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dogechain-lab/moveledger/command"
	"github.com/dogechain-lab/moveledger/crypto"
	"github.com/dogechain-lab/moveledger/types"
	"github.com/spf13/cobra"
)

// FormatList formats a list into a string, aligning the | separated
// columns
func FormatList(in []string) string {
	return formatColumns(in, "")
}

// FormatKV formats key value pairs:
//
// Key = Value
//
// Key = <none>
func FormatKV(in []string) string {
	for i, row := range in {
		if strings.HasSuffix(row, "|") {
			in[i] = row + "<none>"
		}
	}

	return formatColumns(in, "= ")
}

func formatColumns(in []string, glue string) string {
	var buf bytes.Buffer

	w := tabwriter.NewWriter(&buf, 0, 0, 1, ' ', 0)

	for _, row := range in {
		columns := strings.Split(row, "|")
		for i := 1; i < len(columns); i++ {
			columns[i] = glue + columns[i]
		}

		_, _ = fmt.Fprintln(w, strings.Join(columns, "\t"))
	}

	_ = w.Flush()

	return strings.TrimRight(buf.String(), "\n")
}

// RegisterJSONOutputFlag registers the --json output setting for all child commands
func RegisterJSONOutputFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().Bool(
		command.JSONOutputFlag,
		false,
		"get all outputs in json format (default false)",
	)
}

// RegisterDataDirFlag registers the ledger data directory for all child commands
func RegisterDataDirFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().String(
		command.DataDirFlag,
		"",
		fmt.Sprintf("the directory holding the ledger snapshots (default %q)", command.DefaultDataDir),
	)
}

// RegisterConfigFlag registers the config file path for all child commands
func RegisterConfigFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().String(
		command.ConfigFlag,
		"",
		"the path to the CLI config. Supports .json and .hcl",
	)
}

// RegisterLogLevelFlag registers the log level for all child commands
func RegisterLogLevelFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().String(
		command.LogLevelFlag,
		"",
		fmt.Sprintf("the log level for console output (default %q)", command.DefaultLogLevel),
	)
}

// RegisterSignerFlags registers the flags selecting the signing key
func RegisterSignerFlags(cmd *cobra.Command, key, scheme *string) {
	cmd.Flags().StringVar(
		key,
		command.KeyFlag,
		"",
		"the hex encoded private key (ed25519 seed or secp256k1 scalar) of the sender",
	)

	cmd.Flags().StringVar(
		scheme,
		command.SchemeFlag,
		command.DefaultScheme,
		"the signature scheme of the key, ed25519 or secp256k1",
	)
}

// ParseKeyPair decodes a hex private key of the given scheme
func ParseKeyPair(key, scheme string) (crypto.KeyPair, error) {
	raw, err := types.ParseHexBytes(key)
	if err != nil {
		return nil, fmt.Errorf("invalid key: %w", err)
	}

	var kp crypto.KeyPair

	switch strings.ToLower(scheme) {
	case "ed25519":
		kp, err = crypto.Ed25519FromSeed(raw)
	case "secp256k1":
		kp, err = crypto.Secp256k1FromBytes(raw)
	default:
		return nil, fmt.Errorf("unknown signature scheme %q", scheme)
	}

	if err != nil {
		return nil, err
	}

	return kp, nil
}

// ParseAddresses parses a list of hex addresses
func ParseAddresses(raw []string) ([]types.Address, error) {
	out := make([]types.Address, 0, len(raw))

	for _, s := range raw {
		addr, err := types.ParseAddress(s)
		if err != nil {
			return nil, err
		}

		out = append(out, addr)
	}

	return out, nil
}
