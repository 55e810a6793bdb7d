package root

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dogechain-lab/moveledger/crypto"
	"github.com/dogechain-lab/moveledger/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	t       *testing.T
	dataDir string
}

// run executes one invocation against the data directory and decodes the
// json output into out
func (c *cli) run(out interface{}, args ...string) {
	c.t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := NewRootCommand().Command()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--json", "--data-dir", c.dataDir, "--log-level", "ERROR"))

	require.NoError(c.t, cmd.Execute())
	require.Empty(c.t, stderr.String(), "args: %v", args)

	if out != nil {
		require.NoError(c.t, json.Unmarshal(stdout.Bytes(), out), stdout.String())
	}
}

// runFailing expects the invocation to report an error
func (c *cli) runFailing(args ...string) string {
	c.t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := NewRootCommand().Command()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--json", "--data-dir", c.dataDir, "--log-level", "ERROR"))

	require.NoError(c.t, cmd.Execute())
	require.NotEmpty(c.t, stderr.String())

	var out struct {
		Err string `json:"error"`
	}

	require.NoError(c.t, json.Unmarshal(stderr.Bytes(), &out))

	return out.Err
}

type txOutput struct {
	Digest  string `json:"digest"`
	Errors  []string
	Effects *struct {
		Status struct {
			Success bool `json:"success"`
		} `json:"status"`
	} `json:"effects"`
}

func TestCLIWorkflow(t *testing.T) {
	c := &cli{t: t, dataDir: filepath.Join(t.TempDir(), "data")}

	alice, err := crypto.Ed25519FromSeed(bytes.Repeat([]byte{1}, 32))
	require.NoError(t, err)

	aliceKey := "0x" + strings.Repeat("01", 32)
	bob := types.Address{0xbb}

	assert.Contains(t, c.runFailing("coin", "balance", alice.Address().String()), "not initialized")

	var genesis struct {
		Snapshot string `json:"snapshot"`
		TimeMs   uint64 `json:"timeMs"`
		Funded   []struct {
			Amount uint64 `json:"amount"`
		} `json:"funded"`
	}

	c.run(&genesis, "init",
		"--initial-time", "1000",
		"--fund", alice.Address().String(),
		"--fund-amount", fmt.Sprint(10*types.MistPerSui),
	)
	assert.NotEmpty(t, genesis.Snapshot)
	assert.Equal(t, uint64(1000), genesis.TimeMs)
	require.Len(t, genesis.Funded, 1)

	assert.Contains(t, c.runFailing("init"), "already initialized")

	// pay bob, then read the transaction back
	var paid txOutput

	c.run(&paid, "tx", "pay", "--key", aliceKey, "--to", bob.String(), "--amount", "100")
	require.NotNil(t, paid.Effects)
	assert.True(t, paid.Effects.Status.Success)

	var fetched txOutput

	c.run(&fetched, "tx", "get", paid.Digest)
	assert.Equal(t, paid.Digest, fetched.Digest)

	var queried struct {
		Transactions []txOutput `json:"transactions"`
	}

	c.run(&queried, "tx", "query", "--sender", alice.Address().String(), "--recipient", bob.String())
	require.Len(t, queried.Transactions, 1)
	assert.Equal(t, paid.Digest, queried.Transactions[0].Digest)

	var balances struct {
		Balances []struct {
			TotalBalance uint64 `json:"totalBalance"`
		} `json:"balances"`
	}

	c.run(&balances, "coin", "balance", bob.String())
	require.Len(t, balances.Balances, 1)
	assert.Equal(t, uint64(100), balances.Balances[0].TotalBalance)

	// dry runs and rejections leave no record
	var dryRun struct {
		Effects *json.RawMessage `json:"effects"`
	}

	c.run(&dryRun, "tx", "pay", "--key", aliceKey, "--to", bob.String(), "--amount", "5", "--dry-run")
	assert.NotNil(t, dryRun.Effects)

	var rejected txOutput

	c.run(&rejected, "tx", "pay", "--key", aliceKey, "--to", bob.String(), "--amount", "5", "--reject", "maintenance")
	assert.Nil(t, rejected.Effects)
	assert.Contains(t, strings.Join(rejected.Errors, " "), "maintenance")

	var listed struct {
		Digests []string `json:"digests"`
	}

	c.run(&listed, "tx", "list")
	assert.Equal(t, []string{paid.Digest}, listed.Digests)

	// clock and checkpoint survive between invocations
	var clock struct {
		TimestampMs uint64 `json:"timestampMs"`
	}

	c.run(nil, "clock", "set", "7000")
	c.run(&clock, "clock", "get")
	assert.Equal(t, uint64(7000), clock.TimestampMs)

	c.run(&clock, "clock", "advance", "500")
	assert.Equal(t, uint64(7500), clock.TimestampMs)

	var checkpoint struct {
		Checkpoint uint64 `json:"checkpoint"`
	}

	c.run(&checkpoint, "checkpoint", "bump")
	c.run(&checkpoint, "checkpoint", "get")
	assert.Equal(t, uint64(1), checkpoint.Checkpoint)

	var auth struct {
		Mode string `json:"mode"`
	}

	c.run(nil, "auth", "set", "disabled")
	c.run(&auth, "auth", "get")
	assert.Equal(t, "disabled", auth.Mode)

	// snapshots
	var saved struct {
		Snapshot struct {
			Name       string `json:"name"`
			Checkpoint uint64 `json:"checkpoint"`
		} `json:"snapshot"`
	}

	c.run(&saved, "snapshot", "save", "before-export")
	assert.Equal(t, "before-export", saved.Snapshot.Name)
	assert.Equal(t, uint64(1), saved.Snapshot.Checkpoint)

	backup := filepath.Join(t.TempDir(), "ledger.bak")

	var exported struct {
		Checkpoint uint64 `json:"checkpoint"`
	}

	c.run(&exported, "snapshot", "export", backup)
	assert.Equal(t, uint64(1), exported.Checkpoint)

	// roll back to genesis, then import the backup
	c.run(nil, "snapshot", "load", genesis.Snapshot)
	c.run(&checkpoint, "checkpoint", "get")
	assert.Zero(t, checkpoint.Checkpoint)

	c.run(nil, "snapshot", "import", backup)
	c.run(&checkpoint, "checkpoint", "get")
	assert.Equal(t, uint64(1), checkpoint.Checkpoint)

	c.run(&balances, "coin", "balance", bob.String())
	assert.Equal(t, uint64(100), balances.Balances[0].TotalBalance)

	var snapshots struct {
		Head      string `json:"head"`
		Snapshots []struct {
			Name string `json:"name"`
		} `json:"snapshots"`
	}

	c.run(&snapshots, "snapshot", "list")
	assert.NotEmpty(t, snapshots.Head)
	assert.GreaterOrEqual(t, len(snapshots.Snapshots), 3)

	c.run(nil, "snapshot", "delete", "before-export")
	assert.Contains(t, c.runFailing("snapshot", "delete", "before-export"), "snapshot not found")
}
