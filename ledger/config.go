package ledger

import (
	"github.com/dogechain-lab/moveledger/chain"
	"github.com/dogechain-lab/moveledger/crypto"
	"github.com/dogechain-lab/moveledger/executor"
	"github.com/dogechain-lab/moveledger/types"
	"github.com/hashicorp/go-hclog"
)

const (
	// DefaultAuthCacheSize is the number of verified signature sets kept
	DefaultAuthCacheSize = 1024

	// publishTopUp is the balance a publisher is funded up to
	publishTopUp = 1000 * types.MistPerSui
)

// Verifier checks transaction signatures
type Verifier interface {
	VerifyTransaction(tx *types.SignedTransaction, epoch uint64) error
}

// Config holds everything the engine is built from
type Config struct {
	Logger   hclog.Logger
	Executor executor.Executor
	Verifier Verifier
	Params   *chain.Params
	Genesis  *chain.Genesis
	Metrics  *Metrics

	// InitialTimeMs overrides the genesis clock when set
	InitialTimeMs *uint64

	AuthCacheSize int
}

// DefaultConfig returns the sandbox configuration: default params and
// genesis, the native executor and the signature verifier
func DefaultConfig() *Config {
	return &Config{
		Logger:        hclog.NewNullLogger(),
		Verifier:      crypto.NewTransactionVerifier(),
		Params:        chain.DefaultParams(),
		Genesis:       chain.DefaultGenesis(),
		Metrics:       NilMetrics(),
		AuthCacheSize: DefaultAuthCacheSize,
	}
}

type Option func(*Config)

func WithLogger(logger hclog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

func WithExecutor(e executor.Executor) Option {
	return func(c *Config) {
		c.Executor = e
	}
}

func WithVerifier(v Verifier) Option {
	return func(c *Config) {
		c.Verifier = v
	}
}

func WithParams(params *chain.Params) Option {
	return func(c *Config) {
		c.Params = params
	}
}

func WithGenesis(genesis *chain.Genesis) Option {
	return func(c *Config) {
		c.Genesis = genesis
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *Config) {
		c.Metrics = m
	}
}

// WithInitialTime starts the clock at ms instead of the genesis timestamp
func WithInitialTime(ms uint64) Option {
	return func(c *Config) {
		c.InitialTimeMs = &ms
	}
}

func WithAuthCacheSize(size int) Option {
	return func(c *Config) {
		c.AuthCacheSize = size
	}
}
