package helper

import (
	"errors"
	"fmt"
	"os"

	"github.com/dogechain-lab/moveledger/archive"
	"github.com/dogechain-lab/moveledger/chain"
	"github.com/dogechain-lab/moveledger/command"
	"github.com/dogechain-lab/moveledger/helper/kvdb"
	"github.com/dogechain-lab/moveledger/helper/kvdb/leveldb"
	"github.com/dogechain-lab/moveledger/ledger"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

var (
	ErrNotInitialized     = errors.New("ledger is not initialized, run init first")
	ErrAlreadyInitialized = errors.New("ledger is already initialized, use --force to start over")
)

// authModeKey does not collide with the archive keys
var authModeKey = []byte("c/auth")

// Session is one CLI invocation against the ledger kept in the data
// directory: the head snapshot is loaded into an engine and every
// mutating command commits a new head.
type Session struct {
	Config  *Config
	Logger  hclog.Logger
	Chain   *chain.Chain
	Engine  *ledger.Engine
	Archive *archive.Archive

	db kvdb.KVBatchStorage
}

// LoadConfig reads the config file named by the --config flag, if any,
// and applies the flag overrides
func LoadConfig(cmd *cobra.Command) (*Config, error) {
	config := DefaultConfig()

	if path, _ := cmd.Flags().GetString(command.ConfigFlag); path != "" {
		var err error

		if config, err = ReadConfigFile(path); err != nil {
			return nil, err
		}
	}

	if dir, _ := cmd.Flags().GetString(command.DataDirFlag); dir != "" {
		config.DataDir = dir
	}

	if level, _ := cmd.Flags().GetString(command.LogLevelFlag); level != "" {
		config.LogLevel = level
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) loadChain() (*chain.Chain, error) {
	if c.ChainFile == "" {
		return chain.DefaultChain(), nil
	}

	return chain.Import(c.ChainFile)
}

func openSession(config *Config, opts ...ledger.Option) (*Session, error) {
	logger := config.NewLogger()

	c, err := config.loadChain()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(config.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := leveldb.New(config.DataDir, config.LevelDBOptions(logger.Named("leveldb"))...)
	if err != nil {
		return nil, err
	}

	engineOpts := append([]ledger.Option{
		ledger.WithLogger(logger),
		ledger.WithParams(c.Params),
		ledger.WithGenesis(c.Genesis),
		ledger.WithAuthCacheSize(config.AuthCacheSize),
	}, opts...)

	engine, err := ledger.NewEngine(engineOpts...)
	if err != nil {
		_ = db.Close()

		return nil, err
	}

	return &Session{
		Config:  config,
		Logger:  logger,
		Chain:   c,
		Engine:  engine,
		Archive: archive.NewArchive(logger, db, config.ZstdLevel),
		db:      db,
	}, nil
}

// OpenSession loads the head snapshot of the data directory
func OpenSession(cmd *cobra.Command) (*Session, error) {
	config, err := LoadConfig(cmd)
	if err != nil {
		return nil, err
	}

	s, err := openSession(config)
	if err != nil {
		return nil, err
	}

	snap, err := s.Archive.LoadHead()
	if err != nil {
		s.Close()

		if errors.Is(err, archive.ErrNoHead) {
			return nil, ErrNotInitialized
		}

		return nil, err
	}

	if err := s.Engine.Restore(snap); err != nil {
		s.Close()

		return nil, err
	}

	mode, err := s.loadAuthMode()
	if err != nil {
		s.Close()

		return nil, err
	}

	s.Engine.SetAuthMode(mode)

	return s, nil
}

// InitSession starts a ledger from genesis. An existing head is only
// replaced when force is set.
func InitSession(cmd *cobra.Command, force bool, opts ...ledger.Option) (*Session, error) {
	config, err := LoadConfig(cmd)
	if err != nil {
		return nil, err
	}

	s, err := openSession(config, opts...)
	if err != nil {
		return nil, err
	}

	if _, ok, err := s.Archive.Head(); err != nil || (ok && !force) {
		s.Close()

		if err == nil {
			err = ErrAlreadyInitialized
		}

		return nil, err
	}

	if err := s.db.Delete(authModeKey); err != nil {
		s.Close()

		return nil, err
	}

	return s, nil
}

func (s *Session) loadAuthMode() (ledger.AuthMode, error) {
	raw, ok, err := s.db.Get(authModeKey)
	if err != nil || !ok {
		return ledger.AuthEnabled, err
	}

	return ledger.ParseAuthMode(string(raw))
}

// SaveAuthMode persists the signature checking mode across invocations
func (s *Session) SaveAuthMode(mode ledger.AuthMode) error {
	s.Engine.SetAuthMode(mode)

	return s.db.Set(authModeKey, []byte(mode.String()))
}

// Commit stores the engine state as the new head snapshot
func (s *Session) Commit() (string, error) {
	snap, err := s.Engine.Export()
	if err != nil {
		return "", err
	}

	name, err := s.Archive.Commit("", snap)
	if err != nil {
		return "", err
	}

	s.Logger.Debug("committed snapshot", "name", name, "checkpoint", snap.Checkpoint)

	return name, nil
}

// Close stops the engine and closes the database
func (s *Session) Close() {
	s.Engine.Close()

	if err := s.Archive.Close(); err != nil {
		s.Logger.Error("failed to close archive", "err", err)
	}
}
