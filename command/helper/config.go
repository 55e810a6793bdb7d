package helper

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dogechain-lab/moveledger/command"
	"github.com/dogechain-lab/moveledger/helper/kvdb/leveldb"
	"github.com/dogechain-lab/moveledger/ledger"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl"
)

// maxZstdLevel is the highest level of the zstd reference encoder
const maxZstdLevel = 22

var (
	errUnsupportedConfig = errors.New("unsupported config file extension")
	errEmptyDataDir      = errors.New("data directory not defined")
	errInvalidLogLevel   = errors.New("invalid log level")
	errInvalidZstdLevel  = errors.New("invalid zstd level")
	errInvalidCacheSize  = errors.New("invalid cache size")
	errInvalidHandles    = errors.New("invalid file handles")
)

// Config is the CLI configuration, read from a .json or .hcl file and
// overridden by flags
type Config struct {
	DataDir       string         `json:"data_dir" hcl:"data_dir"`
	LogLevel      string         `json:"log_level" hcl:"log_level"`
	ChainFile     string         `json:"chain" hcl:"chain"`
	ZstdLevel     int            `json:"zstd_level" hcl:"zstd_level"`
	AuthCacheSize int            `json:"auth_cache_size" hcl:"auth_cache_size"`
	LevelDB       *LevelDBConfig `json:"leveldb" hcl:"leveldb"`
}

// LevelDBConfig tunes the snapshot database
type LevelDBConfig struct {
	CacheSize int  `json:"cache_size" hcl:"cache_size"`
	Handles   int  `json:"handles" hcl:"handles"`
	NoSync    bool `json:"no_sync" hcl:"no_sync"`
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() *Config {
	return &Config{
		DataDir:       command.DefaultDataDir,
		LogLevel:      command.DefaultLogLevel,
		ZstdLevel:     command.DefaultZstdLevel,
		AuthCacheSize: ledger.DefaultAuthCacheSize,
		LevelDB: &LevelDBConfig{
			CacheSize: leveldb.DefaultCache,
			Handles:   leveldb.DefaultHandles,
			NoSync:    leveldb.DefaultNoSyncFlag,
		},
	}
}

// ReadConfigFile reads the config at path on top of the defaults
func ReadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".hcl":
		err = hcl.Decode(config, string(data))
	case ".json":
		err = json.Unmarshal(data, config)
	default:
		return nil, fmt.Errorf("%w: %q", errUnsupportedConfig, ext)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if config.LevelDB == nil {
		config.LevelDB = DefaultConfig().LevelDB
	}

	return config, nil
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.DataDir == "" {
		result = multierror.Append(result, errEmptyDataDir)
	}

	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		result = multierror.Append(result, fmt.Errorf("%w: %q", errInvalidLogLevel, c.LogLevel))
	}

	if c.ZstdLevel < 0 || c.ZstdLevel > maxZstdLevel {
		result = multierror.Append(result, fmt.Errorf("%w: %d", errInvalidZstdLevel, c.ZstdLevel))
	}

	if c.LevelDB != nil {
		if c.LevelDB.CacheSize <= 0 {
			result = multierror.Append(result, fmt.Errorf("%w: %d", errInvalidCacheSize, c.LevelDB.CacheSize))
		}

		if c.LevelDB.Handles <= 0 {
			result = multierror.Append(result, fmt.Errorf("%w: %d", errInvalidHandles, c.LevelDB.Handles))
		}
	}

	return result.ErrorOrNil()
}

// LevelDBOptions converts the config into leveldb options
func (c *Config) LevelDBOptions(logger hclog.Logger) []leveldb.Option {
	opts := []leveldb.Option{leveldb.SetLogger(logger)}

	if c.LevelDB != nil {
		opts = append(opts,
			leveldb.SetCacheSize(c.LevelDB.CacheSize),
			leveldb.SetHandles(c.LevelDB.Handles),
			leveldb.SetNoSync(c.LevelDB.NoSync),
		)
	}

	return opts
}

// NewLogger builds the console logger at the configured level
func (c *Config) NewLogger() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "moveledger",
		Level:  hclog.LevelFromString(c.LogLevel),
		Output: os.Stderr,
	})
}
