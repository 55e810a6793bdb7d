package helper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dogechain-lab/moveledger/command"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	return path
}

func TestReadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("hcl", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "config.hcl", `
data_dir = "/tmp/ledger"
log_level = "DEBUG"
zstd_level = 9

leveldb {
  cache_size = 32
  handles = 128
  no_sync = true
}
`)

		config, err := ReadConfigFile(path)
		require.NoError(t, err)

		assert.Equal(t, "/tmp/ledger", config.DataDir)
		assert.Equal(t, "DEBUG", config.LogLevel)
		assert.Equal(t, 9, config.ZstdLevel)
		require.NotNil(t, config.LevelDB)
		assert.Equal(t, &LevelDBConfig{CacheSize: 32, Handles: 128, NoSync: true}, config.LevelDB)
		assert.NoError(t, config.Validate())
	})

	t.Run("json keeps defaults", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "config.json", `{"data_dir": "/tmp/ledger", "leveldb": {"cache_size": 32}}`)

		config, err := ReadConfigFile(path)
		require.NoError(t, err)

		defaults := DefaultConfig()

		assert.Equal(t, "/tmp/ledger", config.DataDir)
		assert.Equal(t, command.DefaultLogLevel, config.LogLevel)
		assert.Equal(t, 32, config.LevelDB.CacheSize)
		assert.Equal(t, defaults.LevelDB.Handles, config.LevelDB.Handles)
		assert.Equal(t, defaults.AuthCacheSize, config.AuthCacheSize)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		t.Parallel()

		_, err := ReadConfigFile(writeConfig(t, "config.yaml", "data_dir: x"))
		assert.ErrorIs(t, err, errUnsupportedConfig)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()

		_, err := ReadConfigFile(writeConfig(t, "config.json", "{"))
		assert.Error(t, err)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()

		_, err := ReadConfigFile(filepath.Join(t.TempDir(), "none.hcl"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	config := DefaultConfig()
	require.NoError(t, config.Validate())

	config.DataDir = ""
	config.LogLevel = "LOUD"
	config.ZstdLevel = 40
	config.LevelDB.Handles = 0

	err := config.Validate()
	require.Error(t, err)

	var merr *multierror.Error

	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 4)
	assert.ErrorIs(t, err, errEmptyDataDir)
	assert.ErrorIs(t, err, errInvalidLogLevel)
	assert.ErrorIs(t, err, errInvalidZstdLevel)
	assert.ErrorIs(t, err, errInvalidHandles)
}
