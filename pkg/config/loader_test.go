package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/config"
)

type successConfig struct {
	Name    string `env:"CFGTEST_NAME" envDefault:"default"`
	Workers int    `env:"CFGTEST_WORKERS" envDefault:"4"`
	Debug   bool   `env:"CFGTEST_DEBUG" envDefault:"false"`
}

type defaultsConfig struct {
	Name    string `env:"CFGTEST_DEFAULT_NAME" envDefault:"default"`
	Workers int    `env:"CFGTEST_DEFAULT_WORKERS" envDefault:"4"`
}

type requiredConfig struct {
	Value string `env:"CFGTEST_REQUIRED,required"`
}

type cachedConfig struct {
	Value string `env:"CFGTEST_CACHED"`
}

type fileConfig struct {
	Value    string   `env:"CFGTEST_FILE_VALUE"`
	List     []string `env:"CFGTEST_FILE_LIST" envSeparator:","`
	Existing string   `env:"CFGTEST_FILE_EXISTING"`
}

func TestLoad_Success(t *testing.T) {
	t.Setenv("CFGTEST_NAME", "notifyd")
	t.Setenv("CFGTEST_WORKERS", "8")
	t.Setenv("CFGTEST_DEBUG", "true")
	config.ResetCache()

	var cfg successConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, successConfig{Name: "notifyd", Workers: 8, Debug: true}, cfg)
}

func TestLoad_Defaults(t *testing.T) {
	config.ResetCache()

	var cfg defaultsConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "default", cfg.Name)
	assert.Equal(t, 4, cfg.Workers)
}

func TestLoad_MissingRequired(t *testing.T) {
	config.ResetCache()

	var cfg requiredConfig
	err := config.Load(&cfg)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
	assert.Panics(t, func() { config.MustLoad(&cfg) })
}

func TestLoad_Cached(t *testing.T) {
	t.Setenv("CFGTEST_CACHED", "first")
	config.ResetCache()

	var first cachedConfig
	require.NoError(t, config.Load(&first))

	t.Setenv("CFGTEST_CACHED", "second")
	var second cachedConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "first", second.Value)

	config.ResetCache()
	var third cachedConfig
	require.NoError(t, config.Load(&third))
	assert.Equal(t, "second", third.Value)
}

func TestLoad_NilPointer(t *testing.T) {
	var cfg *cachedConfig
	assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env.test")
	require.NoError(t, os.WriteFile(path, []byte(
		"CFGTEST_FILE_VALUE=from_file\nCFGTEST_FILE_LIST=a,b,c\nCFGTEST_FILE_EXISTING=from_file\n",
	), 0o600))

	t.Setenv("CFGTEST_FILE_EXISTING", "from_env")
	// Registered with t.Setenv so the values loaded from file are restored afterwards.
	t.Setenv("CFGTEST_FILE_VALUE", "")
	t.Setenv("CFGTEST_FILE_LIST", "")
	os.Unsetenv("CFGTEST_FILE_VALUE")
	os.Unsetenv("CFGTEST_FILE_LIST")
	config.ResetCache()

	require.NoError(t, config.LoadEnv(path))

	var cfg fileConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "from_file", cfg.Value)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.List)
	assert.Equal(t, "from_env", cfg.Existing)

	assert.ErrorIs(t, config.LoadEnv(filepath.Join(dir, "missing.env")), config.ErrLoadingEnvFile)
	assert.NoError(t, config.LoadEnv())
}
