package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"CARALOG_SOURCE", "CARALOG_DB", "CARALOG_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestLoadFrom_Defaults(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()

	cfg, err := LoadFrom(filepath.Join(home, "missing.toml"), home)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".config", "caralog", "tracking.jsonl"), cfg.SourcePath)
	assert.Equal(t, filepath.Join(home, ".config", "caralog", "logs.db"), cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFrom_TOMLFile(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	cfgPath := filepath.Join(home, "config.toml")
	content := `
source_path = "~/exports/cara.jsonl"
db_path = "/var/lib/caralog/logs.db"
log_level = "debug"
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	cfg, err := LoadFrom(cfgPath, home)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "exports", "cara.jsonl"), cfg.SourcePath)
	assert.Equal(t, "/var/lib/caralog/logs.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadFrom_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	cfgPath := filepath.Join(home, "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`db_path = "/from/file.db"`), 0o644))

	t.Setenv("CARALOG_DB", "~/from-env.db")
	t.Setenv("CARALOG_LOG_LEVEL", "warn")

	cfg, err := LoadFrom(cfgPath, home)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "from-env.db"), cfg.DBPath)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	cfgPath := filepath.Join(home, "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`db_path = `), 0o644))

	_, err := LoadFrom(cfgPath, home)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestValidate(t *testing.T) {
	valid := Config{SourcePath: "a.jsonl", DBPath: "b.db", LogLevel: "error"}
	assert.NoError(t, valid.Validate())

	c := valid
	c.LogLevel = "verbose"
	assert.EqualError(t, c.Validate(), `unknown log_level "verbose"`)

	c = valid
	c.SourcePath = ""
	assert.EqualError(t, c.Validate(), "source_path is empty")

	c = valid
	c.DBPath = ""
	assert.EqualError(t, c.Validate(), "db_path is empty")
}

func TestExpandHome(t *testing.T) {
	assert.Equal(t, filepath.Join("/home/u", "a/b"), expandHome("~/a/b", "/home/u"))
	assert.Equal(t, "/abs/path", expandHome("/abs/path", "/home/u"))
	assert.Equal(t, "~", expandHome("~", "/home/u"))
}
