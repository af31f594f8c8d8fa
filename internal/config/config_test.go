package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/config"
	"taskboard/internal/service"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0600))
}

func TestNew_Defaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.New(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, config.BackendMemory, cfg.Backend)
	assert.Equal(t, "sequence", cfg.IDPolicy)
	assert.Equal(t, config.DefaultListen, cfg.Listen)
	assert.Equal(t, "@default", cfg.ListID())
	assert.Nil(t, cfg.SeedTasks())
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "taskboard"), config.DefaultConfigDir())
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, config.BackendMemory, cfg.BackendName())
	assert.Equal(t, "", cfg.FilePath())
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, config.YAMLFile, `
backend: memory
id_policy: count
listen: ":9090"
log_format: json
google:
  list_id: work
seed:
  - title: Write docs
    description: README first
    status: in-progress
  - title: Ship
    description: Tag a release
`)

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "count", cfg.IDPolicy)
	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "work", cfg.ListID())
	// Untouched keys keep their defaults.
	assert.Equal(t, "info", cfg.LogLevel)

	assert.Equal(t, []service.NewTask{
		{Title: "Write docs", Description: "README first", Status: service.StatusInProgress},
		{Title: "Ship", Description: "Tag a release"},
	}, cfg.SeedTasks())
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, config.TOMLFile, `
backend = "googletasks"
empty = true

[google]
list_id = "abc123"
`)

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, config.BackendGoogleTasks, cfg.Backend)
	assert.True(t, cfg.Empty)
	assert.Equal(t, "abc123", cfg.ListID())
	assert.Equal(t, filepath.Join(dir, config.TOMLFile), cfg.FilePath())
}

func TestLoad_YAMLWinsOverTOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, config.YAMLFile, "listen: yaml:1\n")
	writeFile(t, dir, config.TOMLFile, "listen = \"toml:1\"\n")

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "yaml:1", cfg.Listen)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, config.YAMLFile, "listen: file:1\n")

	t.Setenv("TASKBOARD_LISTEN", "env:2")
	t.Setenv("TASKBOARD_EMPTY", "true")
	t.Setenv("TASKBOARD_GOOGLE_LIST_ID", "from-env")

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "env:2", cfg.Listen)
	assert.True(t, cfg.Empty)
	assert.Equal(t, "from-env", cfg.ListID())
}

func TestLoad_EnvBadBool(t *testing.T) {
	t.Setenv("TASKBOARD_EMPTY", "maybe")

	_, err := config.Load(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "TASKBOARD_EMPTY")
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"backend":    "backend: sqlite\n",
		"id policy":  "id_policy: random\n",
		"log format": "log_format: xml\n",
		"log level":  "log_level: verbose\n",
		"seed status": `seed:
  - title: a
    description: b
    status: blocked
`,
		"seed title": `seed:
  - title: "  "
    description: b
`,
		"syntax": "backend: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, config.YAMLFile, body)
			_, err := config.Load(dir)
			require.Error(t, err)
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func TestLoad_LogLevels(t *testing.T) {
	for _, level := range []string{"debug", "INFO", "warn", "warning", "error"} {
		dir := t.TempDir()
		writeFile(t, dir, config.YAMLFile, "log_level: "+level+"\n")
		cfg, err := config.Load(dir)
		require.NoError(t, err, level)
		assert.Equal(t, level, cfg.LogLevel)
	}

	t.Setenv("TASKBOARD_LOG_LEVEL", "verbose")
	_, err := config.Load(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "unknown log_level: verbose")
}

func TestTokenPaths(t *testing.T) {
	dir := t.TempDir()
	cfg, _ := config.New(dir)

	assert.False(t, cfg.HasOAuthClient())
	assert.False(t, cfg.HasToken())

	writeFile(t, dir, config.TokenFile, "{}")
	assert.True(t, cfg.HasToken())
	require.NoError(t, cfg.RemoveToken())
	assert.False(t, cfg.HasToken())
}
