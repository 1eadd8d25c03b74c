package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	cfg := &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: "/tmp/shelfmark"},
	}
	assert.NoError(t, cfg.Validate())

	cfg.App.Environment = "sandbox"
	assert.Error(t, cfg.Validate(), "unknown environment should fail")

	cfg.App.Environment = "production"
	cfg.Logger.Level = "verbose"
	assert.Error(t, cfg.Validate(), "unknown log level should fail")

	cfg.Logger.Level = "warn"
	cfg.Data.BasePath = ""
	assert.Error(t, cfg.Validate(), "empty data path should fail")
}

func TestDerivedPaths(t *testing.T) {
	cfg := &Config{Data: DataConfig{BasePath: "/var/lib/shelfmark"}}

	assert.Equal(t, filepath.Join("/var/lib/shelfmark", "shelfmark.db"), cfg.DatabasePath())
	assert.Equal(t, filepath.Join("/var/lib/shelfmark", "viewcache"), cfg.ViewCachePath())
	assert.Equal(t, filepath.Join("/var/lib/shelfmark", "search"), cfg.SearchIndexPath())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/books", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "books"), got)

	got, err = expandPath("", "/default/path")
	require.NoError(t, err)
	assert.Equal(t, "/default/path", got)
}

func TestGetConfigValuePrecedence(t *testing.T) {
	t.Setenv("SHELFMARK_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "SHELFMARK_TEST_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "SHELFMARK_TEST_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "SHELFMARK_TEST_MISSING", "default"))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nSHELFMARK_ENVFILE_A=hello\nSHELFMARK_ENVFILE_B=\"quoted\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("SHELFMARK_ENVFILE_A")
		os.Unsetenv("SHELFMARK_ENVFILE_B")
	})

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "hello", os.Getenv("SHELFMARK_ENVFILE_A"))
	assert.Equal(t, "quoted", os.Getenv("SHELFMARK_ENVFILE_B"))
}

func TestLoadEnvFileBadLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("NOT A PAIR\n"), 0o600))

	assert.Error(t, loadEnvFile(path))
}
