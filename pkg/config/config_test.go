package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, DefaultAppID, config.Instagram.AppID)
	assert.Equal(t, DefaultUserAgent, config.Instagram.UserAgent)
	assert.Equal(t, 30*time.Second, config.Instagram.Timeout)
	assert.Equal(t, ".", config.Output.BaseDirectory)
	assert.False(t, config.Output.NoHTML)
	assert.Equal(t, 2*time.Second, config.Batch.Delay)
	assert.Equal(t, 12, config.Report.MaxPosts)
	assert.Equal(t, 80, config.Report.CaptionLength)
	assert.NoError(t, config.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("INSTARECON_SESSION_ID", "test-session-id")
	t.Setenv("INSTARECON_CSRF_TOKEN", "test-csrf-token")
	t.Setenv("INSTARECON_OUTPUT_DIR", "/tmp/recon")
	t.Setenv("INSTARECON_BATCH_DELAY", "5s")
	t.Setenv("INSTARECON_MAX_POSTS", "3")
	t.Setenv("INSTARECON_NO_HTML", "true")
	t.Setenv("INSTARECON_LOG_LEVEL", "debug")

	config := DefaultConfig()
	require.NoError(t, config.LoadFromEnv())

	assert.Equal(t, "test-session-id", config.Instagram.SessionID)
	assert.Equal(t, "test-csrf-token", config.Instagram.CSRFToken)
	assert.True(t, config.Instagram.HasSession())
	assert.Equal(t, "/tmp/recon", config.Output.BaseDirectory)
	assert.True(t, config.Output.NoHTML)
	assert.Equal(t, 5*time.Second, config.Batch.Delay)
	assert.Equal(t, 3, config.Report.MaxPosts)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestLoadFromEnvInvalidDuration(t *testing.T) {
	t.Setenv("INSTARECON_BATCH_DELAY", "soon")

	config := DefaultConfig()
	assert.Error(t, config.LoadFromEnv())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantError bool
	}{
		{
			name:      "defaults",
			mutate:    func(c *Config) {},
			wantError: false,
		},
		{
			name:      "missing app id",
			mutate:    func(c *Config) { c.Instagram.AppID = "" },
			wantError: true,
		},
		{
			name:      "session without csrf token",
			mutate:    func(c *Config) { c.Instagram.SessionID = "abc" },
			wantError: true,
		},
		{
			name:      "negative delay",
			mutate:    func(c *Config) { c.Batch.Delay = -time.Second },
			wantError: true,
		},
		{
			name:      "zero delay is allowed",
			mutate:    func(c *Config) { c.Batch.Delay = 0 },
			wantError: false,
		},
		{
			name:      "invalid log level",
			mutate:    func(c *Config) { c.Logging.Level = "loud" },
			wantError: true,
		},
		{
			name:      "zero caption length",
			mutate:    func(c *Config) { c.Report.CaptionLength = 0 },
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromFileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
output:
  base_directory: ./out
batch:
  delay: 750ms
report:
  max_posts: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config := DefaultConfig()
	require.NoError(t, config.LoadFromFile(path))

	assert.Equal(t, "./out", config.Output.BaseDirectory)
	assert.Equal(t, 750*time.Millisecond, config.Batch.Delay)
	assert.Equal(t, 5, config.Report.MaxPosts)
	// untouched keys keep their defaults
	assert.Equal(t, DefaultAppID, config.Instagram.AppID)
	assert.Equal(t, 80, config.Report.CaptionLength)
}

func TestLoadFromFileKeepsExplicitZeros(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
batch:
  delay: 0s
report:
  max_posts: 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, config.Report.MaxPosts)
	assert.Equal(t, time.Duration(0), config.Batch.Delay)
	assert.Equal(t, 80, config.Report.CaptionLength)
	assert.Equal(t, DefaultUserAgent, config.Instagram.UserAgent)
}

func TestLoadFromFileInvalidYAMLLeavesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("report: [unclosed"), 0644))

	config := DefaultConfig()
	assert.Error(t, config.LoadFromFile(path))
	assert.Equal(t, DefaultConfig(), config)
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("batch: [unterminated"), 0644))

	config := DefaultConfig()
	assert.Error(t, config.LoadFromFile(path))
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	config := DefaultConfig()
	config.Report.MaxPosts = 7
	require.NoError(t, config.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	reloaded := DefaultConfig()
	require.NoError(t, reloaded.LoadFromFile(path))
	assert.Equal(t, 7, reloaded.Report.MaxPosts)
}

func TestLoadPrecedence(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  base_directory: from-file\nreport:\n  max_posts: 4\n"), 0644))
	t.Setenv("INSTARECON_OUTPUT_DIR", "from-env")

	config, err := Load(path, map[string]interface{}{
		"posts":   9,
		"no-html": true,
	})
	require.NoError(t, err)

	assert.Equal(t, "from-env", config.Output.BaseDirectory)
	assert.Equal(t, 9, config.Report.MaxPosts)
	assert.True(t, config.Output.NoHTML)
}

func TestLoadRejectsInvalidFlags(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := Load("", map[string]interface{}{"log-level": "chatty"})
	assert.Error(t, err)
}
