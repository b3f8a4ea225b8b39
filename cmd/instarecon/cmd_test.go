package main

import (
	"bufio"
	"bytes"
	stderrors "errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"instarecon/pkg/auth"
	"instarecon/pkg/config"
	"instarecon/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExampleConfigLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instarecon.yaml")
	require.NoError(t, writeExampleConfig(path))

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Report, cfg.Report)
	assert.Equal(t, 2*time.Second, cfg.Batch.Delay)
	assert.Equal(t, 30*time.Second, cfg.Instagram.Timeout)

	err = writeExampleConfig(path)
	assert.Error(t, err, "existing file must not be overwritten")
}

func TestRenderConfigMasksSession(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Instagram.SessionID = "1234567%3Asecret"
	cfg.Instagram.CSRFToken = "csrfsecret"

	out, err := renderConfig(cfg)
	require.NoError(t, err)
	assert.NotContains(t, out, "secret")
	assert.Contains(t, out, "max_posts: 12")
	assert.Equal(t, "1234567%3Asecret", cfg.Instagram.SessionID, "original must be untouched")
}

func stubManager(m *auth.Manager, err error) func() (*auth.Manager, error) {
	return func() (*auth.Manager, error) { return m, err }
}

func TestApplySession(t *testing.T) {
	t.Setenv(auth.EnvSessionID, "env-session")
	t.Setenv(auth.EnvCSRFToken, "env-csrf")
	envManager := auth.NewManagerWithStores(auth.NewEnvironmentStore())

	t.Run("stored session applied", func(t *testing.T) {
		cfg := config.DefaultConfig()
		log := logger.NewTestLogger()

		require.NoError(t, applySession(cfg, "", stubManager(envManager, nil), log))
		assert.Equal(t, "env-session", cfg.Instagram.SessionID)
		assert.Equal(t, "env-csrf", cfg.Instagram.CSRFToken)
		assert.True(t, log.HasMessage("Using stored session"))
	})

	t.Run("configured session wins", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Instagram.SessionID = "cfg-session"
		cfg.Instagram.CSRFToken = "cfg-csrf"

		called := false
		newManager := func() (*auth.Manager, error) {
			called = true
			return envManager, nil
		}
		require.NoError(t, applySession(cfg, "", newManager, logger.NewNopLogger()))
		assert.False(t, called)
		assert.Equal(t, "cfg-session", cfg.Instagram.SessionID)
	})

	t.Run("manager failure is tolerated without account", func(t *testing.T) {
		cfg := config.DefaultConfig()
		err := applySession(cfg, "", stubManager(nil, stderrors.New("no home")), logger.NewNopLogger())
		require.NoError(t, err)
		assert.False(t, cfg.Instagram.HasSession())
	})

	t.Run("manager failure with named account", func(t *testing.T) {
		cfg := config.DefaultConfig()
		err := applySession(cfg, "work", stubManager(nil, stderrors.New("no home")), logger.NewNopLogger())
		assert.Error(t, err)
	})
}

func TestApplySessionMissingAccount(t *testing.T) {
	t.Setenv(auth.EnvSessionID, "")
	t.Setenv(auth.EnvCSRFToken, "")
	empty := auth.NewManagerWithStores(auth.NewEnvironmentStore())

	cfg := config.DefaultConfig()
	require.NoError(t, applySession(cfg, "", stubManager(empty, nil), logger.NewNopLogger()))
	assert.False(t, cfg.Instagram.HasSession())

	err := applySession(cfg, "work", stubManager(empty, nil), logger.NewNopLogger())
	assert.ErrorIs(t, err, auth.ErrCredentialsNotFound)
}

func withPipedStdin(t *testing.T) {
	orig := stdinIsTerminal
	stdinIsTerminal = func() bool { return false }
	t.Cleanup(func() { stdinIsTerminal = orig })
}

func TestPromptAccount(t *testing.T) {
	withPipedStdin(t)
	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader("123%3Aabc\ncsrf-token\n\n"))

	account, err := promptAccount(&out, in, "work")
	require.NoError(t, err)
	assert.Equal(t, "work", account.Name)
	assert.Equal(t, "123%3Aabc", account.SessionID)
	assert.Equal(t, "csrf-token", account.CSRFToken)
	assert.Empty(t, account.UserAgent)
	assert.Contains(t, out.String(), "sessionid cookie value:")
}

func TestPromptAccountMissingToken(t *testing.T) {
	withPipedStdin(t)
	in := bufio.NewReader(strings.NewReader("123%3Aabc\n"))

	_, err := promptAccount(&bytes.Buffer{}, in, "work")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestWriteAccountsMasksValues(t *testing.T) {
	var out bytes.Buffer
	writeAccounts(&out, []*auth.Account{{
		Name:         "work",
		SessionID:    "1234567890abcdef",
		CSRFToken:    "abcdefghijklmnop",
		LastModified: time.Now().Add(-2 * time.Hour),
	}})

	s := out.String()
	assert.Contains(t, s, "work")
	assert.Contains(t, s, "1234...cdef")
	assert.NotContains(t, s, "1234567890abcdef")
	assert.Contains(t, s, "2 hours ago")
}
