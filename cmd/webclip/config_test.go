package main_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/webclip"
	main "github.com/fwojciec/webclip/cmd/webclip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("missing file yields defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := main.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))

		require.NoError(t, err)
		assert.Equal(t, main.DefaultConfig(), cfg)
		assert.Equal(t, main.ProviderGemini, cfg.AI.Provider)
		assert.Equal(t, 3, cfg.Retry.MaxAttempts)
		assert.Equal(t, time.Second, cfg.Retry.BaseDelay)
		assert.Equal(t, main.DefaultAITimeout, cfg.AI.Timeout)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
store:
  base_url: https://store.example.com/api/v1
  timeout: 5s
  requests_per_second: 2.5
ai:
  provider: openai
  model: gpt-4o
  timeout: 90s
fetch:
  max_bytes: 1024
retry:
  base_delay: 250ms
`)

		cfg, err := main.LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, "https://store.example.com/api/v1", cfg.Store.BaseURL)
		assert.Equal(t, 5*time.Second, cfg.Store.Timeout)
		assert.InDelta(t, 2.5, cfg.Store.RequestsPerSecond, 0)
		assert.Equal(t, main.ProviderOpenAI, cfg.AI.Provider)
		assert.Equal(t, "gpt-4o", cfg.AI.Model)
		assert.Equal(t, 90*time.Second, cfg.AI.Timeout)
		assert.Equal(t, int64(1024), cfg.Fetch.MaxBytes)
		assert.Equal(t, 250*time.Millisecond, cfg.Retry.BaseDelay)
		assert.Equal(t, 3, cfg.Retry.MaxAttempts, "unset fields keep defaults")
		assert.Equal(t, main.DefaultConfig().Fetch.Timeout, cfg.Fetch.Timeout)
	})

	t.Run("rejects unknown provider", func(t *testing.T) {
		t.Parallel()

		_, err := main.LoadConfig(writeConfig(t, "ai:\n  provider: llama\n"))

		assert.Equal(t, webclip.EINVALID, webclip.ErrorCode(err))
	})

	t.Run("rejects zero attempts", func(t *testing.T) {
		t.Parallel()

		_, err := main.LoadConfig(writeConfig(t, "retry:\n  max_attempts: 0\n"))

		assert.Equal(t, webclip.EINVALID, webclip.ErrorCode(err))
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		t.Parallel()

		_, err := main.LoadConfig(writeConfig(t, "store: [unclosed\n"))

		assert.Equal(t, webclip.EINVALID, webclip.ErrorCode(err))
	})
}
