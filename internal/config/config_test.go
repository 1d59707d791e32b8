package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearLegacyEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{envProvider, envGoogleKey, envOpenAIKey, envMockUpload} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearLegacyEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, "local", cfg.AI.Provider)
	assert.Equal(t, "placeholder", cfg.AI.Illustrator)
	assert.Equal(t, "http://localhost:11434", cfg.AI.Ollama.BaseURL)
	assert.Equal(t, "llava", cfg.AI.Ollama.Model)
	assert.Equal(t, time.Second, cfg.AI.MockDelay)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "A4", cfg.Export.PageSize)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	clearLegacyEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestLoad_YAMLFile(t *testing.T) {
	clearLegacyEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 8081
ai:
  provider: openai
  openai:
    model: llava:13b
    base_url: http://localhost:11434/v1
session:
  ttl: 10m
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "llava:13b", cfg.AI.OpenAI.Model)
	assert.Equal(t, "http://localhost:11434/v1", cfg.AI.OpenAI.BaseURL)
	assert.Equal(t, 10*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "debug", cfg.Log.Level)
	// 未在文件中出现的键保持默认
	assert.Equal(t, "llava", cfg.AI.Ollama.Model)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearLegacyEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [port"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_PrefixedEnv(t *testing.T) {
	clearLegacyEnv(t)
	t.Setenv("SNAPPTALE_AI_OLLAMA_MODEL", "bakllava")
	t.Setenv("SNAPPTALE_SERVER_PORT", "9090")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "bakllava", cfg.AI.Ollama.Model)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_LegacyEnv(t *testing.T) {
	clearLegacyEnv(t)
	t.Setenv(envProvider, "google")
	t.Setenv(envGoogleKey, "g-key")
	t.Setenv(envMockUpload, "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "google", cfg.AI.Provider)
	assert.Equal(t, "g-key", cfg.AI.Gemini.APIKey)
	assert.True(t, cfg.AI.Mock)
}

func TestLoad_DotenvLocal(t *testing.T) {
	clearLegacyEnv(t)
	os.Unsetenv(envOpenAIKey)
	t.Cleanup(func() { os.Unsetenv(envOpenAIKey) })

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte(envOpenAIKey+"=from-dotenv\n"), 0o644))
	t.Chdir(dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.AI.OpenAI.APIKey)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server: ServerConfig{Port: 3000, MaxUploadBytes: 1024},
			AI:     AIConfig{Provider: "local", Illustrator: "placeholder"},
		}
	}

	t.Run("local provider needs no key", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("hosted provider without key fails", func(t *testing.T) {
		cfg := base()
		cfg.AI.Provider = "hosted"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GOOGLE_API_KEY")
	})

	t.Run("mock skips the key check", func(t *testing.T) {
		cfg := base()
		cfg.AI.Provider = "hosted"
		cfg.AI.Mock = true
		assert.NoError(t, cfg.Validate())
	})

	t.Run("gemini illustrator without key fails", func(t *testing.T) {
		cfg := base()
		cfg.AI.Illustrator = "gemini"
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad port", func(t *testing.T) {
		cfg := base()
		cfg.Server.Port = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown provider is left to the story client", func(t *testing.T) {
		cfg := base()
		cfg.AI.Provider = "unknown_provider"
		assert.NoError(t, cfg.Validate())
	})
}
