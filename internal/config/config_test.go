package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/llm"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/profile"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String(KeyProvider, "gemini", "")
	fs.String(KeyModel, "", "")
	fs.Float64(KeyTemperature, llm.DefaultTemperature, "")
	fs.String(KeyPolicy, "", "")
	fs.String(KeyPersona, "", "")
	return fs
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"VIBESPEC_PROVIDER", "VIBESPEC_MODEL", "VIBESPEC_API_KEY", "VIBESPEC_TEMPERATURE",
		"VIBESPEC_MAX_TOKENS", "VIBESPEC_POLICY", "VIBESPEC_PERSONA",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(newFlags(), "")
	require.NoError(t, err)

	assert.Equal(t, llm.KindGemini, cfg.Provider)
	assert.Equal(t, llm.DefaultTemperature, cfg.Temperature)
	assert.Equal(t, 4096, cfg.MaxTokens)
	assert.Equal(t, 10*time.Minute, cfg.ModelCacheTTL)
	assert.Equal(t, 32, cfg.ModelCacheSize)
	assert.True(t, cfg.ShowThinking)
	assert.Empty(t, cfg.APIKey)
}

func TestLoad_EnvAndProviderKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("VIBESPEC_PROVIDER", "anthropic")
	t.Setenv("VIBESPEC_MAX_TOKENS", "2048")
	t.Setenv("ANTHROPIC_API_KEY", "ak-test")

	cfg, err := Load(newFlags(), "")
	require.NoError(t, err)
	assert.Equal(t, llm.KindAnthropic, cfg.Provider)
	assert.Equal(t, 2048, cfg.MaxTokens)
	assert.Equal(t, "ak-test", cfg.APIKey)
}

func TestLoad_FlagBeatsEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("VIBESPEC_PROVIDER", "anthropic")
	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--provider", "openai", "--model", "gpt-4.1"}))

	cfg, err := Load(fs, "")
	require.NoError(t, err)
	assert.Equal(t, llm.KindOpenAI, cfg.Provider)
	assert.Equal(t, "gpt-4.1", cfg.Model)
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "vibespec.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: openai\npersona: beginner\nmodel-cache-size: 8\n"), 0o600))

	cfg, err := Load(newFlags(), path)
	require.NoError(t, err)
	assert.Equal(t, llm.KindOpenAI, cfg.Provider)
	assert.Equal(t, 8, cfg.ModelCacheSize)

	p, err := cfg.PromptPolicy()
	require.NoError(t, err)
	assert.Equal(t, profile.BeginnerZeroShot, p.Name)
}

func TestLoad_UnknownProviderBecomesGemini(t *testing.T) {
	clearEnv(t)
	t.Setenv("VIBESPEC_PROVIDER", "mistral")
	cfg, err := Load(newFlags(), "")
	require.NoError(t, err)
	assert.Equal(t, llm.KindGemini, cfg.Provider)
}

func TestValidate(t *testing.T) {
	base := Config{Temperature: 0.2, MaxTokens: 10, ModelCacheSize: 1, ModelCacheTTL: time.Second}
	require.NoError(t, base.Validate())

	bad := base
	bad.Temperature = 3
	assert.Error(t, bad.Validate())

	bad = base
	bad.MaxTokens = 0
	assert.Error(t, bad.Validate())

	bad = base
	bad.Policy = "loud"
	assert.Error(t, bad.Validate())
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(newFlags(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
