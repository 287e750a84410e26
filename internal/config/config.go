// Package config resolves run settings from flags, VIBESPEC_* environment
// variables, an optional config file, and a .env file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/llm"
	"github.com/dudcjfsp-cyber/vive-to-spec-V2/internal/profile"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "VIBESPEC"

// Keys. They match the CLI flag names.
const (
	KeyProvider       = "provider"
	KeyModel          = "model"
	KeyAPIKey         = "api-key"
	KeyTemperature    = "temperature"
	KeyMaxTokens      = "max-tokens"
	KeyPolicy         = "policy"
	KeyPersona        = "persona"
	KeyShowThinking   = "show-thinking"
	KeyModelCacheTTL  = "model-cache-ttl"
	KeyModelCacheSize = "model-cache-size"
	KeyVerbose        = "verbose"
)

// Config is the resolved run configuration.
type Config struct {
	Provider       llm.Kind
	Model          string
	APIKey         string `json:"-"`
	Temperature    float64
	MaxTokens      int
	Policy         string
	Persona        string
	ShowThinking   bool
	ModelCacheTTL  time.Duration
	ModelCacheSize int
	Verbose        bool
}

// Defaults seeds v with the built-in values.
func Defaults(v *viper.Viper) {
	v.SetDefault(KeyProvider, string(llm.KindGemini))
	v.SetDefault(KeyTemperature, llm.DefaultTemperature)
	v.SetDefault(KeyMaxTokens, 4096)
	v.SetDefault(KeyShowThinking, true)
	v.SetDefault(KeyModelCacheTTL, 10*time.Minute)
	v.SetDefault(KeyModelCacheSize, 32)
}

// Load resolves the configuration. Precedence, highest first: changed flags,
// VIBESPEC_* env, configFile (when non-empty), defaults. A missing .env is
// not an error. The API key falls back to the provider's own variable, such
// as GEMINI_API_KEY.
func Load(flags *pflag.FlagSet, configFile string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	Defaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("binding flags: %w", err)
		}
	}

	cfg := &Config{
		Provider:       llm.ParseKind(v.GetString(KeyProvider)),
		Model:          strings.TrimSpace(v.GetString(KeyModel)),
		APIKey:         strings.TrimSpace(v.GetString(KeyAPIKey)),
		Temperature:    v.GetFloat64(KeyTemperature),
		MaxTokens:      v.GetInt(KeyMaxTokens),
		Policy:         strings.TrimSpace(v.GetString(KeyPolicy)),
		Persona:        strings.TrimSpace(v.GetString(KeyPersona)),
		ShowThinking:   v.GetBool(KeyShowThinking),
		ModelCacheTTL:  v.GetDuration(KeyModelCacheTTL),
		ModelCacheSize: v.GetInt(KeyModelCacheSize),
		Verbose:        v.GetBool(KeyVerbose),
	}
	if cfg.APIKey == "" {
		cfg.APIKey = strings.TrimSpace(os.Getenv(cfg.Provider.APIKeyEnv()))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and the policy name.
func (c *Config) Validate() error {
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %g", c.Temperature)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max-tokens must be positive, got %d", c.MaxTokens)
	}
	if c.ModelCacheSize <= 0 {
		return fmt.Errorf("model-cache-size must be positive, got %d", c.ModelCacheSize)
	}
	if c.ModelCacheTTL <= 0 {
		return fmt.Errorf("model-cache-ttl must be positive, got %s", c.ModelCacheTTL)
	}
	if _, err := c.PromptPolicy(); err != nil {
		return err
	}
	return nil
}

// PromptPolicy resolves the policy from Policy, falling back to Persona.
func (c *Config) PromptPolicy() (*profile.Profile, error) {
	return profile.ForPersona(c.Persona, c.Policy)
}
