package agent

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultModel   = "gemini-2.0-flash"
)

type AgentConfig struct {
	APIKey       string           `mapstructure:"api_key"`
	BaseURL      string           `mapstructure:"base_url"`
	Model        string           `mapstructure:"model"`
	AllowTools   bool             `mapstructure:"allow_tools"`
	SystemPrompt string           `mapstructure:"system_prompt"`
	Temperature  float32          `mapstructure:"temperature"`
	MaxCircle    int              `mapstructure:"max_circle"`
	ToolWorkers  int              `mapstructure:"tool_workers"`
	ReAct        ReActAgentConfig `mapstructure:"react"`
	Weather      WeatherConfig    `mapstructure:"weather"`
	Cache        CacheConfig      `mapstructure:"cache"`
	Log          LogConfig        `mapstructure:"log"`
}

type ReActAgentConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// WeatherConfig configures the geocoding and weather clients. Both services
// share the Google Maps Platform key.
type WeatherConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	DefaultLocation string        `mapstructure:"default_location"`
	BaseURL         string        `mapstructure:"base_url"`
	GeocodeBaseURL  string        `mapstructure:"geocode_base_url"`
	UnitsSystem     string        `mapstructure:"units_system"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxRetries      int           `mapstructure:"max_retries"`
	RateLimit       float64       `mapstructure:"rate_limit"`
	RateBurst       int           `mapstructure:"rate_burst"`
}

// CacheConfig selects the response cache. Enabled false disables caching
// even when Addr is set; otherwise a non-empty Addr uses redis and an empty
// one an in-process cache.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Addr    string        `mapstructure:"addr"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Debug bool `mapstructure:"debug"`
}

func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		BaseURL:      DefaultBaseURL,
		Model:        DefaultModel,
		AllowTools:   true,
		SystemPrompt: "",
		Temperature:  DefaultTemperature,
		MaxCircle:    DefaultMaxCircle,
		ToolWorkers:  DefaultToolWorkers,
		ReAct:        ReActAgentConfig{Enabled: false},
		Weather: WeatherConfig{
			DefaultLocation: "Manchester, Greater Manchester",
			Timeout:         10 * time.Second,
			MaxRetries:      2,
			RateLimit:       5,
			RateBurst:       5,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     10 * time.Minute,
		},
	}
}

// LoadAgentConfig loads agent config from a directory containing agent.yaml
// and an optional .env file. Environment variables use the AGENT_ prefix
// (AGENT_WEATHER_API_KEY for weather.api_key); GMP_API_KEY and
// DEFAULT_LOCATION are accepted as well.
func LoadAgentConfig(path string) (*AgentConfig, error) {
	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("agent")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("AGENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := DefaultAgentConfig()
	setDefaults(v, cfg)
	for key, envs := range map[string][]string{
		"api_key":                  {"AGENT_API_KEY", "GEMINI_API_KEY"},
		"weather.api_key":          {"AGENT_WEATHER_API_KEY", "GMP_API_KEY"},
		"weather.default_location": {"AGENT_WEATHER_DEFAULT_LOCATION", "DEFAULT_LOCATION"},
	} {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read agent config: %w", err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode agent config: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers every key with viper so AutomaticEnv can override
// keys that the config file does not mention.
func setDefaults(v *viper.Viper, cfg AgentConfig) {
	v.SetDefault("api_key", cfg.APIKey)
	v.SetDefault("base_url", cfg.BaseURL)
	v.SetDefault("model", cfg.Model)
	v.SetDefault("allow_tools", cfg.AllowTools)
	v.SetDefault("system_prompt", cfg.SystemPrompt)
	v.SetDefault("temperature", cfg.Temperature)
	v.SetDefault("max_circle", cfg.MaxCircle)
	v.SetDefault("tool_workers", cfg.ToolWorkers)
	v.SetDefault("react.enabled", cfg.ReAct.Enabled)
	v.SetDefault("weather.api_key", cfg.Weather.APIKey)
	v.SetDefault("weather.default_location", cfg.Weather.DefaultLocation)
	v.SetDefault("weather.base_url", cfg.Weather.BaseURL)
	v.SetDefault("weather.geocode_base_url", cfg.Weather.GeocodeBaseURL)
	v.SetDefault("weather.units_system", cfg.Weather.UnitsSystem)
	v.SetDefault("weather.timeout", cfg.Weather.Timeout)
	v.SetDefault("weather.max_retries", cfg.Weather.MaxRetries)
	v.SetDefault("weather.rate_limit", cfg.Weather.RateLimit)
	v.SetDefault("weather.rate_burst", cfg.Weather.RateBurst)
	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.addr", cfg.Cache.Addr)
	v.SetDefault("cache.ttl", cfg.Cache.TTL)
	v.SetDefault("log.debug", cfg.Log.Debug)
}

// Validate reports the settings the assistant cannot run without.
func (c *AgentConfig) Validate() error {
	var errs []error
	if c.APIKey == "" {
		errs = append(errs, errors.New("missing model API key; set AGENT_API_KEY or api_key in agent.yaml"))
	}
	if c.Weather.APIKey == "" {
		errs = append(errs, errors.New("missing maps API key; set GMP_API_KEY or weather.api_key in agent.yaml"))
	}
	if c.MaxCircle <= 0 {
		errs = append(errs, fmt.Errorf("max_circle must be positive, got %d", c.MaxCircle))
	}
	switch strings.ToUpper(c.Weather.UnitsSystem) {
	case "", "METRIC", "IMPERIAL":
	default:
		errs = append(errs, fmt.Errorf("weather.units_system must be METRIC or IMPERIAL, got %q", c.Weather.UnitsSystem))
	}
	return errors.Join(errs...)
}
