package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	StrategyCombined = "combined"
	StrategyTwoCall  = "two-call"

	GroqBaseURL        = "https://api.groq.com/openai/v1"
	DefaultGroqModel   = "llama-3.1-8b-instant"
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultGeminiModel = "gemini-1.5-flash"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	LLM        LLMConfig        `mapstructure:"llm"`
	OCR        OCRConfig        `mapstructure:"ocr"`
	Summarizer SummarizerConfig `mapstructure:"summarizer"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	MaxUploadMB     int64         `mapstructure:"max_upload_mb"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	TempDir         string        `mapstructure:"temp_dir"`
}

type LLMConfig struct {
	Provider    string  `mapstructure:"provider"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
	APIKey      string  `mapstructure:"api_key"`
}

type OCRConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	MinChars      int    `mapstructure:"min_chars"`
	DPI           int    `mapstructure:"dpi"`
	Language      string `mapstructure:"language"`
	Workers       int    `mapstructure:"workers"`
	PdftoppmPath  string `mapstructure:"pdftoppm_path"`
	TesseractPath string `mapstructure:"tesseract_path"`
}

type SummarizerConfig struct {
	MaxChars         int    `mapstructure:"max_chars"`
	ChapterMaxChars  int    `mapstructure:"chapter_max_chars"`
	DefaultWordCount int    `mapstructure:"default_word_count"`
	CombinedStrategy string `mapstructure:"combined_strategy"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// APIKeyConfigured reports whether a credential for the selected provider is present.
func (c *Config) APIKeyConfigured() bool {
	return strings.TrimSpace(c.LLM.APIKey) != ""
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults alone always unmarshal cleanly.
	_ = v.Unmarshal(&cfg)
	cfg.LLM.applyProviderDefaults()
	return &cfg
}

// LoadConfig reads configPath (optional) and the environment. The LLM credential is
// read once here and never mutated afterwards.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if config.LLM.APIKey == "" {
		config.LLM.APIKey = apiKeyFromEnv(config.LLM.Provider)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	config.LLM.applyProviderDefaults()
	return &config, nil
}

// applyProviderDefaults fills base URL and model for the selected provider. Groq
// values left over from a shared config file are not carried to other providers.
func (c *LLMConfig) applyProviderDefaults() {
	switch c.Provider {
	case ProviderOpenAI:
		if c.BaseURL == GroqBaseURL {
			c.BaseURL = ""
		}
		if c.Model == "" || c.Model == DefaultGroqModel {
			c.Model = DefaultOpenAIModel
		}
	case ProviderGemini:
		c.BaseURL = ""
		if c.Model == "" || c.Model == DefaultGroqModel {
			c.Model = DefaultGeminiModel
		}
	default:
		if c.BaseURL == "" {
			c.BaseURL = GroqBaseURL
		}
		if c.Model == "" {
			c.Model = DefaultGroqModel
		}
	}
}

func apiKeyFromEnv(provider string) string {
	return os.Getenv(APIKeyEnv(provider))
}

// APIKeyEnv names the environment variable holding the provider's credential.
func APIKeyEnv(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return "GROQ_API_KEY"
	}
}

func (c *Config) validate() error {
	switch c.LLM.Provider {
	case ProviderGroq, ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	switch c.Summarizer.CombinedStrategy {
	case StrategyCombined, StrategyTwoCall:
	default:
		return fmt.Errorf("unknown combined strategy %q", c.Summarizer.CombinedStrategy)
	}
	if c.Summarizer.MaxChars <= 0 || c.Summarizer.ChapterMaxChars <= 0 {
		return errors.New("summarizer character limits must be positive")
	}
	if c.Summarizer.DefaultWordCount <= 0 {
		return errors.New("summarizer.default_word_count must be positive")
	}
	if c.OCR.Workers <= 0 {
		c.OCR.Workers = 1
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "5002")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.max_upload_mb", 20)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.temp_dir", "")

	v.SetDefault("llm.provider", ProviderGroq)
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.api_key", "")

	v.SetDefault("ocr.enabled", true)
	v.SetDefault("ocr.min_chars", 200)
	v.SetDefault("ocr.dpi", 300)
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.workers", 4)
	v.SetDefault("ocr.pdftoppm_path", "pdftoppm")
	v.SetDefault("ocr.tesseract_path", "tesseract")

	v.SetDefault("summarizer.max_chars", 8000)
	v.SetDefault("summarizer.chapter_max_chars", 20000)
	v.SetDefault("summarizer.default_word_count", 300)
	v.SetDefault("summarizer.combined_strategy", StrategyCombined)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
