package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	AI      AIConfig      `mapstructure:"ai"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Log     LogConfig     `mapstructure:"log"`
	Session SessionConfig `mapstructure:"session"`
	Export  ExportConfig  `mapstructure:"export"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxHeaderBytes int           `mapstructure:"max_header_bytes"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
}

// AIConfig 在构造 StoryClient 时显式传入，不读取进程级全局状态
type AIConfig struct {
	Provider    string        `mapstructure:"provider"`
	Illustrator string        `mapstructure:"illustrator"`
	Mock        bool          `mapstructure:"mock"`
	MockDelay   time.Duration `mapstructure:"mock_delay"`
	Ollama      OllamaConfig  `mapstructure:"ollama"`
	OpenAI      OpenAIConfig  `mapstructure:"openai"`
	Gemini      GeminiConfig  `mapstructure:"gemini"`
}

type OllamaConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type OpenAIConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float32       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	ImageModel string `mapstructure:"image_model"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SessionConfig 控制预览句柄的生命周期
type SessionConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

type ExportConfig struct {
	PageSize      string  `mapstructure:"page_size"`
	Margin        float64 `mapstructure:"margin"`
	FontFamily    string  `mapstructure:"font_family"`
	TitleFontSize float64 `mapstructure:"title_font_size"`
	BodyFontSize  float64 `mapstructure:"body_font_size"`
}

// 原项目沿用的环境变量
const (
	envProvider   = "AI_PROVIDER"
	envGoogleKey  = "GOOGLE_API_KEY"
	envOpenAIKey  = "OPENAI_API_KEY"
	envMockUpload = "MOCK_API_UPLOAD"
)

var dotenvFiles = []string{".env.local", ".env"}

// Load 读取 .env 文件、yaml 配置与 SNAPPTALE_* 环境变量。
// configPath 为空或文件不存在时只使用默认值与环境变量。
func Load(configPath string) (*Config, error) {
	for _, f := range dotenvFiles {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				return nil, fmt.Errorf("load %s: %w", f, err)
			}
		}
	}

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", configPath, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	v.SetEnvPrefix("SNAPPTALE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 5*time.Minute)
	v.SetDefault("server.max_header_bytes", 1<<20)
	v.SetDefault("server.max_upload_bytes", 10<<20)

	v.SetDefault("ai.provider", "local")
	v.SetDefault("ai.illustrator", "placeholder")
	v.SetDefault("ai.mock", false)
	v.SetDefault("ai.mock_delay", time.Second)
	v.SetDefault("ai.ollama.base_url", "http://localhost:11434")
	v.SetDefault("ai.ollama.model", "llava")
	v.SetDefault("ai.ollama.timeout", 3*time.Minute)
	v.SetDefault("ai.openai.api_key", "")
	v.SetDefault("ai.openai.base_url", "")
	v.SetDefault("ai.openai.model", "gpt-4o-mini")
	v.SetDefault("ai.openai.max_tokens", 4096)
	v.SetDefault("ai.openai.temperature", 0.8)
	v.SetDefault("ai.openai.timeout", 3*time.Minute)
	v.SetDefault("ai.gemini.api_key", "")
	v.SetDefault("ai.gemini.model", "gemini-2.0-flash")
	v.SetDefault("ai.gemini.image_model", "gemini-2.5-flash-image-preview")

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Accept"})
	v.SetDefault("cors.exposed_headers", []string{"Content-Disposition"})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 600)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("session.ttl", 30*time.Minute)
	v.SetDefault("session.cleanup_interval", time.Minute)

	v.SetDefault("export.page_size", "A4")
	v.SetDefault("export.margin", 15.0)
	v.SetDefault("export.font_family", "Helvetica")
	v.SetDefault("export.title_font_size", 18.0)
	v.SetDefault("export.body_font_size", 12.0)
}

// 配置文件优先，旧环境变量只补空缺；AI_PROVIDER 与 MOCK_API_UPLOAD 例外，直接覆盖
func (c *Config) applyEnvOverrides() {
	if p := os.Getenv(envProvider); p != "" {
		c.AI.Provider = p
	}
	if c.AI.Gemini.APIKey == "" {
		c.AI.Gemini.APIKey = os.Getenv(envGoogleKey)
	}
	if c.AI.OpenAI.APIKey == "" {
		c.AI.OpenAI.APIKey = os.Getenv(envOpenAIKey)
	}
	if os.Getenv(envMockUpload) == "true" {
		c.AI.Mock = true
	}
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive")
	}
	if c.AI.Mock {
		return nil
	}
	switch strings.ToLower(c.AI.Provider) {
	case "hosted", "google", "gemini":
		if c.AI.Gemini.APIKey == "" {
			return fmt.Errorf("%s environment variable not set. Set %s=true to use mock data", envGoogleKey, envMockUpload)
		}
	}
	if strings.EqualFold(c.AI.Illustrator, "gemini") && c.AI.Gemini.APIKey == "" {
		return fmt.Errorf("ai.illustrator=gemini requires %s", envGoogleKey)
	}
	return nil
}
