package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	go_ora "github.com/sijms/go-ora/v2"
	"github.com/spf13/viper"
)

const (
	DBDriverOracle   = "oracle"
	DBDriverPostgres = "postgres"

	LLMProviderGemini = "gemini"
	LLMProviderOpenAI = "openai"
	LLMProviderOllama = "ollama"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	DB         DBConfig         `mapstructure:"db"`
	Redis      RedisConfig      `mapstructure:"redis"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Generation GenerationConfig `mapstructure:"generation"`
	Logger     LoggerConfig     `mapstructure:"logger"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	BodyLimit      int           `mapstructure:"body_limit"`
	AllowedOrigins string        `mapstructure:"allowed_origins"`
}

type DBConfig struct {
	Driver       string `mapstructure:"driver"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"name"`
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// RedisConfig holds the connection settings for the generation rate limiter.
// An empty Address disables rate limiting.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LLMConfig struct {
	Provider    string        `mapstructure:"provider"`
	Model       string        `mapstructure:"model"`
	APIKey      string        `mapstructure:"api_key"`
	ServerURL   string        `mapstructure:"server_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Temperature float64       `mapstructure:"temperature"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
	Audience  string `mapstructure:"audience"`
}

type GenerationConfig struct {
	MaxContentChars int           `mapstructure:"max_content_chars"`
	RateLimit       int           `mapstructure:"rate_limit"`
	RateWindow      time.Duration `mapstructure:"rate_window"`
}

type LoggerConfig struct {
	Level string `mapstructure:"level"`
	Env   string `mapstructure:"env"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "20s")
	v.SetDefault("server.write_timeout", "90s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.body_limit", 1024*1024)
	v.SetDefault("server.allowed_origins", "*")

	v.SetDefault("db.driver", DBDriverPostgres)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "quiz")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "quizdigest")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("llm.provider", LLMProviderGemini)
	v.SetDefault("llm.model", "gemini-2.5-flash")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.server_url", "")
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.temperature", 0.2)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.audience", "")

	v.SetDefault("generation.max_content_chars", 20000)
	v.SetDefault("generation.rate_limit", 10)
	v.SetDefault("generation.rate_window", "1h")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")
}

// LoadConfig reads .env, then config.yaml, then environment overrides.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var paths []string
	if os.Getenv("ENV") == "test" {
		paths = []string{"../../config", "../../"}
	} else {
		paths = []string{".", "./config"}
	}
	return LoadConfigFrom(paths...)
}

// LoadConfigFrom is LoadConfig with explicit search paths for config.yaml.
// A missing file is not an error; defaults and env still apply.
func LoadConfigFrom(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.DB.Driver = strings.ToLower(strings.TrimSpace(cfg.DB.Driver))
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case DBDriverOracle, DBDriverPostgres:
	default:
		return fmt.Errorf("unsupported db.driver %q", c.DB.Driver)
	}
	switch c.LLM.Provider {
	case LLMProviderGemini, LLMProviderOpenAI, LLMProviderOllama:
	default:
		return fmt.Errorf("unsupported llm.provider %q", c.LLM.Provider)
	}
	if c.Generation.MaxContentChars <= 0 {
		return fmt.Errorf("generation.max_content_chars must be positive")
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be positive")
	}
	return nil
}

// GetDSN returns db.dsn when set, otherwise builds one for the configured driver.
func (c *Config) GetDSN() string {
	if c.DB.DSN != "" {
		return c.DB.DSN
	}
	if c.DB.Driver == DBDriverOracle {
		return go_ora.BuildUrl(c.DB.Host, c.DB.Port, c.DB.DBName, c.DB.User, c.DB.Password, nil)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DB.User, c.DB.Password),
		Host:     c.DB.Host + ":" + strconv.Itoa(c.DB.Port),
		Path:     "/" + c.DB.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
