package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Storage   StorageConfig   `mapstructure:"storage"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Mail      MailConfig      `mapstructure:"mail"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port" envconfig:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" envconfig:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" envconfig:"write_timeout"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host" envconfig:"host"`
	Port         int    `mapstructure:"port" envconfig:"port"`
	User         string `mapstructure:"user" envconfig:"user"`
	Password     string `mapstructure:"password" envconfig:"password"`
	Name         string `mapstructure:"name" envconfig:"name"`
	SSLMode      string `mapstructure:"sslmode" envconfig:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns" envconfig:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" envconfig:"max_idle_conns"`
}

// DSN returns a lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// StorageConfig selects the repository backend: "postgres" or "memory".
type StorageConfig struct {
	Driver string `mapstructure:"driver" envconfig:"driver"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret" envconfig:"secret"`
	ExpiryHours int    `mapstructure:"expiry_hours" envconfig:"expiry_hours"`
}

// MailConfig configures outbound delivery. Backend is "smtp" or "console".
type MailConfig struct {
	Backend       string `mapstructure:"backend" envconfig:"backend"`
	Host          string `mapstructure:"host" envconfig:"host"`
	Port          int    `mapstructure:"port" envconfig:"port"`
	Username      string `mapstructure:"username" envconfig:"username"`
	Password      string `mapstructure:"password" envconfig:"password"`
	From          string `mapstructure:"from" envconfig:"from"`
	SkipTLSVerify bool   `mapstructure:"skip_tls_verify" envconfig:"skip_tls_verify"`
	// BaseURL prefixes links in confirmation and reset emails.
	BaseURL string `mapstructure:"base_url" envconfig:"base_url"`
}

// RedisConfig enables mailing status events when URL is set.
type RedisConfig struct {
	URL        string `mapstructure:"url" envconfig:"url"`
	MaxRetries int    `mapstructure:"max_retries" envconfig:"max_retries"`
	PoolSize   int    `mapstructure:"pool_size" envconfig:"pool_size"`
}

type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled" envconfig:"enabled"`
	TTL             time.Duration `mapstructure:"ttl" envconfig:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" envconfig:"cleanup_interval"`
}

type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled" envconfig:"enabled"`
	RPS     float64 `mapstructure:"rps" envconfig:"rps"`
	Burst   int     `mapstructure:"burst" envconfig:"burst"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" envconfig:"allowed_origins"`
}

type LogConfig struct {
	Level string `mapstructure:"level" envconfig:"level"`
}

const envPrefix = "MAILER"

// LoadConfig reads config.yml from the usual locations, then applies
// MAILER_* environment overrides. A missing file is not an error.
func LoadConfig(paths ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment variables directly")
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yml")
	if len(paths) == 0 {
		paths = []string{".", "./config", "/app/config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Debug().Msg("no config file found, using defaults")
	} else {
		log.Debug().Str("file", v.ConfigFileUsed()).Msg("using config file")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "mailer")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("storage.driver", "postgres")

	v.SetDefault("jwt.expiry_hours", 24)

	v.SetDefault("mail.backend", "console")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.from", "noreply@localhost")
	v.SetDefault("mail.base_url", "http://localhost:8080")

	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.ttl", time.Minute)
	v.SetDefault("cache.cleanup_interval", 5*time.Minute)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.rps", 20.0)
	v.SetDefault("rate_limit.burst", 40)

	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetDefault("log.level", "info")
}

// applyEnv overlays MAILER_<SECTION>_<KEY> variables; unset variables keep file values.
func applyEnv(cfg *Config) error {
	sections := []struct {
		prefix string
		target interface{}
	}{
		{"SERVER", &cfg.Server},
		{"DB", &cfg.Database},
		{"STORAGE", &cfg.Storage},
		{"JWT", &cfg.JWT},
		{"MAIL", &cfg.Mail},
		{"REDIS", &cfg.Redis},
		{"CACHE", &cfg.Cache},
		{"RATE_LIMIT", &cfg.RateLimit},
		{"CORS", &cfg.CORS},
		{"LOG", &cfg.Log},
	}
	for _, s := range sections {
		if err := envconfig.Process(envPrefix+"_"+s.prefix, s.target); err != nil {
			return fmt.Errorf("failed to process %s environment: %w", s.prefix, err)
		}
	}
	return nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}
	switch c.Mail.Backend {
	case "smtp":
		if c.Mail.Host == "" {
			return errors.New("mail.host is required for the smtp backend")
		}
	case "console":
	default:
		return fmt.Errorf("unsupported mail backend %q", c.Mail.Backend)
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	if c.JWT.ExpiryHours <= 0 {
		return errors.New("jwt.expiry_hours must be positive")
	}
	return nil
}
