// Package config loads runtime settings from configs/config.yml, an optional
// .env file and the process environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultSecretKey signs session cookies when SECRET_KEY is unset. Development only.
const DefaultSecretKey = "dev-default-key"

type Config struct {
	Port      string
	Debug     bool
	LogLevel  string
	SecretKey string

	DB       DBConfig
	Session  SessionConfig
	Cookie   CookieConfig
	Auth     AuthConfig
	Security SecurityConfig
}

type DBConfig struct {
	Driver string // sqlite | postgres
	Path   string // sqlite file
	DSN    string // postgres DSN
}

type SessionConfig struct {
	Store      string // sql | memory | redis
	CookieName string
	RedisAddr  string
	RedisTTL   time.Duration
}

type CookieConfig struct {
	Secure   bool
	HTTPOnly bool
	SameSite string // lax | strict | none
}

type AuthConfig struct {
	PBKDF2Iterations int
	SaltLength       int
}

type SecurityConfig struct {
	ForceHTTPS bool
}

// UsesDefaultSecret reports whether cookies are signed with the development key.
func (c *Config) UsesDefaultSecret() bool {
	return c.SecretKey == DefaultSecretKey
}

// SameSiteMode converts the configured SameSite string to http.SameSite.
func (c CookieConfig) SameSiteMode() http.SameSite {
	switch strings.ToLower(c.SameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("debug", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("secret_key", DefaultSecretKey)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.path", "database.db")
	v.SetDefault("db.dsn", "")

	v.SetDefault("session.store", "sql")
	v.SetDefault("session.cookie_name", "session")
	v.SetDefault("session.redis_addr", "localhost:6379")
	v.SetDefault("session.redis_ttl", time.Duration(0))

	v.SetDefault("cookie.secure", false)
	v.SetDefault("cookie.http_only", true)
	v.SetDefault("cookie.same_site", "lax")

	v.SetDefault("auth.pbkdf2_iterations", 600000)
	v.SetDefault("auth.salt_length", 16)

	v.SetDefault("security.force_https", false)
}

// Load reads configuration into v and returns the resolved Config.
// A missing config file or .env file is not an error.
func Load(v *viper.Viper, configDir, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %q: %w", envFile, err)
		}
	}

	setDefaults(v)

	v.AddConfigPath(configDir)
	v.SetConfigName("config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Port:      v.GetString("port"),
		Debug:     v.GetBool("debug"),
		LogLevel:  v.GetString("log.level"),
		SecretKey: v.GetString("secret_key"),
		DB: DBConfig{
			Driver: v.GetString("db.driver"),
			Path:   v.GetString("db.path"),
			DSN:    v.GetString("db.dsn"),
		},
		Session: SessionConfig{
			Store:      strings.ToLower(v.GetString("session.store")),
			CookieName: v.GetString("session.cookie_name"),
			RedisAddr:  v.GetString("session.redis_addr"),
			RedisTTL:   v.GetDuration("session.redis_ttl"),
		},
		Cookie: CookieConfig{
			Secure:   v.GetBool("cookie.secure"),
			HTTPOnly: v.GetBool("cookie.http_only"),
			SameSite: v.GetString("cookie.same_site"),
		},
		Auth: AuthConfig{
			PBKDF2Iterations: v.GetInt("auth.pbkdf2_iterations"),
			SaltLength:       v.GetInt("auth.salt_length"),
		},
		Security: SecurityConfig{
			ForceHTTPS: v.GetBool("security.force_https"),
		},
	}

	if cfg.SecretKey == "" {
		return nil, errors.New("secret_key must not be empty")
	}
	return cfg, nil
}
