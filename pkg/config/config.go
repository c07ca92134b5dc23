// Package config assembles the process configuration from a .env file, an
// optional TOML file and the environment, in that order of precedence
// (environment wins).
//
// The APOD api key is deliberately not part of Config: the client reads
// APOD_API_KEY whenever it makes a request.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"apodweb/pkg/consts"
	"apodweb/pkg/repository"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

type Config struct {
	Port    string
	Apod    Apod
	Store   repository.Config
	Session Session
}

type Apod struct {
	BaseURL string
	Verbose bool
}

type Session struct {
	Cookie string
	// MaxAge of the session cookie in seconds, 0 keeps it for the browser session.
	MaxAge int
	// Secure marks the cookie https-only, set it when served over TLS.
	Secure bool
}

const defaultPort = "8080"

func defaults() Config {
	return Config{
		Port: defaultPort,
		Apod: Apod{BaseURL: consts.ApodURL},
		Store: repository.Config{
			Driver: consts.DriverMemory,
		},
		Session: Session{Cookie: consts.SessionCookie},
	}
}

// LoadEnvFile exports the variables of a .env file that are not set yet.
// A missing file is not an error.
func LoadEnvFile(name string) error {
	if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", name, err)
	}
	return nil
}

// Load reads the TOML file at path (APOD_CONFIG when path is empty) and applies
// environment overrides. Without a file the defaults are used.
func Load(path string) (Config, error) {
	cfg := defaults()

	if strings.TrimSpace(path) == "" {
		path = os.Getenv(consts.EnvConfig)
	}

	if strings.TrimSpace(path) != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	bytes, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Port string `toml:"port"`
		Apod struct {
			URL     string `toml:"url"`
			Verbose *bool  `toml:"verbose"`
		} `toml:"apod"`
		Store struct {
			Driver   string `toml:"driver"`
			DSN      string `toml:"dsn"`
			Host     string `toml:"host"`
			Port     string `toml:"port"`
			Username string `toml:"username"`
			DBName   string `toml:"dbname"`
			SSLMode  string `toml:"sslmode"`
		} `toml:"store"`
		Session struct {
			Cookie string `toml:"cookie"`
			MaxAge *int   `toml:"max_age"`
			Secure *bool  `toml:"secure"`
		} `toml:"session"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	setString(&cfg.Port, raw.Port)
	setString(&cfg.Apod.BaseURL, raw.Apod.URL)
	if raw.Apod.Verbose != nil {
		cfg.Apod.Verbose = *raw.Apod.Verbose
	}

	setString(&cfg.Store.Driver, raw.Store.Driver)
	setString(&cfg.Store.DSN, raw.Store.DSN)
	setString(&cfg.Store.Host, raw.Store.Host)
	setString(&cfg.Store.Port, raw.Store.Port)
	setString(&cfg.Store.Username, raw.Store.Username)
	setString(&cfg.Store.DBName, raw.Store.DBName)
	setString(&cfg.Store.SSLMode, raw.Store.SSLMode)

	setString(&cfg.Session.Cookie, raw.Session.Cookie)
	if raw.Session.MaxAge != nil {
		cfg.Session.MaxAge = *raw.Session.MaxAge
	}
	if raw.Session.Secure != nil {
		cfg.Session.Secure = *raw.Session.Secure
	}

	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Port, os.Getenv(consts.EnvPort))
	setString(&cfg.Apod.BaseURL, os.Getenv(consts.EnvApodURL))

	if v := strings.TrimSpace(os.Getenv(consts.EnvVerbose)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", consts.EnvVerbose, err)
		}
		cfg.Apod.Verbose = b
	}

	setString(&cfg.Store.Driver, os.Getenv(consts.EnvStoreDriver))
	setString(&cfg.Store.DSN, os.Getenv(consts.EnvStoreDSN))
	setString(&cfg.Store.Host, os.Getenv("DB_HOST"))
	setString(&cfg.Store.Port, os.Getenv("DB_PORT"))
	setString(&cfg.Store.Username, os.Getenv("DB_USERNAME"))
	setString(&cfg.Store.DBName, os.Getenv("DB_NAME"))
	setString(&cfg.Store.SSLMode, os.Getenv("DB_SSLMODE"))
	setString(&cfg.Store.Password, os.Getenv("DB_PASSWORD"))

	setString(&cfg.Session.Cookie, os.Getenv(consts.EnvSessionCookie))
	if v := strings.TrimSpace(os.Getenv(consts.EnvSessionMaxAge)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", consts.EnvSessionMaxAge, err)
		}
		cfg.Session.MaxAge = n
	}

	if v := strings.TrimSpace(os.Getenv(consts.EnvSessionSecure)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", consts.EnvSessionSecure, err)
		}
		cfg.Session.Secure = b
	}

	switch cfg.Store.Driver {
	case consts.DriverMemory, consts.DriverPostgres, consts.DriverSqlite:
	default:
		return fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	return nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
