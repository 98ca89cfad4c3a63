// Package config loads application configuration from an optional config.yml,
// an optional .env file and the environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Store drivers accepted in DB_DRIVER.
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

const minSecretLength = 16

// Config holds the resolved settings. It is built once at startup and passed
// by value; nothing reads the environment after Load returns.
type Config struct {
	Port              int           `mapstructure:"PORT"`
	DBDriver          string        `mapstructure:"DB_DRIVER"`
	MongoURI          string        `mapstructure:"MONGO_URI"`
	MongoDatabase     string        `mapstructure:"MONGO_DATABASE"`
	SQLitePath        string        `mapstructure:"SQLITE_PATH"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	TokenTTL          time.Duration `mapstructure:"TOKEN_TTL"`
	BcryptCost        int           `mapstructure:"BCRYPT_COST"`
	Admin1            string        `mapstructure:"ADMIN1"`
	Admin2            string        `mapstructure:"ADMIN2"`
	PincodeAPIURL     string        `mapstructure:"PINCODE_API_URL"`
	PincodeAPITimeout time.Duration `mapstructure:"PINCODE_API_TIMEOUT"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
}

var defaults = map[string]any{
	"PORT":                5000,
	"DB_DRIVER":           DriverMongo,
	"MONGO_URI":           "",
	"MONGO_DATABASE":      "donation_hub",
	"SQLITE_PATH":         "data/donation-hub.db",
	"JWT_SECRET":          "",
	"TOKEN_TTL":           "100h",
	"BCRYPT_COST":         bcrypt.DefaultCost,
	"ADMIN1":              "",
	"ADMIN2":              "",
	"PINCODE_API_URL":     "https://api.postalpincode.in/pincode",
	"PINCODE_API_TIMEOUT": "10s",
	"LOG_LEVEL":           "info",
}

// Load resolves the configuration and validates it.
func Load() (Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Defaults also register every key, which AutomaticEnv needs for
	// Unmarshal to see values that only exist in the environment.
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	var cfg Config
	hooks := mapstructure.ComposeDecodeHookFunc(
		secondsOrDurationHook(),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := v.Unmarshal(&cfg, viper.DecodeHook(hooks)); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// secondsOrDurationHook decodes duration settings. A bare integer is a number
// of seconds ("360000"); anything else must be a Go duration ("100h", "10s").
func secondsOrDurationHook() mapstructure.DecodeHookFuncType {
	durationType := reflect.TypeOf(time.Duration(0))
	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to != durationType {
			return data, nil
		}
		switch d := data.(type) {
		case string:
			s := strings.TrimSpace(d)
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return time.Duration(n) * time.Second, nil
			}
			return time.ParseDuration(s)
		case int:
			return time.Duration(d) * time.Second, nil
		case int64:
			return time.Duration(d) * time.Second, nil
		}
		return data, nil
	}
}

// Validate checks the settings the server cannot start without.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT %d out of range", c.Port)
	}
	if len(c.JWTSecret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLength)
	}
	switch c.DBDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is required when DB_DRIVER is mongo")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required when DB_DRIVER is sqlite")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	if len(c.AdminEmails()) == 0 {
		return errors.New("at least one of ADMIN1, ADMIN2 is required")
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST %d out of range [%d, %d]", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.PincodeAPIURL == "" {
		return errors.New("PINCODE_API_URL is required")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// AdminEmails returns the configured, non-empty admin addresses.
func (c Config) AdminEmails() []string {
	var out []string
	for _, e := range []string{c.Admin1, c.Admin2} {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}

// ParseLevel maps LOG_LEVEL to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}
