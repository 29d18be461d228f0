package credentials

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/joho/godotenv"
)

// Config is the process configuration read from the environment
type Config struct {
	Port        int           `env:"PORT" envDefault:"8000" json:"port"`
	JWTSecret   string        `env:"JWT_SECRET" json:"-"`
	JWTTTL      time.Duration `env:"JWT_TTL" envDefault:"24h" json:"jwt_ttl"`
	JWTIssuer   string        `env:"JWT_ISSUER" json:"jwt_issuer,omitempty"`
	JWTAudience []string      `env:"JWT_AUDIENCE" envSeparator:"," json:"jwt_audience,omitempty"`
	DBDriver    Driver        `env:"DB_DRIVER" envDefault:"sqlite" json:"db_driver"`
	DatabaseURL string        `env:"DATABASE_URL" envDefault:"file:credentials.db" json:"-"`
	UseHashid   bool          `env:"USE_HASHID" json:"use_hashid"`
	Debug       bool          `env:"DEBUG" json:"debug"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info" json:"log_level"`
}

// LoadConfig seeds the environment from the given .env files, when they
// exist, and parses it into a validated Config.
func LoadConfig(envFiles ...string) (Config, error) {
	var cfg Config

	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load env file: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate will run validation rules. A missing signing key is reported as ErrMissingSigningKey.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingSigningKey
	}

	return validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.JWTTTL, validation.Min(time.Duration(0))),
		validation.Field(&c.DBDriver, validation.Required, validation.In(DriverSQLite, DriverPostgres)),
		validation.Field(&c.DatabaseURL, validation.Required),
	)
}

// Address is the listen address for the HTTP server
func (c Config) Address() string {
	return ":" + strconv.Itoa(c.Port)
}

// TokenServiceOptions maps the token settings onto TokenService options
func (c Config) TokenServiceOptions() []TokenServiceOption {
	opts := []TokenServiceOption{WithTokenTTL(c.JWTTTL)}
	if c.JWTIssuer != "" {
		opts = append(opts, WithTokenIssuer(c.JWTIssuer))
	}
	if len(c.JWTAudience) > 0 {
		opts = append(opts, WithTokenAudience(c.JWTAudience...))
	}
	return opts
}
