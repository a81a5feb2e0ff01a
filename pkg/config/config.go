package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	EnvPrefix = "ECOELITE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv        = "ECOELITE_APP_ENV"
	EnvPort          = "ECOELITE_APP_PORT"
	EnvTimeZone      = "ECOELITE_APP_TIMEZONE"
	EnvDBDSN         = "ECOELITE_DB_DSN"
	EnvDBHost        = "ECOELITE_DB_HOST"
	EnvDBUser        = "ECOELITE_DB_USER"
	EnvDBName        = "ECOELITE_DB_NAME"
	EnvRedisURL      = "ECOELITE_REDIS_URL"
	EnvJWTSecret     = "ECOELITE_JWT_SECRET"
	EnvJWTIssuer     = "ECOELITE_JWT_ISSUER"
	EnvJWTExpMins    = "ECOELITE_JWT_EXPIRATION_MINUTES"
	EnvFlatPrice     = "ECOELITE_ORDER_FLAT_PRICE"
	EnvOrderAttempts = "ECOELITE_ORDER_NUMBER_ATTEMPTS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Booking       BookingConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.App.Location(); err != nil {
		return nil, err
	}
	if _, err := cfg.Booking.Price(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ECOELITE_APP_ENV" required:"true"`
	Port         string `envconfig:"ECOELITE_APP_PORT" required:"true"`
	TimeZone     string `envconfig:"ECOELITE_APP_TIMEZONE" default:"UTC"`
	LogLevel     string `envconfig:"ECOELITE_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"ECOELITE_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"ECOELITE_LOG_WARN_STACK" default:"false"`

	CORSAllowedOrigins []string `envconfig:"ECOELITE_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// Location resolves the business time zone used for "today" checks.
func (a AppConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(a.TimeZone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", EnvTimeZone, name, err)
	}
	return loc, nil
}

type DBConfig struct {
	DSN string `envconfig:"ECOELITE_DB_DSN"`

	LegacyHost     string `envconfig:"ECOELITE_DB_HOST"`
	LegacyPort     int    `envconfig:"ECOELITE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ECOELITE_DB_USER"`
	LegacyPassword string `envconfig:"ECOELITE_DB_PASSWORD"`
	LegacyName     string `envconfig:"ECOELITE_DB_NAME"`
	LegacySSLMode  string `envconfig:"ECOELITE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ECOELITE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ECOELITE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ECOELITE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ECOELITE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ECOELITE_REDIS_URL"`
	Address      string        `envconfig:"ECOELITE_REDIS_ADDR"`
	Password     string        `envconfig:"ECOELITE_REDIS_PASSWORD"`
	DB           int           `envconfig:"ECOELITE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ECOELITE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ECOELITE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ECOELITE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ECOELITE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ECOELITE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"ECOELITE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"ECOELITE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"ECOELITE_JWT_EXPIRATION_MINUTES" default:"1440"`
	CookieSecure      bool   `envconfig:"ECOELITE_SESSION_COOKIE_SECURE" default:"true"`
}

// SessionTTL mirrors the access token lifetime; the session record expires with the token.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ECOELITE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ECOELITE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ECOELITE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ECOELITE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ECOELITE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"ECOELITE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"ECOELITE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"ECOELITE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"ECOELITE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"ECOELITE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"ECOELITE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type BookingConfig struct {
	FlatPrice      string `envconfig:"ECOELITE_ORDER_FLAT_PRICE" default:"15000.00"`
	NumberAttempts int    `envconfig:"ECOELITE_ORDER_NUMBER_ATTEMPTS" default:"3"`
}

// Price parses the flat order price; it must be strictly positive.
func (b BookingConfig) Price() (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(b.FlatPrice))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", EnvFlatPrice, b.FlatPrice, err)
	}
	if !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%s must be positive, got %s", EnvFlatPrice, price)
	}
	return price.Round(2), nil
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ECOELITE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
