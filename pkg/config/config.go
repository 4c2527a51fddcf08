package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Razorpay     RazorpayConfig
	Checkout     CheckoutConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BHARATSHAALA_APP_ENV" required:"true"`
	Port         string `envconfig:"BHARATSHAALA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BHARATSHAALA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BHARATSHAALA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BHARATSHAALA_DB_DSN"`
	Driver string `envconfig:"BHARATSHAALA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BHARATSHAALA_DB_HOST"`
	LegacyPort     int    `envconfig:"BHARATSHAALA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BHARATSHAALA_DB_USER"`
	LegacyPassword string `envconfig:"BHARATSHAALA_DB_PASSWORD"`
	LegacyName     string `envconfig:"BHARATSHAALA_DB_NAME"`
	LegacySSLMode  string `envconfig:"BHARATSHAALA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BHARATSHAALA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BHARATSHAALA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BHARATSHAALA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BHARATSHAALA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BHARATSHAALA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BHARATSHAALA_REDIS_ADDR"`
	Password     string        `envconfig:"BHARATSHAALA_REDIS_PASSWORD"`
	DB           int           `envconfig:"BHARATSHAALA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BHARATSHAALA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BHARATSHAALA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BHARATSHAALA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BHARATSHAALA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BHARATSHAALA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BHARATSHAALA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BHARATSHAALA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BHARATSHAALA_JWT_EXPIRATION_MINUTES" required:"true"`
}

type RazorpayConfig struct {
	KeyID     string        `envconfig:"BHARATSHAALA_RAZORPAY_KEY_ID" required:"true"`
	KeySecret string        `envconfig:"BHARATSHAALA_RAZORPAY_KEY_SECRET" required:"true"`
	BaseURL   string        `envconfig:"BHARATSHAALA_RAZORPAY_BASE_URL" default:"https://api.razorpay.com"`
	Timeout   time.Duration `envconfig:"BHARATSHAALA_RAZORPAY_TIMEOUT" default:"10s"`
}

type CheckoutConfig struct {
	ShippingCost int64  `envconfig:"BHARATSHAALA_SHIPPING_COST" default:"100"`
	Currency     string `envconfig:"BHARATSHAALA_CURRENCY" default:"INR"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BHARATSHAALA_AUTO_MIGRATE" default:"false"`
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
