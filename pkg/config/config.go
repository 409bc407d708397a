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
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Inventory    InventoryConfig
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
	Env          string `envconfig:"BRIGHTVOLT_APP_ENV" required:"true"`
	Port         string `envconfig:"BRIGHTVOLT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BRIGHTVOLT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BRIGHTVOLT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"BRIGHTVOLT_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"BRIGHTVOLT_DB_DSN"`
	Driver string `envconfig:"BRIGHTVOLT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BRIGHTVOLT_DB_HOST"`
	LegacyPort     int    `envconfig:"BRIGHTVOLT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BRIGHTVOLT_DB_USER"`
	LegacyPassword string `envconfig:"BRIGHTVOLT_DB_PASSWORD"`
	LegacyName     string `envconfig:"BRIGHTVOLT_DB_NAME"`
	LegacySSLMode  string `envconfig:"BRIGHTVOLT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BRIGHTVOLT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BRIGHTVOLT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BRIGHTVOLT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BRIGHTVOLT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BRIGHTVOLT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BRIGHTVOLT_REDIS_ADDR"`
	Password     string        `envconfig:"BRIGHTVOLT_REDIS_PASSWORD"`
	DB           int           `envconfig:"BRIGHTVOLT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BRIGHTVOLT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BRIGHTVOLT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BRIGHTVOLT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BRIGHTVOLT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BRIGHTVOLT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BRIGHTVOLT_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BRIGHTVOLT_AUTO_MIGRATE" default:"false"`
}

// InventoryConfig tunes the stock-accounting subsystem.
type InventoryConfig struct {
	ReconcileInterval time.Duration `envconfig:"BRIGHTVOLT_INVENTORY_RECONCILE_INTERVAL" default:"10m"`
	ReconcileBatch    int           `envconfig:"BRIGHTVOLT_INVENTORY_RECONCILE_BATCH" default:"500"`
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
