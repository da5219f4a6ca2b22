package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	SheetStore    SheetStoreConfig
	Worker        WorkerConfig
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
	Env          string `envconfig:"CAREBOOK_APP_ENV" required:"true"`
	Port         string `envconfig:"CAREBOOK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CAREBOOK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CAREBOOK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CAREBOOK_DB_DSN"`
	Driver string `envconfig:"CAREBOOK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CAREBOOK_DB_HOST"`
	LegacyPort     int    `envconfig:"CAREBOOK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CAREBOOK_DB_USER"`
	LegacyPassword string `envconfig:"CAREBOOK_DB_PASSWORD"`
	LegacyName     string `envconfig:"CAREBOOK_DB_NAME"`
	LegacySSLMode  string `envconfig:"CAREBOOK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CAREBOOK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CAREBOOK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CAREBOOK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CAREBOOK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CAREBOOK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CAREBOOK_REDIS_ADDR"`
	Password     string        `envconfig:"CAREBOOK_REDIS_PASSWORD"`
	DB           int           `envconfig:"CAREBOOK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CAREBOOK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CAREBOOK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CAREBOOK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CAREBOOK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CAREBOOK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"CAREBOOK_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"CAREBOOK_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"CAREBOOK_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"CAREBOOK_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CAREBOOK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CAREBOOK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CAREBOOK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CAREBOOK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CAREBOOK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"CAREBOOK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginPhoneLimit    int           `envconfig:"CAREBOOK_AUTH_RATE_LIMIT_LOGIN_PHONE_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"CAREBOOK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"CAREBOOK_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterPhoneLimit int           `envconfig:"CAREBOOK_AUTH_RATE_LIMIT_REGISTER_PHONE_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"CAREBOOK_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CAREBOOK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CAREBOOK_AUTO_MIGRATE" default:"false"`
}

// SheetStoreConfig points at the legacy spreadsheet-style datastore the
// original deployment kept member and booking state in. Only the import
// job talks to it.
type SheetStoreConfig struct {
	BaseURL        string        `envconfig:"CAREBOOK_SHEETSTORE_BASE_URL"`
	APIKey         string        `envconfig:"CAREBOOK_SHEETSTORE_API_KEY"`
	RequestTimeout time.Duration `envconfig:"CAREBOOK_SHEETSTORE_REQUEST_TIMEOUT" default:"10s"`
}

func (s SheetStoreConfig) Enabled() bool {
	return strings.TrimSpace(s.BaseURL) != ""
}

type WorkerConfig struct {
	MetricsPort         string        `envconfig:"CAREBOOK_WORKER_METRICS_PORT" default:"9090"`
	BalanceAuditEvery   time.Duration `envconfig:"CAREBOOK_WORKER_BALANCE_AUDIT_EVERY" default:"1h"`
	SheetSyncEvery      time.Duration `envconfig:"CAREBOOK_WORKER_SHEET_SYNC_EVERY" default:"6h"`
	JobLockTTL          time.Duration `envconfig:"CAREBOOK_WORKER_JOB_LOCK_TTL" default:"10m"`
	ShutdownGracePeriod time.Duration `envconfig:"CAREBOOK_WORKER_SHUTDOWN_GRACE" default:"15s"`
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
