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
	Site          SiteConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Confirm       ConfirmConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Media         MediaConfig
	Storage       StorageConfig
	Resend        ResendConfig
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
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"REELHOUSE_APP_ENV" required:"true"`
	Port         string `envconfig:"REELHOUSE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"REELHOUSE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"REELHOUSE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// SiteConfig carries the public scheme/domain used when building the
// confirmation links embedded in outbound email.
type SiteConfig struct {
	Scheme string `envconfig:"REELHOUSE_SITE_SCHEME" default:"https"`
	Domain string `envconfig:"REELHOUSE_SITE_DOMAIN" required:"true"`
}

// BaseURL renders scheme://domain with no trailing slash.
func (s SiteConfig) BaseURL() string {
	return fmt.Sprintf("%s://%s", s.Scheme, strings.TrimSuffix(s.Domain, "/"))
}

type DBConfig struct {
	DSN    string `envconfig:"REELHOUSE_DB_DSN"`
	Driver string `envconfig:"REELHOUSE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"REELHOUSE_DB_HOST"`
	LegacyPort     int    `envconfig:"REELHOUSE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"REELHOUSE_DB_USER"`
	LegacyPassword string `envconfig:"REELHOUSE_DB_PASSWORD"`
	LegacyName     string `envconfig:"REELHOUSE_DB_NAME"`
	LegacySSLMode  string `envconfig:"REELHOUSE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"REELHOUSE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"REELHOUSE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"REELHOUSE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"REELHOUSE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"REELHOUSE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"REELHOUSE_REDIS_ADDR"`
	Password     string        `envconfig:"REELHOUSE_REDIS_PASSWORD"`
	DB           int           `envconfig:"REELHOUSE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"REELHOUSE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"REELHOUSE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"REELHOUSE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REELHOUSE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"REELHOUSE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"REELHOUSE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"REELHOUSE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"REELHOUSE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"REELHOUSE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

// ConfirmConfig parameterizes the purpose-scoped confirmation tokens used by
// the account lifecycle (activation, email change). The secret is deliberately
// separate from the access-token secret.
type ConfirmConfig struct {
	Secret         string        `envconfig:"REELHOUSE_CONFIRM_SECRET" required:"true"`
	ActivateTTL    time.Duration `envconfig:"REELHOUSE_CONFIRM_ACTIVATE_TTL" default:"72h"`
	EmailChangeTTL time.Duration `envconfig:"REELHOUSE_CONFIRM_EMAIL_CHANGE_TTL" default:"24h"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"REELHOUSE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"REELHOUSE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"REELHOUSE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"REELHOUSE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"REELHOUSE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"REELHOUSE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"REELHOUSE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"REELHOUSE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"REELHOUSE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"REELHOUSE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"REELHOUSE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"REELHOUSE_MAX_UPLOAD_MB" default:"200"`
}

// MaxUploadBytes converts the configured megabyte cap.
func (m MediaConfig) MaxUploadBytes() int64 {
	return int64(m.MaxUploadMB) * 1024 * 1024
}

// StorageConfig points the object store at a filesystem root and the base URL
// movies are served from.
type StorageConfig struct {
	Root          string `envconfig:"REELHOUSE_STORAGE_ROOT" default:"./data/media"`
	PublicBaseURL string `envconfig:"REELHOUSE_STORAGE_PUBLIC_BASE_URL" required:"true"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"REELHOUSE_AUTO_MIGRATE" default:"false"`
}

type ResendConfig struct {
	APIKey      string `envconfig:"REELHOUSE_RESEND_API_KEY"`
	DefaultFrom string `envconfig:"REELHOUSE_RESEND_FROM_EMAIL" default:"no-reply@reelhouse.io"`
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
