package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Mail      MailConfig
	Storage   StorageConfig
	Admin     AdminConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	WSPort      string
	LogLevel    string
	PublicURL   string
}

func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Environment, "production")
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration

	MigrationsDir string
}

// DSN renders the keyword/value connection string understood by pgx.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		strings.TrimSpace(d.DBHost),
		strings.TrimSpace(d.DBPort),
		strings.TrimSpace(d.DBUser),
		d.DBPassword,
		strings.TrimSpace(d.DBName),
		strings.TrimSpace(d.DBSSLMode),
	)
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled is false when no Redis address is configured; callers then bypass
// caching and fall back to in-process rate limiting.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.Addr) != ""
}

type MailConfig struct {
	Transport string
	From      string
	APIURL    string
	APIKey    string
	Timeout   time.Duration
	Workers   int
	PerSecond float64

	GmailCredentialsFile string
	GmailTokenFile       string
}

type StorageConfig struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
	MaxUploadSize int64
}

func (s StorageConfig) Enabled() bool {
	return strings.TrimSpace(s.Bucket) != ""
}

type AdminConfig struct {
	Email    string
	Password string
}

type RateLimitConfig struct {
	ApplyPerMinute   int
	RespondPerMinute int
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

// LoadDotEnv loads the given .env files (default ".env") into the process
// environment. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return errors.Wrapf(err, "load %s", p)
		}
	}
	return nil
}

// NewViper returns a viper instance reading the environment with defaults applied.
func NewViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "jobhub")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("WS_PORT", "8081")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_CONNECT_TIMEOUT", "5s")
	v.SetDefault("DB_POOL_MAX_CONNS", 10)
	v.SetDefault("DB_POOL_MIN_CONNS", 1)
	v.SetDefault("DB_POOL_MAX_CONN_LIFETIME", "1h")
	v.SetDefault("DB_POOL_MAX_CONN_IDLE_TIME", "30m")
	v.SetDefault("DB_POOL_HEALTH_CHECK_PERIOD", "1m")
	v.SetDefault("MIGRATIONS_DIR", "migrations")

	v.SetDefault("JWT_ACCESS_EXPIRES_IN", "15m")
	v.SetDefault("JWT_REFRESH_EXPIRES_IN", "168h")

	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_TTL", "10m")

	v.SetDefault("MAIL_TRANSPORT", "log")
	v.SetDefault("MAIL_FROM", "no-reply@jobhub.local")
	v.SetDefault("MAIL_TIMEOUT", "10s")
	v.SetDefault("MAIL_WORKERS", 4)
	v.SetDefault("MAIL_PER_SECOND", 5)
	v.SetDefault("GMAIL_CREDENTIALS_FILE", "credential.json")
	v.SetDefault("GMAIL_TOKEN_FILE", "token.json")

	v.SetDefault("S3_REGION", "ap-southeast-1")
	v.SetDefault("UPLOAD_MAX_BYTES", 5<<20)

	v.SetDefault("RATE_LIMIT_APPLY_PER_MINUTE", 10)
	v.SetDefault("RATE_LIMIT_RESPOND_PER_MINUTE", 20)
}

func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = NewViper()
	}
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		s := strings.TrimSpace(v.GetString(key))
		if s == "" {
			missing = append(missing, key)
		}
		return s
	}
	opt := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
		WSPort:      opt("WS_PORT"),
		LogLevel:    opt("LOG_LEVEL"),
		PublicURL:   opt("APP_PUBLIC_URL"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:                req("DB_HOST"),
		DBPort:                req("DB_PORT"),
		DBName:                req("DB_NAME"),
		DBUser:                req("DB_USER"),
		DBPassword:            opt("DB_PASSWORD"),
		DBSSLMode:             opt("DB_SSL_MODE"),
		ConnectTimeout:        v.GetDuration("DB_CONNECT_TIMEOUT"),
		PoolMaxConns:          v.GetInt32("DB_POOL_MAX_CONNS"),
		PoolMinConns:          v.GetInt32("DB_POOL_MIN_CONNS"),
		PoolMaxConnLifetime:   v.GetDuration("DB_POOL_MAX_CONN_LIFETIME"),
		PoolMaxConnIdleTime:   v.GetDuration("DB_POOL_MAX_CONN_IDLE_TIME"),
		PoolHealthCheckPeriod: v.GetDuration("DB_POOL_HEALTH_CHECK_PERIOD"),
		MigrationsDir:         opt("MIGRATIONS_DIR"),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  v.GetDuration("JWT_ACCESS_EXPIRES_IN"),
		RefreshExpiresIn: v.GetDuration("JWT_REFRESH_EXPIRES_IN"),
	}

	cfg.Redis = RedisConfig{
		Addr:     opt("REDIS_ADDR"),
		Password: opt("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
		TTL:      v.GetDuration("REDIS_TTL"),
	}

	cfg.Mail = MailConfig{
		Transport:            strings.ToLower(opt("MAIL_TRANSPORT")),
		From:                 opt("MAIL_FROM"),
		APIURL:               opt("MAIL_API_URL"),
		APIKey:               opt("MAIL_API_KEY"),
		Timeout:              v.GetDuration("MAIL_TIMEOUT"),
		Workers:              v.GetInt("MAIL_WORKERS"),
		PerSecond:            v.GetFloat64("MAIL_PER_SECOND"),
		GmailCredentialsFile: opt("GMAIL_CREDENTIALS_FILE"),
		GmailTokenFile:       opt("GMAIL_TOKEN_FILE"),
	}
	if cfg.Mail.Transport == "http" {
		cfg.Mail.APIURL = req("MAIL_API_URL")
		cfg.Mail.APIKey = req("MAIL_API_KEY")
	}

	cfg.Storage = StorageConfig{
		Endpoint:      opt("S3_ENDPOINT"),
		Region:        opt("S3_REGION"),
		Bucket:        opt("S3_BUCKET"),
		AccessKey:     opt("S3_ACCESS_KEY"),
		SecretKey:     opt("S3_SECRET_KEY"),
		PublicBaseURL: opt("S3_PUBLIC_BASE_URL"),
		MaxUploadSize: v.GetInt64("UPLOAD_MAX_BYTES"),
	}

	cfg.Admin = AdminConfig{
		Email:    opt("ADMIN_EMAIL"),
		Password: opt("ADMIN_PASSWORD"),
	}

	cfg.RateLimit = RateLimitConfig{
		ApplyPerMinute:   v.GetInt("RATE_LIMIT_APPLY_PER_MINUTE"),
		RespondPerMinute: v.GetInt("RATE_LIMIT_RESPOND_PER_MINUTE"),
	}

	if len(missing) > 0 {
		return Config{}, errors.Wrap(errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}
