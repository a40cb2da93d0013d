package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"

	MediaDriverBlob       = "blob"
	MediaDriverCloudinary = "cloudinary"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Media    MediaConfig
	Log      LogConfig
	Limits   LimitsConfig
}

type AppConfig struct {
	AppName     string `validate:"required"`
	Environment string `validate:"required"`
	HTTPPort    string `validate:"required"`
}

type DatabaseConfig struct {
	Driver string `validate:"oneof=mongo postgres"`

	MongoURI      string `validate:"required_if=Driver mongo"`
	MongoDatabase string `validate:"required_if=Driver mongo"`

	DBHost        string `validate:"required_if=Driver postgres"`
	DBPort        string `validate:"required_if=Driver postgres"`
	DBName        string `validate:"required_if=Driver postgres"`
	DBUser        string `validate:"required_if=Driver postgres"`
	DBPassword    string
	DBSSLMode     string
	RunMigrations bool

	ConnectTimeout time.Duration
	PoolMaxConns   int32
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

type JWTConfig struct {
	AccessSecret    string        `validate:"required"`
	AccessExpiresIn time.Duration `validate:"gt=0"`
}

type MediaConfig struct {
	Driver        string `validate:"oneof=blob cloudinary"`
	BucketURL     string `validate:"required_if=Driver blob"`
	PublicBaseURL string `validate:"required_if=Driver blob"`
	CloudinaryURL string `validate:"required_if=Driver cloudinary"`
	FetchTimeout  time.Duration
}

type LogConfig struct {
	Level        string
	Folder       string
	InstanceName string
}

type LimitsConfig struct {
	ProfileUpdates      int
	ProfileUpdateWindow time.Duration
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

// Load reads .env files when present, then the environment.
func Load() (Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, def string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     opt("APP_NAME", "linkup"),
		Environment: opt("APP_ENV", "development"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Database = DatabaseConfig{
		Driver:         strings.ToLower(opt("DB_DRIVER", DriverMongo)),
		MongoURI:       opt("MONGO_URI", ""),
		MongoDatabase:  opt("MONGO_DATABASE", "linkup"),
		DBHost:         opt("DB_HOST", ""),
		DBPort:         opt("DB_PORT", "5432"),
		DBName:         opt("DB_NAME", ""),
		DBUser:         opt("DB_USER", ""),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBSSLMode:      opt("DB_SSL_MODE", "disable"),
		RunMigrations:  parseBool(opt("DB_RUN_MIGRATIONS", "false")),
		ConnectTimeout: parseDuration(opt("DB_CONNECT_TIMEOUT", ""), 5*time.Second),
		PoolMaxConns:   int32(parseInt(opt("DB_POOL_MAX_CONNS", ""), 0)),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST", "localhost"),
		Port:     opt("REDIS_PORT", "6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:    req("JWT_ACCESS_SECRET"),
		AccessExpiresIn: parseDuration(opt("JWT_ACCESS_EXPIRES_IN", ""), 15*time.Minute),
	}

	cfg.Media = MediaConfig{
		Driver:        strings.ToLower(opt("MEDIA_DRIVER", MediaDriverBlob)),
		BucketURL:     opt("MEDIA_BUCKET_URL", ""),
		PublicBaseURL: strings.TrimRight(opt("MEDIA_PUBLIC_BASE_URL", ""), "/"),
		CloudinaryURL: opt("CLOUDINARY_URL", ""),
		FetchTimeout:  parseDuration(opt("MEDIA_FETCH_TIMEOUT", ""), 10*time.Second),
	}

	cfg.Log = LogConfig{
		Level:        opt("LOG_LEVEL", "info"),
		Folder:       opt("LOG_FOLDER", ""),
		InstanceName: opt("INSTANCE_NAME", ""),
	}

	cfg.Limits = LimitsConfig{
		ProfileUpdates:      parseInt(opt("PROFILE_UPDATE_LIMIT", ""), 30),
		ProfileUpdateWindow: parseDuration(opt("PROFILE_UPDATE_WINDOW", ""), time.Minute),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// parseDuration accepts Go durations ("15m") or plain seconds ("900").
func parseDuration(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}

func parseInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func parseBool(raw string) bool {
	b, err := strconv.ParseBool(raw)
	return err == nil && b
}
