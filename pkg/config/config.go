package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Document store drivers.
const (
	DocStoreNone  = "none"
	DocStoreLocal = "local"
	DocStoreS3    = "s3"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Drafts   DraftsConfig
	Redis    RedisConfig
	Cache    CacheConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	DocStore DocStoreConfig
	Import   ImportConfig
	Submit   SubmitConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	// SourceTable is the system-of-record table batches are queried from.
	SourceTable string
}

// DraftsConfig locates the embedded draft store.
type DraftsConfig struct {
	Path string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig governs caching of base rows and filter options.
type CacheConfig struct {
	Enabled   bool
	RowsTTL   time.Duration
	FilterTTL time.Duration
}

type JWTConfig struct {
	Secret string
	Issuer string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// DocStoreConfig selects where submitted workbooks are uploaded.
type DocStoreConfig struct {
	Driver          string
	RootFolder      string
	UploadTimeout   time.Duration
	LocalDir        string
	PublicBaseURL   string
	SignedURLSecret string
	SignedURLTTL    time.Duration
	S3              S3Config
}

// S3Config configures an S3-compatible bucket.
type S3Config struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
	URLExpiry time.Duration
}

// ImportConfig bounds workbook uploads.
type ImportConfig struct {
	MaxFileSizeBytes int64
}

// SubmitConfig toggles submission safeguards.
type SubmitConfig struct {
	RejectResubmit bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		SourceTable:  v.GetString("DB_SOURCE_TABLE"),
	}

	cfg.Drafts = DraftsConfig{Path: v.GetString("DRAFTS_DB_PATH")}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Cache = CacheConfig{
		Enabled:   v.GetBool("CACHE_ENABLED"),
		RowsTTL:   parseDuration(v.GetString("CACHE_ROWS_TTL"), 30*time.Minute),
		FilterTTL: parseDuration(v.GetString("CACHE_FILTER_TTL"), 10*time.Minute),
	}

	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
		Issuer: v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.DocStore = DocStoreConfig{
		Driver:          strings.ToLower(v.GetString("DOCSTORE_DRIVER")),
		RootFolder:      v.GetString("DOCSTORE_ROOT_FOLDER"),
		UploadTimeout:   parseDuration(v.GetString("DOCSTORE_UPLOAD_TIMEOUT"), 30*time.Second),
		LocalDir:        v.GetString("DOCSTORE_LOCAL_DIR"),
		PublicBaseURL:   v.GetString("DOCSTORE_PUBLIC_BASE_URL"),
		SignedURLSecret: v.GetString("DOCSTORE_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("DOCSTORE_SIGNED_URL_TTL"), 7*24*time.Hour),
		S3: S3Config{
			Endpoint:  v.GetString("DOCSTORE_S3_ENDPOINT"),
			Bucket:    v.GetString("DOCSTORE_S3_BUCKET"),
			AccessKey: v.GetString("DOCSTORE_S3_ACCESS_KEY"),
			SecretKey: v.GetString("DOCSTORE_S3_SECRET_KEY"),
			Region:    v.GetString("DOCSTORE_S3_REGION"),
			UseSSL:    v.GetBool("DOCSTORE_S3_USE_SSL"),
			URLExpiry: parseDuration(v.GetString("DOCSTORE_S3_URL_EXPIRY"), 7*24*time.Hour),
		},
	}

	maxImportSize := v.GetInt64("IMPORT_MAX_FILE_SIZE")
	if maxImportSize <= 0 {
		maxImportSize = 10 * 1024 * 1024
	}
	cfg.Import = ImportConfig{MaxFileSizeBytes: maxImportSize}

	cfg.Submit = SubmitConfig{RejectResubmit: v.GetBool("SUBMIT_REJECT_RESUBMIT")}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "rc_table_editor")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_SOURCE_TABLE", "rc_table")

	v.SetDefault("DRAFTS_DB_PATH", "./data/drafts.db")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("CACHE_ROWS_TTL", "30m")
	v.SetDefault("CACHE_FILTER_TTL", "10m")

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("DOCSTORE_DRIVER", DocStoreNone)
	v.SetDefault("DOCSTORE_ROOT_FOLDER", "RC_Table_Editor")
	v.SetDefault("DOCSTORE_UPLOAD_TIMEOUT", "30s")
	v.SetDefault("DOCSTORE_LOCAL_DIR", "./documents")
	v.SetDefault("DOCSTORE_PUBLIC_BASE_URL", "")
	v.SetDefault("DOCSTORE_SIGNED_URL_SECRET", "dev_documents_secret")
	v.SetDefault("DOCSTORE_SIGNED_URL_TTL", "168h")
	v.SetDefault("DOCSTORE_S3_REGION", "us-east-1")
	v.SetDefault("DOCSTORE_S3_USE_SSL", true)
	v.SetDefault("DOCSTORE_S3_URL_EXPIRY", "168h")

	v.SetDefault("IMPORT_MAX_FILE_SIZE", 10*1024*1024)
	v.SetDefault("SUBMIT_REJECT_RESUBMIT", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
