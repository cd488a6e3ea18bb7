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

// Store drivers accepted by STORE_DRIVER.
const (
	StoreDriverFile     = "file"
	StoreDriverMemory   = "memory"
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"
	StoreDriverRedis    = "redis"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Store     StoreConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Director  DirectorConfig
	AI        AIConfig
	CORS      CORSConfig
	Log       LogConfig
	Dashboard DashboardConfig
	Finance   FinanceConfig
	Locale    LocaleConfig
}

// StoreConfig selects the key-value backend that persists CRM collections.
type StoreConfig struct {
	Driver     string
	Dir        string
	SQLitePath string
	SeedDemo   bool
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
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// DirectorConfig holds the fixed privileged credential. It is never written to the staff collection.
type DirectorConfig struct {
	Email string
	Code  string
	Name  string
}

// AIConfig points the assistant at an OpenAI-compatible completion endpoint.
type AIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// DashboardConfig governs dashboard cache tuning.
type DashboardConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// FinanceConfig tunes the outstanding-payment estimate.
type FinanceConfig struct {
	PendingFee float64
}

// LocaleConfig sets the fallback UI language.
type LocaleConfig struct {
	DefaultLanguage string
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
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Store = StoreConfig{
		Driver:     strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),
		Dir:        v.GetString("STORE_DIR"),
		SQLitePath: v.GetString("SQLITE_PATH"),
		SeedDemo:   v.GetBool("STORE_SEED_DEMO"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 12*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.Director = DirectorConfig{
		Email: strings.TrimSpace(v.GetString("DIRECTOR_EMAIL")),
		Code:  v.GetString("DIRECTOR_CODE"),
		Name:  v.GetString("DIRECTOR_NAME"),
	}

	cfg.AI = AIConfig{
		APIKey:      v.GetString("AI_API_KEY"),
		BaseURL:     v.GetString("AI_BASE_URL"),
		Model:       v.GetString("AI_MODEL"),
		Temperature: v.GetFloat64("AI_TEMPERATURE"),
		Timeout:     parseDuration(v.GetString("AI_TIMEOUT"), 30*time.Second),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Dashboard = DashboardConfig{
		CacheEnabled: v.GetBool("ENABLE_DASHBOARD_CACHE"),
		CacheTTL:     parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), 5*time.Minute),
	}

	fee := v.GetFloat64("FINANCE_PENDING_FEE")
	if fee < 0 {
		fee = 0
	}
	cfg.Finance = FinanceConfig{PendingFee: fee}

	cfg.Locale = LocaleConfig{DefaultLanguage: v.GetString("DEFAULT_LANGUAGE")}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("STORE_DRIVER", StoreDriverFile)
	v.SetDefault("STORE_DIR", "./data")
	v.SetDefault("SQLITE_PATH", "./data/crm.db")
	v.SetDefault("STORE_SEED_DEMO", false)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "training_crm")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "12h")
	v.SetDefault("JWT_ISSUER", "training-crm-api")

	v.SetDefault("DIRECTOR_EMAIL", "director@example.com")
	v.SetDefault("DIRECTOR_CODE", "0000")
	v.SetDefault("DIRECTOR_NAME", "Director")

	v.SetDefault("AI_API_KEY", "")
	v.SetDefault("AI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/")
	v.SetDefault("AI_MODEL", "gemini-2.0-flash")
	v.SetDefault("AI_TEMPERATURE", 0.7)
	v.SetDefault("AI_TIMEOUT", "30s")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_DASHBOARD_CACHE", false)
	v.SetDefault("DASHBOARD_CACHE_TTL", "5m")

	v.SetDefault("FINANCE_PENDING_FEE", 15000)
	v.SetDefault("DEFAULT_LANGUAGE", "ky")
}

// viper reports an explicit SetConfigFile path that does not exist as a plain fs error.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
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
