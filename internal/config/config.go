package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/nebulaops/backend/internal/domain"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Storage  StorageConfig
	Policy   PolicyConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled       bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	TTLSeconds    int
}

// StorageConfig points at an S3-compatible bucket for backup archives.
// Backups stay local when Endpoint is empty.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// PolicyConfig seeds the replenishment policy row on first run. The live
// values are stored in the database and edited through the API.
type PolicyConfig struct {
	ExchangeRate       float64
	LeadTime           int
	SafetyStock        int
	DeadStockThreshold int
}

// Defaults returns the seed values as a domain settings record.
func (p PolicyConfig) Defaults() domain.PolicySettings {
	return domain.PolicySettings{
		ExchangeRate:       p.ExchangeRate,
		LeadTime:           p.LeadTime,
		SafetyStock:        p.SafetyStock,
		DeadStockThreshold: p.DeadStockThreshold,
	}
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		seed := domain.DefaultPolicySettings()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "nebula")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_TTL_SECONDS", 60)
		viper.SetDefault("BACKUP_S3_ENDPOINT", "")
		viper.SetDefault("BACKUP_S3_ACCESS_KEY", "")
		viper.SetDefault("BACKUP_S3_SECRET_KEY", "")
		viper.SetDefault("BACKUP_S3_BUCKET", "nebula-backups")
		viper.SetDefault("BACKUP_S3_REGION", "us-east-1")
		viper.SetDefault("BACKUP_S3_USE_SSL", true)
		viper.SetDefault("POLICY_EXCHANGE_RATE", seed.ExchangeRate)
		viper.SetDefault("POLICY_LEAD_TIME", seed.LeadTime)
		viper.SetDefault("POLICY_SAFETY_STOCK", seed.SafetyStock)
		viper.SetDefault("POLICY_DEAD_STOCK_THRESHOLD", seed.DeadStockThreshold)

		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:       viper.GetBool("CACHE_ENABLED"),
				RedisHost:     viper.GetString("REDIS_HOST"),
				RedisPort:     viper.GetString("REDIS_PORT"),
				RedisPassword: viper.GetString("REDIS_PASSWORD"),
				RedisDB:       viper.GetInt("REDIS_DB"),
				TTLSeconds:    viper.GetInt("CACHE_TTL_SECONDS"),
			},
			Storage: StorageConfig{
				Endpoint:  viper.GetString("BACKUP_S3_ENDPOINT"),
				AccessKey: viper.GetString("BACKUP_S3_ACCESS_KEY"),
				SecretKey: viper.GetString("BACKUP_S3_SECRET_KEY"),
				Bucket:    viper.GetString("BACKUP_S3_BUCKET"),
				Region:    viper.GetString("BACKUP_S3_REGION"),
				UseSSL:    viper.GetBool("BACKUP_S3_USE_SSL"),
			},
			Policy: PolicyConfig{
				ExchangeRate:       viper.GetFloat64("POLICY_EXCHANGE_RATE"),
				LeadTime:           viper.GetInt("POLICY_LEAD_TIME"),
				SafetyStock:        viper.GetInt("POLICY_SAFETY_STOCK"),
				DeadStockThreshold: viper.GetInt("POLICY_DEAD_STOCK_THRESHOLD"),
			},
		}
	})

	return instance
}
