package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DatabaseSettings struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (d DatabaseSettings) Enabled() bool {
	return d.Host != ""
}

func (d DatabaseSettings) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisSettings struct {
	Mode       string
	Host       string
	Port       string
	Password   string
	MasterName string
	Sentinels  []string
}

func (r RedisSettings) Enabled() bool {
	if r.Mode == "sentinel" {
		return len(r.Sentinels) > 0
	}
	return r.Host != ""
}

type MinioSettings struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func (m MinioSettings) Enabled() bool {
	return m.Endpoint != ""
}

type RateLimitSettings struct {
	Enabled bool
	RPS     float64
	Burst   int
}

type Settings struct {
	Env            string
	Host           string
	Port           string
	LogLevel       string
	CacheTTL       time.Duration
	ExportInterval time.Duration
	CORSOrigins    []string
	RabbitURL      string

	Database  DatabaseSettings
	Redis     RedisSettings
	Minio     MinioSettings
	RateLimit RateLimitSettings
}

func (s Settings) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

// LoadSettings reads .env when present, then the process environment.
// Environment variables win over .env values.
func LoadSettings() (*Settings, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			fmt.Println("Could not load .env file, using environment only")
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("node_env", "development")
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("app_port", "2000")
	v.SetDefault("log_level", "INFO")
	v.SetDefault("cache_ttl", "16h")
	v.SetDefault("export_interval", "1h")
	v.SetDefault("cors_origins", "*")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("redis_mode", "standalone")
	v.SetDefault("redis_port", "6379")
	v.SetDefault("minio_bucket", "filmbase")
	v.SetDefault("rate_limit_enabled", false)
	v.SetDefault("rate_limit_rps", 2)
	v.SetDefault("rate_limit_burst", 4)

	cacheTTL, err := time.ParseDuration(v.GetString("cache_ttl"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	exportInterval, err := time.ParseDuration(v.GetString("export_interval"))
	if err != nil {
		return nil, fmt.Errorf("invalid EXPORT_INTERVAL: %w", err)
	}
	if exportInterval <= 0 {
		return nil, fmt.Errorf("invalid EXPORT_INTERVAL: must be positive, got %s", exportInterval)
	}

	corsOrigins := splitList(v.GetString("cors_origins"))
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}

	return &Settings{
		Env:            v.GetString("node_env"),
		Host:           v.GetString("host"),
		Port:           v.GetString("app_port"),
		LogLevel:       v.GetString("log_level"),
		CacheTTL:       cacheTTL,
		ExportInterval: exportInterval,
		CORSOrigins:    corsOrigins,
		RabbitURL:      v.GetString("rabbitmq_url"),
		Database: DatabaseSettings{
			Host:     v.GetString("db_host"),
			Port:     v.GetString("db_port"),
			User:     v.GetString("db_user"),
			Password: v.GetString("db_pass"),
			Name:     v.GetString("db_name"),
			SSLMode:  v.GetString("db_sslmode"),
		},
		Redis: RedisSettings{
			Mode:       v.GetString("redis_mode"),
			Host:       v.GetString("redis_host"),
			Port:       v.GetString("redis_port"),
			Password:   v.GetString("redis_password"),
			MasterName: v.GetString("redis_master_name"),
			Sentinels:  splitList(v.GetString("redis_sentinels")),
		},
		Minio: MinioSettings{
			Endpoint:  v.GetString("minio_endpoint"),
			AccessKey: v.GetString("minio_access_key"),
			SecretKey: v.GetString("minio_secret_key"),
			Bucket:    v.GetString("minio_bucket"),
			UseSSL:    v.GetBool("minio_use_ssl"),
		},
		RateLimit: RateLimitSettings{
			Enabled: v.GetBool("rate_limit_enabled"),
			RPS:     v.GetFloat64("rate_limit_rps"),
			Burst:   v.GetInt("rate_limit_burst"),
		},
	}, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
