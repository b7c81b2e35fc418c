package config

import (
	"os"
	"strconv"
	"time"

	commoncfg "bekind-internal/internal/common/config"

	"github.com/joho/godotenv"
)

// Gateway 持久化网关类型
const (
	GatewayPostgres = "postgres"
	GatewaySupabase = "supabase"
	GatewayMemory   = "memory"
)

// Config bekind-internal（HTTP API）配置
type Config struct {
	HTTP struct {
		Addr string
	}
	Gateway  string
	Database commoncfg.DatabaseConfig
	Supabase SupabaseConfig
	Redis    commoncfg.RedisConfig
	Session  struct {
		TTL time.Duration
	}
	Log struct {
		Level  string
		Format string
		File   string
	}
	// TimezoneOffset 展示时区偏移（秒），默认 GMT+7
	TimezoneOffset int
	MQTT           MQTTConfig
	Seed           struct {
		AdminPhone string
		AdminName  string
	}
}

// SupabaseConfig 托管数据库（PostgREST）配置
type SupabaseConfig struct {
	URL     string
	AnonKey string
}

// MQTTConfig 客户事件通知配置（默认禁用）
type MQTTConfig struct {
	Enabled bool
	Topic   string
	commoncfg.MQTTConfig
}

// Load 读取 .env（可选）和环境变量
func Load() *Config {
	// .env 不存在时继续使用进程环境变量
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")
	cfg.Gateway = getEnv("GATEWAY", GatewayPostgres)

	cfg.Database = commoncfg.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "bekind",
		SSLMode:  "disable",
		MaxConns: 10,
		MaxIdle:  5,
	}
	cfg.Database.LoadFromEnv("DB")

	cfg.Supabase.URL = getEnv("SUPABASE_URL", "")
	cfg.Supabase.AnonKey = getEnv("SUPABASE_ANON_KEY", "")

	cfg.Redis = commoncfg.RedisConfig{Addr: "localhost:6379"}
	cfg.Redis.LoadFromEnv("REDIS")
	cfg.Session.TTL = time.Duration(parseInt(getEnv("SESSION_TTL", "168"), 168)) * time.Hour

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")
	cfg.Log.File = getEnv("LOG_FILE", "")

	cfg.TimezoneOffset = parseInt(getEnv("TIMEZONE_OFFSET", "25200"), 25200)

	cfg.MQTT.Enabled = getEnv("MQTT_ENABLED", "false") == "true"
	cfg.MQTT.Topic = getEnv("MQTT_TOPIC", "bekind/guests/events")
	cfg.MQTT.Broker = "tcp://localhost:1883"
	cfg.MQTT.ClientID = "bekind-internal"
	cfg.MQTT.QoS = 1
	cfg.MQTT.MQTTConfig.LoadFromEnv("MQTT")

	cfg.Seed.AdminPhone = getEnv("SEED_ADMIN_PHONE", "")
	cfg.Seed.AdminName = getEnv("SEED_ADMIN_NAME", "Quản trị viên")

	return cfg
}

// Location 展示用时区
func (c *Config) Location() *time.Location {
	return time.FixedZone("ICT", c.TimezoneOffset)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
