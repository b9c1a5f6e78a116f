package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	MongoURI    string
	MongoDBName string

	RedisAddr     string
	RedisPassword string

	KafkaBrokers []string
	KafkaTopic   string

	JWTSecret  string
	SessionTTL time.Duration

	AdminUsername string
	AdminPassword string

	SeedSampleData bool
}

// Load reads configuration from the environment with sane local
// defaults. JWT_SECRET has no default on purpose; the caller decides
// whether to refuse to start without it.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("REQUEST_TIMEOUT", 30*time.Second)
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB_NAME", "storefront")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "storefront.orders")
	v.SetDefault("SESSION_TTL", 24*time.Hour)
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("SEED_SAMPLE_DATA", false)

	var brokers []string
	if raw := v.GetString("KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return &Config{
		HTTPPort:        v.GetString("HTTP_PORT"),
		RequestTimeout:  v.GetDuration("REQUEST_TIMEOUT"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		MongoURI:        v.GetString("MONGO_URI"),
		MongoDBName:     v.GetString("MONGO_DB_NAME"),
		RedisAddr:       v.GetString("REDIS_ADDR"),
		RedisPassword:   v.GetString("REDIS_PASSWORD"),
		KafkaBrokers:    brokers,
		KafkaTopic:      v.GetString("KAFKA_TOPIC"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		SessionTTL:      v.GetDuration("SESSION_TTL"),
		AdminUsername:   v.GetString("ADMIN_USERNAME"),
		AdminPassword:   v.GetString("ADMIN_PASSWORD"),
		SeedSampleData:  v.GetBool("SEED_SAMPLE_DATA"),
	}
}
