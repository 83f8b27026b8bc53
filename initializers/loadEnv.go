package initializers

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppConfig struct {
	Env         string
	Port        string
	DBDriver    string
	DBURL       string
	JWTSecret   string
	JWTTTL      time.Duration
	CORSOrigins []string

	CancellationPolicy string

	OTPTTL            time.Duration
	OTPResendCooldown time.Duration
	OTPMaxAttempts    int

	FromEmail         string
	FromEmailPassword string
	FromEmailSMTP     string
	SMTPAddress       string
	LogoURL           string

	S3Bucket string

	RelayDriver   string
	PusherAppID   string
	PusherKey     string
	PusherSecret  string
	PusherCluster string
	PusherHost    string
	PusherScheme  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KafkaBrokers  []string
	KafkaTopic    string

	RateLimitPerMinute int
}

var Config AppConfig

// LoadEnv reads .env when present, then loads Config from the environment.
func LoadEnv() {
	_ = godotenv.Load()
	LoadConfig()
}

func LoadConfig() AppConfig {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "production")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("JWT_TTL", "720h")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("CANCELLATION_POLICY", "immediate")
	v.SetDefault("OTP_TTL", "10m")
	v.SetDefault("OTP_RESEND_COOLDOWN", "60s")
	v.SetDefault("OTP_MAX_ATTEMPTS", 5)
	v.SetDefault("S3_BUCKET", "lawlaw-delights")
	v.SetDefault("RELAY_DRIVER", "log")
	v.SetDefault("PUSHER_SCHEME", "https")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("KAFKA_TOPIC", "lawlaw.user-events")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 20)

	Config = AppConfig{
		Env:                v.GetString("APP_ENV"),
		Port:               v.GetString("PORT"),
		DBDriver:           v.GetString("DB_DRIVER"),
		DBURL:              v.GetString("DB_URL"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTTTL:             v.GetDuration("JWT_TTL"),
		CORSOrigins:        splitCSV(v.GetString("CORS_ORIGINS")),
		CancellationPolicy: v.GetString("CANCELLATION_POLICY"),
		OTPTTL:             v.GetDuration("OTP_TTL"),
		OTPResendCooldown:  v.GetDuration("OTP_RESEND_COOLDOWN"),
		OTPMaxAttempts:     v.GetInt("OTP_MAX_ATTEMPTS"),
		FromEmail:          v.GetString("FROM_EMAIL"),
		FromEmailPassword:  v.GetString("FROM_EMAIL_PASSWORD"),
		FromEmailSMTP:      v.GetString("FROM_EMAIL_SMTP"),
		SMTPAddress:        v.GetString("SMTP_ADDRESS"),
		LogoURL:            v.GetString("LOGO_URL"),
		S3Bucket:           v.GetString("S3_BUCKET"),
		RelayDriver:        strings.ToLower(v.GetString("RELAY_DRIVER")),
		PusherAppID:        v.GetString("PUSHER_APP_ID"),
		PusherKey:          v.GetString("PUSHER_KEY"),
		PusherSecret:       v.GetString("PUSHER_SECRET"),
		PusherCluster:      v.GetString("PUSHER_CLUSTER"),
		PusherHost:         v.GetString("PUSHER_HOST"),
		PusherScheme:       v.GetString("PUSHER_SCHEME"),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		RedisDB:            v.GetInt("REDIS_DB"),
		KafkaBrokers:       splitCSV(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:         v.GetString("KAFKA_TOPIC"),
		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
	}
	return Config
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
