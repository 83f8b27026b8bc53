package initializers

import (
	"context"
	"fmt"
	"time"

	"github.com/Kariqs/lawlaw-api/relay"
	"github.com/Kariqs/lawlaw-api/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	Relay  relay.Publisher = relay.LogPublisher{}
	Redis  *redis.Client
	Mailer utils.Mailer
)

// NewRelay builds the publisher named by cfg.RelayDriver.
func NewRelay(cfg AppConfig, rdb *redis.Client) (relay.Publisher, error) {
	switch cfg.RelayDriver {
	case "", "log":
		return relay.LogPublisher{}, nil
	case "pusher":
		return relay.NewPusherPublisher(relay.PusherConfig{
			AppID:   cfg.PusherAppID,
			Key:     cfg.PusherKey,
			Secret:  cfg.PusherSecret,
			Cluster: cfg.PusherCluster,
			Host:    cfg.PusherHost,
			Scheme:  cfg.PusherScheme,
		})
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("redis relay requires REDIS_ADDR")
		}
		return relay.NewRedisPublisher(rdb), nil
	case "kafka":
		return relay.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	}
	return nil, fmt.Errorf("unknown RELAY_DRIVER %q", cfg.RelayDriver)
}

// ConnectRedis is optional: without REDIS_ADDR rate limiting is off and the redis relay is unavailable.
func ConnectRedis() {
	if Config.RedisAddr == "" {
		return
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     Config.RedisAddr,
		Password: Config.RedisPassword,
		DB:       Config.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		zap.L().Warn("redis unreachable, continuing without it", zap.String("addr", Config.RedisAddr), zap.Error(err))
		_ = rdb.Close()
		return
	}
	Redis = rdb
}

// ConnectRelay falls back to the log publisher when the configured relay
// cannot be built; clients then rely on manual refresh.
func ConnectRelay() {
	publisher, err := NewRelay(Config, Redis)
	if err != nil {
		zap.L().Warn("relay unavailable, falling back to log publisher", zap.String("driver", Config.RelayDriver), zap.Error(err))
		publisher = relay.LogPublisher{}
	}
	Relay = publisher
}

func InitMailer() {
	Mailer = utils.SMTPMailer{
		From:     Config.FromEmail,
		Password: Config.FromEmailPassword,
		Host:     Config.FromEmailSMTP,
		Addr:     Config.SMTPAddress,
	}
}

var Storage utils.Uploader

// ConnectStorage leaves Storage nil when AWS credentials cannot be loaded; image uploads then answer 503.
func ConnectStorage() {
	uploader, err := utils.NewS3Uploader(context.Background(), Config.S3Bucket)
	if err != nil {
		zap.L().Warn("image storage unavailable", zap.Error(err))
		return
	}
	Storage = uploader
}
