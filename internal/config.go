package internal

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

type Config struct {
	Host           string `env:"HOST,default=0.0.0.0"`
	Port           int    `env:"PORT,default=50053"`
	LogLevel       string `env:"LOG_LEVEL,default=INFO"`
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	DebugPort      int    `env:"DEBUG_PORT,default=8081"`

	JwtAccessTokenSecret string        `env:"JWT_ACCESS_TOKEN_SECRET,required=true"`
	JwtIssuer            string        `env:"JWT_ISSUER,default=chat-service"`
	AuthTokenDuration    time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`

	// Redis caching is disabled when RedisURL is empty
	RedisURL        string        `env:"REDIS_URL"`
	RedisTTLDefault time.Duration `env:"REDIS_TTL_DEFAULT,default=5m"`
	RedisKeyPrefix  string        `env:"REDIS_KEY_PREFIX,default=chat:"`

	// Events are only logged when KafkaBroker is empty
	KafkaBroker       string        `env:"KAFKA_BROKER"`
	KafkaTopic        string        `env:"KAFKA_TOPIC,default=chat-events"`
	KafkaClientID     string        `env:"KAFKA_CLIENT_ID,default=chat-service"`
	KafkaWriteTimeout time.Duration `env:"KAFKA_WRITE_TIMEOUT,default=5s"`

	// Events are queued here before reaching the publisher
	EventBufferSize   int           `env:"EVENT_BUFFER_SIZE,default=1024"`
	EventFlushTimeout time.Duration `env:"EVENT_FLUSH_TIMEOUT,default=3s"`
	RestartInterval   time.Duration `env:"RESTART_INTERVAL,default=200ms"`

	// The service reports NOT_SERVING above MAX_MEMORY_PERCENT, 0 disables it
	MetricInterval   time.Duration `env:"METRIC_INTERVAL,default=30s"`
	MaxMemoryPercent float32       `env:"MAX_MEMORY_PERCENT,default=0"`

	MaxUpdateRetries int `env:"MAX_UPDATE_RETRIES,default=3"`
	DefaultPageLimit int `env:"DEFAULT_PAGE_LIMIT,default=20"`
	MaxPageLimit     int `env:"MAX_PAGE_LIMIT,default=100"`
	LimitMessages    int `env:"LIMIT_MESSAGES,default=50"`

	CensoredWords   string `env:"CENSORED_WORDS"`
	CharReplacement string `env:"CHARACTER_REPLACEMENT,default=*"`
}

// Brokers splits the comma separated KAFKA_BROKER list.
func (c Config) Brokers() []string {
	return splitList(c.KafkaBroker)
}

func (c Config) CensoredWordList() []string {
	return splitList(c.CensoredWords)
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}

func splitList(s string) []string {
	return lo.Compact(lo.Map(strings.Split(s, ","), func(item string, _ int) string {
		return strings.TrimSpace(item)
	}))
}
