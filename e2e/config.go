package e2e

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// CHAT_SERVER_ADDR points at a running chat service, the suite is skipped when empty
	ServerAddr string `envconfig:"CHAT_SERVER_ADDR"`
	// Must match the JWT_ACCESS_TOKEN_SECRET of the server
	JwtSecret string        `envconfig:"JWT_ACCESS_TOKEN_SECRET"`
	JwtIssuer string        `envconfig:"JWT_ISSUER" default:"chat-service"`
	Timeout   time.Duration `envconfig:"E2E_TIMEOUT" default:"10s"`
	// E2E_DEBUG_JSON allows dumping full gRPC request/response bodies as JSON
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
