package server

import (
	"time"

	"github.com/joeshaw/envdecode"
)

// Config is the server configuration, decoded from the environment
type Config struct {
	// Addr is the listen address
	Addr string `env:"DURAK_ADDR,default=:3000"`
	// CleanupTimeout is how long idle games and players are kept
	CleanupTimeout time.Duration `env:"DURAK_CLEANUP_TIMEOUT,default=1h"`
	// SubscribeTimeout is how long a long-poll subscription is held open
	SubscribeTimeout time.Duration `env:"DURAK_SUBSCRIBE_TIMEOUT,default=1h"`
}

// LoadConfig reads the configuration from environment variables
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
