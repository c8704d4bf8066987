// README: Config loader with env defaults for HTTP, gateway, journal, and sync cadences.
package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type SyncConfig struct {
	StatusTickSeconds  int `envconfig:"STATUS_TICK" default:"30"`
	ElapsedTickSeconds int `envconfig:"ELAPSED_TICK" default:"1"`
}

type JournalConfig struct {
	Key           string `envconfig:"JOURNAL_KEY" default:"ridepool:notifications"`
	RetentionDays int    `envconfig:"JOURNAL_RETENTION_DAYS" default:"30"`
	// When set, the journal persists to Postgres instead of Redis.
	DSN string `envconfig:"JOURNAL_DSN"`
}

type Config struct {
	HTTP struct {
		Addr string `envconfig:"HTTP_ADDR" default:":8080"`
	}
	Gateway struct {
		BaseURL        string `envconfig:"GATEWAY_URL" default:"http://localhost:3000"`
		Token          string `envconfig:"GATEWAY_TOKEN"`
		TimeoutSeconds int    `envconfig:"GATEWAY_TIMEOUT" default:"10"`
	}
	Redis struct {
		Addr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	}
	User struct {
		ID string `envconfig:"USER_ID" required:"true"`
	}
	Maps struct {
		APIKey string `envconfig:"MAPS_API_KEY"`
	}
	Log struct {
		Level string `envconfig:"LOG_LEVEL" default:"info"`
	}
	Sync    SyncConfig
	Journal JournalConfig
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("RIDEPOOL", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c SyncConfig) StatusTick() time.Duration {
	return time.Duration(c.StatusTickSeconds) * time.Second
}

func (c SyncConfig) ElapsedTick() time.Duration {
	return time.Duration(c.ElapsedTickSeconds) * time.Second
}

func (c JournalConfig) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

func (c Config) GatewayTimeout() time.Duration {
	return time.Duration(c.Gateway.TimeoutSeconds) * time.Second
}
