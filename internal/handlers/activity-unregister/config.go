// internal/handlers/activity-unregister/config.go
package activityunregister

import "time"

type Config struct {
	FanoutTimeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		FanoutTimeout: 10 * time.Second,
	}
}
