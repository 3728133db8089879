// internal/handlers/activity-signup/config.go
package activitysignup

import "time"

type Config struct {
	FanoutTimeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		FanoutTimeout: 10 * time.Second,
	}
}
