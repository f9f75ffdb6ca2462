// internal/workers/decision/calculate-risk-score/config.go
package calculateriskscore

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}
