// internal/workers/verification/perform-kyc-checks/config.go
package performkycchecks

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
