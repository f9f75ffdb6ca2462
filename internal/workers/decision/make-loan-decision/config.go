// internal/workers/decision/make-loan-decision/config.go
package makeloandecision

import "time"

type Config struct {
	Timeout       time.Duration
	DecisionIndex string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       15 * time.Second,
		DecisionIndex: "loan-applications",
	}
}
