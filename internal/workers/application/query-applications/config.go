// internal/workers/application/query-applications/config.go
package queryapplications

import "time"

type Config struct {
	Timeout      time.Duration
	SearchIndex  string
	DefaultLimit int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      15 * time.Second,
		SearchIndex:  "loan-applications",
		DefaultLimit: 50,
	}
}
