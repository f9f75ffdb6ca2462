// internal/workers/communication/send-decision-notification/config.go
package senddecisionnotification

import "time"

type Config struct {
	Timeout     time.Duration
	FromAddress string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     20 * time.Second,
		FromAddress: "no-reply@loans.example.com",
	}
}
