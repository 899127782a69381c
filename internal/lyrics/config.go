// Package lyrics provides Genius API integration for fetching song lyrics.
package lyrics

import (
	"errors"
	"time"
)

// ErrMissingToken is returned when no Genius access token is configured.
var ErrMissingToken = errors.New("missing GENIUS_ACCESS_TOKEN")

// Config holds Genius API configuration.
type Config struct {
	AccessToken string
	// BaseURL overrides the Genius API endpoint.
	BaseURL string
	// RatePerSecond caps outgoing requests; zero or less means unlimited.
	RatePerSecond float64
	Timeout       time.Duration
}

func (c Config) validate() error {
	if c.AccessToken == "" {
		return ErrMissingToken
	}
	return nil
}
