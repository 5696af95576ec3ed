package config

import (
	"fmt"
	"net/url"

	"github.com/kilianp07/trafficpredict/auth"
)

// ClientConfig configures the caller of a remote prediction endpoint.
type ClientConfig struct {
	// URL of the remote endpoint. Empty means predictions are always local.
	URL string `json:"url"`
	// Token is sent as a bearer credential when OAuth is not configured.
	Token          string    `json:"token"`
	OAuth          auth.Conf `json:"oauth"`
	TimeoutSeconds int       `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *ClientConfig) SetDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
}

// Validate checks the endpoint URL.
func (c ClientConfig) Validate() error {
	if c.URL == "" {
		return nil
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https")
	}
	return nil
}
