package predictor

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kilianp07/trafficpredict/auth"
	"github.com/kilianp07/trafficpredict/connectors"
	coremetrics "github.com/kilianp07/trafficpredict/core/metrics"
	"github.com/kilianp07/trafficpredict/core/prediction"
	"github.com/kilianp07/trafficpredict/infra/logger"
)

const clientName = "predictor"

func apply(name string, fn func(*Client)) connectors.Option {
	return func(c connectors.PredictionClient) error {
		if p, ok := c.(*Client); ok {
			fn(p)
			return nil
		}
		return fmt.Errorf(connectors.ErrIncompatibleOption, name, clientName)
	}
}

// WithURL sets the remote endpoint. Without it every prediction is local.
func WithURL(url string) connectors.Option {
	return apply("WithURL", func(c *Client) { c.url = url })
}

// WithTokenSource sets the bearer token provider.
func WithTokenSource(ts auth.TokenSource) connectors.Option {
	return apply("WithTokenSource", func(c *Client) { c.tokens = ts })
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) connectors.Option {
	return apply("WithHTTPClient", func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	})
}

// WithTimeout sets the request timeout. A client passed to WithHTTPClient
// is copied, never modified.
func WithTimeout(d time.Duration) connectors.Option {
	return apply("WithTimeout", func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	})
}

// WithEngine sets the local predictor used for fallbacks.
func WithEngine(e prediction.Engine) connectors.Option {
	return apply("WithEngine", func(c *Client) {
		if e != nil {
			c.local = e
		}
	})
}

// WithSink records predictions and fallbacks.
func WithSink(s coremetrics.MetricsSink) connectors.Option {
	return apply("WithSink", func(c *Client) {
		if s != nil {
			c.sink = s
		}
	})
}

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) connectors.Option {
	return apply("WithLogger", func(c *Client) {
		if l != nil {
			c.log = l
		}
	})
}
