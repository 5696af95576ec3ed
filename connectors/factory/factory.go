package factory

import (
	"fmt"
	"time"

	"github.com/kilianp07/trafficpredict/auth"
	"github.com/kilianp07/trafficpredict/config"
	"github.com/kilianp07/trafficpredict/connectors"
	"github.com/kilianp07/trafficpredict/connectors/clients/predictor"
)

const (
	IDRemote = "remote"
	IDLocal  = "local"
)

var (
	errUnknownClient = "unknown connector id: %s"
)

// TokenSource picks the bearer token provider described by cfg: OAuth2
// client credentials when configured, else the static token, else none.
func TokenSource(cfg config.ClientConfig) auth.TokenSource {
	switch {
	case cfg.OAuth.Enabled():
		return auth.NewClientCred(cfg.OAuth)
	case cfg.Token != "":
		return auth.StaticToken(cfg.Token)
	default:
		return nil
	}
}

// NewPredictionClient builds the client identified by id. The remote client
// reads its endpoint and credentials from cfg; extra options are appended.
func NewPredictionClient(id string, cfg config.ClientConfig, opts ...connectors.Option) (connectors.PredictionClient, error) {
	switch id {
	case IDRemote:
		if cfg.URL == "" {
			return nil, fmt.Errorf("remote client requires client.url")
		}
		base := []connectors.Option{
			predictor.WithURL(cfg.URL),
			predictor.WithTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second),
		}
		if ts := TokenSource(cfg); ts != nil {
			base = append(base, predictor.WithTokenSource(ts))
		}
		return predictor.New(append(base, opts...)...)
	case IDLocal:
		return predictor.New(opts...)
	default:
		return nil, fmt.Errorf(errUnknownClient, id)
	}
}
