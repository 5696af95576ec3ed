package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kilianp07/trafficpredict/auth"
	"github.com/kilianp07/trafficpredict/connectors"
	coremetrics "github.com/kilianp07/trafficpredict/core/metrics"
	"github.com/kilianp07/trafficpredict/core/model"
	"github.com/kilianp07/trafficpredict/core/prediction"
	"github.com/kilianp07/trafficpredict/infra/logger"
)

// maxErrorBody bounds how much of a failed response is kept for logging.
const maxErrorBody = 512

// Client calls a remote prediction endpoint and falls back to a local
// predictor whenever the endpoint cannot answer. Requests are never retried.
type Client struct {
	url     string
	tokens  auth.TokenSource
	http    *http.Client
	timeout time.Duration
	local   prediction.Engine
	sink    coremetrics.MetricsSink
	log     logger.Logger
}

// New builds a Client. Options are applied in order.
func New(opts ...connectors.Option) (*Client, error) {
	c := &Client{
		http:  &http.Client{Timeout: 10 * time.Second},
		local: prediction.NewCongestionPredictor(),
		sink:  coremetrics.NopSink{},
		log:   logger.New("predictor_client"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c, nil
}

// Predict returns the remote prediction for routeID, or a locally computed
// one when the remote call fails. Only invalid input is reported as an error.
func (c *Client) Predict(ctx context.Context, routeID string, hour int, day model.DayType) (model.PredictionResponse, coremetrics.Origin, error) {
	start := time.Now()
	if routeID == "" {
		return model.PredictionResponse{}, "", &prediction.ValidationError{Field: "route_id", Err: prediction.ErrMissingRouteID}
	}
	dayStr := string(day)
	req := model.PredictionRequest{RouteID: routeID, Hour: &hour, DayType: &dayStr}

	if c.url == "" {
		return c.predictLocal(req, coremetrics.OriginLocal, start)
	}

	resp, err := c.predictRemote(ctx, req)
	if err == nil {
		c.record(resp, coremetrics.OriginRemote, start)
		return resp, coremetrics.OriginRemote, nil
	}

	var ue *UpstreamError
	if !errors.As(err, &ue) {
		ue = &UpstreamError{Reason: ReasonTransport, Err: err}
	}
	c.log.Warnf("remote prediction for %s failed, using local model: %v", routeID, ue)
	if fr, ok := c.sink.(coremetrics.FallbackRecorder); ok {
		if rerr := fr.RecordFallback(coremetrics.FallbackEvent{
			RouteID:    routeID,
			Reason:     ue.Reason,
			StatusCode: ue.StatusCode,
			Time:       time.Now(),
		}); rerr != nil {
			c.log.Debugf("record fallback: %v", rerr)
		}
	}
	return c.predictLocal(req, coremetrics.OriginFallback, start)
}

func (c *Client) predictLocal(req model.PredictionRequest, origin coremetrics.Origin, start time.Time) (model.PredictionResponse, coremetrics.Origin, error) {
	resp, err := c.local.Forecast(req)
	if err != nil {
		return model.PredictionResponse{}, origin, err
	}
	c.record(resp, origin, start)
	return resp, origin, nil
}

func (c *Client) predictRemote(ctx context.Context, body model.PredictionRequest) (model.PredictionResponse, error) {
	var out model.PredictionResponse
	payload, err := json.Marshal(body)
	if err != nil {
		return out, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return out, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		tok, err := c.tokens.Token(ctx)
		if err != nil {
			return out, &UpstreamError{Reason: ReasonAuth, Err: err}
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return out, &UpstreamError{Reason: ReasonTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.dropToken(ctx)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return out, &UpstreamError{
			Reason:     ReasonStatus,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, bytes.TrimSpace(b)),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, &UpstreamError{Reason: ReasonDecode, StatusCode: resp.StatusCode, Err: err}
	}
	if !out.CongestionLevel.Valid() {
		return out, &UpstreamError{
			Reason:     ReasonDecode,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("invalid congestion level %q", out.CongestionLevel),
		}
	}
	return out, nil
}

// dropToken makes the next call fetch a new token when the source caches one.
func (c *Client) dropToken(ctx context.Context) {
	r, ok := c.tokens.(auth.Refresher)
	if !ok {
		return
	}
	if _, err := r.ForceRefresh(ctx); err != nil {
		c.log.Debugf("refresh rejected token: %v", err)
	}
}

func (c *Client) record(resp model.PredictionResponse, origin coremetrics.Origin, start time.Time) {
	if err := c.sink.RecordPrediction(coremetrics.NewPredictionEvent(resp, origin, time.Since(start))); err != nil {
		c.log.Debugf("record prediction: %v", err)
	}
}
