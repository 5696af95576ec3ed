package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	coremetrics "github.com/kilianp07/trafficpredict/core/metrics"
	"github.com/kilianp07/trafficpredict/core/monitoring"
	"github.com/kilianp07/trafficpredict/infra/logger"
)

// DefaultTopicPrefix is the topic root used when Config.TopicPrefix is empty.
const DefaultTopicPrefix = "traffic"

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Broker      string          `json:"broker"`
	ClientID    string          `json:"client_id"`
	Username    string          `json:"username"`
	Password    string          `json:"password"`
	TopicPrefix string          `json:"topic_prefix"`
	UseTLS      bool            `json:"use_tls"`
	ClientCert  string          `json:"client_cert"`
	ClientKey   string          `json:"client_key"`
	CABundle    string          `json:"ca_bundle"`
	QoS         map[string]byte `json:"qos"`
	Retain      bool            `json:"retain"`
	LWTTopic    string          `json:"lwt_topic"`
	LWTPayload  string          `json:"lwt_payload"`
	LWTQoS      byte            `json:"lwt_qos"`
	MaxRetries  int             `json:"max_retries"`
	BackoffMS   int             `json:"backoff_ms"`
	TLSConfig   *tls.Config     `json:"-"`
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Publisher is a metrics sink publishing prediction events as JSON messages.
// Predictions go to <prefix>/<route_id>/prediction and fallbacks to
// <prefix>/<route_id>/fallback.
type Publisher struct {
	cli        pahoClient
	prefix     string
	qos        map[string]byte
	retain     bool
	maxRetries int
	backoff    time.Duration
	log        logger.Logger
	monitor    monitoring.Monitor
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithLogger sets the publisher logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Publisher) {
		if l != nil {
			p.log = l
		}
	}
}

// WithMonitor reports publish failures to m.
func WithMonitor(m monitoring.Monitor) Option {
	return func(p *Publisher) {
		if m != nil {
			p.monitor = m
		}
	}
}

// NewPublisher connects to the MQTT broker.
func NewPublisher(cfg Config, opts ...Option) (*Publisher, error) {
	if cfg.Broker == "" {
		return nil, errors.New("mqtt: broker is required")
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "trafficpredict-" + uuid.NewString()
	}
	popts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	p := &Publisher{
		prefix:     strings.TrimSuffix(cfg.TopicPrefix, "/"),
		qos:        cfg.QoS,
		retain:     cfg.Retain,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		log:        logger.New("mqtt_publisher"),
		monitor:    monitoring.NopMonitor{},
	}
	for _, o := range opts {
		o(p)
	}
	if p.prefix == "" {
		p.prefix = DefaultTopicPrefix
	}
	if p.maxRetries <= 0 {
		p.maxRetries = 3
	}
	if p.backoff <= 0 {
		p.backoff = 100 * time.Millisecond
	}

	popts.OnConnect = func(paho.Client) { p.log.Infof("MQTT connected to %s", cfg.Broker) }
	popts.OnConnectionLost = func(_ paho.Client, err error) {
		p.log.Errorf("connection lost: %v", err)
	}
	popts.OnReconnecting = func(paho.Client, *paho.ClientOptions) {
		p.log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(popts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		p.log.Errorf("connect to %s: %v", cfg.Broker, token.Error())
		p.monitor.CaptureException(token.Error(), map[string]string{"module": "mqtt", "broker": cfg.Broker})
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	p.cli = c
	return p, nil
}

// NewClientOptions builds mqtt client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	if cfg.LWTTopic != "" {
		opts.SetWill(cfg.LWTTopic, cfg.LWTPayload, cfg.LWTQoS, false)
	}
	return opts, nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the config.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(caBytes)
	return &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

type predictionMessage struct {
	RequestID           string  `json:"request_id,omitempty"`
	RouteID             string  `json:"route_id"`
	CongestionLevel     string  `json:"congestion_level"`
	Confidence          float64 `json:"confidence"`
	CurrentTravelTime   int     `json:"current_travel_time"`
	PredictedTravelTime int     `json:"predicted_travel_time"`
	TimeSaved           int     `json:"time_saved"`
	Origin              string  `json:"origin"`
	LatencyMS           int64   `json:"latency_ms"`
	Timestamp           int64   `json:"timestamp"`
}

type fallbackMessage struct {
	RouteID    string `json:"route_id"`
	Reason     string `json:"reason"`
	StatusCode int    `json:"status_code,omitempty"`
	Timestamp  int64  `json:"timestamp"`
}

// RecordPrediction publishes the event on the route prediction topic.
func (p *Publisher) RecordPrediction(ev coremetrics.PredictionEvent) error {
	msg := predictionMessage{
		RequestID:           ev.RequestID,
		RouteID:             ev.RouteID,
		CongestionLevel:     ev.Level.String(),
		Confidence:          ev.Confidence,
		CurrentTravelTime:   ev.CurrentTravelTime,
		PredictedTravelTime: ev.PredictedTravelTime,
		TimeSaved:           ev.TimeSaved,
		Origin:              string(ev.Origin),
		LatencyMS:           ev.Latency.Milliseconds(),
		Timestamp:           ev.Time.UnixMilli(),
	}
	return p.publish(ev.RouteID, "prediction", msg)
}

// RecordFallback publishes the event on the route fallback topic.
func (p *Publisher) RecordFallback(ev coremetrics.FallbackEvent) error {
	msg := fallbackMessage{
		RouteID:    ev.RouteID,
		Reason:     ev.Reason,
		StatusCode: ev.StatusCode,
		Timestamp:  ev.Time.UnixMilli(),
	}
	return p.publish(ev.RouteID, "fallback", msg)
}

// Topic returns the topic used for kind messages about routeID.
func (p *Publisher) Topic(routeID, kind string) string {
	if routeID == "" {
		routeID = "unknown"
	}
	return fmt.Sprintf("%s/%s/%s", p.prefix, routeID, kind)
}

func (p *Publisher) publish(routeID, kind string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	topic := p.Topic(routeID, kind)
	qos := p.qos[kind]
	var publishErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		token := p.cli.Publish(topic, qos, p.retain, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			p.log.Debugf("published %s to %s", kind, topic)
			return nil
		}
		p.log.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		if attempt < p.maxRetries {
			time.Sleep(p.backoff * time.Duration(1<<attempt))
		}
	}
	p.monitor.CaptureException(publishErr, map[string]string{"module": "mqtt", "route_id": routeID, "topic": topic})
	return fmt.Errorf("mqtt publish %s: %w", topic, publishErr)
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
}
