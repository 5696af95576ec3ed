// Package infra holds the adapters behind the core interfaces: the zerolog
// logger, the Sentry monitor, the Prometheus, InfluxDB and MQTT metrics sinks.
// Nothing under core imports these packages.
package infra
