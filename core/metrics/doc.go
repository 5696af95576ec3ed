// Package metrics defines the observability contract of the prediction
// service. Sinks record served predictions, upstream fallbacks and HTTP
// outcomes; optional capabilities are expressed as separate recorder
// interfaces that a sink may implement. Implementations are registered by
// name and built from configuration with NewMetricsSink.
package metrics
