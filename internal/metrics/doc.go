// Package metrics exposes Prometheus instrumentation for encode
// operations. Metrics are registered with the default registry; embedding
// applications export them through their own /metrics endpoint.
package metrics
