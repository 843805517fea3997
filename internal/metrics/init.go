package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
func InitializeMetrics() {
	for _, outcome := range []string{
		OutcomeCompleted,
		OutcomeCancelled,
		OutcomeInvalidConfig,
		OutcomeEncodingFailed,
		OutcomeMuxingFailed,
	} {
		EncodesTotal.WithLabelValues(outcome)
	}

	for _, plane := range []string{"color", "alpha"} {
		PlanePayloadBytes.WithLabelValues(plane)
	}
}
