// Package promadapters implements the circulation metrics interfaces with the Prometheus client.
// The collected series are exposed by the HTTP API under /metrics.
package promadapters
