// Package metric provides Prometheus-based metrics collection and an HTTP
// endpoint for schema-engine observability.
//
// The package offers a centralized metrics registry managing both core
// schema metrics (commit outcomes, load activity, store gateway traffic)
// and custom caller-specific metrics, plus an HTTP server exposing them
// in Prometheus format.
//
// # Basic Usage
//
//	registry := metric.NewMetricsRegistry()
//	server := metric.NewServer(9090, "/metrics", registry)
//
//	go func() {
//	    if err := server.Start(); err != nil {
//	        log.Printf("metrics server error: %v", err)
//	    }
//	}()
//
//	core := registry.CoreMetrics()
//	core.RecordCommit("books", "clean")
//	core.RecordStoreStatus(true)
package metric
