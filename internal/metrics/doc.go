// Package metrics provides build metrics for adocbuild.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	builder := build.NewBuilder(cfg, renderer) // NoopRecorder
//	builder := build.NewBuilder(cfg, renderer, build.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// A build is a short-lived process, so Prometheus metrics are exported by writing a
// textfile (for the node_exporter textfile collector) rather than serving /metrics.
package metrics
