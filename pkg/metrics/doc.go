/*
Package metrics defines sentrylog's Prometheus instrumentation: ingestion
throughput, store size, agent liveness, and parser activity. Metrics are
registered at package init and exposed via Handler for a server's /metrics
route. This is an ambient observability surface, not part of the analytic
core — the store and parser never import it for decision-making.
*/
package metrics
