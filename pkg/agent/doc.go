/*
Package agent implements the Agent Core: it merges configuration with the
fixed auto-discovery probe set, starts one tailer per monitored file,
runs each tailed line through the parser, and maintains a persistent link
to the server. Connection loss triggers reconnection with exponential
backoff; urgent errors and periodic stats are pushed over the link on a
best-effort basis, matching the spec's at-most-once delivery stance.
*/
package agent
