/*
Package search implements the Search component: it turns a free-text
query into a conjunctive chain of filters over a snapshot of the Memory
Store's stored errors.

Recognized cue tokens (critical/urgent, database/db, timeout, new/recent,
server-<name>) each contribute one filter; all matched filters apply
together. When no cue matches, the query falls back to a substring search
over the error message, server name, and category — this fallback never
runs alongside a matched cue, so a query combining a cue with an unrelated
token (e.g. "database xyz123") still returns every Database Connectivity
error regardless of the extra token. This is a known, intentional
ambiguity carried over unchanged from the original search behavior.
*/
package search
