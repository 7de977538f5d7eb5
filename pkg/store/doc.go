/*
Package store implements the Memory Store: deduplication of incoming
errors by fingerprint, message normalization, category and severity
inference, rolling trend classification, a cross-server pattern table,
and insight generation.

The store is one owned value behind a single sync.Mutex — per the design
notes' stance against package-level mutable globals — so that addError
and the snapshot reads used by REST and broadcast can never observe a
torn update. It is volatile and bounded: the stored error list is capped
at maxErrors, trimming the oldest entries by insertion order, and the
pattern table is bounded by an LRU sized to maxErrors*patternTableFactor
rather than left to grow without bound.
*/
package store
