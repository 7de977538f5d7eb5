/*
Package parser turns one raw log line into a types.ParsedEvent.

Parse is a total function over (line, spec): it never errors out to the
caller. Format selection is a tagged variant (types.LogFormat) dispatched
through a table of pure extraction functions, not a class hierarchy — each
entry attempts its format's pattern and reports whether it matched; a miss
falls through to the generic extractor, which in turn falls back to
keyword-based level inference when none of its own patterns match either.
*/
package parser
