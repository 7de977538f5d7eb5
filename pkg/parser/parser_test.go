package parser

import (
	"testing"

	"github.com/sentrylog/sentrylog/pkg/types"
)

func TestParseJSONRoundTrip(t *testing.T) {
	line := `{"timestamp":"2025-08-01T10:30:15Z", "level":"error", "message":"API timeout"}`
	ev := Parse(line, types.LogFileSpec{Type: types.FormatAuto})

	if ev.Level != types.LevelError {
		t.Errorf("level = %q, want ERROR", ev.Level)
	}
	if ev.Message != "API timeout" {
		t.Errorf("message = %q, want %q", ev.Message, "API timeout")
	}
	if ev.Parser != types.FormatJSON {
		t.Errorf("parser = %q, want json", ev.Parser)
	}
}

func TestParseGenericDatabaseError(t *testing.T) {
	line := "[2025-08-01 10:30:15] ERROR: Database connection failed"
	ev := Parse(line, types.LogFileSpec{Type: types.FormatAuto})

	if ev.Parser != types.FormatGeneric {
		t.Errorf("parser = %q, want generic", ev.Parser)
	}
	if ev.Level != types.LevelError {
		t.Errorf("level = %q, want ERROR", ev.Level)
	}
	if ev.Message != "Database connection failed" {
		t.Errorf("message = %q", ev.Message)
	}
	if !ev.Semantics.HasDatabase {
		t.Errorf("expected hasDatabase")
	}
	if ev.Urgency != 10 {
		t.Errorf("urgency = %d, want 10 (clamped)", ev.Urgency)
	}
}

func TestParseCriticalAuthFailure(t *testing.T) {
	line := "CRITICAL: Authentication system failed"
	ev := Parse(line, types.LogFileSpec{Type: types.FormatAuto})

	if !ev.Semantics.HasAuth {
		t.Errorf("expected hasAuth")
	}
	if ev.Urgency < 8 {
		t.Errorf("urgency = %d, want >= 8", ev.Urgency)
	}
}

func TestParseNginxErrorLine(t *testing.T) {
	line := "2024/03/15 08:12:33 [error] 1234#0: *99 connect() failed while connecting to upstream"
	ev := Parse(line, types.LogFileSpec{Type: types.FormatNginx})

	if ev.Parser != types.FormatNginx {
		t.Errorf("parser = %q, want nginx", ev.Parser)
	}
	if ev.Metadata["pid"] != "1234" || ev.Metadata["tid"] != "0" || ev.Metadata["conn"] != "99" {
		t.Errorf("metadata = %+v", ev.Metadata)
	}
	if ev.Level != types.LevelError {
		t.Errorf("level = %q, want ERROR", ev.Level)
	}
}

func TestParseSyslogDerivesLevelFromBody(t *testing.T) {
	line := "Jul 29 10:12:33 host sshd[1234]: authentication failed for user root"
	ev := Parse(line, types.LogFileSpec{Type: types.FormatSyslog})

	if ev.Parser != types.FormatSyslog {
		t.Errorf("parser = %q, want syslog", ev.Parser)
	}
	if ev.Level != types.LevelError {
		t.Errorf("level = %q, want ERROR (derived from 'failed')", ev.Level)
	}
	if ev.Metadata["hostname"] != "host" || ev.Metadata["service"] != "sshd" || ev.Metadata["pid"] != "1234" {
		t.Errorf("metadata = %+v", ev.Metadata)
	}
}

func TestParseFallsThroughOnExplicitFormatMismatch(t *testing.T) {
	// Declared as nginx but doesn't match the nginx pattern at all.
	line := "plain unstructured line with no markers"
	ev := Parse(line, types.LogFileSpec{Type: types.FormatNginx})

	if ev.Parser != types.FormatFallback {
		t.Errorf("parser = %q, want fallback", ev.Parser)
	}
	if ev.Message != line {
		t.Errorf("message = %q, want original line preserved", ev.Message)
	}
}

func TestLevelNormalizationIsIdempotent(t *testing.T) {
	for _, raw := range []string{"err", "WARNING", "notice", "trace", "weird"} {
		once := normalizeLevel(raw)
		twice := normalizeLevel(string(once))
		if once != twice {
			t.Errorf("normalizeLevel not idempotent for %q: %q vs %q", raw, once, twice)
		}
	}
}

func TestUrgencyAlwaysClamped(t *testing.T) {
	line := "CRITICAL FATAL: security breach timeout failed failure attack panic"
	ev := Parse(line, types.LogFileSpec{Type: types.FormatAuto})
	if ev.Urgency < 0 || ev.Urgency > 10 {
		t.Fatalf("urgency %d out of [0,10]", ev.Urgency)
	}
	if ev.Urgency != 10 {
		t.Errorf("urgency = %d, want 10", ev.Urgency)
	}
}

func TestHasStatusCodeRegexBoundaries(t *testing.T) {
	ev := Parse("request failed with 404 not found", types.LogFileSpec{Type: types.FormatAuto})
	if !ev.Semantics.HasStatusCode {
		t.Errorf("expected hasStatusCode for 404")
	}
}
