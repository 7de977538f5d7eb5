package store

import (
	"fmt"
	"testing"

	"github.com/sentrylog/sentrylog/pkg/types"
)

func TestNormalizeIsIdempotent(t *testing.T) {
	msg := "Request abc123 failed at 2025-08-01T10:30:15Z after 42 retries"
	once := normalize(msg)
	twice := normalize(once)
	if once != twice {
		t.Errorf("normalize not idempotent: %q != %q", once, twice)
	}
}

func TestCategorizeIsDeterministic(t *testing.T) {
	msg := "Database connection failed"
	if got := categorize(msg); got != "Database Connectivity" {
		t.Errorf("category = %q, want Database Connectivity", got)
	}
	if categorize(msg) != categorize(msg) {
		t.Errorf("categorize not deterministic for identical input")
	}
}

func TestSeverityIsTotal(t *testing.T) {
	cases := map[string]types.Severity{
		"system panic detected":      types.SeverityCritical,
		"request failed":             types.SeverityHigh,
		"deprecated option used":     types.SeverityMedium,
		"everything looks fine here": types.SeverityLow,
	}
	for msg, want := range cases {
		if got := severityOf(msg); got != want {
			t.Errorf("severityOf(%q) = %q, want %q", msg, got, want)
		}
	}
}

func TestAddErrorFingerprintUniqueness(t *testing.T) {
	s := New(Config{MaxErrors: 100})
	in := types.IncomingError{ServerID: "a", LogFile: "/var/log/x.log", ErrorMessage: "Database connection failed"}

	first := s.AddError(in)
	second := s.AddError(in)

	if first.ID != second.ID {
		t.Errorf("expected same record id for repeat fingerprint, got %q and %q", first.ID, second.ID)
	}
	if second.Count != 2 {
		t.Errorf("count = %d, want 2", second.Count)
	}
	if s.Len() != 1 {
		t.Errorf("store length = %d, want 1", s.Len())
	}
}

func TestAddErrorDistinctServersProduceDistinctRecords(t *testing.T) {
	s := New(Config{MaxErrors: 100})
	a := s.AddError(types.IncomingError{ServerID: "a", LogFile: "/var/log/x.log", ErrorMessage: "Database connection failed"})
	b := s.AddError(types.IncomingError{ServerID: "b", LogFile: "/var/log/x.log", ErrorMessage: "Database connection failed"})

	if a.ID == b.ID {
		t.Errorf("expected distinct records for distinct serverIds sharing a message")
	}
	if s.Len() != 2 {
		t.Errorf("store length = %d, want 2", s.Len())
	}
}

func TestAddErrorFirstScenarioUrgencyAndCategory(t *testing.T) {
	s := New(Config{MaxErrors: 100})
	rec := s.AddError(types.IncomingError{
		ServerID:     "a",
		LogFile:      "/var/log/x.log",
		ErrorMessage: "Database connection failed",
		Urgency:      10,
	})
	if rec.Category != "Database Connectivity" {
		t.Errorf("category = %q", rec.Category)
	}
	if rec.Severity != types.SeverityHigh {
		t.Errorf("severity = %q, want high", rec.Severity)
	}
	if rec.Urgency < 10 {
		t.Errorf("urgency = %d, want >= 10", rec.Urgency)
	}
}

func TestAddErrorBoundedStorage(t *testing.T) {
	s := New(Config{MaxErrors: 5})
	for i := 0; i < 20; i++ {
		s.AddError(types.IncomingError{
			ServerID:     "a",
			LogFile:      "/var/log/x.log",
			ErrorMessage: fmt.Sprintf("unique failure number %d", i),
		})
	}
	if s.Len() > 5 {
		t.Errorf("store length = %d, want <= 5", s.Len())
	}
}

func TestCrossServerPatternInsight(t *testing.T) {
	s := New(Config{MaxErrors: 100})
	for i := 0; i < 6; i++ {
		s.AddError(types.IncomingError{ServerID: "a", LogFile: "/var/log/x.log", ErrorMessage: "Connection refused to upstream"})
	}
	for i := 0; i < 6; i++ {
		s.AddError(types.IncomingError{ServerID: "b", LogFile: "/var/log/x.log", ErrorMessage: "Connection refused to upstream"})
	}

	if s.Len() != 2 {
		t.Fatalf("store length = %d, want 2 (one per server)", s.Len())
	}

	var patternInsight *types.Insight
	for _, ins := range s.Insights() {
		if ins.Type == types.InsightPattern {
			cp := ins
			patternInsight = &cp
		}
	}
	if patternInsight == nil {
		t.Fatal("expected a pattern insight")
	}
	if want := 60 + 2*12; patternInsight.Confidence != min(95, want) {
		t.Errorf("confidence = %d, want %d", patternInsight.Confidence, min(95, want))
	}
}
