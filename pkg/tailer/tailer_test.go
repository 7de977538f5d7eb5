package tailer

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func collectLines(t *testing.T) (chan string, func(string)) {
	t.Helper()
	lines := make(chan string, 100)
	return lines, func(line string) { lines <- line }
}

func waitForLine(t *testing.T, lines chan string, timeout time.Duration) string {
	t.Helper()
	select {
	case l := <-lines:
		return l
	case <-time.After(timeout):
		t.Fatal("timed out waiting for line")
		return ""
	}
}

func TestTailerStartsAtEndAndFollowsGrowth(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	if err := os.WriteFile(path, []byte("historical line\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	lines, onLine := collectLines(t)
	tl := New(path, onLine)
	tl.PollInterval = 20 * time.Millisecond
	tl.RetryDelay = 20 * time.Millisecond
	tl.Start()
	defer tl.Stop()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open for append: %v", err)
	}
	if _, err := f.WriteString("new line one\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	f.Close()

	got := waitForLine(t, lines, 2*time.Second)
	if got != "new line one" {
		t.Errorf("got %q, want %q (historical content must be skipped)", got, "new line one")
	}
}

func TestTailerTreatsTruncationAsRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	if err := os.WriteFile(path, []byte("line a\nline b\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	lines, onLine := collectLines(t)
	tl := New(path, onLine)
	tl.PollInterval = 20 * time.Millisecond
	tl.RetryDelay = 20 * time.Millisecond
	tl.Start()
	defer tl.Stop()

	// Append first so the tailer's cursor advances past zero.
	f, _ := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	f.WriteString("line c\n")
	f.Close()
	if got := waitForLine(t, lines, 2*time.Second); got != "line c" {
		t.Fatalf("got %q before truncation, want %q", got, "line c")
	}

	if err := os.Truncate(path, 0); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	f, _ = os.OpenFile(path, os.O_WRONLY, 0o644)
	f.WriteString("ERROR: x\n")
	f.Close()

	got := waitForLine(t, lines, 2*time.Second)
	if got != "ERROR: x" {
		t.Errorf("got %q after rotation, want %q", got, "ERROR: x")
	}
}

func TestTailerRetriesOnMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing.log")

	lines, onLine := collectLines(t)
	tl := New(path, onLine)
	tl.PollInterval = 20 * time.Millisecond
	tl.RetryDelay = 30 * time.Millisecond
	tl.Start()
	defer tl.Stop()

	time.Sleep(100 * time.Millisecond) // let a couple of retry cycles pass harmlessly

	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	// Give the tailer a chance to open the now-empty file and establish
	// its start-at-end cursor before anything is appended.
	time.Sleep(150 * time.Millisecond)

	f, _ := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	f.WriteString("recovered\n")
	f.Close()

	got := waitForLine(t, lines, 2*time.Second)
	if got != "recovered" {
		t.Errorf("got %q, want %q", got, "recovered")
	}
}
