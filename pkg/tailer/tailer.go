package tailer

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/sentrylog/sentrylog/pkg/log"
)

const (
	defaultPollInterval = 500 * time.Millisecond
	defaultRetryDelay   = 5 * time.Second
)

// Tailer follows one file, delivering each newly appended line exactly
// once, in file order, to OnLine.
type Tailer struct {
	Path         string
	OnLine       func(line string)
	PollInterval time.Duration
	RetryDelay   time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc

	file   *os.File
	info   os.FileInfo
	cursor int64
}

// New creates a Tailer for path with default timing; zero PollInterval or
// RetryDelay are filled in by Start.
func New(path string, onLine func(line string)) *Tailer {
	return &Tailer{
		Path:         path,
		OnLine:       onLine,
		PollInterval: defaultPollInterval,
		RetryDelay:   defaultRetryDelay,
	}
}

// Start begins tailing in a background goroutine. Safe to call once; a
// second call is a no-op while already running.
func (t *Tailer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	if t.PollInterval <= 0 {
		t.PollInterval = defaultPollInterval
	}
	if t.RetryDelay <= 0 {
		t.RetryDelay = defaultRetryDelay
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.running = true
	go t.run(ctx)
}

// Stop cancels the tailer's poll loop and any pending retry, and releases
// its watch. Safe to call more than once.
func (t *Tailer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	t.running = false
	if t.cancel != nil {
		t.cancel()
	}
	if t.file != nil {
		t.file.Close()
		t.file = nil
	}
}

func (t *Tailer) run(ctx context.Context) {
	logger := log.WithLogFile(t.Path)

	watcher, watchEvents := t.watchDir(logger)
	if watcher != nil {
		defer watcher.Close()
	}

	ticker := time.NewTicker(t.PollInterval)
	defer ticker.Stop()

	for {
		if err := t.ensureOpen(); err != nil {
			logger.Warn().Err(err).Msg("tailer open failed, retrying")
			select {
			case <-ctx.Done():
				return
			case <-time.After(t.RetryDelay):
				continue
			}
		}

		if err := t.pollOnce(); err != nil {
			logger.Warn().Err(err).Msg("tailer read failed, retrying")
			t.closeFile()
			select {
			case <-ctx.Done():
				return
			case <-time.After(t.RetryDelay):
				continue
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-watchEvents:
		}
	}
}

// watchDir sets up an fsnotify watch on the file's parent directory, used
// only to wake the poll loop early when a rotator renames or recreates
// the file. A watcher failure is non-fatal: polling alone still satisfies
// the contract, so errors here are logged and swallowed.
func (t *Tailer) watchDir(logger zerolog.Logger) (*fsnotify.Watcher, <-chan struct{}) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn().Err(err).Msg("fsnotify unavailable, falling back to polling only")
		return nil, nil
	}

	dir := filepath.Dir(t.Path)
	if err := watcher.Add(dir); err != nil {
		logger.Warn().Err(err).Msg("fsnotify watch failed, falling back to polling only")
		watcher.Close()
		return nil, nil
	}

	base := filepath.Base(t.Path)
	events := make(chan struct{}, 1)
	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != base {
					continue
				}
				select {
				case events <- struct{}{}:
				default:
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return watcher, events
}

func (t *Tailer) ensureOpen() error {
	if t.file != nil {
		return nil
	}

	f, err := os.Open(t.Path)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}

	t.file = f
	t.info = info
	t.cursor = info.Size() // start-at-end: skip historical content on first open
	return nil
}

func (t *Tailer) closeFile() {
	if t.file != nil {
		t.file.Close()
		t.file = nil
	}
}

// pollOnce checks for growth, rotation, or a new inode at the same path
// and delivers any newly available lines.
func (t *Tailer) pollOnce() error {
	info, err := os.Stat(t.Path)
	if err != nil {
		return err
	}

	if !os.SameFile(info, t.info) {
		// The path now refers to a different inode (rotator renamed the
		// old file and created a new one). Re-open and start at zero.
		t.closeFile()
		f, err := os.Open(t.Path)
		if err != nil {
			return err
		}
		t.file = f
		t.info = info
		t.cursor = 0
	}

	size := info.Size()
	if size < t.cursor {
		// Truncation in place: treat as rotation, read from the start.
		t.cursor = 0
	}
	if size == t.cursor {
		return nil
	}

	if _, err := t.file.Seek(t.cursor, io.SeekStart); err != nil {
		return err
	}
	buf := make([]byte, size-t.cursor)
	if _, err := io.ReadFull(t.file, buf); err != nil {
		return err
	}
	t.cursor = size

	for _, line := range strings.Split(string(buf), "\n") {
		if line == "" {
			continue
		}
		t.OnLine(line)
	}
	return nil
}
