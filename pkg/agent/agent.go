package agent

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sentrylog/sentrylog/pkg/log"
	"github.com/sentrylog/sentrylog/pkg/tailer"
	"github.com/sentrylog/sentrylog/pkg/transport"
	"github.com/sentrylog/sentrylog/pkg/types"
)

// Version is the agent build identifier sent with every registration.
const Version = "1.0.0"

// Config configures one Agent instance.
type Config struct {
	ServerID   string
	ServerName string
	ServerURL  string // ws(s):// URL of the ingestion hub
	LogFiles   []types.LogFileSpec

	// StatsEveryLines is how many total processed lines trigger a stats
	// message; 0 uses the default of 10.
	StatsEveryLines int64

	// UrgencyThreshold gates which ERROR events are forwarded upstream;
	// 0 uses the spec default of 5.
	UrgencyThreshold int

	BaseReconnectDelay time.Duration
	MaxReconnectDelay  time.Duration
	MaxAttempts        int // retries after a failed dial; zero or negative = unlimited
}

func (c *Config) withDefaults() {
	if c.ServerID == "" {
		c.ServerID = uuid.NewString()
	}
	if c.StatsEveryLines <= 0 {
		c.StatsEveryLines = 10
	}
	if c.UrgencyThreshold <= 0 {
		c.UrgencyThreshold = 5
	}
	if c.BaseReconnectDelay <= 0 {
		c.BaseReconnectDelay = time.Second
	}
	if c.MaxReconnectDelay <= 0 {
		c.MaxReconnectDelay = 60 * time.Second
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = -1
	}
}

// Agent ties tailers, the parser, and the server link together for one
// host.
type Agent struct {
	cfg       Config
	logFiles  []types.LogFileSpec
	startedAt time.Time

	connMu sync.Mutex
	conn   *transport.Conn

	tailers []*tailer.Tailer

	runMu   sync.Mutex
	running bool
	cancel  context.CancelFunc

	errors     int64
	warnings   int64
	success    int64
	totalLines int64
}

// New builds an Agent from cfg, resolving defaults and log-file discovery.
func New(cfg Config) *Agent {
	cfg.withDefaults()
	return &Agent{
		cfg:      cfg,
		logFiles: discoverLogFiles(cfg.LogFiles),
	}
}

// Start launches the tailers and the connection loop. Safe to call once.
func (a *Agent) Start() {
	a.runMu.Lock()
	defer a.runMu.Unlock()
	if a.running {
		return
	}
	a.running = true
	a.startedAt = time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	for _, spec := range a.logFiles {
		spec := spec
		t := tailer.New(spec.Path, func(line string) { a.handleLine(line, spec) })
		a.tailers = append(a.tailers, t)
		t.Start()
	}

	go a.connectLoop(ctx)
}

// Stop halts all tailers, cancels the connection loop, and closes the
// current link.
func (a *Agent) Stop() {
	a.runMu.Lock()
	defer a.runMu.Unlock()
	if !a.running {
		return
	}
	a.running = false
	if a.cancel != nil {
		a.cancel()
	}
	for _, t := range a.tailers {
		t.Stop()
	}

	a.connMu.Lock()
	if a.conn != nil {
		a.conn.Close()
		a.conn = nil
	}
	a.connMu.Unlock()
}

// isRunning reports whether Stop has not yet been called.
func (a *Agent) isRunning() bool {
	a.runMu.Lock()
	defer a.runMu.Unlock()
	return a.running
}

// connectLoop holds the persistent link open, reconnecting with
// exponential backoff whenever it drops, until Stop is called or
// MaxAttempts is exhausted.
func (a *Agent) connectLoop(ctx context.Context) {
	logger := log.WithServerID(a.cfg.ServerID)
	attempt := 0

	for a.isRunning() {
		conn, err := transport.Dial(a.cfg.ServerURL)
		if err != nil {
			attempt++
			if a.cfg.MaxAttempts >= 0 && attempt > a.cfg.MaxAttempts {
				logger.Error().Int("attempts", attempt).Msg("giving up reconnecting")
				return
			}
			delay := backoffDelay(attempt, a.cfg.BaseReconnectDelay, a.cfg.MaxReconnectDelay)
			logger.Warn().Err(err).Dur("delay", delay).Msg("connect failed, backing off")
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
				continue
			}
		}

		attempt = 0
		a.setConn(conn)
		if err := a.register(conn); err != nil {
			logger.Warn().Err(err).Msg("register failed")
		}

		// Block until the link drops; a server never pushes frames to
		// the agent today, so any read error signals closure.
		_, readErr := conn.Recv()
		logger.Warn().Err(readErr).Msg("link closed")
		a.setConn(nil)
		conn.Close()

		if !a.isRunning() {
			return
		}
	}
}

func backoffDelay(attempt int, base, max time.Duration) time.Duration {
	if attempt <= 0 {
		attempt = 1
	}
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= max {
			return max
		}
	}
	if d > max {
		d = max
	}
	return d
}

func (a *Agent) setConn(c *transport.Conn) {
	a.connMu.Lock()
	a.conn = c
	a.connMu.Unlock()
}

func (a *Agent) register(conn *transport.Conn) error {
	paths := make([]string, len(a.logFiles))
	for i, spec := range a.logFiles {
		paths[i] = spec.Path
	}
	payload := types.RegisterPayload{
		ServerID:   a.cfg.ServerID,
		ServerName: a.cfg.ServerName,
		LogFiles:   paths,
		Timestamp:  time.Now().UTC(),
		Version:    Version,
		Platform:   currentPlatform(),
	}
	return conn.SendType(types.FrameRegister, payload)
}

// send writes data over the current link if one is open, dropping it
// silently otherwise per the at-most-once delivery contract.
func (a *Agent) send(frameType string, data any) {
	a.connMu.Lock()
	conn := a.conn
	a.connMu.Unlock()
	if conn == nil {
		return
	}
	if err := conn.SendType(frameType, data); err != nil {
		log.WithServerID(a.cfg.ServerID).Warn().Err(err).Str("frameType", frameType).Msg("send failed")
	}
}

func (a *Agent) uptime() time.Duration {
	return time.Since(a.startedAt)
}
