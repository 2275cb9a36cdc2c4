package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/TerminAI/bridge/internal/domain/browser"
	"github.com/GriffinCanCode/TerminAI/bridge/internal/shared/id"
)

// DefaultDebugPort is the DevTools port used when a caller passes none.
const DefaultDebugPort = 9222

// Prober checks a DevTools endpoint before dialing and reports the browser version.
type Prober interface {
	Probe(ctx context.Context, endpoint string) (string, error)
}

// Recorder receives session state changes for metrics.
type Recorder interface {
	RecordConnect(err error)
	SetConnected(connected bool)
}

// Info describes the connected session.
type Info struct {
	ID             id.SessionID `json:"id"`
	Endpoint       string       `json:"endpoint"`
	BrowserVersion string       `json:"browser_version"`
	ConnectedAt    time.Time    `json:"connected_at"`
	PageURL        string       `json:"page_url"`
}

// Manager owns the single connection to a remote browser and the one page
// operations run against. A Manager is an explicit value: every host
// creates its own and passes it where it is needed.
type Manager struct {
	dialer          browser.Dialer
	endpointFor     func(port int) string
	prober          Prober
	recorder        Recorder
	logger          *zap.Logger
	rejectReconnect bool

	// owner serializes connect and page operations (single-owner lock).
	owner chan struct{}

	mu   sync.RWMutex
	conn browser.Browser
	page browser.Page
	info Info
}

// Option configures a Manager.
type Option func(*Manager)

// WithProber checks the DevTools endpoint before every dial.
func WithProber(p Prober) Option {
	return func(m *Manager) { m.prober = p }
}

// WithRecorder reports connects and state changes.
func WithRecorder(r Recorder) Option {
	return func(m *Manager) { m.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithEndpoint overrides how a debug port maps to a DevTools endpoint.
func WithEndpoint(fn func(port int) string) Option {
	return func(m *Manager) { m.endpointFor = fn }
}

// WithRejectReconnect makes Connect fail with ErrAlreadyConnected instead of
// replacing a live session.
func WithRejectReconnect() Option {
	return func(m *Manager) { m.rejectReconnect = true }
}

// NewManager creates a disconnected manager that dials through dialer.
func NewManager(dialer browser.Dialer, opts ...Option) *Manager {
	m := &Manager{
		dialer: dialer,
		endpointFor: func(port int) string {
			return fmt.Sprintf("http://localhost:%d", port)
		},
		logger: zap.NewNop(),
		owner:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Connect attaches to the browser listening on debugPort and selects the
// active page. A live session is closed and replaced unless the manager was
// built with WithRejectReconnect; a dropped one is always released. Any
// failure tears down whatever was acquired, so the manager is left
// disconnected.
func (m *Manager) Connect(ctx context.Context, debugPort int) (Info, error) {
	const op = "connect"

	if debugPort == 0 {
		debugPort = DefaultDebugPort
	}
	if debugPort < 1 || debugPort > 65535 {
		err := browser.NewError(browser.KindConnection, op, fmt.Errorf("invalid debug port %d", debugPort))
		m.record(err)
		return Info{}, err
	}

	release, err := m.lock(ctx, op)
	if err != nil {
		return Info{}, err
	}
	defer release()

	m.mu.RLock()
	prev := m.conn
	m.mu.RUnlock()
	if prev != nil {
		if m.live(prev) {
			if m.rejectReconnect {
				return Info{}, browser.NewError(browser.KindAlreadyConnected, op, nil)
			}
			m.logger.Info("Replacing existing browser session", zap.String("session_id", m.sessionID().String()))
		} else {
			m.logger.Info("Releasing dropped browser session", zap.String("session_id", m.sessionID().String()))
		}
		m.Close()
	}

	info, err := m.connect(ctx, op, debugPort)
	m.record(err)
	if err != nil {
		m.logger.Error("Failed to connect to browser", zap.Int("port", debugPort), zap.Error(err))
		m.Close()
		return Info{}, err
	}

	m.logger.Info("Connected to browser",
		zap.Int("port", debugPort),
		zap.String("session_id", info.ID.String()),
		zap.String("browser", info.BrowserVersion),
	)
	return info, nil
}

func (m *Manager) connect(ctx context.Context, op string, debugPort int) (Info, error) {
	endpoint := m.endpointFor(debugPort)

	var version string
	if m.prober != nil {
		v, err := m.prober.Probe(ctx, endpoint)
		if err != nil {
			return Info{}, browser.NewError(browser.KindConnection, op, err)
		}
		version = v
	}

	conn, err := m.dialer.Dial(ctx, endpoint)
	if err != nil {
		return Info{}, browser.NewError(browser.KindConnection, op, err)
	}

	// Published before page selection so teardown can release it on failure.
	m.mu.Lock()
	m.conn = conn
	m.mu.Unlock()

	page, err := selectPage(conn)
	if err != nil {
		return Info{}, browser.NewError(browser.KindConnection, op, fmt.Errorf("failed to open page: %w", err))
	}

	if version == "" {
		version = conn.Version()
	}
	info := Info{
		ID:             id.NewSessionID(),
		Endpoint:       endpoint,
		BrowserVersion: version,
		ConnectedAt:    time.Now(),
	}

	m.mu.Lock()
	m.page = page
	m.info = info
	m.mu.Unlock()

	return info, nil
}

// selectPage prefers the first page of the first context, then a new page in
// that context, then a new page in a fresh context.
func selectPage(conn browser.Browser) (browser.Page, error) {
	if contexts := conn.Contexts(); len(contexts) > 0 {
		if pages := contexts[0].Pages(); len(pages) > 0 {
			return pages[0], nil
		}
		return contexts[0].NewPage()
	}
	bc, err := conn.NewContext()
	if err != nil {
		return nil, err
	}
	return bc.NewPage()
}

// IsConnected reports whether a connection exists and its transport is live.
func (m *Manager) IsConnected() bool {
	m.mu.RLock()
	conn := m.conn
	m.mu.RUnlock()
	return m.live(conn)
}

// live reports whether conn is usable. A dropped transport clears the
// connected gauge; the handle itself is released by Close or the next Connect.
func (m *Manager) live(conn browser.Browser) bool {
	if conn == nil {
		return false
	}
	if conn.IsConnected() {
		return true
	}
	if m.recorder != nil {
		m.recorder.SetConnected(false)
	}
	return false
}

// Close releases the connection and clears the page. It is idempotent and
// always leaves the manager disconnected; release failures are only logged.
// Close does not wait for an in-flight operation, which then fails on its
// next page call.
func (m *Manager) Close() {
	m.mu.Lock()
	conn := m.conn
	sid := m.info.ID
	m.conn = nil
	m.page = nil
	m.info = Info{}
	m.mu.Unlock()

	if m.recorder != nil {
		m.recorder.SetConnected(false)
	}
	if conn == nil {
		return
	}
	if err := conn.Close(); err != nil {
		m.logger.Warn("Browser close failed", zap.String("session_id", sid.String()), zap.Error(err))
	}
	m.logger.Info("Browser connection closed", zap.String("session_id", sid.String()))
}

// Acquire hands out the active page under the single-owner lock. The caller
// must call release when done. It fails with ErrNoActiveSession when the
// manager is disconnected or the transport dropped.
func (m *Manager) Acquire(ctx context.Context) (browser.Page, func(), error) {
	const op = "acquire"

	release, err := m.lock(ctx, op)
	if err != nil {
		return nil, nil, err
	}

	m.mu.RLock()
	page, conn := m.page, m.conn
	m.mu.RUnlock()

	if page == nil || !m.live(conn) {
		release()
		return nil, nil, browser.NoActiveSession(op)
	}
	return page, release, nil
}

// Info returns details of the connected session.
func (m *Manager) Info() (Info, bool) {
	m.mu.RLock()
	conn, page, info := m.conn, m.page, m.info
	m.mu.RUnlock()

	if page == nil || !m.live(conn) {
		return Info{}, false
	}
	info.PageURL = page.URL()
	return info, true
}

func (m *Manager) sessionID() id.SessionID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.info.ID
}

func (m *Manager) lock(ctx context.Context, op string) (func(), error) {
	select {
	case m.owner <- struct{}{}:
	case <-ctx.Done():
		return nil, browser.NewError(browser.KindTransport, op, ctx.Err())
	}
	var once sync.Once
	return func() { once.Do(func() { <-m.owner }) }, nil
}

func (m *Manager) record(err error) {
	if m.recorder != nil {
		m.recorder.RecordConnect(err)
	}
}
