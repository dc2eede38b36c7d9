// Package manager owns the daemon session lifecycle and the fetch pipeline.
package manager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"coverd/internal/art"
	"coverd/internal/config"
	"coverd/internal/domain"
	"coverd/internal/status"
)

const (
	// Retry delays are fixed, not exponential.
	connectRetryDelay = 5 * time.Second
	reconnectDelay    = 2 * time.Second

	idleSubsystem = "player"
)

// Manager runs the connection loop: connect, authenticate, wait for player
// changes, and run the fetch pipeline on each one. It also accepts
// out-of-band fetch triggers from the control server; all fetch executions
// are serialized behind a single fetch-level lock.
type Manager struct {
	logger   *zap.Logger
	cfg      *config.Config
	dialer   domain.Dialer
	composer domain.Composer
	store    *status.Store
	invoker  domain.Invoker

	// fetchMu serializes the full fetch+composite+write pipeline across
	// the connection loop and triggered fetches.
	fetchMu sync.Mutex

	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a manager. Start must be called before it does anything.
func New(
	logger *zap.Logger,
	cfg *config.Config,
	dialer domain.Dialer,
	comp domain.Composer,
	store *status.Store,
	invoker domain.Invoker,
) *Manager {
	return &Manager{
		logger:   logger,
		cfg:      cfg,
		dialer:   dialer,
		composer: comp,
		store:    store,
		invoker:  invoker,
	}
}

// Start launches the connection loop in a goroutine and returns immediately.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return nil
	}

	// The loop must outlive the startup hook's context.
	runCtx, cancel := context.WithCancel(context.Background())
	m.ctx = runCtx
	m.cancel = cancel
	m.running = true

	m.wg.Add(1)
	go m.run(runCtx)

	m.logger.Info("connection manager started", zap.String("daemon", m.cfg.MPD.Addr()))
	return nil
}

// Stop cancels the loop and any in-flight triggered fetches, waiting for
// them to finish or for ctx to expire.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	m.cancel()
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("connection manager stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TriggerFetch starts an out-of-band fetch on its own short-lived session
// and returns immediately. Execution is serialized with the connection
// loop's fetches; the display is not invoked.
func (m *Manager) TriggerFetch() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		m.logger.Warn("fetch trigger ignored, manager not running")
		return
	}
	ctx := m.ctx
	m.wg.Add(1)
	m.mu.Unlock()

	fetchID := uuid.NewString()
	m.logger.Info("out-of-band fetch triggered", zap.String("fetchID", fetchID))

	go func() {
		defer m.wg.Done()

		sess, err := m.dialer.Dial(ctx)
		if err != nil {
			m.logger.Error("triggered fetch connect failed",
				zap.String("fetchID", fetchID),
				zap.Error(err))
			m.store.RecordError(err.Error())
			return
		}
		defer func() {
			if err := sess.Close(); err != nil {
				m.logger.Debug("triggered fetch session close", zap.Error(err))
			}
		}()

		m.authenticate(sess)
		m.fetch(sess)
		m.logger.Info("out-of-band fetch finished", zap.String("fetchID", fetchID))
	}()
}

// run is the session loop: Disconnected -> Connecting -> (Authenticating ->
// WaitingForChange -> Fetching ...) -> Disconnected, with fixed-delay
// reconnects. Shutdown is checked at every iteration boundary.
func (m *Manager) run(ctx context.Context) {
	defer m.wg.Done()

	for ctx.Err() == nil {
		sess, err := m.dialer.Dial(ctx)
		if err != nil {
			m.logger.Warn("daemon connect failed, retrying",
				zap.Error(err),
				zap.Duration("delay", connectRetryDelay))
			if !sleepCtx(ctx, connectRetryDelay) {
				break
			}
			continue
		}

		m.serve(ctx, sess)

		if err := sess.Close(); err != nil {
			m.logger.Debug("session close", zap.Error(err))
		}
		if !sleepCtx(ctx, reconnectDelay) {
			break
		}
	}

	m.logger.Info("connection loop exited")
}

// serve drives one established session until it errors or ctx is cancelled.
func (m *Manager) serve(ctx context.Context, sess domain.Session) {
	m.authenticate(sess)
	m.logger.Info("connected to daemon, fetching initial art")

	m.fetch(sess)
	m.maybeDisplay(ctx)

	for ctx.Err() == nil {
		subsystem, err := sess.WaitForChange(ctx, idleSubsystem)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			m.logger.Warn("change wait failed, reconnecting", zap.Error(err))
			return
		}

		m.logger.Info("daemon reported change", zap.String("subsystem", subsystem))
		m.fetch(sess)
		m.maybeDisplay(ctx)
	}
}

// authenticate sends the configured secret. Failure is logged and the
// session continues unauthenticated; later commands may then fail.
func (m *Manager) authenticate(sess domain.Session) {
	secret := m.cfg.MPD.Password
	if secret == "" {
		return
	}
	if err := sess.Authenticate(secret); err != nil {
		m.logger.Warn("daemon authentication failed, continuing unauthenticated", zap.Error(err))
	}
}

// fetch runs one full pipeline cycle: current track, album art, normalize,
// compose, artifact write, status update. Every failure is absorbed here and
// surfaced only through the status record.
func (m *Manager) fetch(sess domain.Session) {
	m.fetchMu.Lock()
	defer m.fetchMu.Unlock()

	track, err := sess.CurrentTrack()
	if err != nil {
		m.logger.Error("current track query failed", zap.Error(err))
		m.store.RecordError(err.Error())
		return
	}
	if track == nil {
		m.logger.Info("no song playing")
		m.store.Clear("no song")
		return
	}

	m.store.SetTrack(track.Artist, track.Album, track.Title)
	if track.URI == "" {
		m.logger.Info("current song has no file identifier",
			zap.String("title", track.Title))
		return
	}

	payload, err := sess.AlbumArt(track.URI)
	if err != nil {
		m.logger.Error("album art fetch failed",
			zap.String("uri", track.URI),
			zap.Error(err))
		m.store.RecordError(err.Error())
		return
	}

	data, ok := art.Normalize(payload)
	if !ok {
		m.handleMissingArt(track)
		return
	}

	out, err := m.composer.Render(data, m.cfg.Canvas(), track)
	if err != nil {
		// Never drop the update: fall back to the raw art bytes.
		m.logger.Error("composition failed, writing raw art bytes", zap.Error(err))
		out = data
	}

	if err := m.writeArtifact(out); err != nil {
		m.logger.Error("artifact write failed", zap.Error(err))
		m.store.RecordError(err.Error())
		return
	}

	m.store.RecordFetch(time.Now(), "")
	m.logger.Info("artifact updated",
		zap.String("path", m.cfg.ArtifactPath()),
		zap.String("artist", track.Artist),
		zap.String("title", track.Title),
		zap.Int("bytes", len(out)))
}

// handleMissingArt applies the fallback policy: copy the configured fallback
// image over the artifact, or leave the previous artifact untouched.
func (m *Manager) handleMissingArt(track *domain.Track) {
	if m.cfg.Output.FallbackImage == "" {
		m.logger.Info("no album art in response",
			zap.String("uri", track.URI))
		m.store.RecordError("no album art")
		return
	}

	data, err := os.ReadFile(m.cfg.Output.FallbackImage)
	if err == nil {
		err = m.writeArtifact(data)
	}
	if err != nil {
		m.logger.Error("fallback image failed", zap.Error(err))
		m.store.RecordError("failed to use default")
		return
	}

	m.logger.Info("fallback image written", zap.String("path", m.cfg.ArtifactPath()))
	m.store.RecordFetch(time.Now(), "default image used")
}

// writeArtifact replaces the artifact via a temp file in the same directory
// to narrow the partial-read window for the control server.
func (m *Manager) writeArtifact(data []byte) error {
	target := m.cfg.ArtifactPath()

	tmp, err := os.CreateTemp(filepath.Dir(target), ".cover-*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace artifact: %w", err)
	}
	return nil
}

// maybeDisplay asks the invoker to show the artifact if one exists.
// Display failures are logged and never fatal.
func (m *Manager) maybeDisplay(ctx context.Context) {
	path := m.cfg.ArtifactPath()
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := m.invoker.Display(ctx, path); err != nil {
		m.logger.Warn("display invocation failed", zap.Error(err))
	}
}

// sleepCtx waits for d, returning false when ctx is cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
