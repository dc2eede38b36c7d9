// Package mpdclient implements the playback daemon session over the MPD
// protocol.
package mpdclient

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fhs/gompd/v2/mpd"
	"go.uber.org/zap"

	"coverd/internal/art"
	"coverd/internal/domain"
)

// keepaliveInterval keeps the command connection from hitting the server's
// idle timeout between track changes.
const keepaliveInterval = 30 * time.Second

var errWatcherClosed = errors.New("watcher closed")

// Dialer opens gompd-backed sessions.
type Dialer struct {
	logger   *zap.Logger
	network  string
	addr     string
	password string
}

// NewDialer creates a dialer for the given daemon address. The password is
// used for the idle watcher connection; the command connection authenticates
// explicitly via Session.Authenticate.
func NewDialer(logger *zap.Logger, network, addr, password string) *Dialer {
	return &Dialer{logger: logger, network: network, addr: addr, password: password}
}

// Dial opens the command connection and the idle watcher.
func (d *Dialer) Dial(ctx context.Context) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client, err := mpd.Dial(d.network, d.addr)
	if err != nil {
		return nil, &ConnectionError{Addr: d.addr, Err: err}
	}

	watcher, err := mpd.NewWatcher(d.network, d.addr, d.password)
	if err != nil {
		if cerr := client.Close(); cerr != nil {
			d.logger.Debug("client close after watcher failure", zap.Error(cerr))
		}
		return nil, &ConnectionError{Addr: d.addr, Err: err}
	}

	s := &Session{
		logger:  d.logger,
		client:  client,
		watcher: watcher,
		events:  watcher.Event,
		errs:    watcher.Error,
		done:    make(chan struct{}),
	}
	go s.keepalive()

	d.logger.Debug("daemon session opened",
		zap.String("network", d.network),
		zap.String("addr", d.addr))
	return s, nil
}

// Session is one live connection pair to the daemon: a command client and an
// idle watcher sharing its lifetime.
type Session struct {
	logger  *zap.Logger
	client  *mpd.Client
	watcher *mpd.Watcher

	events <-chan string
	errs   <-chan error

	done      chan struct{}
	closeOnce sync.Once
}

// Authenticate sends the shared secret over the command connection.
func (s *Session) Authenticate(secret string) error {
	if err := s.client.Command("password %s", secret).OK(); err != nil {
		return &ProtocolError{Op: "password", Err: err}
	}
	return nil
}

// CurrentTrack returns the current song, or nil when nothing is playing.
func (s *Session) CurrentTrack() (*domain.Track, error) {
	attrs, err := s.client.CurrentSong()
	if err != nil {
		return nil, &ProtocolError{Op: "currentsong", Err: err}
	}
	if len(attrs) == 0 {
		return nil, nil
	}
	return &domain.Track{
		URI:    attrs["file"],
		Artist: attrs["Artist"],
		Album:  attrs["Album"],
		Title:  attrs["Title"],
	}, nil
}

// AlbumArt retrieves the cover art for a file identifier. The daemon returns
// chunked binary data which gompd concatenates; it is wrapped as a raw-bytes
// payload for the normalizer.
func (s *Session) AlbumArt(uri string) (art.Payload, error) {
	data, err := s.client.AlbumArt(uri)
	if err != nil {
		return art.None(), &ProtocolError{Op: "albumart", Err: err}
	}
	return art.Bytes(data), nil
}

// WaitForChange blocks until the watcher reports a change in the given
// subsystem (any subsystem when empty), the session errors, or ctx is
// cancelled. Cancellation returns ctx.Err, keeping shutdown latency bounded
// regardless of daemon activity.
func (s *Session) WaitForChange(ctx context.Context, subsystem string) (string, error) {
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case err, ok := <-s.errs:
			if !ok {
				return "", &ProtocolError{Op: "idle", Err: errWatcherClosed}
			}
			return "", &ProtocolError{Op: "idle", Err: err}
		case ev, ok := <-s.events:
			if !ok {
				return "", &ProtocolError{Op: "idle", Err: errWatcherClosed}
			}
			if subsystem == "" || ev == subsystem {
				return ev, nil
			}
			s.logger.Debug("ignoring change in other subsystem", zap.String("subsystem", ev))
		}
	}
}

// Close tears down both connections. Safe to call more than once.
func (s *Session) Close() error {
	var werr, cerr error
	s.closeOnce.Do(func() {
		close(s.done)
		if s.watcher != nil {
			werr = s.watcher.Close()
		}
		if s.client != nil {
			cerr = s.client.Close()
		}
	})
	if cerr != nil {
		return cerr
	}
	return werr
}

// keepalive pings the command connection until the session is closed. A
// failed ping stops the loop; the next command surfaces the broken session.
func (s *Session) keepalive() {
	ticker := time.NewTicker(keepaliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			if err := s.client.Ping(); err != nil {
				s.logger.Debug("keepalive ping failed", zap.Error(err))
				return
			}
		}
	}
}
