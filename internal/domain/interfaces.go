package domain

import (
	"context"

	"coverd/internal/art"
)

// Session is one open connection to the playback daemon.
// Implementations own the underlying sockets and must be safe to Close
// while WaitForChange is blocked.
//
//go:generate mockgen -destination=mocks/session_mock.go -package=mocks coverd/internal/domain Session,Dialer
type Session interface {
	// Authenticate sends the shared secret to the daemon.
	// A failure is non-fatal; callers may keep using the session.
	Authenticate(secret string) error

	// CurrentTrack returns the track the daemon reports as current,
	// or nil when nothing is playing.
	CurrentTrack() (*Track, error)

	// AlbumArt retrieves the cover art payload for a file identifier.
	// The payload shape is daemon-defined and must be normalized.
	AlbumArt(uri string) (art.Payload, error)

	// WaitForChange blocks until the daemon reports a change in the given
	// subsystem, the session errors, or ctx is cancelled. It returns the
	// name of the changed subsystem.
	WaitForChange(ctx context.Context, subsystem string) (string, error)

	// Close tears down the session and unblocks any pending wait.
	Close() error
}

// Dialer opens sessions to the playback daemon.
type Dialer interface {
	Dial(ctx context.Context) (Session, error)
}

// Composer renders album art and optional track metadata onto a canvas.
type Composer interface {
	// Render produces the encoded output bitmap. A nil meta (or one with
	// no text fields) yields a plain scaled copy of the art.
	Render(artData []byte, size CanvasSize, meta *Track) ([]byte, error)
}

// Invoker pushes a rendered artifact to the physical display.
type Invoker interface {
	Display(ctx context.Context, path string) error
}
