// Package status holds the shared playback/fetch status record.
package status

import (
	"encoding/json"
	"sync"
	"time"
)

// Snapshot is a point-in-time copy of the status record. It always reflects
// the most recently attempted fetch, success or failure.
type Snapshot struct {
	Artist string
	Album  string
	Title  string
	// LastFetch is zero until a fetch has written the artifact.
	LastFetch time.Time
	LastError string
}

// MarshalJSON renders the wire shape served by the control server.
// last_fetch is UTC ISO-8601 at second precision, or null when unset.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	var lastFetch *string
	if !s.LastFetch.IsZero() {
		v := s.LastFetch.UTC().Truncate(time.Second).Format(time.RFC3339)
		lastFetch = &v
	}
	return json.Marshal(struct {
		Artist    string  `json:"artist"`
		Album     string  `json:"album"`
		Title     string  `json:"title"`
		LastFetch *string `json:"last_fetch"`
		LastError string  `json:"last_error"`
	}{s.Artist, s.Album, s.Title, lastFetch, s.LastError})
}

// Store guards the single mutable status record. Every read returns a copy;
// every write is atomic with respect to concurrent readers.
type Store struct {
	mu  sync.Mutex
	cur Snapshot
}

// NewStore creates an empty status store.
func NewStore() *Store {
	return &Store{}
}

// Snapshot returns a copy of the current record.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// SetTrack updates the track fields, leaving fetch outcome fields untouched.
func (s *Store) SetTrack(artist, album, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.Artist = artist
	s.cur.Album = album
	s.cur.Title = title
}

// RecordFetch marks a completed artifact write. note carries a non-fatal
// outcome such as "default image used"; empty means a clean fetch.
func (s *Store) RecordFetch(at time.Time, note string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.LastFetch = at
	s.cur.LastError = note
}

// RecordError notes a failed fetch attempt without touching LastFetch.
func (s *Store) RecordError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.LastError = msg
}

// Clear empties the track fields, keeping the fetch timestamp. Used when the
// daemon reports no current song.
func (s *Store) Clear(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.Artist = ""
	s.cur.Album = ""
	s.cur.Title = ""
	s.cur.LastError = msg
}
