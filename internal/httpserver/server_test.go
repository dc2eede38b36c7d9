package httpserver

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"coverd/internal/config"
	"coverd/internal/status"
)

type fakeTrigger struct {
	calls int
}

func (f *fakeTrigger) TriggerFetch() { f.calls++ }

func newTestServer(t *testing.T, token string) (*Server, *config.Config, *status.Store, *fakeTrigger) {
	t.Helper()
	cfg := config.Default()
	cfg.Output.Dir = t.TempDir()
	cfg.HTTP.Token = token

	store := status.NewStore()
	trigger := &fakeTrigger{}
	return New(zap.NewNop(), cfg, store, trigger), cfg, store, trigger
}

func do(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleCurrent(t *testing.T) {
	s, cfg, _, _ := newTestServer(t, "")

	rec := do(t, s, http.MethodGet, "/current.jpg")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing artifact: expected 404, got %d", rec.Code)
	}

	payload := []byte("jpeg-bytes")
	if err := os.WriteFile(cfg.ArtifactPath(), payload, 0o644); err != nil {
		t.Fatal(err)
	}

	rec = do(t, s, http.MethodGet, "/current.jpg")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("Content-Type: expected image/jpeg, got %q", ct)
	}
	if cl := rec.Header().Get("Content-Length"); cl != "10" {
		t.Errorf("Content-Length: expected 10, got %q", cl)
	}
	body, _ := io.ReadAll(rec.Body)
	if string(body) != "jpeg-bytes" {
		t.Errorf("unexpected body: %q", body)
	}
}

func TestHandleStatus(t *testing.T) {
	s, _, store, _ := newTestServer(t, "")

	rec := do(t, s, http.MethodGet, "/status.json")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: expected application/json, got %q", ct)
	}

	var before map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&before); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if before["last_fetch"] != nil {
		t.Errorf("last_fetch should be null before any fetch, got %v", before["last_fetch"])
	}

	store.SetTrack("Artist", "Album", "Title")
	store.RecordFetch(time.Date(2026, 8, 23, 10, 30, 0, 0, time.UTC), "")

	rec = do(t, s, http.MethodGet, "/status.json")
	var after map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&after); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if after["artist"] != "Artist" || after["title"] != "Title" {
		t.Errorf("track fields missing: %v", after)
	}
	if after["last_fetch"] != "2026-08-23T10:30:00Z" {
		t.Errorf("last_fetch: expected RFC3339 UTC, got %v", after["last_fetch"])
	}
}

func TestHandleFetch(t *testing.T) {
	tests := []struct {
		name        string
		configured  string
		target      string
		wantCode    int
		wantTrigger int
	}{
		{"Valid Token", "secret", "/fetch?token=secret", http.StatusAccepted, 1},
		{"Wrong Token", "secret", "/fetch?token=nope", http.StatusForbidden, 0},
		{"Missing Token", "secret", "/fetch", http.StatusForbidden, 0},
		{"No Token Configured", "", "/fetch?token=", http.StatusForbidden, 0},
		{"Empty Token Both Sides", "", "/fetch", http.StatusForbidden, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _, trigger := newTestServer(t, tt.configured)

			rec := do(t, s, http.MethodPost, tt.target)
			if rec.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if trigger.calls != tt.wantTrigger {
				t.Errorf("trigger calls: expected %d, got %d", tt.wantTrigger, trigger.calls)
			}
			if tt.wantCode == http.StatusAccepted {
				body, _ := io.ReadAll(rec.Body)
				if string(body) != "fetching\n" {
					t.Errorf("unexpected body: %q", body)
				}
			}
		})
	}
}

func TestFetchRequiresPost(t *testing.T) {
	s, _, _, trigger := newTestServer(t, "secret")

	rec := do(t, s, http.MethodGet, "/fetch?token=secret")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
	if trigger.calls != 0 {
		t.Error("GET must not trigger a fetch")
	}
}

func TestUnknownPath(t *testing.T) {
	s, _, _, _ := newTestServer(t, "")

	rec := do(t, s, http.MethodGet, "/nope")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
