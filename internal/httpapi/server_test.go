package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/gaia-platform/access-control/internal/access/engine"
	"github.com/gaia-platform/access-control/internal/access/graph"
	"github.com/gaia-platform/access-control/internal/access/notify"
	"github.com/gaia-platform/access-control/internal/access/seed"
	"github.com/gaia-platform/access-control/internal/access/service"
	"github.com/gaia-platform/access-control/internal/access/store/memory"
	"github.com/gaia-platform/access-control/internal/access/types"
	"github.com/gaia-platform/access-control/internal/httpapi"
)

func newTestServer(t *testing.T) (*httpapi.Server, *engine.Engine) {
	t.Helper()

	store := graph.NewStore()
	eng := engine.New()
	scans := service.NewScanService(memory.NewScanJournal(), zap.NewNop())
	control := service.NewControlService(store, eng, scans, seed.Default(), notify.Nop{}, zap.NewNop())
	if err := control.Reset(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:  zap.NewNop(),
		Addr:    "127.0.0.1:0",
		Control: control,
	})
	return srv, eng
}

func TestPostMessage_TimeUpdateReturnsSnapshot(t *testing.T) {
	srv, eng := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/message", strings.NewReader(`{"time": 720}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: %q", ct)
	}
	if got := eng.TimeNow(); got != 720 {
		t.Errorf("expected clock 720, got %d", got)
	}

	var snap types.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if len(snap.Buildings) != 1 || len(snap.People) != 3 {
		t.Errorf("expected seeded snapshot, got %d buildings / %d people",
			len(snap.Buildings), len(snap.People))
	}
}

func TestPostMessage_BadJSON(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/message", strings.NewReader(`{"time": `))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error != "bad_json" {
		t.Errorf("expected bad_json, got %q", body.Error)
	}
}

func TestPostMessage_MethodRouting(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/message", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /v1/message: expected 405, got %d", rec.Code)
	}
}

func TestGetSnapshot(t *testing.T) {
	srv, _ := newTestServer(t)

	// Record a scan, then read the view back.
	post := httptest.NewRequest(http.MethodPost, "/v1/message",
		strings.NewReader(`{"scan": {"scan_type": "badge", "person_id": 1, "room_id": 102}}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, post)
	if rec.Code != http.StatusOK {
		t.Fatalf("scan message: expected 200, got %d", rec.Code)
	}

	get := httptest.NewRequest(http.MethodGet, "/v1/snapshot", nil)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, get)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var snap types.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Recording alone does not move anyone; everyone is still outside.
	if len(snap.People) != 3 {
		t.Errorf("expected 3 people outside, got %d", len(snap.People))
	}
}
