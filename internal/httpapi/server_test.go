package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"audioevents/pkg/types"
)

type mockService struct {
	stats     types.StatsResponse
	events    []types.EventRecord
	ready     bool
	lastLimit int
}

func (m *mockService) Stats() types.StatsResponse { return m.stats }
func (m *mockService) Ready() bool                { return m.ready }
func (m *mockService) Events(limit int) types.EventsResponse {
	m.lastLimit = limit
	evts := m.events
	if len(evts) > limit {
		evts = evts[len(evts)-limit:]
	}
	return types.EventsResponse{Events: evts, Total: uint64(len(m.events))}
}

func TestHealthz(t *testing.T) {
	r := NewMux(&mockService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("status=%d body=%q", w.Code, w.Body.String())
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("missing security header, got %q", got)
	}
}

func TestReadyz(t *testing.T) {
	r := NewMux(&mockService{ready: true})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestReadyz_NotReady(t *testing.T) {
	r := NewMux(&mockService{ready: false})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "stopped") {
		t.Fatalf("body=%q", w.Body.String())
	}
}

func TestStatsHandler(t *testing.T) {
	svc := &mockService{stats: types.StatsResponse{Armed: true, Looper: types.LooperStatus{Name: "main", Executed: 12}}}
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("content-type=%s", ct)
	}
	var body types.StatsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !body.Armed || body.Looper.Name != "main" || body.Looper.Executed != 12 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestEventsHandler_DefaultAndExplicitLimit(t *testing.T) {
	size := int32(4096)
	svc := &mockService{events: []types.EventRecord{
		{Seq: 1, Kind: "decoder_initialized", DecoderName: "a"},
		{Seq: 2, Kind: "track_underrun", BufferSizeBytes: &size},
	}}
	r := NewMux(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if svc.lastLimit != defaultEventsLimit {
		t.Fatalf("limit = %d, want default %d", svc.lastLimit, defaultEventsLimit)
	}
	var body types.EventsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Events) != 2 || body.Total != 2 {
		t.Fatalf("unexpected body: %+v", body)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events?limit=1", nil))
	body = types.EventsResponse{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Events) != 1 || body.Events[0].Seq != 2 || *body.Events[0].BufferSizeBytes != 4096 {
		t.Fatalf("unexpected limited body: %+v", body)
	}
}

func TestEventsHandler_EmptyIsArray(t *testing.T) {
	r := NewMux(&mockService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events", nil))
	if !strings.Contains(w.Body.String(), `"events":[]`) {
		t.Fatalf("expected empty array, got %q", w.Body.String())
	}
}

func TestEventsHandler_BadLimit(t *testing.T) {
	r := NewMux(&mockService{})
	for _, q := range []string{"limit=abc", "limit=0", "limit=-4"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events?"+q, nil))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status=%d", q, w.Code)
		}
		var e types.ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil || e.Code != http.StatusBadRequest {
			t.Fatalf("%s: bad error payload %q", q, w.Body.String())
		}
	}
}

func TestCORS_PreflightWhenEnabled(t *testing.T) {
	SetCORSOptions(true, []string{"http://example.test"}, nil, nil)
	defer SetCORSOptions(false, nil, nil, nil)
	r := NewMux(&mockService{})
	req := httptest.NewRequest(http.MethodOptions, "/stats", nil)
	req.Header.Set("Origin", "http://example.test")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.test" {
		t.Fatalf("allow-origin = %q", got)
	}
}

func TestSetCORSOptions_Defaults(t *testing.T) {
	SetCORSOptions(true, []string{"*"}, nil, nil)
	defer SetCORSOptions(false, nil, nil, nil)
	if len(corsAllowedMethods) != 2 || len(corsAllowedHeaders) == 0 {
		t.Fatalf("defaults not applied: %v %v", corsAllowedMethods, corsAllowedHeaders)
	}
}
