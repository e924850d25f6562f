package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/f3rmion/dfscope/internal/df"
	"github.com/f3rmion/dfscope/internal/gamedata"
	"github.com/f3rmion/dfscope/internal/refresh"
	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T) (*Server, *refresh.Store) {
	t.Helper()
	return newTestServerWith(t, Options{})
}

func newTestServerWith(t *testing.T, opts Options) (*Server, *refresh.Store) {
	t.Helper()
	catalog, err := gamedata.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	store := refresh.NewStore()
	return New(":0", store, catalog, opts), store
}

func testSnapshot(gen uint64) *df.Snapshot {
	return &df.Snapshot{
		Generation: gen,
		BuiltAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Squads:     []*df.Squad{{ID: 3, Name: "The Axes"}},
		Dwarves: []*df.Dwarf{
			{ID: 1, Name: df.Name{First: "Urist", Last: "Bronzehammer"}, Curse: df.CurseNone},
			{ID: 2, Name: df.Name{First: "Kogan", Last: "Ustuth"}, Curse: df.CurseVampire},
		},
	}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServer_Unavailable(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/dwarves", "/dwarves/1", "/squads"} {
		rec := get(t, srv.Handler(), path)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("GET %s status = %d, want %d", path, rec.Code, http.StatusServiceUnavailable)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("GET %s body: %v", path, err)
		}
		if diff := cmp.Diff(map[string]string{"status": "unavailable"}, body); diff != "" {
			t.Errorf("GET %s body mismatch (-want +got):\n%s", path, diff)
		}
	}
}

func TestServer_Dwarves(t *testing.T) {
	srv, store := newTestServer(t)
	store.Swap(testSnapshot(1))

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantIDs  []int32
	}{
		{name: "all", path: "/dwarves", wantCode: http.StatusOK, wantIDs: []int32{1, 2}},
		{name: "search", path: "/dwarves?q=kogan", wantCode: http.StatusOK, wantIDs: []int32{2}},
		{name: "no match", path: "/dwarves?q=zzzzzzzzzz", wantCode: http.StatusOK, wantIDs: []int32{}},
		{name: "by id", path: "/dwarves/2", wantCode: http.StatusOK, wantIDs: []int32{2}},
		{name: "unknown id", path: "/dwarves/9", wantCode: http.StatusNotFound},
		{name: "bad id", path: "/dwarves/abc", wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv.Handler(), tt.path)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantIDs == nil {
				return
			}
			var dwarves []*df.Dwarf
			if strings.HasPrefix(tt.path, "/dwarves/") {
				var d df.Dwarf
				if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
					t.Fatalf("decoding dwarf: %v", err)
				}
				dwarves = []*df.Dwarf{&d}
			} else if err := json.Unmarshal(rec.Body.Bytes(), &dwarves); err != nil {
				t.Fatalf("decoding dwarves: %v", err)
			}
			ids := []int32{}
			for _, d := range dwarves {
				ids = append(ids, d.ID)
			}
			if diff := cmp.Diff(tt.wantIDs, ids); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestServer_DwarfRoundTrip(t *testing.T) {
	srv, store := newTestServer(t)
	store.Swap(testSnapshot(1))

	rec := get(t, srv.Handler(), "/dwarves/2")
	var got df.Dwarf
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding dwarf: %v", err)
	}
	if got.Curse != df.CurseVampire {
		t.Errorf("Curse = %v, want %v", got.Curse, df.CurseVampire)
	}
	if got.Name.Last != "Ustuth" {
		t.Errorf("Name.Last = %q, want %q", got.Name.Last, "Ustuth")
	}
}

func TestServer_Snapshot(t *testing.T) {
	srv, store := newTestServer(t)
	store.Swap(testSnapshot(5))

	rec := get(t, srv.Handler(), "/snapshot")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got df.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding snapshot: %v", err)
	}
	if got.Generation != 5 || len(got.Dwarves) != 2 || len(got.Squads) != 1 {
		t.Errorf("snapshot = generation %d, %d dwarves, %d squads; want 5, 2, 1",
			got.Generation, len(got.Dwarves), len(got.Squads))
	}
}

func TestServer_Refresh(t *testing.T) {
	calls := 0
	tests := []struct {
		name     string
		opts     Options
		wantCode int
		wantCall int
	}{
		{name: "disabled", opts: Options{}, wantCode: http.StatusNotImplemented},
		{name: "enabled", opts: Options{Refresh: func() { calls++ }}, wantCode: http.StatusAccepted, wantCall: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls = 0
			srv, _ := newTestServerWith(t, tt.opts)
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/refresh", nil))
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if calls != tt.wantCall {
				t.Errorf("refresh calls = %d, want %d", calls, tt.wantCall)
			}
		})
	}
}

func TestServer_Status(t *testing.T) {
	srv, store := newTestServer(t)
	store.Swap(testSnapshot(7))

	rec := get(t, srv.Handler(), "/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got refresh.Status
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	want := refresh.Status{
		Generation:  7,
		Dwarves:     2,
		LastRefresh: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("status mismatch (-want +got):\n%s", diff)
	}
}

func TestServer_Data(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := get(t, srv.Handler(), "/data")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got gamedata.Catalog
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding catalog: %v", err)
	}
	if len(got.Professions) == 0 || got.Professions[0].Name != "Miner" {
		t.Errorf("Professions = %v, want Miner first", got.Professions)
	}
}

func TestCORS(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name       string
		method     string
		origin     string
		wantCode   int
		wantOrigin string
	}{
		{name: "preflight", method: http.MethodOptions, origin: "http://localhost:5173", wantCode: http.StatusNoContent, wantOrigin: "http://localhost:5173"},
		{name: "no origin", method: http.MethodGet, wantCode: http.StatusOK, wantOrigin: "*"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/status", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
		})
	}
}

func TestHub_ServeWS(t *testing.T) {
	srv, store := newTestServer(t)
	store.Swap(testSnapshot(1))

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	defer srv.hub.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	read := func() Update {
		t.Helper()
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var u Update
		if err := conn.ReadJSON(&u); err != nil {
			t.Fatalf("ReadJSON() error = %v", err)
		}
		return u
	}

	first := read()
	if first.Type != "snapshot" || first.Generation != 1 || len(first.Dwarves) != 2 {
		t.Errorf("first update = %+v, want snapshot generation 1 with 2 dwarves", first)
	}

	next := testSnapshot(2)
	next.Dwarves = next.Dwarves[:1]
	store.Swap(next)

	second := read()
	if second.Generation != 2 || len(second.Dwarves) != 1 {
		t.Errorf("second update = %+v, want generation 2 with 1 dwarf", second)
	}
}

func TestPush_DropsOldest(t *testing.T) {
	ch := make(chan []byte, 2)
	for _, m := range []string{"a", "b", "c"} {
		push(ch, []byte(m))
	}
	got := []string{string(<-ch), string(<-ch)}
	if diff := cmp.Diff([]string{"b", "c"}, got); diff != "" {
		t.Errorf("queue mismatch (-want +got):\n%s", diff)
	}
}
