package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/briefing/internal/api/handlers"
	"github.com/wonny/briefing/internal/api/stream"
	"github.com/wonny/briefing/internal/briefing"
	"github.com/wonny/briefing/internal/contracts"
	"github.com/wonny/briefing/internal/dashboard"
	"github.com/wonny/briefing/internal/store"
	"github.com/wonny/briefing/pkg/logger"
	"github.com/wonny/briefing/pkg/numfmt"
)

func writeRanking(t *testing.T, dir, date string, tickers ...string) {
	t.Helper()
	snap := contracts.RankingSnapshot{Date: date}
	for i, tk := range tickers {
		sector := "반도체"
		if i%2 == 1 {
			sector = "은행"
		}
		snap.Rankings = append(snap.Rankings, contracts.Stock{
			Rank:          i + 1,
			CompositeRank: i + 1,
			Ticker:        tk,
			Name:          tk + " 전자",
			Sector:        sector,
			Score:         numfmt.Float(float64(100 - i)),
			PER:           numfmt.Float(float64(20 - 2*i)),
		})
	}
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ranking_"+date+".json"), data, 0o644))
}

type testServer struct {
	*httptest.Server
	hub     *stream.Hub
	metrics *Metrics
}

func newTestServer(t *testing.T, dir string, health map[string]HealthCheck) *testServer {
	t.Helper()
	log := logger.Nop()
	svc := briefing.NewService(store.NewFileSource(dir), briefing.DefaultOptions(), log)
	hub := stream.NewHub(log, nil)
	m := NewMetrics()

	router := NewRouter(RouterDeps{
		Briefing:    handlers.NewBriefingHandler(svc, dashboard.DefaultOptions(), log),
		Hub:         hub,
		Metrics:     m,
		CORSOrigins: []string{"http://localhost:5173"},
		Health:      health,
	}, log)

	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		hub.Close()
		ts.Close()
	})
	return &testServer{Server: ts, hub: hub, metrics: m}
}

func stateDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeRanking(t, dir, "20261014", "C", "A", "B", "F")
	writeRanking(t, dir, "20261015", "B", "A", "C", "D")
	writeRanking(t, dir, "20261016", "A", "B", "C", "D")
	return dir
}

func getJSON(t *testing.T, url string, dest interface{}) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if dest != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
	}
	return resp
}

func TestRouter_Payloads(t *testing.T) {
	ts := newTestServer(t, stateDir(t), nil)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"dates", "/api/dates", http.StatusOK},
		{"latest", "/api/rankings/latest", http.StatusOK},
		{"by date", "/api/rankings/20261015", http.StatusOK},
		{"missing date", "/api/rankings/20991231", http.StatusNotFound},
		{"bad date", "/api/rankings/latest-ish", http.StatusBadRequest},
		{"picks", "/api/picks", http.StatusOK},
		{"deathlist", "/api/deathlist", http.StatusOK},
		{"market", "/api/market", http.StatusOK},
		{"pipeline", "/api/pipeline", http.StatusOK},
		{"ai", "/api/ai", http.StatusOK},
		{"history", "/api/history", http.StatusOK},
		{"history ticker", "/api/history/A", http.StatusOK},
		{"history unknown", "/api/history/ZZZ", http.StatusNotFound},
		{"unknown route", "/api/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := getJSON(t, ts.URL+tt.path, nil)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestRouter_DatesAndErrors(t *testing.T) {
	ts := newTestServer(t, stateDir(t), nil)

	var dates contracts.DatesResponse
	resp := getJSON(t, ts.URL+"/api/dates", &dates)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Len(t, resp.Header.Get(handlers.RequestIDHeader), 8)
	assert.Equal(t, []string{"20261016", "20261015", "20261014"}, dates.Dates)

	var body handlers.ErrorResponse
	resp = getJSON(t, ts.URL+"/api/rankings/20991231", &body)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, body.Error)
	assert.Equal(t, resp.Header.Get(handlers.RequestIDHeader), body.RequestID)
}

func TestRouter_Picks(t *testing.T) {
	ts := newTestServer(t, stateDir(t), nil)

	var picks contracts.PicksResponse
	getJSON(t, ts.URL+"/api/picks", &picks)
	require.Len(t, picks.Picks, 3)
	assert.Equal(t, "A", picks.Picks[0].Ticker)

	var view dashboard.PicksView
	getJSON(t, ts.URL+"/api/views/picks", &view)
	assert.True(t, view.Available)
	require.Len(t, view.Rows, 3)
	assert.Equal(t, "2→2→1위", view.Rows[0].Arrow)
	assert.NotNil(t, view.Rows[0].Sparkline)
}

func TestRouter_RankingView(t *testing.T) {
	ts := newTestServer(t, stateDir(t), nil)

	tests := []struct {
		name    string
		query   string
		status  int
		tickers []string
	}{
		{"default", "", http.StatusOK, []string{"A", "B", "C", "D"}},
		{"per desc", "?sort=per&dir=desc", http.StatusOK, []string{"A", "B", "C", "D"}},
		{"per asc", "?sort=per", http.StatusOK, []string{"D", "C", "B", "A"}},
		{"sector", "?sector=은행", http.StatusOK, []string{"B", "D"}},
		{"verified", "?status=verified", http.StatusOK, []string{"A", "B", "C"}},
		{"all statuses", "?status=all", http.StatusOK, []string{"A", "B", "C", "D"}},
		{"bad sort", "?sort=mood", http.StatusBadRequest, nil},
		{"bad dir", "?dir=up", http.StatusBadRequest, nil},
		{"bad status", "?status=maybe", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var view dashboard.RankingView
			resp := getJSON(t, ts.URL+"/api/views/rankings"+tt.query, &view)
			require.Equal(t, tt.status, resp.StatusCode)
			if tt.status != http.StatusOK {
				return
			}
			got := make([]string, 0, len(view.Rows))
			for _, row := range view.Rows {
				got = append(got, row.Stock.Ticker)
			}
			assert.Equal(t, tt.tickers, got)
			assert.Equal(t, 4, view.Total)
		})
	}
}

func TestRouter_MarketAndDeathListViews(t *testing.T) {
	ts := newTestServer(t, stateDir(t), nil)

	var market dashboard.MarketView
	resp := getJSON(t, ts.URL+"/api/views/market", &market)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "20261016", market.Date)

	var death dashboard.DeathListView
	resp = getJSON(t, ts.URL+"/api/views/deathlist", &death)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, death.Available)
}

func TestRouter_EmptyState(t *testing.T) {
	ts := newTestServer(t, t.TempDir(), nil)

	resp := getJSON(t, ts.URL+"/api/rankings/latest", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = getJSON(t, ts.URL+"/api/views/rankings", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var dates contracts.DatesResponse
	resp = getJSON(t, ts.URL+"/api/dates", &dates)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, dates.Dates)
}

func TestRouter_Health(t *testing.T) {
	ok := newTestServer(t, t.TempDir(), map[string]HealthCheck{
		"redis": func(context.Context) error { return nil },
	})
	var body map[string]interface{}
	resp := getJSON(t, ok.URL+"/health", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])

	bad := newTestServer(t, t.TempDir(), map[string]HealthCheck{
		"database": func(context.Context) error { return errors.New("connection refused") },
	})
	resp = getJSON(t, bad.URL+"/health", &body)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "degraded", body["status"])
}

func TestRouter_CORS(t *testing.T) {
	ts := newTestServer(t, stateDir(t), nil)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/dates", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "http://evil.example")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRouter_Metrics(t *testing.T) {
	ts := newTestServer(t, stateDir(t), nil)

	getJSON(t, ts.URL+"/api/dates", nil)

	want := `briefing_http_requests_total{method="GET",route="/api/dates",status="200"} 1`
	assert.Eventually(t, func() bool {
		resp, err := http.Get(ts.URL + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		return err == nil && strings.Contains(string(body), want)
	}, 2*time.Second, 20*time.Millisecond)
}

func TestRouter_Stream(t *testing.T) {
	ts := newTestServer(t, stateDir(t), nil)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return ts.hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	Broadcaster{Hub: ts.hub, Metrics: ts.metrics}.Publish(map[string]string{"type": "snapshot.updated", "date": "20261017"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev map[string]string
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "20261017", ev["date"])
}

func TestRouter_Preflight(t *testing.T) {
	ts := newTestServer(t, stateDir(t), nil)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/views/rankings", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "GET")
}
