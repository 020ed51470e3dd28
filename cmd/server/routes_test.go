package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hhgyloh/untisplan-go/internal/config"
	"github.com/hhgyloh/untisplan-go/internal/logger"
	"github.com/hhgyloh/untisplan-go/internal/metrics"
	"github.com/hhgyloh/untisplan-go/internal/plan"
	"github.com/hhgyloh/untisplan-go/internal/storage"
	"github.com/hhgyloh/untisplan-go/internal/untis"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubMonitor fakes the substitution monitor endpoint. It serves canned
// envelopes keyed by the requested wire date and counts requests.
type stubMonitor struct {
	mu        sync.Mutex
	envelopes map[int]any
	requests  int
}

func (s *stubMonitor) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests++
		s.mu.Unlock()

		var body struct {
			Date int `json:"date"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		w.Header().Set("Content-Type", "application/json")
		s.mu.Lock()
		env, ok := s.envelopes[body.Date]
		s.mu.Unlock()
		if !ok {
			_, _ = w.Write([]byte(`{"payload":null,"error":null}`))
			return
		}
		_ = json.NewEncoder(w).Encode(env)
	}
}

func (s *stubMonitor) requestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func monitorEnvelope(dateCode int, next *int) map[string]any {
	payload := map[string]any{
		"date":             dateCode,
		"lastUpdate":       "15.01.2024 07:42",
		"affectedElements": map[string][]string{"1": {"10a"}},
		"messageData":      map[string]any{"messages": []any{}},
		"rows": []map[string]any{
			{"data": []string{"3", "9:50-10:35", "10a", "Deg1", "B204", "Schmidt", "Vertretung", ""}, "group": "10a"},
		},
		"nextDate": nil,
	}
	if next != nil {
		payload["nextDate"] = *next
	}
	return map[string]any{"payload": payload, "error": nil}
}

type testServer struct {
	router *gin.Engine
	stub   *stubMonitor
	db     *storage.DB
}

func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()

	stub := &stubMonitor{envelopes: map[int]any{}}
	monitor := httptest.NewServer(stub.handler())
	t.Cleanup(monitor.Close)

	db, err := storage.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	if cfg == nil {
		cfg = &config.Config{MaxPlansPerRequest: 10}
	}
	cfg.UntisHost = monitor.URL
	if cfg.SchoolName == "" {
		cfg.SchoolName = "testschool"
	}
	if cfg.FormatName == "" {
		cfg.FormatName = "Vertretung Netz"
	}

	log := logger.NewWithWriter("error", io.Discard)
	m := metrics.New(prometheus.NewRegistry())
	client := untis.NewClient(cfg.UntisHost, cfg.SchoolName, cfg.FormatName, 5*time.Second)
	svc := plan.NewService(client, log, m, 0)

	router := gin.New()
	setupRoutes(router, newAPI(svc, db, cfg, log), db, prometheus.NewRegistry(), cfg)

	return &testServer{router: router, stub: stub, db: db}
}

func (ts *testServer) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	ts.router.ServeHTTP(w, req)
	return w
}

func TestHealthzEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.get("/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestReadyEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.get("/ready")
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestPlanEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.stub.envelopes[20240115] = monitorEnvelope(20240115, nil)

	w := ts.get("/api/v1/plan/2024-01-15")
	require.Equal(t, http.StatusOK, w.Code)

	var got plan.DayPlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, got.Date.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))
	require.Len(t, got.Entries, 1)
	assert.Equal(t, "Deutsch G1", got.Entries[0].Subject.LongName)
}

func TestPlanEndpointBadDate(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.get("/api/v1/plan/15.01.2024")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanEndpointNotFound(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.get("/api/v1/plan/2024-01-15")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "2024-01-15", body["requested"])
}

func TestPlansEndpointFollowsChain(t *testing.T) {
	ts := newTestServer(t, nil)
	next := 20240116
	ts.stub.envelopes[20240115] = monitorEnvelope(20240115, &next)
	ts.stub.envelopes[20240116] = monitorEnvelope(20240116, nil)

	w := ts.get("/api/v1/plans?start=2024-01-15&count=5")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Plans   []plan.DayPlan `json:"plans"`
		Partial bool           `json:"partial"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Plans, 2)
	assert.False(t, body.Partial)
}

func TestPlansEndpointClampsCount(t *testing.T) {
	ts := newTestServer(t, &config.Config{MaxPlansPerRequest: 2})

	// An endless chain; the server must stop at the configured maximum.
	for code := 20240115; code < 20240125; code++ {
		next := code + 1
		ts.stub.envelopes[code] = monitorEnvelope(code, &next)
	}

	w := ts.get("/api/v1/plans?start=2024-01-15&count=" + strconv.Itoa(50))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Plans []plan.DayPlan `json:"plans"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Plans, 2)
	assert.Equal(t, 2, ts.stub.requestCount())
}

func TestPlansEndpointBadCount(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.get("/api/v1/plans?count=minus")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestArchiveEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, ts.db.SavePlan(context.Background(), &plan.DayPlan{
		Date:       date,
		LastUpdate: "15.01.2024 07:42",
	}))

	w := ts.get("/api/v1/archive")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Plans []storage.ArchivedPlan `json:"plans"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Plans, 1)
	assert.Equal(t, "2024-01-15", body.Plans[0].Date)
}

func TestArchiveEndpointEmpty(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.get("/api/v1/archive")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"plans":[]}`, w.Body.String())
}

func TestMetricsEndpointBasicAuth(t *testing.T) {
	ts := newTestServer(t, &config.Config{
		MaxPlansPerRequest: 10,
		MetricsUsername:    "prometheus",
		MetricsPassword:    "secret",
	})

	w := ts.get("/metrics")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	req.SetBasicAuth("prometheus", "secret")
	authed := httptest.NewRecorder()
	ts.router.ServeHTTP(authed, req)
	assert.Equal(t, http.StatusOK, authed.Code)
}

func TestParseDateParamToday(t *testing.T) {
	got, err := parseDateParam("today")
	require.NoError(t, err)
	assert.Equal(t, plan.DayStart(time.Now().UTC()), got)
}
