package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"tsescan/internal/analytics"
	"tsescan/internal/domain/models"
	"tsescan/internal/usecase"
	"tsescan/pkg/cache"
	"tsescan/pkg/config"
	"tsescan/pkg/logger"
)

type stubLoader struct {
	series map[string][]models.Bar
}

func (s *stubLoader) LoadSeries(_ context.Context, symbol string, _ int) (*models.SourcedSeries, error) {
	bars, ok := s.series[symbol]
	if !ok {
		return nil, fmt.Errorf("%s: not found", symbol)
	}
	return &models.SourcedSeries{Symbol: symbol, Source: "stub", Bars: bars}, nil
}

func risingBars(n int) []models.Bar {
	bars := make([]models.Bar, n)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	price := 100.0
	for i := range bars {
		bars[i] = models.Bar{
			Date: day.AddDate(0, 0, i),
			Open: price, High: price * 1.01, Low: price * 0.99, Close: price,
			Volume: 1e6,
		}
		price *= 1.005
	}
	return bars
}

func newTestHandler(t *testing.T) (*Handler, *echo.Echo) {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	cfg := &config.Config{}
	cfg.Environment = "test"
	cfg.Scanner.Symbols = []string{"ALPHA"}
	cfg.Scanner.TopN = 10
	cfg.Scanner.HistoryDays = 260
	cfg.Cache.TTL = config.Duration(time.Minute)

	mem := cache.NewMemoryCache(cache.WithMemoryMaxSize(10))
	t.Cleanup(func() { _ = mem.Close() })

	analyzer := usecase.NewUniverseAnalyzer(analytics.DefaultConfig(), 2, nil)
	loader := &stubLoader{series: map[string][]models.Bar{"ALPHA": risingBars(260)}}
	svc := usecase.NewScanService(cfg, loader, analyzer, mem, nil, nil, log)

	h := NewHandler(svc, analyzer, NewWSHub(log), log)
	e := echo.New()
	h.RegisterRoutes(e)
	return h, e
}

func doJSON(t *testing.T, e *echo.Echo, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	return env
}

func TestHealth(t *testing.T) {
	_, e := newTestHandler(t)
	rec := doJSON(t, e, http.MethodGet, "/api/health", nil)
	if env := decodeEnvelope(t, rec); env.Status != http.StatusOK {
		t.Fatalf("expected 200, got %d", env.Status)
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doJSON(t, e, http.MethodPost, "/api/analyze", map[string]interface{}{
		"data": map[string][]models.Bar{"ALPHA": risingBars(260)},
	})
	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", env.Status, rec.Body.String())
	}

	var result models.ScanResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(result.Signals) != 1 {
		t.Fatalf("expected 1 signal, got %d", len(result.Signals))
	}
	if result.Signals["ALPHA"].Direction != models.DirectionLong {
		t.Fatalf("expected LONG, got %s", result.Signals["ALPHA"].Direction)
	}
}

func TestAnalyzeRejectsEmptyBody(t *testing.T) {
	_, e := newTestHandler(t)
	rec := doJSON(t, e, http.MethodPost, "/api/analyze", map[string]interface{}{})
	if env := decodeEnvelope(t, rec); env.Status != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing data, got %d", env.Status)
	}
}

func TestLatestBeforeAndAfterScan(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doJSON(t, e, http.MethodGet, "/api/scan/latest", nil)
	if env := decodeEnvelope(t, rec); env.Status != http.StatusNotFound {
		t.Fatalf("expected 404 before any scan, got %d", env.Status)
	}

	rec = doJSON(t, e, http.MethodPost, "/api/scan/run", map[string]interface{}{})
	if env := decodeEnvelope(t, rec); env.Status != http.StatusOK {
		t.Fatalf("scan run failed: %d %s", env.Status, rec.Body.String())
	}

	rec = doJSON(t, e, http.MethodGet, "/api/scan/latest", nil)
	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusOK {
		t.Fatalf("expected 200 after scan, got %d", env.Status)
	}
	var result models.ScanResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if _, ok := result.Signals["ALPHA"]; !ok {
		t.Fatal("cached result should carry the scanned symbol")
	}
}

func TestDashboard(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doJSON(t, e, http.MethodGet, "/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No scan has completed yet") {
		t.Fatal("empty dashboard should say no scan has run")
	}

	doJSON(t, e, http.MethodPost, "/api/scan/run", map[string]interface{}{})
	rec = doJSON(t, e, http.MethodGet, "/dashboard", nil)
	if !strings.Contains(rec.Body.String(), "ALPHA") {
		t.Fatal("dashboard should list the scanned symbol")
	}
}

func TestWebsocketReceivesScan(t *testing.T) {
	h, e := newTestHandler(t)

	srv := httptest.NewServer(e)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Wait for the hub to register the client before broadcasting.
	deadline := time.Now().Add(2 * time.Second)
	for h.hub.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	doJSON(t, e, http.MethodPost, "/api/scan/run", map[string]interface{}{})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var result models.ScanResult
	if err := conn.ReadJSON(&result); err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	if _, ok := result.Signals["ALPHA"]; !ok {
		t.Fatal("broadcast should carry the scan result")
	}
}
