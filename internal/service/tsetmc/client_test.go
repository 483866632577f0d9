package tsetmc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	tsehttp "tsescan/pkg/http"
	"tsescan/pkg/logger"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewClient(Config{BaseURL: baseURL, APIKey: "secret"}, tsehttp.NewClient(), log)
}

func TestFetchBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/history" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-API-Key") != "secret" {
			t.Fatal("missing api key header")
		}
		if r.URL.Query().Get("symbol") != "FOOLAD" || r.URL.Query().Get("days") != "260" {
			t.Fatalf("unexpected query %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"symbol": "FOOLAD",
			"bars": [
				{"date": "2024-01-01", "open": 100, "high": 105, "low": 99, "close": 104, "volume": 150000},
				{"date": "2024-01-02", "open": 104, "high": 108, "low": 103, "close": 107, "volume": 180000}
			]
		}`))
	}))
	defer srv.Close()

	bars, err := newTestClient(t, srv.URL).FetchBars(context.Background(), "FOOLAD", 260)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if bars[1].Close != 107 {
		t.Fatalf("wrong close: %v", bars[1].Close)
	}
	if bars[0].Date.Format("2006-01-02") != "2024-01-01" {
		t.Fatalf("wrong date: %v", bars[0].Date)
	}
}

func TestFetchBarsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := newTestClient(t, srv.URL).FetchBars(context.Background(), "FOOLAD", 260); err == nil {
		t.Fatal("expected error on 502")
	}
}

func TestFetchBarsEmptyHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbol": "GHOST", "bars": []}`))
	}))
	defer srv.Close()

	if _, err := newTestClient(t, srv.URL).FetchBars(context.Background(), "GHOST", 260); err == nil {
		t.Fatal("expected error for empty history")
	}
}

func TestFetchBarsBadDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbol": "FOOLAD", "bars": [{"date": "bogus", "open": 1, "high": 1, "low": 1, "close": 1, "volume": 0}]}`))
	}))
	defer srv.Close()

	if _, err := newTestClient(t, srv.URL).FetchBars(context.Background(), "FOOLAD", 260); err == nil {
		t.Fatal("expected error for unparseable date")
	}
}
