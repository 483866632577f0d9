package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tsescan/internal/domain/models"
	"tsescan/pkg/logger"
)

type stubSource struct {
	name string
	bars []models.Bar
	err  error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) FetchBars(_ context.Context, _ string, _ int) ([]models.Bar, error) {
	return s.bars, s.err
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func someBars() []models.Bar {
	return []models.Bar{{
		Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Open: 100, High: 101, Low: 99, Close: 100, Volume: 1000,
	}}
}

func TestFallbackFirstSourceWins(t *testing.T) {
	chain := NewFallbackSource(testLogger(t),
		&stubSource{name: "remote", bars: someBars()},
		&stubSource{name: "csv", bars: someBars()},
	)

	series, err := chain.LoadSeries(context.Background(), "FOOLAD", 260)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.Source != "remote" {
		t.Fatalf("expected remote to serve, got %q", series.Source)
	}
}

func TestFallbackSkipsFailingSources(t *testing.T) {
	chain := NewFallbackSource(testLogger(t),
		&stubSource{name: "remote", err: errors.New("connection refused")},
		&stubSource{name: "clickhouse", bars: nil},
		&stubSource{name: "csv", bars: someBars()},
	)

	series, err := chain.LoadSeries(context.Background(), "FOOLAD", 260)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.Source != "csv" {
		t.Fatalf("expected csv fallback, got %q", series.Source)
	}
}

func TestFallbackAllSourcesFail(t *testing.T) {
	chain := NewFallbackSource(testLogger(t),
		&stubSource{name: "remote", err: errors.New("timeout")},
		&stubSource{name: "csv", err: errors.New("no such file")},
	)

	_, err := chain.LoadSeries(context.Background(), "FOOLAD", 260)
	if err == nil {
		t.Fatal("expected error when every source fails")
	}
	if !strings.Contains(err.Error(), "remote") || !strings.Contains(err.Error(), "csv") {
		t.Fatalf("error should name the failing sources: %v", err)
	}
}

func TestFallbackNoSources(t *testing.T) {
	if _, err := NewFallbackSource(testLogger(t)).LoadSeries(context.Background(), "FOOLAD", 260); err == nil {
		t.Fatal("expected error with an empty chain")
	}
}
