package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tsescan/internal/domain/models"
)

func writeCSV(t *testing.T, dir, symbol, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, symbol+".csv"), []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
}

func TestCSVSourceReadsSeries(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "FOOLAD", `date,open,high,low,close,volume
2024-01-01,100,105,99,104,150000
2024-01-02,104,108,103,107,180000
2024-01-03,107,110,105,106,90000
`)

	src := NewCSVSource(dir)
	if src.Name() != "csv" {
		t.Fatalf("unexpected source name %q", src.Name())
	}

	bars, err := src.FetchBars(context.Background(), "FOOLAD", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bars))
	}
	if bars[0].Close != 104 || bars[2].Volume != 90000 {
		t.Fatalf("wrong values: %+v", bars)
	}
	if bars[0].Date.Format("2006-01-02") != "2024-01-01" {
		t.Fatalf("wrong date: %v", bars[0].Date)
	}
}

func TestCSVSourceTailWindow(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "KHODRO", `date,open,high,low,close,volume
2024-01-01,100,105,99,104,150000
2024-01-02,104,108,103,107,180000
2024-01-03,107,110,105,106,90000
`)

	bars, err := NewCSVSource(dir).FetchBars(context.Background(), "KHODRO", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 || bars[0].Close != 107 {
		t.Fatalf("expected the last 2 bars, got %+v", bars)
	}
}

func TestCSVSourceMissingFile(t *testing.T) {
	if _, err := NewCSVSource(t.TempDir()).FetchBars(context.Background(), "GHOST", 0); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestCSVSourceMalformedRow(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "SAIPA", `date,open,high,low,close,volume
2024-01-01,100,105,99,104,150000
2024-01-02,104,108,103,notanumber,180000
`)

	_, err := NewCSVSource(dir).FetchBars(context.Background(), "SAIPA", 0)
	var malformed *models.MalformedRecordError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedRecordError, got %v", err)
	}
	if malformed.Index != 1 || malformed.Field != "close" {
		t.Fatalf("wrong defect location: %+v", malformed)
	}
}

func TestCSVSourceMissingColumn(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "FAMELI", `date,open,high,low,close
2024-01-01,100,105,99,104
`)

	if _, err := NewCSVSource(dir).FetchBars(context.Background(), "FAMELI", 0); err == nil {
		t.Fatal("expected error for missing volume column")
	}
}
