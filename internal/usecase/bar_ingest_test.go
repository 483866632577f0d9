package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"tsescan/internal/domain/models"
)

type fakeStorage struct {
	stored map[string][]models.Bar
	err    error
}

func (f *fakeStorage) StoreBars(_ context.Context, symbol string, bars []models.Bar) error {
	if f.err != nil {
		return f.err
	}
	if f.stored == nil {
		f.stored = make(map[string][]models.Bar)
	}
	f.stored[symbol] = bars
	return nil
}

func TestBarIngestStoresValidBatch(t *testing.T) {
	storage := &fakeStorage{}
	h := NewBarIngestHandler("bars", storage, nil, testLogger(t))

	if h.Topic() != "bars" {
		t.Fatalf("unexpected topic %q", h.Topic())
	}

	payload, _ := json.Marshal(BarBatch{Symbol: "FOOLAD", Bars: geomBars(10, 100, 1.01, 1e6)})
	if err := h.Handle(context.Background(), payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(storage.stored["FOOLAD"]) != 10 {
		t.Fatalf("expected 10 stored bars, got %d", len(storage.stored["FOOLAD"]))
	}
}

func TestBarIngestDropsMalformedBatch(t *testing.T) {
	storage := &fakeStorage{}
	h := NewBarIngestHandler("bars", storage, nil, testLogger(t))

	bars := geomBars(5, 100, 1.01, 1e6)
	bars[2].Close = -1
	payload, _ := json.Marshal(BarBatch{Symbol: "KHODRO", Bars: bars})

	// nil means "do not retry": the batch is broken, not the broker.
	if err := h.Handle(context.Background(), payload); err != nil {
		t.Fatalf("malformed batch must be dropped, not retried: %v", err)
	}
	if len(storage.stored) != 0 {
		t.Fatal("malformed batch must not reach storage")
	}
}

func TestBarIngestDropsGarbage(t *testing.T) {
	h := NewBarIngestHandler("bars", &fakeStorage{}, nil, testLogger(t))
	if err := h.Handle(context.Background(), []byte("{not json")); err != nil {
		t.Fatalf("garbage must be dropped, not retried: %v", err)
	}
}

func TestBarIngestPropagatesStorageErrors(t *testing.T) {
	boom := errors.New("clickhouse down")
	h := NewBarIngestHandler("bars", &fakeStorage{err: boom}, nil, testLogger(t))

	payload, _ := json.Marshal(BarBatch{Symbol: "FOOLAD", Bars: geomBars(5, 100, 1.01, 1e6)})
	if err := h.Handle(context.Background(), payload); !errors.Is(err, boom) {
		t.Fatalf("storage errors must propagate for retry, got %v", err)
	}
}
