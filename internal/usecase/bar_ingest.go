package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tsescan/internal/domain/models"
	"tsescan/internal/domain/repository"
	"tsescan/pkg/logger"
)

// BarBatch is the wire shape of a daily-bar ingest message.
type BarBatch struct {
	Symbol string       `json:"symbol"`
	Source string       `json:"source"`
	Bars   []models.Bar `json:"bars"`
}

// BarIngestHandler consumes daily-bar batches from Kafka and persists them.
// Malformed batches are logged and dropped; retrying cannot fix them.
type BarIngestHandler struct {
	topic   string
	storage repository.BarStorage
	metrics repository.Metrics
	log     *logger.Logger
}

func NewBarIngestHandler(topic string, storage repository.BarStorage, metrics repository.Metrics, log *logger.Logger) *BarIngestHandler {
	return &BarIngestHandler{topic: topic, storage: storage, metrics: metrics, log: log}
}

func (h *BarIngestHandler) Topic() string {
	return h.topic
}

func (h *BarIngestHandler) Handle(ctx context.Context, data []byte) error {
	var batch BarBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		h.log.Warn("dropping undecodable bar batch", logger.Error(err))
		if h.metrics != nil {
			h.metrics.RecordError("ingest_decode")
		}
		return nil
	}
	if batch.Symbol == "" || len(batch.Bars) == 0 {
		h.log.Warn("dropping empty bar batch")
		return nil
	}

	if err := models.ValidateSeries(batch.Symbol, batch.Bars); err != nil {
		var malformed *models.MalformedRecordError
		if errors.As(err, &malformed) {
			h.log.Warn("dropping malformed bar batch",
				logger.String("symbol", batch.Symbol), logger.Error(err))
			if h.metrics != nil {
				h.metrics.RecordError("ingest_malformed")
			}
			return nil
		}
		return err
	}

	if err := h.storage.StoreBars(ctx, batch.Symbol, batch.Bars); err != nil {
		return fmt.Errorf("store bars for %s: %w", batch.Symbol, err)
	}

	if h.metrics != nil {
		source := batch.Source
		if source == "" {
			source = "kafka"
		}
		h.metrics.RecordBarsIngested(source, len(batch.Bars))
	}
	h.log.Debug("ingested bar batch",
		logger.String("symbol", batch.Symbol), logger.Int("bars", len(batch.Bars)))
	return nil
}
