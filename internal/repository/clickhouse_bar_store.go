package repository

import (
	"context"
	"fmt"
	"time"

	"tsescan/internal/domain/models"
	"tsescan/pkg/clickhouse"
	"tsescan/pkg/logger"
)

// Schema statements for the daily-bar table. ReplacingMergeTree makes
// re-ingesting the same day idempotent.
var barSchema = []string{
	`CREATE TABLE IF NOT EXISTS daily_bars (
		symbol LowCardinality(String),
		date   Date,
		open   Float64,
		high   Float64,
		low    Float64,
		close  Float64,
		volume Float64
	) ENGINE = ReplacingMergeTree
	ORDER BY (symbol, date)`,
}

// ClickHouseBarStore persists and serves daily bars. It is both a
// BarStorage (ingest side) and a BarSource (scan side).
type ClickHouseBarStore struct {
	client *clickhouse.Client
	log    *logger.Logger
}

func NewClickHouseBarStore(ctx context.Context, client *clickhouse.Client, log *logger.Logger) (*ClickHouseBarStore, error) {
	if err := client.InitSchema(ctx, barSchema); err != nil {
		return nil, fmt.Errorf("bar store schema: %w", err)
	}
	return &ClickHouseBarStore{client: client, log: log}, nil
}

func (s *ClickHouseBarStore) Name() string {
	return "clickhouse"
}

// StoreBars inserts a batch of bars for one symbol.
func (s *ClickHouseBarStore) StoreBars(ctx context.Context, symbol string, bars []models.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	tx, err := s.client.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO daily_bars (symbol, date, open, high, low, close, volume) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx, symbol, b.Date, b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert bar %s %s: %w", symbol, b.Date.Format("2006-01-02"), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert: %w", err)
	}

	s.log.Debug("stored bars", logger.String("symbol", symbol), logger.Int("count", len(bars)))
	return nil
}

// FetchBars returns the most recent `days` bars for a symbol, ascending.
func (s *ClickHouseBarStore) FetchBars(ctx context.Context, symbol string, days int) ([]models.Bar, error) {
	rows, err := s.client.DB().QueryContext(ctx,
		`SELECT date, open, high, low, close, volume
		 FROM daily_bars FINAL
		 WHERE symbol = ?
		 ORDER BY date DESC
		 LIMIT ?`, symbol, days)
	if err != nil {
		return nil, fmt.Errorf("query bars for %s: %w", symbol, err)
	}
	defer rows.Close()

	var bars []models.Bar
	for rows.Next() {
		var b models.Bar
		var date time.Time
		if err := rows.Scan(&date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar for %s: %w", symbol, err)
		}
		b.Date = date.UTC()
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bars for %s: %w", symbol, err)
	}

	// Reverse into ascending order.
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars stored for %s", symbol)
	}
	return bars, nil
}
