package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"tsescan/internal/domain/models"
	"tsescan/pkg/util"
)

// CSVSource reads daily bars from <dir>/<symbol>.csv files with a
// date,open,high,low,close,volume header. It is the offline fallback and
// the format used by the exported history dumps.
type CSVSource struct {
	dir string
}

func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{dir: dir}
}

func (s *CSVSource) Name() string {
	return "csv"
}

func (s *CSVSource) FetchBars(_ context.Context, symbol string, days int) ([]models.Bar, error) {
	path := filepath.Join(s.dir, symbol+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	bars, err := readBarCSV(symbol, f)
	if err != nil {
		return nil, err
	}
	if days > 0 && len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

func readBarCSV(symbol string, r io.Reader) ([]models.Bar, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: read csv header: %w", symbol, err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range []string{"date", "open", "high", "low", "close", "volume"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("%s: csv missing column %q", symbol, name)
		}
	}

	var bars []models.Bar
	for i := 0; ; i++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: read csv row %d: %w", symbol, i, err)
		}

		date, ok := util.ParseDate(record[col["date"]])
		if !ok {
			return nil, &models.MalformedRecordError{Symbol: symbol, Index: i, Field: "date"}
		}
		b := models.Bar{Date: date}
		for _, f := range []struct {
			name string
			dst  *float64
		}{
			{"open", &b.Open}, {"high", &b.High}, {"low", &b.Low},
			{"close", &b.Close}, {"volume", &b.Volume},
		} {
			v, err := strconv.ParseFloat(record[col[f.name]], 64)
			if err != nil {
				return nil, &models.MalformedRecordError{Symbol: symbol, Index: i, Field: f.name}
			}
			*f.dst = v
		}
		bars = append(bars, b)
	}
	return bars, nil
}
