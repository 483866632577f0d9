package tsetmc

import (
	"context"
	"fmt"
	"net/http"

	"tsescan/internal/domain/models"
	tsehttp "tsescan/pkg/http"
	"tsescan/pkg/logger"
	"tsescan/pkg/util"
)

// Config for the remote exchange history API.
type Config struct {
	BaseURL string
	APIKey  string
}

// Client fetches daily history from the exchange data service. It is the
// first hop of the source fallback chain.
type Client struct {
	cfg  Config
	http *tsehttp.Client
	log  *logger.Logger
}

func NewClient(cfg Config, httpClient *tsehttp.Client, log *logger.Logger) *Client {
	return &Client{cfg: cfg, http: httpClient, log: log}
}

func (c *Client) Name() string {
	return "remote"
}

type historyResponse struct {
	Symbol string       `json:"symbol"`
	Bars   []historyBar `json:"bars"`
}

type historyBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// FetchBars implements repository.BarSource.
func (c *Client) FetchBars(ctx context.Context, symbol string, days int) ([]models.Bar, error) {
	var resp historyResponse
	err := c.http.SendAndParse(ctx, &tsehttp.RequestOptions{
		Method: http.MethodGet,
		URL:    c.cfg.BaseURL + "/api/v1/history",
		Headers: map[string]string{
			"X-API-Key": c.cfg.APIKey,
		},
		QueryParams: map[string][]string{
			"symbol": {symbol},
			"days":   {fmt.Sprintf("%d", days)},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", symbol, err)
	}

	bars := make([]models.Bar, 0, len(resp.Bars))
	for i, hb := range resp.Bars {
		date, ok := util.ParseDate(hb.Date)
		if !ok {
			return nil, &models.MalformedRecordError{Symbol: symbol, Index: i, Field: "date"}
		}
		bars = append(bars, models.Bar{
			Date:   date,
			Open:   hb.Open,
			High:   hb.High,
			Low:    hb.Low,
			Close:  hb.Close,
			Volume: hb.Volume,
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no history for %s", symbol)
	}

	c.log.Debug("fetched remote history",
		logger.String("symbol", symbol), logger.Int("bars", len(bars)))
	return bars, nil
}
