package models

// AnalyzeRequest is the body of POST /api/analyze: caller-supplied series,
// optional index series for the benchmark gate, and a ranking cap.
type AnalyzeRequest struct {
	Data    map[string][]Bar `json:"data" validate:"required,min=1"`
	Indices map[string][]Bar `json:"indices"`
	TopN    int              `json:"top_n" default:"20" validate:"gte=1,lte=200"`
}

// RunScanRequest is the body of POST /api/scan/run. Symbols defaults to the
// configured universe when empty.
type RunScanRequest struct {
	Symbols []string `json:"symbols" validate:"omitempty,dive,required"`
	TopN    int      `json:"top_n" default:"20" validate:"gte=1,lte=200"`
}
