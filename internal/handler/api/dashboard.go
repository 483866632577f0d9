package api

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"

	"tsescan/internal/domain/models"
	"tsescan/internal/usecase"
	"tsescan/pkg/logger"
)

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
<title>TSE Scanner</title>
<style>
body { font-family: sans-serif; margin: 2rem; background: #fafafa; }
h1 { font-size: 1.4rem; }
.columns { display: flex; gap: 2rem; }
table { border-collapse: collapse; min-width: 320px; background: #fff; }
th, td { border: 1px solid #ddd; padding: 0.4rem 0.8rem; text-align: left; }
th { background: #f0f0f0; }
.long th { color: #1a7f37; }
.short th { color: #b3261e; }
.empty { color: #888; }
</style>
</head>
<body>
<h1>Market Scanner</h1>
{{if .HasResult}}
<div class="columns">
  <div class="long">
    <h2>Long candidates</h2>
    <table>
      <tr><th>Symbol</th><th>Regime</th><th>Score</th></tr>
      {{range .Result.LongTop}}
      <tr><td>{{.Symbol}}</td><td>{{.Regime}}</td><td>{{printf "%.3f" .Score}}</td></tr>
      {{else}}
      <tr><td colspan="3" class="empty">none</td></tr>
      {{end}}
    </table>
  </div>
  <div class="short">
    <h2>Short candidates</h2>
    <table>
      <tr><th>Symbol</th><th>Regime</th><th>Score</th></tr>
      {{range .Result.ShortTop}}
      <tr><td>{{.Symbol}}</td><td>{{.Regime}}</td><td>{{printf "%.3f" .Score}}</td></tr>
      {{else}}
      <tr><td colspan="3" class="empty">none</td></tr>
      {{end}}
    </table>
  </div>
</div>
<p>{{len .Result.Skipped}} symbols skipped.</p>
{{else}}
<p class="empty">No scan has completed yet.</p>
{{end}}
</body>
</html>
`))

type dashboardData struct {
	HasResult bool
	Result    *models.ScanResult
}

// Dashboard renders the latest scan as a two-column long/short page.
func (h *Handler) Dashboard(c echo.Context) error {
	data := dashboardData{}
	result, err := h.svc.Latest(c.Request().Context())
	switch {
	case err == nil:
		data.HasResult = true
		data.Result = result
	case errors.Is(err, usecase.ErrNoScanYet):
	default:
		h.log.Error("dashboard lookup failed", logger.Error(err))
		return c.String(http.StatusInternalServerError, "internal error")
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return dashboardTmpl.Execute(c.Response(), data)
}
