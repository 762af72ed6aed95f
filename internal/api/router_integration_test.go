package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/equifolio/config"
	"github.com/guttosm/equifolio/internal/api"
	"github.com/guttosm/equifolio/internal/domain/dto"
	"github.com/guttosm/equifolio/internal/llm"
	"github.com/guttosm/equifolio/internal/marketdata/csvfeed"
	"github.com/guttosm/equifolio/internal/service"
)

// writeHistory stores n daily bars ending on 2024-06-28 for ticker.
func writeHistory(t *testing.T, dir, ticker string, n int, phase float64) {
	t.Helper()
	var b strings.Builder
	b.WriteString("Date,Open,High,Low,Close,Volume\n")
	end := time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		d := end.AddDate(0, 0, i-n+1)
		c := 100 + 8*math.Sin(float64(i)/5+phase) + float64(i)/20
		fmt.Fprintf(&b, "%s,%.2f,%.2f,%.2f,%.2f,%d\n", d.Format("2006-01-02"), c, c+1, c-1, c, 1000+i)
	}
	if err := os.WriteFile(filepath.Join(dir, ticker+".csv"), []byte(b.String()), 0o600); err != nil {
		t.Fatalf("write %s: %v", ticker, err)
	}
}

func setupOffline(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	writeHistory(t, dir, "AAPL", 300, 0)
	writeHistory(t, dir, "MSFT", 300, 1.3)
	info := `{"shortName":"Apple Inc.","sector":"Technology","trailingPE":30.5,"marketCap":3.1e12}`
	if err := os.WriteFile(filepath.Join(dir, "AAPL.info.json"), []byte(info), 0o600); err != nil {
		t.Fatalf("write info: %v", err)
	}

	feed := csvfeed.New(dir)
	gen := llm.GeneratorFunc(func(_ context.Context, prompt string) (string, error) {
		return fmt.Sprintf("analysis of %d chars", len(prompt)), nil
	})
	h := api.NewHandler(api.Services{
		Technical:   service.NewTechnicalService(feed, gen),
		Fundamental: service.NewFundamentalService(feed, nil, gen),
		Risk:        service.NewRiskService(feed, feed, gen),
		Indicators:  service.NewIndicatorService(feed),
	})
	return api.NewRouter(h, config.ServerConfig{RequestTimeout: 5 * time.Second})
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestOffline_EndToEnd(t *testing.T) {
	r := setupOffline(t)

	t.Run("risk metrics", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/v1/risk/metrics", `{"tickers":["aapl","msft"],"period":"6mo","weights":[0.5,0.5]}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status %d: %s", w.Code, w.Body.String())
		}
		var out dto.MetricsResponse
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if len(out.Tickers) != 2 || out.Observations < 100 || !out.Sharpe.Valid {
			t.Fatalf("unexpected metrics: %+v", out.PortfolioMetrics)
		}
		if c, ok := out.Correlation.At("AAPL", "AAPL"); !ok || c.Float64 != 1 {
			t.Fatalf("diagonal should be 1, got %v", c)
		}
	})

	t.Run("risk report excludes unknown ticker", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/v1/risk", `{"tickers":["AAPL","MSFT","NOPE"]}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status %d: %s", w.Code, w.Body.String())
		}
		var out dto.RiskResponse
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if len(out.Excluded) != 1 || out.Excluded[0] != "NOPE" {
			t.Fatalf("unexpected exclusions %v", out.Excluded)
		}
		if out.SectorBreakdown["Technology"] == 0 || out.SectorBreakdown["Unknown"] == 0 {
			t.Fatalf("unexpected sectors %v", out.SectorBreakdown)
		}
	})

	t.Run("technical", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/v1/technical", `{"ticker":"AAPL"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status %d: %s", w.Code, w.Body.String())
		}
		var out dto.TechnicalResponse
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if out.KeyMetrics["RSI"] == "N/A" || !strings.HasPrefix(out.Analysis, "analysis of") {
			t.Fatalf("unexpected report: %+v", out.TechnicalReport)
		}
	})

	t.Run("fundamental", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/v1/fundamental", `{"ticker":"AAPL"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status %d: %s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), `"P/E Ratio":30.5`) {
			t.Fatalf("unexpected body %s", w.Body.String())
		}
	})

	t.Run("indicators weekly unsupported offline", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api/v1/indicators/AAPL?interval=1wk", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("status %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("unknown ticker", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/v1/technical", `{"ticker":"NOPE"}`)
		if w.Code != http.StatusNotFound {
			t.Fatalf("status %d: %s", w.Code, w.Body.String())
		}
	})
}
