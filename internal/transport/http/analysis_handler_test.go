package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proclens/internal/config"
	"proclens/internal/loader"
	"proclens/internal/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeDataset(t *testing.T, dir string) {
	t.Helper()

	items := `supplier_id,contract_number,total_price,unit_price,quantity,class_l1,class_l2,class_l3,confidence
1,C-100,100,10,10,Medical,Consumables,Gloves,high
1,C-101,200,20,10,Medical,Consumables,Masks,high
2,C-200,300,30,10,Medical,Equipment,Monitors,high
2,C-201,400,40,10,Medical,Equipment,Monitors,high
3,C-300,500,50,10,Lab,Reagents,Assays,high
`
	suppliers := `id,name,display_name,specialization
supplier_1,Alpha Ltd,Alpha,Consumables
supplier_2,Beta GmbH,Beta,Equipment
supplier_3,Gamma SA,Gamma,Reagents
`
	contracts := `contract_number,supplier_id,total_value
C-100,1,100
C-101,1,200
C-200,2,300
C-201,2,400
C-300,3,500
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, loader.ItemsFile), []byte(items), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, loader.SuppliersFile), []byte(suppliers), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, loader.ContractsFile), []byte(contracts), 0644))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	writeDataset(t, dir)

	cfg := &config.Config{}
	cfg.Paths.DataDir = dir
	cfg.Analysis.MinItems = 1
	cfg.Analysis.MinContracts = 1
	cfg.Analysis.TopN = 10
	return cfg
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	cfg := testConfig(t)
	svc := services.NewAnalysisServiceWithLogger(cfg, testLogger())
	require.NoError(t, svc.Reload(context.Background()))

	return NewRouter(cfg, svc, testLogger())
}

func doJSON(t *testing.T, handler http.Handler, method, target string) (int, map[string]interface{}) {
	t.Helper()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(method, target, nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestGetMarketOverview(t *testing.T) {
	srv := newTestServer(t)

	code, body := doJSON(t, srv, http.MethodGet, "/api/market/overview")
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, "success", body["status"])
	assert.NotEmpty(t, body["dataset_version"])

	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(3), data["total_suppliers"])
	assert.Equal(t, float64(1500), data["total_market_value"])
}

func TestGetSupplierPositioning(t *testing.T) {
	srv := newTestServer(t)

	code, body := doJSON(t, srv, http.MethodGet, "/api/suppliers/positioning")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(3), body["count"])

	rows, ok := body["data"].([]interface{})
	require.True(t, ok)
	for _, raw := range rows {
		row := raw.(map[string]interface{})
		assert.NotEmpty(t, row["quadrant"])
	}
}

func TestGetSupplierPositioning_Filtered(t *testing.T) {
	srv := newTestServer(t)

	code, body := doJSON(t, srv, http.MethodGet, "/api/suppliers/positioning?category_l1=Medical")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), body["count"])
}

func TestGetTopSuppliers(t *testing.T) {
	srv := newTestServer(t)

	code, body := doJSON(t, srv, http.MethodGet, "/api/suppliers/top")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(3), body["count"])
}

func TestGetTopSuppliers_ThresholdOverride(t *testing.T) {
	srv := newTestServer(t)

	// Gamma is outside the Medical segment, Alpha and Beta both
	// clear the two-contract gate.
	code, body := doJSON(t, srv, http.MethodGet, "/api/suppliers/top?category_l1=Medical&min_contracts=2")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), body["count"])
}

func TestGetTopSuppliers_InvalidThreshold(t *testing.T) {
	srv := newTestServer(t)

	code, body := doJSON(t, srv, http.MethodGet, "/api/suppliers/top?top_n=abc")
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "/errors/validation", body["type"])

	code, body = doJSON(t, srv, http.MethodGet, "/api/suppliers/top?top_n=0")
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "/errors/validation", body["type"])
}

func TestGetSupplierInsights(t *testing.T) {
	srv := newTestServer(t)

	code, body := doJSON(t, srv, http.MethodGet, "/api/suppliers/insights")
	require.Equal(t, http.StatusOK, code)

	rows, ok := body["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, rows, 3)
	first := rows[0].(map[string]interface{})
	assert.NotEmpty(t, first["supplier_name"])
	assert.NotEmpty(t, first["strengths"])
}

func TestGetCategoryOptions(t *testing.T) {
	srv := newTestServer(t)

	code, body := doJSON(t, srv, http.MethodGet, "/api/categories?level=l1")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []interface{}{"Lab", "Medical"}, body["data"])

	code, body = doJSON(t, srv, http.MethodGet, "/api/categories?level=l2&category_l1=Medical")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []interface{}{"Consumables", "Equipment"}, body["data"])
}

func TestGetCategoryOptions_InvalidLevel(t *testing.T) {
	srv := newTestServer(t)

	code, body := doJSON(t, srv, http.MethodGet, "/api/categories?level=l9")
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "/errors/validation", body["type"])
}

func TestReloadDataset(t *testing.T) {
	srv := newTestServer(t)

	code, body := doJSON(t, srv, http.MethodPost, "/api/dataset/reload")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", body["status"])
	assert.NotEmpty(t, body["dataset_version"])
}

func TestNotReadyServiceReturns503(t *testing.T) {
	cfg := testConfig(t)
	svc := services.NewAnalysisServiceWithLogger(cfg, testLogger())
	srv := NewRouter(cfg, svc, testLogger())

	code, body := doJSON(t, srv, http.MethodGet, "/api/market/overview")
	require.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "/errors/dataset/unreadable", body["type"])
}

func TestNotFoundRoute(t *testing.T) {
	srv := newTestServer(t)

	code, body := doJSON(t, srv, http.MethodGet, "/api/nope")
	require.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "/errors/not-found", body["type"])
}

func TestErrorTraceIDMatchesRequestID(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/no/such/route", nil)
	req.Header.Set("X-Request-ID", "client-supplied-id")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "client-supplied-id", rec.Header().Get("X-Request-ID"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "client-supplied-id", body["trace_id"],
		"error bodies must carry the same id the middleware echoed")
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	code, body := doJSON(t, srv, http.MethodGet, "/api/health")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	code, body = doJSON(t, srv, http.MethodGet, "/api/health/ready")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", body["status"])
}

func TestReadinessBeforeLoad(t *testing.T) {
	cfg := testConfig(t)
	svc := services.NewAnalysisServiceWithLogger(cfg, testLogger())
	srv := NewRouter(cfg, svc, testLogger())

	code, body := doJSON(t, srv, http.MethodGet, "/api/health/ready")
	require.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not_ready", body["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	// Generate one request so the counter exists.
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/market/overview", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	scrape := httptest.NewRecorder()
	srv.ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, scrape.Code)
	assert.Contains(t, scrape.Body.String(), "http_requests_total")
}

func TestRateLimitedRouter(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.RPS = 0
	cfg.RateLimit.Burst = 1

	svc := services.NewAnalysisServiceWithLogger(cfg, testLogger())
	require.NoError(t, svc.Reload(context.Background()))
	srv := NewRouter(cfg, svc, testLogger())

	first := httptest.NewRecorder()
	srv.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	srv.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusTooManyRequests, second.Code)
}
