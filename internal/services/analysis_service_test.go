package services

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proclens/internal/analysis"
	"proclens/internal/config"
	"proclens/internal/loader"
)

func writeDataset(t *testing.T, dir string) {
	t.Helper()

	items := `supplier_id,contract_number,total_price,unit_price,quantity,class_l1,class_l2,class_l3,confidence
1,C-100,100,10,10,Medical,Consumables,Gloves,high
1,C-100,200,20,10,Medical,Consumables,Gloves,high
2,C-200,300,30,10,Medical,Equipment,Monitors,high
2,C-201,400,40,10,Medical,Equipment,Monitors,medium
3,C-300,500,50,10,Lab,Reagents,Assays,high
`
	suppliers := `id,name,display_name,specialization
supplier_1,Alpha Ltd,Alpha,Consumables
supplier_2,Beta GmbH,Beta,Equipment
supplier_3,Gamma SA,Gamma,Reagents
`
	contracts := `contract_number,supplier_id,total_value
C-100,1,300
C-200,2,300
C-201,2,400
C-300,3,500
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, loader.ItemsFile), []byte(items), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, loader.SuppliersFile), []byte(suppliers), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, loader.ContractsFile), []byte(contracts), 0644))
}

func newTestService(t *testing.T) *AnalysisService {
	t.Helper()

	dir := t.TempDir()
	writeDataset(t, dir)

	cfg := &config.Config{}
	cfg.Paths.DataDir = dir
	cfg.Analysis.MinItems = 1
	cfg.Analysis.MinContracts = 1
	cfg.Analysis.TopN = 10

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAnalysisServiceWithLogger(cfg, logger)
}

func TestAnalysisService_NotReady(t *testing.T) {
	svc := newTestService(t)

	assert.False(t, svc.Ready())
	assert.Empty(t, svc.Version())

	_, err := svc.MarketOverview(context.Background())
	assert.ErrorIs(t, err, ErrNotReady)

	_, err = svc.TopSuppliers(context.Background(), analysis.CategoryFilter{}, svc.DefaultParams())
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestAnalysisService_Reload(t *testing.T) {
	svc := newTestService(t)

	require.NoError(t, svc.Reload(context.Background()))
	assert.True(t, svc.Ready())
	assert.NotEmpty(t, svc.Version())
}

func TestAnalysisService_MarketOverview(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.Reload(context.Background()))

	overview, err := svc.MarketOverview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, overview.TotalSuppliers)
	assert.InDelta(t, 1500.0, overview.TotalMarketValue, 1e-9)

	total := 0.0
	for _, share := range overview.SupplierShares {
		total += share.Share
	}
	assert.InDelta(t, 100.0, total, 1e-9)
}

func TestAnalysisService_TopSuppliers(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.Reload(context.Background()))

	rows, err := svc.TopSuppliers(context.Background(), analysis.CategoryFilter{}, svc.DefaultParams())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.SupplierName)
	}
	assert.ElementsMatch(t, []string{"Alpha", "Beta", "Gamma"}, names)
}

func TestAnalysisService_FilteredPositioning(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.Reload(context.Background()))

	rows, err := svc.SupplierPositioning(context.Background(), analysis.CategoryFilter{L1: "Medical"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.NotEqual(t, "Gamma", row.SupplierName)
	}
}

func TestAnalysisService_CategoryOptions(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.Reload(context.Background()))

	l1, err := svc.CategoryOptions(context.Background(), analysis.LevelL1, analysis.CategoryFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Lab", "Medical"}, l1)

	l2, err := svc.CategoryOptions(context.Background(), analysis.LevelL2, analysis.CategoryFilter{L1: "Medical"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Consumables", "Equipment"}, l2)
}

func TestAnalysisService_SupplierInsights(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.Reload(context.Background()))

	insights, err := svc.SupplierInsights(context.Background(), analysis.CategoryFilter{}, svc.DefaultParams())
	require.NoError(t, err)
	require.Len(t, insights, 3)
	for _, insight := range insights {
		assert.NotEmpty(t, insight.SupplierName)
		assert.NotEmpty(t, insight.Strengths)
	}
}

func TestAnalysisService_MemoizationStableAcrossReload(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.Reload(context.Background()))

	first, err := svc.MarketOverview(context.Background())
	require.NoError(t, err)

	version := svc.Version()

	// Unchanged files produce the same version and keep cached results.
	require.NoError(t, svc.Reload(context.Background()))
	assert.Equal(t, version, svc.Version())

	second, err := svc.MarketOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAnalysisService_ReloadInvalidatesOnChange(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir)

	cfg := &config.Config{}
	cfg.Paths.DataDir = dir
	cfg.Analysis.MinItems = 1
	cfg.Analysis.MinContracts = 1
	cfg.Analysis.TopN = 10

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewAnalysisServiceWithLogger(cfg, logger)

	require.NoError(t, svc.Reload(context.Background()))
	version := svc.Version()

	before, err := svc.MarketOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, before.TotalSuppliers)

	extra := `supplier_id,contract_number,total_price,unit_price,quantity,class_l1,class_l2,class_l3,confidence
1,C-100,100,10,10,Medical,Consumables,Gloves,high
4,C-400,900,90,10,Facilities,Cleaning,Services,high
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, loader.ItemsFile), []byte(extra), 0644))

	require.NoError(t, svc.Reload(context.Background()))
	assert.NotEqual(t, version, svc.Version())

	after, err := svc.MarketOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, after.TotalSuppliers)
}

func TestAnalysisService_CancelledContext(t *testing.T) {
	svc := newTestService(t)
	require.NoError(t, svc.Reload(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.MarketOverview(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
