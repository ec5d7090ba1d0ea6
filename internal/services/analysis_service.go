// Package services contains the application service layer between the
// HTTP transport and the analysis engine. The AnalysisService owns the
// loaded dataset, memoizes analysis results per dataset version, and
// collapses concurrent reloads into a single load.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"proclens/internal/analysis"
	"proclens/internal/config"
	"proclens/internal/loader"
)

// AnalysisService provides cached access to market analysis results.
// Results are memoized by dataset version and query parameters, so a
// repeated query against an unchanged dataset never recomputes.
type AnalysisService struct {
	dataDir string
	params  analysis.RankingParams
	logger  *slog.Logger

	mu      sync.RWMutex
	dataset *loader.Dataset
	actx    *analysis.Context
	memo    map[string]interface{}

	loadGroup singleflight.Group
}

// NewAnalysisService creates a new analysis service using default logger
func NewAnalysisService(cfg *config.Config) *AnalysisService {
	return NewAnalysisServiceWithLogger(cfg, slog.Default())
}

// NewAnalysisServiceWithLogger creates a new analysis service with a specific logger
func NewAnalysisServiceWithLogger(cfg *config.Config, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("AnalysisService initialized",
		slog.String("data_dir", cfg.Paths.DataDir),
		slog.Int("min_items", cfg.Analysis.MinItems),
		slog.Int("min_contracts", cfg.Analysis.MinContracts),
		slog.Int("top_n", cfg.Analysis.TopN))

	return &AnalysisService{
		dataDir: cfg.Paths.DataDir,
		params: analysis.RankingParams{
			MinItems:     cfg.Analysis.MinItems,
			MinContracts: cfg.Analysis.MinContracts,
			TopN:         cfg.Analysis.TopN,
		},
		logger: logger.With(slog.String("service", "analysis")),
		memo:   make(map[string]interface{}),
	}
}

// Reload loads the dataset from the data directory and replaces the
// cached analysis context. Concurrent callers share a single load.
func (s *AnalysisService) Reload(ctx context.Context) error {
	ds, err, _ := s.loadGroup.Do("dataset", func() (interface{}, error) {
		return loader.Load(ctx, s.dataDir, s.logger)
	})
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	dataset := ds.(*loader.Dataset)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dataset != nil && s.dataset.Version == dataset.Version {
		s.logger.DebugContext(ctx, "dataset unchanged, keeping cached results",
			slog.String("version", dataset.Version))
		return nil
	}

	s.dataset = dataset
	s.actx = dataset.Context(s.logger)
	s.memo = make(map[string]interface{})

	s.logger.InfoContext(ctx, "dataset reloaded",
		slog.String("version", dataset.Version),
		slog.Int("items", len(dataset.Items)),
		slog.Int("suppliers", len(dataset.Suppliers)))
	return nil
}

// Ready reports whether a dataset has been loaded.
func (s *AnalysisService) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.actx != nil
}

// Version returns the version digest of the loaded dataset.
func (s *AnalysisService) Version() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return ""
	}
	return s.dataset.Version
}

// DefaultParams returns the configured ranking thresholds.
func (s *AnalysisService) DefaultParams() analysis.RankingParams {
	return s.params
}

// MarketOverview returns the market-wide concentration snapshot.
func (s *AnalysisService) MarketOverview(ctx context.Context) (analysis.MarketOverview, error) {
	result, err := s.memoized(ctx, "overview", func(actx *analysis.Context) interface{} {
		return actx.MarketOverview()
	})
	if err != nil {
		return analysis.MarketOverview{}, err
	}
	return result.(analysis.MarketOverview), nil
}

// SupplierPositioning returns quadrant metrics for every supplier in
// the filtered market segment.
func (s *AnalysisService) SupplierPositioning(ctx context.Context, filter analysis.CategoryFilter) ([]analysis.SupplierMetrics, error) {
	key := fmt.Sprintf("positioning|%s|%s|%s", filter.L1, filter.L2, filter.L3)
	result, err := s.memoized(ctx, key, func(actx *analysis.Context) interface{} {
		return actx.SupplierPositioning(filter)
	})
	if err != nil {
		return nil, err
	}
	return result.([]analysis.SupplierMetrics), nil
}

// TopSuppliers returns the ranked supplier shortlist for the filtered
// segment using the given thresholds.
func (s *AnalysisService) TopSuppliers(ctx context.Context, filter analysis.CategoryFilter, params analysis.RankingParams) ([]analysis.SupplierMetrics, error) {
	key := fmt.Sprintf("top|%s|%s|%s|%d|%d|%d",
		filter.L1, filter.L2, filter.L3,
		params.MinItems, params.MinContracts, params.TopN)
	result, err := s.memoized(ctx, key, func(actx *analysis.Context) interface{} {
		return actx.TopSuppliers(filter, params)
	})
	if err != nil {
		return nil, err
	}
	return result.([]analysis.SupplierMetrics), nil
}

// SupplierInsights returns narrative insight cards for the ranked
// supplier shortlist.
func (s *AnalysisService) SupplierInsights(ctx context.Context, filter analysis.CategoryFilter, params analysis.RankingParams) ([]analysis.SupplierInsight, error) {
	rows, err := s.TopSuppliers(ctx, filter, params)
	if err != nil {
		return nil, err
	}

	insights := make([]analysis.SupplierInsight, 0, len(rows))
	for _, row := range rows {
		insights = append(insights, analysis.BuildInsight(row))
	}
	return insights, nil
}

// CategoryOptions returns the distinct category values at a level,
// scoped to the parent selection.
func (s *AnalysisService) CategoryOptions(ctx context.Context, level analysis.CategoryLevel, parent analysis.CategoryFilter) ([]string, error) {
	key := fmt.Sprintf("categories|%s|%s|%s|%s", level, parent.L1, parent.L2, parent.L3)
	result, err := s.memoized(ctx, key, func(actx *analysis.Context) interface{} {
		return actx.CategoryOptions(level, parent)
	})
	if err != nil {
		return nil, err
	}
	return result.([]string), nil
}

// memoized returns the cached result for key, computing and storing it
// on first use. The memo is cleared whenever the dataset version
// changes, so entries never outlive the data they were computed from.
func (s *AnalysisService) memoized(ctx context.Context, key string, compute func(*analysis.Context) interface{}) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	actx := s.actx
	cached, ok := s.memo[key]
	s.mu.RUnlock()

	if actx == nil {
		return nil, ErrNotReady
	}
	if ok {
		return cached, nil
	}

	result := compute(actx)

	s.mu.Lock()
	// Another goroutine may have swapped the dataset while we computed.
	if s.actx == actx {
		s.memo[key] = result
	}
	s.mu.Unlock()

	return result, nil
}
