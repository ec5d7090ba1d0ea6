package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"proclens/internal/analysis"
	"proclens/internal/config"
	"proclens/internal/infrastructure"
	"proclens/internal/loader"
)

func main() {
	dataDir := flag.String("data", "", "dataset directory containing items.csv, suppliers.csv and contracts.csv (defaults to configured data dir)")
	workbook := flag.String("xlsx", "", "load the dataset from a single Excel workbook instead of a CSV directory")
	outputDir := flag.String("out", "", "output directory for generated reports (defaults to configured reports dir)")
	category := flag.String("category", "", "restrict the supplier report to one L1 category")
	minItems := flag.Int("min-items", 0, "minimum item count for the ranked supplier report (defaults to configured value)")
	minContracts := flag.Int("min-contracts", 0, "minimum contract count for the ranked supplier report (defaults to configured value)")
	topN := flag.Int("top", 0, "number of ranked suppliers to keep (defaults to configured value)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	if *dataDir == "" {
		*dataDir = cfg.Paths.DataDir
	}
	if *outputDir == "" {
		*outputDir = cfg.Paths.ReportsDir
	}

	params := analysis.RankingParams{
		MinItems:     cfg.Analysis.MinItems,
		MinContracts: cfg.Analysis.MinContracts,
		TopN:         cfg.Analysis.TopN,
	}
	if *minItems > 0 {
		params.MinItems = *minItems
	}
	if *minContracts > 0 {
		params.MinContracts = *minContracts
	}
	if *topN > 0 {
		params.TopN = *topN
	}

	var dataset *loader.Dataset
	if *workbook != "" {
		logger.Info("Loading dataset from workbook", "path", *workbook)
		dataset, err = loader.LoadWorkbook(*workbook, logger)
	} else {
		logger.Info("Loading dataset", "dir", *dataDir)
		dataset, err = loader.Load(context.Background(), *dataDir, logger)
	}
	if err != nil {
		logger.Error("Failed to load dataset", "error", err)
		os.Exit(1)
	}
	if len(dataset.Items) == 0 {
		logger.Error("No item rows found in dataset",
			"hint", "check the dataset directory or workbook sheet names")
		os.Exit(1)
	}

	actx := dataset.Context(logger)

	filter := analysis.CategoryFilter{L1: *category}

	logger.Info("Computing market analysis",
		"items", len(dataset.Items),
		"category", *category,
		"version", dataset.Version)

	overview := actx.MarketOverview()
	ranked := actx.TopSuppliers(filter, params)
	positioning := actx.SupplierPositioning(filter)

	timestamp := time.Now().Format("20060102")

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		logger.Error("Failed to create reports directory", "error", err)
		os.Exit(1)
	}

	overviewPath := filepath.Join(*outputDir, fmt.Sprintf("market_overview_%s.csv", timestamp))
	if err := analysis.SaveOverviewCSV(overview, overviewPath); err != nil {
		logger.Error("Failed to save market overview report", "error", err)
		os.Exit(1)
	}

	rankedPath := filepath.Join(*outputDir, fmt.Sprintf("top_suppliers_%s.csv", timestamp))
	if err := analysis.SaveMetricsCSV(ranked, rankedPath); err != nil {
		logger.Error("Failed to save supplier ranking report", "error", err)
		os.Exit(1)
	}

	positioningPath := filepath.Join(*outputDir, fmt.Sprintf("supplier_positioning_%s.csv", timestamp))
	if err := analysis.SaveMetricsCSV(positioning, positioningPath); err != nil {
		logger.Error("Failed to save supplier positioning report", "error", err)
		os.Exit(1)
	}

	logger.Info("Market report generated successfully",
		"overview", overviewPath,
		"ranking", rankedPath,
		"positioning", positioningPath,
		"suppliers", len(positioning))

	printSummary(overview, ranked)
}

func printSummary(overview analysis.MarketOverview, ranked []analysis.SupplierMetrics) {
	fmt.Println("\n=== MARKET OVERVIEW ===")
	fmt.Printf("Items: %d | Suppliers: %d | Contracts: %d | Value: %.2f\n",
		overview.TotalItems, overview.TotalSuppliers, overview.TotalContracts, overview.TotalMarketValue)
	fmt.Printf("HHI: %.0f (%s) | Top-10 share: %.1f%% | Suppliers controlling 80%%: %d\n",
		overview.HHISuppliers, overview.HHIInterpretation,
		overview.Top10Concentration, overview.Control80Suppliers)

	if len(ranked) == 0 {
		fmt.Println("\nNo suppliers met the ranking thresholds.")
		return
	}

	fmt.Println("\n=== TOP SUPPLIERS ===")
	fmt.Println("Supplier                       | Competitiveness | Share % | Size   | Performance")
	fmt.Println("-------------------------------|-----------------|---------|--------|------------")
	for _, m := range ranked {
		fmt.Printf("%-30s | %15.3f | %7.2f | %-6s | %s\n",
			m.SupplierName, m.PriceCompetitiveness, m.MarketShareCategory,
			m.SupplierSize, m.PerformanceLevel)
	}
}
