// Package analysis implements the ProcureLens supplier metrics and
// market-analysis engine for procurement data.
//
// The engine takes cleaned procurement line items and derives three
// independent views of the supplier landscape:
//
//  1. Market overview: portfolio totals, per-supplier and per-category
//     market shares, Herfindahl-Hirschman concentration (overall and per
//     L1 category) and the number of suppliers controlling 80% of spend.
//  2. Supplier positioning: price-competitiveness and spend-impact scores
//     per supplier, placing each supplier into one of four strategic
//     quadrants (Strategic Partners, Leverage Opportunities, Critical
//     Negotiations, Rationalize/Exit).
//  3. Top-supplier ranking: threshold-gated, category-filtered ranking
//     with multi-dimensional performance profiles (market presence,
//     category coverage, price stability) and classification labels.
//
// # Architecture
//
//   - types.go: record types, derived-row types, label constants
//   - standardize.go: supplier id resolution to canonical display names
//   - clean.go: raw item filtering to the analyzable subset
//   - scaling.go: min-max / percentile-rank normalization and statistics
//   - aggregate.go: the shared group-and-aggregate primitive
//   - context.go: immutable AnalysisContext holding the cleaned dataset
//   - overview.go: market overview calculator
//   - positioning.go: supplier positioning calculator
//   - ranking.go: top-supplier ranking engine
//   - categories.go: category option listing for hierarchical filters
//   - insights.go: templated narrative built from ranked profiles
//   - persist.go: report CSV output
//
// Every calculator is a pure function of the AnalysisContext and its
// parameters: identical inputs produce identical output, empty filtered
// sets produce explicit empty results, and no NaN or Inf value ever
// reaches a client-visible field.
//
// # Usage Example
//
//	ctx := analysis.NewContext(items, suppliers, slog.Default())
//
//	overview := ctx.MarketOverview()
//	positioning := ctx.SupplierPositioning(analysis.CategoryFilter{L1: "HW"})
//	top := ctx.TopSuppliers(analysis.CategoryFilter{L1: "HW"}, analysis.RankingParams{
//	    MinItems:     5,
//	    MinContracts: 1,
//	    TopN:         3,
//	})
package analysis
