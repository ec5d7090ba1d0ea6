package analysis

import (
	"sort"
)

// TopSuppliers produces the ranked, profiled supplier table for a category
// scope: suppliers below the minimum-items or minimum-contracts thresholds
// are dropped, survivors get the competitiveness score, in-category market
// share, the three profile metrics and the four classification labels, and
// the result is the top N rows by competitiveness descending. No supplier
// surviving the thresholds is a normal outcome and yields an empty slice.
func (c *Context) TopSuppliers(filter CategoryFilter, params RankingParams) []SupplierMetrics {
	filtered := filterItems(c.items, filter)
	if len(filtered) == 0 {
		return []SupplierMetrics{}
	}

	aggregates := aggregateBySupplier(filtered)

	surviving := aggregates[:0:0]
	for _, a := range aggregates {
		if a.ItemsCount >= params.MinItems && a.Contracts >= params.MinContracts {
			surviving = append(surviving, a)
		}
	}
	if len(surviving) == 0 {
		c.logger.Debug("no suppliers meet ranking thresholds",
			"min_items", params.MinItems,
			"min_contracts", params.MinContracts,
		)
		return []SupplierMetrics{}
	}

	prices := make([]float64, len(filtered))
	for i, it := range filtered {
		prices[i] = it.TotalPrice
	}
	competitiveness := competitivenessScores(surviving, Mean(prices))

	// Extremes over the surviving set drive the profile normalizations.
	totalSpending := 0.0
	maxSpending := 0.0
	maxL3 := 0
	for _, a := range surviving {
		totalSpending += a.TotalSpending
		if a.TotalSpending > maxSpending {
			maxSpending = a.TotalSpending
		}
		if a.L3Categories > maxL3 {
			maxL3 = a.L3Categories
		}
	}

	volatilities := make([]float64, len(surviving))
	minVolatility := 0.0
	for i, a := range surviving {
		v := 0.0
		if a.MeanPrice > 0 {
			v = a.PriceStdDev / a.MeanPrice
		}
		volatilities[i] = v
		if i == 0 || v < minVolatility {
			minVolatility = v
		}
	}
	maxStability := 1 / (minVolatility + StabilityEpsilon)

	spendings := make([]float64, len(surviving))
	contractCounts := make([]float64, len(surviving))
	for i, a := range surviving {
		spendings[i] = a.TotalSpending
		contractCounts[i] = float64(a.Contracts)
	}
	spending33 := Quantile(spendings, LowerTertile)
	spending66 := Quantile(spendings, UpperTertile)
	contracts33 := Quantile(contractCounts, LowerTertile)
	contracts66 := Quantile(contractCounts, UpperTertile)

	rows := make([]SupplierMetrics, len(surviving))
	for i, a := range surviving {
		marketShare := 0.0
		if totalSpending > 0 {
			marketShare = a.TotalSpending / totalSpending * 100
		}
		presence := 0.0
		if maxSpending > 0 {
			presence = a.TotalSpending / maxSpending
		}
		coverage := 0.0
		if maxL3 > 0 {
			coverage = float64(a.L3Categories) / float64(maxL3)
		}
		stability := (1 / (volatilities[i] + StabilityEpsilon)) / maxStability

		rows[i] = SupplierMetrics{
			SupplierName:         a.Name,
			ItemsCount:           a.ItemsCount,
			ContractsCount:       a.Contracts,
			L3Categories:         a.L3Categories,
			MeanPrice:            sanitize(a.MeanPrice),
			MedianPrice:          sanitize(a.MedianPrice),
			PriceStdDev:          sanitize(a.PriceStdDev),
			TotalSpending:        a.TotalSpending,
			PriceCompetitiveness: competitiveness[i],
			SpendImpact:          presence,
			MarketShareCategory:  marketShare,
			MarketPresence:       presence,
			CategoryCoverage:     coverage,
			PriceVolatility:      sanitize(volatilities[i]),
			PriceStability:       sanitize(stability),
			SupplierSize:         classifySize(a.TotalSpending, spending33, spending66),
			PerformanceLevel:     classifyPerformance(competitiveness[i]),
			EngagementLevel:      classifyEngagement(float64(a.Contracts), contracts33, contracts66),
			SpecializationFocus:  classifySpecialization(a.L3Categories),
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].PriceCompetitiveness != rows[j].PriceCompetitiveness {
			return rows[i].PriceCompetitiveness > rows[j].PriceCompetitiveness
		}
		return rows[i].SupplierName < rows[j].SupplierName
	})

	if params.TopN > 0 && params.TopN < len(rows) {
		rows = rows[:params.TopN]
	}
	return rows
}

func classifySize(spending, q33, q66 float64) string {
	switch {
	case spending >= q66:
		return SizeLarge
	case spending >= q33:
		return SizeMedium
	default:
		return SizeSmall
	}
}

func classifyPerformance(competitiveness float64) string {
	switch {
	case competitiveness >= PerformanceExcellentFloor:
		return PerformanceExcellent
	case competitiveness >= PerformanceGoodFloor:
		return PerformanceGood
	default:
		return PerformanceAverage
	}
}

func classifyEngagement(contracts, q33, q66 float64) string {
	switch {
	case contracts >= q66:
		return EngagementHigh
	case contracts >= q33:
		return EngagementMedium
	default:
		return EngagementLow
	}
}

func classifySpecialization(l3Categories int) string {
	switch {
	case l3Categories <= SpecialistMaxCategories:
		return SpecializationSpecialist
	case l3Categories <= FocusedMaxCategories:
		return SpecializationFocused
	default:
		return SpecializationDiversified
	}
}
