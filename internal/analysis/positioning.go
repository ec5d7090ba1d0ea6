package analysis

// SupplierPositioning computes one metric row per supplier in the filtered
// item set: grouped aggregates, percentile-rank price-competitiveness,
// min-max spend-impact and the strategic quadrant. An empty filtered set
// returns an empty, non-nil slice; no downstream division is attempted.
func (c *Context) SupplierPositioning(filter CategoryFilter) []SupplierMetrics {
	filtered := filterItems(c.items, filter)
	if len(filtered) == 0 {
		return []SupplierMetrics{}
	}

	aggregates := aggregateBySupplier(filtered)

	prices := make([]float64, len(filtered))
	for i, it := range filtered {
		prices[i] = it.TotalPrice
	}
	overallMean := Mean(prices)

	competitiveness := competitivenessScores(aggregates, overallMean)

	maxSpending := 0.0
	for _, a := range aggregates {
		if a.TotalSpending > maxSpending {
			maxSpending = a.TotalSpending
		}
	}

	rows := make([]SupplierMetrics, len(aggregates))
	for i, a := range aggregates {
		spendImpact := 0.0
		if maxSpending > 0 {
			spendImpact = a.TotalSpending / maxSpending
		}

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
			SpendImpact:          spendImpact,
			Quadrant:             assignQuadrant(competitiveness[i], spendImpact),
		}
	}

	c.logger.Debug("supplier positioning computed",
		"filter_l1", filter.L1,
		"filter_l2", filter.L2,
		"filter_l3", filter.L3,
		"suppliers", len(rows),
	)
	return rows
}

// assignQuadrant places a supplier into its strategic quadrant. The 0.5
// boundary belongs to the higher-value side on both axes.
func assignQuadrant(competitiveness, spendImpact float64) string {
	switch {
	case competitiveness >= MidpointScore && spendImpact >= MidpointScore:
		return QuadrantStrategicPartners
	case competitiveness >= MidpointScore:
		return QuadrantLeverageOpportunities
	case spendImpact >= MidpointScore:
		return QuadrantCriticalNegotiations
	default:
		return QuadrantRationalizeExit
	}
}
