package analysis

import (
	"sort"
)

// MarketOverview computes the whole-portfolio snapshot: totals, descending
// market-share series per supplier and per L1 category, HHI concentration
// overall and within each category, top-10 concentration and the number of
// suppliers controlling 80% of spend. An empty cleaned item set yields the
// zero snapshot; no ratio is ever taken against a zero denominator.
func (c *Context) MarketOverview() MarketOverview {
	if len(c.items) == 0 || c.totalMarketValue <= 0 {
		return MarketOverview{HHIByCategory: map[string]float64{}}
	}

	suppliers := make(map[string]struct{})
	contracts := make(map[string]struct{})
	supplierSpending := make(map[string]float64)
	categorySpending := make(map[string]float64)

	for _, it := range c.items {
		suppliers[it.SupplierName] = struct{}{}
		if it.ContractNumber != "" {
			contracts[it.ContractNumber] = struct{}{}
		}
		supplierSpending[it.SupplierName] += it.TotalPrice
		if it.ClassL1 != "" {
			categorySpending[it.ClassL1] += it.TotalPrice
		}
	}

	supplierShares := shareSeries(supplierSpending, c.totalMarketValue)
	categoryShares := shareSeries(categorySpending, c.totalMarketValue)

	hhi := 0.0
	for _, s := range supplierShares {
		hhi += s.Share * s.Share
	}

	overview := MarketOverview{
		TotalItems:         len(c.items),
		TotalSuppliers:     len(suppliers),
		TotalContracts:     len(contracts),
		TotalMarketValue:   c.totalMarketValue,
		SupplierShares:     supplierShares,
		CategoryShares:     categoryShares,
		HHISuppliers:       hhi,
		HHIInterpretation:  InterpretHHI(hhi),
		HHIByCategory:      c.hhiByCategory(),
		Top10Concentration: topConcentration(supplierShares, 10),
		Control80Suppliers: controlCount(supplierShares, ControlShareTarget),
	}

	c.logger.Debug("market overview computed",
		"suppliers", overview.TotalSuppliers,
		"contracts", overview.TotalContracts,
		"hhi", overview.HHISuppliers,
		"control_80", overview.Control80Suppliers,
	)
	return overview
}

// hhiByCategory computes an independent HHI within each L1 category, with
// supplier shares renormalized to 100% inside the category rather than
// against the portfolio total.
func (c *Context) hhiByCategory() map[string]float64 {
	type catGroup struct {
		supplierSpending map[string]float64
		total            float64
	}

	categories := make(map[string]*catGroup)
	for _, it := range c.items {
		if it.ClassL1 == "" {
			continue
		}
		g, ok := categories[it.ClassL1]
		if !ok {
			g = &catGroup{supplierSpending: make(map[string]float64)}
			categories[it.ClassL1] = g
		}
		g.supplierSpending[it.SupplierName] += it.TotalPrice
		g.total += it.TotalPrice
	}

	hhiByCategory := make(map[string]float64, len(categories))
	for category, g := range categories {
		if g.total <= 0 {
			continue
		}
		hhi := 0.0
		for _, spending := range g.supplierSpending {
			share := spending / g.total * 100
			hhi += share * share
		}
		hhiByCategory[category] = hhi
	}
	return hhiByCategory
}

// shareSeries converts a spending map into a share series sorted by
// spending descending, name ascending on ties for deterministic output.
func shareSeries(spending map[string]float64, total float64) []MarketShare {
	series := make([]MarketShare, 0, len(spending))
	for name, spend := range spending {
		series = append(series, MarketShare{
			Name:     name,
			Spending: spend,
			Share:    spend / total * 100,
		})
	}
	sort.Slice(series, func(i, j int) bool {
		if series[i].Spending != series[j].Spending {
			return series[i].Spending > series[j].Spending
		}
		return series[i].Name < series[j].Name
	})
	return series
}

// topConcentration sums the n largest shares of a descending series.
func topConcentration(series []MarketShare, n int) float64 {
	if n > len(series) {
		n = len(series)
	}
	sum := 0.0
	for _, s := range series[:n] {
		sum += s.Share
	}
	return sum
}

// controlCount walks a descending share series accumulating share and
// returns the number of suppliers needed to reach the target, inclusive of
// the supplier that crosses it.
func controlCount(series []MarketShare, target float64) int {
	cumulative := 0.0
	for i, s := range series {
		cumulative += s.Share
		if cumulative >= target {
			return i + 1
		}
	}
	return len(series)
}
