package analysis

import (
	"sort"
)

// supplierAggregate carries the grouped per-supplier aggregates every
// calculator derives its metrics from. Factoring the grouping into one
// primitive keeps the overview, positioning and ranking calculators from
// drifting apart on the base aggregates.
type supplierAggregate struct {
	Name          string
	ItemsCount    int
	Contracts     int
	L3Categories  int
	MeanPrice     float64
	MedianPrice   float64
	PriceStdDev   float64
	TotalSpending float64
}

// aggregateBySupplier groups items by display name and computes count,
// mean, median, sample standard deviation and sum of the total price plus
// distinct contract and distinct L3 category counts. The result is sorted
// by supplier name so every caller sees a deterministic order.
func aggregateBySupplier(items []Item) []supplierAggregate {
	type group struct {
		prices    []float64
		contracts map[string]struct{}
		l3        map[string]struct{}
	}

	groups := make(map[string]*group)
	for _, it := range items {
		g, ok := groups[it.SupplierName]
		if !ok {
			g = &group{
				contracts: make(map[string]struct{}),
				l3:        make(map[string]struct{}),
			}
			groups[it.SupplierName] = g
		}
		g.prices = append(g.prices, it.TotalPrice)
		if it.ContractNumber != "" {
			g.contracts[it.ContractNumber] = struct{}{}
		}
		if it.ClassL3 != "" {
			g.l3[it.ClassL3] = struct{}{}
		}
	}

	aggregates := make([]supplierAggregate, 0, len(groups))
	for name, g := range groups {
		total := 0.0
		for _, p := range g.prices {
			total += p
		}
		aggregates = append(aggregates, supplierAggregate{
			Name:          name,
			ItemsCount:    len(g.prices),
			Contracts:     len(g.contracts),
			L3Categories:  len(g.l3),
			MeanPrice:     Mean(g.prices),
			MedianPrice:   Median(g.prices),
			PriceStdDev:   StdDev(g.prices),
			TotalSpending: total,
		})
	}

	sort.Slice(aggregates, func(i, j int) bool {
		return aggregates[i].Name < aggregates[j].Name
	})
	return aggregates
}

// competitivenessScores computes the percentile-rank normalized
// price-competitiveness for a supplier aggregate set against the filtered
// set's overall mean price. A supplier priced below the overall mean
// scores a positive raw advantage; the rank normalization maps the raw
// scores into [0,1] with a midpoint fallback when every supplier ties.
func competitivenessScores(aggregates []supplierAggregate, overallMean float64) []float64 {
	raw := make([]float64, len(aggregates))
	if overallMean > 0 {
		for i, a := range aggregates {
			raw[i] = (overallMean - a.MeanPrice) / overallMean
		}
	}
	return PercentileRank(raw)
}

// filterItems applies a hierarchical category filter. A value missing from
// the data simply matches zero rows, which downstream calculators surface
// through the standard empty-result path.
func filterItems(items []Item, filter CategoryFilter) []Item {
	if filter.IsZero() {
		return items
	}
	filtered := make([]Item, 0, len(items))
	for _, it := range items {
		if filter.Matches(it) {
			filtered = append(filtered, it)
		}
	}
	return filtered
}
