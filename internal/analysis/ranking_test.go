package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rankingFixture builds a dataset with three suppliers of distinct price
// levels, volumes and category breadth.
func rankingFixture() []Item {
	var items []Item
	add := func(supplier, contract string, price float64, l3 string, n int) {
		for i := 0; i < n; i++ {
			items = append(items, item(supplier, contract, price, "HW", "Servers", l3))
		}
	}

	// Alpha: cheap, 6 items, 2 contracts, 2 L3 categories.
	add("1", "A1", 80, "Rack", 3)
	add("1", "A2", 90, "Blade", 3)
	// Beta: mid-priced, 12 items, 4 contracts, 4 L3 categories.
	add("2", "B1", 150, "Rack", 3)
	add("2", "B2", 160, "Blade", 3)
	add("2", "B3", 170, "Tower", 3)
	add("2", "B4", 180, "Edge", 3)
	// Gamma: expensive, 4 items, 1 contract, 1 L3 category.
	add("3", "G1", 400, "Mainframe", 4)
	return items
}

func TestTopSuppliersThresholdFiltering(t *testing.T) {
	ctx := newTestContext(rankingFixture())

	t.Run("min items drops small suppliers", func(t *testing.T) {
		rows := ctx.TopSuppliers(CategoryFilter{}, RankingParams{MinItems: 5, MinContracts: 1, TopN: 10})
		require.Len(t, rows, 2)
		for _, r := range rows {
			assert.GreaterOrEqual(t, r.ItemsCount, 5)
			assert.GreaterOrEqual(t, r.ContractsCount, 1)
		}
	})

	t.Run("min contracts drops single-contract suppliers", func(t *testing.T) {
		rows := ctx.TopSuppliers(CategoryFilter{}, RankingParams{MinItems: 1, MinContracts: 2, TopN: 10})
		require.Len(t, rows, 2)
		for _, r := range rows {
			assert.GreaterOrEqual(t, r.ContractsCount, 2)
		}
	})

	t.Run("no survivor is a normal empty outcome", func(t *testing.T) {
		rows := ctx.TopSuppliers(CategoryFilter{}, RankingParams{MinItems: 100, MinContracts: 1, TopN: 10})
		require.NotNil(t, rows)
		assert.Empty(t, rows)
	})

	t.Run("filter matching nothing returns empty", func(t *testing.T) {
		rows := ctx.TopSuppliers(CategoryFilter{L1: "NOSUCH"}, RankingParams{TopN: 10})
		require.NotNil(t, rows)
		assert.Empty(t, rows)
	})
}

func TestTopSuppliersOrderingAndTopN(t *testing.T) {
	ctx := newTestContext(rankingFixture())
	rows := ctx.TopSuppliers(CategoryFilter{}, RankingParams{MinItems: 1, MinContracts: 1, TopN: 10})
	require.Len(t, rows, 3)

	// Descending by competitiveness: cheapest first.
	assert.Equal(t, "Alpha Supplies", rows[0].SupplierName)
	assert.Equal(t, "Beta Industrial", rows[1].SupplierName)
	assert.Equal(t, "Gamma Tech", rows[2].SupplierName)
	assert.Equal(t, 1.0, rows[0].PriceCompetitiveness)
	assert.Equal(t, 0.0, rows[2].PriceCompetitiveness)

	t.Run("top n truncates", func(t *testing.T) {
		top2 := ctx.TopSuppliers(CategoryFilter{}, RankingParams{MinItems: 1, MinContracts: 1, TopN: 2})
		require.Len(t, top2, 2)
		assert.Equal(t, rows[0], top2[0])
		assert.Equal(t, rows[1], top2[1])
	})
}

func TestTopSuppliersProfileMetrics(t *testing.T) {
	ctx := newTestContext(rankingFixture())
	rows := ctx.TopSuppliers(CategoryFilter{}, RankingParams{MinItems: 1, MinContracts: 1, TopN: 10})
	require.Len(t, rows, 3)

	byName := map[string]SupplierMetrics{}
	shareSum := 0.0
	for _, r := range rows {
		byName[r.SupplierName] = r
		shareSum += r.MarketShareCategory
	}

	t.Run("category shares sum to 100 over survivors", func(t *testing.T) {
		assert.InDelta(t, 100.0, shareSum, 1e-9)
	})

	t.Run("market presence is spending over the maximum", func(t *testing.T) {
		beta := byName["Beta Industrial"] // 1980 spending, the maximum
		assert.Equal(t, 1.0, beta.MarketPresence)
		alpha := byName["Alpha Supplies"] // 510 spending
		assert.InDelta(t, 510.0/1980.0, alpha.MarketPresence, 1e-9)
	})

	t.Run("category coverage is L3 count over the maximum", func(t *testing.T) {
		assert.Equal(t, 1.0, byName["Beta Industrial"].CategoryCoverage)
		assert.InDelta(t, 0.5, byName["Alpha Supplies"].CategoryCoverage, 1e-9)
		assert.InDelta(t, 0.25, byName["Gamma Tech"].CategoryCoverage, 1e-9)
	})

	t.Run("least volatile supplier scores stability 1.0", func(t *testing.T) {
		// Gamma has a single price level, zero variance.
		gamma := byName["Gamma Tech"]
		assert.Equal(t, 0.0, gamma.PriceVolatility)
		assert.InDelta(t, 1.0, gamma.PriceStability, 1e-9)
		for _, r := range rows {
			assert.GreaterOrEqual(t, r.PriceStability, 0.0)
			assert.LessOrEqual(t, r.PriceStability, 1.0)
		}
	})
}

func TestTopSuppliersClassifications(t *testing.T) {
	ctx := newTestContext(rankingFixture())
	rows := ctx.TopSuppliers(CategoryFilter{}, RankingParams{MinItems: 1, MinContracts: 1, TopN: 10})
	require.Len(t, rows, 3)

	byName := map[string]SupplierMetrics{}
	for _, r := range rows {
		byName[r.SupplierName] = r
	}

	t.Run("performance boundaries", func(t *testing.T) {
		assert.Equal(t, PerformanceExcellent, byName["Alpha Supplies"].PerformanceLevel, "score 1.0")
		assert.Equal(t, PerformanceGood, byName["Beta Industrial"].PerformanceLevel, "score 0.5")
		assert.Equal(t, PerformanceAverage, byName["Gamma Tech"].PerformanceLevel, "score 0.0")
	})

	t.Run("size tertiles", func(t *testing.T) {
		// Spending: Alpha 510, Beta 1980, Gamma 1600.
		assert.Equal(t, SizeLarge, byName["Beta Industrial"].SupplierSize)
		assert.Equal(t, SizeMedium, byName["Gamma Tech"].SupplierSize)
		assert.Equal(t, SizeSmall, byName["Alpha Supplies"].SupplierSize)
	})

	t.Run("engagement tertiles", func(t *testing.T) {
		// Contracts: Alpha 2, Beta 4, Gamma 1.
		assert.Equal(t, EngagementHigh, byName["Beta Industrial"].EngagementLevel)
		assert.Equal(t, EngagementMedium, byName["Alpha Supplies"].EngagementLevel)
		assert.Equal(t, EngagementLow, byName["Gamma Tech"].EngagementLevel)
	})

	t.Run("specialization boundaries", func(t *testing.T) {
		tests := []struct {
			l3       int
			expected string
		}{
			{1, SpecializationSpecialist},
			{3, SpecializationSpecialist},
			{4, SpecializationFocused},
			{6, SpecializationFocused},
			{7, SpecializationDiversified},
		}
		for _, tt := range tests {
			assert.Equal(t, tt.expected, classifySpecialization(tt.l3), "l3=%d", tt.l3)
		}
	})
}

func TestTopSuppliersIdempotence(t *testing.T) {
	ctx := newTestContext(rankingFixture())
	params := RankingParams{MinItems: 1, MinContracts: 1, TopN: 5}

	first := ctx.TopSuppliers(CategoryFilter{L1: "HW"}, params)
	second := ctx.TopSuppliers(CategoryFilter{L1: "HW"}, params)

	require.Equal(t, first, second, "identical inputs yield identical rows in identical order")
}

func TestTopSuppliersEqualMeansMidpoint(t *testing.T) {
	// Every supplier has the same per-item price: all competitiveness
	// scores resolve to the midpoint rather than dividing by zero.
	var items []Item
	for i := 0; i < 3; i++ {
		items = append(items, item("1", "C1", 100, "HW", "", "Rack"))
		items = append(items, item("2", "C2", 100, "HW", "", "Rack"))
	}
	rows := newTestContext(items).TopSuppliers(CategoryFilter{}, RankingParams{MinItems: 1, MinContracts: 1, TopN: 10})
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, MidpointScore, r.PriceCompetitiveness)
	}
	// Deterministic tie-break on the supplier name.
	assert.Equal(t, "Alpha Supplies", rows[0].SupplierName)
	assert.Equal(t, "Beta Industrial", rows[1].SupplierName)
}
