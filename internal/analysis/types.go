package analysis

import (
	"math"
)

// Item represents a single procurement line item.
type Item struct {
	SupplierID     string  `json:"supplier_id"`
	SupplierName   string  `json:"supplier_name"` // resolved display name, set by the standardizer
	ContractNumber string  `json:"contract_number"`
	TotalPrice     float64 `json:"total_price"`
	UnitPrice      float64 `json:"unit_price"`
	Quantity       float64 `json:"quantity"`
	ClassL1        string  `json:"class_l1"`
	ClassL2        string  `json:"class_l2"`
	ClassL3        string  `json:"class_l3"`
	Confidence     string  `json:"confidence"`
}

// IsAnalyzable reports whether the item qualifies for metric computation:
// a present, strictly positive total price and an attributed supplier.
func (it Item) IsAnalyzable() bool {
	return it.SupplierID != "" && it.TotalPrice > 0 &&
		!math.IsNaN(it.TotalPrice) && !math.IsInf(it.TotalPrice, 0)
}

// Supplier represents one row of the supplier master table.
type Supplier struct {
	ID             string `json:"id"` // "supplier_<n>"
	Name           string `json:"name"`
	DisplayName    string `json:"display_name"`
	Specialization string `json:"specialization"`
}

// CategoryLevel identifies one level of the three-level category tree.
type CategoryLevel string

const (
	LevelL1 CategoryLevel = "l1"
	LevelL2 CategoryLevel = "l2"
	LevelL3 CategoryLevel = "l3"
)

// AllCategories is the pass-through sentinel for a filter level.
const AllCategories = "All"

// CategoryFilter is an optional hierarchical category filter. An empty
// string or AllCategories at a level means pass-through at that level.
type CategoryFilter struct {
	L1 string `json:"l1,omitempty"`
	L2 string `json:"l2,omitempty"`
	L3 string `json:"l3,omitempty"`
}

// IsZero reports whether no level restricts the item set.
func (f CategoryFilter) IsZero() bool {
	return !restricts(f.L1) && !restricts(f.L2) && !restricts(f.L3)
}

func restricts(level string) bool {
	return level != "" && level != AllCategories
}

// Matches reports whether an item passes every restricting level.
func (f CategoryFilter) Matches(it Item) bool {
	if restricts(f.L1) && it.ClassL1 != f.L1 {
		return false
	}
	if restricts(f.L2) && it.ClassL2 != f.L2 {
		return false
	}
	if restricts(f.L3) && it.ClassL3 != f.L3 {
		return false
	}
	return true
}

// Strategic quadrant labels assigned by the positioning calculator.
const (
	QuadrantStrategicPartners     = "Strategic Partners"
	QuadrantLeverageOpportunities = "Leverage Opportunities"
	QuadrantCriticalNegotiations  = "Critical Negotiations"
	QuadrantRationalizeExit       = "Rationalize/Exit"
)

// Classification labels produced by the ranking engine.
const (
	SizeLarge  = "Large"
	SizeMedium = "Medium"
	SizeSmall  = "Small"

	PerformanceExcellent = "Excellent"
	PerformanceGood      = "Good"
	PerformanceAverage   = "Average"

	EngagementHigh   = "High"
	EngagementMedium = "Medium"
	EngagementLow    = "Low"

	SpecializationSpecialist  = "Specialist"
	SpecializationFocused     = "Focused"
	SpecializationDiversified = "Diversified"
)

// HHI interpretation bands. The boundaries are fixed business constants:
// an index below 1500 reads as competitive, below 2500 as moderately
// concentrated, and 2500 or above as highly concentrated.
const (
	HHICompetitiveCeiling  = 1500.0
	HHIConcentratedCeiling = 2500.0

	HHICompetitive            = "Competitive Market"
	HHIModeratelyConcentrated = "Moderately Concentrated"
	HHIHighlyConcentrated     = "Highly Concentrated"
)

// InterpretHHI maps a Herfindahl-Hirschman index value to its band label.
func InterpretHHI(hhi float64) string {
	switch {
	case hhi < HHICompetitiveCeiling:
		return HHICompetitive
	case hhi < HHIConcentratedCeiling:
		return HHIModeratelyConcentrated
	default:
		return HHIHighlyConcentrated
	}
}

// Fixed scoring constants shared by the calculators.
const (
	// MidpointScore is assigned when a normalization degenerates
	// (every supplier ties on the raw metric).
	MidpointScore = 0.5

	// StabilityEpsilon keeps the price-stability inversion finite for
	// suppliers with zero observed price variance.
	StabilityEpsilon = 0.001

	// Tertile boundaries used for size and engagement classification.
	LowerTertile = 0.33
	UpperTertile = 0.66

	// Performance label boundaries on the competitiveness score.
	PerformanceExcellentFloor = 0.75
	PerformanceGoodFloor      = 0.5

	// Specialization boundaries on the distinct-L3 count.
	SpecialistMaxCategories = 3
	FocusedMaxCategories    = 6

	// ControlShareTarget is the cumulative market-share threshold used
	// for the "how many suppliers control the market" count.
	ControlShareTarget = 80.0
)

// SupplierMetrics is one derived, ephemeral row per supplier. It is
// recomputed from the cleaned item set on every call and never persisted;
// the ranking-only profile fields are zero for positioning output.
type SupplierMetrics struct {
	SupplierName   string  `json:"supplier_name"`
	ItemsCount     int     `json:"items_count"`
	ContractsCount int     `json:"contracts_count"`
	L3Categories   int     `json:"l3_categories"`
	MeanPrice      float64 `json:"mean_total_price"`
	MedianPrice    float64 `json:"median_total_price"`
	PriceStdDev    float64 `json:"price_std"`
	TotalSpending  float64 `json:"total_spending"`

	// Scores in [0,1].
	PriceCompetitiveness float64 `json:"price_competitiveness"`
	SpendImpact          float64 `json:"spend_impact"`

	// Positioning classification.
	Quadrant string `json:"quadrant,omitempty"`

	// Ranking profile metrics, in [0,1] except the share percentage.
	MarketShareCategory float64 `json:"market_share_category,omitempty"`
	MarketPresence      float64 `json:"market_presence,omitempty"`
	CategoryCoverage    float64 `json:"category_coverage,omitempty"`
	PriceVolatility     float64 `json:"price_volatility,omitempty"`
	PriceStability      float64 `json:"price_stability,omitempty"`

	// Ranking classification labels.
	SupplierSize        string `json:"supplier_size,omitempty"`
	PerformanceLevel    string `json:"performance_level,omitempty"`
	EngagementLevel     string `json:"engagement_level,omitempty"`
	SpecializationFocus string `json:"specialization_focus,omitempty"`
}

// MarketShare is one entry of a descending market-share series.
type MarketShare struct {
	Name     string  `json:"name"`
	Spending float64 `json:"spending"`
	Share    float64 `json:"share"` // percentage of the portfolio total
}

// MarketOverview is the whole-portfolio snapshot produced by the market
// overview calculator. Derived and ephemeral: recomputed per call.
type MarketOverview struct {
	TotalItems       int     `json:"total_items"`
	TotalSuppliers   int     `json:"total_suppliers"`
	TotalContracts   int     `json:"total_contracts"`
	TotalMarketValue float64 `json:"total_market_value"`

	SupplierShares []MarketShare `json:"supplier_market_share"`
	CategoryShares []MarketShare `json:"category_market_share"`

	HHISuppliers      float64            `json:"hhi_suppliers"`
	HHIInterpretation string             `json:"hhi_interpretation"`
	HHIByCategory     map[string]float64 `json:"hhi_by_category"`

	Top10Concentration float64 `json:"top_10_concentration"`
	Control80Suppliers int     `json:"control_80_suppliers"`
}

// IsEmpty reports whether the snapshot was computed from an empty
// cleaned item set.
func (mo MarketOverview) IsEmpty() bool {
	return mo.TotalItems == 0
}

// RankingParams gates and sizes the top-supplier ranking.
type RankingParams struct {
	MinItems     int `json:"min_items"`
	MinContracts int `json:"min_contracts"`
	TopN         int `json:"top_n"`
}
