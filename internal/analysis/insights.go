package analysis

import (
	"fmt"
)

// Narrative thresholds for the recommendation text. These are contractual:
// the generated bullets key off the exact score boundaries below.
const (
	strengthPricingFloor   = 0.8
	strengthPresenceFloor  = 0.7
	strengthCoverageFloor  = 0.6
	strengthStabilityFloor = 0.7

	partnershipContractsFloor = 3
	strategicContractsFloor   = 5
	expertCategoriesFloor     = 5

	lowVolatilityCeilingPct = 15.0

	marketLeaderSharePct      = 20.0
	significantPlayerSharePct = 10.0

	largeDealSpendPerContract  = 100_000.0
	mediumDealSpendPerContract = 50_000.0

	complexOrderItemsPerContract  = 20.0
	standardOrderItemsPerContract = 10.0

	maxStrengths       = 3
	maxAdvantages      = 4
	maxRecommendations = 4
)

// SupplierInsight is the templated narrative for one ranked supplier row.
// It is generated entirely from the numeric thresholds above; rendering it
// is the presentation layer's concern.
type SupplierInsight struct {
	SupplierName    string   `json:"supplier_name"`
	Strengths       []string `json:"strengths"`
	Advantages      []string `json:"advantages"`
	Recommendations []string `json:"recommendations"`
	MarketPosition  string   `json:"market_position"`
	DealScale       string   `json:"deal_scale"`
	OrderProfile    string   `json:"order_profile"`
}

// BuildInsight derives the narrative profile for one ranked supplier row.
func BuildInsight(m SupplierMetrics) SupplierInsight {
	return SupplierInsight{
		SupplierName:    m.SupplierName,
		Strengths:       buildStrengths(m),
		Advantages:      buildAdvantages(m),
		Recommendations: buildRecommendations(m),
		MarketPosition:  marketPosition(m.MarketShareCategory),
		DealScale:       dealScale(m),
		OrderProfile:    orderProfile(m),
	}
}

func buildStrengths(m SupplierMetrics) []string {
	var strengths []string
	if m.PriceCompetitiveness >= strengthPricingFloor {
		strengths = append(strengths, "Competitive Pricing")
	}
	if m.MarketPresence >= strengthPresenceFloor {
		strengths = append(strengths, "Strong Market Presence")
	}
	if m.CategoryCoverage >= strengthCoverageFloor {
		strengths = append(strengths, "Good Category Coverage")
	}
	if m.PriceStability >= strengthStabilityFloor {
		strengths = append(strengths, "Price Stability")
	}
	if len(strengths) == 0 {
		strengths = append(strengths, "Reliable Supplier")
	}
	if len(strengths) > maxStrengths {
		strengths = strengths[:maxStrengths]
	}
	return strengths
}

func buildAdvantages(m SupplierMetrics) []string {
	var advantages []string
	if m.PriceCompetitiveness >= strengthPricingFloor {
		advantages = append(advantages, fmt.Sprintf(
			"Cost Savings: top %.0f%% price performance in category",
			m.PriceCompetitiveness*100))
	}
	if m.MarketPresence >= strengthPresenceFloor {
		advantages = append(advantages, fmt.Sprintf(
			"Proven Scale: %.0f relationship value demonstrates capacity for large volumes",
			m.TotalSpending))
	}
	if m.ContractsCount >= partnershipContractsFloor {
		advantages = append(advantages, fmt.Sprintf(
			"Established Partnership: %d active contracts show a deep business relationship",
			m.ContractsCount))
	}
	if m.L3Categories >= expertCategoriesFloor {
		advantages = append(advantages, fmt.Sprintf(
			"Category Expert: %d product categories covered",
			m.L3Categories))
	}
	if volatilityPct := m.PriceVolatility * 100; volatilityPct < lowVolatilityCeilingPct {
		advantages = append(advantages, fmt.Sprintf(
			"Price Stability: %.1f%% price volatility allows predictable cost planning",
			volatilityPct))
	}
	if len(advantages) == 0 {
		advantages = append(advantages, "Reliable supplier with consistent performance metrics")
	}
	if len(advantages) > maxAdvantages {
		advantages = advantages[:maxAdvantages]
	}
	return advantages
}

func buildRecommendations(m SupplierMetrics) []string {
	var recs []string
	if m.PriceCompetitiveness >= strengthPricingFloor && m.MarketPresence < MidpointScore {
		recs = append(recs, "Expand Volume: excellent pricing, consider consolidating more spend with this supplier")
	}
	if m.MarketPresence >= strengthPresenceFloor && m.PriceCompetitiveness < 0.6 {
		recs = append(recs, "Price Negotiation: large volume gives leverage to negotiate better rates")
	}
	if m.ContractsCount >= strategicContractsFloor {
		recs = append(recs, "Strategic Partnership: consider preferred supplier status and long-term agreements")
	}
	switch {
	case m.SpecializationFocus == SpecializationSpecialist && m.L3Categories <= SpecialistMaxCategories:
		recs = append(recs, "Niche Expert: ideal for specialized requirements in specific categories")
	case m.SpecializationFocus == SpecializationDiversified && m.L3Categories >= FocusedMaxCategories+1:
		recs = append(recs, "One-Stop Solution: suited for category consolidation and simplified vendor management")
	}
	if m.PerformanceLevel == PerformanceExcellent {
		recs = append(recs, "Fast Track: prioritize for new procurement opportunities")
	}
	if m.MarketPresence >= strengthPricingFloor {
		recs = append(recs, "Monitor Dependency: high spend concentration, ensure backup options")
	}
	if len(recs) == 0 {
		recs = append(recs, "Suitable for standard procurement needs with regular performance monitoring")
	}
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

func marketPosition(sharePct float64) string {
	switch {
	case sharePct >= marketLeaderSharePct:
		return "Market Leader"
	case sharePct >= significantPlayerSharePct:
		return "Significant Player"
	default:
		return "Niche Provider"
	}
}

func dealScale(m SupplierMetrics) string {
	perContract := 0.0
	if m.ContractsCount > 0 {
		perContract = m.TotalSpending / float64(m.ContractsCount)
	}
	switch {
	case perContract >= largeDealSpendPerContract:
		return "Large Deals"
	case perContract >= mediumDealSpendPerContract:
		return "Medium Scale"
	default:
		return "Flexible Scale"
	}
}

func orderProfile(m SupplierMetrics) string {
	perContract := 0.0
	if m.ContractsCount > 0 {
		perContract = float64(m.ItemsCount) / float64(m.ContractsCount)
	}
	switch {
	case perContract >= complexOrderItemsPerContract:
		return "Complex Orders"
	case perContract >= standardOrderItemsPerContract:
		return "Standard Orders"
	default:
		return "Focused Orders"
	}
}
