package analysis

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// SaveOverviewCSV writes the market overview snapshot as two-section CSV
// output: headline figures first, then the supplier share series. Output
// is deterministic because the share series is already sorted.
func SaveOverviewCSV(overview MarketOverview, outputPath string) error {
	writer, file, err := createCSV(outputPath)
	if err != nil {
		return err
	}
	defer file.Close()
	defer writer.Flush()

	headline := [][]string{
		{"Metric", "Value"},
		{"Total_Items", strconv.Itoa(overview.TotalItems)},
		{"Total_Suppliers", strconv.Itoa(overview.TotalSuppliers)},
		{"Total_Contracts", strconv.Itoa(overview.TotalContracts)},
		{"Total_Market_Value", formatFloat(overview.TotalMarketValue)},
		{"HHI_Suppliers", formatFloat(overview.HHISuppliers)},
		{"HHI_Interpretation", overview.HHIInterpretation},
		{"Top_10_Concentration", formatFloat(overview.Top10Concentration)},
		{"Control_80_Suppliers", strconv.Itoa(overview.Control80Suppliers)},
		{},
		{"Supplier", "Spending", "Market_Share_Pct"},
	}
	for _, record := range headline {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write overview record: %w", err)
		}
	}

	for _, share := range overview.SupplierShares {
		record := []string{share.Name, formatFloat(share.Spending), formatFloat(share.Share)}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write share record for %s: %w", share.Name, err)
		}
	}
	return nil
}

// SaveMetricsCSV writes supplier metric rows (positioning or ranking
// output) to CSV in their computed order.
func SaveMetricsCSV(rows []SupplierMetrics, outputPath string) error {
	writer, file, err := createCSV(outputPath)
	if err != nil {
		return err
	}
	defer file.Close()
	defer writer.Flush()

	header := []string{
		"Supplier",
		"Items",
		"Contracts",
		"L3_Categories",
		"Mean_Price",
		"Median_Price",
		"Price_StdDev",
		"Total_Spending",
		"Price_Competitiveness",
		"Spend_Impact",
		"Quadrant",
		"Market_Share_Category",
		"Market_Presence",
		"Category_Coverage",
		"Price_Stability",
		"Size",
		"Performance",
		"Engagement",
		"Specialization",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write metrics header: %w", err)
	}

	for _, m := range rows {
		record := []string{
			m.SupplierName,
			strconv.Itoa(m.ItemsCount),
			strconv.Itoa(m.ContractsCount),
			strconv.Itoa(m.L3Categories),
			formatFloat(m.MeanPrice),
			formatFloat(m.MedianPrice),
			formatFloat(m.PriceStdDev),
			formatFloat(m.TotalSpending),
			formatFloat(m.PriceCompetitiveness),
			formatFloat(m.SpendImpact),
			m.Quadrant,
			formatFloat(m.MarketShareCategory),
			formatFloat(m.MarketPresence),
			formatFloat(m.CategoryCoverage),
			formatFloat(m.PriceStability),
			m.SupplierSize,
			m.PerformanceLevel,
			m.EngagementLevel,
			m.SpecializationFocus,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write metrics record for %s: %w", m.SupplierName, err)
		}
	}
	return nil
}

func createCSV(outputPath string) (*csv.Writer, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("create output directory: %w", err)
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("create CSV file: %w", err)
	}
	return csv.NewWriter(file), file, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
