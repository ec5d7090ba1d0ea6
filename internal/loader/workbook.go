package loader

import (
	"fmt"
	"hash/fnv"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"proclens/internal/analysis"
)

// Sheet names probed inside an Excel procurement export. Exports from
// different tooling vary in capitalization and padding.
var (
	itemSheetNames     = []string{"items", "Items", "ITEMS", "line_items", "Line Items"}
	supplierSheetNames = []string{"suppliers", "Suppliers", "SUPPLIERS", "Vendor Master"}
	contractSheetNames = []string{"contracts", "Contracts", "CONTRACTS"}
)

// LoadWorkbook reads items, suppliers and contracts from one Excel
// workbook. The items sheet is mandatory; suppliers and contracts sheets
// are optional (items with no master rows still analyze, every supplier
// degrading to a sentinel name).
func LoadWorkbook(path string, logger *slog.Logger) (*Dataset, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	itemRows, itemSheet := findSheet(f, itemSheetNames)
	if itemRows == nil {
		return nil, fmt.Errorf("no items sheet found in %s (sheets: %s)",
			path, strings.Join(f.GetSheetList(), ", "))
	}
	logger.Info("found items sheet", slog.String("sheet", itemSheet), slog.Int("rows", len(itemRows)))

	supplierRows, _ := findSheet(f, supplierSheetNames)
	contractRows, _ := findSheet(f, contractSheetNames)

	ds := &Dataset{
		Items:     parseItems(itemRows),
		Suppliers: parseSuppliers(supplierRows),
		Contracts: parseContracts(contractRows),
		Version:   workbookVersion(path, itemRows, supplierRows, contractRows),
	}

	logger.Info("workbook loaded",
		slog.String("path", path),
		slog.Int("items", len(ds.Items)),
		slog.Int("suppliers", len(ds.Suppliers)),
		slog.Int("contracts", len(ds.Contracts)),
	)
	return ds, nil
}

// findSheet returns the rows of the first sheet matching one of the
// candidate names, falling back to a header scan: a sheet whose first row
// mentions both a supplier and a price column is treated as the items
// sheet regardless of its name.
func findSheet(f *excelize.File, candidates []string) ([][]string, string) {
	for _, name := range candidates {
		if rows, err := f.GetRows(name); err == nil && len(rows) > 0 {
			return rows, name
		}
	}

	lowered := make([]string, len(candidates))
	for i, c := range candidates {
		lowered[i] = strings.ToLower(strings.TrimSpace(c))
	}
	for _, name := range f.GetSheetList() {
		clean := strings.ToLower(strings.TrimSpace(name))
		for _, c := range lowered {
			if clean == c {
				if rows, err := f.GetRows(name); err == nil && len(rows) > 0 {
					return rows, name
				}
			}
		}
	}
	return nil, ""
}

func workbookVersion(path string, tables ...[][]string) string {
	hasher := fnv.New64a()
	hasher.Write([]byte(path))
	for _, rows := range tables {
		for _, row := range rows {
			for _, cell := range row {
				hasher.Write([]byte(cell))
				hasher.Write([]byte{0})
			}
			hasher.Write([]byte{'\n'})
		}
	}
	return fmt.Sprintf("%x", hasher.Sum64())
}

// Context builds the analysis context for a loaded dataset.
func (d *Dataset) Context(logger *slog.Logger) *analysis.Context {
	return analysis.NewContext(d.Items, d.Suppliers, logger)
}
