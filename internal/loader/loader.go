// Package loader ingests the three procurement tables (items, suppliers,
// contracts) from CSV or Excel exports into the record types consumed by
// the analysis engine. Parsing is permissive: malformed numeric cells
// degrade to zero values that the engine's cleaner filters out, so a bad
// row never aborts a load.
package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"hash/fnv"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"proclens/internal/analysis"
)

// Default file names inside a dataset directory.
const (
	ItemsFile     = "items.csv"
	SuppliersFile = "suppliers.csv"
	ContractsFile = "contracts.csv"
)

// Contract is one row of the contracts table. The engine derives contract
// counts from item rows; the table is carried for reference output.
type Contract struct {
	Number     string  `json:"contract_number"`
	SupplierID string  `json:"supplier_id"`
	TotalValue float64 `json:"total_value"`
}

// Dataset is one immutable load of the three tables. Version fingerprints
// the loaded content and participates in memoization cache keys.
type Dataset struct {
	Items     []analysis.Item
	Suppliers []analysis.Supplier
	Contracts []Contract
	Version   string
}

// Load reads the three CSV tables from dir concurrently. All three files
// must exist; per-row parse problems are tolerated and logged at debug
// level by the callers that care.
func Load(ctx context.Context, dir string, logger *slog.Logger) (*Dataset, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		items     []analysis.Item
		suppliers []analysis.Supplier
		contracts []Contract
		digests   [3]uint64
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, digest, err := readTable(ctx, filepath.Join(dir, ItemsFile))
		if err != nil {
			return fmt.Errorf("load items: %w", err)
		}
		items = parseItems(rows)
		digests[0] = digest
		return nil
	})
	g.Go(func() error {
		rows, digest, err := readTable(ctx, filepath.Join(dir, SuppliersFile))
		if err != nil {
			return fmt.Errorf("load suppliers: %w", err)
		}
		suppliers = parseSuppliers(rows)
		digests[1] = digest
		return nil
	})
	g.Go(func() error {
		rows, digest, err := readTable(ctx, filepath.Join(dir, ContractsFile))
		if err != nil {
			return fmt.Errorf("load contracts: %w", err)
		}
		contracts = parseContracts(rows)
		digests[2] = digest
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ds := &Dataset{
		Items:     items,
		Suppliers: suppliers,
		Contracts: contracts,
		Version:   fmt.Sprintf("%x-%x-%x", digests[0], digests[1], digests[2]),
	}

	logger.Info("dataset loaded",
		slog.String("dir", dir),
		slog.Int("items", len(items)),
		slog.Int("suppliers", len(suppliers)),
		slog.Int("contracts", len(contracts)),
		slog.String("version", ds.Version),
	)
	return ds, nil
}

// readTable reads a whole CSV file, strips a UTF-8 BOM if present and
// returns the records plus a content digest.
func readTable(ctx context.Context, path string) ([][]string, uint64, error) {
	select {
	case <-ctx.Done():
		return nil, 0, ctx.Err()
	default:
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	content = stripBOM(content)

	hasher := fnv.New64a()
	hasher.Write(content)

	reader := csv.NewReader(strings.NewReader(string(content)))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("read CSV %s: %w", filepath.Base(path), err)
	}
	return records, hasher.Sum64(), nil
}

func stripBOM(content []byte) []byte {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:]
	}
	return content
}

// columnIndex maps normalized header names to their position.
func columnIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return index
}

func cell(row []string, index map[string]int, column string) string {
	i, ok := index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseAmount converts a numeric cell, tolerating thousands separators and
// currency noise. Unparseable cells yield 0, which the cleaner drops.
func parseAmount(raw string) float64 {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "€")
	raw = strings.ReplaceAll(raw, ",", "")
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseItems(records [][]string) []analysis.Item {
	if len(records) < 2 {
		return nil
	}
	index := columnIndex(records[0])

	items := make([]analysis.Item, 0, len(records)-1)
	for _, row := range records[1:] {
		items = append(items, analysis.Item{
			SupplierID:     cell(row, index, "supplier_id"),
			ContractNumber: cell(row, index, "contract_number"),
			TotalPrice:     parseAmount(cell(row, index, "total_price")),
			UnitPrice:      parseAmount(cell(row, index, "unit_price")),
			Quantity:       parseAmount(cell(row, index, "quantity")),
			ClassL1:        cell(row, index, "class_l1"),
			ClassL2:        cell(row, index, "class_l2"),
			ClassL3:        cell(row, index, "class_l3"),
			Confidence:     cell(row, index, "confidence"),
		})
	}
	return items
}

func parseSuppliers(records [][]string) []analysis.Supplier {
	if len(records) < 2 {
		return nil
	}
	index := columnIndex(records[0])

	suppliers := make([]analysis.Supplier, 0, len(records)-1)
	for _, row := range records[1:] {
		suppliers = append(suppliers, analysis.Supplier{
			ID:             cell(row, index, "id"),
			Name:           cell(row, index, "name"),
			DisplayName:    cell(row, index, "display_name"),
			Specialization: cell(row, index, "specialization"),
		})
	}
	return suppliers
}

func parseContracts(records [][]string) []Contract {
	if len(records) < 2 {
		return nil
	}
	index := columnIndex(records[0])

	contracts := make([]Contract, 0, len(records)-1)
	for _, row := range records[1:] {
		contracts = append(contracts, Contract{
			Number:     cell(row, index, "contract_number"),
			SupplierID: cell(row, index, "supplier_id"),
			TotalValue: parseAmount(cell(row, index, "total_value")),
		})
	}
	return contracts
}
