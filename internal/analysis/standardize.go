package analysis

import (
	"fmt"
	"strconv"
	"strings"
)

// SupplierIDPrefix is the marker carried by supplier master ids, e.g.
// "supplier_42".
const SupplierIDPrefix = "supplier_"

// Sentinel display-name prefixes for unresolvable supplier identities.
// Both preserve the original identifier so rows stay traceable.
const (
	UnknownSupplierPrefix = "Unknown_Supplier_"
	InvalidSupplierPrefix = "Invalid_Supplier_"
)

// SupplierIndex maps numeric supplier ids to canonical display names.
type SupplierIndex map[int64]string

// BuildSupplierIndex builds the id → display-name index from the supplier
// master table. Rows whose id does not carry the expected prefix or whose
// numeric part fails conversion are skipped; a malformed master row never
// fails the build.
func BuildSupplierIndex(suppliers []Supplier) SupplierIndex {
	index := make(SupplierIndex, len(suppliers))
	for _, s := range suppliers {
		if !strings.HasPrefix(s.ID, SupplierIDPrefix) {
			continue
		}
		id, ok := parseNumericID(strings.TrimPrefix(s.ID, SupplierIDPrefix))
		if !ok {
			continue
		}
		index[id] = s.DisplayName
	}
	return index
}

// DisplayName resolves a raw item supplier identifier to a display name.
// Numeric ids missing from the index degrade to Unknown_Supplier_<id>,
// non-numeric ids to Invalid_Supplier_<raw>. Exactly one name is produced
// for every input, so downstream grouping needs no null handling.
func (si SupplierIndex) DisplayName(rawID string) string {
	id, ok := parseNumericID(rawID)
	if !ok {
		return InvalidSupplierPrefix + rawID
	}
	if name, found := si[id]; found {
		return name
	}
	return fmt.Sprintf("%s%d", UnknownSupplierPrefix, id)
}

// StandardizeSupplierNames returns a copy of the items with the
// SupplierName column populated from the index. The input slice is left
// unmodified.
func StandardizeSupplierNames(items []Item, index SupplierIndex) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		it.SupplierName = index.DisplayName(it.SupplierID)
		out[i] = it
	}
	return out
}

// parseNumericID converts a raw identifier to its numeric form. Ids may
// arrive as integers or as float renderings of integers ("42.0"), matching
// the loose typing of the source exports.
func parseNumericID(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return id, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return int64(f), true
}
