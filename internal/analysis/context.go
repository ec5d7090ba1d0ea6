package analysis

import (
	"log/slog"
)

// Context is the immutable analysis context built once from the three raw
// tables. It replaces any notion of a process-wide cached analyzer: the
// caller constructs it explicitly and threads it through calls. All
// calculators are methods on Context and are pure functions of the cleaned
// item set plus their parameters, so results are safe to memoize and safe
// under concurrent readers.
type Context struct {
	items            []Item // standardized and cleaned
	totalMarketValue float64
	logger           *slog.Logger
}

// NewContext standardizes supplier names on the raw items, cleans them to
// the analyzable subset and captures the portfolio total. The input slices
// are not retained or modified.
func NewContext(items []Item, suppliers []Supplier, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.Default()
	}

	index := BuildSupplierIndex(suppliers)
	cleaned := CleanItems(StandardizeSupplierNames(items, index))

	total := 0.0
	for _, it := range cleaned {
		total += it.TotalPrice
	}

	logger.Info("analysis context built",
		slog.Int("raw_items", len(items)),
		slog.Int("clean_items", len(cleaned)),
		slog.Int("supplier_index_size", len(index)),
		slog.Float64("total_market_value", total),
	)

	return &Context{
		items:            cleaned,
		totalMarketValue: total,
		logger:           logger,
	}
}

// Items returns the cleaned item set. Callers must treat it as read-only.
func (c *Context) Items() []Item {
	return c.items
}

// TotalMarketValue returns the portfolio-wide total spend.
func (c *Context) TotalMarketValue() float64 {
	return c.totalMarketValue
}
