package analysis

import (
	"sort"
)

// CategoryOptions lists the distinct category values present at a level,
// sorted ascending, optionally scoped by the parent levels of the filter.
// Only levels above the requested one are applied: L2 options respect an
// L1 scope, L3 options respect L1 and L2.
func (c *Context) CategoryOptions(level CategoryLevel, parent CategoryFilter) []string {
	scope := CategoryFilter{}
	switch level {
	case LevelL2:
		scope.L1 = parent.L1
	case LevelL3:
		scope.L1 = parent.L1
		scope.L2 = parent.L2
	case LevelL1:
		// Whole portfolio.
	default:
		return []string{}
	}

	seen := make(map[string]struct{})
	for _, it := range filterItems(c.items, scope) {
		var value string
		switch level {
		case LevelL1:
			value = it.ClassL1
		case LevelL2:
			value = it.ClassL2
		case LevelL3:
			value = it.ClassL3
		}
		if value != "" {
			seen[value] = struct{}{}
		}
	}

	options := make([]string, 0, len(seen))
	for v := range seen {
		options = append(options, v)
	}
	sort.Strings(options)
	return options
}
