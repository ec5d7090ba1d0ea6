package analysis

// CleanItems filters raw items down to the analyzable subset: rows with a
// present, strictly positive total price and an attributed supplier. The
// cleaned set is the only valid basis for share and average computations;
// an empty result is legal and must be handled by calculators as the
// explicit empty-result path rather than as an error.
func CleanItems(items []Item) []Item {
	cleaned := make([]Item, 0, len(items))
	for _, it := range items {
		if it.IsAnalyzable() {
			cleaned = append(cleaned, it)
		}
	}
	return cleaned
}
