package domain

// Category is the wallet tier controlling how many owners a wallet may have
type Category string

// Known categories
const (
	CategoryFree Category = "free" // Free tier
	CategoryPro  Category = "pro"  // Pro tier
)

// categoryCeilings maps each category to its owner-count ceiling.
// New tiers are added here; handler logic never branches on the tier itself.
var categoryCeilings = map[Category]int{
	CategoryFree: 3,
	CategoryPro:  10,
}

// Ceiling returns the maximum owner count for the category and whether
// the category is known
func (c Category) Ceiling() (int, bool) {
	ceiling, ok := categoryCeilings[c]
	return ceiling, ok
}
