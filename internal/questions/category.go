package questions

// Category is one of the four independently scored maturity dimensions.
type Category string

const (
	Process  Category = "process"
	Strategy Category = "strategy"
	Insight  Category = "insight"
	Culture  Category = "culture"
)

// AllCategories returns all categories in display order.
func AllCategories() []Category {
	return []Category{
		Process,
		Strategy,
		Insight,
		Culture,
	}
}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	switch c {
	case Process, Strategy, Insight, Culture:
		return true
	}
	return false
}

// DisplayName returns a human-readable name for a category.
func (c Category) DisplayName() string {
	switch c {
	case Process:
		return "Process"
	case Strategy:
		return "Strategy"
	case Insight:
		return "Insight"
	case Culture:
		return "Culture"
	default:
		return string(c)
	}
}
