package domain

// Category classifies a tag for display grouping.
type Category string

// The fixed set of tag categories.
const (
	CategoryCity          Category = "city"
	CategoryIndustry      Category = "industry"
	CategoryRole          Category = "role"
	CategoryCompany       Category = "company"
	CategoryCompanySize   Category = "company_size"
	CategoryRelationType  Category = "relation_type"
	CategorySkills        Category = "skills"
	CategoryInterest      Category = "interest"
	CategoryStatus        Category = "status"
	CategorySource        Category = "source"
	CategoryUncategorized Category = "uncategorized"
)

// Categories lists every category in display order, Uncategorized last.
var Categories = []Category{
	CategoryCity,
	CategoryIndustry,
	CategoryRole,
	CategoryCompany,
	CategoryCompanySize,
	CategoryRelationType,
	CategorySkills,
	CategoryInterest,
	CategoryStatus,
	CategorySource,
	CategoryUncategorized,
}

// categoryRank maps each category to its position in Categories.
var categoryRank = func() map[Category]int {
	m := make(map[Category]int, len(Categories))
	for i, c := range Categories {
		m[c] = i
	}
	return m
}()

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	_, ok := categoryRank[c]
	return ok
}

// Rank returns the category's position in display order.
// Unknown categories sort after Uncategorized.
func (c Category) Rank() int {
	if r, ok := categoryRank[c]; ok {
		return r
	}
	return len(Categories)
}
