package domain

// Category is an entry of the fixed category catalog.
type Category struct {
	ID   string
	Name string
	Icon string
}

// CategoryOther is the fallback for unknown category ids.
const CategoryOther = "other"

// Categories is the closed catalog shared by server and client, in display order.
var Categories = []Category{
	{ID: "food", Name: "Food", Icon: "utensils"},
	{ID: "rent", Name: "Rent", Icon: "home"},
	{ID: "salary", Name: "Salary", Icon: "briefcase"},
	{ID: "transport", Name: "Transport", Icon: "car"},
	{ID: "entertainment", Name: "Entertainment", Icon: "film"},
	{ID: "shopping", Name: "Shopping", Icon: "shopping-bag"},
	{ID: "utilities", Name: "Utilities", Icon: "bolt"},
	{ID: "healthcare", Name: "Healthcare", Icon: "heart"},
	{ID: "education", Name: "Education", Icon: "book"},
	{ID: CategoryOther, Name: "Other", Icon: "folder"},
}

var categoryIndex = func() map[string]Category {
	idx := make(map[string]Category, len(Categories))
	for _, c := range Categories {
		idx[c.ID] = c
	}
	return idx
}()

// IsKnownCategory reports whether id is part of the catalog.
func IsKnownCategory(id string) bool {
	_, ok := categoryIndex[id]
	return ok
}

// LookupCategory returns the catalog entry for id, or "other" when unknown.
func LookupCategory(id string) Category {
	if c, ok := categoryIndex[id]; ok {
		return c
	}
	return categoryIndex[CategoryOther]
}
