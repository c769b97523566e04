package packages

import (
	"strings"

	"tours-be/internal/bokun"
)

// applyFilter keeps the provider order. Query is a case-insensitive substring
// of title, summary or category; Category must match exactly, ignoring case.
func applyFilter(items []bokun.PackageSummary, filter ListFilter) []bokun.PackageSummary {
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	category := strings.TrimSpace(filter.Category)
	if query == "" && category == "" {
		return items
	}

	out := make([]bokun.PackageSummary, 0, len(items))
	for _, item := range items {
		if category != "" && !strings.EqualFold(strings.TrimSpace(item.Category), category) {
			continue
		}
		if query != "" && !matchesQuery(item, query) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func matchesQuery(item bokun.PackageSummary, query string) bool {
	for _, field := range []string{item.Title, item.Summary, item.Category} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
