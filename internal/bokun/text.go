package bokun

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

var (
	blockTagRegex = regexp.MustCompile(`(?i)<br\s*/?>|</p\s*>|</li\s*>|</div\s*>`)
	anyTagRegex   = regexp.MustCompile(`<[^>]*>`)
)

// highlightMarkers are scanned in order when a package has no explicit tags.
var highlightMarkers = []struct {
	keyword   string
	highlight string
}{
	{"guide", "Guided experience"},
	{"photo", "Photo opportunities"},
	{"local", "Local expertise"},
}

// CleanText turns provider HTML into a single line of plain text.
func CleanText(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}

	text := blockTagRegex.ReplaceAllString(input, "\n")
	text = anyTagRegex.ReplaceAllString(text, "")
	text = html.UnescapeString(text)

	lines := strings.Split(text, "\n")
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}

// DeriveHighlights prefers explicit category tags, then keyword markers in
// the copy, then a single generic highlight.
func DeriveHighlights(tags []string, summary, description string) []string {
	var candidates []string
	for _, tag := range tags {
		tag = strings.TrimSpace(strings.ReplaceAll(tag, "_", " "))
		if tag != "" {
			candidates = append(candidates, tag)
		}
	}

	if len(candidates) == 0 {
		haystack := strings.ToLower(summary + " " + description)
		for _, marker := range highlightMarkers {
			if strings.Contains(haystack, marker.keyword) {
				candidates = append(candidates, marker.highlight)
			}
		}
	}

	if len(candidates) == 0 {
		candidates = []string{DefaultHighlight}
	}

	return dedupeFold(candidates, maxHighlights)
}

// DeriveIncludes splits the included blob into bullet items.
func DeriveIncludes(included string) []string {
	if strings.TrimSpace(included) == "" {
		return []string{DefaultIncludedItem}
	}

	fragments := strings.FieldsFunc(included, func(r rune) bool {
		switch r {
		case '•', '✔', ';', '.':
			return true
		}
		return false
	})

	items := make([]string, 0, maxIncludes)
	for _, fragment := range fragments {
		fragment = strings.TrimSpace(fragment)
		if len([]rune(fragment)) <= 3 {
			continue
		}
		items = append(items, fragment)
		if len(items) == maxIncludes {
			break
		}
	}

	if len(items) == 0 {
		return []string{strings.TrimSpace(included)}
	}
	return items
}

// itineraryTime returns the synthetic start time for the n-th agenda item.
func itineraryTime(n int) string {
	return fmt.Sprintf("%02d:00", (itineraryStart+n)%24)
}

// dedupeFold keeps the first occurrence of each value, compared
// case-insensitively, up to limit entries.
func dedupeFold(values []string, limit int) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		key := strings.ToLower(value)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, value)
		if len(out) == limit {
			break
		}
	}
	return out
}
