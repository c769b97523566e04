package bokun

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "   ", ""},
		{"plain", "Sunset cruise", "Sunset cruise"},
		{"block tags", "<p>First</p><p>Second</p>", "First Second"},
		{"line breaks", "One<br>Two<BR/>Three", "One Two Three"},
		{"list", "<ul><li>Water</li><li>Snacks</li></ul>", "Water Snacks"},
		{"entities", "Fish &amp; chips &quot;daily&quot;", `Fish & chips "daily"`},
		{"blank lines", "<div>  </div><div>Kept</div>", "Kept"},
		{"inline tags", "<strong>Bold</strong> text", "Bold text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.input))
		})
	}
}

func TestDeriveHighlights(t *testing.T) {
	t.Run("explicit tags", func(t *testing.T) {
		got := DeriveHighlights([]string{"WILDLIFE_SAFARI", "wildlife safari", "BOAT_TRIP"}, "", "")
		assert.Equal(t, []string{"WILDLIFE SAFARI", "BOAT TRIP"}, got)
	})

	t.Run("markers", func(t *testing.T) {
		got := DeriveHighlights(nil, "", "Explore with a local guide")
		assert.Contains(t, got, "Local expertise")
		assert.Contains(t, got, "Guided experience")
		assert.LessOrEqual(t, len(got), 6)
		assertNoFoldDuplicates(t, got)
	})

	t.Run("fallback", func(t *testing.T) {
		assert.Equal(t, []string{DefaultHighlight}, DeriveHighlights(nil, "Quiet walk", ""))
	})

	t.Run("capped", func(t *testing.T) {
		tags := []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8"}
		assert.Len(t, DeriveHighlights(tags, "", ""), 6)
	})
}

func TestDeriveIncludes(t *testing.T) {
	t.Run("blank", func(t *testing.T) {
		assert.Equal(t, []string{DefaultIncludedItem}, DeriveIncludes("  "))
	})

	t.Run("bullets", func(t *testing.T) {
		got := DeriveIncludes("• Hotel transfers • Lunch ✔ Park fees; Tea. ok")
		assert.Equal(t, []string{"Hotel transfers", "Lunch", "Park fees"}, got)
	})

	t.Run("no usable fragments", func(t *testing.T) {
		assert.Equal(t, []string{"a. b."}, DeriveIncludes("a. b."))
	})

	t.Run("capped", func(t *testing.T) {
		items := strings.Repeat("Item one; ", 12)
		assert.Len(t, DeriveIncludes(items), 8)
	})
}

func TestItineraryTime(t *testing.T) {
	assert.Equal(t, "09:00", itineraryTime(0))
	assert.Equal(t, "10:00", itineraryTime(1))
	assert.Equal(t, "00:00", itineraryTime(15))
}

func assertNoFoldDuplicates(t *testing.T, values []string) {
	t.Helper()
	seen := map[string]bool{}
	for _, v := range values {
		key := strings.ToLower(v)
		assert.False(t, seen[key], "duplicate %q", v)
		seen[key] = true
	}
}
