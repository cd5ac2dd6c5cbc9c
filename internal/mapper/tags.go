package mapper

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sydlexius/vocasync/internal/catalog"
)

const genreCategory = "Genres"

// genres returns the genre tags, most voted first, title-cased and joined.
func genres(tags []catalog.Tag) string {
	var picked []catalog.Tag
	for _, t := range tags {
		if t.Category == genreCategory && t.Name != "" {
			picked = append(picked, t)
		}
	}
	sort.SliceStable(picked, func(i, j int) bool { return picked[i].Count > picked[j].Count })

	caser := cases.Title(language.Und)
	names := make([]string, 0, len(picked))
	for _, t := range picked {
		names = append(names, caser.String(t.Name))
	}
	return strings.Join(names, "; ")
}

// bpm converts the catalog's milli-BPM to whole beats per minute.
func bpm(maxMilliBPM int) int {
	if maxMilliBPM <= 0 {
		return 0
	}
	return maxMilliBPM / 1000
}
