package news

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CleanTitle strips markup and entities from a headline and collapses whitespace.
func CleanTitle(title string) string {
	if strings.ContainsAny(title, "<&") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(title))
		if err == nil {
			title = doc.Text()
		}
	}
	return strings.Join(strings.Fields(title), " ")
}

var catalystKeywords = []struct {
	weight float64
	words  []string
}{
	{1.0, []string{"fda", "approval", "phase 3", "merger", "acquisition", "buyout"}},
	{0.6, []string{"earnings", "guidance", "contract", "partnership"}},
	{0.5, []string{"upgrade", "initiation"}},
}

// CatalystScore rates how strongly a set of headlines explains a price move.
// Each headline adds the weight of every keyword group it matches; the total is
// capped at 1.
func CatalystScore(titles []string) float64 {
	score := 0.0
	for _, title := range titles {
		lower := strings.ToLower(title)
		for _, group := range catalystKeywords {
			for _, w := range group.words {
				if strings.Contains(lower, w) {
					score += group.weight
					break
				}
			}
		}
	}
	if score > 1 {
		return 1
	}
	return score
}
