package match

import (
	"github.com/tbconrad/trailview/internal/document"
	"github.com/tbconrad/trailview/internal/session"
)

// AssignSectionsToBestPages resolves the many-to-many candidate matches into
// an exclusive assignment: each section ends up with at most one page. The
// result maps page URL to that page's ranked exclusive matches; pages with no
// exclusively owned sections are absent from the map.
//
// Two passes over a fresh claim table: discovery records each section's
// globally best page (processing pages in input order, a later page must
// strictly beat an earlier claim to take it over), then the exclusive pass
// collects what each page still owns. Raw per-(page,section) scores are
// computed once and shared by both passes.
func AssignSectionsToBestPages(pages []session.PageVisit, sections []document.Section) map[string][]Result {
	out := make(map[string][]Result)
	if len(sections) == 0 || len(pages) == 0 {
		return out
	}

	claims := NewClaimTable()

	raw := make([][]Result, len(pages))
	for i, page := range pages {
		raw[i] = rawScores(page, sections)
		finalize(page.URL, raw[i], claims, false)
	}

	for i, page := range pages {
		results := finalize(page.URL, raw[i], claims, true)
		if len(results) > 0 {
			out[page.URL] = results
		}
	}
	return out
}
