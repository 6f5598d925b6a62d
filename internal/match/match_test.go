package match

import (
	"strings"
	"testing"

	"github.com/tbconrad/trailview/internal/document"
	"github.com/tbconrad/trailview/internal/session"
)

func page(url, title string) session.PageVisit {
	return session.PageVisit{URL: url, Title: title}
}

func sections(contents ...string) []document.Section {
	out := make([]document.Section, len(contents))
	for i, c := range contents {
		out[i] = document.Section{
			ID:      "section-" + string(rune('0'+i)),
			Title:   "Section",
			Level:   2,
			Content: c,
		}
	}
	return out
}

func TestScoreSections_ExactTitleMatch(t *testing.T) {
	p := page("https://climate.example.org/sea-level", "Sea Level Rise Projections")
	secs := sections("Recent studies on sea level rise projections for coastal cities.")

	results := ScoreSections(p, secs, NewClaimTable(), false)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.Score < 100 {
		t.Errorf("expected score >= 100 for exact title match, got %v", r.Score)
	}
	if !r.Details.ExactTitleMatch {
		t.Errorf("expected exactTitleMatch detail to be set")
	}
}

func TestScoreSections_MetadataTitlePrecedence(t *testing.T) {
	p := session.PageVisit{
		URL:      "https://example.com/article",
		Title:    "Some Browser Tab Title",
		Metadata: session.PageMetadata{Title: "Glacier Melt Acceleration"},
	}
	secs := sections("An overview of glacier melt acceleration in the arctic.")

	results := ScoreSections(p, secs, NewClaimTable(), false)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if !results[0].Details.ExactTitleMatch {
		t.Errorf("expected metadata title to drive the exact match")
	}
}

func TestScoreSections_CleanTitleMatch(t *testing.T) {
	p := page("https://example.com/x", "The Rise of Sea Levels")
	secs := sections("annual report: rise sea levels and their causes")

	results := ScoreSections(p, secs, NewClaimTable(), false)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	d := results[0].Details
	if d.ExactTitleMatch {
		t.Errorf("raw title should not match")
	}
	if !d.CleanTitleMatch {
		t.Errorf("expected clean (stop-word-stripped) title match")
	}
	if d.TitleScore != 90 {
		t.Errorf("expected title score 90, got %v", d.TitleScore)
	}
}

func TestScoreSections_PartialTitleMatch(t *testing.T) {
	p := page("https://example.com/x", "Advanced Climate Modeling Techniques")
	// Two of four significant words present.
	secs := sections("notes about climate modeling only")

	results := ScoreSections(p, secs, NewClaimTable(), false)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	d := results[0].Details
	if d.ExactTitleMatch || d.CleanTitleMatch {
		t.Errorf("expected partial match only")
	}
	if d.TitleWordRatio != 0.5 {
		t.Errorf("expected word ratio 0.5, got %v", d.TitleWordRatio)
	}
	if d.TitleScore != 40 {
		t.Errorf("expected floor(80*0.5)=40, got %v", d.TitleScore)
	}
}

func TestScoreSections_FullURLBeatsComponents(t *testing.T) {
	p := page("https://docs.example.com/guides/installation", "Unrelated Words Here")
	secs := sections("source: https://docs.example.com/guides/installation page")

	results := ScoreSections(p, secs, NewClaimTable(), false)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	d := results[0].Details
	if !d.FullURLMatch {
		t.Errorf("expected full URL match")
	}
	if d.URLScore != 75 {
		t.Errorf("expected URL score 75, got %v", d.URLScore)
	}
	if d.URLComponent != "" {
		t.Errorf("component bonus must not stack with full-URL bonus, got %q", d.URLComponent)
	}
}

func TestScoreSections_PathSegmentComponent(t *testing.T) {
	p := page("https://docs.example.com/guides/installation", "Unrelated Words Here")
	secs := sections("see the installation guide for details")

	results := ScoreSections(p, secs, NewClaimTable(), false)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	d := results[0].Details
	if d.URLComponent != "installation" {
		t.Errorf("expected longest matching component %q, got %q", "installation", d.URLComponent)
	}
	// Path segment base 40 plus specificity min(30, 12/2).
	if d.URLScore != 46 {
		t.Errorf("expected URL score 46, got %v", d.URLScore)
	}
}

func TestScoreSections_DomainOnlyComponent(t *testing.T) {
	p := page("https://docs.example.com/guides/installation", "Unrelated Words Here")
	secs := sections("details are published at docs.example.com every week")

	results := ScoreSections(p, secs, NewClaimTable(), false)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	d := results[0].Details
	if d.URLComponent != "docs.example.com" {
		t.Errorf("expected hostname component, got %q", d.URLComponent)
	}
	// Domain-only base 20 plus specificity min(30, 16/2).
	if d.URLScore != 28 {
		t.Errorf("expected URL score 28, got %v", d.URLScore)
	}
}

func TestScoreSections_MalformedURLDegrades(t *testing.T) {
	p := page("http://%zz invalid/host/path", "Coastal Erosion")
	secs := sections("coastal erosion near host cliffs")

	// Must not panic; title signal still applies.
	results := ScoreSections(p, secs, NewClaimTable(), false)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if !results[0].Details.ExactTitleMatch {
		t.Errorf("expected title matching to proceed despite malformed URL")
	}
}

func TestScoreSections_MetadataSignals(t *testing.T) {
	p := session.PageVisit{
		URL:   "https://example.com/articles/999",
		Title: "Unmatched Title Words",
		Metadata: session.PageMetadata{
			Author:      "Jane Doe",
			PublishDate: "2023-05-12",
			Description: "comprehensive analysis of coastal flooding patterns worldwide",
		},
	}
	secs := sections("written by jane doe on 2023-05-12, an analysis of flooding patterns")

	results := ScoreSections(p, secs, NewClaimTable(), false)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	d := results[0].Details
	if !d.AuthorMatch {
		t.Errorf("expected author match")
	}
	if !d.DateMatch {
		t.Errorf("expected publish date match")
	}
	if d.DescriptionHits != 3 {
		t.Errorf("expected 3 description word hits, got %d", d.DescriptionHits)
	}
	if d.DescriptionScore != 6 {
		t.Errorf("expected description score 6, got %v", d.DescriptionScore)
	}
	want := 15.0 + 10.0 + 6.0
	if results[0].Score != want {
		t.Errorf("expected total %v, got %v", want, results[0].Score)
	}
}

func TestScoreSections_ScoreMonotonicity(t *testing.T) {
	p := page("https://climate.example.org/sea-level", "Sea Level Rise Projections")
	base := "sea level rise projections for planners"
	withURL := base + " via https://climate.example.org/sea-level"

	baseScore := ScoreSections(p, sections(base), NewClaimTable(), false)[0].Score
	urlScore := ScoreSections(p, sections(withURL), NewClaimTable(), false)[0].Score
	if urlScore <= baseScore {
		t.Errorf("expected full-URL match to strictly increase score: %v vs %v", urlScore, baseScore)
	}
}

func TestScoreSections_DiscardsNonPositive(t *testing.T) {
	p := page("https://example.com/zzz", "Completely Different Topic")
	secs := sections("nothing here resembles that page")

	results := ScoreSections(p, secs, NewClaimTable(), false)
	if len(results) != 0 {
		t.Errorf("expected no results for zero-score sections, got %d", len(results))
	}
}

func TestScoreSections_DedupKeepsHighestScore(t *testing.T) {
	prefix := "sea level rise projections " + strings.Repeat("boilerplate padding ", 5)
	if len([]rune(prefix)) < 100 {
		t.Fatalf("test fixture: prefix must exceed dedup window")
	}
	low := prefix
	high := prefix + " https://climate.example.org/sea-level"

	p := page("https://climate.example.org/sea-level", "Sea Level Rise Projections")
	results := ScoreSections(p, sections(low, high), NewClaimTable(), false)
	if len(results) != 1 {
		t.Fatalf("expected duplicates to collapse to 1 result, got %d", len(results))
	}
	if !results[0].Details.FullURLMatch {
		t.Errorf("expected the higher-scoring duplicate to survive")
	}
}

func TestScoreSections_SortedDescendingStable(t *testing.T) {
	p := page("https://example.com/x", "Ocean Warming Trends")
	secs := sections(
		"mentions warming only",                    // partial
		"full phrase: ocean warming trends inside", // exact
		"mentions ocean and warming words",         // partial, higher
	)

	results := ScoreSections(p, secs, NewClaimTable(), false)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not sorted descending at %d: %v > %v", i, results[i].Score, results[i-1].Score)
		}
	}
	if !results[0].Details.ExactTitleMatch {
		t.Errorf("expected the exact match ranked first")
	}
}

func TestScoreSections_ExclusivitySkipsClaimed(t *testing.T) {
	owner := page("https://a.example/one", "Shared Phrase Topic")
	other := page("https://b.example/two", "Shared Phrase Topic")
	secs := sections("all about the shared phrase topic")

	claims := NewClaimTable()
	ScoreSections(owner, secs, claims, false)

	results := ScoreSections(other, secs, claims, true)
	if len(results) != 0 {
		t.Errorf("expected claimed section to be unavailable to other pages, got %d results", len(results))
	}

	// The owner still sees it in its own exclusive pass.
	own := ScoreSections(owner, secs, claims, true)
	if len(own) != 1 {
		t.Errorf("expected owner to retain its claimed section, got %d results", len(own))
	}
}

func TestClaimTable_StrictlyGreaterToOverwrite(t *testing.T) {
	claims := NewClaimTable()
	if !claims.Record("section-0", 50, "page-a") {
		t.Fatalf("expected first positive claim to stick")
	}
	if claims.Record("section-0", 50, "page-b") {
		t.Errorf("equal score must not overwrite the earlier claimant")
	}
	if !claims.Record("section-0", 51, "page-b") {
		t.Errorf("strictly greater score must overwrite")
	}
	c, ok := claims.Get("section-0")
	if !ok || c.PageURL != "page-b" || c.Score != 51 {
		t.Errorf("unexpected final claim: %+v", c)
	}
}
