// Package match scores reference-document sections against page visits using
// additive lexical signals (title, URL, author, description, publish date)
// and resolves the resulting many-to-many candidates into an exclusive
// one-section-to-one-page assignment.
package match

import (
	"math"
	"net/url"
	"sort"
	"strings"

	"github.com/tbconrad/trailview/internal/document"
	"github.com/tbconrad/trailview/internal/session"
)

// Signal caps and bonuses.
const (
	scoreExactTitle    = 100
	scoreCleanTitle    = 90
	scorePartialTitle  = 80
	scoreFullURL       = 75
	scorePathSegment   = 40
	scoreDomainOnly    = 20
	maxSpecificity     = 30
	scoreAuthor        = 15
	maxDescription     = 20
	scorePerDescWord   = 2
	scorePublishDate   = 10
	minSignificantWord = 3 // title words must be longer than this
	minDescriptionWord = 4 // description words must be longer than this
	dedupPrefixLen     = 100
)

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "with": true,
	"by": true, "of": true,
}

// Result is one scored section for a page.
type Result struct {
	Section document.Section `json:"section"`
	Score   float64          `json:"matchScore"`
	Details Details          `json:"matchDetails"`
}

// Details is the per-signal breakdown of a score, kept as observable output
// for display alongside the match.
type Details struct {
	ExactTitleMatch  bool    `json:"exactTitleMatch"`
	CleanTitleMatch  bool    `json:"cleanTitleMatch"`
	TitleWordRatio   float64 `json:"titleWordRatio,omitempty"`
	TitleScore       float64 `json:"titleScore"`
	FullURLMatch     bool    `json:"fullUrlMatch"`
	URLComponent     string  `json:"urlComponent,omitempty"`
	URLScore         float64 `json:"urlScore"`
	AuthorMatch      bool    `json:"authorMatch"`
	DescriptionHits  int     `json:"descriptionHits"`
	DescriptionScore float64 `json:"descriptionScore"`
	DateMatch        bool    `json:"dateMatch"`
}

// profile is the normalized matching view of one page.
type profile struct {
	rawTitle    string   // lower-cased display title
	cleanTitle  string   // stop words stripped
	sigWords    []string // clean-title words longer than minSignificantWord
	fullURL     string
	host        string
	components  []string // hostname plus non-empty path segments
	author      string
	descWords   []string
	publishDate string
}

func profileOf(page session.PageVisit) profile {
	p := profile{
		rawTitle:    strings.ToLower(strings.TrimSpace(page.DisplayTitle())),
		fullURL:     strings.ToLower(page.URL),
		author:      strings.ToLower(strings.TrimSpace(page.Metadata.Author)),
		publishDate: strings.ToLower(strings.TrimSpace(page.Metadata.PublishDate)),
	}

	var kept []string
	for _, w := range strings.Fields(p.rawTitle) {
		if !stopWords[w] {
			kept = append(kept, w)
		}
	}
	p.cleanTitle = strings.Join(kept, " ")
	for _, w := range kept {
		if len(w) > minSignificantWord {
			p.sigWords = append(p.sigWords, w)
		}
	}

	p.host, p.components = urlComponents(page.URL)

	for _, w := range strings.Fields(strings.ToLower(page.Metadata.Description)) {
		if len(w) > minDescriptionWord {
			p.descWords = append(p.descWords, w)
		}
	}

	return p
}

// urlComponents parses a page URL into its lower-cased hostname and non-empty
// path segments. On a parse failure it degrades to slash splitting and takes
// the third token as a best-effort hostname; matching then proceeds with
// whatever components were recovered.
func urlComponents(raw string) (host string, comps []string) {
	u, err := url.Parse(raw)
	if err == nil && u.Hostname() != "" {
		host = strings.ToLower(u.Hostname())
		comps = append(comps, host)
		for _, seg := range strings.Split(u.Path, "/") {
			if seg != "" {
				comps = append(comps, strings.ToLower(seg))
			}
		}
		return host, comps
	}
	parts := strings.Split(raw, "/")
	if len(parts) > 2 && parts[2] != "" {
		host = strings.ToLower(parts[2])
		comps = []string{host}
	}
	return host, comps
}

// ScoreSections scores every section for the given page, filters out
// non-positive scores, collapses near-duplicate sections, and returns the
// survivors in descending score order (stable for ties).
//
// With respectExclusivity false this is a discovery pass: each surviving
// section's claim is updated in the table when this page strictly beats the
// current best. With respectExclusivity true, sections already claimed by a
// different page are skipped and the table is left untouched.
func ScoreSections(page session.PageVisit, sections []document.Section, claims *ClaimTable, respectExclusivity bool) []Result {
	raw := rawScores(page, sections)
	return finalize(page.URL, raw, claims, respectExclusivity)
}

// rawScores computes the unfiltered per-section scores for a page.
func rawScores(page session.PageVisit, sections []document.Section) []Result {
	p := profileOf(page)
	out := make([]Result, 0, len(sections))
	for _, sec := range sections {
		score, details := scoreAgainst(p, sec)
		out = append(out, Result{Section: sec, Score: score, Details: details})
	}
	return out
}

// scoreAgainst applies the additive signals of one page profile to one
// section. Signals are independent and individually capped.
func scoreAgainst(p profile, sec document.Section) (float64, Details) {
	content := strings.ToLower(sec.Content)
	var d Details

	// Title: exact raw title beats the stop-word-stripped title beats a
	// partial significant-word match.
	switch {
	case p.rawTitle != "" && strings.Contains(content, p.rawTitle):
		d.ExactTitleMatch = true
		d.TitleScore = scoreExactTitle
	case p.cleanTitle != "" && strings.Contains(content, p.cleanTitle):
		d.CleanTitleMatch = true
		d.TitleScore = scoreCleanTitle
	default:
		if len(p.sigWords) > 0 {
			matched := 0
			for _, w := range p.sigWords {
				if strings.Contains(content, w) {
					matched++
				}
			}
			if matched > 0 {
				d.TitleWordRatio = float64(matched) / float64(len(p.sigWords))
				d.TitleScore = math.Floor(scorePartialTitle * d.TitleWordRatio)
			}
		}
	}

	// URL: a full-URL containment wins outright; otherwise the single longest
	// matching component scores, with a length-based specificity bonus.
	if p.fullURL != "" && strings.Contains(content, p.fullURL) {
		d.FullURLMatch = true
		d.URLScore = scoreFullURL
	} else {
		var best string
		for _, comp := range p.components {
			if len(comp) > len(best) && strings.Contains(content, comp) {
				best = comp
			}
		}
		if best != "" {
			d.URLComponent = best
			base := float64(scorePathSegment)
			if best == p.host {
				base = scoreDomainOnly
			}
			d.URLScore = base + math.Min(maxSpecificity, float64(len(best))/2)
		}
	}

	if p.author != "" && strings.Contains(content, p.author) {
		d.AuthorMatch = true
	}

	for _, w := range p.descWords {
		if strings.Contains(content, w) {
			d.DescriptionHits++
		}
	}
	d.DescriptionScore = math.Min(maxDescription, float64(d.DescriptionHits*scorePerDescWord))

	if p.publishDate != "" && strings.Contains(content, p.publishDate) {
		d.DateMatch = true
	}

	score := d.TitleScore + d.URLScore + d.DescriptionScore
	if d.AuthorMatch {
		score += scoreAuthor
	}
	if d.DateMatch {
		score += scorePublishDate
	}
	return score, d
}

// finalize turns raw scores into the ranked result list: exclusivity
// pre-filter, positive-score filter, prefix dedup, stable descending sort,
// and (in discovery) the claim-table side effect.
func finalize(pageURL string, raw []Result, claims *ClaimTable, respectExclusivity bool) []Result {
	kept := make([]Result, 0, len(raw))
	for _, r := range raw {
		if respectExclusivity && claims.ClaimedByOther(r.Section.ID, pageURL) {
			continue
		}
		if r.Score <= 0 {
			continue
		}
		kept = append(kept, r)
	}

	kept = dedupByPrefix(kept)

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})

	if !respectExclusivity {
		for _, r := range kept {
			claims.Record(r.Section.ID, r.Score, pageURL)
		}
	}
	return kept
}

// dedupByPrefix collapses near-duplicate sections, grouped by the first 100
// characters of content, keeping the highest score per group (earliest wins
// ties). Encounter order of the survivors is preserved.
func dedupByPrefix(results []Result) []Result {
	type slot struct {
		idx   int
		score float64
	}
	seen := make(map[string]slot)
	out := make([]Result, 0, len(results))
	for _, r := range results {
		key := contentPrefix(r.Section.Content)
		s, ok := seen[key]
		if !ok {
			seen[key] = slot{idx: len(out), score: r.Score}
			out = append(out, r)
			continue
		}
		if r.Score > s.score {
			out[s.idx] = r
			seen[key] = slot{idx: s.idx, score: r.Score}
		}
	}
	return out
}

func contentPrefix(content string) string {
	runes := []rune(content)
	if len(runes) > dedupPrefixLen {
		return string(runes[:dedupPrefixLen])
	}
	return content
}
