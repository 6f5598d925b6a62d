package match

// Claim records the globally best-scoring page for one section, as discovered
// during pass 1 of an assignment run.
type Claim struct {
	Score   float64
	PageURL string
}

// ClaimTable is the explicit side table holding per-section best-match state
// for a single assignment run. It replaces hidden per-section cache fields:
// one table is created per run, threaded through scoring, and discarded. It is
// owned exclusively by the in-flight run and is not safe for concurrent use.
type ClaimTable struct {
	claims map[string]Claim
}

// NewClaimTable returns an empty table, equivalent to resetting every
// section's cached best-match state.
func NewClaimTable() *ClaimTable {
	return &ClaimTable{claims: make(map[string]Claim)}
}

// Get returns the current claim for a section id, if any.
func (t *ClaimTable) Get(sectionID string) (Claim, bool) {
	c, ok := t.claims[sectionID]
	return c, ok
}

// Record updates the claim for a section only when the new score is strictly
// greater than the current one. Equal scores keep the earlier claimant, which
// makes ties resolve in favor of the page processed first.
func (t *ClaimTable) Record(sectionID string, score float64, pageURL string) bool {
	if score <= t.claims[sectionID].Score {
		return false
	}
	t.claims[sectionID] = Claim{Score: score, PageURL: pageURL}
	return true
}

// ClaimedByOther reports whether the section is claimed by a different page
// with a positive score, making it unavailable in an exclusive pass.
func (t *ClaimTable) ClaimedByOther(sectionID, pageURL string) bool {
	c, ok := t.claims[sectionID]
	return ok && c.Score > 0 && c.PageURL != pageURL
}
