package session

import (
	"strings"
	"time"
)

// Event types appearing in a session's chronological stream.
const (
	EventSearch    = "search"
	EventPageVisit = "page_visit"
	EventNote      = "note"
)

// Session is the root of a loaded research session. It is immutable once
// loaded except through the designated mutation entry points on Store.
type Session struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"startTime,omitzero"`
	EndTime   time.Time `json:"endTime,omitzero"`

	Searches            []SearchEvent `json:"searches"`
	ContentPages        []PageVisit   `json:"contentPages"`
	ChronologicalEvents []RawEvent    `json:"chronologicalEvents"`
}

// SearchEvent is a single search carried out during the session.
// Identity is the search URL.
type SearchEvent struct {
	URL       string            `json:"url"`
	Engine    string            `json:"engine"`
	Query     string            `json:"query"`
	Timestamp time.Time         `json:"timestamp"`
	Notes     []Note            `json:"notes,omitempty"`
	Params    map[string]string `json:"params,omitempty"`
}

// PageVisit is a content page opened during the session. Identity is the URL.
type PageVisit struct {
	URL          string       `json:"url"`
	Title        string       `json:"title"`
	Timestamp    time.Time    `json:"timestamp"`
	Metadata     PageMetadata `json:"metadata"`
	SourceSearch *SearchRef   `json:"sourceSearch,omitempty"`
	Notes        []Note       `json:"notes,omitempty"`
}

// PageMetadata is extracted page metadata. The metadata title, when present,
// takes precedence over the visit title for display and matching.
type PageMetadata struct {
	Title       string `json:"title,omitempty"`
	Author      string `json:"author,omitempty"`
	Publisher   string `json:"publisher,omitempty"`
	PublishDate string `json:"publishDate,omitempty"`
	Description string `json:"description,omitempty"`
}

// SearchRef is a snapshot of the search that led to a page visit. The URL is
// the provenance key; an unresolvable reference leaves the page orphaned
// rather than failing.
type SearchRef struct {
	URL       string    `json:"url"`
	Query     string    `json:"query"`
	Engine    string    `json:"engine"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}

// Note is a user annotation, either embedded in a search/page or standalone.
type Note struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// RawEvent is one entry of the chronological event stream. Note events may be
// orphaned: authored on a page that is not among the session's content pages.
type RawEvent struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	URL       string    `json:"url,omitempty"`
	Content   string    `json:"content,omitempty"`
	Orphaned  bool      `json:"orphaned,omitempty"`
}

// DisplayTitle returns the metadata title when present, else the visit title.
func (p PageVisit) DisplayTitle() string {
	if t := strings.TrimSpace(p.Metadata.Title); t != "" {
		return t
	}
	return p.Title
}

// NoteEvents returns the standalone note events of the chronological stream.
func (s *Session) NoteEvents() []RawEvent {
	var notes []RawEvent
	for _, ev := range s.ChronologicalEvents {
		if ev.Type == EventNote {
			notes = append(notes, ev)
		}
	}
	return notes
}

// PageByURL returns the content page with the given URL, or nil.
func (s *Session) PageByURL(url string) *PageVisit {
	for i := range s.ContentPages {
		if s.ContentPages[i].URL == url {
			return &s.ContentPages[i]
		}
	}
	return nil
}
