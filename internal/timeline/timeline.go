// Package timeline projects a session's searches, page visits, and standalone
// notes into one chronologically ordered, display-oriented event sequence.
// The projection is pure: it never mutates the session and can be rebuilt at
// any time.
package timeline

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/tbconrad/trailview/internal/session"
)

// Event types in the assembled timeline.
const (
	TypeSearch = "search"
	TypePage   = "page"
	TypeNote   = "note"
)

// Event is one display-oriented timeline entry. Original fields needed by
// consumers (notes, metadata, orphaned flag) are retained.
type Event struct {
	Type        string                `json:"type"`
	Timestamp   time.Time             `json:"timestamp"`
	Label       string                `json:"label"`
	Description string                `json:"description,omitempty"`
	URL         string                `json:"url,omitempty"`
	Notes       []session.Note        `json:"notes,omitempty"`
	Metadata    *session.PageMetadata `json:"metadata,omitempty"`
	Orphaned    bool                  `json:"orphaned,omitempty"`
}

// Build assembles the ordered timeline. Events are sorted ascending by
// timestamp; equal timestamps keep their original relative order.
func Build(s *session.Session) []Event {
	if s == nil {
		return []Event{}
	}

	events := make([]Event, 0,
		len(s.Searches)+len(s.ContentPages)+len(s.ChronologicalEvents))

	for _, se := range s.Searches {
		events = append(events, Event{
			Type:        TypeSearch,
			Timestamp:   se.Timestamp,
			Label:       fmt.Sprintf("%q", se.Query),
			Description: engineDisplayName(se.Engine) + " search",
			URL:         se.URL,
			Notes:       se.Notes,
		})
	}
	for i := range s.ContentPages {
		page := &s.ContentPages[i]
		label := page.DisplayTitle()
		if label == "" {
			label = domainOf(page.URL)
		}
		meta := page.Metadata
		events = append(events, Event{
			Type:        TypePage,
			Timestamp:   page.Timestamp,
			Label:       label,
			Description: domainOf(page.URL),
			URL:         page.URL,
			Notes:       page.Notes,
			Metadata:    &meta,
		})
	}
	for _, ev := range s.NoteEvents() {
		events = append(events, Event{
			Type:        TypeNote,
			Timestamp:   ev.Timestamp,
			Label:       "Note added",
			Description: ev.Content,
			URL:         ev.URL,
			Orphaned:    ev.Orphaned,
		})
	}

	// Stable: equal timestamps keep their original relative order.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
	return events
}

func engineDisplayName(engine string) string {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "google":
		return "Google"
	case "bing":
		return "Bing"
	case "duckduckgo", "ddg":
		return "DuckDuckGo"
	case "yahoo":
		return "Yahoo"
	case "brave":
		return "Brave"
	case "":
		return "Web"
	default:
		e := strings.ToLower(strings.TrimSpace(engine))
		return strings.ToUpper(e[:1]) + e[1:]
	}
}

func domainOf(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	parts := strings.Split(raw, "/")
	if len(parts) > 2 && parts[2] != "" {
		return parts[2]
	}
	return raw
}
