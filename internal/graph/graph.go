// Package graph derives the provenance graph of a research session: typed
// nodes for searches, pages, and standalone notes, connected by
// search-to-page and page-to-note links. Links carry node ids only, never
// object references; a link is materialized only when both endpoints exist.
package graph

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tbconrad/trailview/internal/session"
)

// Node and link types.
const (
	NodeSearch = "search"
	NodePage   = "page"
	NodeNote   = "note"

	LinkSearchToPage = "search_to_page"
	LinkPageToNote   = "page_to_note"
)

// Display weights and colors per node type.
const (
	searchVal = 8
	pageVal   = 5
	noteVal   = 3

	searchColor = "#4285f4"
	pageColor   = "#34a853"
	noteColor   = "#fbbc05"
)

const maxNoteLabel = 60

// Node is a derived graph entity.
type Node struct {
	ID    string  `json:"id"`
	Type  string  `json:"type"`
	Label string  `json:"label"`
	Val   float64 `json:"val"`
	Color string  `json:"color"`
	Ref   any     `json:"-"` // originating raw record
}

// Link connects two nodes by id.
type Link struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Type   string  `json:"type"`
	Value  float64 `json:"value"`
}

// Graph is one build's node and link sets.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Filters selects which node types survive a Filter call.
type Filters struct {
	ShowSearches bool
	ShowPages    bool
	ShowNotes    bool
}

// Build derives the graph for a session. Node ids are unique within the
// build; duplicate records sharing an identity URL collapse into one node.
// Given the same session, the produced node and link sets are identical.
func Build(s *session.Session) Graph {
	g := Graph{Nodes: []Node{}, Links: []Link{}}
	if s == nil {
		return g
	}

	searchIDs := make(map[string]string) // search URL -> node id
	pageIDs := make(map[string]string)   // page URL -> node id

	for i := range s.Searches {
		se := &s.Searches[i]
		if _, ok := searchIDs[se.URL]; ok {
			continue
		}
		id := NodeID(NodeSearch, se.URL)
		searchIDs[se.URL] = id
		label := se.Query
		if label == "" {
			label = se.URL
		}
		g.Nodes = append(g.Nodes, Node{
			ID: id, Type: NodeSearch, Label: label,
			Val: searchVal, Color: searchColor, Ref: se,
		})
	}

	for i := range s.ContentPages {
		page := &s.ContentPages[i]
		if _, ok := pageIDs[page.URL]; ok {
			continue
		}
		id := NodeID(NodePage, page.URL)
		pageIDs[page.URL] = id
		label := page.DisplayTitle()
		if label == "" {
			label = domainOf(page.URL)
		}
		g.Nodes = append(g.Nodes, Node{
			ID: id, Type: NodePage, Label: label,
			Val: pageVal, Color: pageColor, Ref: page,
		})
	}

	// Standalone note events lack a natural unique key; the id combines the
	// event's position with its timestamp, both stable for a given session.
	notes := s.NoteEvents()
	noteIDs := make([]string, len(notes))
	for i, ev := range notes {
		id := fmt.Sprintf("note-%d-%d", i, ev.Timestamp.Unix())
		noteIDs[i] = id
		g.Nodes = append(g.Nodes, Node{
			ID: id, Type: NodeNote, Label: noteLabel(ev.Content),
			Val: noteVal, Color: noteColor, Ref: notes[i],
		})
	}

	// Provenance links. Unresolvable references leave orphaned nodes rather
	// than dangling links.
	for i := range s.ContentPages {
		page := &s.ContentPages[i]
		if page.SourceSearch == nil {
			continue
		}
		sid, ok := searchIDs[page.SourceSearch.URL]
		if !ok {
			continue
		}
		g.Links = append(g.Links, Link{
			Source: sid, Target: pageIDs[page.URL],
			Type: LinkSearchToPage, Value: 2,
		})
	}
	for i, ev := range notes {
		pid, ok := pageIDs[ev.URL]
		if !ok {
			continue
		}
		g.Links = append(g.Links, Link{
			Source: pid, Target: noteIDs[i],
			Type: LinkPageToNote, Value: 1,
		})
	}

	return g
}

// Filter keeps nodes whose type flag is enabled and drops every link whose
// source or target is no longer present.
func Filter(g Graph, f Filters) Graph {
	out := Graph{Nodes: []Node{}, Links: []Link{}}
	kept := make(map[string]bool, len(g.Nodes))

	for _, n := range g.Nodes {
		var show bool
		switch n.Type {
		case NodeSearch:
			show = f.ShowSearches
		case NodePage:
			show = f.ShowPages
		case NodeNote:
			show = f.ShowNotes
		}
		if show {
			kept[n.ID] = true
			out.Nodes = append(out.Nodes, n)
		}
	}
	for _, l := range g.Links {
		if kept[l.Source] && kept[l.Target] {
			out.Links = append(out.Links, l)
		}
	}
	return out
}

func noteLabel(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return "Note"
	}
	if runes := []rune(content); len(runes) > maxNoteLabel {
		return string(runes[:maxNoteLabel]) + "..."
	}
	return content
}

// domainOf extracts a display hostname, degrading to slash splitting when the
// URL does not parse.
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
