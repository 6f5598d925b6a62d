package store

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/tbconrad/trailview/internal/document"
	"github.com/tbconrad/trailview/internal/graph"
	"github.com/tbconrad/trailview/internal/session"
)

func newTestStore() *Store {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
}

func testSession() *session.Session {
	t0 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return &session.Session{
		ID: "sess-1",
		Searches: []session.SearchEvent{
			{URL: "https://www.google.com/search?q=reefs", Query: "reefs", Engine: "google", Timestamp: t0},
		},
		ContentPages: []session.PageVisit{
			{
				URL:          "https://reef.example.org/decline",
				Title:        "Reef Decline Worldwide",
				Timestamp:    t0.Add(time.Minute),
				SourceSearch: &session.SearchRef{URL: "https://www.google.com/search?q=reefs"},
			},
		},
	}
}

func testSections() []document.Section {
	return []document.Section{
		{ID: "section-0", Title: "Reefs", Content: "chapter on reef decline worldwide and its drivers"},
		{ID: "section-1", Title: "Other", Content: "completely unrelated chapter text"},
	}
}

func TestStore_MatchesLazyAndCached(t *testing.T) {
	st := newTestStore()
	st.LoadSession(testSession())
	st.LoadDocument(testSections())

	m := st.Matches()
	results, ok := m["https://reef.example.org/decline"]
	if !ok || len(results) != 1 {
		t.Fatalf("expected 1 exclusive match for the page, got %v", m)
	}
	if results[0].Section.ID != "section-0" {
		t.Errorf("expected section-0 matched, got %s", results[0].Section.ID)
	}
}

func TestStore_EmptyWithoutDocument(t *testing.T) {
	st := newTestStore()
	st.LoadSession(testSession())

	if m := st.Matches(); len(m) != 0 {
		t.Errorf("expected empty matches with no document, got %v", m)
	}
}

func TestStore_EditMetadataInvalidatesMatches(t *testing.T) {
	// The page URL deliberately shares no components with the section text so
	// the pre-edit score is zero.
	pageURL := "https://news.example.net/a1"
	st := newTestStore()
	st.LoadSession(&session.Session{
		ID: "sess-2",
		ContentPages: []session.PageVisit{
			{URL: pageURL, Title: "Nothing Shared Here"},
		},
	})
	st.LoadDocument(testSections())

	if m := st.Matches(); len(m) != 0 {
		t.Fatalf("expected no matches before the metadata edit, got %v", m)
	}

	title := "Reef Decline Worldwide"
	err := st.EditPageMetadata(pageURL, session.MetadataPatch{Title: &title})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := st.Matches()
	if _, ok := m[pageURL]; !ok {
		t.Errorf("expected recomputed matches to reflect the edited metadata, got %v", m)
	}
}

func TestStore_RemovePageInvalidatesMatches(t *testing.T) {
	st := newTestStore()
	st.LoadSession(testSession())
	st.LoadDocument(testSections())
	st.Matches() // populate the cache

	if err := st.RemovePage("https://reef.example.org/decline"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m := st.Matches(); len(m) != 0 {
		t.Errorf("expected no matches after page removal, got %v", m)
	}
	if p := st.Session().PageByURL("https://reef.example.org/decline"); p != nil {
		t.Errorf("expected page removed from session")
	}
}

func TestStore_ResetDocumentClearsMatches(t *testing.T) {
	st := newTestStore()
	st.LoadSession(testSession())
	st.LoadDocument(testSections())
	st.Matches()

	st.ResetDocument()
	if st.SectionCount() != 0 {
		t.Errorf("expected no sections after reset")
	}
	if m := st.Matches(); len(m) != 0 {
		t.Errorf("expected no matches after reset, got %v", m)
	}
}

func TestStore_PageNotes(t *testing.T) {
	st := newTestStore()
	st.LoadSession(testSession())

	note, err := st.AddPageNote("https://reef.example.org/decline", "verify the 2023 survey")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if note.Content != "verify the 2023 survey" {
		t.Errorf("unexpected note content %q", note.Content)
	}

	page := st.Session().PageByURL("https://reef.example.org/decline")
	if len(page.Notes) != 1 {
		t.Fatalf("expected 1 note on the page, got %d", len(page.Notes))
	}

	if err := st.RemovePageNote("https://reef.example.org/decline", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.Session().PageByURL("https://reef.example.org/decline").Notes) != 0 {
		t.Errorf("expected note removed")
	}

	if err := st.RemovePageNote("https://reef.example.org/decline", 3); !errors.Is(err, ErrNoteNotFound) {
		t.Errorf("expected ErrNoteNotFound, got %v", err)
	}
}

func TestStore_MutationErrors(t *testing.T) {
	st := newTestStore()

	if err := st.RemovePage("u"); !errors.Is(err, ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}

	st.LoadSession(testSession())
	if err := st.RemovePage("missing"); !errors.Is(err, ErrPageNotFound) {
		t.Errorf("expected ErrPageNotFound, got %v", err)
	}
	if _, err := st.AddPageNote("missing", "x"); !errors.Is(err, ErrPageNotFound) {
		t.Errorf("expected ErrPageNotFound, got %v", err)
	}
}

func TestStore_ViewsWithoutSession(t *testing.T) {
	st := newTestStore()

	g := st.Graph(graph.Filters{ShowSearches: true, ShowPages: true, ShowNotes: true})
	if len(g.Nodes) != 0 || len(g.Links) != 0 {
		t.Errorf("expected empty graph without a session")
	}
	if events := st.Timeline(); len(events) != 0 {
		t.Errorf("expected empty timeline without a session")
	}
}
