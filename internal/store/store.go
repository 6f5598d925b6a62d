// Package store holds the in-memory representation of the loaded session and
// reference document, plus the mutation entry points for edits and removals.
// All derived views (graph, timeline, matches) are served from here.
package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/tbconrad/trailview/internal/annotstore"
	"github.com/tbconrad/trailview/internal/document"
	"github.com/tbconrad/trailview/internal/graph"
	"github.com/tbconrad/trailview/internal/match"
	"github.com/tbconrad/trailview/internal/session"
	"github.com/tbconrad/trailview/internal/timeline"
)

var (
	ErrNoSession    = errors.New("no session loaded")
	ErrPageNotFound = errors.New("page not found")
	ErrNoteNotFound = errors.New("note not found")
)

// Store owns the loaded session, the extracted document sections, and the
// cached exclusive assignment. The mutex serializes all access so a matching
// run exclusively owns its claim state; the assignment cache is invalidated
// whenever the session or the document changes and recomputed lazily.
type Store struct {
	mu    sync.Mutex
	log   *slog.Logger
	annot *annotstore.Client // nil when no external annotation store is configured

	session  *session.Session
	sections []document.Section

	matches      map[string][]match.Result
	matchesValid bool
}

func New(log *slog.Logger, annot *annotstore.Client) *Store {
	return &Store{log: log, annot: annot}
}

// LoadSession replaces the current session. Any cached assignment is dropped.
func (s *Store) LoadSession(sess *session.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = sess
	s.invalidate()
}

// Session returns the loaded session, or nil. Callers must treat it as
// read-only; mutations go through the Store entry points.
func (s *Store) Session() *session.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// LoadDocument replaces the extracted document sections.
func (s *Store) LoadDocument(sections []document.Section) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sections = sections
	s.invalidate()
}

// ResetDocument clears the loaded document and its derived matches.
func (s *Store) ResetDocument() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sections = nil
	s.invalidate()
}

// SectionCount returns the number of loaded document sections.
func (s *Store) SectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sections)
}

// Graph builds the filtered provenance graph for the current session.
func (s *Store) Graph(f graph.Filters) graph.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return graph.Filter(graph.Build(s.session), f)
}

// Timeline assembles the ordered event sequence for the current session.
func (s *Store) Timeline() []timeline.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return timeline.Build(s.session)
}

// Matches returns the exclusive section-to-page assignment, recomputing it if
// the session or document changed since the last run. With no session or no
// document loaded the result is empty, not an error.
func (s *Store) Matches() map[string][]match.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.matchesValid {
		var pages []session.PageVisit
		if s.session != nil {
			pages = s.session.ContentPages
		}
		s.matches = match.AssignSectionsToBestPages(pages, s.sections)
		s.matchesValid = true
	}
	return s.matches
}

// PageMatches returns the exclusive matches for one page, if any.
func (s *Store) PageMatches(url string) ([]match.Result, bool) {
	results, ok := s.Matches()[url]
	return results, ok
}

// EditPageMetadata applies a partial metadata update to the page with the
// given URL and invalidates the assignment.
func (s *Store) EditPageMetadata(url string, patch session.MetadataPatch) error {
	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return ErrNoSession
	}
	page := s.session.PageByURL(url)
	if page == nil {
		s.mu.Unlock()
		return ErrPageNotFound
	}
	patch.Apply(&page.Metadata)
	s.invalidate()
	sessionID, meta := s.session.ID, page.Metadata
	s.mu.Unlock()

	s.persist("metadata", url, func(ctx context.Context) error {
		return s.annot.SaveMetadata(ctx, sessionID, url, meta)
	})
	return nil
}

// RemovePage deletes the page with the given URL from the session.
func (s *Store) RemovePage(url string) error {
	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return ErrNoSession
	}
	pages := s.session.ContentPages
	idx := -1
	for i := range pages {
		if pages[i].URL == url {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return ErrPageNotFound
	}
	s.session.ContentPages = append(pages[:idx], pages[idx+1:]...)
	s.invalidate()
	sessionID := s.session.ID
	s.mu.Unlock()

	s.persist("remove", url, func(ctx context.Context) error {
		return s.annot.DeletePage(ctx, sessionID, url)
	})
	return nil
}

// AddPageNote appends a user annotation to the page with the given URL.
func (s *Store) AddPageNote(url, content string) (session.Note, error) {
	note := session.Note{Content: content, Timestamp: time.Now().UTC()}

	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return session.Note{}, ErrNoSession
	}
	page := s.session.PageByURL(url)
	if page == nil {
		s.mu.Unlock()
		return session.Note{}, ErrPageNotFound
	}
	page.Notes = append(page.Notes, note)
	sessionID := s.session.ID
	s.mu.Unlock()

	s.persist("note", url, func(ctx context.Context) error {
		return s.annot.SaveNote(ctx, sessionID, url, note)
	})
	return note, nil
}

// RemovePageNote removes the annotation at the given position on a page.
func (s *Store) RemovePageNote(url string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return ErrNoSession
	}
	page := s.session.PageByURL(url)
	if page == nil {
		return ErrPageNotFound
	}
	if index < 0 || index >= len(page.Notes) {
		return ErrNoteNotFound
	}
	page.Notes = append(page.Notes[:index], page.Notes[index+1:]...)
	return nil
}

// persist pushes a mutation to the external annotation store, best effort.
func (s *Store) persist(kind, url string, fn func(context.Context) error) {
	if s.annot == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		s.log.Warn("annotation store sync failed", "kind", kind, "url", url, "error", err)
	}
}

// invalidate drops the cached assignment. Callers hold the mutex.
func (s *Store) invalidate() {
	s.matches = nil
	s.matchesValid = false
}
