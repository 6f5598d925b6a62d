package api

import (
	"net/http"
	"strconv"

	"github.com/tbconrad/trailview/internal/graph"
)

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	f := graph.Filters{
		ShowSearches: boolParam(r, "searches", true),
		ShowPages:    boolParam(r, "pages", true),
		ShowNotes:    boolParam(r, "notes", true),
	}
	writeJSON(w, http.StatusOK, s.store.Graph(f))
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"events": s.store.Timeline()})
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	if url := r.URL.Query().Get("url"); url != "" {
		results, ok := s.store.PageMatches(url)
		if !ok {
			jsonError(w, "no matches for page", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"url": url, "matches": results})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"matches": s.store.Matches()})
}

func boolParam(r *http.Request, name string, fallback bool) bool {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
