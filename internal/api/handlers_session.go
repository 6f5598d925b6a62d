package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/tbconrad/trailview/internal/session"
)

func (s *Server) handleLoadSession(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxSessionBytes)

	data, err := io.ReadAll(r.Body)
	if err != nil {
		jsonError(w, "failed to read session body: "+err.Error(), http.StatusBadRequest)
		return
	}

	sess, err := session.Parse(data)
	if err != nil {
		// Malformed input fails fast; no partial session is loaded.
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.store.LoadSession(sess)
	s.log.Info("session loaded",
		"session_id", sess.ID,
		"searches", len(sess.Searches),
		"pages", len(sess.ContentPages),
		"events", len(sess.ChronologicalEvents),
	)

	writeJSON(w, http.StatusOK, sessionSummary(sess))
}

func (s *Server) handleSessionSummary(w http.ResponseWriter, r *http.Request) {
	sess := s.store.Session()
	if sess == nil {
		jsonError(w, "no session loaded", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sessionSummary(sess))
}

func sessionSummary(sess *session.Session) map[string]any {
	return map[string]any{
		"id":        sess.ID,
		"name":      sess.Name,
		"startTime": sess.StartTime,
		"endTime":   sess.EndTime,
		"searches":  len(sess.Searches),
		"pages":     len(sess.ContentPages),
		"events":    len(sess.ChronologicalEvents),
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
