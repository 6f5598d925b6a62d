package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/tbconrad/trailview/internal/session"
	"github.com/tbconrad/trailview/internal/store"
)

func (s *Server) handleEditPageMetadata(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		jsonError(w, "url query parameter is required", http.StatusBadRequest)
		return
	}

	var patch session.MetadataPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		jsonError(w, "invalid metadata patch: "+err.Error(), http.StatusBadRequest)
		return
	}
	if patch.Empty() {
		jsonError(w, "metadata patch is empty", http.StatusBadRequest)
		return
	}

	if err := s.store.EditPageMetadata(url, patch); err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (s *Server) handleRemovePage(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		jsonError(w, "url query parameter is required", http.StatusBadRequest)
		return
	}
	if err := s.store.RemovePage(url); err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (s *Server) handleAddPageNote(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		jsonError(w, "url query parameter is required", http.StatusBadRequest)
		return
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid note body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if body.Content == "" {
		jsonError(w, "content is required", http.StatusBadRequest)
		return
	}

	note, err := s.store.AddPageNote(url, body.Content)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (s *Server) handleRemovePageNote(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		jsonError(w, "url query parameter is required", http.StatusBadRequest)
		return
	}
	index, err := strconv.Atoi(r.URL.Query().Get("index"))
	if err != nil {
		jsonError(w, "index query parameter is required", http.StatusBadRequest)
		return
	}
	if err := s.store.RemovePageNote(url, index); err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNoSession):
		jsonError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, store.ErrPageNotFound), errors.Is(err, store.ErrNoteNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	default:
		jsonError(w, err.Error(), http.StatusInternalServerError)
	}
}
