package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/tbconrad/trailview/internal/convert"
	"github.com/tbconrad/trailview/internal/document"
)

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	// Limit total request size, with headroom for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("upload exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !convert.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	conv, err := convert.ForFile(filename)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if pdfConv, ok := conv.(*convert.PDFConverter); ok {
		pdfConv.FallbackPdftotext = s.cfg.PDFFallbackPdftotext
	}

	// A failed conversion or extraction leaves no document loaded: stale
	// sections from a previous upload are cleared, not served.
	html, err := conv.Convert(bytes.NewReader(data), filename)
	if err != nil {
		s.store.ResetDocument()
		jsonError(w, "document conversion failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	sections, err := document.Extract(html)
	if err != nil {
		s.store.ResetDocument()
		jsonError(w, "section extraction failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	s.store.LoadDocument(sections)
	s.log.Info("document loaded", "filename", filename, "sections", len(sections))

	writeJSON(w, http.StatusOK, map[string]any{
		"filename": filename,
		"sections": len(sections),
	})
}

func (s *Server) handleResetDocument(w http.ResponseWriter, r *http.Request) {
	s.store.ResetDocument()
	writeJSON(w, http.StatusOK, map[string]any{"sections": 0})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
