// Package convert turns uploaded reference documents into HTML carrying
// <h1>-<h4> and <p> tags, the only input the section extractor consumes.
// Conversion failures propagate to the caller: the document stays not-loaded.
package convert

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Converter converts raw document bytes into headed HTML.
type Converter interface {
	Convert(r io.Reader, filename string) (string, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".html": true,
	".htm":  true,
	".md":   true,
	".docx": true,
	".pdf":  true,
}

// ForFile returns the appropriate converter for a filename.
func ForFile(filename string) (Converter, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".html", ".htm":
		return &HTMLConverter{}, nil
	case ".md", ".markdown":
		return &MarkdownConverter{}, nil
	case ".docx":
		return &DOCXConverter{}, nil
	case ".pdf":
		return &PDFConverter{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".markdown" {
		return true
	}
	return SupportedExtensions[ext]
}
