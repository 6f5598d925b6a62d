package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Parse decodes and validates a session from raw JSON bytes. Malformed input
// fails fast; missing optional collections are normalized to empty.
func Parse(data []byte) (*Session, error) {
	var s Session
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session: %w", err)
	}
	s.normalize()
	return &s, nil
}

// ParseReader decodes and validates a session from a reader.
func ParseReader(r io.Reader) (*Session, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	return Parse(data)
}

// Validate checks the structural shape of the session. Cross-references
// (sourceSearch, note URLs) are deliberately not validated here: unresolved
// references produce orphaned entities downstream, not load failures.
func (s Session) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Searches),
		validation.Field(&s.ContentPages),
		validation.Field(&s.ChronologicalEvents),
	)
}

// Validate requires a search to carry its identity URL.
func (e SearchEvent) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.URL, validation.Required),
	)
}

// Validate requires a page visit to carry its identity URL.
func (p PageVisit) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.URL, validation.Required),
	)
}

// Validate restricts chronological events to the known types.
func (e RawEvent) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Type, validation.Required,
			validation.In(EventSearch, EventPageVisit, EventNote)),
	)
}

func (s *Session) normalize() {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Searches == nil {
		s.Searches = []SearchEvent{}
	}
	if s.ContentPages == nil {
		s.ContentPages = []PageVisit{}
	}
	if s.ChronologicalEvents == nil {
		s.ChronologicalEvents = []RawEvent{}
	}
}
