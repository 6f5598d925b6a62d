package session

// MetadataPatch is a partial metadata update. Nil fields are left unchanged;
// non-nil fields overwrite, including overwriting to empty.
type MetadataPatch struct {
	Title       *string `json:"title,omitempty"`
	Author      *string `json:"author,omitempty"`
	Publisher   *string `json:"publisher,omitempty"`
	PublishDate *string `json:"publishDate,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Apply writes the patch onto the given metadata in place.
func (p MetadataPatch) Apply(m *PageMetadata) {
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Author != nil {
		m.Author = *p.Author
	}
	if p.Publisher != nil {
		m.Publisher = *p.Publisher
	}
	if p.PublishDate != nil {
		m.PublishDate = *p.PublishDate
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
}

// Empty reports whether the patch changes nothing.
func (p MetadataPatch) Empty() bool {
	return p.Title == nil && p.Author == nil && p.Publisher == nil &&
		p.PublishDate == nil && p.Description == nil
}
