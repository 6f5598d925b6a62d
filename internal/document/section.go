// Package document splits converted reference-document HTML into an ordered,
// flat list of heading-bounded sections. Heading levels imply a hierarchy but
// no tree is reconstructed; consumers work with document order only.
package document

// Section is a titled span of the converted document, bounded by heading tags.
type Section struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Level   int    `json:"level"`
	Content string `json:"content"`
	HTML    string `json:"html"`
}
