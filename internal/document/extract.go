package document

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

const maxSyntheticTitle = 100

// Extract splits converted document HTML into ordered sections. A section
// spans from one heading (h1-h4, inclusive) to the start of the next heading,
// or to the end of the document for the last one. With no headings at all the
// first paragraph is synthesized into a title and a single section spans the
// whole document; with no paragraphs either, zero sections are produced.
func Extract(src string) ([]Section, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse document html: %w", err)
	}

	root := findBody(doc)
	if root == nil {
		root = doc
	}
	blocks := collectBlocks(root)

	var headings int
	for _, b := range blocks {
		if b.level > 0 {
			headings++
		}
	}
	if headings == 0 {
		return fallbackSection(blocks), nil
	}

	var sections []Section
	var cur *Section
	var parts []string

	flush := func() {
		if cur == nil {
			return
		}
		cur.Content = strings.Join(parts, "\n")
		cur.ID = fmt.Sprintf("section-%d", len(sections))
		sections = append(sections, *cur)
		cur = nil
		parts = nil
	}

	for _, b := range blocks {
		if b.level > 0 {
			flush()
			cur = &Section{Title: b.text, Level: b.level, HTML: renderNode(b.node)}
			parts = []string{b.text}
			continue
		}
		// Paragraphs before the first heading belong to no section.
		if cur == nil {
			continue
		}
		if b.text != "" {
			parts = append(parts, b.text)
		}
		cur.HTML += renderNode(b.node)
	}
	flush()

	return sections, nil
}

// block is a flat, document-order unit: a heading (level 1-4) or a paragraph
// (level 0).
type block struct {
	level int
	text  string
	node  *html.Node
}

func collectBlocks(root *html.Node) []block {
	var blocks []block
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				blocks = append(blocks, block{level: level, text: textContent(n), node: n})
				return
			}
			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "p", "li", "blockquote":
				blocks = append(blocks, block{text: textContent(n), node: n})
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return blocks
}

// fallbackSection synthesizes a single whole-document section from the first
// paragraph when the document carries no headings.
func fallbackSection(blocks []block) []Section {
	var paras []block
	for _, b := range blocks {
		if b.level == 0 && b.text != "" {
			paras = append(paras, b)
		}
	}
	if len(paras) == 0 {
		return nil
	}

	title := paras[0].text
	if runes := []rune(title); len(runes) > maxSyntheticTitle {
		title = string(runes[:maxSyntheticTitle]) + "..."
	}

	var texts []string
	var rendered strings.Builder
	for _, b := range paras {
		texts = append(texts, b.text)
		rendered.WriteString(renderNode(b.node))
	}

	return []Section{{
		ID:      "section-0",
		Title:   title,
		Level:   1,
		Content: strings.Join(texts, "\n"),
		HTML:    rendered.String(),
	}}
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

func renderNode(n *html.Node) string {
	var buf strings.Builder
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}
