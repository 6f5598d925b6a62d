package graph

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
)

var nonWord = regexp.MustCompile(`\W+`)

const maxSlugLen = 48

// NodeID derives a stable, collision-free node id from an entity kind and its
// identity key (a URL for searches and pages). The key is sanitized into a
// readable slug, and a 64-bit FNV-1a digest of the raw key is appended so two
// distinct keys that sanitize identically still get distinct ids. The same
// (kind, key) pair always yields the same id.
func NodeID(kind, key string) string {
	slug := strings.Trim(nonWord.ReplaceAllString(key, "_"), "_")
	if len(slug) > maxSlugLen {
		slug = slug[:maxSlugLen]
	}
	h := fnv.New64a()
	h.Write([]byte(key))
	if slug == "" {
		return fmt.Sprintf("%s-%016x", kind, h.Sum64())
	}
	return fmt.Sprintf("%s-%s-%016x", kind, slug, h.Sum64())
}
