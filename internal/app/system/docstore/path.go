package docstore

import (
	"strings"

	"github.com/google/uuid"
)

// Path addresses a collection (odd number of segments) or a document
// (even number of segments).
type Path string

// Join builds a path from raw segments. Segments are not escaped; a
// segment containing "/" or an empty segment makes the path invalid.
func Join(segments ...string) Path {
	for _, s := range segments {
		if s == "" || strings.Contains(s, "/") {
			return Path("")
		}
	}
	return Path(strings.Join(segments, "/"))
}

// Segments splits the path.
func (p Path) Segments() []string {
	if p == "" {
		return nil
	}
	return strings.Split(string(p), "/")
}

// Valid reports whether every segment is non-empty.
func (p Path) Valid() bool {
	if p == "" {
		return false
	}
	for _, s := range p.Segments() {
		if s == "" {
			return false
		}
	}
	return true
}

// IsDoc reports whether p addresses a document.
func (p Path) IsDoc() bool {
	return p.Valid() && len(p.Segments())%2 == 0
}

// IsCollection reports whether p addresses a collection.
func (p Path) IsCollection() bool {
	return p.Valid() && len(p.Segments())%2 == 1
}

// ID returns the last segment.
func (p Path) ID() string {
	segs := p.Segments()
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}

// Parent returns the enclosing path: the collection for a document, the
// owning document for a sub-collection, and "" for a top-level collection.
func (p Path) Parent() Path {
	i := strings.LastIndex(string(p), "/")
	if i < 0 {
		return ""
	}
	return p[:i]
}

// Child appends segments to p.
func (p Path) Child(segments ...string) Path {
	if !p.Valid() {
		return ""
	}
	child := Join(segments...)
	if child == "" {
		return ""
	}
	return p + "/" + child
}

// Names returns the collection names along the path, e.g.
// users/u1/todos/t1/history -> [users todos history].
func (p Path) Names() []string {
	segs := p.Segments()
	names := make([]string, 0, (len(segs)+1)/2)
	for i := 0; i < len(segs); i += 2 {
		names = append(names, segs[i])
	}
	return names
}

func (p Path) String() string { return string(p) }

// NewID generates a document ID. IDs are UUIDv7 in lower-case hex, so
// they sort by creation time, and within a process each ID sorts after the
// previous one. Both adapters order ties by ID, which keeps records that
// share a timestamp in write order.
func NewID() string {
	return strings.ReplaceAll(uuid.Must(uuid.NewV7()).String(), "-", "")
}
