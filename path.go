package skemodel

import (
	"fmt"
	"strconv"
	"strings"
)

// Path is a structured location inside a record: an ordered list of field
// names (array elements use their decimal index). Paths are compared segment by
// segment, never by splitting rendered strings.
type Path []string

// Root is the empty path.
var Root = Path(nil)

// Child returns a new path with name appended.
func (p Path) Child(name string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, name)
}

// Index returns a new path with the array index i appended.
func (p Path) Index(i int) Path { return p.Child(strconv.Itoa(i)) }

// Join returns p followed by q.
func (p Path) Join(q Path) Path {
	out := make(Path, 0, len(p)+len(q))
	out = append(out, p...)
	return append(out, q...)
}

// Equal reports whether both paths have identical segments.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether q is a (non-strict) prefix of p.
func (p Path) HasPrefix(q Path) bool {
	if len(q) > len(p) {
		return false
	}
	return p[:len(q)].Equal(q)
}

// Pointer renders the path as an RFC 6901 JSON Pointer ("/" for the root).
func (p Path) Pointer() string {
	if len(p) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, seg := range p {
		b.WriteByte('/')
		// escape '~' -> '~0', '/' -> '~1' per RFC6901
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(seg, "~", "~0"), "/", "~1"))
	}
	return b.String()
}

func (p Path) String() string { return p.Pointer() }

// ParsePointer converts a JSON Pointer back into a Path.
func ParsePointer(ptr string) Path {
	if ptr == "" || ptr == "/" {
		return Root
	}
	parts := strings.Split(strings.TrimPrefix(ptr, "/"), "/")
	out := make(Path, 0, len(parts))
	for _, s := range parts {
		out = append(out, strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~"))
	}
	return out
}

// IssueAt creates an Issue at the given path with provided code and message;
// kv pairs become Params.
func IssueAt(p Path, code, msg string, kv ...any) Issue {
	var m map[string]any
	if len(kv) > 1 {
		m = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			m[fmt.Sprint(kv[i])] = kv[i+1]
		}
	}
	return Issue{Path: p, Code: code, Message: msg, Params: m}
}
