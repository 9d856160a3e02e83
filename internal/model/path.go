package model

import (
	"slices"
	"strconv"
	"strings"
)

// Path addresses a folder by the child-folder indices leading to it from the
// root. The empty path is the root. Paths are weak references: any mutation may
// shift indices, so stored paths are re-resolved before use.
type Path []int

// ParsePath reads the "0/2/1" form. "" and "/" both mean the root.
func ParsePath(s string) (Path, error) {
	s = strings.Trim(strings.TrimSpace(s), "/")
	if s == "" {
		return Path{}, nil
	}
	parts := strings.Split(s, "/")
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		i, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || i < 0 {
			return nil, validationErr("path", "invalid path %q: segments must be non-negative folder indices", s)
		}
		p = append(p, i)
	}
	return p, nil
}

// String renders the path as "0/2/1", or "/" for the root.
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, "/")
}

// IsRoot reports whether p addresses the root.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// Clone returns a copy that never aliases p.
func (p Path) Clone() Path {
	c := make(Path, len(p))
	copy(c, p)
	return c
}

// Child returns the path of the subfolder at index i.
func (p Path) Child(i int) Path {
	c := make(Path, len(p), len(p)+1)
	copy(c, p)
	return append(c, i)
}

// Parent returns the enclosing folder's path. The root has no parent.
func (p Path) Parent() (Path, bool) {
	if len(p) == 0 {
		return nil, false
	}
	return p[:len(p)-1].Clone(), true
}

// Equal reports whether both paths address the same position.
func (p Path) Equal(other Path) bool {
	return slices.Equal(p, other)
}

// IsDescendantOrSelf reports whether candidate equals ancestor or lies below it.
// A folder at ancestor cannot be moved to such a candidate.
func IsDescendantOrSelf(ancestor, candidate Path) bool {
	if len(candidate) < len(ancestor) {
		return false
	}
	return slices.Equal(ancestor, candidate[:len(ancestor)])
}
