package scene

import (
	"fmt"
	"strings"

	"github.com/Faultbox/glrimport/pkg/texture"
)

// FilterMode selects how a Filter's names are applied.
type FilterMode uint8

// Filter modes.
const (
	Blacklist FilterMode = iota // Drop triangles bound to a listed name
	Whitelist                   // Keep only triangles bound to a listed name
)

// String returns the mode name.
func (m FilterMode) String() string {
	switch m {
	case Blacklist:
		return "blacklist"
	case Whitelist:
		return "whitelist"
	default:
		return fmt.Sprintf("FilterMode(%d)", m)
	}
}

// Filter is a named-texture inclusion or exclusion rule. The zero value is
// an empty blacklist, which keeps everything.
type Filter struct {
	Mode     FilterMode
	FoldCase bool // Match names case-insensitively

	names map[string]struct{}
}

// NewFilter builds a filter from texture names. Extensions are stripped and
// blank entries ignored.
func NewFilter(mode FilterMode, names []string, foldCase bool) Filter {
	f := Filter{Mode: mode, FoldCase: foldCase, names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		n = texture.StripExtension(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		f.names[f.normalize(n)] = struct{}{}
	}
	return f
}

// ParseFilterList splits a comma-separated list of texture names.
func ParseFilterList(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return names
}

// Len returns the number of distinct names in the filter.
func (f Filter) Len() int {
	return len(f.names)
}

// Contains reports whether name is listed.
func (f Filter) Contains(name string) bool {
	_, ok := f.names[f.normalize(texture.StripExtension(name))]
	return ok
}

// Keep reports whether a triangle whose texture is known by any of names
// survives the filter.
func (f Filter) Keep(names ...string) bool {
	listed := false
	for _, n := range names {
		if f.Contains(n) {
			listed = true
			break
		}
	}
	if f.Mode == Whitelist {
		return listed
	}
	return !listed
}

func (f Filter) normalize(name string) string {
	if f.FoldCase {
		return strings.ToLower(name)
	}
	return name
}
