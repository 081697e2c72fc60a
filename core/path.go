package core

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizePath trims surrounding whitespace and strips leading and trailing
// slash runs. Segments may hold any character except '/'. The result is the
// canonical identity of a location: two paths address the same node iff
// their normalized forms are equal. Normalizing an already normalized path
// is a no-op.
func NormalizePath(path string) (string, error) {
	if !utf8.ValidString(path) {
		return "", &PathError{Path: path, Reason: "not valid UTF-8", Err: ErrInvalidPath}
	}

	p := strings.TrimFunc(path, isEdge)
	if p == "" {
		return "", &PathError{Path: path, Err: ErrEmptyPath}
	}

	for _, seg := range strings.Split(p, "/") {
		if seg == "" {
			return "", &PathError{Path: path, Reason: "empty segment", Err: ErrInvalidPath}
		}
	}

	return p, nil
}

func isEdge(r rune) bool { return r == '/' || unicode.IsSpace(r) }

// ValidateKey reports whether key is usable as a single path segment, the
// constraint every mapping key stored in the tree must satisfy: it must be
// non-empty valid UTF-8 without '/'.
func ValidateKey(key string) error {
	if key == "" {
		return &PathError{Path: key, Err: ErrEmptyPath}
	}
	if !utf8.ValidString(key) {
		return &PathError{Path: key, Reason: "not valid UTF-8", Err: ErrInvalidPath}
	}
	if strings.Contains(key, "/") {
		return &PathError{Path: key, Reason: "key contains '/'", Err: ErrInvalidPath}
	}
	return nil
}

// JoinPath normalizes rel and appends it to the already normalized base.
func JoinPath(base, rel string) (string, error) {
	r, err := NormalizePath(rel)
	if err != nil {
		return "", err
	}
	if base == "" {
		return r, nil
	}
	return base + "/" + r, nil
}

// ParentPath returns the path one segment up, or "" for a root path.
func ParentPath(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return ""
	}
	return path[:i]
}

// RootPath returns the first segment of path.
func RootPath(path string) string {
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return path
}

// LastSegment returns the final segment of path.
func LastSegment(path string) string {
	return path[strings.LastIndexByte(path, '/')+1:]
}

// Segments splits a normalized path into its segments.
func Segments(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// IsDescendant reports whether path lies strictly below ancestor.
func IsDescendant(path, ancestor string) bool {
	return len(path) > len(ancestor) && strings.HasPrefix(path, ancestor) && path[len(ancestor)] == '/'
}
