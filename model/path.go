package model

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Path addresses an item by the tag/row steps leading to it from the root
// item of a model. Unlike item pointers, paths remain meaningful after the
// addressed item has been destroyed and rebuilt.
type Path []TagRow

// Append returns a new path extended by one step.
func (p Path) Append(tag string, row int) Path {
	result := make(Path, len(p), len(p)+1)
	copy(result, p)
	return append(result, TagRow{Tag: tag, Row: row})
}

func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// String renders "tag:row/tag:row"; the empty path is "".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, step := range p {
		parts[i] = url.PathEscape(step.Tag) + ":" + strconv.Itoa(step.Row)
	}
	return strings.Join(parts, "/")
}

// ParsePath is the inverse of Path.String.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return Path{}, nil
	}
	parts := strings.Split(s, "/")
	result := make(Path, 0, len(parts))
	for _, part := range parts {
		sep := strings.LastIndex(part, ":")
		if sep < 0 {
			return nil, fmt.Errorf("step %q: %w", part, ErrInvalidPath)
		}
		tag, err := url.PathUnescape(part[:sep])
		if err != nil {
			return nil, fmt.Errorf("step %q: %w", part, ErrInvalidPath)
		}
		row, err := strconv.Atoi(part[sep+1:])
		if err != nil || row < 0 {
			return nil, fmt.Errorf("step %q: %w", part, ErrInvalidPath)
		}
		result = append(result, TagRow{Tag: tag, Row: row})
	}
	return result, nil
}
