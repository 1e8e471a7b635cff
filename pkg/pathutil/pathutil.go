// Package pathutil reads and writes values at dotted paths inside nested
// map/slice graphs, e.g. "aboutContent.bio" or "gallery.items[2].caption".
// A segment may carry one trailing bracketed non-negative index.
package pathutil

import (
	"fmt"
	"strconv"
	"strings"
)

type segment struct {
	key     string
	index   int
	indexed bool
}

// ErrBadPath is returned for syntactically invalid paths.
type ErrBadPath struct {
	Path   string
	Reason string
}

func (e *ErrBadPath) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
}

// ErrWrongShape is returned by Set when an existing intermediate value is not
// a container of the kind the path requires. Callers treat this as a
// validation failure rather than overwriting stored data.
type ErrWrongShape struct {
	Path    string
	Segment string
}

func (e *ErrWrongShape) Error() string {
	return fmt.Sprintf("path %q: segment %q exists but is not a container of the required kind", e.Path, e.Segment)
}

func parse(path string) ([]segment, error) {
	if path == "" {
		return nil, &ErrBadPath{Path: path, Reason: "empty"}
	}

	parts := strings.Split(path, ".")
	segs := make([]segment, 0, len(parts))

	for _, part := range parts {
		if part == "" {
			return nil, &ErrBadPath{Path: path, Reason: "empty segment"}
		}

		seg := segment{key: part}
		if open := strings.IndexByte(part, '['); open >= 0 {
			if !strings.HasSuffix(part, "]") || open == 0 {
				return nil, &ErrBadPath{Path: path, Reason: "malformed index"}
			}
			idx, err := strconv.Atoi(part[open+1 : len(part)-1])
			if err != nil || idx < 0 {
				return nil, &ErrBadPath{Path: path, Reason: "index must be a non-negative integer"}
			}
			seg.key = part[:open]
			seg.index = idx
			seg.indexed = true
		}
		segs = append(segs, seg)
	}

	return segs, nil
}

// HasIndex reports whether the path contains a bracketed index segment.
// The patch API rejects such paths outright.
func HasIndex(path string) bool {
	segs, err := parse(path)
	if err != nil {
		return strings.Contains(path, "[")
	}
	for _, s := range segs {
		if s.indexed {
			return true
		}
	}
	return false
}

// Valid reports whether path parses.
func Valid(path string) bool {
	_, err := parse(path)
	return err == nil
}

// Get resolves path against root. The second return is false when any
// segment along the way is missing; a missing value is not an error.
func Get(root map[string]any, path string) (any, bool) {
	segs, err := parse(path)
	if err != nil {
		return nil, false
	}

	var cur any = root
	for _, seg := range segs {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[seg.key]
		if !ok {
			return nil, false
		}
		if seg.indexed {
			arr, ok := cur.([]any)
			if !ok || seg.index >= len(arr) {
				return nil, false
			}
			cur = arr[seg.index]
		}
	}

	return cur, true
}

// GetString resolves path and stringifies the result. Missing values and
// nils become the empty string.
func GetString(root map[string]any, path string) string {
	v, ok := Get(root, path)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Set writes value at path inside root, creating intermediate containers as
// needed: a slice when the next hop is indexed, a map otherwise. Indexed
// segments grow the slice with nils up to the index. An existing
// intermediate of the wrong shape yields ErrWrongShape.
func Set(root map[string]any, path string, value any) error {
	segs, err := parse(path)
	if err != nil {
		return err
	}

	obj := root
	for i, seg := range segs {
		last := i == len(segs)-1

		if !seg.indexed {
			if last {
				obj[seg.key] = value
				return nil
			}
			next, exists := obj[seg.key]
			if !exists || next == nil {
				child := map[string]any{}
				obj[seg.key] = child
				obj = child
				continue
			}
			child, ok := next.(map[string]any)
			if !ok {
				return &ErrWrongShape{Path: path, Segment: seg.key}
			}
			obj = child
			continue
		}

		arr, err := sliceAt(obj, seg, path)
		if err != nil {
			return err
		}
		if seg.index >= len(arr) {
			grown := make([]any, seg.index+1)
			copy(grown, arr)
			arr = grown
		}
		obj[seg.key] = arr

		if last {
			arr[seg.index] = value
			return nil
		}

		elem := arr[seg.index]
		if elem == nil {
			child := map[string]any{}
			arr[seg.index] = child
			obj = child
			continue
		}
		child, ok := elem.(map[string]any)
		if !ok {
			return &ErrWrongShape{Path: path, Segment: seg.key}
		}
		obj = child
	}

	return nil
}

func sliceAt(obj map[string]any, seg segment, path string) ([]any, error) {
	cur, exists := obj[seg.key]
	if !exists || cur == nil {
		return []any{}, nil
	}
	arr, ok := cur.([]any)
	if !ok {
		return nil, &ErrWrongShape{Path: path, Segment: seg.key}
	}
	return arr, nil
}
