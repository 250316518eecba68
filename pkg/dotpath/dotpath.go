// Package dotpath implements dot-separated path addressing over nested
// map[string]any documents. Paths look like "post.title" or
// "taxonomy.categories.0.slug"; numeric segments index into []any slices.
package dotpath

import (
	"reflect"
	"strconv"
	"strings"
)

func segments(path string) []string {
	if path == "" {
		return nil
	}

	return strings.Split(path, ".")
}

// Get returns the value at path. The second return is false when any
// segment of the path does not resolve.
func Get(doc map[string]any, path string) (any, bool) {
	segs := segments(path)
	if len(segs) == 0 {
		return nil, false
	}

	var current any = doc

	for _, seg := range segs {
		switch node := current.(type) {
		case map[string]any:
			value, ok := node[seg]
			if !ok {
				return nil, false
			}

			current = value
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}

			current = node[idx]
		default:
			return nil, false
		}
	}

	return current, true
}

// Has reports whether every segment of path resolves to an existing key.
// The value itself may be nil.
func Has(doc map[string]any, path string) bool {
	_, ok := Get(doc, path)
	if ok {
		return true
	}

	// Get cannot distinguish "key absent" from "key present with nil value"
	// on the last segment, so resolve the parent explicitly.
	segs := segments(path)
	if len(segs) == 0 {
		return false
	}

	parent, last, ok := resolveParent(doc, segs)
	if !ok {
		return false
	}

	switch node := parent.(type) {
	case map[string]any:
		_, exists := node[last]

		return exists
	case []any:
		idx, err := strconv.Atoi(last)

		return err == nil && idx >= 0 && idx < len(node)
	default:
		return false
	}
}

// Set assigns value at path, creating intermediate maps as needed. An
// existing non-container value along the path is never overwritten by an
// intermediate container; in that case the write is rejected and Set
// returns false.
func Set(doc map[string]any, path string, value any) bool {
	segs := segments(path)
	if len(segs) == 0 {
		return false
	}

	var current any = doc

	for _, seg := range segs[:len(segs)-1] {
		switch node := current.(type) {
		case map[string]any:
			next, exists := node[seg]
			if !exists || next == nil {
				created := map[string]any{}
				node[seg] = created
				current = created

				continue
			}

			switch next.(type) {
			case map[string]any, []any:
				current = next
			default:
				return false
			}
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return false
			}

			switch node[idx].(type) {
			case map[string]any, []any:
				current = node[idx]
			default:
				return false
			}
		default:
			return false
		}
	}

	last := segs[len(segs)-1]

	switch node := current.(type) {
	case map[string]any:
		node[last] = value
	case []any:
		idx, err := strconv.Atoi(last)
		if err != nil || idx < 0 || idx >= len(node) {
			return false
		}

		node[idx] = value
	default:
		return false
	}

	return true
}

// Delete removes the leaf key at path. Paths that do not fully resolve are
// a no-op.
func Delete(doc map[string]any, path string) {
	segs := segments(path)
	if len(segs) == 0 {
		return
	}

	parent, last, ok := resolveParent(doc, segs)
	if !ok {
		return
	}

	if node, isMap := parent.(map[string]any); isMap {
		delete(node, last)
	}
}

func resolveParent(doc map[string]any, segs []string) (any, string, bool) {
	if len(segs) == 1 {
		return doc, segs[0], true
	}

	parent, ok := Get(doc, strings.Join(segs[:len(segs)-1], "."))
	if !ok {
		return nil, "", false
	}

	return parent, segs[len(segs)-1], true
}

// Clone returns a deep copy of doc. Maps and slices are copied
// recursively; scalar values are shared.
func Clone(doc map[string]any) map[string]any {
	cloned := make(map[string]any, len(doc))
	for key, value := range doc {
		cloned[key] = cloneValue(value)
	}

	return cloned
}

func cloneValue(value any) any {
	switch node := value.(type) {
	case map[string]any:
		return Clone(node)
	case []any:
		copied := make([]any, len(node))
		for i, item := range node {
			copied[i] = cloneValue(item)
		}

		return copied
	default:
		return value
	}
}

// Merge recursively merges src into dst. Nested maps are merged key by
// key; any other value in src replaces the value in dst.
func Merge(dst, src map[string]any) {
	for key, value := range src {
		srcMap, srcIsMap := value.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)

		if srcIsMap && dstIsMap {
			Merge(dstMap, srcMap)

			continue
		}

		dst[key] = cloneValue(value)
	}
}

// Diff returns the structural difference between current and original. A
// key appears in the result when it is absent from original, when both
// values are maps whose recursive diff is non-empty, or when the values
// differ. Keys whose subtree is unchanged are omitted entirely.
func Diff(current, original map[string]any) map[string]any {
	changes := map[string]any{}

	for key, value := range current {
		originalValue, exists := original[key]
		if !exists {
			changes[key] = value

			continue
		}

		currentMap, currentIsMap := value.(map[string]any)
		originalMap, originalIsMap := originalValue.(map[string]any)

		if currentIsMap && originalIsMap {
			if nested := Diff(currentMap, originalMap); len(nested) > 0 {
				changes[key] = nested
			}

			continue
		}

		if !reflect.DeepEqual(value, originalValue) {
			changes[key] = value
		}
	}

	return changes
}
