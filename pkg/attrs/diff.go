package attrs

import (
	"reflect"
	"strings"
)

// AttributesSuffix marks keys carrying nested-attribute collections.
const AttributesSuffix = "_attributes"

// DestroyKey flags a nested entry for deletion.
const DestroyKey = "_destroy"

// Diff returns the keys of current whose values differ from origin, or are
// missing from origin. When both maps are the same map, current is returned.
func Diff(origin, current Attributes) Attributes {
	if sameMap(origin, current) {
		return current
	}
	out := make(Attributes)
	for k, v := range current {
		old, ok := origin[k]
		if !ok || !Equal(old, v) {
			out[k] = v
		}
	}
	return out
}

// NestedAttributes computes the replacement value of every "*_attributes"
// key in current. Array values are decomposed against the association of
// the same base name: origin's copy when it has one, current's otherwise.
// Other values are passed through.
func NestedAttributes(origin, current Attributes) Attributes {
	out := make(Attributes)
	for key, value := range current {
		base, ok := strings.CutSuffix(key, AttributesSuffix)
		if !ok {
			continue
		}
		changed, isList := asList(value)
		if !isList {
			out[key] = value
			continue
		}
		source, found := origin[base]
		if !found {
			source = current[base]
		}
		original, _ := asList(source)
		out[key] = decompose(original, changed)
	}
	return out
}

// Patch builds the minimal update payload for current: the changed keys,
// the id when present, and the decomposed nested attributes.
func Patch(origin, current Attributes) Attributes {
	diff := Diff(origin, current)
	out := make(Attributes, len(diff)+1)
	for k, v := range diff {
		out[k] = v
	}
	if id, ok := current[IDKey]; ok && id != nil {
		out[IDKey] = id
	}
	for k, v := range NestedAttributes(origin, current) {
		out[k] = v
	}
	return out
}

// decompose returns additions (entries of changed unknown to original)
// followed by deletions (entries of original missing from changed, marked
// with DestroyKey).
func decompose(original, changed []any) []any {
	originalIDs := idSet(original)
	changedIDs := idSet(changed)

	out := make([]any, 0, len(changed))
	for _, entry := range changed {
		id, ok := entryID(entry)
		if !ok || !originalIDs[id] {
			out = append(out, entry)
		}
	}
	for _, entry := range original {
		id, ok := entryID(entry)
		if !ok || changedIDs[id] {
			continue
		}
		obj, _ := asObject(entry)
		removed := make(Attributes, len(obj)+1)
		for k, v := range obj {
			removed[k] = v
		}
		removed[DestroyKey] = obj[IDKey]
		out = append(out, removed)
	}
	return out
}

func idSet(list []any) map[ID]bool {
	set := make(map[ID]bool, len(list))
	for _, entry := range list {
		if id, ok := entryID(entry); ok {
			set[id] = true
		}
	}
	return set
}

func entryID(entry any) (ID, bool) {
	obj, ok := asObject(entry)
	if !ok {
		return "", false
	}
	return obj.ID()
}

func asObject(v any) (Attributes, bool) {
	switch x := v.(type) {
	case Attributes:
		return x, true
	case map[string]any:
		return Attributes(x), true
	default:
		return nil, false
	}
}

func asList(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []Attributes:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = e
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = e
		}
		return out, true
	default:
		return nil, false
	}
}

func sameMap(a, b Attributes) bool {
	if a == nil || b == nil {
		return false
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}
