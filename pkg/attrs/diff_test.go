package attrs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertJSON(t *testing.T, want string, got any) {
	t.Helper()
	data, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, want, string(data))
}

func TestDiff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		origin  Attributes
		current Attributes
		want    string
	}{
		{
			name:    "only changed keys",
			origin:  Attributes{"a": 1, "b": 2, "id": 5},
			current: Attributes{"a": 1, "b": 3, "id": 5},
			want:    `{"b": 3}`,
		},
		{
			name:    "keys missing from origin",
			origin:  Attributes{},
			current: Attributes{"a": 1},
			want:    `{"a": 1}`,
		},
		{
			name:    "nested values compared deeply",
			origin:  Attributes{"meta": map[string]any{"x": []any{1, 2}}},
			current: Attributes{"meta": map[string]any{"x": []any{1, 2}}},
			want:    `{}`,
		},
		{
			name:    "keys only in origin are ignored",
			origin:  Attributes{"a": 1, "gone": true},
			current: Attributes{"a": 2},
			want:    `{"a": 2}`,
		},
		{
			name:    "null is a change",
			origin:  Attributes{"a": 1},
			current: Attributes{"a": nil},
			want:    `{"a": null}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assertJSON(t, tt.want, Diff(tt.origin, tt.current))
		})
	}
}

func TestDiff_SameMapReturnsCurrent(t *testing.T) {
	t.Parallel()

	a := Attributes{"a": 1}
	got := Diff(a, a)
	got["b"] = 2
	assert.Equal(t, 2, a["b"], "identical inputs should return the same map")
}

func TestPatch_IncludesIDAndChanges(t *testing.T) {
	t.Parallel()

	origin := Attributes{"a": 1, "b": 2, "id": 5}
	current := Attributes{"a": 1, "b": 3, "id": 5}

	assertJSON(t, `{"b": 3, "id": 5}`, Patch(origin, current))
}

func TestPatch_WithoutIDAgainstEmptyOrigin(t *testing.T) {
	t.Parallel()

	current := Attributes{"name": "new", "count": 2}
	assertJSON(t, `{"name": "new", "count": 2}`, Patch(Attributes{}, current))
}

func TestPatch_SameMapDoesNotModifyInput(t *testing.T) {
	t.Parallel()

	current := Attributes{"id": 1, "photos_attributes": []any{map[string]any{"id": 1}}}
	_ = Patch(current, current)
	assert.Len(t, current, 2)
}

func TestNestedAttributes_AdditionsThenDeletions(t *testing.T) {
	t.Parallel()

	origin := Attributes{
		"id":     9,
		"photos": []any{map[string]any{"id": 1}, map[string]any{"id": 2}},
	}
	current := Attributes{
		"id":                9,
		"photos_attributes": []any{map[string]any{"id": 2}, map[string]any{"id": 3}},
	}

	got := NestedAttributes(origin, current)
	assertJSON(t, `{"photos_attributes": [{"id": 3}, {"id": 1, "_destroy": 1}]}`, got)

	// Patch always carries the decomposed collection.
	assertJSON(t, `{"id": 9, "photos_attributes": [{"id": 3}, {"id": 1, "_destroy": 1}]}`, Patch(origin, current))
}

func TestNestedAttributes_FallsBackToCurrentAssociation(t *testing.T) {
	t.Parallel()

	current := Attributes{
		"items":            []any{map[string]any{"id": "a"}, map[string]any{"id": "b"}},
		"items_attributes": []any{map[string]any{"id": "b"}, map[string]any{"name": "fresh"}},
	}

	got := NestedAttributes(Attributes{}, current)
	assertJSON(t, `{"items_attributes": [{"name": "fresh"}, {"id": "a", "_destroy": "a"}]}`, got)
}

func TestNestedAttributes_NoOriginalAssociation(t *testing.T) {
	t.Parallel()

	current := Attributes{"tags_attributes": []any{map[string]any{"id": 1}}}
	assertJSON(t, `{"tags_attributes": [{"id": 1}]}`, NestedAttributes(Attributes{}, current))
}

func TestNestedAttributes_NonArrayPassesThrough(t *testing.T) {
	t.Parallel()

	current := Attributes{"profile_attributes": map[string]any{"bio": "hi"}}
	assertJSON(t, `{"profile_attributes": {"bio": "hi"}}`, NestedAttributes(Attributes{}, current))
}

func TestNestedAttributes_UnchangedCollectionIsEmpty(t *testing.T) {
	t.Parallel()

	origin := Attributes{"photos": []any{map[string]any{"id": 1}}}
	current := Attributes{"photos_attributes": []any{map[string]any{"id": 1}}}
	assertJSON(t, `{"photos_attributes": []}`, NestedAttributes(origin, current))
}

func TestNestedAttributes_IgnoresOtherKeys(t *testing.T) {
	t.Parallel()

	current := Attributes{"attributes_count": 3, "name": "x"}
	assert.Empty(t, NestedAttributes(Attributes{}, current))
}

func TestNestedAttributes_TypedSlices(t *testing.T) {
	t.Parallel()

	origin := Attributes{"photos": []Attributes{{"id": 1}}}
	current := Attributes{"photos_attributes": []map[string]any{{"id": 2}}}
	assertJSON(t, `{"photos_attributes": [{"id": 2}, {"id": 1, "_destroy": 1}]}`, NestedAttributes(origin, current))
}
