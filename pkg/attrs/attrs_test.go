package attrs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  any
		want   ID
		wantOK bool
	}{
		{"int", 42, "42", true},
		{"int64", int64(7), "7", true},
		{"integral float", float64(5), "5", true},
		{"fractional float", 1.5, "1.5", true},
		{"json number", json.Number("12345678901234567890"), "12345678901234567890", true},
		{"string", "abc", "abc", true},
		{"empty string", "", "", false},
		{"nil", nil, "", false},
		{"bool", true, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := IDOf(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestID_IsInteger(t *testing.T) {
	t.Parallel()

	assert.True(t, ID("42").IsInteger())
	assert.True(t, ID("-3").IsInteger())
	assert.False(t, ID("abc").IsInteger())
	assert.False(t, ID("4.2").IsInteger())
	assert.False(t, ID("").IsInteger())
}

func TestParse_KeepsNumbers(t *testing.T) {
	t.Parallel()

	a, err := Parse([]byte(`{"id": 12345678901234567890, "name": "x"}`))
	require.NoError(t, err)

	id, ok := a.ID()
	require.True(t, ok)
	assert.Equal(t, ID("12345678901234567890"), id)
}

func TestParse_RejectsNonObject(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`null`))
	assert.ErrorIs(t, err, ErrNotObject)

	_, err = Parse([]byte(`[1,2]`))
	assert.Error(t, err)
}

func TestFromValueAndInto(t *testing.T) {
	t.Parallel()

	type photo struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}

	a, err := FromValue(photo{ID: 3, Name: "cat"})
	require.NoError(t, err)
	assert.Equal(t, json.Number("3"), a["id"])

	var back photo
	require.NoError(t, Into(a, &back))
	assert.Equal(t, photo{ID: 3, Name: "cat"}, back)
}

func TestClone_IsIndependent(t *testing.T) {
	t.Parallel()

	orig := Attributes{
		"id":     1,
		"tags":   []any{"a", "b"},
		"author": map[string]any{"name": "ann"},
	}
	cp := orig.Clone()

	cp["tags"].([]any)[0] = "changed"
	cp["author"].(map[string]any)["name"] = "bob"

	assert.Equal(t, "a", orig["tags"].([]any)[0])
	assert.Equal(t, "ann", orig["author"].(map[string]any)["name"])
	assert.Nil(t, Attributes(nil).Clone())
}

func TestEqual(t *testing.T) {
	t.Parallel()

	assert.True(t, Equal(5, json.Number("5")))
	assert.True(t, Equal(map[string]any{"a": 1, "b": 2}, Attributes{"b": 2, "a": 1}))
	assert.False(t, Equal([]any{1, 2}, []any{2, 1}))
	assert.False(t, Equal("5", 5))
}

func TestMerge(t *testing.T) {
	t.Parallel()

	dst := Attributes{"id": 1, "name": "old", "keep": true}
	src := Attributes{"name": "new"}
	got := Merge(dst, src)

	assert.Equal(t, Attributes{"id": 1, "name": "new", "keep": true}, got)
	assert.Equal(t, "old", dst["name"], "Merge must not modify dst")
}
