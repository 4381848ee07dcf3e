package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iboying/activestore/pkg/attrs"
)

func TestDecodePage(t *testing.T) {
	t.Parallel()

	p, err := decodePage[attrs.Attributes]("widgets",
		[]byte(`{"widgets":[{"id":1},{"id":2}],"current_page":2,"total_pages":3,"total_count":0}`))
	require.NoError(t, err)
	require.Len(t, p.records, 2)
	id, _ := p.records[1].ID()
	assert.Equal(t, attrs.ID("2"), id)
	require.NotNil(t, p.currentPage)
	assert.Equal(t, 2, *p.currentPage)
	assert.Equal(t, 3, *p.totalPages)
	require.NotNil(t, p.totalCount)
	assert.Equal(t, 0, *p.totalCount)
}

func TestDecodePage_OptionalPagination(t *testing.T) {
	t.Parallel()

	p, err := decodePage[attrs.Attributes]("widgets", []byte(`{"widgets":[],"total_pages":null}`))
	require.NoError(t, err)
	assert.Empty(t, p.records)
	assert.Nil(t, p.currentPage)
	assert.Nil(t, p.totalPages)
	assert.Nil(t, p.totalCount)
}

func TestDecodePage_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"missing key", `{"items":[],"current_page":1}`},
		{"records not an array", `{"widgets":{"id":1}}`},
		{"records null", `{"widgets":null}`},
		{"fractional page", `{"widgets":[],"current_page":1.5}`},
		{"string count", `{"widgets":[],"total_count":"3"}`},
		{"negative count", `{"widgets":[],"total_count":-1}`},
		{"not an object", `[{"id":1}]`},
		{"not json", `<html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodePage[attrs.Attributes]("widgets", []byte(tt.body))
			var ee *EnvelopeError
			require.True(t, errors.As(err, &ee), "got %v", err)
			assert.Equal(t, "widgets", ee.Key)
		})
	}
}

func TestDecodePage_LargeNumbers(t *testing.T) {
	t.Parallel()

	p, err := decodePage[attrs.Attributes]("widgets",
		[]byte(`{"widgets":[{"id":9007199254740993}],"total_count":9007199254740993}`))
	require.NoError(t, err)
	id, ok := p.records[0].ID()
	require.True(t, ok)
	assert.Equal(t, attrs.ID("9007199254740993"), id)
	require.NotNil(t, p.totalCount)
	assert.Equal(t, 9007199254740993, *p.totalCount)
}

func TestDecodePage_TypedRecords(t *testing.T) {
	t.Parallel()

	type widget struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	p, err := decodePage[widget]("widgets", []byte(`{"widgets":[{"id":1,"name":"a"}]}`))
	require.NoError(t, err)
	assert.Equal(t, []widget{{ID: 1, Name: "a"}}, p.records)

	_, err = decodePage[widget]("widgets", []byte(`{"widgets":[{"id":"x"}]}`))
	var ee *EnvelopeError
	assert.ErrorAs(t, err, &ee)
}

func TestEnvelopeSchema_Cached(t *testing.T) {
	t.Parallel()

	a, err := envelopeSchema("cached_things")
	require.NoError(t, err)
	b, err := envelopeSchema("cached_things")
	require.NoError(t, err)
	assert.Same(t, a, b)
}
