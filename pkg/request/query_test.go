package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params Params
		want   string
	}{
		{"empty", nil, ""},
		{"scalars sorted", Params{"page": 1, "per_page": 15}, "page=1&per_page=15"},
		{"nil skipped", Params{"a": nil, "b": "x"}, "b=x"},
		{"brackets for arrays", Params{"ids": []any{1, 2}}, "ids%5B%5D=1&ids%5B%5D=2"},
		{"nil inside arrays skipped", Params{"ids": []any{1, nil}}, "ids%5B%5D=1"},
		{"nested maps", Params{"q": map[string]any{"name_eq": "x", "state": []string{"a"}}}, "q%5Bname_eq%5D=x&q%5Bstate%5D%5B%5D=a"},
		{"bool", Params{"flag": true}, "flag=true"},
		{"escaping", Params{"name": "a b&c"}, "name=a+b%26c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, EncodeQuery(tt.params))
		})
	}
}
