package store

import (
	"maps"
	"reflect"

	"github.com/mohae/deepcopy"

	"github.com/iboying/activestore/pkg/attrs"
	"github.com/iboying/activestore/pkg/model"
)

// Default pagination values.
const (
	DefaultPerPage     = 15
	DefaultCurrentPage = 1
)

// Entry is a listed record with its 1-based position on the page.
type Entry[T any] struct {
	Index  int `json:"_index"`
	Record T   `json:"record"`
}

// State is the data held by a Store.
type State[T any] struct {
	PerPage     int `json:"per_page"`
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
	TotalCount  int `json:"total_count"`

	Records []Entry[T] `json:"records"`

	// Record is the record loaded by Find. HasRecord is false when it is
	// empty.
	Record    T    `json:"record"`
	HasRecord bool `json:"has_record"`
	// FormData is an editable copy of Record.
	FormData T `json:"form_data"`

	ParentMap map[string]model.Parent `json:"parent_map"`
	Loading   bool                    `json:"loading"`
}

func initialState[T any]() State[T] {
	return State[T]{
		PerPage:     DefaultPerPage,
		CurrentPage: DefaultCurrentPage,
		Records:     []Entry[T]{},
		Record:      emptyRecord[T](),
		FormData:    emptyRecord[T](),
		ParentMap:   map[string]model.Parent{},
	}
}

// emptyRecord is the value of an unloaded record: an empty map for map
// records, so the state encodes it as {} rather than null, and the zero
// value otherwise.
func emptyRecord[T any]() T {
	var zero T
	if t := reflect.TypeFor[T](); t.Kind() == reflect.Map {
		return reflect.MakeMap(t).Interface().(T)
	}
	return zero
}

// List returns the records without their positions.
func (s State[T]) List() []T {
	out := make([]T, len(s.Records))
	for i, e := range s.Records {
		out[i] = e.Record
	}
	return out
}

// clone returns a deep copy that shares nothing with s.
func (s State[T]) clone() State[T] {
	out := s
	out.Records = make([]Entry[T], len(s.Records))
	for i, e := range s.Records {
		out.Records[i] = Entry[T]{Index: e.Index, Record: cloneValue(e.Record)}
	}
	out.Record = cloneValue(s.Record)
	out.FormData = cloneValue(s.FormData)
	out.ParentMap = maps.Clone(s.ParentMap)
	return out
}

func cloneAll[T any](values []T) []T {
	out := make([]T, len(values))
	for i, v := range values {
		out[i] = cloneValue(v)
	}
	return out
}

func cloneValue[T any](v T) T {
	if c, ok := deepcopy.Copy(v).(T); ok {
		return c
	}
	return v
}

func toAttrs[T any](v T) (attrs.Attributes, error) {
	switch x := any(v).(type) {
	case attrs.Attributes:
		return x, nil
	case map[string]any:
		return attrs.Attributes(x), nil
	}
	return attrs.FromValue(v)
}

func fromAttrs[T any](a attrs.Attributes) (T, error) {
	var out T
	switch p := any(&out).(type) {
	case *attrs.Attributes:
		*p = a
		return out, nil
	case *map[string]any:
		*p = a
		return out, nil
	}
	err := attrs.Into(a, &out)
	return out, err
}

func idOf[T any](v T) (attrs.ID, bool) {
	a, err := toAttrs(v)
	if err != nil {
		return "", false
	}
	return a.ID()
}

// sameID reports whether two optional ids identify the same record. Two
// missing ids are equal, matching singleton resources.
func sameID(a attrs.ID, aok bool, b attrs.ID, bok bool) bool {
	return aok == bok && a == b
}
