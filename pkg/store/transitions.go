package store

import (
	"fmt"
	"slices"

	"github.com/iboying/activestore/pkg/attrs"
	"github.com/iboying/activestore/pkg/model"
)

// Transitions take a state and return the next one. They never modify the
// slices or maps of their input.

// page is a decoded index response. Nil pagination fields were absent.
type page[T any] struct {
	records     []T
	currentPage *int
	totalPages  *int
	totalCount  *int
}

func bindModel[T any](st State[T], m *model.Model) State[T] {
	st.ParentMap = m.ParentMap()
	return st
}

func setLoading[T any](st State[T], loading bool) State[T] {
	st.Loading = loading
	return st
}

// withCursor echoes requested pagination into the state. Zero values keep
// the current cursor.
func withCursor[T any](st State[T], pageNum, perPage int) State[T] {
	if pageNum > 0 {
		st.CurrentPage = pageNum
	}
	if perPage > 0 {
		st.PerPage = perPage
	}
	return st
}

func withPagination[T any](st State[T], p page[T]) State[T] {
	if p.currentPage != nil && *p.currentPage > 0 {
		st.CurrentPage = *p.currentPage
	}
	if p.totalPages != nil && *p.totalPages > 0 {
		st.TotalPages = *p.totalPages
	}
	if p.totalCount != nil {
		st.TotalCount = *p.totalCount
	}
	return st
}

// replaceRecords swaps in a new page, numbered from 1.
func replaceRecords[T any](st State[T], p page[T]) State[T] {
	st = withPagination(st, p)
	records := make([]Entry[T], len(p.records))
	for i, r := range p.records {
		records[i] = Entry[T]{Index: i + 1, Record: r}
	}
	st.Records = records
	return st
}

// appendRecords concatenates a page after the current records. On page 1 it
// replaces them instead.
func appendRecords[T any](st State[T], p page[T]) State[T] {
	st = withPagination(st, p)
	if st.CurrentPage == 1 {
		return replaceRecords(st, page[T]{records: p.records})
	}
	records := slices.Grow(slices.Clone(st.Records), len(p.records))
	for _, r := range p.records {
		records = append(records, Entry[T]{Index: len(records) + 1, Record: r})
	}
	st.Records = records
	return st
}

// setRecord loads record as both the record and the form data. The two are
// independent copies.
func setRecord[T any](st State[T], record T) State[T] {
	st.Record = cloneValue(record)
	st.FormData = cloneValue(record)
	st.HasRecord = true
	return st
}

// addRecord appends a created record and counts it.
func addRecord[T any](st State[T], record T) State[T] {
	st.Records = append(slices.Clone(st.Records), Entry[T]{Index: len(st.Records) + 1, Record: record})
	st.TotalCount++
	return st
}

// mergeRecord shallow-merges a copy of form into the listed record and the
// loaded record with the same id. Neither shares values with form.
func mergeRecord[T any](st State[T], form attrs.Attributes) (State[T], error) {
	formID, hasID := form.ID()

	merge := func(v T) (T, bool, error) {
		current, err := toAttrs(v)
		if err != nil {
			return v, false, err
		}
		id, ok := current.ID()
		if !sameID(id, ok, formID, hasID) {
			return v, false, nil
		}
		merged, err := fromAttrs[T](attrs.Merge(current, form.Clone()))
		return merged, true, err
	}

	for i, e := range st.Records {
		merged, ok, err := merge(e.Record)
		if err != nil {
			return st, fmt.Errorf("merge record: %w", err)
		}
		if ok {
			st.Records = slices.Clone(st.Records)
			st.Records[i].Record = merged
			break
		}
	}

	if st.HasRecord {
		merged, ok, err := merge(st.Record)
		if err != nil {
			return st, fmt.Errorf("merge record: %w", err)
		}
		if ok {
			st.Record = merged
		}
	}
	return st, nil
}

// removeRecord drops the listed record with id and uncounts it. The loaded
// record is cleared when it has the same id.
func removeRecord[T any](st State[T], id attrs.ID, hasID bool) State[T] {
	st.TotalCount--
	for i, e := range st.Records {
		rid, ok := idOf(e.Record)
		if sameID(rid, ok, id, hasID) {
			st.Records = slices.Delete(slices.Clone(st.Records), i, i+1)
			break
		}
	}
	if st.HasRecord {
		rid, ok := idOf(st.Record)
		if sameID(rid, ok, id, hasID) {
			st.Record = emptyRecord[T]()
			st.HasRecord = false
		}
	}
	return st
}

// resetState clears the record, form data and loading flag, and empties the
// list back to page 1. PerPage and ParentMap are kept.
func resetState[T any](st State[T]) State[T] {
	st.Record = emptyRecord[T]()
	st.FormData = emptyRecord[T]()
	st.HasRecord = false
	st.Loading = false
	st.CurrentPage = 1
	st.TotalPages = 1
	st.TotalCount = 0
	st.Records = []Entry[T]{}
	return st
}
