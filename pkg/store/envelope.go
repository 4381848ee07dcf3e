package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Pagination keys of an index response.
const (
	keyCurrentPage = "current_page"
	keyTotalPages  = "total_pages"
	keyTotalCount  = "total_count"
)

var envelopeSchemas sync.Map // data index key -> *jsonschema.Schema

// envelopeSchema returns the compiled schema for index responses keyed by
// dataKey.
func envelopeSchema(dataKey string) (*jsonschema.Schema, error) {
	if cached, ok := envelopeSchemas.Load(dataKey); ok {
		return cached.(*jsonschema.Schema), nil
	}

	optionalInt := func(minimum int) map[string]any {
		return map[string]any{"type": []string{"integer", "null"}, "minimum": minimum}
	}
	schemaData := map[string]any{
		"type":     "object",
		"required": []string{dataKey},
		"properties": map[string]any{
			dataKey:        map[string]any{"type": "array"},
			keyCurrentPage: optionalInt(0),
			keyTotalPages:  optionalInt(0),
			keyTotalCount:  optionalInt(0),
		},
	}
	schemaBytes, err := json.Marshal(schemaData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("envelope.json", strings.NewReader(string(schemaBytes))); err != nil {
		return nil, fmt.Errorf("failed to add envelope schema: %w", err)
	}
	schema, err := compiler.Compile("envelope.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile envelope schema: %w", err)
	}

	actual, _ := envelopeSchemas.LoadOrStore(dataKey, schema)
	return actual.(*jsonschema.Schema), nil
}

// decodePage validates body against the envelope schema for dataKey and
// decodes its records and pagination.
func decodePage[T any](dataKey string, body []byte) (page[T], error) {
	var p page[T]

	schema, err := envelopeSchema(dataKey)
	if err != nil {
		return p, &EnvelopeError{Key: dataKey, Err: err}
	}
	var doc any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return p, &EnvelopeError{Key: dataKey, Err: fmt.Errorf("decode envelope: %w", err)}
	}
	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return p, &EnvelopeError{Key: dataKey, Err: errors.New(leafMessage(ve))}
		}
		return p, &EnvelopeError{Key: dataKey, Err: err}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return p, &EnvelopeError{Key: dataKey, Err: err}
	}

	dec := json.NewDecoder(bytes.NewReader(raw[dataKey]))
	dec.UseNumber()
	if err := dec.Decode(&p.records); err != nil {
		return p, &EnvelopeError{Key: dataKey, Err: fmt.Errorf("decode records: %w", err)}
	}
	for field, dst := range map[string]**int{
		keyCurrentPage: &p.currentPage,
		keyTotalPages:  &p.totalPages,
		keyTotalCount:  &p.totalCount,
	} {
		data, ok := raw[field]
		if !ok {
			continue
		}
		if err := json.Unmarshal(data, dst); err != nil {
			return p, &EnvelopeError{Key: dataKey, Err: fmt.Errorf("decode %s: %w", field, err)}
		}
	}
	return p, nil
}

// leafMessage reports the first innermost cause with its location.
func leafMessage(err *jsonschema.ValidationError) string {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	if err.InstanceLocation == "" {
		return err.Message
	}
	return err.InstanceLocation + ": " + err.Message
}
