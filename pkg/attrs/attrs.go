package attrs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/mohae/deepcopy"
)

// IDKey is the attribute holding a record's identifier.
const IDKey = "id"

// Attributes is a decoded JSON object. Numbers decoded by this package are
// json.Number values so large identifiers survive a round trip.
type Attributes map[string]any

// ID identifies a record. Numeric identifiers are kept in decimal form so
// that 5, 5.0 and "5" all compare equal.
type ID string

// String returns the identifier as a path segment.
func (id ID) String() string { return string(id) }

// IsInteger reports whether the identifier is syntactically an integer.
func (id ID) IsInteger() bool {
	if id == "" {
		return false
	}
	_, err := strconv.ParseInt(string(id), 10, 64)
	return err == nil
}

// IDOf converts a raw identifier value into an ID. It reports false for nil,
// empty strings and values that cannot identify a record.
func IDOf(v any) (ID, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case ID:
		return x, x != ""
	case string:
		return ID(x), x != ""
	case json.Number:
		return ID(x.String()), x != ""
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "", false
		}
		return ID(strconv.FormatFloat(x, 'f', -1, 64)), true
	case float32:
		return IDOf(float64(x))
	case int:
		return ID(strconv.Itoa(x)), true
	case int32:
		return ID(strconv.FormatInt(int64(x), 10)), true
	case int64:
		return ID(strconv.FormatInt(x, 10)), true
	case uint:
		return ID(strconv.FormatUint(uint64(x), 10)), true
	case uint32:
		return ID(strconv.FormatUint(uint64(x), 10)), true
	case uint64:
		return ID(strconv.FormatUint(x, 10)), true
	default:
		return "", false
	}
}

// ID returns the record identifier stored under "id".
func (a Attributes) ID() (ID, bool) {
	if a == nil {
		return "", false
	}
	return IDOf(a[IDKey])
}

// Clone returns a deep copy of a.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	return deepcopy.Copy(a).(Attributes)
}

// ErrNotObject is returned when a value does not encode to a JSON object.
var ErrNotObject = errors.New("value is not a JSON object")

// FromValue converts any JSON-encodable value into Attributes.
func FromValue(v any) (Attributes, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode attributes: %w", err)
	}
	return Parse(data)
}

// Parse decodes a JSON object.
func Parse(data []byte) (Attributes, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out Attributes
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode attributes: %w", err)
	}
	if out == nil {
		return nil, ErrNotObject
	}
	return out, nil
}

// Into decodes a into out, which must be a pointer.
func Into(a Attributes, out any) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode attributes: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode attributes: %w", err)
	}
	return nil
}

// Equal reports whether two values are deeply equal once encoded as JSON.
// Map key order and numeric representation do not matter.
func Equal(a, b any) bool {
	ab, errA := json.Marshal(a)
	bb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return reflect.DeepEqual(a, b)
	}
	return bytes.Equal(ab, bb)
}

// Merge returns a new map holding dst's keys overwritten by src's keys.
// Nested values are shared, not merged.
func Merge(dst, src Attributes) Attributes {
	out := make(Attributes, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		out[k] = v
	}
	return out
}
