package request

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"
)

// EncodeQuery serializes params with bracket notation: slices become
// key[]=v, nested maps become key[sub]=v. Nil values are skipped and keys are
// sorted so the output is stable.
func EncodeQuery(params Params) string {
	if len(params) == 0 {
		return ""
	}
	var parts []string
	for _, key := range sortedKeys(reflect.ValueOf(map[string]any(params))) {
		parts = appendValue(parts, key, params[key])
	}
	return strings.Join(parts, "&")
}

func appendValue(parts []string, key string, value any) []string {
	if value == nil {
		return parts
	}
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return parts
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return append(parts, pair(key, string(rv.Bytes())))
		}
		for i := 0; i < rv.Len(); i++ {
			parts = appendValue(parts, key+"[]", rv.Index(i).Interface())
		}
		return parts
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return append(parts, pair(key, fmt.Sprint(rv.Interface())))
		}
		for _, sub := range sortedKeys(rv) {
			parts = appendValue(parts, key+"["+sub+"]", rv.MapIndex(reflect.ValueOf(sub).Convert(rv.Type().Key())).Interface())
		}
		return parts
	default:
		return append(parts, pair(key, fmt.Sprint(rv.Interface())))
	}
}

func pair(key, value string) string {
	return url.QueryEscape(key) + "=" + url.QueryEscape(value)
}

func sortedKeys(m reflect.Value) []string {
	keys := make([]string, 0, m.Len())
	for _, k := range m.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	return keys
}
