package model

import (
	"sync"

	"github.com/gertd/go-pluralize"
	"github.com/iancoleman/strcase"
)

var (
	pluralizer     *pluralize.Client
	pluralizerOnce sync.Once
)

// SnakeCase converts a type or resource name to snake_case.
func SnakeCase(s string) string {
	return strcase.ToSnake(s)
}

// Plural returns the plural form of a snake_case name. Only the last word is
// inflected.
func Plural(name string) string {
	pluralizerOnce.Do(func() {
		pluralizer = pluralize.NewClient()
	})
	head, last := splitLast(name)
	return head + pluralizer.Plural(last)
}

func splitLast(name string) (string, string) {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '_' {
			return name[:i+1], name[i+1:]
		}
	}
	return "", name
}
