package models

import (
	"sort"

	"github.com/iboying/activestore/pkg/model"
)

// Example is a resource nested under project 1 with a collection action
// named "action".
var Example = model.Define("Example", model.Config{
	Namespace: "/namespace/role",
	Parents:   []model.Parent{{Type: "projects", ID: "1"}},
	Actions:   []model.Action{{Name: "action", Method: "post", On: model.OnCollection}},
})

// Session is the authentication session under /auth.
var Session = model.Define("Session", model.Config{
	Namespace: "/auth",
	Name:      "session",
})

// ExampleRecord is the shape of an Example record.
type ExampleRecord struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// SessionRecord is the shape of a session.
type SessionRecord struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

var registry = map[string]model.Blueprint{
	Example.Type: Example,
	Session.Type: Session,
}

// Lookup returns the built-in blueprint with the given type name.
func Lookup(typeName string) (model.Blueprint, bool) {
	b, ok := registry[typeName]
	return b, ok
}

// Types returns the built-in blueprint type names, sorted.
func Types() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
