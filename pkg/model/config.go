package model

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/iboying/activestore/pkg/request"
)

// Mode selects how member and collection paths are built.
type Mode string

// Routing modes.
const (
	// ModeDefault nests every route under the parents.
	ModeDefault Mode = "default"
	// ModeShallow drops parent nesting from member routes with integer ids.
	ModeShallow Mode = "shallow"
	// ModeSingle treats the resource as a singleton addressed by its name.
	ModeSingle Mode = "single"
)

// Target says whether an action applies to one record or the collection.
type Target string

// Action targets.
const (
	OnMember     Target = "member"
	OnCollection Target = "collection"
)

// Parent is an ancestor resource contributing a /type/id path segment.
type Parent struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Action is a custom route bound to one HTTP method.
type Action struct {
	Name   string `json:"name"`
	Method string `json:"method"`
	On     Target `json:"on"`
}

// Config configures a Model. Zero values select the documented defaults.
type Config struct {
	// BaseURL is the API address used by the default request client.
	BaseURL string
	// RootPath is appended to BaseURL, e.g. "/v2".
	RootPath string
	// Namespace prefixes every route, e.g. "/auth". Default: "".
	Namespace string
	// Name is the singular resource name and the JSON envelope key for
	// create and update. Default: the blueprint type name. Always snake_cased.
	Name string
	// DataIndexKey locates records in list responses. Default: plural of Name.
	DataIndexKey string
	// PathIndexKey is the collection URL segment. Default: plural of Name.
	PathIndexKey string
	// Parents nest the resource, outermost first. Default: none.
	Parents []Parent
	// Actions declares custom routes. Default: none.
	Actions []Action
	// Mode selects the routing mode. Default: ModeDefault.
	Mode Mode
	// Params are default query parameters for index. Default: none.
	Params request.Params
}

// overlay returns base with every non-zero field of over applied.
func overlay(base, over Config) Config {
	out := base
	if over.BaseURL != "" {
		out.BaseURL = over.BaseURL
	}
	if over.RootPath != "" {
		out.RootPath = over.RootPath
	}
	if over.Namespace != "" {
		out.Namespace = over.Namespace
	}
	if over.Name != "" {
		out.Name = over.Name
	}
	if over.DataIndexKey != "" {
		out.DataIndexKey = over.DataIndexKey
	}
	if over.PathIndexKey != "" {
		out.PathIndexKey = over.PathIndexKey
	}
	if over.Parents != nil {
		out.Parents = over.Parents
	}
	if over.Actions != nil {
		out.Actions = over.Actions
	}
	if over.Mode != "" {
		out.Mode = over.Mode
	}
	if over.Params != nil {
		out.Params = over.Params
	}
	return out
}

var allowedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPatch:  true,
	http.MethodPut:    true,
	http.MethodDelete: true,
}

// normalize fills defaults and validates c. typeName is used when Name is
// empty.
func (c Config) normalize(typeName string) (Config, error) {
	name := c.Name
	if name == "" {
		name = typeName
	}
	if name == "" {
		return c, &ConfigError{Field: "name", Message: "required when the model has no type name"}
	}
	c.Name = SnakeCase(name)
	if c.DataIndexKey == "" {
		c.DataIndexKey = Plural(c.Name)
	}
	if c.PathIndexKey == "" {
		c.PathIndexKey = Plural(c.Name)
	}

	switch c.Mode {
	case "":
		c.Mode = ModeDefault
	case ModeDefault, ModeShallow, ModeSingle:
	default:
		return c, &ConfigError{Field: "mode", Message: fmt.Sprintf("unknown mode %q", c.Mode)}
	}

	if c.Namespace != "" && !strings.HasPrefix(c.Namespace, "/") {
		c.Namespace = "/" + c.Namespace
	}
	c.Namespace = strings.TrimRight(c.Namespace, "/")

	parents := make([]Parent, len(c.Parents))
	for i, p := range c.Parents {
		if p.Type == "" || p.ID == "" {
			return c, &ConfigError{Field: fmt.Sprintf("parents[%d]", i), Message: "type and id are required"}
		}
		parents[i] = p
	}
	c.Parents = parents

	seen := map[Target]map[string]bool{OnMember: {}, OnCollection: {}}
	actions := make([]Action, len(c.Actions))
	for i, a := range c.Actions {
		field := fmt.Sprintf("actions[%d]", i)
		if a.Name == "" {
			return c, &ConfigError{Field: field, Message: "name is required"}
		}
		a.Method = strings.ToUpper(a.Method)
		if !allowedMethods[a.Method] {
			return c, &ConfigError{Field: field, Message: fmt.Sprintf("unsupported method %q", a.Method)}
		}
		names, ok := seen[a.On]
		if !ok {
			return c, &ConfigError{Field: field, Message: fmt.Sprintf("unknown target %q", a.On)}
		}
		if names[a.Name] {
			return c, &ConfigError{Field: field, Message: fmt.Sprintf("duplicate %s action %q", a.On, a.Name)}
		}
		names[a.Name] = true
		actions[i] = a
	}
	c.Actions = actions

	return c, nil
}
