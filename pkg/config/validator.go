package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/iboying/activestore/pkg/logging"
	"github.com/iboying/activestore/pkg/model"
	"github.com/iboying/activestore/pkg/persist"
)

var validBackends = map[string]bool{
	persist.KindMemory: true,
	persist.KindFile:   true,
	persist.KindSQLite: true,
}

var validModes = map[string]bool{
	"":                        true,
	string(model.ModeDefault): true,
	string(model.ModeShallow): true,
	string(model.ModeSingle):  true,
}

// Validate checks the configuration and returns the first problem as *Error.
// Model declarations are checked in name order.
func (c *Config) Validate() error {
	if c.API.URL != "" {
		u, err := url.Parse(c.API.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return c.fieldError("api.url", fmt.Sprintf("must be an absolute URL, got %q", c.API.URL))
		}
	}
	if c.API.Timeout < 0 {
		return c.fieldError("api.timeout", "must not be negative")
	}

	backend := strings.ToLower(c.Storage.Backend)
	if !validBackends[backend] {
		return c.fieldError("storage.backend", fmt.Sprintf("unknown backend %q", c.Storage.Backend))
	}
	if backend == persist.KindFile && c.Storage.Path == "" {
		return c.fieldError("storage.path", "required for file storage")
	}
	if c.Storage.Key == "" {
		return c.fieldError("storage.key", "must not be empty")
	}

	if _, ok := logging.LookupLevel(c.Log.Level); !ok {
		return c.fieldError("log.level", fmt.Sprintf("unknown level %q", c.Log.Level))
	}
	if _, ok := logging.LookupFormat(c.Log.Format); !ok {
		return c.fieldError("log.format", fmt.Sprintf("unknown format %q", c.Log.Format))
	}

	for _, name := range c.ModelNames() {
		if err := c.validateModel(name, c.Models[name]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateModel(name string, d *ModelDecl) error {
	field := "models." + name
	if d == nil {
		return c.fieldError(field, "empty declaration")
	}
	if !validModes[d.Mode] {
		return c.fieldError(field+".mode", fmt.Sprintf("unknown mode %q", d.Mode))
	}
	for i, p := range d.Parents {
		if p.Type == "" {
			return c.fieldError(fmt.Sprintf("%s.parents[%d].type", field, i), "required")
		}
		if p.ID == nil {
			return c.fieldError(fmt.Sprintf("%s.parents[%d].id", field, i), "required")
		}
	}
	for i, a := range d.Actions {
		if a.On != string(model.OnMember) && a.On != string(model.OnCollection) {
			return c.fieldError(fmt.Sprintf("%s.actions[%d].on", field, i), "must be member or collection")
		}
	}
	if _, err := d.ModelConfig(); err != nil {
		return c.fieldError(field, err.Error())
	}
	return nil
}

func (c *Config) fieldError(field, msg string) *Error {
	return &Error{File: c.Path, Field: field, Message: msg}
}

// ModelNames returns the declared model names, sorted.
func (c *Config) ModelNames() []string {
	names := make([]string, 0, len(c.Models))
	for name := range c.Models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
