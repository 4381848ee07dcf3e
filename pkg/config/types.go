package config

import (
	"fmt"
	"time"

	"github.com/iboying/activestore/pkg/attrs"
	"github.com/iboying/activestore/pkg/model"
	"github.com/iboying/activestore/pkg/request"
)

// Default values.
const (
	DefaultFileName   = "activestore.yaml"
	DefaultStorageKey = "activestore"
	DefaultBackend    = "memory"
	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "text"
	DefaultTimeout    = request.DefaultTimeout
)

// Source names recorded in Config.Sources.
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)

// Config is the application configuration.
type Config struct {
	API     APIConfig     `json:"api" yaml:"api"`
	Storage StorageConfig `json:"storage" yaml:"storage"`
	Log     LogConfig     `json:"log" yaml:"log"`

	// Models are model declarations by name.
	Models map[string]*ModelDecl `json:"models,omitempty" yaml:"models,omitempty"`
	// ModelFiles are glob patterns of extra model files.
	ModelFiles []string `json:"modelFiles,omitempty" yaml:"modelFiles,omitempty"`

	// Path is the file the configuration was read from, if any.
	Path string `json:"-" yaml:"-"`
	// Sources records where each top-level setting came from.
	Sources map[string]string `json:"-" yaml:"-"`
}

// APIConfig configures the request client.
type APIConfig struct {
	URL      string        `json:"url" yaml:"url"`
	RootPath string        `json:"rootPath,omitempty" yaml:"rootPath,omitempty"`
	Token    string        `json:"token,omitempty" yaml:"token,omitempty"`
	Timeout  time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	// Backend is memory, file or sqlite.
	Backend string `json:"backend" yaml:"backend"`
	// Path is a directory for file storage and a database file for sqlite.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	// Key is the storage key holding all persisted modules.
	Key string `json:"key" yaml:"key"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// ModelDecl declares a model in configuration.
type ModelDecl struct {
	// Type names a built-in blueprint whose defaults apply first.
	Type         string         `json:"type,omitempty" yaml:"type,omitempty"`
	Name         string         `json:"name,omitempty" yaml:"name,omitempty"`
	Namespace    string         `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	RootPath     string         `json:"rootPath,omitempty" yaml:"rootPath,omitempty"`
	DataIndexKey string         `json:"dataIndexKey,omitempty" yaml:"dataIndexKey,omitempty"`
	PathIndexKey string         `json:"pathIndexKey,omitempty" yaml:"pathIndexKey,omitempty"`
	Mode         string         `json:"mode,omitempty" yaml:"mode,omitempty"`
	Parents      []ParentDecl   `json:"parents,omitempty" yaml:"parents,omitempty"`
	Actions      []ActionDecl   `json:"actions,omitempty" yaml:"actions,omitempty"`
	Params       map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

// ParentDecl is a parent resource. ID may be a number or a string.
type ParentDecl struct {
	Type string `json:"type" yaml:"type"`
	ID   any    `json:"id" yaml:"id"`
}

// ActionDecl is a custom action.
type ActionDecl struct {
	Name   string `json:"name" yaml:"name"`
	Method string `json:"method" yaml:"method"`
	On     string `json:"on" yaml:"on"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		API: APIConfig{Timeout: DefaultTimeout},
		Storage: StorageConfig{
			Backend: DefaultBackend,
			Key:     DefaultStorageKey,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Models: map[string]*ModelDecl{},
		Sources: map[string]string{
			"api.url":     SourceDefault,
			"api.token":   SourceDefault,
			"storage.key": SourceDefault,
			"log.level":   SourceDefault,
		},
	}
}

// Set records a value override from source, e.g. a command-line flag.
func (c *Config) Set(field, value, source string) {
	switch field {
	case "api.url":
		c.API.URL = value
	case "api.rootPath":
		c.API.RootPath = value
	case "api.token":
		c.API.Token = value
	case "storage.key":
		c.Storage.Key = value
	case "log.level":
		c.Log.Level = value
	default:
		return
	}
	if c.Sources == nil {
		c.Sources = make(map[string]string)
	}
	c.Sources[field] = source
}

// ModelConfig converts the declaration into a model.Config. Parent ids are
// normalized to strings.
func (d *ModelDecl) ModelConfig() (model.Config, error) {
	cfg := model.Config{
		Name:         d.Name,
		Namespace:    d.Namespace,
		RootPath:     d.RootPath,
		DataIndexKey: d.DataIndexKey,
		PathIndexKey: d.PathIndexKey,
		Mode:         model.Mode(d.Mode),
	}
	if d.Parents != nil {
		cfg.Parents = make([]model.Parent, len(d.Parents))
		for i, p := range d.Parents {
			id, ok := attrs.IDOf(p.ID)
			if !ok {
				return cfg, fmt.Errorf("parents[%d]: invalid id %v", i, p.ID)
			}
			cfg.Parents[i] = model.Parent{Type: p.Type, ID: id.String()}
		}
	}
	if d.Actions != nil {
		cfg.Actions = make([]model.Action, len(d.Actions))
		for i, a := range d.Actions {
			cfg.Actions[i] = model.Action{Name: a.Name, Method: a.Method, On: model.Target(a.On)}
		}
	}
	if d.Params != nil {
		cfg.Params = request.Params(d.Params)
	}
	return cfg, nil
}
