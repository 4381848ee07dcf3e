package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Load builds the configuration from defaults, the file at path, model
// files and the environment, then validates it. An empty path falls back to
// ACTIVESTORE_CONFIG and then to activestore.yaml in the working directory;
// a missing default file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		if v := os.Getenv(EnvConfig); v != "" {
			path = v
			explicit = true
		} else {
			path = DefaultFileName
		}
	}

	if err := cfg.loadFile(path); err != nil {
		if !explicit && errors.Is(err, ErrFileNotFound) {
			path = ""
		} else {
			return nil, err
		}
	}
	if path != "" {
		if err := cfg.loadModelFiles(filepath.Dir(path)); err != nil {
			return nil, err
		}
	}

	ApplyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults without reading model files or the
// environment.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(data, ""); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return &Error{File: path, Message: "cannot read file", Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return &Error{File: path, Message: "cannot load", Err: ErrEmptyFile}
	}
	if err := c.decode(data, path); err != nil {
		return err
	}
	c.Path = path
	return nil
}

// decode applies the YAML document in data over c.
func (c *Config) decode(data []byte, file string) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return &Error{File: file, Message: ErrInvalidYAML.Error(), Err: err}
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return &Error{File: file, Message: "cannot decode", Err: err}
	}
	if c.Models == nil {
		c.Models = map[string]*ModelDecl{}
	}
	if api, ok := raw["api"].(map[string]any); ok {
		c.markFile(api, "url", "api.url")
		c.markFile(api, "token", "api.token")
	}
	if storage, ok := raw["storage"].(map[string]any); ok {
		c.markFile(storage, "key", "storage.key")
	}
	if log, ok := raw["log"].(map[string]any); ok {
		c.markFile(log, "level", "log.level")
	}
	return nil
}

func (c *Config) markFile(section map[string]any, key, field string) {
	if _, ok := section[key]; ok {
		c.Sources[field] = SourceFile
	}
}

// modelFile is the shape of files matched by modelFiles.
type modelFile struct {
	Models map[string]*ModelDecl `yaml:"models"`
}

// loadModelFiles reads every file matching c.ModelFiles. Patterns are
// relative to baseDir. A model declared twice is an error.
func (c *Config) loadModelFiles(baseDir string) error {
	for _, pattern := range c.ModelFiles {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(baseDir, pattern)
		}
		matches, err := expandGlob(pattern)
		if err != nil {
			return &Error{File: c.Path, Field: "modelFiles", Message: "invalid pattern " + pattern, Err: err}
		}
		sort.Strings(matches)

		for _, match := range matches {
			data, err := os.ReadFile(match)
			if err != nil {
				return &Error{File: match, Message: "cannot read file", Err: err}
			}
			var mf modelFile
			if err := yaml.Unmarshal(data, &mf); err != nil {
				return &Error{File: match, Message: ErrInvalidYAML.Error(), Err: err}
			}
			for name, decl := range mf.Models {
				if _, exists := c.Models[name]; exists {
					return &Error{File: match, Field: "models." + name, Message: "model declared more than once"}
				}
				c.Models[name] = decl
			}
		}
	}
	return nil
}

// expandGlob uses doublestar for ** patterns and filepath.Glob otherwise.
func expandGlob(pattern string) ([]string, error) {
	if strings.Contains(pattern, "**") {
		return doublestar.FilepathGlob(pattern)
	}
	return filepath.Glob(pattern)
}
