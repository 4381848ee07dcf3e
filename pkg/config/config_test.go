package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iboying/activestore/pkg/model"
	"github.com/iboying/activestore/pkg/request"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{EnvAPIURL, EnvRootPath, EnvToken, EnvStorageKey, EnvLogLevel, EnvConfig} {
		t.Setenv(env, "")
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const sampleYAML = `
api:
  url: https://api.example.com
  rootPath: /v2
  timeout: 5s
storage:
  backend: sqlite
  path: state.db
log:
  level: debug
  format: json
models:
  ticket:
    namespace: /helpdesk
    parents:
      - type: projects
        id: 1
    actions:
      - name: close
        method: post
        on: member
    params:
      q:
        state_eq: open
modelFiles:
  - models/**/*.yaml
`

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultBackend, cfg.Storage.Backend)
	assert.Equal(t, DefaultStorageKey, cfg.Storage.Key)
	assert.Equal(t, request.DefaultTimeout, cfg.API.Timeout)
	assert.Equal(t, SourceDefault, cfg.Sources["api.url"])
	assert.NoError(t, cfg.Validate())
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.API.URL)
	assert.Equal(t, "/v2", cfg.API.RootPath)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, DefaultStorageKey, cfg.Storage.Key, "unset fields keep defaults")
	assert.Equal(t, SourceFile, cfg.Sources["api.url"])
	assert.Equal(t, SourceDefault, cfg.Sources["storage.key"])
	require.Contains(t, cfg.Models, "ticket")

	mc, err := cfg.Models["ticket"].ModelConfig()
	require.NoError(t, err)
	assert.Equal(t, []model.Parent{{Type: "projects", ID: "1"}}, mc.Parents)
	assert.Equal(t, []model.Action{{Name: "close", Method: "post", On: model.OnMember}}, mc.Actions)
	assert.Equal(t, map[string]any{"state_eq": "open"}, mc.Params["q"])
	assert.NoError(t, cfg.Validate())
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("api: [unclosed"))
	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Error(), "invalid YAML")
}

func TestLoad_FileAndModelFiles(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "activestore.yaml")
	writeFile(t, path, sampleYAML)
	writeFile(t, filepath.Join(dir, "models", "billing", "invoice.yaml"), `
models:
  invoice:
    mode: shallow
`)
	writeFile(t, filepath.Join(dir, "models", "notes.txt"), "ignored")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, []string{"invoice", "ticket"}, cfg.ModelNames())
	assert.Equal(t, "shallow", cfg.Models["invoice"].Mode)
}

func TestLoad_DuplicateModel(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "activestore.yaml")
	writeFile(t, path, sampleYAML)
	writeFile(t, filepath.Join(dir, "models", "ticket.yaml"), "models:\n  ticket: {}\n")

	_, err := Load(path)
	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "models.ticket", ce.Field)
}

func TestLoad_MissingFiles(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, errors.Is(err, ErrFileNotFound))

	// Without an explicit path a missing default file is fine.
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Path)
}

func TestLoad_EmptyFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "empty.yaml")
	writeFile(t, path, "  \n")

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, sampleYAML)

	t.Setenv(EnvConfig, path)
	t.Setenv(EnvAPIURL, "https://env.example.com")
	t.Setenv(EnvToken, "secret")
	t.Setenv(EnvStorageKey, "envkey")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, "https://env.example.com", cfg.API.URL)
	assert.Equal(t, "secret", cfg.API.Token)
	assert.Equal(t, "envkey", cfg.Storage.Key)
	assert.Equal(t, SourceEnv, cfg.Sources["api.url"])

	cfg.Set("api.url", "https://flag.example.com", SourceFlag)
	assert.Equal(t, "https://flag.example.com", cfg.API.URL)
	assert.Equal(t, SourceFlag, cfg.Sources["api.url"])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"relative url", func(c *Config) { c.API.URL = "/api" }, "api.url"},
		{"negative timeout", func(c *Config) { c.API.Timeout = -time.Second }, "api.timeout"},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "redis" }, "storage.backend"},
		{"file without path", func(c *Config) { c.Storage.Backend = "file" }, "storage.path"},
		{"empty key", func(c *Config) { c.Storage.Key = "" }, "storage.key"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"nil model", func(c *Config) { c.Models["a"] = nil }, "models.a"},
		{"bad mode", func(c *Config) { c.Models["a"] = &ModelDecl{Mode: "deep"} }, "models.a.mode"},
		{"parent without type", func(c *Config) {
			c.Models["a"] = &ModelDecl{Parents: []ParentDecl{{ID: 1}}}
		}, "models.a.parents[0].type"},
		{"parent without id", func(c *Config) {
			c.Models["a"] = &ModelDecl{Parents: []ParentDecl{{Type: "projects"}}}
		}, "models.a.parents[0].id"},
		{"bad target", func(c *Config) {
			c.Models["a"] = &ModelDecl{Actions: []ActionDecl{{Name: "x", Method: "get", On: "both"}}}
		}, "models.a.actions[0].on"},
		{"unusable parent id", func(c *Config) {
			c.Models["a"] = &ModelDecl{Parents: []ParentDecl{{Type: "projects", ID: []any{1}}}}
		}, "models.a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			var ce *Error
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestError_Format(t *testing.T) {
	err := &Error{File: "a.yaml", Field: "log.level", Message: "bad"}
	assert.Equal(t, "a.yaml: log.level: bad", err.Error())

	wrapped := &Error{Message: "cannot load", Err: ErrEmptyFile}
	assert.Equal(t, "cannot load: configuration file is empty", wrapped.Error())
	assert.ErrorIs(t, wrapped, ErrEmptyFile)
}
