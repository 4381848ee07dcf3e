package model

import (
	"context"
	"fmt"
	"maps"
	"net/http"

	"dario.cat/mergo"
	"github.com/mohae/deepcopy"

	"github.com/iboying/activestore/pkg/attrs"
	"github.com/iboying/activestore/pkg/request"
)

// Transport sends requests. *request.Client implements it.
type Transport interface {
	Do(ctx context.Context, req *request.Request) (*request.Response, error)
}

// Model is a configured REST resource. It is immutable after construction
// and safe for concurrent use.
type Model struct {
	kind      string
	cfg       Config
	transport Transport
}

// Option configures how a Model reaches its API.
type Option func(*options)

type options struct {
	transport  Transport
	clientOpts []request.Option
}

// WithTransport sends requests through t instead of a client built from
// BaseURL and RootPath.
func WithTransport(t Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

// WithClientOptions configures the default request client.
func WithClientOptions(opts ...request.Option) Option {
	return func(o *options) {
		o.clientOpts = append(o.clientOpts, opts...)
	}
}

// Blueprint is a model type: a type name plus default configuration.
type Blueprint struct {
	Type     string
	Defaults Config
}

// Define declares a model type.
func Define(typeName string, defaults Config) Blueprint {
	return Blueprint{Type: typeName, Defaults: defaults}
}

// New builds a Model of this type. Non-zero fields of cfg override the
// blueprint defaults.
func (b Blueprint) New(cfg Config, opts ...Option) (*Model, error) {
	return build(b.Type, overlay(b.Defaults, cfg), opts)
}

// New builds a Model without a type. cfg.Name is required.
func New(cfg Config, opts ...Option) (*Model, error) {
	return build("", cfg, opts)
}

func build(kind string, cfg Config, opts []Option) (*Model, error) {
	normalized, err := cfg.normalize(kind)
	if err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	transport := o.transport
	if transport == nil {
		transport = request.New(normalized.BaseURL+normalized.RootPath, o.clientOpts...)
	}
	return &Model{kind: kind, cfg: normalized, transport: transport}, nil
}

// Kind returns the blueprint type name, or "" for untyped models.
func (m *Model) Kind() string { return m.kind }

// Name returns the singular resource name.
func (m *Model) Name() string { return m.cfg.Name }

// Namespace returns the route prefix.
func (m *Model) Namespace() string { return m.cfg.Namespace }

// DataIndexKey returns the key holding records in list responses.
func (m *Model) DataIndexKey() string { return m.cfg.DataIndexKey }

// PathIndexKey returns the collection URL segment.
func (m *Model) PathIndexKey() string { return m.cfg.PathIndexKey }

// Mode returns the routing mode.
func (m *Model) Mode() Mode { return m.cfg.Mode }

// Config returns a copy of the normalized configuration.
func (m *Model) Config() Config {
	c := m.cfg
	c.Parents = append([]Parent(nil), m.cfg.Parents...)
	c.Actions = append([]Action(nil), m.cfg.Actions...)
	c.Params = m.defaultParams()
	return c
}

// ResourcePath is namespace/path_index_key.
func (m *Model) ResourcePath() string {
	return m.cfg.Namespace + "/" + m.cfg.PathIndexKey
}

// IndexPath is the collection route, nested under every parent.
func (m *Model) IndexPath() string {
	path := m.cfg.Namespace
	for _, p := range m.cfg.Parents {
		path += "/" + p.Type + "/" + p.ID
	}
	if m.cfg.Mode == ModeSingle {
		return path + "/" + m.cfg.Name
	}
	return path + "/" + m.cfg.PathIndexKey
}

// MemberPath is the route of one record. An empty id yields the index
// path, which is how singleton resources are addressed.
func (m *Model) MemberPath(id attrs.ID) string {
	if id == "" {
		return m.IndexPath()
	}
	if m.cfg.Mode == ModeShallow && id.IsInteger() {
		return m.ResourcePath() + "/" + id.String()
	}
	return m.IndexPath() + "/" + id.String()
}

// ParentMap indexes parents by type.
func (m *Model) ParentMap() map[string]Parent {
	out := make(map[string]Parent, len(m.cfg.Parents))
	for _, p := range m.cfg.Parents {
		out[p.Type] = p
	}
	return out
}

// MemberActions indexes member actions by name.
func (m *Model) MemberActions() map[string]Action {
	return m.actions(OnMember)
}

// CollectionActions indexes collection actions by name.
func (m *Model) CollectionActions() map[string]Action {
	return m.actions(OnCollection)
}

func (m *Model) actions(on Target) map[string]Action {
	out := make(map[string]Action)
	for _, a := range m.cfg.Actions {
		if a.On == on {
			out[a.Name] = a
		}
	}
	return out
}

// Index lists records. params are deep-merged over the default params.
func (m *Model) Index(ctx context.Context, params request.Params, opts ...request.CallOption) (*request.Response, error) {
	query, err := m.mergeParams(params)
	if err != nil {
		return nil, err
	}
	req := &request.Request{Method: http.MethodGet, Path: m.IndexPath(), Query: query}
	return m.transport.Do(ctx, req.Apply(opts...))
}

// Find fetches one record. An empty id fetches the singleton.
func (m *Model) Find(ctx context.Context, id attrs.ID, opts ...request.CallOption) (*request.Response, error) {
	req := &request.Request{Method: http.MethodGet, Path: m.MemberPath(id)}
	return m.transport.Do(ctx, req.Apply(opts...))
}

// Create posts {name: payload} to the index path.
func (m *Model) Create(ctx context.Context, payload any, opts ...request.CallOption) (*request.Response, error) {
	req := &request.Request{Method: http.MethodPost, Path: m.IndexPath(), Body: m.envelope(payload)}
	return m.transport.Do(ctx, req.Apply(opts...))
}

// Update patches {name: instance} to the member path of instance's id.
func (m *Model) Update(ctx context.Context, instance any, opts ...request.CallOption) (*request.Response, error) {
	return m.write(ctx, http.MethodPatch, instance, opts)
}

// Put replaces the record with {name: instance}.
func (m *Model) Put(ctx context.Context, instance any, opts ...request.CallOption) (*request.Response, error) {
	return m.write(ctx, http.MethodPut, instance, opts)
}

func (m *Model) write(ctx context.Context, method string, instance any, opts []request.CallOption) (*request.Response, error) {
	id, err := instanceID(instance)
	if err != nil {
		return nil, err
	}
	req := &request.Request{Method: method, Path: m.MemberPath(id), Body: m.envelope(instance)}
	return m.transport.Do(ctx, req.Apply(opts...))
}

// Delete removes a record.
func (m *Model) Delete(ctx context.Context, id attrs.ID, opts ...request.CallOption) (*request.Response, error) {
	req := &request.Request{Method: http.MethodDelete, Path: m.MemberPath(id)}
	return m.transport.Do(ctx, req.Apply(opts...))
}

// SendCollectionAction calls index_path/name with the action's method.
func (m *Model) SendCollectionAction(ctx context.Context, name string, opts ...request.CallOption) (*request.Response, error) {
	action, ok := m.CollectionActions()[name]
	if !ok {
		return nil, &UnknownActionError{Model: m.cfg.Name, Action: name, On: OnCollection}
	}
	req := &request.Request{Method: action.Method, Path: m.IndexPath() + "/" + name}
	return m.transport.Do(ctx, req.Apply(opts...))
}

// SendMemberAction calls member_path(id)/name with the action's method.
func (m *Model) SendMemberAction(ctx context.Context, id attrs.ID, name string, opts ...request.CallOption) (*request.Response, error) {
	action, ok := m.MemberActions()[name]
	if !ok {
		return nil, &UnknownActionError{Model: m.cfg.Name, Action: name, On: OnMember}
	}
	req := &request.Request{Method: action.Method, Path: m.MemberPath(id) + "/" + name}
	return m.transport.Do(ctx, req.Apply(opts...))
}

func (m *Model) envelope(payload any) map[string]any {
	return map[string]any{m.cfg.Name: payload}
}

func (m *Model) defaultParams() request.Params {
	if m.cfg.Params == nil {
		return nil
	}
	return deepcopy.Copy(m.cfg.Params).(request.Params)
}

// mergeParams deep-merges params over a copy of the defaults.
func (m *Model) mergeParams(params request.Params) (request.Params, error) {
	merged := map[string]any{}
	if defaults := m.defaultParams(); defaults != nil {
		maps.Copy(merged, defaults)
	}
	if len(params) > 0 {
		if err := mergo.Merge(&merged, map[string]any(params), mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merge index params: %w", err)
		}
	}
	return request.Params(merged), nil
}

func instanceID(instance any) (attrs.ID, error) {
	switch v := instance.(type) {
	case attrs.Attributes:
		id, _ := v.ID()
		return id, nil
	case map[string]any:
		id, _ := attrs.Attributes(v).ID()
		return id, nil
	}
	a, err := attrs.FromValue(instance)
	if err != nil {
		return "", err
	}
	id, _ := a.ID()
	return id, nil
}
