package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iboying/activestore/pkg/attrs"
	"github.com/iboying/activestore/pkg/logging"
	"github.com/iboying/activestore/pkg/model"
	"github.com/iboying/activestore/pkg/request"
)

// Listener receives a snapshot after every committed transition.
type Listener[T any] func(State[T])

// Store is a CRUD state container for records of type T. T is usually
// attrs.Attributes or a struct with JSON tags and an "id" field.
type Store[T any] struct {
	blueprint *model.Blueprint
	modelOpts []model.Option
	observer  Observer
	logger    *slog.Logger

	mu        sync.RWMutex
	model     *model.Model
	state     State[T]
	inflight  int
	listeners []*listener[T]
}

type listener[T any] struct {
	fn Listener[T]
}

// Option configures a Store.
type Option func(*settings)

type settings struct {
	blueprint *model.Blueprint
	modelOpts []model.Option
	observer  Observer
	logger    *slog.Logger
}

// WithBlueprint binds the store to a model type. Init builds the model from
// it and InitWithModel only accepts models of that type.
func WithBlueprint(b model.Blueprint) Option {
	return func(s *settings) {
		s.blueprint = &b
	}
}

// WithModelOptions are passed to the blueprint when Init builds the model.
func WithModelOptions(opts ...model.Option) Option {
	return func(s *settings) {
		s.modelOpts = append(s.modelOpts, opts...)
	}
}

// WithObserver sets the operation observer.
func WithObserver(o Observer) Option {
	return func(s *settings) {
		s.observer = o
	}
}

// WithLogger sets the logger for transition debug output.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// New creates an unbound store.
func New[T any](opts ...Option) *Store[T] {
	var cfg settings
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.observer == nil {
		cfg.observer = &NoopObserver{}
	}
	return &Store[T]{
		blueprint: cfg.blueprint,
		modelOpts: cfg.modelOpts,
		observer:  cfg.observer,
		logger:    logging.OrNop(cfg.logger),
		state:     initialState[T](),
	}
}

// Init binds a model built from the blueprint's defaults.
func (s *Store[T]) Init() error {
	return s.InitWithConfig(model.Config{})
}

// InitWithConfig binds a model built from the blueprint with cfg applied
// over its defaults.
func (s *Store[T]) InitWithConfig(cfg model.Config) error {
	if s.blueprint == nil {
		return ErrNoBlueprint
	}
	m, err := s.blueprint.New(cfg, s.modelOpts...)
	if err != nil {
		return err
	}
	s.bind(m)
	return nil
}

// InitWithModel binds m. When the store has a blueprint, m must be of its
// type.
func (s *Store[T]) InitWithModel(m *model.Model) error {
	if m == nil {
		return ErrNotInitialized
	}
	if s.blueprint != nil && m.Kind() != s.blueprint.Type {
		return &KindMismatchError{Want: s.blueprint.Type, Got: m.Kind()}
	}
	s.bind(m)
	return nil
}

func (s *Store[T]) bind(m *model.Model) {
	s.commit(func(st State[T]) State[T] {
		s.model = m
		return bindModel(st, m)
	})
	s.logger.Debug("store bound", "model", m.Name(), "index_path", m.IndexPath())
}

// Model returns the bound model, or nil.
func (s *Store[T]) Model() *model.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// Snapshot returns a deep copy of the current state.
func (s *Store[T]) Snapshot() State[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Subscribe registers fn to run after every committed transition. The
// returned function removes it.
func (s *Store[T]) Subscribe(fn Listener[T]) (unsubscribe func()) {
	l := &listener[T]{fn: fn}
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, existing := range s.listeners {
			if existing == l {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// IndexParams control a list request.
type IndexParams struct {
	// ShouldAppend adds the page after the current records instead of
	// replacing them. Page 1 always replaces.
	ShouldAppend bool
	// Page and PerPage move the cursor before the request when positive.
	Page    int
	PerPage int
	// Query holds extra query parameters.
	Query request.Params
}

// Index loads a page of records and returns it.
func (s *Store[T]) Index(ctx context.Context, params IndexParams) (records []T, err error) {
	m, err := s.bound()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	defer s.track(m, "index", &err)()

	var query request.Params
	s.commit(func(st State[T]) State[T] {
		st = withCursor(st, params.Page, params.PerPage)
		query = make(request.Params, len(params.Query)+2)
		for k, v := range params.Query {
			query[k] = v
		}
		query["per_page"] = st.PerPage
		query["page"] = st.CurrentPage
		return st
	})

	resp, err := m.Index(ctx, query)
	if err != nil {
		return nil, err
	}
	p, err := decodePage[T](m.DataIndexKey(), resp.Body)
	if err != nil {
		return nil, err
	}

	s.commit(func(st State[T]) State[T] {
		if params.ShouldAppend {
			return appendRecords(st, p)
		}
		return replaceRecords(st, p)
	})
	s.observer.OnIndex(m.Name(), len(p.records), time.Since(start))
	return cloneAll(p.records), nil
}

// Find fetches one record into Record and FormData and returns a copy of
// it. An empty id fetches a singleton.
func (s *Store[T]) Find(ctx context.Context, id attrs.ID) (record T, err error) {
	m, err := s.bound()
	if err != nil {
		return record, err
	}
	start := time.Now()
	defer s.track(m, "find", &err)()

	record, err = s.fetch(ctx, m, id)
	if err != nil {
		return record, err
	}
	s.commit(func(st State[T]) State[T] {
		return setRecord(st, record)
	})
	s.observer.OnFind(m.Name(), id, time.Since(start))
	return cloneValue(record), nil
}

func (s *Store[T]) fetch(ctx context.Context, m *model.Model, id attrs.ID) (T, error) {
	var record T
	resp, err := m.Find(ctx, id)
	if err != nil {
		return record, err
	}
	a, err := resp.Attributes()
	if err != nil {
		return record, fmt.Errorf("find %s: %w", m.Name(), err)
	}
	return fromAttrs[T](a)
}

// Create posts formData and appends the created record returned by the
// server.
func (s *Store[T]) Create(ctx context.Context, formData T) (created T, err error) {
	m, err := s.bound()
	if err != nil {
		return created, err
	}
	start := time.Now()
	defer s.track(m, "create", &err)()

	resp, err := m.Create(ctx, formData)
	if err != nil {
		return created, err
	}
	a, err := resp.Attributes()
	if err != nil {
		return created, fmt.Errorf("create %s: %w", m.Name(), err)
	}
	if created, err = fromAttrs[T](a); err != nil {
		return created, fmt.Errorf("create %s: %w", m.Name(), err)
	}

	s.commit(func(st State[T]) State[T] {
		return addRecord(st, created)
	})
	id, _ := a.ID()
	s.observer.OnCreate(m.Name(), id, time.Since(start))
	return cloneValue(created), nil
}

// Update sends the minimal patch between formData and its origin and
// returns the patch that was sent.
func (s *Store[T]) Update(ctx context.Context, formData T) (patch attrs.Attributes, err error) {
	m, err := s.bound()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	defer s.track(m, "update", &err)()

	form, err := toAttrs(formData)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", m.Name(), err)
	}
	origin, err := s.origin(ctx, m, form)
	if err != nil {
		return nil, err
	}
	patch = attrs.Patch(origin, form)

	if _, err = m.Update(ctx, patch); err != nil {
		return nil, err
	}
	if err = s.commitErr(func(st State[T]) (State[T], error) {
		return mergeRecord(st, form)
	}); err != nil {
		return nil, err
	}
	id, _ := form.ID()
	s.observer.OnUpdate(m.Name(), id, time.Since(start))
	return patch, nil
}

// origin resolves what formData is compared against: the loaded record with
// the same id, then the listed record with the same id, then a fresh fetch
// when formData has an id, and finally an empty object.
func (s *Store[T]) origin(ctx context.Context, m *model.Model, form attrs.Attributes) (attrs.Attributes, error) {
	formID, hasID := form.ID()

	s.mu.RLock()
	var candidate *T
	if s.state.HasRecord {
		if id, ok := idOf(s.state.Record); sameID(id, ok, formID, hasID) {
			r := cloneValue(s.state.Record)
			candidate = &r
		}
	}
	if candidate == nil && hasID {
		for _, e := range s.state.Records {
			if id, ok := idOf(e.Record); ok && id == formID {
				r := cloneValue(e.Record)
				candidate = &r
				break
			}
		}
	}
	s.mu.RUnlock()

	if candidate != nil {
		a, err := toAttrs(*candidate)
		if err != nil {
			return nil, fmt.Errorf("update %s: %w", m.Name(), err)
		}
		return a, nil
	}
	if !hasID {
		return attrs.Attributes{}, nil
	}

	s.logger.Debug("fetching update origin", "model", m.Name(), "id", formID)
	resp, err := m.Find(ctx, formID)
	if err != nil {
		return nil, err
	}
	a, err := resp.Attributes()
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", m.Name(), err)
	}
	return a, nil
}

// UpdateOption adjusts UpdateWithoutDiff.
type UpdateOption func(*updateOptions)

type updateOptions struct {
	put bool
}

// WithPut sends the form data with PUT instead of PATCH.
func WithPut() UpdateOption {
	return func(o *updateOptions) {
		o.put = true
	}
}

// UpdateWithoutDiff sends formData verbatim and merges it locally.
func (s *Store[T]) UpdateWithoutDiff(ctx context.Context, formData T, opts ...UpdateOption) (err error) {
	m, err := s.bound()
	if err != nil {
		return err
	}
	start := time.Now()
	defer s.track(m, "update", &err)()

	var o updateOptions
	for _, opt := range opts {
		opt(&o)
	}
	form, err := toAttrs(formData)
	if err != nil {
		return fmt.Errorf("update %s: %w", m.Name(), err)
	}

	if o.put {
		_, err = m.Put(ctx, form)
	} else {
		_, err = m.Update(ctx, form)
	}
	if err != nil {
		return err
	}
	if err = s.commitErr(func(st State[T]) (State[T], error) {
		return mergeRecord(st, form)
	}); err != nil {
		return err
	}
	id, _ := form.ID()
	s.observer.OnUpdate(m.Name(), id, time.Since(start))
	return nil
}

// Delete removes a record on the server and from the local state.
func (s *Store[T]) Delete(ctx context.Context, id attrs.ID) (err error) {
	m, err := s.bound()
	if err != nil {
		return err
	}
	start := time.Now()
	defer s.track(m, "delete", &err)()

	if _, err = m.Delete(ctx, id); err != nil {
		return err
	}
	s.commit(func(st State[T]) State[T] {
		return removeRecord(st, id, id != "")
	})
	s.observer.OnDelete(m.Name(), id, time.Since(start))
	return nil
}

// SendCollectionAction calls a collection action and returns the raw
// response.
func (s *Store[T]) SendCollectionAction(ctx context.Context, name string, opts ...request.CallOption) (resp *request.Response, err error) {
	m, err := s.bound()
	if err != nil {
		return nil, err
	}
	if _, ok := m.CollectionActions()[name]; !ok {
		return nil, &model.UnknownActionError{Model: m.Name(), Action: name, On: model.OnCollection}
	}
	start := time.Now()
	defer s.track(m, "action", &err)()

	if resp, err = m.SendCollectionAction(ctx, name, opts...); err != nil {
		return nil, err
	}
	s.observer.OnAction(m.Name(), name, time.Since(start))
	return resp, nil
}

// SendMemberAction calls a member action on id and returns the raw
// response.
func (s *Store[T]) SendMemberAction(ctx context.Context, id attrs.ID, name string, opts ...request.CallOption) (resp *request.Response, err error) {
	m, err := s.bound()
	if err != nil {
		return nil, err
	}
	if _, ok := m.MemberActions()[name]; !ok {
		return nil, &model.UnknownActionError{Model: m.Name(), Action: name, On: model.OnMember}
	}
	start := time.Now()
	defer s.track(m, "action", &err)()

	if resp, err = m.SendMemberAction(ctx, id, name, opts...); err != nil {
		return nil, err
	}
	s.observer.OnAction(m.Name(), name, time.Since(start))
	return resp, nil
}

// Reset clears the record, form data and list. It does not need a bound
// model.
func (s *Store[T]) Reset() {
	s.commit(resetState[T])
	if m := s.Model(); m != nil {
		s.observer.OnReset(m.Name())
	}
}

func (s *Store[T]) bound() (*model.Model, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.model == nil {
		return nil, ErrNotInitialized
	}
	return s.model, nil
}

// track sets the loading flag and returns a function that clears it and
// reports *errp to the observer.
func (s *Store[T]) track(m *model.Model, op string, errp *error) func() {
	s.commit(func(st State[T]) State[T] {
		s.inflight++
		return setLoading(st, true)
	})
	return func() {
		s.commit(func(st State[T]) State[T] {
			s.inflight--
			return setLoading(st, s.inflight > 0)
		})
		if err := *errp; err != nil {
			s.logger.Debug("store action failed", "model", m.Name(), "op", op, "error", err)
			s.observer.OnError(m.Name(), op, err)
		}
	}
}

func (s *Store[T]) commit(fn func(State[T]) State[T]) {
	_ = s.commitErr(func(st State[T]) (State[T], error) {
		return fn(st), nil
	})
}

// commitErr applies fn under the lock and notifies listeners outside it.
// The state is left unchanged when fn fails.
func (s *Store[T]) commitErr(fn func(State[T]) (State[T], error)) error {
	s.mu.Lock()
	next, err := fn(s.state)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = next
	listeners := make([]Listener[T], len(s.listeners))
	snapshots := make([]State[T], len(s.listeners))
	for i, l := range s.listeners {
		listeners[i] = l.fn
		snapshots[i] = s.state.clone()
	}
	s.mu.Unlock()

	for i, fn := range listeners {
		fn(snapshots[i])
	}
	return nil
}
