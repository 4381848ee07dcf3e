package store

import (
	"sync/atomic"
	"time"

	"github.com/iboying/activestore/pkg/attrs"
)

// Observer receives hooks for store operations. Implementations may collect
// metrics or log. Hooks run on the calling goroutine after the state commit.
type Observer interface {
	// OnIndex is called after a page of records was loaded.
	OnIndex(model string, count int, duration time.Duration)

	// OnFind is called after a record was fetched.
	OnFind(model string, id attrs.ID, duration time.Duration)

	// OnCreate is called after a record was created.
	OnCreate(model string, id attrs.ID, duration time.Duration)

	// OnUpdate is called after a record was updated.
	OnUpdate(model string, id attrs.ID, duration time.Duration)

	// OnDelete is called after a record was deleted.
	OnDelete(model string, id attrs.ID, duration time.Duration)

	// OnAction is called after a custom action returned.
	OnAction(model string, action string, duration time.Duration)

	// OnError is called when an operation fails.
	OnError(model string, operation string, err error)

	// OnReset is called after the state was reset.
	OnReset(model string)
}

// NoopObserver is a no-op implementation of Observer.
type NoopObserver struct{}

func (n *NoopObserver) OnIndex(model string, count int, duration time.Duration)      {}
func (n *NoopObserver) OnFind(model string, id attrs.ID, duration time.Duration)     {}
func (n *NoopObserver) OnCreate(model string, id attrs.ID, duration time.Duration)   {}
func (n *NoopObserver) OnUpdate(model string, id attrs.ID, duration time.Duration)   {}
func (n *NoopObserver) OnDelete(model string, id attrs.ID, duration time.Duration)   {}
func (n *NoopObserver) OnAction(model string, action string, duration time.Duration) {}
func (n *NoopObserver) OnError(model string, operation string, err error)            {}
func (n *NoopObserver) OnReset(model string)                                         {}

// MetricsObserver counts operations with atomic counters and is safe for
// concurrent use.
type MetricsObserver struct {
	indexCount     atomic.Int64
	findCount      atomic.Int64
	createCount    atomic.Int64
	updateCount    atomic.Int64
	deleteCount    atomic.Int64
	actionCount    atomic.Int64
	errorCount     atomic.Int64
	resetCount     atomic.Int64
	totalLatencyNs atomic.Int64
}

// NewMetricsObserver creates a new metrics observer.
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

func (m *MetricsObserver) OnIndex(model string, count int, duration time.Duration) {
	m.indexCount.Add(1)
	m.totalLatencyNs.Add(int64(duration))
}

func (m *MetricsObserver) OnFind(model string, id attrs.ID, duration time.Duration) {
	m.findCount.Add(1)
	m.totalLatencyNs.Add(int64(duration))
}

func (m *MetricsObserver) OnCreate(model string, id attrs.ID, duration time.Duration) {
	m.createCount.Add(1)
	m.totalLatencyNs.Add(int64(duration))
}

func (m *MetricsObserver) OnUpdate(model string, id attrs.ID, duration time.Duration) {
	m.updateCount.Add(1)
	m.totalLatencyNs.Add(int64(duration))
}

func (m *MetricsObserver) OnDelete(model string, id attrs.ID, duration time.Duration) {
	m.deleteCount.Add(1)
	m.totalLatencyNs.Add(int64(duration))
}

func (m *MetricsObserver) OnAction(model string, action string, duration time.Duration) {
	m.actionCount.Add(1)
	m.totalLatencyNs.Add(int64(duration))
}

func (m *MetricsObserver) OnError(model string, operation string, err error) {
	m.errorCount.Add(1)
}

func (m *MetricsObserver) OnReset(model string) {
	m.resetCount.Add(1)
}

// Snapshot returns a copy of the current counters.
func (m *MetricsObserver) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		IndexCount:   m.indexCount.Load(),
		FindCount:    m.findCount.Load(),
		CreateCount:  m.createCount.Load(),
		UpdateCount:  m.updateCount.Load(),
		DeleteCount:  m.deleteCount.Load(),
		ActionCount:  m.actionCount.Load(),
		ErrorCount:   m.errorCount.Load(),
		ResetCount:   m.resetCount.Load(),
		TotalLatency: time.Duration(m.totalLatencyNs.Load()),
	}
}

// Reset clears all counters.
func (m *MetricsObserver) Reset() {
	m.indexCount.Store(0)
	m.findCount.Store(0)
	m.createCount.Store(0)
	m.updateCount.Store(0)
	m.deleteCount.Store(0)
	m.actionCount.Store(0)
	m.errorCount.Store(0)
	m.resetCount.Store(0)
	m.totalLatencyNs.Store(0)
}

// MetricsSnapshot is a point-in-time copy of MetricsObserver counters.
type MetricsSnapshot struct {
	IndexCount   int64         `json:"indexCount"`
	FindCount    int64         `json:"findCount"`
	CreateCount  int64         `json:"createCount"`
	UpdateCount  int64         `json:"updateCount"`
	DeleteCount  int64         `json:"deleteCount"`
	ActionCount  int64         `json:"actionCount"`
	ErrorCount   int64         `json:"errorCount"`
	ResetCount   int64         `json:"resetCount"`
	TotalLatency time.Duration `json:"totalLatencyNs"`
}

// TotalOperations returns the number of successful network operations.
func (s MetricsSnapshot) TotalOperations() int64 {
	return s.IndexCount + s.FindCount + s.CreateCount + s.UpdateCount + s.DeleteCount + s.ActionCount
}
