// Package store provides a generic CRUD state container bound to a REST
// model.
//
// A Store holds everything a list/detail/edit screen needs for one resource:
//
//   - Pagination cursor (PerPage, CurrentPage, TotalPages, TotalCount)
//   - The current page of records, numbered from 1
//   - The record loaded by Find and an independent form-data copy
//   - A loading flag that is true while any action is in flight
//
// Every action delegates the network call to the bound *model.Model and then
// commits a state transition. Transitions are applied under the store's lock,
// which is never held across a network call.
//
// Binding:
//
// A store is declared with a blueprint and bound before use:
//
//	s := store.New[attrs.Attributes](store.WithBlueprint(models.Example))
//	if err := s.Init(); err != nil { ... }
//
// Actions on an unbound store fail with ErrNotInitialized before anything is
// sent.
//
// Updates:
//
// Update sends a minimal PATCH. The origin of truth is the loaded record when
// its id matches, then the matching list entry, then a fresh fetch, and
// finally an empty object. Only keys that differ from the origin are sent,
// plus the id and any "*_attributes" collections decomposed into additions
// and "_destroy" deletions. Local state is then merged with the full form
// data, not the patch.
//
// Observation:
//
// Subscribe registers a listener that receives a snapshot after every
// committed transition. WithObserver reports per-operation timings.
package store
