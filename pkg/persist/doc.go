// Package persist stores state blobs so sessions survive restarts.
//
// A Backend is a small key/value store of raw bytes. Three implementations
// are provided:
//
//   - MemoryBackend: in-process map, the default for tests
//   - FileBackend: one JSON file per key in a directory
//   - SQLiteBackend: a single "state" table (pure Go driver, no cgo)
//
// On top of a backend, one blob under a storage key holds the persisted
// state of every module as a JSON object:
//
//	{"session": {"session": {"id": 1, "name": "admin"}}}
//
// ModuleState reads one module's sub-object, returning an empty object when
// nothing was stored. SaveModuleState and ClearModuleState rewrite it.
package persist
