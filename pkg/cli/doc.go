// Package cli implements the activestore command line: CRUD and custom
// actions against configured REST models, plus inspection of the persisted
// session.
//
// Every command loads the configuration (see package config), applies the
// global flag overrides and then talks to the API through a store, so the
// same minimal-diff update logic used by library callers applies here.
package cli
