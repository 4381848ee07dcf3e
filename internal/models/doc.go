// Package models declares the application's built-in models and the
// persisted session store.
package models
