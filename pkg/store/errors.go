package store

import (
	"errors"
	"fmt"
)

// ErrNotInitialized is returned by every action until the store is bound to
// a model with Init, InitWithConfig or InitWithModel.
var ErrNotInitialized = errors.New("store not initialized: call Init before any action")

// ErrNoBlueprint is returned by Init and InitWithConfig when the store was
// declared without a blueprint.
var ErrNoBlueprint = errors.New("store has no blueprint: declare it WithBlueprint or use InitWithModel")

// KindMismatchError is returned by InitWithModel when the model was built
// from a different blueprint than the one the store was declared with.
type KindMismatchError struct {
	Want string
	Got  string
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("store expects a %q model, got %q", e.Want, e.Got)
}

// EnvelopeError is returned when an index response does not have the
// expected shape.
type EnvelopeError struct {
	Key string
	Err error
}

func (e *EnvelopeError) Error() string {
	return fmt.Sprintf("invalid index response for %q: %v", e.Key, e.Err)
}

func (e *EnvelopeError) Unwrap() error {
	return e.Err
}
