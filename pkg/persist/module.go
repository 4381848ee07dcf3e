package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iboying/activestore/pkg/attrs"
)

// ErrCorruptState is returned when the blob under a key is not a JSON
// object. Writes fail with it so the other modules are not overwritten.
var ErrCorruptState = errors.New("persisted state is corrupt")

// ModuleState returns the persisted state of module from the blob stored
// under key. A missing blob, an unreadable blob or a missing module all
// yield an empty object.
func ModuleState(ctx context.Context, b Backend, key, module string) (attrs.Attributes, error) {
	all, err := loadAll(ctx, b, key)
	if errors.Is(err, ErrCorruptState) {
		return attrs.Attributes{}, nil
	}
	if err != nil {
		return nil, err
	}
	if sub, ok := all[module].(map[string]any); ok {
		return attrs.Attributes(sub), nil
	}
	return attrs.Attributes{}, nil
}

// SaveModuleState replaces module's state in the blob under key, keeping
// the other modules. A corrupt blob is left untouched and ErrCorruptState
// is returned.
func SaveModuleState(ctx context.Context, b Backend, key, module string, state any) error {
	all, err := loadAll(ctx, b, key)
	if err != nil {
		return err
	}
	all[module] = state
	return storeAll(ctx, b, key, all)
}

// ClearModuleState removes module from the blob under key. Like
// SaveModuleState it refuses to rewrite a corrupt blob.
func ClearModuleState(ctx context.Context, b Backend, key, module string) error {
	all, err := loadAll(ctx, b, key)
	if err != nil {
		return err
	}
	if _, ok := all[module]; !ok {
		return nil
	}
	delete(all, module)
	return storeAll(ctx, b, key, all)
}

func loadAll(ctx context.Context, b Backend, key string) (attrs.Attributes, error) {
	data, ok, err := b.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok || len(data) == 0 {
		return attrs.Attributes{}, nil
	}
	all, err := attrs.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: key %q: %v", ErrCorruptState, key, err)
	}
	return all, nil
}

func storeAll(ctx context.Context, b Backend, key string, all attrs.Attributes) error {
	data, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("encode persisted state: %w", err)
	}
	return b.Set(ctx, key, data)
}
