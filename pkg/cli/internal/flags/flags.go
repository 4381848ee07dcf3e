// Package flags provides flag types shared by CLI commands.
package flags

import (
	"fmt"
	"strings"
)

// Pair is one key=value flag occurrence.
type Pair struct {
	Key   string
	Value string
}

// Pairs implements pflag.Value for a repeatable key=value flag. Occurrences
// keep their command line order and values may contain '=' or ','.
type Pairs []Pair

func (p *Pairs) String() string {
	items := make([]string, len(*p))
	for i, kv := range *p {
		items[i] = kv.Key + "=" + kv.Value
	}
	return strings.Join(items, ",")
}

// Set parses value and appends it. The key is trimmed and must not be empty.
func (p *Pairs) Set(value string) error {
	k, v, ok := strings.Cut(value, "=")
	k = strings.TrimSpace(k)
	if !ok || k == "" {
		return fmt.Errorf("invalid %q: expected key=value", value)
	}
	*p = append(*p, Pair{Key: k, Value: v})
	return nil
}

func (p *Pairs) Type() string {
	return "key=value"
}
