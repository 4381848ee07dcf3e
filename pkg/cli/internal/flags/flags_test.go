package flags

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairs_Set(t *testing.T) {
	var p Pairs
	require.NoError(t, p.Set("projects=42"))
	require.NoError(t, p.Set(" q[name] =a=b,c"))
	require.NoError(t, p.Set("empty="))

	assert.Equal(t, Pairs{
		{Key: "projects", Value: "42"},
		{Key: "q[name]", Value: "a=b,c"},
		{Key: "empty", Value: ""},
	}, p)
	assert.Equal(t, "projects=42,q[name]=a=b,c,empty=", p.String())
}

func TestPairs_SetInvalid(t *testing.T) {
	for _, value := range []string{"projects", "=42", "  =x", ""} {
		t.Run(value, func(t *testing.T) {
			var p Pairs
			assert.Error(t, p.Set(value))
			assert.Empty(t, p)
		})
	}
}

func TestPairs_FlagSet(t *testing.T) {
	var p Pairs
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Var(&p, "param", "")

	require.NoError(t, fs.Parse([]string{"--param", "a=1", "--param=b=2"}))
	assert.Equal(t, Pairs{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}}, p)

	err := fs.Parse([]string{"--param", "broken"})
	assert.ErrorContains(t, err, "expected key=value")
}
