package codec_test

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldbind/fieldbind"
	"github.com/fieldbind/fieldbind/codec"
	"github.com/fieldbind/fieldbind/scope"
)

func TestConstructible(t *testing.T) {
	assert.True(t, codec.Constructible(reflect.TypeFor[username]()))
	assert.False(t, codec.Constructible(reflect.TypeFor[string]()))
	assert.False(t, codec.Constructible(reflect.TypeFor[struct{ X int }]()))
}

func TestFallback(t *testing.T) {
	t.Run("derives a converter for an unregistered constructible type", func(t *testing.T) {
		conv, ok := codec.Fallback(reflect.TypeFor[username]())
		require.True(t, ok)

		ctx, sc := scope.Begin(context.Background())
		defer sc.End()

		v, readOK := conv.Read(ctx, json.RawMessage(`"gopher"`))
		require.True(t, readOK)
		assert.Equal(t, username("gopher"), v)
		assert.False(t, sc.HasErrors())
	})

	t.Run("refuses non-constructible types", func(t *testing.T) {
		_, ok := codec.Fallback(reflect.TypeFor[string]())
		assert.False(t, ok)
	})

	t.Run("normalizes pointers", func(t *testing.T) {
		_, ok := codec.Fallback(reflect.TypeFor[*username]())
		assert.True(t, ok)
	})

	t.Run("handles optional wrappers of unregistered types", func(t *testing.T) {
		conv, ok := codec.Fallback(reflect.TypeFor[fieldbind.Optional[username]]())
		require.True(t, ok)

		ctx, sc := scope.Begin(context.Background())
		defer sc.End()

		v, readOK := conv.Read(ctx, json.RawMessage(`null`))
		require.True(t, readOK)
		assert.False(t, v.(fieldbind.Optional[username]).IsPresent())
		assert.False(t, sc.HasErrors())

		v, readOK = conv.Read(ctx, json.RawMessage(`"gopher"`))
		require.True(t, readOK)
		assert.Equal(t, username("gopher"), v.(fieldbind.Optional[username]).MustGet())
	})

	t.Run("null records required error", func(t *testing.T) {
		conv, ok := codec.Fallback(reflect.TypeFor[username]())
		require.True(t, ok)

		ctx, sc := scope.Begin(context.Background())
		defer sc.End()

		_, readOK := conv.Read(ctx, json.RawMessage(`null`))
		assert.False(t, readOK)

		rep, hasRep := sc.Report()
		require.True(t, hasRep)
		assert.Equal(t, []string{"field is required"}, rep.Get("username"))
	})

	t.Run("write uses the primitive representation", func(t *testing.T) {
		conv, ok := codec.Fallback(reflect.TypeFor[username]())
		require.True(t, ok)

		raw, err := conv.Write(username("gopher"))
		require.NoError(t, err)
		assert.Equal(t, `"gopher"`, string(raw))
	})
}

// TestFallbackParity pins the central dispatch property: a reflective
// fallback converter and a pre-registered converter with equivalent
// construct logic produce identical field error output for the same
// invalid input.
func TestFallbackParity(t *testing.T) {
	r := newTestRegistry() // handle: fast path, same invariants as username

	fast, ok := r.Converter(reflect.TypeFor[handle]())
	require.True(t, ok)
	slow, ok := codec.Fallback(reflect.TypeFor[username]())
	require.True(t, ok)

	inputs := []json.RawMessage{
		json.RawMessage(`""`),
		json.RawMessage(`"ab"`),
		json.RawMessage(`null`),
	}

	for _, input := range inputs {
		t.Run(string(input), func(t *testing.T) {
			fastCtx, fastScope := scope.Begin(context.Background())
			defer fastScope.End()
			_, fastOK := codec.Named("nick", fast).Read(fastCtx, input)

			slowCtx, slowScope := scope.Begin(context.Background())
			defer slowScope.End()
			_, slowOK := codec.Named("nick", slow).Read(slowCtx, input)

			assert.Equal(t, fastOK, slowOK)

			fastRep, fastHas := fastScope.Report()
			slowRep, slowHas := slowScope.Report()
			require.Equal(t, fastHas, slowHas)
			if fastHas {
				assert.Equal(t, fastRep.Details(), slowRep.Details())
			}
		})
	}
}
