package codec_test

import (
	"context"
	"encoding/json"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldbind/fieldbind"
	"github.com/fieldbind/fieldbind/codec"
	"github.com/fieldbind/fieldbind/scope"
)

func TestRegistryLookups(t *testing.T) {
	r := newTestRegistry()
	emailType := reflect.TypeFor[email]()

	t.Run("registered type", func(t *testing.T) {
		assert.True(t, r.HasConverter(emailType))

		conv, ok := r.Converter(emailType)
		assert.True(t, ok)
		assert.NotNil(t, conv)

		wrap, ok := r.WrapperFactory(emailType)
		assert.True(t, ok)
		assert.NotNil(t, wrap("email"))

		construct, ok := r.Construct(emailType)
		assert.True(t, ok)
		assert.NotNil(t, construct)
	})

	t.Run("unregistered type", func(t *testing.T) {
		assert.False(t, r.HasConverter(reflect.TypeFor[username]()))
		_, ok := r.Converter(reflect.TypeFor[username]())
		assert.False(t, ok)
	})

	t.Run("optional wrapper normalizes to the underlying registration", func(t *testing.T) {
		optType := reflect.TypeFor[fieldbind.Optional[email]]()
		assert.True(t, r.HasConverter(optType))

		conv, ok := r.Converter(optType)
		require.True(t, ok)

		ctx, sc := scope.Begin(context.Background())
		defer sc.End()
		v, ok := conv.Read(ctx, json.RawMessage(`"a@b.com"`))
		require.True(t, ok)
		opt, isOpt := v.(fieldbind.Optional[email])
		require.True(t, isOpt)
		assert.Equal(t, email("a@b.com"), opt.MustGet())
	})

	t.Run("pointer normalizes to the underlying registration", func(t *testing.T) {
		assert.True(t, r.HasConverter(reflect.TypeFor[*email]()))
	})
}

func TestRegistryFirstWriteWins(t *testing.T) {
	r := codec.NewRegistry()
	codec.Register(r, newEmail, emailString)
	// A second registration for the same type must not replace the first.
	codec.Register(r, func(value, field string) (email, error) {
		return email("hijacked"), nil
	}, emailString)

	conv, ok := r.Converter(reflect.TypeFor[email]())
	require.True(t, ok)

	ctx, sc := scope.Begin(context.Background())
	defer sc.End()
	v, ok := conv.Read(ctx, json.RawMessage(`"a@b.com"`))
	require.True(t, ok)
	assert.Equal(t, email("a@b.com"), v)
}

func TestRegistryConcurrentRegistration(t *testing.T) {
	r := codec.NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			codec.Register(r, newEmail, emailString)
			r.HasConverter(reflect.TypeFor[email]())
		}()
	}
	wg.Wait()

	assert.True(t, r.HasConverter(reflect.TypeFor[email]()))
}

func TestRegistryClear(t *testing.T) {
	r := newTestRegistry()
	require.True(t, r.HasConverter(reflect.TypeFor[email]()))

	r.Clear()
	assert.False(t, r.HasConverter(reflect.TypeFor[email]()))
}

func TestRegisterPanicsOnNilFuncs(t *testing.T) {
	r := codec.NewRegistry()
	assert.Panics(t, func() {
		codec.Register[email, string](r, nil, emailString)
	})
	assert.Panics(t, func() {
		codec.Register[email, string](r, newEmail, nil)
	})
}

func TestRegisterConstructible(t *testing.T) {
	t.Run("derives all three artifacts from the capability", func(t *testing.T) {
		r := codec.NewRegistry()
		codec.RegisterConstructible[username](r)

		ut := reflect.TypeFor[username]()
		assert.True(t, r.HasConverter(ut))

		construct, ok := r.Construct(ut)
		require.True(t, ok)
		v, err := construct("gopher", "nick")
		require.NoError(t, err)
		assert.Equal(t, username("gopher"), v)

		_, ok = r.WrapperFactory(ut)
		assert.True(t, ok)

		assert.True(t, r.HasConverter(reflect.TypeFor[fieldbind.Optional[username]]()))
	})

	t.Run("panics without the capability", func(t *testing.T) {
		r := codec.NewRegistry()
		assert.Panics(t, func() {
			codec.RegisterConstructible[struct{ X int }](r)
		})
	})
}

func TestConstructDelegate(t *testing.T) {
	r := newTestRegistry()
	construct, ok := r.Construct(reflect.TypeFor[count]())
	require.True(t, ok)

	t.Run("accepts the registered primitive", func(t *testing.T) {
		v, err := construct(int64(42), "amount")
		require.NoError(t, err)
		assert.Equal(t, count(42), v)
	})

	t.Run("coerces integral json numbers", func(t *testing.T) {
		v, err := construct(float64(42), "amount")
		require.NoError(t, err)
		assert.Equal(t, count(42), v)
	})

	t.Run("refuses fractional numbers for integer targets", func(t *testing.T) {
		_, err := construct(1.5, "amount")
		assert.Error(t, err)
	})

	t.Run("refuses cross-kind values", func(t *testing.T) {
		_, err := construct("42", "amount")
		assert.Error(t, err)
	})

	t.Run("domain failure propagates", func(t *testing.T) {
		_, err := construct(int64(0), "amount")
		assert.Error(t, err)
	})
}
