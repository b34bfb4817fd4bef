package bind_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldbind/fieldbind/bind"
	"github.com/fieldbind/fieldbind/scope"
)

func TestJSONBinder(t *testing.T) {
	binder := bind.JSON(bind.WithRegistry(testRegistry()))

	t.Run("binds a valid body", func(t *testing.T) {
		ctx, sc := scope.Begin(context.Background())
		defer sc.End()

		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.com","name":"Ada"}`))
		r.Header.Set("Content-Type", "application/json")

		var req signupRequest
		require.NoError(t, binder(r.WithContext(ctx), &req))
		assert.False(t, sc.HasErrors())
		assert.Equal(t, email("a@b.com"), req.Email)
	})

	t.Run("accepts media type parameters", func(t *testing.T) {
		ctx, sc := scope.Begin(context.Background())
		defer sc.End()

		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.com","name":"Ada"}`))
		r.Header.Set("Content-Type", "application/json; charset=utf-8")

		var req signupRequest
		assert.NoError(t, binder(r.WithContext(ctx), &req))
	})

	t.Run("missing content type", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{}`))

		var req signupRequest
		assert.ErrorIs(t, binder(r, &req), bind.ErrMissingContentType)
	})

	t.Run("unsupported media type", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{}`))
		r.Header.Set("Content-Type", "text/plain")

		var req signupRequest
		assert.ErrorIs(t, binder(r, &req), bind.ErrUnsupportedMediaType)
	})

	t.Run("empty body", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(""))
		r.Header.Set("Content-Type", "application/json")

		var req signupRequest
		assert.ErrorIs(t, binder(r, &req), bind.ErrInvalidJSON)
	})

	t.Run("body over the limit", func(t *testing.T) {
		limited := bind.JSON(bind.WithRegistry(testRegistry()), bind.WithMaxBodySize(16))

		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"note":"`+strings.Repeat("x", 64)+`"}`))
		r.Header.Set("Content-Type", "application/json")

		var req signupRequest
		assert.ErrorIs(t, limited(r, &req), bind.ErrBodyTooLarge)
	})
}
