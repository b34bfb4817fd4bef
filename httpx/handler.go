package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/fieldbind/fieldbind/bind"
	"github.com/fieldbind/fieldbind/scope"
)

// HandlerFunc is a typed request handler. It only runs when the whole
// payload bound cleanly; req never carries half-validated data.
type HandlerFunc[T any] func(ctx context.Context, req T) (any, error)

// Handle adapts a typed handler to net/http. Per request it:
//
//  1. opens an error scope, releasing it on every exit path,
//  2. binds the JSON body into T, letting converters collect every
//     field-level failure instead of stopping at the first,
//  3. short-circuits with one aggregated 422 when the scope has errors,
//  4. otherwise invokes fn and renders its result or classified error.
//
// Malformed bodies (not attributable to any field) reject with 400 before
// the handler runs. There is never more than one rejection per request.
func Handle[T any](log *slog.Logger, fn HandlerFunc[T], opts ...bind.Option) http.HandlerFunc {
	binder := bind.JSON(opts...)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, sc := scope.Begin(r.Context())
		defer sc.End()

		var req T
		if err := binder(r.WithContext(ctx), &req); err != nil {
			RespondError(ctx, w, log, err)
			return
		}

		if rep, ok := sc.Report(); ok {
			RespondError(ctx, w, log, rep)
			return
		}

		out, err := fn(ctx, req)
		if err != nil {
			RespondError(ctx, w, log, err)
			return
		}
		Respond(w, http.StatusOK, JSONResponse{Code: "ok", Data: out})
	}
}
