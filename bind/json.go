package bind

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// JSON creates a JSON body binder suitable for httpx.Handle or any handler
// wrapper taking a func(r *http.Request, v any) error. Field-level
// validation failures are collected into the scope carried by the request
// context; the returned error covers request-level problems only (wrong
// media type, oversized or malformed body, broken target).
func JSON(opts ...Option) func(r *http.Request, v any) error {
	o := buildOptions(opts)

	return func(r *http.Request, v any) error {
		contentType := r.Header.Get("Content-Type")
		if contentType == "" {
			return fmt.Errorf("%w: expected application/json", ErrMissingContentType)
		}

		mediaType := contentType
		if idx := strings.Index(contentType, ";"); idx != -1 {
			mediaType = strings.TrimSpace(contentType[:idx])
		}
		if mediaType != "application/json" {
			return fmt.Errorf("%w: got %s, expected application/json", ErrUnsupportedMediaType, mediaType)
		}

		data, err := io.ReadAll(io.LimitReader(r.Body, o.maxBody+1))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		if int64(len(data)) > o.maxBody {
			return fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, o.maxBody)
		}
		if len(data) == 0 {
			return fmt.Errorf("%w: empty body", ErrInvalidJSON)
		}

		return Decode(r.Context(), data, v, opts...)
	}
}
