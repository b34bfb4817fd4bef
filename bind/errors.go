package bind

import "errors"

// Request-level binding errors. Field-level failures never surface here —
// they are recorded into the current scope so sibling fields keep parsing.
var (
	ErrInvalidJSON          = errors.New("invalid JSON")
	ErrMissingContentType   = errors.New("missing content type")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrBodyTooLarge         = errors.New("request body too large")
	ErrInvalidTarget        = errors.New("invalid bind target")
)
