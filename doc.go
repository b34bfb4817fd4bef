// Package fieldbind provides multi-error validation aggregation for JSON
// request binding.
//
// Standard JSON deserialization stops at the first invalid field. fieldbind
// keeps going: every domain-invalid field is recorded into a request-scoped
// collector and the caller receives one aggregated report covering the whole
// payload. The pieces fit together like this:
//
//   - Report and FieldError (this package) are the aggregated output shape.
//   - Package scope owns the per-request collector and the current field
//     name; both travel with context.Context so concurrent requests never
//     observe each other's errors.
//   - Package codec holds the type construction registry, the validating
//     converters, and the Named wrapper that attributes errors to DTO
//     property names instead of type names.
//   - Package bind walks a target struct against a JSON body using the
//     registry, recording field errors as it goes.
//   - Package httpx turns a non-empty report into a single 422 rejection.
//
// Domain value types participate by exposing a validating constructor that
// returns an error instead of panicking; see codec.Register and
// codec.Constructor.
package fieldbind
