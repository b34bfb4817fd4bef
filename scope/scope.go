// Package scope owns the per-operation error collector and the current
// field name. Both travel with context.Context, so they follow one logical
// operation across goroutine handoffs while staying invisible to concurrent
// operations. Scopes nest: Begin captures nothing and destroys nothing —
// the parent collector simply lives on in the parent context and resumes
// untouched once the nested context goes out of use.
package scope

import (
	"context"
	"slices"
	"sync"

	"github.com/fieldbind/fieldbind"
)

type ctxKey struct{}

// Default report metadata; override per scope with WithTitle/WithCode.
const (
	defaultTitle = "Validation failed"
	defaultCode  = "validation_error"
)

// Scope is the mutable error collector for one logical operation. The lock
// guards against concurrent mutation within that operation (e.g. parallel
// sibling-field processing); cross-operation isolation comes from context
// propagation, never from the lock.
type Scope struct {
	mu        sync.Mutex
	order     []string
	fields    map[string][]string
	fieldName string
	title     string
	code      string
	ended     bool
}

// Option configures a scope at Begin time.
type Option func(*Scope)

// WithTitle overrides the report title.
func WithTitle(title string) Option {
	return func(s *Scope) {
		if title != "" {
			s.title = title
		}
	}
}

// WithCode overrides the report code.
func WithCode(code string) Option {
	return func(s *Scope) {
		if code != "" {
			s.code = code
		}
	}
}

// Begin installs a fresh empty collector as the current one and returns the
// derived context carrying it. Callers must pair every Begin with End, which
// discards the collector:
//
//	ctx, sc := scope.Begin(r.Context())
//	defer sc.End()
//
// A previously current collector stays reachable through the parent context
// and is unaffected by anything recorded in the nested scope.
func Begin(ctx context.Context, opts ...Option) (context.Context, *Scope) {
	s := &Scope{
		fields: make(map[string][]string),
		title:  defaultTitle,
		code:   defaultCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return context.WithValue(ctx, ctxKey{}, s), s
}

// Current returns the collector current for ctx, or nil outside any scope.
func Current(ctx context.Context) *Scope {
	if ctx == nil {
		return nil
	}
	s, ok := ctx.Value(ctxKey{}).(*Scope)
	if !ok {
		return nil
	}
	return s
}

// AddError records a message for a field in the current collector.
// Calls outside any scope are tolerated and do nothing.
func AddError(ctx context.Context, field, message string) {
	if s := Current(ctx); s != nil {
		s.AddError(field, message)
	}
}

// Merge records every field/message pair of an aggregate into the current
// collector. No-op outside any scope.
func Merge(ctx context.Context, agg fieldbind.Aggregate) {
	if s := Current(ctx); s != nil {
		s.Merge(agg)
	}
}

// FieldName returns the current field name for ctx, or "" outside any scope.
func FieldName(ctx context.Context) string {
	if s := Current(ctx); s != nil {
		return s.FieldName()
	}
	return ""
}

// AddError records a message for a field. Messages are deduplicated per
// field by exact match; field order is first-seen, message order insertion.
func (s *Scope) AddError(field, message string) {
	if field == "" || message == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}

	msgs, seen := s.fields[field]
	if !seen {
		s.order = append(s.order, field)
	}
	if slices.Contains(msgs, message) {
		return
	}
	s.fields[field] = append(msgs, message)
}

// Merge records every field/message pair of an aggregate, applying the
// same dedup rules as AddError.
func (s *Scope) Merge(agg fieldbind.Aggregate) {
	if agg == nil {
		return
	}
	for _, fe := range agg.FieldErrors() {
		for _, msg := range fe.Messages {
			s.AddError(fe.Field, msg)
		}
	}
}

// HasErrors reports whether anything has been collected.
func (s *Scope) HasErrors() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order) > 0
}

// Report assembles the collected errors. The second return is false when
// nothing was collected: an empty collector yields no report.
func (s *Scope) Report() (fieldbind.Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.order) == 0 {
		return fieldbind.Report{}, false
	}

	rep := fieldbind.Report{
		Title:  s.title,
		Code:   s.code,
		Fields: make([]fieldbind.FieldError, 0, len(s.order)),
	}
	for _, field := range s.order {
		rep.Fields = append(rep.Fields, fieldbind.FieldError{
			Field:    field,
			Messages: slices.Clone(s.fields[field]),
		})
	}
	return rep, true
}

// End discards the collector. Idempotent; recording after End is a no-op.
// End only affects this scope — an enclosing scope resumes exactly where it
// left off because it was never touched.
func (s *Scope) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ended = true
	s.order = nil
	s.fields = nil
}

// FieldName returns the property name errors are currently attributed to,
// or "" when no name is pushed.
func (s *Scope) FieldName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fieldName
}

// PushField sets the current field name and returns the restore function.
// Always release via defer so the previous name survives error paths:
//
//	restore := sc.PushField("email")
//	defer restore()
//
// Pushes nest: a child object's read temporarily owns the name and the
// parent's name is back in place once the restore runs.
func (s *Scope) PushField(name string) (restore func()) {
	s.mu.Lock()
	prev := s.fieldName
	s.fieldName = name
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.fieldName = prev
		s.mu.Unlock()
	}
}
