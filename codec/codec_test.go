package codec_test

import (
	"fmt"
	"regexp"

	"github.com/fieldbind/fieldbind/codec"
	"github.com/fieldbind/fieldbind/rules"
)

// Test domain types. Construct functions follow the tryConstruct shape the
// registry expects: never panic, report failures as errors.

type email string

func newEmail(value, field string) (email, error) {
	if err := rules.Apply(
		rules.Required(field, value),
		rules.Email(field, value),
	); err != nil {
		return "", err
	}
	return email(value), nil
}

func emailString(e email) string { return string(e) }

var digitRe = regexp.MustCompile(`[0-9]`)

// password fails two rules at once for short non-numeric input, producing a
// multi-message aggregate.
type password string

func newPassword(value, field string) (password, error) {
	if err := rules.Apply(
		rules.MinLen(field, value, 8),
		rules.Match(field, value, digitRe),
	); err != nil {
		return "", err
	}
	return password(value), nil
}

func passwordString(p password) string { return string(p) }

type count int64

func newCount(value int64, field string) (count, error) {
	if err := rules.Apply(rules.Between(field, value, 1, 100)); err != nil {
		return 0, err
	}
	return count(value), nil
}

func countInt(c count) int64 { return int64(c) }

// username carries the Constructor/Valuer capability and stays
// unregistered in tests exercising the reflective fallback.
type username string

func (u *username) ConstructField(value any, field string) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("invalid value %v: expected string", value)
	}
	if err := rules.Apply(
		rules.Required(field, s),
		rules.MinLen(field, s, 3),
	); err != nil {
		return err
	}
	*u = username(s)
	return nil
}

func (u username) Primitive() any { return string(u) }

// handle has the same invariants as username but registers on the fast
// path, for parity checks between the two dispatch strategies.
type handle string

func newHandle(value, field string) (handle, error) {
	if err := rules.Apply(
		rules.Required(field, value),
		rules.MinLen(field, value, 3),
	); err != nil {
		return "", err
	}
	return handle(value), nil
}

func handleString(h handle) string { return string(h) }

func newTestRegistry() *codec.Registry {
	r := codec.NewRegistry()
	codec.Register(r, newEmail, emailString)
	codec.Register(r, newPassword, passwordString)
	codec.Register(r, newCount, countInt)
	codec.Register(r, newHandle, handleString)
	return r
}
