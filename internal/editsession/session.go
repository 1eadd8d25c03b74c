// Package editsession models the lifecycle of an inline edit: open a draft
// copy of a row, apply field edits, then submit or cancel. The draft never
// aliases the row it came from, so an abandoned edit leaves no trace.
package editsession

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shelfmark/shelfmark-server/internal/errors"
)

// FieldKind selects the coercion applied to a raw string edit.
type FieldKind int

const (
	// KindString stores the raw value as-is.
	KindString FieldKind = iota
	// KindNumber parses the value as a decimal number.
	KindNumber
	// KindDate parses the value as a 2006-01-02 calendar day.
	KindDate
)

// DateFormat is the accepted layout for KindDate edits.
const DateFormat = "2006-01-02"

// Field describes one editable field of the draft.
// Set applies an already-coerced value to the draft; the coerced value is a
// string, float64, or time.Time per Kind.
type Field[T any] struct {
	Name string
	Kind FieldKind
	Set  func(draft T, value any)
}

// CommitFunc persists a submitted draft and returns the stored row.
type CommitFunc[T any] func(ctx context.Context, draft T) (T, error)

// Cloner deep-copies itself; drafts are built from clones.
type Cloner[T any] interface {
	Clone() T
}

// Session drives one row's edit lifecycle: Closed -> Editing -> Closed.
// Zero or one draft exists at a time.
type Session[T Cloner[T]] struct {
	fields map[string]Field[T]
	commit CommitFunc[T]

	editing bool
	draft   T
	lastErr error

	// fieldErrs collects per-field coercion failures, reported on submit.
	fieldErrs map[string]string
}

// New creates a session with the given editable fields and commit func.
func New[T Cloner[T]](fields []Field[T], commit CommitFunc[T]) *Session[T] {
	byName := make(map[string]Field[T], len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}
	return &Session[T]{fields: byName, commit: commit}
}

// Open starts editing a deep copy of row. Opening while editing replaces the
// current draft.
func (s *Session[T]) Open(row T) {
	s.draft = row.Clone()
	s.editing = true
	s.lastErr = nil
	s.fieldErrs = nil
}

// Editing reports whether a draft is open.
func (s *Session[T]) Editing() bool {
	return s.editing
}

// Draft returns the current draft. Only meaningful while Editing.
func (s *Session[T]) Draft() T {
	return s.draft
}

// LastError returns the error from the most recent failed submit, or nil.
func (s *Session[T]) LastError() error {
	return s.lastErr
}

// UpdateField coerces raw per the field's kind and applies it to the draft.
// Unknown fields are ignored. Coercion failures are recorded against the
// field and surface as a VALIDATION error on submit; the draft keeps its
// previous value for that field.
func (s *Session[T]) UpdateField(name, raw string) {
	if !s.editing {
		return
	}
	f, ok := s.fields[name]
	if !ok {
		return
	}

	value, err := coerce(f.Kind, raw)
	if err != nil {
		if s.fieldErrs == nil {
			s.fieldErrs = make(map[string]string)
		}
		s.fieldErrs[name] = err.Error()
		return
	}
	delete(s.fieldErrs, name)
	f.Set(s.draft, value)
}

// Cancel discards the draft and closes the session.
func (s *Session[T]) Cancel() {
	var zero T
	s.draft = zero
	s.editing = false
	s.lastErr = nil
	s.fieldErrs = nil
}

// Submit commits the draft. On success the session closes and the committed
// row is returned; ReplaceByID can then fold it back into a list snapshot.
// On failure the session stays open with the draft intact and LastError set.
func (s *Session[T]) Submit(ctx context.Context) (T, error) {
	var zero T
	if !s.editing {
		return zero, errors.Conflict("no edit in progress")
	}

	if len(s.fieldErrs) > 0 {
		err := errors.ValidationWithFields("validation failed", s.fieldErrs)
		s.lastErr = err
		return zero, err
	}

	committed, err := s.commit(ctx, s.draft)
	if err != nil {
		s.lastErr = err
		return zero, err
	}

	s.Cancel()
	return committed, nil
}

// ReplaceByID swaps the row whose id matches updated into rows, returning
// whether a match was found. Identity is the immutable record id, never a
// mutable field like email.
func ReplaceByID[T any](rows []T, id func(T) string, updated T) bool {
	target := id(updated)
	for i, row := range rows {
		if id(row) == target {
			rows[i] = updated
			return true
		}
	}
	return false
}

func coerce(kind FieldKind, raw string) (any, error) {
	switch kind {
	case KindString:
		return raw, nil
	case KindNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("must be a number")
		}
		return n, nil
	case KindDate:
		t, err := time.Parse(DateFormat, raw)
		if err != nil {
			return nil, fmt.Errorf("must be a date in %s form", DateFormat)
		}
		return t, nil
	}
	return nil, fmt.Errorf("unknown field kind %d", kind)
}
