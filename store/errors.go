package store

import (
	"errors"
	"fmt"
)

// Kind classifies persistence failures so callers never inspect driver errors.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindUnique
	KindReference
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindUnique:
		return "unique violation"
	case KindReference:
		return "invalid reference"
	default:
		return "internal"
	}
}

// Error is returned by every store implementation.
type Error struct {
	Kind   Kind
	Entity string
	Field  string // set for KindUnique when the driver reports it
	Err    error
}

func (e *Error) Error() string {
	msg := e.Entity + ": " + e.Kind.String()
	if e.Field != "" {
		msg += " (" + e.Field + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(entity string) error {
	return &Error{Kind: KindNotFound, Entity: entity}
}

func Unique(entity, field string, err error) error {
	return &Error{Kind: KindUnique, Entity: entity, Field: field, Err: err}
}

func Reference(entity string, err error) error {
	return &Error{Kind: KindReference, Entity: entity, Err: err}
}

func Internal(entity string, err error) error {
	return &Error{Kind: KindInternal, Entity: entity, Err: fmt.Errorf("db error: %w", err)}
}

// KindOf reports the Kind of err; errors not produced by a store are internal.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

func IsNotFound(err error) bool  { return err != nil && KindOf(err) == KindNotFound }
func IsUnique(err error) bool    { return err != nil && KindOf(err) == KindUnique }
func IsReference(err error) bool { return err != nil && KindOf(err) == KindReference }

// UniqueField returns the conflicting field of a unique violation, if known.
func UniqueField(err error) string {
	var se *Error
	if errors.As(err, &se) && se.Kind == KindUnique {
		return se.Field
	}
	return ""
}
