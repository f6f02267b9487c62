// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cerr defines the core errors taxonomy. All failures which
// may be reported to a human are wrapped by an *Error instance whose
// Kind tells the presentation layer how the failure may be corrected.
// Other errors are wrapped with fmt.Errorf and the %w verb, so the
// Kind of the innermost *Error can be found using errors.As (or the
// KindOf helper function).
package cerr

import (
	"errors"
	"fmt"
)

// Kind enumerates the failure categories.
type Kind int

// Valid values for the Kind enum.
const (
	KindUnknown Kind = iota // zero value means not classified

	KindInvalidInput   // field validation or referential integrity
	KindLoaderNotFound // unrecognized file extension
	KindLoadingFailed  // missing file, I/O error, or malformed content
	KindWritingFailed  // I/O error while saving
)

// String returns a human readable name of the k kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindLoaderNotFound:
		return "loader not found"
	case KindLoadingFailed:
		return "loading failed"
	case KindWritingFailed:
		return "writing failed"
	default:
		return "unknown"
	}
}

// Sentinel errors which may be passed to errors.Is in order to check
// the Kind of an error chain. They carry no description.
var (
	ErrInvalidInput   = &Error{Kind: KindInvalidInput}
	ErrLoaderNotFound = &Error{Kind: KindLoaderNotFound}
	ErrLoadingFailed  = &Error{Kind: KindLoadingFailed}
	ErrWritingFailed  = &Error{Kind: KindWritingFailed}
)

// Error is a classified failure. The Err field describes the failure
// and the Kind field classifies it.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

// Is reports whether target is one of the sentinel errors (an *Error
// with no description) having the same Kind as e.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Err != nil {
		return false
	}
	return t.Kind == e.Kind
}

func InvalidInput(err error) *Error {
	return &Error{Kind: KindInvalidInput, Err: err}
}

// InvalidInputf formats its arguments like fmt.Errorf and returns the
// result as an invalid input error.
func InvalidInputf(format string, a ...any) *Error {
	return InvalidInput(fmt.Errorf(format, a...))
}

func LoaderNotFound(err error) *Error {
	return &Error{Kind: KindLoaderNotFound, Err: err}
}

func LoadingFailed(err error) *Error {
	return &Error{Kind: KindLoadingFailed, Err: err}
}

func WritingFailed(err error) *Error {
	return &Error{Kind: KindWritingFailed, Err: err}
}

// KindOf returns the Kind of the outermost *Error in the err chain.
// If err is nil or has no *Error in its chain, KindUnknown is returned.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
