package board

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is to test for them.
var (
	// ErrInvalidChar indicates a character that maps to no axis, color, piece or side.
	ErrInvalidChar = errors.New("invalid character")

	// ErrInvalidFEN indicates a malformed FEN string.
	ErrInvalidFEN = errors.New("invalid FEN string")

	// ErrPositionOutOfBounds indicates a coordinate outside the 0-7 range.
	ErrPositionOutOfBounds = errors.New("position out of bounds")

	// ErrInvalidMove indicates a move whose origin square is empty.
	ErrInvalidMove = errors.New("invalid move")
)

// FENError describes which FEN field failed to decode.
// It matches ErrInvalidFEN as well as the underlying cause.
type FENError struct {
	Field string // placement, side, castling, en passant, half-move clock, full-move clock
	Value string // the offending field text
	Err   error  // underlying cause, may be nil
}

// Error returns the field, its text and the cause.
func (e *FENError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s %q: %v", ErrInvalidFEN, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%v: %s %q", ErrInvalidFEN, e.Field, e.Value)
}

// Unwrap exposes both ErrInvalidFEN and the cause to errors.Is.
func (e *FENError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidFEN}
	}
	return []error{ErrInvalidFEN, e.Err}
}

func fenError(field, value string, err error) error {
	return &FENError{Field: field, Value: value, Err: err}
}
