package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIndexOutOfRange is returned for row operations on an index that
	// does not exist. Callers should never reach it from user input.
	ErrIndexOutOfRange = errors.New("row index out of range")

	// ErrFieldValue is returned when a value does not fit the field.
	ErrFieldValue = errors.New("invalid field value")

	// ErrExportIncomplete is returned when calendar export is requested
	// while some rows still miss date, start or end time.
	ErrExportIncomplete = errors.New("not all stages have date, start and end time")
)

// IndexError wraps ErrIndexOutOfRange with the offending index.
func IndexError(index, length int) error {
	return fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfRange, index, length)
}

// ValidationWarning is raised when an action needs the user's
// confirmation, e.g. appending after a row without date or times.
type ValidationWarning struct {
	Index   int
	Missing []Field
}

func (w *ValidationWarning) Error() string {
	names := make([]string, len(w.Missing))
	for i, f := range w.Missing {
		names[i] = string(f)
	}
	return fmt.Sprintf("row %d is missing %s", w.Index, strings.Join(names, ", "))
}

// Message is the confirmation prompt shown to the user.
func (w *ValidationWarning) Message() string {
	return "Du hast Datum, Startzeit und/oder Endzeit in der letzten Zeile nicht ausgefüllt. Willst du dennoch eine neue Zeile einfügen?"
}

// GenerationError means the calendar generator rejected its input.
// No file is produced.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string { return "calendar generation failed: " + e.Err.Error() }
func (e *GenerationError) Unwrap() error { return e.Err }

// ParseError means an import document could not be decoded. The current
// state is left untouched.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "import failed: " + e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }
