package journal

import (
	"errors"
	"fmt"
)

// Common sentinel errors for the journal package.
var (
	// ErrParse is returned when a value cannot be read as a calendar instant.
	ErrParse = errors.New("cannot be converted to a date")

	// ErrImmutableWrite is returned when a read-only column is mutated.
	ErrImmutableWrite = errors.New("column is read-only")

	// ErrTypeMismatch is returned for operations that are not defined on the
	// operand kinds (text arithmetic, time scaling, sums of instants, ...).
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrShapeMismatch is returned when lengths or column-name sets disagree.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrIndexKind is returned for unsupported index keys and out-of-range rows.
	ErrIndexKind = errors.New("wrong index type")

	// ErrUnknownColumn is returned when a name matches no column.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrEmptyColumn is returned by aggregates that need at least one value.
	ErrEmptyColumn = errors.New("empty column")

	// ErrSnapshotCorrupt is returned when a snapshot fails validation.
	ErrSnapshotCorrupt = errors.New("snapshot corruption detected")
)

// ParseError reports a value that is not a parseable instant.
type ParseError struct {
	Value string
	Cause error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%q cannot be converted to a date: %v", e.Value, e.Cause)
	}
	return fmt.Sprintf("%q cannot be converted to a date", e.Value)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is implements error matching for ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// IndexError describes a rejected index or key.
type IndexError struct {
	Key    any
	Reason string
}

func (e *IndexError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("wrong index %v: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("wrong index type %T", e.Key)
}

// Is implements error matching for IndexError.
func (e *IndexError) Is(target error) bool {
	return target == ErrIndexKind
}

func newIndexError(key any, format string, args ...any) *IndexError {
	return &IndexError{Key: key, Reason: fmt.Sprintf(format, args...)}
}

// ShapeError reports a length or naming mismatch.
type ShapeError struct {
	Want   any
	Got    any
	Reason string
}

func (e *ShapeError) Error() string {
	if e.Want == nil && e.Got == nil {
		return e.Reason
	}
	return fmt.Sprintf("%s (want %v, got %v)", e.Reason, e.Want, e.Got)
}

// Is implements error matching for ShapeError.
func (e *ShapeError) Is(target error) bool {
	return target == ErrShapeMismatch
}

// ColumnError reports a column name that is not part of a Matrix.
type ColumnError struct {
	Name string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("unknown column %q", e.Name)
}

// Is implements error matching for ColumnError.
func (e *ColumnError) Is(target error) bool {
	return target == ErrUnknownColumn
}

// typeMismatch wraps ErrTypeMismatch with a formatted message.
func typeMismatch(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrTypeMismatch, fmt.Sprintf(format, args...))
}

// SnapshotErrorType categorizes snapshot failures.
type SnapshotErrorType int

const (
	// SnapshotErrorTypeUnknown is an unclassified snapshot error.
	SnapshotErrorTypeUnknown SnapshotErrorType = iota
	// SnapshotErrorTypeRead indicates the backend read failed.
	SnapshotErrorTypeRead
	// SnapshotErrorTypeWrite indicates the backend write failed.
	SnapshotErrorTypeWrite
	// SnapshotErrorTypeCorruption indicates a bad magic, version or checksum.
	SnapshotErrorTypeCorruption
)

// SnapshotError provides detailed information about snapshot failures.
type SnapshotError struct {
	Type    SnapshotErrorType
	Message string
	Key     string
	Cause   error
}

func (e *SnapshotError) Error() string {
	if e.Key != "" {
		if e.Cause != nil {
			return fmt.Sprintf("%s [%s]: %v", e.Message, e.Key, e.Cause)
		}
		return fmt.Sprintf("%s [%s]", e.Message, e.Key)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *SnapshotError) Unwrap() error {
	return e.Cause
}

// Is implements error matching for SnapshotError.
func (e *SnapshotError) Is(target error) bool {
	return e.Type == SnapshotErrorTypeCorruption && target == ErrSnapshotCorrupt
}

func newSnapshotError(errType SnapshotErrorType, message, key string, cause error) *SnapshotError {
	return &SnapshotError{
		Type:    errType,
		Message: message,
		Key:     key,
		Cause:   cause,
	}
}
