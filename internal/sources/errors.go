package sources

import (
	"errors"
	"fmt"
)

// ErrInvalidRecord is wrapped by every RecordError.
var ErrInvalidRecord = errors.New("invalid record")

// RecordError reports a row that failed validation. Line is the 1-based CSV
// line; Index is the 0-based JSON array position. Only one is set.
type RecordError struct {
	Line  int
	Index int
	Field string
	Err   error
}

func (e *RecordError) Error() string {
	where := fmt.Sprintf("entry %d", e.Index)
	if e.Line > 0 {
		where = fmt.Sprintf("line %d", e.Line)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %v", where, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v", where, e.Err)
}

func (e *RecordError) Unwrap() []error {
	return []error{ErrInvalidRecord, e.Err}
}

func lineError(line int, field string, err error) error {
	return &RecordError{Line: line, Index: -1, Field: field, Err: err}
}

func indexError(index int, field string, err error) error {
	return &RecordError{Index: index, Field: field, Err: err}
}
