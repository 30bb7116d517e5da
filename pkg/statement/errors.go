package statement

import (
	"fmt"

	"kvdb/pkg/dberrors"
)

// ParseError reports a statement that could not be parsed.
// It matches dberrors.ErrParse under errors.Is.
type ParseError struct {
	Pos int
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error at position %d: %s: %v", e.Pos, e.Msg, e.Err)
	}
	return fmt.Sprintf("parse error at position %d: %s", e.Pos, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == dberrors.ErrParse
}
