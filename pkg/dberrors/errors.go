package dberrors

import "errors"

var (
	ErrKeyTooLong      = errors.New("kvdb: key too long")
	ErrValueTooLong    = errors.New("kvdb: value too long")
	ErrMalformedRecord = errors.New("kvdb: malformed record")
	ErrInvalidJSON     = errors.New("kvdb: invalid json")
	ErrCorruptFile     = errors.New("kvdb: corrupt file")
	ErrNotFound        = errors.New("kvdb: not found")
	ErrIO              = errors.New("kvdb: io error")
	ErrParse           = errors.New("kvdb: parse error")
	ErrClosed          = errors.New("kvdb: closed")
	ErrInvalidArgument = errors.New("kvdb: invalid argument")
)
