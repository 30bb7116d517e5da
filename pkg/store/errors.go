package store

import "kvdb/pkg/dberrors"

var (
	ErrNotFound        = dberrors.ErrNotFound
	ErrClosed          = dberrors.ErrClosed
	ErrCorruptFile     = dberrors.ErrCorruptFile
	ErrIO              = dberrors.ErrIO
	ErrInvalidArgument = dberrors.ErrInvalidArgument
)
