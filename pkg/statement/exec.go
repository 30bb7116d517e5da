package statement

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"kvdb/pkg/dberrors"
	"kvdb/pkg/jsonval"
	"kvdb/pkg/store"
)

// NotFound is written for a GET on a missing key. It is not valid JSON, so it
// cannot be confused with a stored value.
const NotFound = "(not found)"

// ErrorPrefix starts every error line written by Exec.
const ErrorPrefix = "error: "

type iStore interface {
	Get(key string) (jsonval.Value, error)
	Put(key string, value jsonval.Value) (store.PutResult, error)
}

// Interpreter runs statements against one store. It keeps no state of its own
// between calls.
type Interpreter struct {
	db iStore
}

func New(db iStore) *Interpreter {
	return &Interpreter{db: db}
}

// Exec parses and runs a single line, writing exactly one line of output:
// the JSON value, NotFound, or an error message. Blank lines and comments
// ("#" or "--") produce no output.
//
// The statement error, if any, is returned after its message has been
// written to w; a failed statement leaves the store unchanged. A write
// failure on w is returned as dberrors.ErrIO.
func (in *Interpreter) Exec(line string, w io.Writer) error {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "--") {
		return nil
	}

	stmt, err := Parse(line)
	if err != nil {
		return in.fail(w, err)
	}

	out, err := in.run(stmt)
	if err != nil {
		return in.fail(w, err)
	}

	if _, err := io.WriteString(w, out+"\n"); err != nil {
		return fmt.Errorf("%w: write output: %w", dberrors.ErrIO, err)
	}

	return nil
}

func (in *Interpreter) run(stmt Statement) (string, error) {
	switch stmt.Op {
	case OpGet:
		v, err := in.db.Get(stmt.Key)
		if errors.Is(err, dberrors.ErrNotFound) {
			return NotFound, nil
		}
		if err != nil {
			return "", err
		}
		return v.String(), nil

	case OpPut:
		res, err := in.db.Put(stmt.Key, stmt.Value)
		if err != nil {
			return "", err
		}
		slog.Debug("put", "key", stmt.Key, "created", res.Created)
		return stmt.Value.String(), nil
	}

	return "", fmt.Errorf("%w: unknown operation %v", dberrors.ErrInvalidArgument, stmt.Op)
}

func (in *Interpreter) fail(w io.Writer, cause error) error {
	if _, err := io.WriteString(w, ErrorPrefix+cause.Error()+"\n"); err != nil {
		return fmt.Errorf("%w: write output: %w", dberrors.ErrIO, err)
	}
	return cause
}

// Exec runs one line against db. See Interpreter.Exec.
func Exec(db iStore, line string, w io.Writer) error {
	return New(db).Exec(line, w)
}
