// Package statement parses and runs one-line GET/PUT statements.
//
// Grammar:
//
//	statement = op key [value]
//	op        = "GET" | "PUT"            ; case-insensitive
//	key       = bare | quoted
//	bare      = 1*<non-space byte>       ; may not start with '"'
//	quoted    = <JSON string literal>    ; for keys containing spaces
//	value     = <one JSON value>         ; PUT only, the rest of the line
//
// GET takes exactly one key. PUT requires a value, which may itself contain
// spaces. Tokens are separated by ASCII whitespace.
package statement

import (
	"fmt"
	"strings"

	"kvdb/pkg/jsonval"
	"kvdb/pkg/property"
)

type Op uint8

const (
	OpGet Op = iota + 1
	OpPut
)

func (o Op) String() string {
	switch o {
	case OpGet:
		return "GET"
	case OpPut:
		return "PUT"
	default:
		return fmt.Sprintf("Op(%d)", uint8(o))
	}
}

// Statement is one parsed operation with its operands.
type Statement struct {
	Op    Op
	Key   string
	Value jsonval.Value // PUT only
}

// Parse turns one line into a validated statement. Every error is a
// *ParseError; keys and values over the record limits also match
// dberrors.ErrKeyTooLong and dberrors.ErrValueTooLong.
func Parse(line string) (Statement, error) {
	p := &parser{input: []byte(line)}

	p.skipSpace()
	if p.eof() {
		return Statement{}, p.errorf(p.idx, "expect operation")
	}

	opPos := p.idx
	word := p.word()

	var stmt Statement
	switch {
	case strings.EqualFold(word, "get"):
		stmt.Op = OpGet
	case strings.EqualFold(word, "put"):
		stmt.Op = OpPut
	default:
		return Statement{}, p.errorf(opPos, "unsupported operation %q", word)
	}

	p.skipSpace()
	if p.eof() {
		return Statement{}, p.errorf(p.idx, "expect key after %v", stmt.Op)
	}

	keyPos := p.idx
	if p.input[p.idx] == '"' {
		key, err := p.quoted()
		if err != nil {
			return Statement{}, err
		}
		stmt.Key = key
	} else {
		stmt.Key = p.word()
	}

	if err := property.ValidateKey(stmt.Key); err != nil {
		e := p.errorf(keyPos, "bad key")
		e.Err = err
		return Statement{}, e
	}

	switch stmt.Op {
	case OpGet:
		p.skipSpace()
		if !p.eof() {
			return Statement{}, p.errorf(p.idx, "unexpected input after key")
		}

	case OpPut:
		if !p.eof() && !isSpace(p.input[p.idx]) {
			return Statement{}, p.errorf(p.idx, "expect space after key")
		}

		p.skipSpace()
		if p.eof() {
			return Statement{}, p.errorf(p.idx, "expect value after key")
		}

		valuePos := p.idx
		value, err := jsonval.Parse(p.rest())
		if err != nil {
			e := p.errorf(valuePos, "bad value")
			e.Err = err
			return Statement{}, e
		}
		if err := property.Validate(stmt.Key, value); err != nil {
			e := p.errorf(valuePos, "bad value")
			e.Err = err
			return Statement{}, e
		}
		stmt.Value = value
	}

	return stmt, nil
}
