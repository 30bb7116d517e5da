package statement

import (
	"encoding/json"
	"fmt"
)

type parser struct {
	input []byte
	idx   int
}

// isSpace matches ASCII whitespace only, so multi-byte UTF-8 keys are never split.
func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func (p *parser) errorf(pos int, format string, args ...any) *ParseError {
	return &ParseError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) skipSpace() {
	for p.idx < len(p.input) && isSpace(p.input[p.idx]) {
		p.idx++
	}
}

func (p *parser) eof() bool {
	return p.idx >= len(p.input)
}

// word consumes a run of non-space bytes.
func (p *parser) word() string {
	start := p.idx
	for p.idx < len(p.input) && !isSpace(p.input[p.idx]) {
		p.idx++
	}
	return string(p.input[start:p.idx])
}

// quoted consumes a JSON string literal and returns its decoded content.
func (p *parser) quoted() (string, error) {
	start := p.idx
	p.idx++ // opening quote

	for p.idx < len(p.input) {
		switch p.input[p.idx] {
		case '\\':
			p.idx += 2
			continue
		case '"':
			p.idx++
			var s string
			if err := json.Unmarshal(p.input[start:p.idx], &s); err != nil {
				e := p.errorf(start, "invalid quoted key")
				e.Err = err
				return "", e
			}
			return s, nil
		}
		p.idx++
	}

	return "", p.errorf(start, "unterminated quoted key")
}

// rest consumes everything left on the line.
func (p *parser) rest() []byte {
	r := p.input[p.idx:]
	p.idx = len(p.input)
	return r
}
