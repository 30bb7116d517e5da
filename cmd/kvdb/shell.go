package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"kvdb/pkg/statement"
	"kvdb/pkg/store"
)

const shellHelp = `statements:
  GET <key>
  PUT <key> <json>
commands:
  .write [path]  save the database (default: the file it was opened from)
  .keys          list keys in order
  .count         number of keys
  .help          this text
  .quit          leave the shell
`

type shell struct {
	db     *store.Database
	interp *statement.Interpreter
	out    io.Writer
	prompt string
	log    *slog.Logger

	interactive bool
}

func newShell(db *store.Database, prompt string, out io.Writer) *shell {
	return &shell{
		db:     db,
		interp: statement.New(db),
		out:    out,
		prompt: prompt,
		log:    slog.With("session", uuid.NewString()),
	}
}

// run reads lines until EOF, .quit or ctx is done.
func (s *shell) run(ctx context.Context, in io.Reader) {
	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)

	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-done:
				return
			}
		}
		if err := sc.Err(); err != nil {
			s.log.Error("failed to read input", "error", err)
		}
	}()

	for {
		s.showPrompt()

		select {
		case <-ctx.Done():
			s.log.Info("interrupted")
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if s.handle(line) {
				return
			}
		}
	}
}

func (s *shell) showPrompt() {
	if s.interactive {
		fmt.Fprint(s.out, s.prompt)
	}
}

// handle runs one line and reports whether the shell should stop.
func (s *shell) handle(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, ".") {
		if err := s.interp.Exec(line, s.out); err != nil {
			s.log.Debug("statement failed", "error", err)
		}
		return false
	}

	cmd, arg, _ := strings.Cut(trimmed, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case ".quit", ".exit":
		return true
	case ".help":
		fmt.Fprint(s.out, shellHelp)
	case ".count":
		fmt.Fprintln(s.out, s.db.Len())
	case ".keys":
		for _, k := range s.db.Keys() {
			fmt.Fprintln(s.out, k)
		}
	case ".write":
		if err := s.db.Write(arg); err != nil {
			fmt.Fprintf(s.out, "%s%v\n", statement.ErrorPrefix, err)
			return false
		}
		path := arg
		if path == "" {
			path = s.db.Path()
		}
		s.log.Info("database written", "path", path, "properties", s.db.Len())
		fmt.Fprintln(s.out, "ok")
	default:
		fmt.Fprintf(s.out, "%sunknown command %q, try .help\n", statement.ErrorPrefix, cmd)
	}

	return false
}
