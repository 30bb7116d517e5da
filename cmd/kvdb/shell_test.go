package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kvdb/pkg/property"
	"kvdb/pkg/store"
)

func TestShellSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shell.db")

	db, err := open(path)
	require.NoError(t, err)

	var out bytes.Buffer
	sh := newShell(db, "> ", &out)

	input := strings.Join([]string{
		`PUT color "red"`,
		`PUT size {"w": 1, "h": 2}`,
		`# comment`,
		`GET color`,
		`GET missing`,
		`DELETE color`,
		`.count`,
		`.keys`,
		`.write`,
		`.bogus`,
		`.quit`,
		`PUT after 1`,
	}, "\n")

	sh.run(context.Background(), strings.NewReader(input))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, `"red"`, lines[0])
	assert.Equal(t, `{"w":1,"h":2}`, lines[1])
	assert.Equal(t, `"red"`, lines[2])
	assert.Equal(t, "(not found)", lines[3])
	assert.True(t, strings.HasPrefix(lines[4], "error: "))
	assert.Equal(t, "2", lines[5])
	assert.Equal(t, []string{"color", "size"}, lines[6:8])
	assert.Equal(t, "ok", lines[8])
	assert.Contains(t, lines[9], "unknown command")

	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.EqualValues(t, 2*property.RecordSize, st.Size())

	_, err = db.Get("after")
	assert.ErrorIs(t, err, store.ErrNotFound, ".quit stops the session")
}

func TestShellPromptOnlyWhenInteractive(t *testing.T) {
	var out bytes.Buffer
	sh := newShell(store.Create(), "kvdb> ", &out)
	sh.interactive = true

	sh.run(context.Background(), strings.NewReader("GET x\n"))

	assert.Equal(t, "kvdb> (not found)\nkvdb> ", out.String())
}

func TestShellWriteWithoutPath(t *testing.T) {
	var out bytes.Buffer
	sh := newShell(store.Create(), "> ", &out)

	assert.False(t, sh.handle(".write"))
	assert.True(t, strings.HasPrefix(out.String(), "error: "))
}

func TestShellCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	sh := newShell(store.Create(), "> ", &out)

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	sh.run(ctx, r)
	assert.Empty(t, out.String())
}
