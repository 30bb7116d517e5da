package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"kvdb/pkg/index"
	"kvdb/pkg/jsonval"
	"kvdb/pkg/property"
)

// PutResult describes what a Put replaced.
type PutResult struct {
	// Created is true when the key was not present before the Put.
	Created bool
	// Previous holds the replaced value. It is zero when Created is true.
	Previous jsonval.Value
}

// Database owns one ordered index and the file it is persisted to.
//
// A single lock guards the whole database: lookups and traversals take it
// shared, mutations take it exclusively.
type Database struct {
	mu     sync.RWMutex
	ix     *index.Index
	path   string
	closed bool
}

// Create returns an empty in-memory database with no backing file.
func Create() *Database {
	return &Database{ix: index.New()}
}

// Construct loads the database stored at path. A missing file yields an
// empty database bound to path; it is created by the first Save.
// Any undecodable record rejects the whole file.
func Construct(path string) (*Database, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty database path", ErrInvalidArgument)
	}

	db := &Database{ix: index.New(), path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("database file not found, starting empty", "path", path)
		return db, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read database: %w", ErrIO, err)
	}

	ix, err := load(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	db.ix = ix

	slog.Debug("database loaded", "path", path, "properties", ix.Len())

	return db, nil
}

// load decodes a whole file into a fresh index.
func load(data []byte) (*index.Index, error) {
	if len(data)%property.RecordSize != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of %d",
			ErrCorruptFile, len(data), property.RecordSize)
	}

	ix := index.New()
	for off := 0; off < len(data); off += property.RecordSize {
		n := off / property.RecordSize

		p, err := property.Decode(data[off : off+property.RecordSize])
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrCorruptFile, n, err)
		}

		if _, dup := ix.Upsert(p.Key, p.Value); dup {
			return nil, fmt.Errorf("%w: record %d: duplicate key %q", ErrCorruptFile, n, p.Key)
		}
	}

	return ix, nil
}

// Put stores value under key, replacing any previous value.
// Oversized keys and values are rejected and leave the database unchanged.
func (db *Database) Put(key string, value jsonval.Value) (PutResult, error) {
	if err := property.Validate(key, value); err != nil {
		return PutResult{}, fmt.Errorf("put: %w", err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return PutResult{}, ErrClosed
	}

	prev, replaced := db.ix.Upsert(key, value)

	return PutResult{Created: !replaced, Previous: prev}, nil
}

// Get returns the value stored under key, or ErrNotFound.
func (db *Database) Get(key string) (jsonval.Value, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.closed {
		return jsonval.Value{}, ErrClosed
	}

	v, ok := db.ix.Find(key)
	if !ok {
		return jsonval.Value{}, ErrNotFound
	}

	return v, nil
}

// Write persists every property to path in ascending key order, replacing
// the file atomically. An empty path means the path the database was
// constructed from.
func (db *Database) Write(path string) error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.closed {
		return ErrClosed
	}

	if path == "" {
		path = db.path
	}
	if path == "" {
		return fmt.Errorf("%w: database has no backing file", ErrInvalidArgument)
	}

	data, err := db.encode()
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	if err := writeFileAtomic(path, data); err != nil {
		return err
	}

	slog.Debug("database written", "path", path, "properties", len(data)/property.RecordSize, "bytes", len(data))

	return nil
}

// Save writes the database back to the file it was constructed from.
func (db *Database) Save() error {
	return db.Write("")
}

// encode renders the whole index into one buffer so that nothing reaches
// disk if any record fails to encode.
func (db *Database) encode() ([]byte, error) {
	data := make([]byte, 0, db.ix.Len()*property.RecordSize)
	rec := make([]byte, property.RecordSize)

	for key, value := range db.ix.All() {
		if err := property.EncodeTo(rec, key, value); err != nil {
			return nil, fmt.Errorf("encode %q: %w", key, err)
		}
		data = append(data, rec...)
	}

	return data, nil
}

// Range calls fn for each property in ascending key order until fn returns
// false. fn must not call methods that modify db.
func (db *Database) Range(fn func(key string, value jsonval.Value) bool) error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.closed {
		return ErrClosed
	}

	for key, value := range db.ix.All() {
		if !fn(key, value) {
			break
		}
	}

	return nil
}

// Keys returns the stored keys in ascending order.
func (db *Database) Keys() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.closed {
		return nil
	}
	return db.ix.Keys()
}

// Len is the number of stored properties.
func (db *Database) Len() int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.closed {
		return 0
	}
	return db.ix.Len()
}

// Path is the backing file, or "" for an in-memory database.
func (db *Database) Path() string {
	return db.path
}

// Close releases the index. Later calls fail with ErrClosed.
// Unsaved changes are dropped.
func (db *Database) Close() {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return
	}

	db.ix.Clear()
	db.closed = true
}
