// Package index keeps properties ordered by key.
//
// Keys compare byte-lexicographically, which is the order records are written
// to disk in. The underlying skip list gives expected logarithmic descent even
// for sorted-insert workloads, so no explicit rebalancing is needed.
package index

import (
	"iter"
	"sync/atomic"

	"github.com/zhangyunhao116/skipmap"

	"kvdb/pkg/jsonval"
	"kvdb/pkg/property"
)

type orderedMap = skipmap.FuncMap[string, *property.Property]

// Index is a unique-key ordered set of properties.
//
// Individual calls are safe for concurrent use, but Upsert is a
// read-then-write and must be serialized by the caller to report the
// previous value reliably.
type Index struct {
	m atomic.Pointer[orderedMap]
}

func New() *Index {
	ix := &Index{}
	ix.m.Store(newOrderedMap())
	return ix
}

func newOrderedMap() *orderedMap {
	return skipmap.NewFunc[string, *property.Property](func(a, b string) bool {
		return a < b
	})
}

// Upsert inserts key, or replaces its value if it is already present.
// It returns the previous value and true on replacement.
func (ix *Index) Upsert(key string, value jsonval.Value) (jsonval.Value, bool) {
	m := ix.m.Load()

	node := &property.Property{Key: key, Value: value}
	prev, loaded := m.LoadOrStore(key, node)
	if !loaded {
		return jsonval.Value{}, false
	}

	m.Store(key, node)

	return prev.Value, true
}

// Find returns the value stored for key.
func (ix *Index) Find(key string) (jsonval.Value, bool) {
	p, ok := ix.m.Load().Load(key)
	if !ok {
		return jsonval.Value{}, false
	}
	return p.Value, true
}

// All yields every pair in ascending key order. The sequence may be ranged
// over any number of times; each pass walks the index afresh.
func (ix *Index) All() iter.Seq2[string, jsonval.Value] {
	return func(yield func(string, jsonval.Value) bool) {
		ix.m.Load().Range(func(key string, p *property.Property) bool {
			return yield(key, p.Value)
		})
	}
}

// Keys returns the keys in ascending order.
func (ix *Index) Keys() []string {
	m := ix.m.Load()
	keys := make([]string, 0, m.Len())
	m.Range(func(key string, _ *property.Property) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

func (ix *Index) Len() int {
	return ix.m.Load().Len()
}

// Clear drops every node.
func (ix *Index) Clear() {
	ix.m.Store(newOrderedMap())
}
