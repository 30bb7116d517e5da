package store

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"testing"
)

func newTestStore(b testing.TB, preloaded int) *Database {
	db := Create()
	for i := 0; i < preloaded; i++ {
		if _, err := db.Put(fmt.Sprintf("key-%d", i), val(fmt.Sprintf(`"value-%d"`, i))); err != nil {
			b.Fatalf("Put failed: %v", err)
		}
	}
	return db
}

func BenchmarkStoreWrite(b *testing.B) {
	db := newTestStore(b, 0)
	defer db.Close()

	v := val(`{"payload":"value"}`)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := db.Put(fmt.Sprintf("key-%d", i), v); err != nil {
			b.Fatalf("Put failed: %v", err)
		}
	}
}

func BenchmarkStoreRead(b *testing.B) {
	const preloaded = 10_000
	db := newTestStore(b, preloaded)
	defer db.Close()

	b.ReportAllocs()
	b.ResetTimer()

	rng := rand.New(rand.NewSource(42))

	for i := 0; i < b.N; i++ {
		key := fmt.Sprintf("key-%d", rng.Intn(preloaded))
		if _, err := db.Get(key); err != nil {
			b.Fatalf("Get failed: %v", err)
		}
	}
}

func BenchmarkStorePersist(b *testing.B) {
	db := newTestStore(b, 1_000)
	defer db.Close()
	path := filepath.Join(b.TempDir(), "bench.db")

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if err := db.Write(path); err != nil {
			b.Fatalf("Write failed: %v", err)
		}
		if _, err := Construct(path); err != nil {
			b.Fatalf("Construct failed: %v", err)
		}
	}
}
