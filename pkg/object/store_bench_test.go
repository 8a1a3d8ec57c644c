package object

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/odvcencio/g1t/pkg/fsys"
)

func newBenchStore(b *testing.B, opts ...StoreOption) *Store {
	b.Helper()
	fs := fsys.NewDisk(b.TempDir())
	if err := fs.CreateDir("objects"); err != nil {
		b.Fatalf("mkdir: %v", err)
	}
	s, err := NewStore(fs, "objects", opts...)
	if err != nil {
		b.Fatalf("NewStore: %v", err)
	}
	return s
}

// BenchmarkStorePutSmall writes distinct 100-byte blobs so every Put misses
// the exists fast path.
func BenchmarkStorePutSmall(b *testing.B) {
	s := newBenchStore(b)
	blobs := make([]*Blob, b.N)
	for i := range blobs {
		buf := make([]byte, 100)
		if _, err := rand.Read(buf); err != nil {
			b.Fatalf("rand.Read: %v", err)
		}
		blobs[i] = NewBlob(buf)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Put(blobs[i]); err != nil {
			b.Fatalf("Put: %v", err)
		}
	}
}

func BenchmarkStorePutExisting(b *testing.B) {
	s := newBenchStore(b)
	blob := NewBlob([]byte("already stored"))
	if _, err := s.Put(blob); err != nil {
		b.Fatalf("Put: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Put(blob); err != nil {
			b.Fatalf("Put: %v", err)
		}
	}
}

func BenchmarkStoreRead(b *testing.B) {
	for _, cache := range []int{0, 256} {
		b.Run(fmt.Sprintf("cache=%d", cache), func(b *testing.B) {
			s := newBenchStore(b, WithCacheSize(cache))
			payload := bytes.Repeat([]byte("package main\n"), 64)
			h, err := s.Put(NewBlob(payload))
			if err != nil {
				b.Fatalf("Put: %v", err)
			}

			b.SetBytes(int64(len(payload)))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := s.ReadBlob(h); err != nil {
					b.Fatalf("ReadBlob: %v", err)
				}
			}
		})
	}
}
