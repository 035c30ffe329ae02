package benchmark

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/yndnr/distkv-go/internal/storage/memory"
)

// KeyCounts are the store sizes benchmarks are run against.
var KeyCounts = []int{1000, 10000, 100000}

func keyName(i int) string {
	return fmt.Sprintf("key-%d", i)
}

// prefillStore fills a store with count keys.
func prefillStore(store *memory.Store, count int) {
	for i := 0; i < count; i++ {
		store.Set(keyName(i), "value")
	}
}

// reportMemory reports heap usage after a GC.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.HeapAlloc)/(1024*1024), prefix+"_heap_MB")
}
