package engine

import "runtime"

// readHeapAlloc backs Stats.HeapAllocBytes (spec.md §4.5.7: "per-process
// memory probe if available").
func readHeapAlloc() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.HeapAlloc
}
