package engine

import "fenrir/internal/decimal"

// DefaultMaxOrdersPerSecond is spec.md §4.5.1's default admission ceiling.
const DefaultMaxOrdersPerSecond = 50_000

// Config configures a new Engine. MakerFeeRate and TakerFeeRate must be
// non-negative decimals <= 1 (spec.md §4.5).
type Config struct {
	MakerFeeRate decimal.Decimal
	TakerFeeRate decimal.Decimal

	// MaxOrdersPerSecond bounds admissions in the trailing 1s window.
	// Zero means DefaultMaxOrdersPerSecond.
	MaxOrdersPerSecond int

	// RecyclerCapacity, if > 0, enables the object recycler (spec.md §4.7)
	// with a free list of this size. Zero disables recycling entirely —
	// every order is a plain heap allocation, and the engine still behaves
	// identically (recycling is an optimization, never a correctness
	// dependency).
	RecyclerCapacity int

	// CollectMemoryStats enables the runtime.ReadMemStats probe backing
	// Stats.HeapAllocBytes. Off by default since it is a global,
	// stop-the-world-adjacent syscall best reserved for diagnostics.
	CollectMemoryStats bool
}

// Stats is the aggregate read view spec.md §4.5.7 calls engine_stats().
type Stats struct {
	OrdersAdmitted int64
	TradesEmitted  int64
	RecentRate     int // orders admitted in the trailing 1s window

	// HeapAllocBytes is populated only when Config.CollectMemoryStats is set.
	HeapAllocBytes uint64
	HasMemoryStats bool
}
