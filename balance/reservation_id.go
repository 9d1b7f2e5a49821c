package balance

import "sync/atomic"

// ReservationId is an opaque, monotone, collision-free identifier for a
// BalanceReservation. It is never reused across the process lifetime.
type ReservationId uint64

// ReservationIdAllocator hands out process-wide monotone ReservationIds. The
// zero value is ready to use; allocation is a single atomic increment, so it
// never suspends and is safe to call from inside BalanceManager's critical
// section.
type ReservationIdAllocator struct {
	counter uint64
}

// Next returns the next unused ReservationId.
func (a *ReservationIdAllocator) Next() ReservationId {
	return ReservationId(atomic.AddUint64(&a.counter, 1))
}
