package parallel

import "sync"

// Barrier is a reusable synchronization point for a fixed number of
// goroutines. Each call to Wait blocks until all participants have
// arrived, then releases them together and resets for the next phase.
type Barrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	parties int
	waiting int
	phase   uint64
}

// NewBarrier creates a Barrier for the given number of participants.
func NewBarrier(parties int) *Barrier {
	b := &Barrier{parties: parties}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Wait blocks until all participants have called Wait for the current
// phase, then releases every participant and advances to the next phase.
func (b *Barrier) Wait() {
	b.mu.Lock()
	defer b.mu.Unlock()

	phase := b.phase
	b.waiting++
	if b.waiting == b.parties {
		// Last arrival releases everyone and starts the next phase.
		b.waiting = 0
		b.phase++
		b.cond.Broadcast()
		return
	}

	for phase == b.phase {
		b.cond.Wait()
	}
}
