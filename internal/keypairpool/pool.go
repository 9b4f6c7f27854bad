// Package keypairpool pre-generates secp256k1 keypairs so the hot mining
// loop never pays for elliptic-curve key generation itself.
package keypairpool

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/pkg/errors"
)

// Keypair is a read-only (sk, pk) pair. pk is always the 65-byte
// uncompressed SEC1 serialization (leading byte 0x04); sk is the 32-byte
// scalar that produced it. Every Keypair handed out by a Pool has already
// been accepted by the curve library's own scalar verification, since
// btcec.NewPrivateKey draws from crypto/rand and rejects out-of-range
// scalars internally before returning.
type Keypair struct {
	PubKey  [65]byte
	PrivKey [32]byte
}

// progressBatch is how often pregenerate folds per-worker counts into the
// mutex-guarded shared progress counter — a 10,000-key batch boundary
// keeps lock contention at batch boundaries, not per key. No progress
// line is printed.
const progressBatch = 10000

// Pool is a fixed-capacity, append-once sequence of Keypairs plus a
// monotonic cursor. State machine: UNINITIALIZED -> GENERATING -> READY;
// Next is only meaningful once Pregenerate has populated the pool.
type Pool struct {
	entries []Keypair
	cursor  uint64 // atomic; always taken mod len(entries)
	ready   atomic.Bool
}

// New allocates a Pool with reserved storage for capacity keypairs. No
// generation happens yet; the pool is in state UNINITIALIZED.
func New(capacity int) *Pool {
	return &Pool{entries: make([]Keypair, capacity)}
}

// ProgressFunc is the shape of a batch-progress callback: done and total
// are keypair counts, not bytes. Pregenerate neither takes nor calls one.
type ProgressFunc func(done, total int)

// Pregenerate populates the first n entries of the pool (n must not exceed
// its capacity; it is clamped otherwise) using workers concurrent
// goroutines, defaulting to the number of logical CPUs when workers <= 0.
// Each goroutine owns a disjoint, contiguous index range, so no per-entry
// lock is required — only the shared progress counter is synchronized, at
// progressBatch boundaries. Returns an error wrapping the first
// generation failure encountered by any worker — e.g. the RNG or curve
// library rejecting scalars in a way that cannot recover, such as
// crypto/rand itself failing.
func Pregenerate(pool *Pool, n, workers int) error {
	if n > len(pool.entries) {
		n = len(pool.entries)
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n && n > 0 {
		workers = n
	}

	var (
		wg       sync.WaitGroup
		progMu   sync.Mutex
		progress int
		firstErr error
		errMu    sync.Mutex
	)

	perWorker := n / workers
	remainder := n % workers
	start := 0
	for w := 0; w < workers; w++ {
		count := perWorker
		if w < remainder {
			count++
		}
		if count == 0 {
			continue
		}
		wg.Add(1)
		// btcec's curve operations are pure functions over immutable
		// package-level tables, so no per-worker context is needed here —
		// only the disjoint write range matters.
		go func(start, count int) {
			defer wg.Done()
			generated := 0
			for generated < count {
				batch := progressBatch
				if remaining := count - generated; remaining < batch {
					batch = remaining
				}
				for i := 0; i < batch; i++ {
					kp, err := generate()
					if err != nil {
						errMu.Lock()
						if firstErr == nil {
							firstErr = errors.Wrap(err, "generate keypair")
						}
						errMu.Unlock()
						return
					}
					pool.entries[start+generated+i] = kp
				}
				generated += batch

				progMu.Lock()
				progress += batch
				progMu.Unlock()
			}
		}(start, count)
		start += count
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	pool.ready.Store(true)
	return nil
}

// generate draws one verified keypair: a random scalar (redrawn on
// rejection, expected <= 2 iterations) and its uncompressed public key.
func generate() (Keypair, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return Keypair{}, err
	}
	var kp Keypair
	copy(kp.PrivKey[:], priv.Serialize())
	copy(kp.PubKey[:], priv.PubKey().SerializeUncompressed())
	return kp, nil
}

// Next returns the next keypair by shared reference, advancing the
// internal cursor. Safe under concurrent callers: the cursor is a single
// atomic counter taken mod the pool size, so the critical section is O(1)
// and lock-free. Only defined once Pregenerate has completed; calling it
// on an empty pool returns the zero Keypair and false.
func (p *Pool) Next() (Keypair, bool) {
	size := uint64(len(p.entries))
	if size == 0 || !p.ready.Load() {
		return Keypair{}, false
	}
	idx := atomic.AddUint64(&p.cursor, 1) - 1
	return p.entries[idx%size], true
}

// Len reports how many keypairs the pool holds.
func (p *Pool) Len() int {
	return len(p.entries)
}
