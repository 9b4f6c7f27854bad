// Package observatory holds the miner's process-wide mutable counters:
// the best digest seen under the current job, the attempt count since the
// last telemetry sample, and the running total of mined rewards. It
// replaces what would otherwise be package-level global variables with a
// struct owned by the coordinator and passed by shared reference to
// every subsystem that needs it.
package observatory

import (
	"bytes"
	"sync"
)

// maxDigest is the all-0xFF sentinel a 32-byte digest can never exceed —
// the initial/reset value of BestHash.
var maxDigest = [32]byte{
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
}

// Observatory guards best_hash, hash_count, total_hashes, and
// total_mined behind a single mutex; every critical section is O(32
// bytes) at most.
type Observatory struct {
	mu          sync.Mutex
	bestHash    [32]byte
	hashCount   uint64
	totalHashes uint64
	totalMined  float64
}

// New returns an Observatory with best_hash initialized to all-0xFF, as
// if a job had just been installed.
func New() *Observatory {
	return &Observatory{bestHash: maxDigest}
}

// ObserveDigest compares digest against the current best and replaces it
// if digest is strictly smaller byte-wise (big-endian, MSB first). Ties
// do not update.
func (o *Observatory) ObserveDigest(digest [32]byte) {
	o.mu.Lock()
	if bytes.Compare(digest[:], o.bestHash[:]) < 0 {
		o.bestHash = digest
	}
	o.mu.Unlock()
}

// BestHash returns a copy of the current best digest.
func (o *Observatory) BestHash() [32]byte {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.bestHash
}

// ResetBestHash sets best_hash back to all-0xFF. Called by the job
// manager on every job transition, right after Slot.Install has swapped
// the job and released the job lock — see internal/job.Manager.poll. The
// job lock and the observatory lock are never held together, so a digest
// a worker observes against the new job between that swap and this reset
// is discarded by the reset.
func (o *Observatory) ResetBestHash() {
	o.mu.Lock()
	o.bestHash = maxDigest
	o.mu.Unlock()
}

// AddHashes folds a worker's batched local attempt count into both the
// resettable window counter and the cumulative total. Workers call this
// every 100 attempts, not every attempt, to keep this critical section
// off the hot path.
func (o *Observatory) AddHashes(n uint64) {
	o.mu.Lock()
	o.hashCount += n
	o.totalHashes += n
	o.mu.Unlock()
}

// ResetHashCount atomically reads and zeroes the report-window attempt
// counter. This is the remote reporter's exclusive operation — it never
// touches TotalHashes, so nothing else that deltas against a cumulative
// source can be disturbed by it.
func (o *Observatory) ResetHashCount() uint64 {
	o.mu.Lock()
	n := o.hashCount
	o.hashCount = 0
	o.mu.Unlock()
	return n
}

// TotalHashes reads the cumulative attempt count, which is never reset by
// any caller. The local hashrate printer deltas successive reads of this
// against wall-clock time, so it stays correct regardless of how often
// (or rarely) the reporter resets the separate report-window counter.
func (o *Observatory) TotalHashes() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.totalHashes
}

// AddMined adds reward to the running total of accepted solutions.
func (o *Observatory) AddMined(reward float64) {
	o.mu.Lock()
	o.totalMined += reward
	o.mu.Unlock()
}

// TotalMined returns the running sum of rewards from accepted solutions.
func (o *Observatory) TotalMined() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.totalMined
}
