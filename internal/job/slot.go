package job

import "sync"

// Slot is the coordinator-owned holder for the currently installed job.
// Readers (workers) call Snapshot, which copies the primitive fields and
// clones the seed string while holding the lock only long enough to do
// that — workers must never hold this lock across hashing. Writers (the
// job manager) call Install, which atomically replaces the job; the old
// value is simply dropped, an opaque-holder replacement for the
// original's raw-pointer, null-out-to-avoid-double-free job passing.
type Slot struct {
	mu  sync.Mutex
	job Job
}

// NewSlot returns a Slot pre-populated with Waiting().
func NewSlot() *Slot {
	return &Slot{job: Waiting()}
}

// Snapshot returns an owned copy of the current job. Job contains no
// pointers or slices needing a deep copy, so the copy returned here is
// already fully independent of the slot's internal state.
func (s *Slot) Snapshot() Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.job
}

// Install replaces the current job only when newJob's seed differs from
// the one already installed, and reports whether that replacement
// happened. A same-seed poll is a no-op: the installed job is left
// untouched rather than overwritten with an equal-but-distinct copy.
func (s *Slot) Install(newJob Job) (changed bool) {
	s.mu.Lock()
	changed = s.job.Seed != newJob.Seed
	if changed {
		s.job = newJob
	}
	s.mu.Unlock()
	return changed
}
