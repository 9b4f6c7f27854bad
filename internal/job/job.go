// Package job models the current mining challenge and its lifecycle:
// polling the pool server, detecting seed changes, and publishing the
// installed job to workers through a race-free slot.
package job

import "encoding/hex"

// WaitSeed is the distinguished seed value meaning "no job yet — workers
// idle".
const WaitSeed = "wait"

// Job is the tuple the pool server issues: a seed string, a 32-byte
// big-endian difficulty target, the reward paid for a solution, and the
// timestamp of the last accepted solution.
type Job struct {
	Seed        string
	Diff        [32]byte
	Reward      float64
	LastFoundMs uint64
}

// Waiting is the job installed before the first successful poll: seed
// "wait", zero difficulty, nothing minable yet.
func Waiting() Job {
	return Job{Seed: WaitSeed}
}

// IsWaiting reports whether workers should idle rather than mine against
// this job.
func (j Job) IsWaiting() bool {
	return j.Seed == "" || j.Seed == WaitSeed
}

// DiffHex renders the difficulty target as 64 lowercase hex characters,
// for logging.
func (j Job) DiffHex() string {
	return hex.EncodeToString(j.Diff[:])
}
