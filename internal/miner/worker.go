// Package miner wires the mining components together: the keypair pool,
// hash engine, job slot, submission client, and reward store, running one
// goroutine per worker.
package miner

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/fatih/color"

	"github.com/davidzita/clcminer/internal/hashengine"
	"github.com/davidzita/clcminer/internal/job"
	"github.com/davidzita/clcminer/internal/keypairpool"
	"github.com/davidzita/clcminer/internal/observatory"
	"github.com/davidzita/clcminer/internal/rewards"
	"github.com/davidzita/clcminer/internal/solution"
	"github.com/davidzita/clcminer/internal/submit"
)

// waitSleep is how long an idle worker sleeps while the installed job's
// seed is "wait".
const waitSleep = 100 * time.Millisecond

// hashCountBatch is how many attempts a worker folds into the shared
// observatory in one critical section, avoiding cache-line contention on
// every single attempt.
const hashCountBatch = 100

// Worker repeatedly pulls a keypair and the current job, attempts one
// hashing trial, and on a hit builds and submits a Solution. It never
// holds the job slot's lock across hashing.
type Worker struct {
	id       int
	pool     *keypairpool.Pool
	slot     *job.Slot
	obs      *observatory.Observatory
	client   *submit.Client
	store    *rewards.Store
	reported func()
}

// NewWorker builds a Worker. reported, if non-nil, is invoked after every
// accepted solution, after the reward file write has been attempted. The
// coordinator passes nil.
func NewWorker(id int, pool *keypairpool.Pool, slot *job.Slot, obs *observatory.Observatory, client *submit.Client, store *rewards.Store, reported func()) *Worker {
	return &Worker{id: id, pool: pool, slot: slot, obs: obs, client: client, store: store, reported: reported}
}

// Run loops until ctx is cancelled, checking the cancellation at the top
// of every iteration.
func (w *Worker) Run(ctx context.Context) {
	localCount := uint64(0)

	for {
		if ctx.Err() != nil {
			return
		}

		current := w.slot.Snapshot()
		if current.IsWaiting() {
			select {
			case <-ctx.Done():
				return
			case <-time.After(waitSleep):
			}
			continue
		}

		kp, ok := w.pool.Next()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-time.After(waitSleep):
			}
			continue
		}

		digest, _, hit := hashengine.Trial(kp, current, w.obs)

		localCount++
		if localCount%hashCountBatch == 0 {
			w.obs.AddHashes(hashCountBatch)
			localCount = 0
		}

		if !hit {
			continue
		}

		sol := solution.Solution{
			PubKey:    kp.PubKey,
			PrivKey:   kp.PrivKey,
			DigestHex: hex.EncodeToString(digest[:]),
			Reward:    current.Reward,
		}
		w.handleHit(ctx, sol)
	}
}

func (w *Worker) handleHit(ctx context.Context, sol solution.Solution) {
	color.Green("\n\n[INFO] worker %d found %.2f CLCs!", w.id, sol.Reward)
	color.Cyan("[INFO] hash: %s", sol.DigestHex)

	ok, err := w.client.Submit(ctx, sol)
	if err != nil {
		color.Red("[ERROR] submission failed: %v", err)
		return
	}
	if !ok {
		color.Red("[ERROR] solution rejected by server")
		return
	}

	color.Green("[INFO] solution accepted")
	w.obs.AddMined(sol.Reward)

	coinID := uint64(time.Now().Unix())
	if err := w.store.Save(coinID, sol.PrivKeyHex()); err != nil {
		color.Red("[ERROR] %v", err)
	}
	if w.reported != nil {
		w.reported()
	}
}
