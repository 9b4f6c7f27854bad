package miner

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/davidzita/clcminer/internal/config"
	"github.com/davidzita/clcminer/internal/job"
	"github.com/davidzita/clcminer/internal/keypairpool"
	"github.com/davidzita/clcminer/internal/observatory"
	"github.com/davidzita/clcminer/internal/rewards"
	"github.com/davidzita/clcminer/internal/submit"
	"github.com/davidzita/clcminer/internal/telemetry"
)

// maxWorkers caps the worker goroutine count regardless of config.Thread
// or the host's logical CPU count, keeping a pathological config from
// spawning an unreasonable number of goroutines all contending for the
// same keypair pool and job slot.
const maxWorkers = 384

// poolCapacity sizes the pregenerated keypair pool. Each entry is 97
// bytes (65-byte pubkey + 32-byte privkey); this budgets roughly 1 GiB of
// resident keypairs, enough that workers cycle through the pool far
// slower than they mine against any single job.
const poolCapacity = (1 << 30) / 97

// totalMinedPrinterInterval is the cadence of the supplementary console
// line reporting the running total of accepted rewards, independent of
// the hashrate printer's faster cadence.
const totalMinedPrinterInterval = 10 * time.Second

// Coordinator owns every long-lived subsystem and is responsible for
// starting and stopping them together.
type Coordinator struct {
	cfg   config.Config
	obs   *observatory.Observatory
	slot  *job.Slot
	pool  *keypairpool.Pool
	store *rewards.Store
}

// New wires a Coordinator from cfg. It creates the rewards directory (via
// rewards.New) eagerly so a misconfigured path fails before any mining
// work starts.
func New(cfg config.Config) (*Coordinator, error) {
	store, err := rewards.New(cfg.RewardsDir, cfg.OnMined)
	if err != nil {
		return nil, err
	}

	return &Coordinator{
		cfg:   cfg,
		obs:   observatory.New(),
		slot:  job.NewSlot(),
		pool:  keypairpool.New(poolCapacity),
		store: store,
	}, nil
}

// workerCount resolves cfg.Thread into an actual goroutine count: -1 (or
// any non-positive value) means "use every logical CPU", clamped to
// maxWorkers.
func (c *Coordinator) workerCount() int {
	n := c.cfg.Thread
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n > maxWorkers {
		n = maxWorkers
	}
	return n
}

// Run pregenerates the keypair pool, then starts the job manager,
// telemetry, and worker goroutines, blocking until ctx is cancelled and
// every goroutine has returned.
func (c *Coordinator) Run(ctx context.Context) error {
	workers := c.workerCount()

	color.Cyan("[INFO] generating %d keypairs using %d workers...", poolCapacity, workers)
	if err := keypairpool.Pregenerate(c.pool, poolCapacity, workers); err != nil {
		return err
	}
	color.Green("[INFO] keypair pool ready")

	submitClient := submit.New(c.cfg.Server, c.cfg.PoolSecret, c.cfg.InsecureSkipVerify)
	jobManager := job.NewManager(c.cfg.Server, time.Duration(c.cfg.JobInterval)*time.Second, c.slot, c.obs, c.cfg.InsecureSkipVerify)
	reporter := telemetry.NewReporter(c.cfg.ReportServer, c.cfg.ReportUser, time.Duration(c.cfg.ReportInterval)*time.Second, c.cfg.InsecureSkipVerify)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		jobManager.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		telemetry.RunPrinter(ctx, c.obs)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		reporter.Run(ctx, c.obs)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		runTotalMinedPrinter(ctx, c.obs)
	}()

	for i := 0; i < workers; i++ {
		w := NewWorker(i, c.pool, c.slot, c.obs, submitClient, c.store, nil)
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Run(ctx)
		}()
	}

	<-ctx.Done()
	wg.Wait()
	return nil
}

// runTotalMinedPrinter prints the running total of mined rewards on a
// fixed cadence, separate from and slower than the hashrate printer.
func runTotalMinedPrinter(ctx context.Context, obs *observatory.Observatory) {
	ticker := time.NewTicker(totalMinedPrinterInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			color.Magenta("[INFO] total mined: %.2f CLC", obs.TotalMined())
		}
	}
}
