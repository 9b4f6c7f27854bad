package job

import (
	"context"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/davidzita/clcminer/internal/observatory"
	"github.com/fatih/color"
)

// challengeResponse is the wire shape of GET {server}/get-challenge.
type challengeResponse struct {
	Seed      string  `json:"seed"`
	Diff      string  `json:"diff"`
	Reward    float64 `json:"reward"`
	LastFound uint64  `json:"lastFound"`
}

// Manager periodically polls the pool server for a challenge and
// publishes it into a Slot, resetting the shared observatory's best hash
// whenever the seed changes. State machine: NO_JOB -> HAVE_JOB(seed=s,...)
// on the first successful poll with a seed; HAVE_JOB -> HAVE_JOB(...) on
// same-seed polls is a no-op.
type Manager struct {
	client   *http.Client
	server   string
	interval time.Duration
	slot     *Slot
	obs      *observatory.Observatory
}

// NewManager builds a Manager. insecureSkipVerify controls whether its
// HTTP client verifies the pool server's TLS certificate.
func NewManager(server string, interval time.Duration, slot *Slot, obs *observatory.Observatory, insecureSkipVerify bool) *Manager {
	return &Manager{
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: insecureSkipVerify}, //nolint:gosec // configurable, see Config.InsecureSkipVerify
			},
		},
		server:   server,
		interval: interval,
		slot:     slot,
		obs:      obs,
	}
}

// Run polls until ctx is cancelled. Each tick's failure (transport error
// or malformed JSON) is logged and leaves the installed job untouched;
// the next tick retries (transport and protocol errors are
// recoverable, never fatal).
func (m *Manager) Run(ctx context.Context) {
	for {
		m.poll(ctx)

		select {
		case <-ctx.Done():
			return
		case <-time.After(m.interval):
		}
	}
}

func (m *Manager) poll(ctx context.Context) {
	newJob, err := m.fetch(ctx)
	if err != nil {
		color.Yellow("[WARN] job poll failed: %v", err)
		return
	}

	if changed := m.slot.Install(newJob); changed {
		color.Yellow("[INFO] new job")
		color.Cyan("[INFO] seed: %s", newJob.Seed)
		color.Cyan("[INFO] diff: %s", newJob.DiffHex())
		color.Green("[INFO] reward: %.2f", newJob.Reward)
		m.obs.ResetBestHash()
	}
}

func (m *Manager) fetch(ctx context.Context) (Job, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.server+"/get-challenge", nil)
	if err != nil {
		return Job{}, err
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return Job{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Job{}, err
	}

	var cr challengeResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return Job{}, err
	}
	if cr.Seed == "" {
		return Job{}, errMissingSeed
	}

	diffBytes, err := hex.DecodeString(cr.Diff)
	if err != nil || len(diffBytes) != 32 {
		return Job{}, errMalformedDiff
	}

	var j Job
	j.Seed = cr.Seed
	copy(j.Diff[:], diffBytes)
	j.Reward = cr.Reward
	j.LastFoundMs = cr.LastFound
	return j, nil
}
