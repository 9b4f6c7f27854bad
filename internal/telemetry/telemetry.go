// Package telemetry reports the miner's hashrate locally (stdout) and,
// optionally, to a remote reporting endpoint.
package telemetry

import (
	"context"
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/fatih/color"

	"github.com/davidzita/clcminer/internal/observatory"
)

// printerInterval is the local hashrate printer's cadence — fixed,
// independent of the configurable report_interval.
const printerInterval = 3 * time.Second

// RunPrinter prints the local hashrate to stdout every 3 seconds, scaled
// to the largest appropriate unit from {H/s, KH/s, MH/s, GH/s, TH/s}. It
// deltas successive reads of TotalHashes, the cumulative counter nothing
// ever resets, so the Reporter zeroing its own report-window counter on
// a completely different cadence can never produce a negative rate here.
func RunPrinter(ctx context.Context, obs *observatory.Observatory) {
	ticker := time.NewTicker(printerInterval)
	defer ticker.Stop()

	var lastTotal uint64
	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			total := obs.TotalHashes()
			elapsed := now.Sub(lastTime).Seconds()
			rate := float64(total-lastTotal) / elapsed
			fmt.Printf("\r[INFO] %s", formatRate(rate))
			lastTotal = total
			lastTime = now
		}
	}
}

// formatRate scales a hashes-per-second value to the largest unit it
// cleanly exceeds.
func formatRate(hashesPerSec float64) string {
	units := []struct {
		threshold float64
		name      string
	}{
		{1e12, "TH/s"},
		{1e9, "GH/s"},
		{1e6, "MH/s"},
		{1e3, "KH/s"},
	}
	for _, u := range units {
		if hashesPerSec >= u.threshold {
			return fmt.Sprintf("%.2f %s", hashesPerSec/u.threshold, u.name)
		}
	}
	return fmt.Sprintf("%.2f H/s", hashesPerSec)
}

// Reporter periodically resets the report-window hash counter and GETs a
// status report to report_server, when both report_server and
// report_user are configured. The reset happens on every tick regardless
// of whether reporting is enabled, but that counter is exclusively the
// Reporter's own — RunPrinter never reads it, so the reset is invisible
// to the rest of the program.
type Reporter struct {
	client       *http.Client
	reportServer string
	reportUser   string
	interval     time.Duration
}

// NewReporter builds a Reporter. An empty reportServer or reportUser
// disables remote reporting.
func NewReporter(reportServer, reportUser string, interval time.Duration, insecureSkipVerify bool) *Reporter {
	return &Reporter{
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: insecureSkipVerify}, //nolint:gosec // matches job/submit TLS policy
			},
		},
		reportServer: reportServer,
		reportUser:   reportUser,
		interval:     interval,
	}
}

// Enabled reports whether this Reporter has both endpoint and user
// configured.
func (r *Reporter) Enabled() bool {
	return r.reportServer != "" && r.reportUser != ""
}

// Run resets hash_count and reports every interval until ctx is
// cancelled. If reporting is disabled, hash_count is still reset on
// schedule (every report_interval seconds: atomically
// read-and-reset hash_count"), but no HTTP call is made.
func (r *Reporter) Run(ctx context.Context, obs *observatory.Observatory) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count := obs.ResetHashCount()
			totalMined := obs.TotalMined()
			best := obs.BestHash()
			hashRate := float64(count) / r.interval.Seconds()

			if !r.Enabled() {
				continue
			}
			if err := r.report(ctx, hashRate, best, totalMined); err != nil {
				color.Red("[ERROR] failed to report status: %v", err)
			} else {
				color.Green("[INFO] status reported successfully")
			}
		}
	}
}

func (r *Reporter) report(ctx context.Context, hashRate float64, best [32]byte, totalMined float64) error {
	q := url.Values{}
	q.Set("user", r.reportUser)
	q.Set("speed", fmt.Sprintf("%.2f", hashRate))
	q.Set("best", hex.EncodeToString(best[:]))
	q.Set("mined", fmt.Sprintf("%.2f", totalMined))

	reqURL := r.reportServer + "/report?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}
