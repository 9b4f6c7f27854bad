package job

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/davidzita/clcminer/internal/observatory"
)

func allFFDigest() [32]byte {
	var b [32]byte
	for i := range b {
		b[i] = 0xff
	}
	return b
}

func TestPollInstallsNewSeedAndResetsBestHash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"seed":"abc","diff":"` + strings.Repeat("ff", 32) + `","reward":1.5,"lastFound":1000}`))
	}))
	defer srv.Close()

	slot := NewSlot()
	obs := observatory.New()
	var small [32]byte
	small[0] = 0x01
	obs.ObserveDigest(small)

	mgr := NewManager(srv.URL, time.Hour, slot, obs, true)
	mgr.poll(context.Background())

	got := slot.Snapshot()
	if got.Seed != "abc" {
		t.Fatalf("Seed = %q, want abc", got.Seed)
	}
	if got.Reward != 1.5 {
		t.Fatalf("Reward = %v, want 1.5", got.Reward)
	}
	if got.Diff != allFFDigest() {
		t.Fatalf("Diff = %x, want all-ff", got.Diff)
	}
	if obs.BestHash() != allFFDigest() {
		t.Fatalf("best hash was not reset on job transition")
	}
}

func TestPollSameSeedIsNoopAndDoesNotResetBestHash(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`{"seed":"same","diff":"` + strings.Repeat("00", 32) + `","reward":1,"lastFound":0}`))
	}))
	defer srv.Close()

	slot := NewSlot()
	obs := observatory.New()
	mgr := NewManager(srv.URL, time.Hour, slot, obs, true)

	mgr.poll(context.Background())
	var small [32]byte
	small[0] = 0x02
	obs.ObserveDigest(small)

	mgr.poll(context.Background())

	if obs.BestHash() != small {
		t.Fatalf("same-seed poll incorrectly reset best hash")
	}
}

func TestPollMissingSeedLeavesJobUnchanged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"diff":"` + strings.Repeat("ff", 32) + `","reward":1}`))
	}))
	defer srv.Close()

	slot := NewSlot()
	obs := observatory.New()
	mgr := NewManager(srv.URL, time.Hour, slot, obs, true)
	mgr.poll(context.Background())

	got := slot.Snapshot()
	if !got.IsWaiting() {
		t.Fatalf("job installed despite missing seed: %+v", got)
	}
}

func TestPollTransportFailureLeavesJobUnchanged(t *testing.T) {
	slot := NewSlot()
	obs := observatory.New()
	// Nothing listens on this address.
	mgr := NewManager("http://127.0.0.1:1", 10*time.Millisecond, slot, obs, true)
	mgr.poll(context.Background())

	if !slot.Snapshot().IsWaiting() {
		t.Fatalf("job installed despite transport failure")
	}
}
