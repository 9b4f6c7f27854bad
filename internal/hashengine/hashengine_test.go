package hashengine

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/davidzita/clcminer/internal/job"
	"github.com/davidzita/clcminer/internal/keypairpool"
	"github.com/davidzita/clcminer/internal/observatory"
)

func testKeypair() keypairpool.Keypair {
	var kp keypairpool.Keypair
	kp.PubKey[0] = 0x04
	for i := 1; i < 65; i++ {
		kp.PubKey[i] = byte(i)
	}
	for i := range kp.PrivKey {
		kp.PrivKey[i] = byte(i + 1)
	}
	return kp
}

func TestTrialDigestMatchesReferenceSHA256(t *testing.T) {
	kp := testKeypair()
	j := job.Job{Seed: "abc"}
	obs := observatory.New()

	digest, pubKeyHex, _ := Trial(kp, j, obs)

	want := sha256.Sum256(append([]byte(pubKeyHex), "abc"...))
	if digest != want {
		t.Fatalf("digest = %x, want %x", digest, want)
	}
	if len(pubKeyHex) != 130 {
		t.Fatalf("pubKeyHex len = %d, want 130", len(pubKeyHex))
	}
	if pubKeyHex != hex.EncodeToString(kp.PubKey[:]) {
		t.Fatalf("pubKeyHex does not match lowercase hex of pubkey")
	}
}

func TestTrialHitOnMaxDifficulty(t *testing.T) {
	kp := testKeypair()
	j := job.Job{Seed: "abc"}
	for i := range j.Diff {
		j.Diff[i] = 0xff
	}
	obs := observatory.New()

	_, _, hit := Trial(kp, j, obs)
	if !hit {
		t.Fatalf("expected hit against all-0xff difficulty")
	}
}

func TestTrialMissOnZeroDifficulty(t *testing.T) {
	kp := testKeypair()
	j := job.Job{Seed: "abc"} // Diff is all-zero
	obs := observatory.New()

	_, _, hit := Trial(kp, j, obs)
	if hit {
		t.Fatalf("unexpected hit against all-zero difficulty")
	}
}

func TestTrialHitOnExactEquality(t *testing.T) {
	kp := testKeypair()
	j := job.Job{Seed: "abc"}
	obs := observatory.New()

	digest, _, _ := Trial(kp, j, obs)
	j.Diff = digest

	_, _, hit := Trial(kp, j, obs)
	if !hit {
		t.Fatalf("expected hit when digest equals diff exactly")
	}
}

func TestTrialUpdatesBestHashOnlyWhenSmaller(t *testing.T) {
	kp := testKeypair()
	obs := observatory.New()

	j1 := job.Job{Seed: "seed-one"}
	digest1, _, _ := Trial(kp, j1, obs)
	if obs.BestHash() != digest1 {
		t.Fatalf("best hash not updated to first observed digest")
	}

	// A seed chosen so the resulting digest is lexicographically larger
	// would not replace the best hash; rather than search for one,
	// directly verify the invariant that best hash never increases by
	// comparing before/after across several seeds.
	prev := obs.BestHash()
	for _, seed := range []string{"a", "b", "c", "d", "e"} {
		j := job.Job{Seed: seed}
		Trial(kp, j, obs)
		cur := obs.BestHash()
		if bytes.Compare(cur[:], prev[:]) > 0 {
			t.Fatalf("best hash increased: prev=%x cur=%x", prev, cur)
		}
		prev = cur
	}
}
