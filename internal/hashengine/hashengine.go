// Package hashengine performs the single hot-loop trial: render a
// keypair's public key as hex, concatenate it with the job seed, hash the
// result, and compare it to the job's difficulty target and the shared
// best-hash observatory.
package hashengine

import (
	"bytes"
	"encoding/hex"

	sha256simd "github.com/minio/sha256-simd"

	"github.com/davidzita/clcminer/internal/job"
	"github.com/davidzita/clcminer/internal/keypairpool"
	"github.com/davidzita/clcminer/internal/observatory"
)

// Trial performs exactly one hashing attempt against kp and j: it renders
// kp.PubKey as 130 lowercase hex characters, forms candidate = hex(pk) ||
// j.Seed with no separator, hashes it with SHA-256, updates obs's best
// hash if this digest is strictly smaller, and reports whether digest <=
// j.Diff byte-wise (a hit; equality counts).
func Trial(kp keypairpool.Keypair, j job.Job, obs *observatory.Observatory) (digest [32]byte, pubKeyHex string, hit bool) {
	pubKeyHex = hex.EncodeToString(kp.PubKey[:])

	candidate := make([]byte, 0, len(pubKeyHex)+len(j.Seed))
	candidate = append(candidate, pubKeyHex...)
	candidate = append(candidate, j.Seed...)

	digest = sha256simd.Sum256(candidate)

	obs.ObserveDigest(digest)

	hit = bytes.Compare(digest[:], j.Diff[:]) <= 0
	return digest, pubKeyHex, hit
}
