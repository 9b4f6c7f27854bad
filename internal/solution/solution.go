// Package solution defines the quadruple a mining worker produces on a
// difficulty hit and the submission client consumes.
package solution

import (
	"encoding/hex"

	sha256simd "github.com/minio/sha256-simd"
)

// Solution is (public key, private key, digest, reward) meeting the
// difficulty contract: SHA256(lowercase_hex(PubKey) || seed), when
// hex-decoded, equals DigestHex, and that digest is <= the job's diff.
type Solution struct {
	PubKey    [65]byte
	PrivKey   [32]byte
	DigestHex string
	Reward    float64
}

// PubKeyHex renders the public key the same way hashengine.Trial does:
// 130 lowercase hex characters.
func (s Solution) PubKeyHex() string {
	return hex.EncodeToString(s.PubKey[:])
}

// PrivKeyHex renders the private key as 64 lowercase hex characters, the
// exact format written to a .coin reward file.
func (s Solution) PrivKeyHex() string {
	return hex.EncodeToString(s.PrivKey[:])
}

// VerifyDigest recomputes SHA256(hex(pk) || seed) and reports whether it
// matches DigestHex.
func (s Solution) VerifyDigest(seed string) bool {
	candidate := append([]byte(s.PubKeyHex()), seed...)
	want := sha256simd.Sum256(candidate)
	return hex.EncodeToString(want[:]) == s.DigestHex
}
