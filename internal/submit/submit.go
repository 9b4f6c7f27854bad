// Package submit implements the signing and submission half of the
// mining protocol: sign the hex-encoded public key with the matching
// private key, then GET the solution to the pool server.
package submit

import (
	"context"
	"crypto/tls"
	"encoding/hex"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	sha256simd "github.com/minio/sha256-simd"
	"github.com/pkg/errors"

	"github.com/davidzita/clcminer/internal/solution"
)

// Client signs and submits solutions to a pool server. pool_secret being
// non-empty switches every submission into pool mode: the private key
// and shared secret ride along in the query string so the pool can
// credit and pay out the reward on the miner's behalf. An empty
// pool_secret is solo mode, where the server alone decides how to treat
// the submission.
type Client struct {
	httpClient *http.Client
	server     string
	poolSecret string
}

// New builds a submission Client. insecureSkipVerify matches the job
// manager's own TLS-bypass flag.
func New(server, poolSecret string, insecureSkipVerify bool) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: insecureSkipVerify}, //nolint:gosec // configurable, defaults match the job manager
			},
		},
		server:     server,
		poolSecret: poolSecret,
	}
}

// Sign produces the DER-encoded ECDSA signature over SHA256(hex_pk),
// using the solution's own private key on secp256k1. btcec/v2/ecdsa.Sign
// uses RFC6979 deterministic nonces; the server verifies the signature
// against the submitted public key regardless of nonce derivation.
func Sign(s solution.Solution) (sigDERHex string, err error) {
	priv, _ := btcec.PrivKeyFromBytes(s.PrivKey[:])
	h := sha256simd.Sum256([]byte(s.PubKeyHex()))
	sig := btcecdsa.Sign(priv, h[:])
	return hex.EncodeToString(sig.Serialize()), nil
}

// Submit signs s and GETs it to {server}/challenge-solved. It reports
// success iff the response body contains the substring "success". Any
// transport failure, non-2xx response, or missing "success" substring is
// a submission failure that the caller is expected to log and move past
// — a rejected or stale solution is never retried.
func (c *Client) Submit(ctx context.Context, s solution.Solution) (bool, error) {
	sigHex, err := Sign(s)
	if err != nil {
		return false, errors.Wrap(err, "sign solution")
	}

	q := url.Values{}
	q.Set("holder", s.PubKeyHex())
	q.Set("sign", sigHex)
	q.Set("hash", s.DigestHex)
	if c.poolSecret != "" {
		q.Set("poolsecret", c.poolSecret)
		q.Set("key", s.PrivKeyHex())
	}

	reqURL := c.server + "/challenge-solved?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false, errors.Wrap(err, "build submission request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, errors.Wrap(err, "submit solution")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, errors.Errorf("submission response status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return false, errors.Wrap(err, "read submission response")
	}

	return strings.Contains(string(body), "success"), nil
}
