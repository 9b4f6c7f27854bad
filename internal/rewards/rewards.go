// Package rewards persists accepted solutions' private keys to disk and
// runs the optional post-mining hook.
package rewards

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Store writes .coin files under a fixed directory and, when configured,
// shells out to an on_mined command after each write.
type Store struct {
	dir     string
	onMined string
}

// New returns a Store rooted at dir, creating it if necessary. onMined,
// when non-empty, is a printf-style shell command with %lu substituted by
// the coin's unix-second id.
func New(dir, onMined string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create rewards dir %s", dir)
	}
	return &Store{dir: dir, onMined: onMined}, nil
}

// Save writes privKeyHex (64 hex chars) plus a trailing newline to
// {dir}/{coinID}.coin, then runs the on_mined hook if configured. A
// non-zero hook exit is returned as an error for the caller to log; the
// reward file is already on disk by then and is left in place.
func (s *Store) Save(coinID uint64, privKeyHex string) (hookErr error) {
	path := filepath.Join(s.dir, fmt.Sprintf("%d.coin", coinID))
	contents := privKeyHex + "\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		return errors.Wrapf(err, "write reward file %s", path)
	}

	if s.onMined == "" {
		return nil
	}
	cmd := expandCoinID(s.onMined, coinID)
	if err := exec.Command("sh", "-c", cmd).Run(); err != nil {
		return errors.Wrapf(err, "on_mined command %q", cmd)
	}
	return nil
}

// expandCoinID substitutes the printf-style %lu verb on_mined commands
// use with the decimal coinID, since Go's os/exec has no printf-style
// command templating of its own.
func expandCoinID(template string, coinID uint64) string {
	return strings.ReplaceAll(template, "%lu", fmt.Sprintf("%d", coinID))
}
