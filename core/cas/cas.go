// Package cas fingerprints content with BLAKE3 and keeps a
// content-addressed store of file snapshots.
package cas

import (
	"encoding/hex"
	"regexp"

	"github.com/zeebo/blake3"
)

// hashPattern matches a lowercase BLAKE3-256 hex digest.
var hashPattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Fingerprint returns the BLAKE3-256 hex digest of data.
func Fingerprint(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Fingerprinter computes a fingerprint over a stream. It is an io.Writer,
// so it can sit behind an io.TeeReader while a file is parsed.
type Fingerprinter struct {
	h *blake3.Hasher
}

// NewFingerprinter returns an empty streaming fingerprint.
func NewFingerprinter() *Fingerprinter {
	return &Fingerprinter{h: blake3.New()}
}

func (f *Fingerprinter) Write(p []byte) (int, error) {
	return f.h.Write(p)
}

// Sum returns the hex digest of everything written so far.
func (f *Fingerprinter) Sum() string {
	return hex.EncodeToString(f.h.Sum(nil))
}

// IsValidHash reports whether s is a well-formed fingerprint.
func IsValidHash(s string) bool {
	return hashPattern.MatchString(s)
}
