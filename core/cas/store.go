package cas

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/ulikunitz/xz"
)

var (
	ErrBlobNotFound = errors.New("snapshot not found")
	ErrInvalidHash  = errors.New("invalid hash format")
)

// snapshotExt is appended to every snapshot file name.
const snapshotExt = ".xz"

// writeFile is swapped out by tests.
var writeFile = func(path string, r io.Reader) error {
	return atomic.WriteFile(path, r)
}

// Store keeps xz-compressed snapshots of files under their BLAKE3
// fingerprint, taken before a file is rewritten in place. Snapshots live at
// <root>/<first two hex digits>/<fingerprint>.xz.
type Store struct {
	root string
}

// NewStore opens the snapshot directory root, creating it if needed.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	return &Store{root: root}, nil
}

// Root returns the snapshot directory.
func (s *Store) Root() string { return s.root }

// Store snapshots data and returns its fingerprint. A snapshot that is
// already present is left untouched.
func (s *Store) Store(data []byte) (string, error) {
	hash := Fingerprint(data)
	path := s.path(hash)
	if fileExists(path) {
		return hash, nil
	}

	var buf bytes.Buffer
	zw, err := xz.NewWriter(&buf)
	if err != nil {
		return "", fmt.Errorf("compress snapshot: %w", err)
	}
	if _, err := zw.Write(data); err != nil {
		return "", fmt.Errorf("compress snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("compress snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create snapshot directory: %w", err)
	}
	if err := writeFile(path, &buf); err != nil {
		return "", fmt.Errorf("write snapshot %s: %w", hash, err)
	}
	return hash, nil
}

// Retrieve returns the content snapshotted under hash. The decompressed
// content must fingerprint back to hash.
func (s *Store) Retrieve(hash string) ([]byte, error) {
	if !IsValidHash(hash) {
		return nil, ErrInvalidHash
	}
	f, err := os.Open(s.path(hash))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	zr, err := xz.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s is corrupt: %w", hash, err)
	}
	fp := NewFingerprinter()
	data, err := io.ReadAll(io.TeeReader(zr, fp))
	if err != nil {
		return nil, fmt.Errorf("snapshot %s is corrupt: %w", hash, err)
	}
	if fp.Sum() != hash {
		return nil, fmt.Errorf("snapshot %s is corrupt: fingerprint mismatch", hash)
	}
	return data, nil
}

// Exists reports whether a snapshot for hash is present.
func (s *Store) Exists(hash string) bool {
	return IsValidHash(hash) && fileExists(s.path(hash))
}

func (s *Store) path(hash string) string {
	return filepath.Join(s.root, hash[:2], hash+snapshotExt)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
