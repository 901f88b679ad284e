// Package checksum computes content digests over captured command output.
//
// The digest algorithm is selected once at startup and exposed behind a
// single interface; the rest of the harness compares digests as
// case-sensitive lowercase hex strings and never touches hash internals.
package checksum

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
)

// Hasher computes a hex-encoded digest over a byte stream.
type Hasher interface {
	// Name returns the algorithm name as accepted by New.
	Name() string
	// Sum reads r to EOF and returns the lowercase hex digest.
	Sum(r io.Reader) (string, error)
}

// DefaultAlgorithm matches the digests in the built-in test table.
const DefaultAlgorithm = "md5"

type hasher struct {
	name string
	mk   func() hash.Hash
}

// New returns the Hasher for algo ("md5", "sha1", "sha256").
// An empty algo selects DefaultAlgorithm.
func New(algo string) (Hasher, error) {
	switch algo {
	case "", DefaultAlgorithm:
		return &hasher{name: DefaultAlgorithm, mk: md5.New}, nil
	case "sha1":
		return &hasher{name: "sha1", mk: sha1.New}, nil
	case "sha256":
		return &hasher{name: "sha256", mk: sha256.New}, nil
	default:
		return nil, fmt.Errorf("unknown hash algorithm %q (expected md5, sha1, sha256)", algo)
	}
}

func (h *hasher) Name() string { return h.name }

func (h *hasher) Sum(r io.Reader) (string, error) {
	sum := h.mk()
	if _, err := io.Copy(sum, r); err != nil {
		return "", fmt.Errorf("hashing input: %w", err)
	}
	return hex.EncodeToString(sum.Sum(nil)), nil
}

// SumFile hashes the contents of path with h.
func SumFile(h Hasher, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return h.Sum(f)
}

// HexLength returns the expected hex digest length for algo, or 0 if the
// algorithm is unknown. Used by suite validation to catch truncated digests.
func HexLength(algo string) int {
	switch algo {
	case "", DefaultAlgorithm:
		return 2 * md5.Size
	case "sha1":
		return 2 * sha1.Size
	case "sha256":
		return 2 * sha256.Size
	default:
		return 0
	}
}
