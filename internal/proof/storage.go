// Package proof stores uploaded proof images on disk and publishes them
// under a public base URL.
package proof

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidKey = errors.New("invalid proof key")

// Stored describes a saved proof.
type Stored struct {
	Key string
	URL string
}

type Storage struct {
	dir       string
	publicURL string
}

func NewStorage(dir, publicURL string) *Storage {
	return &Storage{dir: dir, publicURL: strings.TrimRight(publicURL, "/")}
}

// Save writes r under a fresh key keeping the extension of name.
func (s *Storage) Save(name string, r io.Reader) (Stored, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Stored{}, fmt.Errorf("creating proof directory: %w", err)
	}

	key := uuid.NewString() + strings.ToLower(filepath.Ext(name))

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return Stored{}, fmt.Errorf("creating proof file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return Stored{}, fmt.Errorf("writing proof file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return Stored{}, fmt.Errorf("closing proof file: %w", err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, key)); err != nil {
		return Stored{}, fmt.Errorf("storing proof file: %w", err)
	}

	return Stored{Key: key, URL: s.publicURL + "/" + key}, nil
}

// KeyOf returns the key of a URL built by Save. URLs outside the public base
// URL are rejected with ErrInvalidKey.
func (s *Storage) KeyOf(fileURL string) (string, error) {
	key, ok := strings.CutPrefix(fileURL, s.publicURL+"/")
	if !ok || key == "" || strings.ContainsAny(key, "/?#") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, fileURL)
	}

	return key, nil
}

// Open returns the proof stored under key.
func (s *Storage) Open(key string) (*os.File, error) {
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return nil, ErrInvalidKey
	}

	return os.Open(filepath.Join(s.dir, key))
}
