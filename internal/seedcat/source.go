package seedcat

import (
	"context"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"os"
)

// Source supplies versioned seed catalog text. The version is an opaque
// string; the synchronizer only compares it for equality.
type Source interface {
	Version(ctx context.Context) (string, error)
	Fetch(ctx context.Context) (string, error)
}

// FileSource reads the seed from a local file. The version is a content
// digest, so touching the file without changing it does not trigger a
// reconciliation.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Version(ctx context.Context) (string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read seed file: %w", err)
	}
	sum := sha256.Sum256(raw)
	return "file:" + hex.EncodeToString(sum[:6]), nil
}

func (s *FileSource) Fetch(ctx context.Context) (string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read seed file: %w", err)
	}
	return string(raw), nil
}

// StaticSource serves fixed text under a fixed version. Used for the built-in
// default catalog and in tests.
type StaticSource struct {
	version string
	text    string
}

func NewStaticSource(version, text string) *StaticSource {
	return &StaticSource{version: version, text: text}
}

func (s *StaticSource) Version(ctx context.Context) (string, error) { return s.version, nil }
func (s *StaticSource) Fetch(ctx context.Context) (string, error)   { return s.text, nil }

//go:embed default_seed.txt
var defaultSeedText string

// DefaultSource returns the built-in catalog used when no external seed is
// configured or the first external seed fails validation.
func DefaultSource() Source {
	return NewStaticSource("builtin:v1", defaultSeedText)
}
