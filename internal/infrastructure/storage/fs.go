package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"svw.info/changemaker/internal/domain"
)

// FS reads a machine state file from disk. It is the seed for the in-memory
// machine; the service never writes it back.
type FS struct{ path string }

func NewFS(path string) *FS { return &FS{path: strings.TrimSpace(path)} }

func (s *FS) Path() string { return s.path }

func (s *FS) Load(ctx context.Context) (domain.State, error) {
	if s.path == "" {
		return domain.State{}, errors.New("state file: no path configured")
	}
	if err := ctx.Err(); err != nil {
		return domain.State{}, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return domain.State{}, err
	}
	defer f.Close()
	st, err := Parse(f)
	if err != nil {
		return domain.State{}, fmt.Errorf("state file %s: %w", s.path, err)
	}
	return st, nil
}
