package certstore

import (
	"fmt"
	"os"
	"sort"
)

// handle is an open, read-only view of the store directory.
// Callers must Close it on every path.
type handle struct {
	dir *os.File
}

func (s *Store) open() (*handle, error) {
	f, err := os.Open(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open certificate store %s: %w", s.dir, err)
	}
	return &handle{dir: f}, nil
}

// names returns the files and symlinks in the store, sorted by name.
// Symlinks are kept because mounted secrets are usually exposed that way.
func (h *handle) names() ([]string, error) {
	entries, err := h.dir.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to list certificate store %s: %w", h.dir.Name(), err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() || e.Type()&os.ModeSymlink != 0 {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (h *handle) Close() error {
	return h.dir.Close()
}
