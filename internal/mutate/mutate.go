// Package mutate applies literal text edits to a configuration file in place.
package mutate

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrConfigAccess means the configuration file could not be read or written.
var ErrConfigAccess = errors.New("configuration file not accessible")

// Replacement replaces every occurrence of Old with New.
type Replacement struct {
	Old string
	New string
}

// DefaultReplacements is the edit applied when none is configured.
var DefaultReplacements = []Replacement{{Old: "old_value", New: "new_value"}}

// Mutator rewrites configuration files. The zero value applies
// DefaultReplacements.
type Mutator struct {
	Replacements []Replacement
}

// Modify applies every replacement, in order, to the file at path and writes
// the result back in place, truncating any excess. It returns the number of
// substitutions made. No backup is taken.
func (m *Mutator) Modify(path string) (int, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return 0, fmt.Errorf("mutate: open %s: %w: %w", path, ErrConfigAccess, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return 0, fmt.Errorf("mutate: read %s: %w: %w", path, ErrConfigAccess, err)
	}

	text, n := m.Apply(string(data))

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("mutate: rewind %s: %w: %w", path, ErrConfigAccess, err)
	}
	if _, err := f.WriteString(text); err != nil {
		return 0, fmt.Errorf("mutate: write %s: %w: %w", path, ErrConfigAccess, err)
	}
	if err := f.Truncate(int64(len(text))); err != nil {
		return 0, fmt.Errorf("mutate: truncate %s: %w: %w", path, ErrConfigAccess, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("mutate: close %s: %w: %w", path, ErrConfigAccess, err)
	}
	return n, nil
}

// Apply returns text with every replacement applied and the substitution
// count. Empty Old strings are skipped.
func (m *Mutator) Apply(text string) (string, int) {
	repl := m.Replacements
	if repl == nil {
		repl = DefaultReplacements
	}
	total := 0
	for _, r := range repl {
		if r.Old == "" {
			continue
		}
		if n := strings.Count(text, r.Old); n > 0 {
			text = strings.ReplaceAll(text, r.Old, r.New)
			total += n
		}
	}
	return text, total
}
