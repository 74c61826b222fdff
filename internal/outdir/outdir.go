// Package outdir prepares the directory a run writes its artifacts to.
package outdir

import (
	"fmt"
	"os"
)

// State describes what Prepare found and did.
type State int

const (
	// Created means the directory did not exist and was created.
	Created State = iota
	// Recreated means an existing directory was removed with its contents
	// and created again empty.
	Recreated
	// Kept means an existing directory was left untouched.
	Kept
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Recreated:
		return "recreated"
	case Kept:
		return "kept"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Prepare makes sure dir exists. With clean set, an existing directory is
// deleted recursively and recreated empty; this is irreversible.
func Prepare(dir string, clean bool) (State, error) {
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(dir, 0755); err != nil {
			return Created, fmt.Errorf("outdir: create %s: %w", dir, err)
		}
		return Created, nil
	case err != nil:
		return Kept, fmt.Errorf("outdir: stat %s: %w", dir, err)
	case !info.IsDir():
		return Kept, fmt.Errorf("outdir: %s exists and is not a directory", dir)
	case !clean:
		return Kept, nil
	}

	if err := os.RemoveAll(dir); err != nil {
		return Recreated, fmt.Errorf("outdir: remove %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Recreated, fmt.Errorf("outdir: create %s: %w", dir, err)
	}
	return Recreated, nil
}
