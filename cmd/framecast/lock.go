package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// lockName is the single-writer lock file kept in the output root.
const lockName = ".framecast.lock"

// lockOutputRoot creates root and takes an exclusive, non-blocking lock on
// it so two batches never write the same tree.
func lockOutputRoot(root string) (*flock.Flock, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create output root: %w", err)
	}
	lock := flock.New(filepath.Join(root, lockName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another framecast run is writing to %s", root)
	}
	return lock, nil
}
