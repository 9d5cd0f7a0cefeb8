package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ignoredEntries may exist in an otherwise empty destination.
var ignoredEntries = map[string]bool{".DS_Store": true}

// CheckDestination refuses to write unless dest exists, is empty and is not
// the source directory.
func CheckDestination(source, dest string) error {
	if dest == "" {
		return fmt.Errorf("%w: no destination configured", ErrDestMissing)
	}

	absSource, err := filepath.Abs(source)
	if err != nil {
		return fmt.Errorf("failed to resolve source directory: %w", err)
	}
	absDest, err := filepath.Abs(dest)
	if err != nil {
		return fmt.Errorf("failed to resolve destination directory: %w", err)
	}
	if absSource == absDest {
		return fmt.Errorf("%w: %s", ErrDestIsSource, dest)
	}

	entries, err := os.ReadDir(dest)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrDestMissing, dest)
		}
		return fmt.Errorf("failed to read destination directory: %w", err)
	}
	for _, e := range entries {
		if !ignoredEntries[e.Name()] {
			return fmt.Errorf("%w: %s", ErrDestNotEmpty, dest)
		}
	}
	return nil
}
