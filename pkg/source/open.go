package source

import (
	"fmt"
	"os"
	"path/filepath"
)

// Open picks a loader for path: a directory holding objects/ (or a .got
// directory that does) is read as an object store, anything else as a
// snapshot file.
func Open(path string) (Loader, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	if !info.IsDir() {
		return NewSnapshotLoader(path), nil
	}
	for _, dir := range []string{path, filepath.Join(path, ".got")} {
		if isDir(filepath.Join(dir, "objects")) {
			return NewStoreLoader(dir), nil
		}
	}
	return nil, fmt.Errorf("open source: %s has no objects directory", path)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
