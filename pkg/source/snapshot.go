package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/odvcencio/objgraph/pkg/graph"
)

// SnapshotVersion is the format version written by WriteSnapshot.
const SnapshotVersion = 1

// Snapshot is the on-disk form of an object collection: JSON, optionally
// zstd-compressed. Objects keep the order they were written in.
type Snapshot struct {
	Version int            `json:"version"`
	Source  string         `json:"source,omitempty"`
	Objects []graph.Object `json:"objects"`
}

// SnapshotLoader reads a snapshot file.
type SnapshotLoader struct {
	path string
}

func NewSnapshotLoader(path string) *SnapshotLoader {
	return &SnapshotLoader{path: path}
}

func (l *SnapshotLoader) Name() string {
	return l.path
}

func (l *SnapshotLoader) Load(ctx context.Context) ([]graph.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap, err := ReadSnapshot(l.path)
	if err != nil {
		return nil, err
	}
	return snap.Objects, nil
}

// ReadSnapshot reads and decodes a snapshot. Compression is detected from
// the content, not the file name.
func ReadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if isZstd(data) {
		data, err = decompressZstd(data)
		if err != nil {
			return nil, fmt.Errorf("read snapshot: decompress: %w", err)
		}
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("read snapshot: unmarshal: %w", err)
	}
	if snap.Version > SnapshotVersion {
		return nil, fmt.Errorf("read snapshot: unsupported version %d", snap.Version)
	}
	return &snap, nil
}

// WriteSnapshot atomically writes snap to path. Paths ending in .zst are
// zstd-compressed.
func WriteSnapshot(path string, snap *Snapshot) error {
	if snap == nil {
		snap = &Snapshot{}
	}
	if snap.Version == 0 {
		snap.Version = SnapshotVersion
	}
	if snap.Objects == nil {
		snap.Objects = []graph.Object{}
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("write snapshot: marshal: %w", err)
	}
	if strings.HasSuffix(path, ".zst") {
		data, err = compressZstd(data)
		if err != nil {
			return fmt.Errorf("write snapshot: compress: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-tmp-*")
	if err != nil {
		return fmt.Errorf("write snapshot: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: close: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: rename: %w", err)
	}
	return nil
}
