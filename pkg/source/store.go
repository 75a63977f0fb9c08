// Package source loads object collections for the viewer from an object
// store directory or from a snapshot file.
package source

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/odvcencio/objgraph/pkg/graph"
	"github.com/odvcencio/objgraph/pkg/object"
)

// MaxContentPreview caps the blob content carried into the graph.
const MaxContentPreview = 4096

// Loader produces an ordered object sequence.
type Loader interface {
	Load(ctx context.Context) ([]graph.Object, error)
	// Name identifies the source; the viewer resets its view when it changes.
	Name() string
}

// StoreLoader reads every object of an on-disk object store, or only those
// reachable from Roots when Roots is set.
type StoreLoader struct {
	store       *object.Store
	Roots       []object.Hash
	Concurrency int
}

// NewStoreLoader returns a loader for the store rooted at dir, i.e. the
// directory that contains objects/.
func NewStoreLoader(dir string) *StoreLoader {
	return &StoreLoader{store: object.NewStore(dir)}
}

// Name returns the store root directory.
func (l *StoreLoader) Name() string {
	return l.store.Root()
}

func (l *StoreLoader) Store() *object.Store {
	return l.store
}

// Load reads every object (or those reachable from Roots) and returns
// them in display order.
func (l *StoreLoader) Load(ctx context.Context) ([]graph.Object, error) {
	hashes, err := l.hashes()
	if err != nil {
		return nil, err
	}

	objs := make([]graph.Object, len(hashes))
	g, ctx := errgroup.WithContext(ctx)
	limit := l.Concurrency
	if limit < 1 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)
	for i, h := range hashes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			objType, data, err := l.store.Read(h)
			if err != nil {
				return fmt.Errorf("load %s: %w", h, err)
			}
			o, err := decode(h, objType, data)
			if err != nil {
				return fmt.Errorf("load %s: %w", h, err)
			}
			objs[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	objs = Order(objs)
	nameBlobs(objs)
	return objs, nil
}

func (l *StoreLoader) hashes() ([]object.Hash, error) {
	if len(l.Roots) == 0 {
		hashes, err := l.store.List()
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		return hashes, nil
	}
	set, err := l.store.ReachableSet(l.Roots)
	if err != nil {
		return nil, err
	}
	hashes := make([]object.Hash, 0, len(set))
	for h := range set {
		hashes = append(hashes, h)
	}
	slices.Sort(hashes)
	return hashes, nil
}

func decode(h object.Hash, objType object.ObjectType, data []byte) (graph.Object, error) {
	o := graph.Object{ID: h, Kind: objType, Size: int64(len(data))}
	switch objType {
	case object.TypeBlob:
		o.Content = preview(data)
	case object.TypeTree:
		tr, err := object.UnmarshalTree(data)
		if err != nil {
			return o, err
		}
		o.Entries = make([]graph.Entry, 0, len(tr.Entries))
		for _, e := range tr.Entries {
			kind := object.TypeBlob
			if e.IsDir {
				kind = object.TypeTree
			}
			o.Entries = append(o.Entries, graph.Entry{Mode: e.Mode, Kind: kind, Ref: e.Ref(), Name: e.Name})
		}
	case object.TypeCommit:
		c, err := object.UnmarshalCommit(data)
		if err != nil {
			return o, err
		}
		o.Tree = c.TreeHash
		o.Parents = c.Parents
		o.Author = c.Author
		o.Message = c.Message
		o.Timestamp = c.Timestamp
	case object.TypeTag:
		t, err := object.UnmarshalTag(data)
		if err != nil {
			return o, err
		}
		o.Target = t.TargetHash
		o.TagName = t.Name
		o.Author = t.Tagger
		o.Message = t.Message
	}
	return o, nil
}

func preview(data []byte) string {
	if len(data) > MaxContentPreview {
		data = data[:MaxContentPreview]
	}
	if !utf8.Valid(data) {
		return ""
	}
	return string(data)
}

// nameBlobs fills each blob's display names from the tree entries that
// reference it, in the order the trees appear.
func nameBlobs(objs []graph.Object) {
	names := make(map[object.Hash][]string)
	for _, o := range objs {
		if o.Kind != object.TypeTree {
			continue
		}
		for _, e := range o.Entries {
			if e.Kind == object.TypeBlob && !slices.Contains(names[e.Ref], e.Name) {
				names[e.Ref] = append(names[e.Ref], e.Name)
			}
		}
	}
	for i := range objs {
		if objs[i].Kind == object.TypeBlob {
			objs[i].Names = names[objs[i].ID]
		}
	}
}

// Order arranges objects for display: commits newest first, then the
// trees and blobs they reach in breadth-first discovery order, then
// anything left over by identifier, then tags by name.
func Order(objs []graph.Object) []graph.Object {
	byID := make(map[object.Hash]int, len(objs))
	for i, o := range objs {
		byID[o.ID] = i
	}

	var commits, tags, rest []graph.Object
	for _, o := range objs {
		switch o.Kind {
		case object.TypeCommit:
			commits = append(commits, o)
		case object.TypeTag:
			tags = append(tags, o)
		}
	}
	slices.SortStableFunc(commits, func(a, b graph.Object) int {
		if a.Timestamp != b.Timestamp {
			if a.Timestamp > b.Timestamp {
				return -1
			}
			return 1
		}
		return strings.Compare(string(a.ID), string(b.ID))
	})
	slices.SortStableFunc(tags, func(a, b graph.Object) int {
		if c := strings.Compare(a.TagName, b.TagName); c != 0 {
			return c
		}
		return strings.Compare(string(a.ID), string(b.ID))
	})

	placed := make(map[object.Hash]bool, len(objs))
	out := make([]graph.Object, 0, len(objs))
	out = append(out, commits...)
	for _, c := range commits {
		placed[c.ID] = true
	}
	for _, c := range commits {
		queue := []object.Hash{c.Tree}
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			i, ok := byID[id]
			if !ok || placed[id] {
				continue
			}
			placed[id] = true
			o := objs[i]
			out = append(out, o)
			for _, e := range o.Entries {
				queue = append(queue, e.Ref)
			}
		}
	}
	for _, o := range objs {
		if !placed[o.ID] && o.Kind != object.TypeTag {
			rest = append(rest, o)
			placed[o.ID] = true
		}
	}
	slices.SortStableFunc(rest, func(a, b graph.Object) int {
		return strings.Compare(string(a.ID), string(b.ID))
	})
	out = append(out, rest...)
	return append(out, tags...)
}
