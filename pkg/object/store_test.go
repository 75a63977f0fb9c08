package object

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const (
	hashA = Hash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	hashB = Hash("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	hashZ = Hash("0000000000000000000000000000000000000000000000000000000000000000")
)

func TestHashObject(t *testing.T) {
	blob := HashObject(TypeBlob, []byte("hello"))
	if len(blob) != 64 || strings.Trim(string(blob), "0123456789abcdef") != "" {
		t.Fatalf("HashObject = %q, want 64 lowercase hex chars", blob)
	}
	if blob != HashObject(TypeBlob, []byte("hello")) {
		t.Errorf("HashObject not deterministic")
	}
	if blob == HashBytes([]byte("hello")) {
		t.Errorf("HashObject ignores the type envelope")
	}
	if blob == HashObject(TypeTree, []byte("hello")) {
		t.Errorf("different types produced the same hash")
	}
}

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(t.TempDir())
}

func TestStoreOnDiskLayout(t *testing.T) {
	s := tempStore(t)
	h, err := s.Write(TypeBlob, []byte("format check"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	again, err := s.Write(TypeBlob, []byte("format check"))
	if err != nil || again != h {
		t.Fatalf("rewrite = %q, %v; want %q", again, err, h)
	}

	raw, err := os.ReadFile(filepath.Join(s.ObjectsDir(), string(h[:2]), string(h[2:])))
	if err != nil {
		t.Fatalf("fan-out file: %v", err)
	}
	if want := "blob 12\x00format check"; string(raw) != want {
		t.Errorf("on-disk bytes = %q, want %q", raw, want)
	}
	if !s.Has(h) || s.Has(hashZ) {
		t.Errorf("Has(%s)=%v Has(zero)=%v", h.Short(8), s.Has(h), s.Has(hashZ))
	}
	if _, _, err := s.Read(hashZ); err == nil {
		t.Errorf("Read of a missing object succeeded")
	}
}

func TestStoreTypedRoundTrip(t *testing.T) {
	s := tempStore(t)
	tests := []struct {
		name   string
		kind   ObjectType
		write  func() (Hash, error)
		decode func([]byte) (any, error)
		want   any
	}{
		{
			name:   "blob",
			kind:   TypeBlob,
			write:  func() (Hash, error) { return s.WriteBlob(&Blob{Data: []byte("line one\nline two")}) },
			decode: func(d []byte) (any, error) { return &Blob{Data: d}, nil },
			want:   &Blob{Data: []byte("line one\nline two")},
		},
		{
			name: "tree sorted",
			kind: TypeTree,
			write: func() (Hash, error) {
				return s.WriteTree(&TreeObj{Entries: []TreeEntry{
					{Name: "pkg", IsDir: true, SubtreeHash: hashB},
					{Name: "main.go", BlobHash: hashA},
				}})
			},
			decode: func(d []byte) (any, error) { return UnmarshalTree(d) },
			want: &TreeObj{Entries: []TreeEntry{
				{Name: "main.go", Mode: TreeModeFile, BlobHash: hashA},
				{Name: "pkg", IsDir: true, Mode: TreeModeDir, SubtreeHash: hashB},
			}},
		},
		{
			name: "commit",
			kind: TypeCommit,
			write: func() (Hash, error) {
				return s.WriteCommit(&CommitObj{TreeHash: hashA, Parents: []Hash{hashB}, Author: "ana <ana@example.com>", Timestamp: 1700000000, Message: "subject\n\nbody"})
			},
			decode: func(d []byte) (any, error) { return UnmarshalCommit(d) },
			want: &CommitObj{TreeHash: hashA, Parents: []Hash{hashB}, Author: "ana <ana@example.com>", Timestamp: 1700000000, Message: "subject\n\nbody"},
		},
		{
			name: "tag",
			kind: TypeTag,
			write: func() (Hash, error) {
				return s.WriteTag(&TagObj{TargetHash: hashA, TargetType: TypeCommit, Name: "v1.0.0", Tagger: "ana", Message: "first release"})
			},
			decode: func(d []byte) (any, error) { return UnmarshalTag(d) },
			want: &TagObj{TargetHash: hashA, TargetType: TypeCommit, Name: "v1.0.0", Tagger: "ana", Message: "first release"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := tt.write()
			if err != nil {
				t.Fatalf("write: %v", err)
			}
			kind, data, err := s.Read(h)
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if kind != tt.kind {
				t.Fatalf("kind = %q, want %q", kind, tt.kind)
			}
			got, err := tt.decode(data)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("round trip = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStoreList(t *testing.T) {
	s := tempStore(t)
	if got, err := s.List(); err != nil || len(got) != 0 {
		t.Fatalf("List on empty store = %v, %v; want empty", got, err)
	}

	var want []Hash
	for _, data := range []string{"one", "two", "three"} {
		h, err := s.WriteBlob(&Blob{Data: []byte(data)})
		if err != nil {
			t.Fatalf("WriteBlob: %v", err)
		}
		want = append(want, h)
	}
	// A stray temp file must not be listed.
	if err := os.WriteFile(filepath.Join(s.ObjectsDir(), string(want[0][:2]), ".tmp-123"), nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("List returned %d hashes, want %d", len(got), len(want))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Fatalf("List not sorted: %v", got)
		}
	}
	for _, h := range want {
		found := false
		for _, g := range got {
			if g == h {
				found = true
			}
		}
		if !found {
			t.Errorf("List missing %s", h)
		}
	}
}

func TestStoreReachableSet(t *testing.T) {
	s := tempStore(t)
	blob, err := s.WriteBlob(&Blob{Data: []byte("readme")})
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	stray, err := s.WriteBlob(&Blob{Data: []byte("unreferenced")})
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	tree, err := s.WriteTree(&TreeObj{Entries: []TreeEntry{
		{Name: "README", BlobHash: blob},
		{Name: "gone", BlobHash: Hash("ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")},
	}})
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	parent, err := s.WriteCommit(&CommitObj{TreeHash: tree, Author: "a", Timestamp: 1, Message: "root"})
	if err != nil {
		t.Fatalf("WriteCommit: %v", err)
	}
	child, err := s.WriteCommit(&CommitObj{TreeHash: tree, Parents: []Hash{parent}, Author: "a", Timestamp: 2, Message: "next"})
	if err != nil {
		t.Fatalf("WriteCommit: %v", err)
	}
	tag, err := s.WriteTag(&TagObj{TargetHash: child, TargetType: TypeCommit, Name: "v1"})
	if err != nil {
		t.Fatalf("WriteTag: %v", err)
	}

	got, err := s.ReachableSet([]Hash{tag, " "})
	if err != nil {
		t.Fatalf("ReachableSet: %v", err)
	}
	for _, h := range []Hash{tag, child, parent, tree, blob} {
		if _, ok := got[h]; !ok {
			t.Errorf("ReachableSet missing %s", h)
		}
	}
	if _, ok := got[stray]; ok {
		t.Errorf("ReachableSet contains unreferenced blob %s", stray)
	}
	if len(got) != 5 {
		t.Errorf("ReachableSet size = %d, want 5", len(got))
	}
}
