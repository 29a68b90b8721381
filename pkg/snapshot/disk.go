package snapshot

import (
	"context"
	"os"
	"path/filepath"

	"github.com/vango-dev/vtree/pkg/vdom"
)

// DiskStore stores snapshots as JSON files in a directory.
type DiskStore struct {
	dir string
}

// NewDiskStore creates a DiskStore, creating dir if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if dir == "" {
		dir = ".vtree/snapshots"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, backendError("create dir", dir, err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the snapshot directory.
func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Save writes tree to a temp file and renames it into place, so readers
// never observe a partial snapshot.
func (s *DiskStore) Save(ctx context.Context, id string, tree *vdom.VNode) error {
	if err := validID(id); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := encode(id, tree)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(s.dir, id+".*.tmp")
	if err != nil {
		return backendError("save", id, err)
	}
	tmp := f.Name()
	if _, err := f.Write(b); err != nil {
		f.Close()
		os.Remove(tmp)
		return backendError("save", id, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return backendError("save", id, err)
	}
	if err := os.Rename(tmp, s.path(id)); err != nil {
		os.Remove(tmp)
		return backendError("save", id, err)
	}
	return nil
}

// Load reads the tree stored under id.
func (s *DiskStore) Load(ctx context.Context, id string) (*vdom.VNode, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, backendError("load", id, err)
	}
	return vdom.DecodeJSON(b)
}

// Delete removes the snapshot file. Deleting a missing id is not an error.
func (s *DiskStore) Delete(_ context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return backendError("delete", id, err)
	}
	return nil
}
