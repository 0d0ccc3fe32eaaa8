package snapshot

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// DiskStore keeps snapshots as files in a directory.
type DiskStore struct {
	dir string
}

// NewDiskStore creates dir if needed and returns a store over it.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, storeError("create", dir, err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the directory snapshots are written to.
func (s *DiskStore) Dir() string {
	return s.dir
}

// Put writes the snapshot through a temp file so readers never see a
// partial file.
func (s *DiskStore) Put(ctx context.Context, name string, html []byte) error {
	name, err := Name(name)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".*")
	if err != nil {
		return storeError("put", name, err)
	}
	if _, err := tmp.Write(html); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return storeError("put", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return storeError("put", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmp.Name())
		return storeError("put", name, err)
	}
	return nil
}

// Get reads a snapshot.
func (s *DiskStore) Get(ctx context.Context, name string) ([]byte, error) {
	name, err := Name(name)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeError("get", name, err)
	}
	return data, nil
}
