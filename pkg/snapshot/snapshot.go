// Package snapshot stores rendered HTML.
//
// A snapshot is the serialized container after a render, saved under a
// name such as "home.html". DiskStore writes to a directory and S3Store
// writes to a bucket. Use FromConfig to pick one from patchwork.yaml.
package snapshot

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/vango-dev/patchwork/internal/config"
	perrors "github.com/vango-dev/patchwork/internal/errors"
)

// ErrNotFound is returned by Get when no snapshot has the name.
var ErrNotFound = errors.New("snapshot: not found")

// ErrInvalidName is returned for names that are empty or contain a path.
var ErrInvalidName = errors.New("snapshot: invalid name")

// ContentType is stored alongside every snapshot.
const ContentType = "text/html; charset=utf-8"

// Store is a snapshot backend.
type Store interface {
	// Put saves html under name, replacing any previous snapshot.
	Put(ctx context.Context, name string, html []byte) error

	// Get returns the snapshot saved under name.
	Get(ctx context.Context, name string) ([]byte, error)
}

// Name normalizes a snapshot name: it must be a bare file name and gets
// an ".html" extension if it has none.
func Name(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", ErrInvalidName
	}
	if path.Ext(name) == "" {
		name += ".html"
	}
	return name, nil
}

// FromConfig returns the store configured in cfg. A bucket selects S3;
// otherwise snapshots go to cfg.Dir, or "snapshots" when unset.
func FromConfig(cfg config.SnapshotConfig) (Store, error) {
	if cfg.S3.Bucket != "" {
		return NewS3Store(NewS3Client(cfg.S3.Region), cfg.S3.Bucket, cfg.S3.Prefix), nil
	}
	dir := cfg.Dir
	if dir == "" {
		dir = "snapshots"
	}
	return NewDiskStore(dir)
}

func storeError(op, name string, err error) error {
	return perrors.New("E401").
		WithDetail(op + " " + name + " failed").
		Wrap(err)
}
