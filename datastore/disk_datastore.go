package datastore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

type (
	DiskDataStore struct {
		rootPath string
	}
)

// NewDiskDataStore resolves relative locations against rootPath. Absolute locations are used as-is.
func NewDiskDataStore(rootPath string) *DiskDataStore {
	return &DiskDataStore{
		rootPath: rootPath,
	}
}

func (dds *DiskDataStore) Path(location string) string {
	if filepath.IsAbs(location) || dds.rootPath == "" {
		return location
	}
	return filepath.Join(dds.rootPath, location)
}

func (dds *DiskDataStore) ReadObject(ctx context.Context, location string) ([]byte, error) {
	p := dds.Path(location)
	zerolog.Ctx(ctx).Debug().Str("path", p).Msg("reading dataset from disk")
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, p)
	}
	if err != nil {
		return nil, fmt.Errorf("error in os.ReadFile: %w", err)
	}
	return b, nil
}

func (dds *DiskDataStore) Shutdown(context.Context) error {
	return nil
}
