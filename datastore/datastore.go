package datastore

import (
	"context"
	"strings"
)

type (
	// DataStore reads a whole dataset object in one go.
	DataStore interface {
		// ReadObject returns the full contents at location
		ReadObject(ctx context.Context, location string) ([]byte, error)

		Shutdown(ctx context.Context) error
	}

	// Router sends s3:// locations to S3 and everything else to disk.
	Router struct {
		Disk DataStore
		S3   DataStore
	}
)

const S3Scheme = "s3://"

func IsS3Location(location string) bool {
	return strings.HasPrefix(location, S3Scheme)
}

func (r *Router) pick(location string) (DataStore, error) {
	if IsS3Location(location) {
		if r.S3 == nil {
			return nil, ErrS3NotConfigured
		}
		return r.S3, nil
	}
	if r.Disk == nil {
		return nil, ErrDiskNotConfigured
	}
	return r.Disk, nil
}

func (r *Router) ReadObject(ctx context.Context, location string) ([]byte, error) {
	ds, err := r.pick(location)
	if err != nil {
		return nil, err
	}
	return ds.ReadObject(ctx, location)
}

func (r *Router) Shutdown(ctx context.Context) error {
	for _, ds := range []DataStore{r.Disk, r.S3} {
		if ds == nil {
			continue
		}
		if err := ds.Shutdown(ctx); err != nil {
			return err
		}
	}
	return nil
}
