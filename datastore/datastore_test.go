package datastore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	reads []string
}

func (f *fakeStore) ReadObject(_ context.Context, location string) ([]byte, error) {
	f.reads = append(f.reads, location)
	return []byte(location), nil
}

func (f *fakeStore) Shutdown(context.Context) error {
	return nil
}

func TestDiskDataStore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chicago.csv"), []byte("Start Time\n"), 0o644))

	dds := NewDiskDataStore(dir)
	b, err := dds.ReadObject(context.Background(), "chicago.csv")
	require.NoError(t, err)
	assert.Equal(t, "Start Time\n", string(b))

	abs := filepath.Join(dir, "chicago.csv")
	assert.Equal(t, abs, dds.Path(abs))

	_, err = dds.ReadObject(context.Background(), "washington.csv")
	assert.True(t, errors.Is(err, ErrObjectNotFound), err)
}

func TestParseS3Location(t *testing.T) {
	bucket, key, err := ParseS3Location("s3://trips/2017/chicago.csv")
	require.NoError(t, err)
	assert.Equal(t, "trips", bucket)
	assert.Equal(t, "2017/chicago.csv", key)

	for _, bad := range []string{"trips/chicago.csv", "s3://trips", "s3://trips/", "s3:///chicago.csv"} {
		_, _, err := ParseS3Location(bad)
		assert.True(t, errors.Is(err, ErrBadS3Location), bad)
	}
}

func TestRouter(t *testing.T) {
	disk, s3 := &fakeStore{}, &fakeStore{}
	r := &Router{Disk: disk, S3: s3}

	_, err := r.ReadObject(context.Background(), "s3://trips/chicago.csv")
	require.NoError(t, err)
	_, err = r.ReadObject(context.Background(), "chicago.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"s3://trips/chicago.csv"}, s3.reads)
	assert.Equal(t, []string{"chicago.csv"}, disk.reads)

	noS3 := &Router{Disk: disk}
	_, err = noS3.ReadObject(context.Background(), "s3://trips/chicago.csv")
	assert.Equal(t, ErrS3NotConfigured, err)
	assert.NoError(t, noS3.Shutdown(context.Background()))
}
