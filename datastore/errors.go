package datastore

import "github.com/danthegoodman1/bikeshare/utils"

var (
	ErrS3NotConfigured   = utils.PermError("s3 datastore not configured")
	ErrDiskNotConfigured = utils.PermError("disk datastore not configured")
	ErrBadS3Location     = utils.PermError("s3 location must look like s3://bucket/key")
	ErrObjectNotFound    = utils.PermError("object not found")
)
