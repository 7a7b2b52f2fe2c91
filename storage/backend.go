// Package storage delivers resolved artifacts from their physical backend:
// local filesystem reads, or presigned URLs for S3-compatible object storage.
package storage

import "strings"

// Backend identifies the kind of storage a location refers to.
type Backend int

const (
	// BackendLocal is a path on the local filesystem.
	BackendLocal Backend = iota
	// BackendS3 is an S3-compatible object store.
	BackendS3
)

// String returns a label suitable for logs and metrics.
func (b Backend) String() string {
	if b == BackendS3 {
		return "s3"
	}
	return "local"
}

// Classify decides which backend a storage location denotes. The test is a
// case-sensitive prefix match: locations starting with "s3" are object
// storage, everything else is a local path. No I/O is performed.
func Classify(location string) Backend {
	if strings.HasPrefix(location, "s3") {
		return BackendS3
	}
	return BackendLocal
}
