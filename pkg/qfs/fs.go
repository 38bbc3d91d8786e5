// Package qfs abstracts the distributed filesystem the coordinator talks to
// during finalization (component I): deleting a partition's stale output,
// creating the partition directory, and renaming staged files into place.
// No example in the retrieval pack carries an HDFS/S3/GCS client, so the
// only implementation here is a local-disk one; see DESIGN.md.
package qfs

import "context"

// FileInfo is the subset of a directory entry the finalizer needs.
type FileInfo struct {
	Name  string
	IsDir bool
}

// FileSystem is the coordinator's view of a distributed or local
// filesystem, scoped to exactly what finalization needs.
type FileSystem interface {
	// ListDir lists the immediate children of dir. NotFound errors are
	// never tolerated here: a missing directory during listing means the
	// query's output path is wrong, not benignly absent.
	ListDir(ctx context.Context, dir string) ([]FileInfo, error)

	// CreateDirectory creates dir and any missing parents. It is an error
	// if dir cannot be created, including "already exists" for a path
	// that's actually a file.
	CreateDirectory(ctx context.Context, dir string) error

	// Delete removes path. A NotFound error is tolerated and reported as
	// success: concurrent finalization of an overwrite partition may have
	// already deleted the same stale files.
	Delete(ctx context.Context, path string) error

	// Rename moves a file from oldPath to newPath, overwriting newPath if
	// it exists. A NotFound error for oldPath is tolerated: another
	// finalizer attempt, or a prior partially-completed finalize, may have
	// already moved it.
	Rename(ctx context.Context, oldPath, newPath string) error
}

// IsNotFound reports whether err represents a "no such file or directory"
// condition from a FileSystem method.
func IsNotFound(err error) bool {
	type notFounder interface {
		NotFound() bool
	}
	if nf, ok := err.(notFounder); ok {
		return nf.NotFound()
	}
	return false
}
