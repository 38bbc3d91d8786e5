package coordinator

import (
	"context"
	"path"

	"github.com/pkg/errors"
	"github.com/shardedsql/qcoord/pkg/qfs"
)

// finalizeQuery implements component I. It runs only once Wait has
// confirmed every backend finished successfully, and only for queries
// whose ExecRequest carries FinalizeParams.
func (c *Coordinator) finalizeQuery(ctx context.Context) error {
	fp := c.req.FinalizeParams

	c.mu.Lock()
	partitions := make(map[string]int64, len(c.appendedRows))
	for k, v := range c.appendedRows {
		partitions[k] = v
	}
	moves := make(map[string]string, len(c.pendingMoves))
	for k, v := range c.pendingMoves {
		moves[k] = v
	}
	c.mu.Unlock()

	if fp.IsOverwrite {
		if err := c.cleanOverwritePartitions(ctx, fp.BaseDir, partitions); err != nil {
			return err
		}
	}

	for partition := range partitions {
		dir := partitionDir(fp.BaseDir, partition)
		if err := c.fs.CreateDirectory(ctx, dir); err != nil {
			return errors.Wrapf(err, "creating partition directory %s", dir)
		}
	}
	if fp.IsOverwrite && len(partitions) == 0 {
		// an unpartitioned table: its "partition" is the base directory
		// itself, which always needs cleaning even with no row-count
		// telemetry (an empty insert still truncates the table).
		if err := c.cleanOverwriteDir(ctx, fp.BaseDir); err != nil {
			return err
		}
	}

	var tmpDirs []string
	for tmp, final := range moves {
		if final == "" {
			tmpDirs = append(tmpDirs, tmp)
			continue
		}
		if err := c.fs.Rename(ctx, tmp, final); err != nil && !qfs.IsNotFound(err) {
			return errors.Wrapf(err, "renaming %s to %s", tmp, final)
		}
	}
	for _, tmp := range tmpDirs {
		if err := c.fs.Delete(ctx, tmp); err != nil && !qfs.IsNotFound(err) {
			return errors.Wrapf(err, "deleting tmp directory %s", tmp)
		}
	}

	return nil
}

// cleanOverwritePartitions deletes stale output ahead of an OVERWRITE
// insert, for every partition that will receive new rows.
func (c *Coordinator) cleanOverwritePartitions(ctx context.Context, baseDir string, partitions map[string]int64) error {
	for partition := range partitions {
		if partition == "" {
			if err := c.cleanOverwriteDir(ctx, baseDir); err != nil {
				return err
			}
			continue
		}
		dir := partitionDir(baseDir, partition)
		if err := c.fs.Delete(ctx, dir); err != nil && !qfs.IsNotFound(err) {
			return errors.Wrapf(err, "deleting partition directory %s", dir)
		}
	}
	return nil
}

// cleanOverwriteDir handles the unpartitioned-table case: delete files
// only, never subdirectories, since a subdirectory may hold data the
// query doesn't own (e.g. another table's external location nested
// underneath, or data left by a concurrent job).
func (c *Coordinator) cleanOverwriteDir(ctx context.Context, dir string) error {
	entries, err := c.fs.ListDir(ctx, dir)
	if err != nil {
		return errors.Wrapf(err, "listing %s", dir)
	}
	for _, e := range entries {
		if e.IsDir {
			continue
		}
		if err := c.fs.Delete(ctx, path.Join(dir, e.Name)); err != nil && !qfs.IsNotFound(err) {
			return errors.Wrapf(err, "deleting %s", path.Join(dir, e.Name))
		}
	}
	return nil
}

func partitionDir(baseDir, partition string) string {
	if partition == "" {
		return baseDir
	}
	return path.Join(baseDir, partition)
}
