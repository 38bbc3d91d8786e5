package coordinator

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shardedsql/qcoord/pkg/plan"
	"github.com/shardedsql/qcoord/pkg/qlog"
	"github.com/shardedsql/qcoord/pkg/qstatus"
	"github.com/shardedsql/qcoord/pkg/queryid"
)

// Cancel implements component H's external entry point: idempotent,
// promotes the query status to CANCELLED if it is still OK, then fans out
// cancel RPCs. If the query status is already non-OK, later callers
// return immediately.
func (c *Coordinator) Cancel(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.queryStatus.Code != qstatus.OK {
		return
	}
	c.queryStatus = qstatus.CancelledStatus
	c.cancelInternalLocked(ctx)
}

// cancelInternalLocked is the shared cancellation path used by Cancel, by
// a failed dispatch, and by a failed status report. Callers must already
// hold c.mu; it acquires each backend's instance lock in turn, which is
// the only lock-order direction this coordinator ever takes.
func (c *Coordinator) cancelInternalLocked(ctx context.Context) {
	if c.cancelled {
		return
	}
	c.cancelled = true

	c.localExec.Cancel()

	for _, backends := range c.fragmentBackends {
		for _, b := range backends {
			c.cancelBackendLocked(ctx, b)
		}
	}

	c.emitQuerySummary()
	c.logProfile()

	c.cond.Broadcast()
}

// cancelBackendLocked sends CancelPlanFragment to one instance, tolerating
// per-target RPC failure. Callers must hold c.mu.
func (c *Coordinator) cancelBackendLocked(ctx context.Context, b *backendExecState) {
	b.mu.Lock()
	if b.status.Code != qstatus.OK {
		// already ended (error, cancelled, or otherwise) — at most one
		// cancel RPC is ever sent per instance.
		b.mu.Unlock()
		return
	}
	b.status = qstatus.CancelledStatus
	initiated := b.initiated
	done := b.done
	instanceID := b.InstanceID
	host := b.Host
	b.mu.Unlock()

	if !initiated || done {
		return
	}

	if err := c.sendCancelWithRetry(ctx, host, instanceID); err != nil {
		b.mu.Lock()
		b.errorLog = append(b.errorLog, err.Error())
		b.mu.Unlock()
		qlog.Zero.Warn().Err(err).Str("instance_id", instanceID.String()).Msg("cancel RPC failed")
	}
}

// sendCancelWithRetry mirrors execRemoteFragment's reopen-retry discipline
// for CancelPlanFragment.
func (c *Coordinator) sendCancelWithRetry(ctx context.Context, host plan.HostPort, instanceID queryid.ID) error {
	err := c.callWithReopen(ctx, host, func(client BackendClient) error {
		_, callErr := client.CancelPlanFragment(ctx, instanceID)
		return callErr
	})
	if err != nil {
		return errors.Wrapf(err, "cancelling instance on %s", host)
	}
	return nil
}
