package coordinator

import (
	"context"
	"time"

	"github.com/shardedsql/qcoord/pkg/qstatus"
	"github.com/shardedsql/qcoord/pkg/queryid"
)

// StatusReport is the status-report callback payload a remote worker sends
// via UpdateFragmentExecStatus.
type StatusReport struct {
	InstanceID                  queryid.ID
	Status                      qstatus.Status
	Done                        bool
	ErrorLog                    []string
	CumulativeProfile           []byte
	NumScanRangesCompletedDelta int64
	AggregateCounters           map[string]int64

	// InsertPartitionRows and InsertTmpToFinal carry bulk-insert telemetry
	// and are only meaningful when Done is true.
	InsertPartitionRows map[string]int64
	InsertTmpToFinal    map[string]string
}

// UpdateFragmentExecStatus implements component G: it folds one status
// report into the named instance's state, then — if the report signals
// completion or failure — propagates into query-wide state.
//
// Lock discipline: the instance lock is acquired and released first, doing
// all per-instance work; the query lock is taken afterward, separately,
// for the cross-instance bookkeeping. The query lock is never acquired
// while the instance lock is held; a failed report does reach
// cancelInternalLocked, which takes instance locks under the query lock.
func (c *Coordinator) UpdateFragmentExecStatus(ctx context.Context, report StatusReport) error {
	b := c.findBackend(report.InstanceID)
	if b == nil {
		return qstatus.New(qstatus.Internal, "unknown fragment instance id in status report").AsError()
	}

	b.mu.Lock()
	// an instance's status must never transition back to OK once it has
	// failed or been cancelled.
	if b.status.Code == qstatus.OK && report.Status.Code != qstatus.OK {
		b.status = report.Status
	}
	// done is one-way: only the first done report counts toward
	// numRemainingBackends.
	newlyDone := report.Done && !b.done
	if newlyDone {
		b.done = true
		b.endedAt = time.Now()
	}
	b.errorLog = append(b.errorLog, report.ErrorLog...)

	delta := report.NumScanRangesCompletedDelta
	if delta < 0 {
		// a spurious decrease: refuse it rather than letting the running
		// total go non-monotonic. The report is otherwise still applied.
		delta = 0
	}
	b.rangesComplete += delta
	for k, v := range report.AggregateCounters {
		b.aggregateCounters[k] = v
	}
	reportedStatus := b.status
	b.mu.Unlock()

	materializeInstanceProfile(b, report.CumulativeProfile)

	if report.Done && len(report.InsertTmpToFinal) > 0 {
		c.mu.Lock()
		for partition, rows := range report.InsertPartitionRows {
			c.appendedRows[partition] += rows
		}
		for tmp, final := range report.InsertTmpToFinal {
			c.pendingMoves[tmp] = final
		}
		c.mu.Unlock()
	}

	if reportedStatus.Code != qstatus.OK {
		c.updateStatus(ctx, reportedStatus)
	}

	if newlyDone {
		c.mu.Lock()
		c.numRemainingBackends--
		if c.numRemainingBackends <= 0 {
			c.cond.Broadcast()
		}
		c.mu.Unlock()
	}

	return nil
}

// updateStatus promotes the query status to s iff it is still OK, and
// initiates cancellation exactly once.
func (c *Coordinator) updateStatus(ctx context.Context, s qstatus.Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.queryStatus.Code != qstatus.OK {
		return
	}
	c.queryStatus = s
	c.cancelInternalLocked(ctx)
}

func (c *Coordinator) findBackend(instanceID queryid.ID) *backendExecState {
	for _, backends := range c.fragmentBackends {
		for _, b := range backends {
			if b.InstanceID == instanceID {
				return b
			}
		}
	}
	return nil
}
