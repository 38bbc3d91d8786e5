// Package coordinator implements the per-query control plane: it turns a
// pre-planned fragment DAG into a dispatched, monitored, and eventually
// finalized distributed execution.
package coordinator

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shardedsql/qcoord/pkg/clusterscheduler"
	"github.com/shardedsql/qcoord/pkg/plan"
	"github.com/shardedsql/qcoord/pkg/qfs"
	"github.com/shardedsql/qcoord/pkg/qlog"
	"github.com/shardedsql/qcoord/pkg/qstatus"
	"github.com/shardedsql/qcoord/pkg/queryid"
)

// BackendClient is everything the dispatcher, status aggregator, and
// cancellation engine need from a pooled RPC connection to one backend.
type BackendClient interface {
	ExecPlanFragment(ctx context.Context, instanceID queryid.ID, fragmentIdx int, backendNum int32, fp *FragmentExecParams, ranges []plan.ScanRangeParams) (qstatus.Status, error)
	CancelPlanFragment(ctx context.Context, instanceID queryid.ID) (qstatus.Status, error)
}

// ClientPool hands out and reclaims BackendClients, and can force a fresh
// connection after a transport failure.
type ClientPool interface {
	GetClient(host plan.HostPort) (BackendClient, error)
	ReleaseClient(host plan.HostPort, c BackendClient)
	ReopenClient(host plan.HostPort, c BackendClient) (BackendClient, error)
}

// Options carries the process-level configuration Exec needs that isn't
// part of the per-query ExecRequest: where the coordinator itself listens
// (used as the callback address for status reports), which filesystem to
// finalize against, and which cluster scheduler to consult.
type Options struct {
	CoordinatorHost plan.HostPort
	Scheduler       clusterscheduler.Scheduler
	ClientPool      ClientPool
	FileSystem      qfs.FileSystem
	LocalExecutor   LocalExecutor
}

// Coordinator drives one query from dispatch through finalization. It is
// not reusable across queries; construct a fresh one per query ID.
type Coordinator struct {
	queryID   queryid.ID
	req       *plan.ExecRequest
	opts      Options
	fs        qfs.FileSystem
	localExec LocalExecutor

	fragParams       []*FragmentExecParams
	fragmentBackends [][]*backendExecState
	numBackends      int

	// query-wide lock: guards the fields from cond through pendingMoves.
	// Acquire before any instance lock, never after.
	mu                   sync.Mutex
	cond                 *sync.Cond
	queryStatus          qstatus.Status
	numRemainingBackends int
	cancelled            bool
	appendedRows         map[string]int64
	pendingMoves         map[string]string // tmp path -> final path; empty final means delete

	waitLock sync.Mutex
	waitDone bool
	waitErr  error

	profile *queryProfile
}

// New constructs a Coordinator for one query. It performs no I/O; Exec
// does all the planning and dispatch work.
func New(queryID queryid.ID, req *plan.ExecRequest, opts Options) *Coordinator {
	if opts.LocalExecutor == nil {
		opts.LocalExecutor = noopLocalExecutor{}
	}
	c := &Coordinator{
		queryID:      queryID,
		req:          req,
		opts:         opts,
		fs:           opts.FileSystem,
		localExec:    opts.LocalExecutor,
		queryStatus:  qstatus.OKStatus,
		appendedRows: map[string]int64{},
		pendingMoves: map[string]string{},
	}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Exec assigns execution hosts, builds per-instance RPC payloads, and
// dispatches every fragment in topological order. It holds the query lock
// for its entire duration so that an async Cancel can never race ahead of
// instance construction.
func (c *Coordinator) Exec(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	fragParams, numBackends, err := computeFragmentExecParams(ctx, c.queryID, c.req, c.opts.CoordinatorHost, c.opts.Scheduler)
	if err != nil {
		c.setStatusLocked(qstatus.Errorf("planning fragment hosts: %v", err))
		c.cancelInternalLocked(ctx)
		return err
	}
	c.fragParams = fragParams
	c.numBackends = numBackends
	c.numRemainingBackends = numBackends

	c.fragmentBackends = make([][]*backendExecState, len(c.req.Fragments))
	for i, fp := range fragParams {
		assignment := map[plan.HostPort]*assignedScanRanges{}
		if leftmostScan := findLeftmostOfTypes(c.req.Fragments[i].Plan, plan.NodeScan); leftmostScan != plan.InvalidNodeID {
			assignment = assignScanRanges(fp.Hosts, fp.DataServerMap, c.req.PerNodeScanRanges[leftmostScan])
		}
		for j, host := range fp.Hosts {
			var params []plan.ScanRangeParams
			if splits := assignment[host]; splits != nil {
				params = splits.ranges
			}
			bes := newBackendExecState(fp.InstanceIDs[j], i, host, fp.BackendNums[j], params)
			c.fragmentBackends[i] = append(c.fragmentBackends[i], bes)
		}
	}

	c.profile = newQueryProfile(len(c.req.Fragments))

	startFragment := 0
	if c.req.Fragments[0].Partition == plan.Unpartitioned {
		if err := c.localExec.Prepare(ctx); err != nil {
			c.setStatusLocked(qstatus.Errorf("preparing local fragment: %v", err))
			c.cancelInternalLocked(ctx)
			return err
		}
		startFragment = 1
	}

	for i := startFragment; i < len(c.req.Fragments); i++ {
		if err := c.dispatchFragment(ctx, i); err != nil {
			c.setStatusLocked(qstatus.Errorf("dispatching fragment %d: %v", i, err))
			c.cancelInternalLocked(ctx)
			return err
		}
	}

	return nil
}

// setStatusLocked installs s as the query status iff the query status is
// still OK. Callers must hold c.mu.
func (c *Coordinator) setStatusLocked(s qstatus.Status) {
	if c.queryStatus.Code == qstatus.OK {
		c.queryStatus = s
	}
}

// QueryID returns the coordinator's query id, for use as a registry key.
func (c *Coordinator) QueryID() queryid.ID {
	return c.queryID
}

// GetStatus reads the query-wide status under lock.
func (c *Coordinator) GetStatus() qstatus.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queryStatus
}

// GetErrorLog concatenates every instance's error log, each line prefixed
// by its backend index.
func (c *Coordinator) GetErrorLog() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var sb strings.Builder
	idx := 0
	for _, backends := range c.fragmentBackends {
		for _, b := range backends {
			b.mu.Lock()
			for _, line := range b.errorLog {
				fmt.Fprintf(&sb, "[%d] %s\n", idx, line)
			}
			b.mu.Unlock()
			idx++
		}
	}
	return sb.String()
}

// PrepareCatalogUpdate fills out with every partition that received
// appended rows, returning true iff out is non-empty.
func (c *Coordinator) PrepareCatalogUpdate(out map[string]int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range c.appendedRows {
		out[k] = v
	}
	return len(out) > 0
}

// Wait blocks until every dispatched backend has reported done (or the
// query has been cancelled), then runs finalization for bulk-insert
// queries. It is idempotent: the first caller does the work; later callers
// observe its result immediately.
func (c *Coordinator) Wait(ctx context.Context) error {
	c.waitLock.Lock()
	defer c.waitLock.Unlock()

	if c.waitDone {
		return c.waitErr
	}

	c.mu.Lock()
	for c.numRemainingBackends > 0 && c.queryStatus.Code == qstatus.OK {
		c.cond.Wait()
	}
	status := c.queryStatus
	c.mu.Unlock()

	var err error
	if status.Code != qstatus.OK {
		// cancelInternalLocked already emitted the summary/profile for this
		// path (explicit cancel, dispatch failure, or a failed status
		// report); emitting again here would double-log.
		err = status.AsError()
	} else if c.req.NeedsFinalization() {
		err = c.finalizeQuery(ctx)
	}
	if status.Code == qstatus.OK {
		c.emitQuerySummary()
		c.logProfile()
	}

	c.waitDone = true
	c.waitErr = err
	return err
}

// GetNext pulls one batch from the local root fragment. It must be called
// only after a successful Wait.
func (c *Coordinator) GetNext(ctx context.Context) ([]byte, error) {
	if status := c.GetStatus(); status.Code != qstatus.OK {
		return nil, status.AsError()
	}
	return c.localExec.GetNext(ctx)
}

func (c *Coordinator) logf(format string, args ...interface{}) {
	qlog.Zero.Debug().Str("query_id", c.queryID.String()).Msg(fmt.Sprintf(format, args...))
}
