package coordinator

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/shardedsql/qcoord/pkg/qstatus"
)

// dispatchFragment implements component F's per-fragment fan-out: every
// instance of fragmentIdx is dispatched concurrently, and the call returns
// the first error any of them hit. Callers must already hold c.mu.
func (c *Coordinator) dispatchFragment(ctx context.Context, fragmentIdx int) error {
	fp := c.fragParams[fragmentIdx]
	backends := c.fragmentBackends[fragmentIdx]

	errs := make([]error, len(backends))
	var wg sync.WaitGroup
	wg.Add(len(backends))
	for i, b := range backends {
		go func(i int, b *backendExecState) {
			defer wg.Done()
			errs[i] = c.execRemoteFragment(ctx, fragmentIdx, fp, b)
		}(i, b)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// execRemoteFragment implements ExecRemoteFragment: obtain a pooled client,
// send ExecPlanFragment, retrying through callWithReopen on transport
// failure, and release the client on every exit path.
func (c *Coordinator) execRemoteFragment(ctx context.Context, fragmentIdx int, fp *FragmentExecParams, b *backendExecState) error {
	b.mu.Lock()
	ranges := b.ScanRanges
	b.mu.Unlock()

	var status qstatus.Status
	err := c.callWithReopen(ctx, b.Host, func(client BackendClient) error {
		var callErr error
		status, callErr = client.ExecPlanFragment(ctx, b.InstanceID, fragmentIdx, b.BackendNum, fp, ranges)
		return callErr
	})
	if err != nil {
		return errors.Wrapf(err, "dispatching to %s", b.Host)
	}

	if status.Code != qstatus.OK {
		b.updateStatus(status, nil)
		return status.AsError()
	}

	b.markInitiated()
	return nil
}
