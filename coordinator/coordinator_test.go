package coordinator

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shardedsql/qcoord/pkg/clusterscheduler"
	"github.com/shardedsql/qcoord/pkg/plan"
	"github.com/shardedsql/qcoord/pkg/qfs"
	"github.com/shardedsql/qcoord/pkg/qstatus"
	"github.com/shardedsql/qcoord/pkg/queryid"
)

// fakeBackendClient and fakeClientPool stand in for pkg/backendclient so
// coordinator tests never open a real connection.
type fakeBackendClient struct {
	host plan.HostPort
	pool *fakeClientPool
}

func (f *fakeBackendClient) ExecPlanFragment(ctx context.Context, instanceID queryid.ID, fragmentIdx int, backendNum int32, fp *FragmentExecParams, ranges []plan.ScanRangeParams) (qstatus.Status, error) {
	f.pool.mu.Lock()
	f.pool.execCalls = append(f.pool.execCalls, instanceID)
	f.pool.mu.Unlock()
	return qstatus.OKStatus, nil
}

func (f *fakeBackendClient) CancelPlanFragment(ctx context.Context, instanceID queryid.ID) (qstatus.Status, error) {
	f.pool.mu.Lock()
	f.pool.cancelCalls = append(f.pool.cancelCalls, instanceID)
	f.pool.mu.Unlock()
	return qstatus.OKStatus, nil
}

type fakeClientPool struct {
	mu          sync.Mutex
	execCalls   []queryid.ID
	cancelCalls []queryid.ID
}

func (p *fakeClientPool) GetClient(host plan.HostPort) (BackendClient, error) {
	return &fakeBackendClient{host: host, pool: p}, nil
}
func (p *fakeClientPool) ReleaseClient(host plan.HostPort, c BackendClient) {}
func (p *fakeClientPool) ReopenClient(host plan.HostPort, c BackendClient) (BackendClient, error) {
	return c, nil
}

func (p *fakeClientPool) numCancelled() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.cancelCalls)
}

func newTestCoordinator(req *plan.ExecRequest, pool *fakeClientPool) *Coordinator {
	return New(queryid.ID{Hi: 1, Lo: 1}, req, Options{
		CoordinatorHost: coordHost,
		Scheduler:       clusterscheduler.Identity{},
		ClientPool:      pool,
		FileSystem:      qfs.LocalFS{},
	})
}

func twoInstanceScanRequest() *plan.ExecRequest {
	dataHost1 := plan.HostPort{Host: "data1", Port: 1}
	dataHost2 := plan.HostPort{Host: "data2", Port: 1}
	return &plan.ExecRequest{
		Fragments: []plan.Fragment{
			{
				Plan:      plan.Tree{Nodes: []plan.Node{{ID: 0, Type: plan.NodeExchange, NumChildren: 1}, {ID: 1, Type: plan.NodeOther}}},
				Partition: plan.Unpartitioned,
			},
			{
				Plan:      plan.Tree{Nodes: []plan.Node{{ID: 2, Type: plan.NodeScan}}},
				Sink:      &plan.Sink{Stream: &plan.StreamSink{DestNodeID: 0, OutputPartition: plan.Unpartitioned}},
				Partition: plan.Partitioned,
			},
		},
		DestFragmentIdx: []int{0},
		PerNodeScanRanges: map[int32][]plan.ScanRangeLocations{
			2: {
				{ScanRange: mkSplit(10), Locations: []plan.ScanRangeLocation{{Host: dataHost1}}},
				{ScanRange: mkSplit(10), Locations: []plan.ScanRangeLocation{{Host: dataHost2}}},
			},
		},
	}
}

// TestExecAndWaitToCompletion covers an unpartitioned root fed by one scan
// fragment with two instances: Exec dispatches both scan instances, each
// reports done, and Wait returns once the last one does.
func TestExecAndWaitToCompletion(t *testing.T) {
	assert := assert.New(t)
	req := twoInstanceScanRequest()
	pool := &fakeClientPool{}
	c := newTestCoordinator(req, pool)

	ctx := context.Background()
	assert.NoError(c.Exec(ctx))
	assert.Len(pool.execCalls, 2)

	instanceIDs := make([]queryid.ID, 0, 2)
	for _, b := range c.fragmentBackends[1] {
		instanceIDs = append(instanceIDs, b.InstanceID)
	}
	assert.Len(instanceIDs, 2)

	for _, id := range instanceIDs {
		assert.NoError(c.UpdateFragmentExecStatus(ctx, StatusReport{InstanceID: id, Status: qstatus.OKStatus, Done: true}))
	}

	assert.NoError(c.Wait(ctx))
	assert.Equal(qstatus.OK, c.GetStatus().Code)
}

// TestUpdateFragmentExecStatusRejectsSpuriousDecrease covers the
// progress-monotonicity-with-spurious-decrease scenario.
func TestUpdateFragmentExecStatusRejectsSpuriousDecrease(t *testing.T) {
	assert := assert.New(t)
	req := twoInstanceScanRequest()
	pool := &fakeClientPool{}
	c := newTestCoordinator(req, pool)
	ctx := context.Background()
	assert.NoError(c.Exec(ctx))

	id := c.fragmentBackends[1][0].InstanceID
	assert.NoError(c.UpdateFragmentExecStatus(ctx, StatusReport{InstanceID: id, NumScanRangesCompletedDelta: 5}))
	assert.NoError(c.UpdateFragmentExecStatus(ctx, StatusReport{InstanceID: id, NumScanRangesCompletedDelta: -3}))

	assert.Equal(int64(5), c.fragmentBackends[1][0].numScanRangesCompleted())
}

// TestUpdateFragmentExecStatusUnknownInstance covers reports naming an
// instance the coordinator never dispatched.
func TestUpdateFragmentExecStatusUnknownInstance(t *testing.T) {
	assert := assert.New(t)
	req := twoInstanceScanRequest()
	pool := &fakeClientPool{}
	c := newTestCoordinator(req, pool)
	ctx := context.Background()
	assert.NoError(c.Exec(ctx))

	err := c.UpdateFragmentExecStatus(ctx, StatusReport{InstanceID: queryid.ID{Hi: 99, Lo: 99}})
	assert.Error(err)
}

// TestCancelIsIdempotent covers the double-cancel-race scenario: many
// concurrent Cancel calls must send at most one cancel RPC per instance.
func TestCancelIsIdempotent(t *testing.T) {
	assert := assert.New(t)
	req := twoInstanceScanRequest()
	pool := &fakeClientPool{}
	c := newTestCoordinator(req, pool)
	ctx := context.Background()
	assert.NoError(c.Exec(ctx))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Cancel(ctx)
		}()
	}
	wg.Wait()

	assert.Equal(qstatus.Cancelled, c.GetStatus().Code)
	assert.Equal(2, pool.numCancelled(), "exactly one cancel RPC per dispatched instance")

	err := c.Wait(ctx)
	assert.Error(err)
}

// TestCancelRacesStatusReport exercises Cancel racing with a concurrent
// done status report after Exec has dispatched every instance: neither call
// must deadlock, and the query ends cancelled or errored but never hangs.
func TestCancelRacesStatusReport(t *testing.T) {
	assert := assert.New(t)
	req := twoInstanceScanRequest()
	pool := &fakeClientPool{}
	c := newTestCoordinator(req, pool)
	ctx := context.Background()
	assert.NoError(c.Exec(ctx))

	id := c.fragmentBackends[1][0].InstanceID

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.Cancel(ctx)
	}()
	go func() {
		defer wg.Done()
		_ = c.UpdateFragmentExecStatus(ctx, StatusReport{InstanceID: id, Done: true, Status: qstatus.OKStatus})
	}()
	wg.Wait()

	assert.NotEqual(qstatus.OK, c.GetStatus().Code)
}
