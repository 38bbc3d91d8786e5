package coordinator

import (
	"context"
	"errors"

	"github.com/shardedsql/qcoord/pkg/backendclient"
	"github.com/shardedsql/qcoord/pkg/plan"
	"github.com/shardedsql/qcoord/pkg/qstatus"
	"github.com/shardedsql/qcoord/pkg/queryid"
	"github.com/shardedsql/qcoord/pkg/rpcpb"
)

// grpcClientPool adapts backendclient.Pool to this package's ClientPool
// interface, translating between the domain types (plan, qstatus, queryid)
// and the wire messages in pkg/rpcpb.
type grpcClientPool struct {
	pool *backendclient.Pool
}

// NewGRPCClientPool wraps pool for use as a coordinator.ClientPool.
func NewGRPCClientPool(pool *backendclient.Pool) ClientPool {
	return &grpcClientPool{pool: pool}
}

func (p *grpcClientPool) GetClient(host plan.HostPort) (BackendClient, error) {
	c, err := p.pool.GetClient(host)
	if err != nil {
		return nil, err
	}
	return &grpcBackendClient{host: host, inner: c}, nil
}

func (p *grpcClientPool) ReleaseClient(_ plan.HostPort, c BackendClient) {
	gc, ok := c.(*grpcBackendClient)
	if !ok {
		return
	}
	p.pool.ReleaseClient(gc.inner)
}

func (p *grpcClientPool) ReopenClient(_ plan.HostPort, c BackendClient) (BackendClient, error) {
	gc, ok := c.(*grpcBackendClient)
	if !ok {
		return nil, errNotAGRPCClient
	}
	reopened, err := p.pool.ReopenClient(gc.inner)
	if err != nil {
		return nil, err
	}
	return &grpcBackendClient{host: gc.host, inner: reopened}, nil
}

var errNotAGRPCClient = errors.New("coordinator: client was not obtained from this pool")

type grpcBackendClient struct {
	host  plan.HostPort
	inner *backendclient.Client
}

func toUniqueID(id queryid.ID) *rpcpb.UniqueId {
	return &rpcpb.UniqueId{Hi: id.Hi, Lo: id.Lo}
}

func fromStatusCode(code int32, msg string) qstatus.Status {
	return qstatus.Status{Code: qstatus.Code(code), Msg: msg}
}

func (c *grpcBackendClient) ExecPlanFragment(ctx context.Context, instanceID queryid.ID, fragmentIdx int, backendNum int32, fp *FragmentExecParams, ranges []plan.ScanRangeParams) (qstatus.Status, error) {
	req := &rpcpb.ExecPlanFragmentRequest{
		QueryId:            toUniqueID(fp.QueryID),
		FragmentInstanceId: toUniqueID(instanceID),
		FragmentIdx:        int32(fragmentIdx),
		Fragment: &rpcpb.PlanFragment{
			Plan:      fp.PlanBytes,
			Sink:      fp.SinkBytes,
			Partition: int32(fp.Partition),
		},
		DescTbl:           fp.DescTbl,
		QueryGlobals:      fp.QueryGlobals,
		PerExchNumSenders: toInt32Map(fp.PerExchNumSenders),
		CallbackHost:      fp.CoordinatorHost.Host,
		CallbackPort:      fp.CoordinatorHost.Port,
		BackendNum:        backendNum,
	}
	for _, d := range fp.Destinations {
		req.Destinations = append(req.Destinations, &rpcpb.Destination{
			InstanceId: toUniqueID(d.InstanceID),
			Host:       d.Host.Host,
			Port:       d.Host.Port,
		})
	}
	for _, r := range ranges {
		vr := r
		scanRangeBytes, err := encodeScanRange(vr.ScanRange)
		if err != nil {
			return qstatus.Status{}, err
		}
		req.ScanRanges = append(req.ScanRanges, &rpcpb.ScanRangeParams{
			ScanRange: scanRangeBytes,
			VolumeId:  vr.VolumeID,
		})
	}

	resp, err := c.inner.ExecPlanFragment(ctx, req)
	if err != nil {
		return qstatus.Status{}, err
	}
	return fromStatusCode(resp.StatusCode, resp.StatusMsg), nil
}

func (c *grpcBackendClient) CancelPlanFragment(ctx context.Context, instanceID queryid.ID) (qstatus.Status, error) {
	resp, err := c.inner.CancelPlanFragment(ctx, &rpcpb.CancelPlanFragmentRequest{
		FragmentInstanceId: toUniqueID(instanceID),
	})
	if err != nil {
		return qstatus.Status{}, err
	}
	return fromStatusCode(resp.StatusCode, resp.StatusMsg), nil
}

func toInt32Map(m map[int32]int) map[int32]int32 {
	out := make(map[int32]int32, len(m))
	for k, v := range m {
		out[k] = int32(v)
	}
	return out
}
