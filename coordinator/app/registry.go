package app

import (
	"context"
	"sync"

	"github.com/shardedsql/qcoord/coordinator"
	"github.com/shardedsql/qcoord/pkg/qstatus"
	"github.com/shardedsql/qcoord/pkg/queryid"
	"github.com/shardedsql/qcoord/pkg/rpcpb"
)

// Registry routes an incoming status report to the CallbackServer for the
// query it names, since one gRPC server handles callbacks for every query
// the process is currently coordinating.
type Registry struct {
	rpcpb.UnimplementedCoordinatorCallbackServiceServer

	mu       sync.RWMutex
	handlers map[queryid.ID]*coordinator.CallbackServer
}

func NewRegistry() *Registry {
	return &Registry{handlers: map[queryid.ID]*coordinator.CallbackServer{}}
}

// Register makes c's coordinator reachable for callback RPCs. Callers must
// Unregister once the query is done.
func (r *Registry) Register(c *coordinator.Coordinator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[c.QueryID()] = coordinator.NewCallbackServer(c)
}

func (r *Registry) Unregister(queryID queryid.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, queryID)
}

func (r *Registry) UpdateFragmentExecStatus(ctx context.Context, req *rpcpb.FragmentExecStatusReport) (*rpcpb.UpdateFragmentExecStatusResponse, error) {
	qid := queryid.ID{}
	if req.QueryId != nil {
		qid = queryid.ID{Hi: req.QueryId.Hi, Lo: req.QueryId.Lo}
	}

	r.mu.RLock()
	h, ok := r.handlers[qid]
	r.mu.RUnlock()
	if !ok {
		return &rpcpb.UpdateFragmentExecStatusResponse{
			StatusCode: int32(qstatus.Internal),
			StatusMsg:  "unknown query id in status report",
		}, nil
	}
	return h.UpdateFragmentExecStatus(ctx, req)
}
