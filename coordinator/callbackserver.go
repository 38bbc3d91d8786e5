package coordinator

import (
	"context"

	"github.com/shardedsql/qcoord/pkg/qstatus"
	"github.com/shardedsql/qcoord/pkg/queryid"
	"github.com/shardedsql/qcoord/pkg/rpcpb"
)

// CallbackServer exposes one Coordinator's UpdateFragmentExecStatus method
// as a CoordinatorCallbackService. Every in-flight query's coordinator
// registers one of these, keyed by query ID, with the process-wide gRPC
// server (see coordinator/app).
type CallbackServer struct {
	rpcpb.UnimplementedCoordinatorCallbackServiceServer

	coordinator *Coordinator
}

func NewCallbackServer(c *Coordinator) *CallbackServer {
	return &CallbackServer{coordinator: c}
}

func (s *CallbackServer) UpdateFragmentExecStatus(ctx context.Context, req *rpcpb.FragmentExecStatusReport) (*rpcpb.UpdateFragmentExecStatusResponse, error) {
	report := StatusReport{
		InstanceID:                  fromUniqueID(req.FragmentInstanceId),
		Status:                      fromStatusCode(req.StatusCode, req.StatusMsg),
		Done:                        req.Done,
		ErrorLog:                    req.ErrorLog,
		CumulativeProfile:           req.Profile,
		NumScanRangesCompletedDelta: req.NumScanRangesCompletedDelta,
		AggregateCounters:           req.AggregateCounters,
	}

	if err := s.coordinator.UpdateFragmentExecStatus(ctx, report); err != nil {
		return &rpcpb.UpdateFragmentExecStatusResponse{
			StatusCode: int32(qstatus.Internal),
			StatusMsg:  err.Error(),
		}, nil
	}
	return &rpcpb.UpdateFragmentExecStatusResponse{StatusCode: int32(qstatus.OK)}, nil
}

func fromUniqueID(id *rpcpb.UniqueId) queryid.ID {
	if id == nil {
		return queryid.ID{}
	}
	return queryid.ID{Hi: id.Hi, Lo: id.Lo}
}
