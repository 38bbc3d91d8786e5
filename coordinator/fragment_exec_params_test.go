package coordinator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shardedsql/qcoord/pkg/clusterscheduler"
	"github.com/shardedsql/qcoord/pkg/plan"
	"github.com/shardedsql/qcoord/pkg/queryid"
)

var coordHost = plan.HostPort{Host: "coord", Port: 9999}

func unpartitionedRootTwoScanFragments() *plan.ExecRequest {
	dataHost := plan.HostPort{Host: "data1", Port: 1}
	return &plan.ExecRequest{
		Fragments: []plan.Fragment{
			{
				Plan:      plan.Tree{Nodes: []plan.Node{{ID: 0, Type: plan.NodeExchange, NumChildren: 1}, {ID: 1, Type: plan.NodeOther}}},
				Partition: plan.Unpartitioned,
			},
			{
				Plan: plan.Tree{Nodes: []plan.Node{{ID: 2, Type: plan.NodeScan}}},
				Sink: &plan.Sink{Stream: &plan.StreamSink{DestNodeID: 0, OutputPartition: plan.Unpartitioned}},
				Partition: plan.Partitioned,
			},
		},
		DestFragmentIdx: []int{0},
		PerNodeScanRanges: map[int32][]plan.ScanRangeLocations{
			2: {
				{ScanRange: mkSplit(10), Locations: []plan.ScanRangeLocation{{Host: dataHost}}},
			},
		},
	}
}

func TestComputeFragmentExecParamsUnpartitionedRoot(t *testing.T) {
	assert := assert.New(t)
	req := unpartitionedRootTwoScanFragments()

	params, numBackends, err := computeFragmentExecParams(context.Background(), queryid.ID{Hi: 1, Lo: 1}, req, coordHost, clusterscheduler.Identity{})
	assert.NoError(err)

	// fragment 0 is unpartitioned and runs on the coordinator, so it does not
	// count toward remote backend instances.
	assert.Equal(1, numBackends)
	assert.Equal([]plan.HostPort{coordHost}, params[0].Hosts)
	assert.Len(params[1].Hosts, 1)

	// the scan fragment's single instance must be reachable as fragment 0's
	// only destination.
	assert.Len(params[1].Destinations, 1)
	assert.Equal(params[0].InstanceIDs[0], params[1].Destinations[0].InstanceID)
	assert.Equal(1, params[0].PerExchNumSenders[0])
}

func TestComputeFragmentExecParamsNoScanRangesFallsBackToCoordinator(t *testing.T) {
	assert := assert.New(t)

	req := &plan.ExecRequest{
		Fragments: []plan.Fragment{
			{
				Plan:      plan.Tree{Nodes: []plan.Node{{ID: 0, Type: plan.NodeScan}}},
				Partition: plan.Partitioned,
			},
		},
		PerNodeScanRanges: map[int32][]plan.ScanRangeLocations{},
	}

	params, numBackends, err := computeFragmentExecParams(context.Background(), queryid.ID{Hi: 1, Lo: 1}, req, coordHost, clusterscheduler.Identity{})
	assert.NoError(err)
	assert.Equal([]plan.HostPort{coordHost}, params[0].Hosts)
	assert.Equal(1, numBackends)
}

func TestDedupeHosts(t *testing.T) {
	assert := assert.New(t)
	h1 := plan.HostPort{Host: "a", Port: 1}
	h2 := plan.HostPort{Host: "b", Port: 1}
	out := dedupeHosts([]plan.HostPort{h2, h1, h2, h1})
	assert.Equal([]plan.HostPort{h1, h2}, out)
}
