package coordinator

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
	"github.com/shardedsql/qcoord/pkg/clusterscheduler"
	"github.com/shardedsql/qcoord/pkg/plan"
	"github.com/shardedsql/qcoord/pkg/queryid"
)

// Destination is one entry of a fragment's destinations list: the instance
// that will receive this fragment's output and the host it runs on.
type Destination struct {
	InstanceID queryid.ID
	Host       plan.HostPort
}

// FragmentExecParams is the per-fragment plan the coordinator computes
// before dispatch: which hosts run it, what instance id each host got, how
// many senders each downstream exchange node should expect, and where this
// fragment's own output should go.
type FragmentExecParams struct {
	Hosts       []plan.HostPort
	InstanceIDs []queryid.ID
	// BackendNums[j] is the backend sequence number assigned to Hosts[j]'s
	// instance: a query-wide counter, starting at 0, across every instance
	// of every fragment in the query, independent of fragment or host.
	BackendNums []int32

	// DataServerMap translates a data host to the execution host the
	// cluster scheduler assigned it to. It is filled for every partitioned
	// fragment whose leftmost scan node has scan ranges, even when those
	// map to a single execution host; it stays empty for coordinator and
	// host-inheriting fragments.
	DataServerMap map[plan.HostPort]plan.HostPort

	// PerExchNumSenders is only meaningful on the *destination* fragment:
	// how many instances, across every fragment that feeds it, will send to
	// each of its exchange nodes.
	PerExchNumSenders map[int32]int

	// Destinations mirrors the destination fragment's host list: one entry
	// per destination instance, used to address this fragment's output
	// sink.
	Destinations []Destination

	// The remaining fields are the same for every instance of this
	// fragment; they're carried here so ExecRemoteFragment has everything
	// it needs to build the wire payload without reaching back into the
	// ExecRequest or Options.
	QueryID         queryid.ID
	CoordinatorHost plan.HostPort
	Partition       plan.PartitionType
	PlanBytes       []byte
	SinkBytes       []byte
	DescTbl         plan.DescriptorTable
	QueryGlobals    plan.QueryGlobals
}

// computeFragmentExecParams implements component B (host planning) and the
// instance-id / destination bookkeeping that must happen once all fragments'
// host sets are known. It returns the per-fragment params in fragment index
// order and the total number of remote (non-coordinator) backend instances.
func computeFragmentExecParams(
	ctx context.Context,
	qid queryid.ID,
	req *plan.ExecRequest,
	coordHost plan.HostPort,
	scheduler clusterscheduler.Scheduler,
) ([]*FragmentExecParams, int, error) {
	n := len(req.Fragments)
	params := make([]*FragmentExecParams, n)
	for i := range params {
		planBytes, sinkBytes, err := encodeFragmentPlan(req.Fragments[i])
		if err != nil {
			return nil, 0, errors.Wrapf(err, "fragment %d", i)
		}
		params[i] = &FragmentExecParams{
			DataServerMap:     map[plan.HostPort]plan.HostPort{},
			PerExchNumSenders: map[int32]int{},
			QueryID:           qid,
			CoordinatorHost:   coordHost,
			Partition:         req.Fragments[i].Partition,
			PlanBytes:         planBytes,
			SinkBytes:         sinkBytes,
			DescTbl:           req.DescTbl,
			QueryGlobals:      req.QueryGlobals,
		}
	}

	if err := computeFragmentHosts(ctx, req, coordHost, scheduler, params); err != nil {
		return nil, 0, err
	}

	numBackends := 0
	for _, p := range params {
		for j := range p.Hosts {
			instanceID, err := qid.Instance(int64(numBackends + j))
			if err != nil {
				return nil, 0, errors.Wrap(err, "assigning fragment instance id")
			}
			p.InstanceIDs = append(p.InstanceIDs, instanceID)
			p.BackendNums = append(p.BackendNums, int32(numBackends+j))
		}
		numBackends += len(p.Hosts)
	}
	if req.Fragments[0].Partition == plan.Unpartitioned {
		// the root fragment executes directly on the coordinator
		numBackends--
	}

	// compute destinations and per-exchange sender counts; the root
	// fragment (index 0) has no destination of its own.
	for i := 1; i < n; i++ {
		p := params[i]
		destIdx := req.DestFragmentIdx[i-1]
		destParams := params[destIdx]

		sink := req.Fragments[i].Sink
		if sink == nil || sink.Stream == nil {
			return nil, 0, errors.Errorf("fragment %d has no stream output sink", i)
		}
		if sink.Stream.OutputPartition != plan.Unpartitioned {
			return nil, 0, errors.Errorf("fragment %d: only unpartitioned (broadcast) output sinks are supported", i)
		}
		exchID := sink.Stream.DestNodeID
		// multiple fragments may send to the same exchange node (a
		// distributed merge), hence the +=.
		destParams.PerExchNumSenders[exchID] += len(p.Hosts)

		p.Destinations = make([]Destination, len(destParams.Hosts))
		for j := range destParams.Hosts {
			p.Destinations[j] = Destination{
				InstanceID: destParams.InstanceIDs[j],
				Host:       destParams.Hosts[j],
			}
		}
	}

	return params, numBackends, nil
}

// computeFragmentHosts implements component B: decide the execution host
// set for every fragment, producer fragments before their consumers so a
// downstream fragment can inherit its upstream's hosts.
func computeFragmentHosts(
	ctx context.Context,
	req *plan.ExecRequest,
	coordHost plan.HostPort,
	scheduler clusterscheduler.Scheduler,
	params []*FragmentExecParams,
) error {
	for i := len(req.Fragments) - 1; i >= 0; i-- {
		fragment := req.Fragments[i]
		p := params[i]

		if fragment.Partition == plan.Unpartitioned {
			p.Hosts = []plan.HostPort{coordHost}
			continue
		}

		leftmostScan := findLeftmostOfTypes(fragment.Plan, plan.NodeScan)
		if leftmostScan == plan.InvalidNodeID {
			// no leftmost scan: inherit hosts from our leftmost input
			// fragment, so e.g. a partitioned aggregation runs on the
			// hosts that provide its input data.
			inputIdx := findLeftmostInputFragment(i, req)
			if inputIdx < 0 {
				return errors.Errorf("fragment %d: no leftmost scan and no input fragment to inherit hosts from", i)
			}
			// TODO: if our input fragment was downgraded to a single host
			// (e.g. because it had no scan ranges), we could downgrade to
			// unpartitioned/coordinator execution too. Not implemented.
			p.Hosts = params[inputIdx].Hosts
			continue
		}

		locations := req.PerNodeScanRanges[leftmostScan]
		if len(locations) == 0 {
			// this scan node has no scan ranges; run it on the
			// coordinator. Revisit once right-outer-join partitioning
			// exists: such a fragment could be executing a large build
			// side that shouldn't be pinned to one host.
			p.Hosts = []plan.HostPort{coordHost}
			continue
		}

		dataHosts := distinctDataHosts(locations)

		execHosts, err := scheduler.GetHosts(ctx, dataHosts)
		if err != nil {
			return errors.Wrapf(err, "fragment %d: cluster scheduler failed to map data hosts", i)
		}
		if len(execHosts) != len(dataHosts) {
			return errors.Errorf("fragment %d: cluster scheduler returned %d hosts for %d data hosts", i, len(execHosts), len(dataHosts))
		}
		for j, dh := range dataHosts {
			p.DataServerMap[dh] = execHosts[j]
		}

		p.Hosts = dedupeHosts(execHosts)
	}
	return nil
}

func distinctDataHosts(locations []plan.ScanRangeLocations) []plan.HostPort {
	seen := map[plan.HostPort]struct{}{}
	var out []plan.HostPort
	for _, srl := range locations {
		for _, loc := range srl.Locations {
			if _, ok := seen[loc.Host]; ok {
				continue
			}
			seen[loc.Host] = struct{}{}
			out = append(out, loc.Host)
		}
	}
	return out
}

func dedupeHosts(hosts []plan.HostPort) []plan.HostPort {
	out := make([]plan.HostPort, len(hosts))
	copy(out, hosts)
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	deduped := out[:0]
	for i, h := range out {
		if i == 0 || h != deduped[len(deduped)-1] {
			deduped = append(deduped, h)
		}
	}
	return deduped
}

// encodeFragmentPlan serializes a fragment's operator tree and output sink
// into the opaque byte blobs ExecPlanFragment ships to the worker. Neither
// the coordinator nor this package ever decodes them again; JSON is used
// rather than a generated message because plan.Tree/plan.Sink carry no
// proto descriptors of their own (see DESIGN.md).
func encodeFragmentPlan(f plan.Fragment) (planBytes, sinkBytes []byte, err error) {
	planBytes, err = json.Marshal(f.Plan)
	if err != nil {
		return nil, nil, errors.Wrap(err, "encoding fragment plan")
	}
	if f.Sink != nil {
		sinkBytes, err = json.Marshal(f.Sink)
		if err != nil {
			return nil, nil, errors.Wrap(err, "encoding fragment sink")
		}
	}
	return planBytes, sinkBytes, nil
}

// encodeScanRange serializes a scan range's file split into the opaque byte
// blob a worker reads off ScanRangeParams.ScanRange to know what to scan.
func encodeScanRange(r plan.ScanRange) ([]byte, error) {
	if r.FileSplit == nil {
		return nil, nil
	}
	b, err := json.Marshal(r.FileSplit)
	if err != nil {
		return nil, errors.Wrap(err, "encoding scan range file split")
	}
	return b, nil
}
