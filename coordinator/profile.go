package coordinator

import (
	"fmt"
	"sort"

	"github.com/shardedsql/qcoord/pkg/qlog"
)

// profileNode is one node of the coordinator's profile tree: an arena
// entry referenced by its parent's Children slice, never by a separate
// shared-ownership pointer graph (see design notes on cyclic references).
type profileNode struct {
	Name     string
	Counters map[string]int64
	Children []*profileNode
}

func newProfileNode(name string) *profileNode {
	return &profileNode{Name: name, Counters: map[string]int64{}}
}

// queryProfile is the coordinator's whole profile tree for one query:
// the coordinator fragment's own profile first, then one
// "Averaged Fragment i" / "Fragment i" pair per fragment, in fragment
// order, matching the order dispatch brings each fragment's instances up.
type queryProfile struct {
	Root        *profileNode
	Coordinator *profileNode
	Averaged    []*profileNode
	Fragments   []*profileNode
}

func newQueryProfile(numFragments int) *queryProfile {
	root := newProfileNode("Query")
	coord := newProfileNode("Coordinator")
	root.Children = append(root.Children, coord)

	qp := &queryProfile{Root: root, Coordinator: coord}
	for i := 0; i < numFragments; i++ {
		avg := newProfileNode(fmt.Sprintf("Averaged Fragment %d", i))
		frag := newProfileNode(fmt.Sprintf("Fragment %d", i))
		root.Children = append(root.Children, avg, frag)
		qp.Averaged = append(qp.Averaged, avg)
		qp.Fragments = append(qp.Fragments, frag)
	}
	return qp
}

// materializeInstanceProfile replaces the instance's stored wire profile
// with the bytes just reported, tracked on the backend state itself rather
// than in the shared tree (each instance owns its own leaf until summary
// time folds them together).
func materializeInstanceProfile(b *backendExecState, wire []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.profileCreated = true
	b.wireProfile = wire
}

// scanNodeIDs returns every scan node id this query's PerNodeScanRanges
// names, sorted for stable iteration order.
func (c *Coordinator) scanNodeIDs() []int32 {
	out := make([]int32, 0, len(c.req.PerNodeScanRanges))
	for nodeID := range c.req.PerNodeScanRanges {
		out = append(out, nodeID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ComputeTotalThroughput sums nodeID's self-reported throughput counter
// across every dispatched instance, mirroring CollectScanNodeCounters's
// per-node aggregate derived counters.
func (c *Coordinator) ComputeTotalThroughput(nodeID int32) int64 {
	var total int64
	for _, backends := range c.fragmentBackends {
		for _, b := range backends {
			total += b.nodeThroughput(nodeID)
		}
	}
	return total
}

// ComputeTotalScanRangesComplete sums nodeID's self-reported completed scan
// range count across every dispatched instance.
func (c *Coordinator) ComputeTotalScanRangesComplete(nodeID int32) int64 {
	var total int64
	for _, backends := range c.fragmentBackends {
		for _, b := range backends {
			total += b.nodeRangesCompleted(nodeID)
		}
	}
	return total
}

// collectAggregateCounters folds every scan node's query-wide throughput and
// completed-range totals into the coordinator profile node, the same
// per-node rollup CreateAggregateCounters derives lazily in the original;
// here it's computed once, eagerly, when the query ends.
func (c *Coordinator) collectAggregateCounters() {
	if c.profile == nil {
		return
	}
	for _, nodeID := range c.scanNodeIDs() {
		c.profile.Coordinator.Counters[fmt.Sprintf("ScanNode(id=%d) Throughput", nodeID)] = c.ComputeTotalThroughput(nodeID)
		c.profile.Coordinator.Counters[fmt.Sprintf("ScanNode(id=%d) Completed scan ranges", nodeID)] = c.ComputeTotalScanRangesComplete(nodeID)
	}
}

// logProfile folds the aggregate counters into the profile tree and emits
// it, one log line per non-empty node, at both normal completion and
// cancellation.
func (c *Coordinator) logProfile() {
	if c.profile == nil {
		return
	}
	c.collectAggregateCounters()
	logProfileNode(c.queryID.String(), c.profile.Root)
}

func logProfileNode(queryID string, n *profileNode) {
	if len(n.Counters) > 0 {
		ev := qlog.Zero.Debug().Str("query_id", queryID).Str("profile_node", n.Name)
		for k, v := range n.Counters {
			ev = ev.Int64(k, v)
		}
		ev.Msg("profile counters")
	}
	for _, child := range n.Children {
		logProfileNode(queryID, child)
	}
}
