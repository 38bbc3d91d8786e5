package coordinator

import (
	"fmt"
	"sync"
	"time"

	"github.com/shardedsql/qcoord/pkg/plan"
	"github.com/shardedsql/qcoord/pkg/qstatus"
	"github.com/shardedsql/qcoord/pkg/queryid"
)

// backendExecState is the coordinator's mutable view of one fragment
// instance running on one backend. The exported fields are fixed at
// construction; every field after mu is guarded by mu.
//
// Lock order (spec §7): a caller already holding the coordinator's
// query-wide lock may acquire mu, but never the reverse.
type backendExecState struct {
	InstanceID     queryid.ID
	FragmentIdx    int
	Host           plan.HostPort
	BackendNum     int32
	TotalSplitSize int64
	ScanRanges     []plan.ScanRangeParams

	mu              sync.Mutex
	startedAt       time.Time
	endedAt         time.Time
	initiated       bool
	done            bool
	profileCreated  bool
	status          qstatus.Status
	errorLog        []string
	rangesComplete  int64
	aggregateCounters map[string]int64
	wireProfile     []byte
}

func newBackendExecState(instanceID queryid.ID, fragmentIdx int, host plan.HostPort, backendNum int32, splits []plan.ScanRangeParams) *backendExecState {
	var total int64
	for _, s := range splits {
		total += s.ScanRange.Length()
	}
	return &backendExecState{
		InstanceID:        instanceID,
		FragmentIdx:       fragmentIdx,
		Host:              host,
		BackendNum:        backendNum,
		TotalSplitSize:    total,
		ScanRanges:        splits,
		status:            qstatus.OKStatus,
		aggregateCounters: map[string]int64{},
	}
}

// markInitiated records that the exec RPC was sent and starts the
// instance's wall-clock stopwatch.
func (b *backendExecState) markInitiated() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.initiated = true
	b.startedAt = time.Now()
}

// markDone stops the stopwatch and marks the instance as finished,
// successfully or not. Safe to call more than once; only the first call
// has any effect.
func (b *backendExecState) markDone() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done {
		return
	}
	b.done = true
	b.endedAt = time.Now()
}

func (b *backendExecState) isDone() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.done
}

func (b *backendExecState) isInitiated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.initiated
}

// updateStatus merges a report's status into the instance's status, first
// status wins (mirrors Status::IsOk() short-circuiting in the original).
func (b *backendExecState) updateStatus(s qstatus.Status, errLog []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.status.Code == qstatus.OK && s.Code != qstatus.OK {
		b.status = s
	}
	b.errorLog = append(b.errorLog, errLog...)
}

func (b *backendExecState) currentStatus() qstatus.Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

// updateRangesComplete bumps this instance's completed-scan-range count by
// delta and folds in any newly reported aggregate counters (overwrite, not
// accumulate: each report carries the counter's current absolute value).
func (b *backendExecState) updateRangesComplete(delta int64, counters map[string]int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rangesComplete += delta
	for k, v := range counters {
		b.aggregateCounters[k] = v
	}
}

func (b *backendExecState) numScanRangesCompleted() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rangesComplete
}

// throughput returns completed bytes per second based on the assigned
// split size and elapsed wall time since the instance was initiated. It
// returns 0 before the instance starts or if TotalSplitSize is 0.
func (b *backendExecState) throughput() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.TotalSplitSize == 0 || b.startedAt.IsZero() {
		return 0
	}
	end := time.Now()
	if b.done {
		end = b.endedAt
	}
	secs := end.Sub(b.startedAt).Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(b.TotalSplitSize) / secs
}

// throughputCounterKey and rangesCompleteCounterKey are the aggregate
// counter names a worker is expected to report per scan node, mirroring
// the original's per-node CounterMap keying (ScanNode::TOTAL_THROUGHPUT_
// COUNTER / SCAN_RANGES_COMPLETE_COUNTER, collected per plan node id).
func throughputCounterKey(nodeID int32) string {
	return fmt.Sprintf("scan_node.%d.throughput", nodeID)
}

func rangesCompleteCounterKey(nodeID int32) string {
	return fmt.Sprintf("scan_node.%d.ranges_complete", nodeID)
}

// nodeThroughput returns plan node nodeID's self-reported throughput
// counter, or 0 if this instance never reported one (e.g. it doesn't host
// that scan node). The counter is looked up under lock; since it's a plain
// int64 rather than a mutable counter object, the "read outside the lock"
// discipline collapses to copying the value before returning.
func (b *backendExecState) nodeThroughput(nodeID int32) int64 {
	b.mu.Lock()
	v := b.aggregateCounters[throughputCounterKey(nodeID)]
	b.mu.Unlock()
	return v
}

// nodeRangesCompleted returns plan node nodeID's self-reported completed
// scan range count, or 0 if this instance never reported one.
func (b *backendExecState) nodeRangesCompleted(nodeID int32) int64 {
	b.mu.Lock()
	v := b.aggregateCounters[rangesCompleteCounterKey(nodeID)]
	b.mu.Unlock()
	return v
}
