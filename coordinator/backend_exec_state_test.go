package coordinator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shardedsql/qcoord/pkg/plan"
	"github.com/shardedsql/qcoord/pkg/qstatus"
	"github.com/shardedsql/qcoord/pkg/queryid"
)

func TestBackendExecStateStatusFirstErrorWins(t *testing.T) {
	assert := assert.New(t)
	b := newBackendExecState(queryid.ID{Lo: 1}, 0, plan.HostPort{}, 0, nil)

	b.updateStatus(qstatus.Errorf("first"), []string{"boom"})
	b.updateStatus(qstatus.CancelledStatus, nil)

	assert.Equal(qstatus.Error, b.currentStatus().Code)
	assert.Equal([]string{"boom"}, b.errorLog)
}

func TestBackendExecStateMarkDoneIdempotent(t *testing.T) {
	assert := assert.New(t)
	b := newBackendExecState(queryid.ID{Lo: 1}, 0, plan.HostPort{}, 0, nil)
	b.markInitiated()

	b.markDone()
	first := b.endedAt
	time.Sleep(time.Millisecond)
	b.markDone()

	assert.True(b.isDone())
	assert.Equal(first, b.endedAt, "a second markDone must not move endedAt")
}

func TestBackendExecStateThroughputUsesEndedAtOnceDone(t *testing.T) {
	assert := assert.New(t)
	b := newBackendExecState(queryid.ID{Lo: 1}, 0, plan.HostPort{}, 0, []plan.ScanRangeParams{
		{ScanRange: mkSplit(1000)},
	})
	b.markInitiated()
	time.Sleep(10 * time.Millisecond)
	b.markDone()

	rate := b.throughput()
	assert.Greater(rate, 0.0)

	// a throughput call long after markDone must return the same value,
	// since elapsed time is frozen at endedAt rather than time.Now().
	time.Sleep(10 * time.Millisecond)
	assert.Equal(rate, b.throughput())
}

func TestBackendExecStateRangesCompleteAccumulates(t *testing.T) {
	assert := assert.New(t)
	b := newBackendExecState(queryid.ID{Lo: 1}, 0, plan.HostPort{}, 0, nil)

	b.updateRangesComplete(3, map[string]int64{"rows_read": 100})
	b.updateRangesComplete(2, map[string]int64{"rows_read": 250})

	assert.Equal(int64(5), b.numScanRangesCompleted())
	assert.Equal(int64(250), b.aggregateCounters["rows_read"])
}
