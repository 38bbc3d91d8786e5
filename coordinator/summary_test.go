package coordinator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shardedsql/qcoord/pkg/plan"
	"github.com/shardedsql/qcoord/pkg/queryid"
)

func backendWithThroughput(t *testing.T, splitBytes int64, elapsed time.Duration) *backendExecState {
	t.Helper()
	b := newBackendExecState(queryid.ID{Lo: 1}, 0, plan.HostPort{}, 0, []plan.ScanRangeParams{
		{ScanRange: mkSplit(splitBytes)},
	})
	b.startedAt = time.Now().Add(-elapsed)
	b.done = true
	b.endedAt = b.startedAt.Add(elapsed)
	return b
}

func TestReportQuerySummaryStats(t *testing.T) {
	assert := assert.New(t)

	backends := []*backendExecState{
		backendWithThroughput(t, 1000, time.Second),
		backendWithThroughput(t, 2000, time.Second),
	}

	summaries, err := reportQuerySummary([][]*backendExecState{backends})
	assert.NoError(err)
	assert.Len(summaries, 1)

	s := summaries[0]
	assert.Equal(2, s.NumInstances)
	assert.InDelta(1000.0, s.MinRateBps, 1)
	assert.InDelta(2000.0, s.MaxRateBps, 1)
	assert.InDelta(1500.0, s.MeanRateBps, 1)
	assert.Greater(s.StdDevRateBps, 0.0)
}

func TestFragmentSummaryEmptyFragment(t *testing.T) {
	assert := assert.New(t)
	s, err := newFragmentSummary(nil)
	assert.NoError(err)
	assert.Equal(0, s.NumInstances)
	assert.Equal(0.0, s.Quantile(0.5))
}
