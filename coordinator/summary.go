package coordinator

import (
	"math"

	"github.com/caio/go-tdigest"

	"github.com/shardedsql/qcoord/pkg/qlog"
	"github.com/shardedsql/qcoord/pkg/queryid"
)

// fragmentSummary replaces the original's boost::accumulators min/max/mean
// /stddev rollup with quantile-estimated statistics: the exact min/max and
// mean are cheap to track directly, and a t-digest gives median/p90/p99
// without keeping every sample.
type fragmentSummary struct {
	NumInstances int
	MinRateBps   float64
	MaxRateBps   float64
	MeanRateBps  float64
	StdDevRateBps float64

	digest *tdigest.TDigest
}

// Quantile returns the estimated q-quantile (0..1) completion rate across
// this fragment's instances, or 0 if the fragment has no instances.
func (s *fragmentSummary) Quantile(q float64) float64 {
	if s.digest == nil || s.NumInstances == 0 {
		return 0
	}
	return s.digest.Quantile(q)
}

// reportQuerySummary folds every fragment's per-instance throughput into a
// fragmentSummary, one per fragment. Every fragment is included, fragment 0
// too; a coordinator-resident instance is never initiated, so it counts as
// one instance with a rate of 0.
func reportQuerySummary(fragmentBackends [][]*backendExecState) ([]*fragmentSummary, error) {
	summaries := make([]*fragmentSummary, len(fragmentBackends))
	for i, backends := range fragmentBackends {
		s, err := newFragmentSummary(backends)
		if err != nil {
			return nil, err
		}
		summaries[i] = s
	}
	return summaries, nil
}

func newFragmentSummary(backends []*backendExecState) (*fragmentSummary, error) {
	digest, err := tdigest.New()
	if err != nil {
		return nil, err
	}

	s := &fragmentSummary{digest: digest}
	var sum, sumSq float64
	n := 0
	for _, b := range backends {
		rate := b.throughput()
		if err := digest.Add(rate); err != nil {
			return nil, err
		}
		if n == 0 || rate < s.MinRateBps {
			s.MinRateBps = rate
		}
		if n == 0 || rate > s.MaxRateBps {
			s.MaxRateBps = rate
		}
		sum += rate
		sumSq += rate * rate
		n++
	}
	s.NumInstances = n
	if n > 0 {
		s.MeanRateBps = sum / float64(n)
		variance := sumSq/float64(n) - s.MeanRateBps*s.MeanRateBps
		if variance < 0 {
			variance = 0
		}
		s.StdDevRateBps = math.Sqrt(variance)
	}
	return s, nil
}

// logQuerySummary emits one log line per non-empty fragment summary. Called
// at both normal completion and cancellation, mirroring ReportQuerySummary's
// original call sites.
func logQuerySummary(qid queryid.ID, summaries []*fragmentSummary) {
	for i, s := range summaries {
		if s == nil || s.NumInstances == 0 {
			continue
		}
		qlog.Zero.Info().
			Str("query_id", qid.String()).
			Int("fragment_idx", i).
			Int("num_instances", s.NumInstances).
			Float64("min_rate_bps", s.MinRateBps).
			Float64("max_rate_bps", s.MaxRateBps).
			Float64("mean_rate_bps", s.MeanRateBps).
			Float64("stddev_rate_bps", s.StdDevRateBps).
			Float64("p50_rate_bps", s.Quantile(0.5)).
			Float64("p90_rate_bps", s.Quantile(0.9)).
			Float64("p99_rate_bps", s.Quantile(0.99)).
			Msg("fragment completion-rate summary")
	}
}

// emitQuerySummary computes and logs the query's per-fragment completion
// summary, tolerating (and logging) a t-digest construction failure rather
// than propagating it — a missing summary should never fail the query.
func (c *Coordinator) emitQuerySummary() {
	summaries, err := reportQuerySummary(c.fragmentBackends)
	if err != nil {
		qlog.Zero.Warn().Err(err).Str("query_id", c.queryID.String()).Msg("failed to compute query summary")
		return
	}
	logQuerySummary(c.queryID, summaries)
}
