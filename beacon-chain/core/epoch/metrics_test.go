package epoch

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/prysmaticlabs/epoch-rewards/runtime/logging"
	"github.com/prysmaticlabs/epoch-rewards/testing/assert"
)

func TestRecordEpochMetrics(t *testing.T) {
	rewards := testutil.ToFloat64(epochRewardsGwei)
	penalties := testutil.ToFloat64(epochPenaltiesGwei)

	recordEpochMetrics(&logging.EpochSummary{
		Leaking:         true,
		FinalityDelay:   7,
		SourceAttesters: 3,
		TargetAttesters: 2,
		HeadAttesters:   1,
		TotalRewards:    100,
		TotalPenalties:  40,
	}, time.Millisecond)

	assert.Equal(t, rewards+100, testutil.ToFloat64(epochRewardsGwei))
	assert.Equal(t, penalties+40, testutil.ToFloat64(epochPenaltiesGwei))
	assert.Equal(t, float64(1), testutil.ToFloat64(inactivityLeakGauge))
	assert.Equal(t, float64(7), testutil.ToFloat64(finalityDelayGauge))
	assert.Equal(t, float64(2), testutil.ToFloat64(prevEpochAttestersGauge.WithLabelValues("target")))

	recordEpochMetrics(&logging.EpochSummary{}, time.Millisecond)
	assert.Equal(t, float64(0), testutil.ToFloat64(inactivityLeakGauge))
}
