package epoch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prysmaticlabs/epoch-rewards/runtime/logging"
)

var (
	epochRewardsGwei = promauto.NewCounter(prometheus.CounterOpts{
		Name: "epoch_rewards_gwei_total",
		Help: "Total gwei rewarded to validators at epoch boundaries",
	})
	epochPenaltiesGwei = promauto.NewCounter(prometheus.CounterOpts{
		Name: "epoch_penalties_gwei_total",
		Help: "Total gwei penalized from validators at epoch boundaries",
	})
	inactivityLeakGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "epoch_inactivity_leak",
		Help: "1 if the last processed epoch was in an inactivity leak, 0 otherwise",
	})
	finalityDelayGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "epoch_finality_delay",
		Help: "Epochs between the last processed previous epoch and the finalized checkpoint",
	})
	prevEpochAttestersGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "epoch_prev_epoch_attesters",
		Help: "Unslashed validators that voted correctly in the previous epoch, per vote",
	}, []string{"vote"})
	rewardsProcessingTime = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "epoch_rewards_processing_milliseconds",
		Help:    "Captures the time to process rewards and penalties of an epoch in milliseconds",
		Buckets: []float64{1, 5, 10, 50, 100, 250, 500, 1000, 5000},
	})
)

func recordEpochMetrics(s *logging.EpochSummary, took time.Duration) {
	epochRewardsGwei.Add(float64(s.TotalRewards))
	epochPenaltiesGwei.Add(float64(s.TotalPenalties))
	if s.Leaking {
		inactivityLeakGauge.Set(1)
	} else {
		inactivityLeakGauge.Set(0)
	}
	finalityDelayGauge.Set(float64(s.FinalityDelay))
	prevEpochAttestersGauge.WithLabelValues("source").Set(float64(s.SourceAttesters))
	prevEpochAttestersGauge.WithLabelValues("target").Set(float64(s.TargetAttesters))
	prevEpochAttestersGauge.WithLabelValues("head").Set(float64(s.HeadAttesters))
	rewardsProcessingTime.Observe(float64(took.Milliseconds()))
}
