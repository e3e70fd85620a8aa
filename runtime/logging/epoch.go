// Package logging holds shared logrus field sets for epoch processing.
package logging

import (
	types "github.com/prysmaticlabs/epoch-rewards/consensus-types/primitives"
	"github.com/sirupsen/logrus"
)

// EpochSummary is the outcome of one epoch's reward and penalty pass.
type EpochSummary struct {
	Epoch            types.Epoch
	Leaking          bool
	FinalityDelay    types.Epoch
	SourceAttesters  uint64
	TargetAttesters  uint64
	HeadAttesters    uint64
	TotalRewards     uint64
	TotalPenalties   uint64
	ActiveValidators uint64
}

// EpochSummaryFields extracts a standard set of fields from an epoch summary into a logrus.Fields struct
// which can be passed to log.WithFields.
func EpochSummaryFields(s *EpochSummary) logrus.Fields {
	return logrus.Fields{
		"epoch":            s.Epoch,
		"inactivityLeak":   s.Leaking,
		"finalityDelay":    s.FinalityDelay,
		"sourceAttesters":  s.SourceAttesters,
		"targetAttesters":  s.TargetAttesters,
		"headAttesters":    s.HeadAttesters,
		"totalRewards":     s.TotalRewards,
		"totalPenalties":   s.TotalPenalties,
		"activeValidators": s.ActiveValidators,
	}
}
