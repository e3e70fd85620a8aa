package main

import (
	"fmt"
	"io"
	"math/big"

	"github.com/dustin/go-humanize"
	"github.com/logrusorgru/aurora"
	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/core/epoch"
	"github.com/prysmaticlabs/epoch-rewards/runtime/logging"
	"github.com/urfave/cli/v2"
)

var colorFlag = &cli.BoolFlag{
	Name:  "color",
	Usage: "Colorize the summary written to stdout",
	Value: true,
}

// gwei renders an amount of gwei with thousands separators.
func gwei(v uint64) string {
	return humanize.BigComma(new(big.Int).SetUint64(v)) + " gwei"
}

// signedGwei renders the difference between two balances.
func signedGwei(before, after uint64) string {
	if after >= before {
		return "+" + gwei(after-before)
	}
	return "-" + gwei(before-after)
}

func writeSummary(w io.Writer, au aurora.Aurora, s *logging.EpochSummary) {
	leak := au.Green("no")
	if s.Leaking {
		leak = au.Red("yes")
	}
	fmt.Fprintf(w, "%s %d\n", au.Bold("Epoch"), s.Epoch)
	fmt.Fprintf(w, "  inactivity leak:   %s (finality delay %d)\n", leak, s.FinalityDelay)
	fmt.Fprintf(w, "  active validators: %s\n", humanize.Comma(int64(s.ActiveValidators)))
	fmt.Fprintf(w, "  attesters:         source %d, target %d, head %d\n", s.SourceAttesters, s.TargetAttesters, s.HeadAttesters)
	fmt.Fprintf(w, "  total rewards:     %s\n", au.Green(gwei(s.TotalRewards)))
	fmt.Fprintf(w, "  total penalties:   %s\n", au.Red(gwei(s.TotalPenalties)))
}

func writeBalanceChanges(w io.Writer, au aurora.Aurora, report *epoch.Report) {
	for i, v := range report.Validators {
		change := signedGwei(v.BeforeEpochTransitionBalance, v.AfterEpochTransitionBalance)
		colored := au.Green(change)
		if v.AfterEpochTransitionBalance < v.BeforeEpochTransitionBalance {
			colored = au.Red(change)
		}
		fmt.Fprintf(w, "  validator %d: %s -> %s (%s)\n", i,
			gwei(v.BeforeEpochTransitionBalance), gwei(v.AfterEpochTransitionBalance), colored)
	}
}
