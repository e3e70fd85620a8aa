package main

import (
	"fmt"

	"github.com/kr/pretty"
	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/core/epoch"
	statenative "github.com/prysmaticlabs/epoch-rewards/beacon-chain/state/state-native"
	"github.com/prysmaticlabs/epoch-rewards/cmd/flags"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"go.opencensus.io/trace"
	"gopkg.in/d4l3k/messagediff.v1"
)

var processFlags = struct {
	PreStatePath          string
	PostStatePath         string
	ExpectedPostStatePath string
	PrintDeltas           bool
	PrintBalances         bool
}{}

var processCommand = &cli.Command{
	Name:     "process",
	Category: "epoch-processing",
	Usage:    "Run rewards and penalties over a pre state snapshot",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:        "pre-state-path",
			Usage:       "Path to pre state file(yaml)",
			Required:    true,
			Destination: &processFlags.PreStatePath,
		},
		&cli.StringFlag{
			Name:        "post-state-path",
			Usage:       "Path to write the post state file(yaml) to",
			Destination: &processFlags.PostStatePath,
		},
		&cli.StringFlag{
			Name:        "expected-post-state-path",
			Usage:       "Path to expected post state file(yaml)",
			Destination: &processFlags.ExpectedPostStatePath,
		},
		&cli.BoolFlag{
			Name:        "print-deltas",
			Usage:       "Pretty print the reward and penalty components of every validator",
			Destination: &processFlags.PrintDeltas,
		},
		&cli.BoolFlag{
			Name:        "print-balances",
			Usage:       "Print the balance change of every validator",
			Destination: &processFlags.PrintBalances,
		},
		flags.ChainConfigFileFlag,
		flags.ConfigNameFlag,
		colorFlag,
	},
	Action: processAction,
}

func processAction(c *cli.Context) error {
	ctx, span := trace.StartSpan(c.Context, "rewardsCLI.process")
	defer span.End()
	f := processFlags

	cfg, err := chainConfig(c)
	if err != nil {
		return err
	}
	preState, err := statenative.LoadYAML(f.PreStatePath)
	if err != nil {
		return errors.Wrap(err, "could not load pre state")
	}
	log.WithFields(logrus.Fields{
		"preStateSlot": fmt.Sprintf("%d", preState.Slot()),
		"validators":   preState.NumValidators(),
		"config":       cfg.ConfigName,
	}).Info("Performing rewards and penalties")

	postState, report, err := epoch.ProcessRewardsAndPenaltiesWithReport(ctx, cfg, preState)
	if err != nil {
		return errors.Wrap(err, "could not process rewards and penalties")
	}
	au := aurora.NewAurora(c.Bool(colorFlag.Name))
	w := c.App.Writer
	writeSummary(w, au, report.Summary)
	if f.PrintBalances {
		writeBalanceChanges(w, au, report)
	}
	if f.PrintDeltas {
		for i := range report.Deltas {
			fmt.Fprintf(w, "validator %d: %s\n", i, pretty.Sprint(report.Deltas[i]))
		}
	}

	if f.PostStatePath != "" {
		if err := statenative.SaveYAML(f.PostStatePath, postState); err != nil {
			return errors.Wrap(err, "could not save post state")
		}
		log.WithField("path", f.PostStatePath).Info("Wrote post state")
	}

	// Diff the state if a post state is provided.
	if f.ExpectedPostStatePath != "" {
		expected, err := statenative.LoadYAML(f.ExpectedPostStatePath)
		if err != nil {
			return errors.Wrap(err, "could not load expected post state")
		}
		want, ok := expected.(*statenative.BeaconState)
		if !ok {
			return errors.Errorf("unexpected state type %T", expected)
		}
		got, ok := postState.(*statenative.BeaconState)
		if !ok {
			return errors.Errorf("unexpected state type %T", postState)
		}
		diff, equal := messagediff.PrettyDiff(want.ToProto(), got.ToProto())
		if !equal {
			log.Errorf("Derived state differs from provided post state: %s", diff)
			return errors.New("post state does not match the expected post state")
		}
		log.Info("Post state matches the expected post state")
	}
	return nil
}
