package main

import (
	"fmt"

	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/core/epoch"
	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/core/helpers"
	ethpb "github.com/prysmaticlabs/epoch-rewards/proto/prysm/v1alpha1"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"
	"go.opencensus.io/trace"
)

var simulateFlags = struct {
	Epochs   uint64
	Finalize bool
}{}

var simulateCommand = &cli.Command{
	Name:     "simulate",
	Category: "epoch-processing",
	Usage:    "Run rewards and penalties over consecutive epochs of a fixed participation pattern",
	Flags: append([]cli.Flag{
		&cli.Uint64Flag{
			Name:        "epochs",
			Usage:       "Number of epochs to process",
			Value:       8,
			Destination: &simulateFlags.Epochs,
		},
		&cli.BoolFlag{
			Name:        "finalize",
			Usage:       "Advance the finalized checkpoint every epoch so the chain never leaks",
			Destination: &simulateFlags.Finalize,
		},
		colorFlag,
	}, registryFlags...),
	Action: simulateAction,
}

func simulateAction(c *cli.Context) error {
	ctx, span := trace.StartSpan(c.Context, "rewardsCLI.simulate")
	defer span.End()

	cfg, err := chainConfig(c)
	if err != nil {
		return err
	}
	spec, err := registrySpecFromFlags()
	if err != nil {
		return err
	}
	st, err := generateState(cfg, spec)
	if err != nil {
		return err
	}
	participants := spec.participants()
	au := aurora.NewAurora(c.Bool(colorFlag.Name))
	w := c.App.Writer
	bar := initializeProgressBar(c, int(simulateFlags.Epochs), "Simulating epochs")

	for i := uint64(0); i < simulateFlags.Epochs; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if simulateFlags.Finalize {
			prev := helpers.PrevEpoch(cfg, st)
			if prev > 0 {
				prev--
			}
			if err := st.SetFinalizedCheckpoint(&ethpb.Checkpoint{Epoch: prev, Root: make([]byte, 32)}); err != nil {
				return err
			}
		}
		if err := recordParticipation(cfg, st, participants); err != nil {
			return errors.Wrap(err, "could not record participation")
		}
		current := helpers.CurrentEpoch(cfg, st)
		var report *epoch.Report
		st, report, err = epoch.ProcessRewardsAndPenaltiesWithReport(ctx, cfg, st)
		if err != nil {
			return errors.Wrapf(err, "could not process epoch %d", current)
		}
		writeSummary(w, au, report.Summary)
		balances := st.Balances()
		if len(participants) > 0 {
			fmt.Fprintf(w, "  participant balance:     %s\n", gwei(balances[0]))
		}
		if last := len(balances) - 1; last >= len(participants) {
			fmt.Fprintf(w, "  non participant balance: %s\n", gwei(balances[last]))
		}
		if err := st.SetSlot(st.Slot() + cfg.SlotsPerEpoch); err != nil {
			return err
		}
		if err := bar.Add(1); err != nil {
			log.WithError(err).Debug("Could not render progress")
		}
	}
	log.WithField("epoch", helpers.CurrentEpoch(cfg, st)).Info("Finished simulation")
	return nil
}

func initializeProgressBar(c *cli.Context, numItems int, msg string) *progressbar.ProgressBar {
	return progressbar.NewOptions(
		numItems,
		progressbar.OptionSetWriter(c.App.ErrWriter),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionSetDescription(msg),
	)
}
