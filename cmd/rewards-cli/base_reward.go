package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/epoch-rewards/beacon-chain/core/epoch/precompute"
	"github.com/prysmaticlabs/epoch-rewards/cmd/flags"
	"github.com/prysmaticlabs/epoch-rewards/math"
	"github.com/urfave/cli/v2"
)

var baseRewardFlags = struct {
	EffectiveBalance   uint64
	TotalActiveBalance uint64
	ActiveValidators   uint64
}{}

var baseRewardCommand = &cli.Command{
	Name:     "base-reward",
	Category: "epoch-processing",
	Usage:    "Print the base reward of an effective balance against a total active balance",
	Flags: []cli.Flag{
		&cli.Uint64Flag{
			Name:        "effective-balance",
			Usage:       "Effective balance in gwei, defaults to the max effective balance of the chain config",
			Destination: &baseRewardFlags.EffectiveBalance,
		},
		&cli.Uint64Flag{
			Name:        "total-active-balance",
			Usage:       "Total active balance in gwei",
			Destination: &baseRewardFlags.TotalActiveBalance,
		},
		&cli.Uint64Flag{
			Name:        "active-validators",
			Usage:       "Derive the total active balance from this many validators at the max effective balance",
			Destination: &baseRewardFlags.ActiveValidators,
		},
		flags.ChainConfigFileFlag,
		flags.ConfigNameFlag,
	},
	Action: baseRewardAction,
}

func baseRewardAction(c *cli.Context) error {
	f := baseRewardFlags
	cfg, err := chainConfig(c)
	if err != nil {
		return err
	}
	eb := f.EffectiveBalance
	if eb == 0 {
		eb = cfg.MaxEffectiveBalance
	}
	total := f.TotalActiveBalance
	switch {
	case total != 0 && f.ActiveValidators != 0:
		return errors.New("only one of --total-active-balance and --active-validators may be set")
	case f.ActiveValidators != 0:
		total, err = math.Mul64(f.ActiveValidators, cfg.MaxEffectiveBalance)
		if err != nil {
			return errors.Wrap(err, "could not compute total active balance")
		}
	case total == 0:
		return errors.New("one of --total-active-balance and --active-validators is required")
	}
	if total < cfg.EffectiveBalanceIncrement {
		total = cfg.EffectiveBalanceIncrement
	}

	br, err := precompute.BaseReward(cfg, eb, total)
	if err != nil {
		return err
	}
	w := c.App.Writer
	fmt.Fprintf(w, "effective balance:    %s\n", gwei(eb))
	fmt.Fprintf(w, "total active balance: %s\n", gwei(total))
	fmt.Fprintf(w, "base reward:          %s\n", gwei(br))
	fmt.Fprintf(w, "proposer reward:      %s\n", gwei(br/cfg.ProposerRewardQuotient))
	return nil
}
