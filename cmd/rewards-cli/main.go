// Package main defines a command line utility to run epoch reward and penalty
// processing over beacon state snapshots.
package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prysmaticlabs/epoch-rewards/cmd/flags"
	"github.com/prysmaticlabs/epoch-rewards/config/params"
	"github.com/prysmaticlabs/epoch-rewards/io/logs"
	prom "github.com/prysmaticlabs/epoch-rewards/monitoring/prometheus"
	"github.com/prysmaticlabs/epoch-rewards/monitoring/tracing"
	"github.com/prysmaticlabs/epoch-rewards/runtime/version"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	_ "go.uber.org/automaxprocs"
)

var log = logrus.WithField("prefix", "main")

var appFlags = []cli.Flag{
	flags.VerbosityFlag,
	flags.LogFileName,
	flags.LogFormat,
	flags.EnableTracingFlag,
	flags.TracingProcessNameFlag,
	flags.TracingEndpointFlag,
	flags.TraceSampleFractionFlag,
	flags.MetricsOutFlag,
}

func main() {
	customFormatter := new(prefixed.TextFormatter)
	customFormatter.TimestampFormat = "2006-01-02 15:04:05"
	customFormatter.FullTimestamp = true
	logrus.SetFormatter(customFormatter)

	if err := newApp().Run(os.Args); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func newApp() *cli.App {
	var flushTraces func()
	app := &cli.App{
		Name:    "rewards-cli",
		Usage:   "A command line utility to run epoch reward and penalty processing",
		Version: version.GetVersion(),
		Flags:   appFlags,
		Commands: []*cli.Command{
			processCommand,
			baseRewardCommand,
			simulateCommand,
			generateCommand,
		},
	}
	app.Before = func(c *cli.Context) error {
		level, err := logrus.ParseLevel(c.String(flags.VerbosityFlag.Name))
		if err != nil {
			return err
		}
		logrus.SetLevel(level)
		logrus.AddHook(prom.NewLogrusCollector())

		if logFile := c.String(flags.LogFileName.Name); logFile != "" {
			if err := logs.ConfigurePersistentLogging(logFile, c.String(flags.LogFormat.Name)); err != nil {
				log.WithError(err).Error("Failed to configure logging to disk")
			}
		}

		flushTraces, err = tracing.Setup(
			c.String(flags.TracingProcessNameFlag.Name),
			c.String(flags.TracingEndpointFlag.Name),
			c.Float64(flags.TraceSampleFractionFlag.Name),
			c.Bool(flags.EnableTracingFlag.Name),
		)
		return err
	}
	app.After = func(c *cli.Context) error {
		if flushTraces != nil {
			flushTraces()
		}
		out := c.String(flags.MetricsOutFlag.Name)
		if out == "" {
			return nil
		}
		f, err := os.Create(out)
		if err != nil {
			return errors.Wrap(err, "could not create metrics file")
		}
		format := prom.FormatText
		if filepath.Ext(out) == ".json" {
			format = prom.FormatJSON
		}
		if err := prom.WriteMetrics(f, prometheus.DefaultGatherer, format); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	}
	return app
}

// chainConfig returns the chain config named by the command flags. A config file takes
// precedence over a preset name.
func chainConfig(c *cli.Context) (*params.BeaconChainConfig, error) {
	if path := c.String(flags.ChainConfigFileFlag.Name); path != "" {
		cfg, err := params.LoadChainConfigFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "could not load chain config %s", path)
		}
		return cfg, nil
	}
	name := c.String(flags.ConfigNameFlag.Name)
	cfg, ok := params.ByName(name)
	if !ok {
		return nil, errors.Errorf("unknown chain config preset %q", name)
	}
	return cfg, nil
}
