// Package flags defines the command line flags shared by the epoch rewards tools.
package flags

import (
	"github.com/urfave/cli/v2"
)

var (
	// VerbosityFlag defines the logrus configuration.
	VerbosityFlag = &cli.StringFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity (trace, debug, info=default, warn, error, fatal, panic)",
		Value: "info",
	}
	// LogFileName specifies the log output file name.
	LogFileName = &cli.StringFlag{
		Name:  "log-file",
		Usage: "Specify log file name, relative or absolute",
	}
	// LogFormat specifies the log output format of the log file.
	LogFormat = &cli.StringFlag{
		Name:  "log-format",
		Usage: "Specify log formatting of the log file. Supports: text, json, fluentd.",
		Value: "text",
	}
	// EnableTracingFlag defines a flag to enable tracing of epoch processing.
	EnableTracingFlag = &cli.BoolFlag{
		Name:  "enable-tracing",
		Usage: "Enable request tracing.",
	}
	// TracingProcessNameFlag defines a flag to specify a process name.
	TracingProcessNameFlag = &cli.StringFlag{
		Name:  "tracing-process-name",
		Usage: "The name to apply to tracing tag \"process_name\"",
		Value: "epoch-rewards",
	}
	// TracingEndpointFlag flag defines the http endpoint for serving traces to Jaeger.
	TracingEndpointFlag = &cli.StringFlag{
		Name:  "tracing-endpoint",
		Usage: "Tracing endpoint defines where epoch processing traces are exposed to Jaeger.",
		Value: "http://127.0.0.1:14268/api/traces",
	}
	// TraceSampleFractionFlag defines a flag to indicate what fraction of runs
	// are sampled for tracing.
	TraceSampleFractionFlag = &cli.Float64Flag{
		Name:  "trace-sample-fraction",
		Usage: "Indicate what fraction of epoch processing runs are sampled for tracing.",
		Value: 0.20,
	}
	// MetricsOutFlag specifies a file the gathered metrics are written to on exit.
	MetricsOutFlag = &cli.StringFlag{
		Name:  "metrics-out",
		Usage: "Write the collected prometheus metrics to this file when the command finishes, as json if it ends in .json",
	}
	// ChainConfigFileFlag specifies the path to a chain config file.
	ChainConfigFileFlag = &cli.StringFlag{
		Name:  "chain-config-file",
		Usage: "The path to a YAML file with chain config values",
	}
	// ConfigNameFlag selects a built in chain config preset.
	ConfigNameFlag = &cli.StringFlag{
		Name:  "config-name",
		Usage: "Built in chain config preset to use when no chain config file is given (mainnet, minimal)",
		Value: "mainnet",
	}
)
