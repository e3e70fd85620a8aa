// Package tracing sets up opencensus tracing for epoch processing runs.
package tracing

import (
	"contrib.go.opencensus.io/exporter/jaeger"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/epoch-rewards/io/logs"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

var log = logrus.WithField("prefix", "tracing")

// Setup creates and initializes a new tracing configuration.
func Setup(name, endpoint string, sampleFraction float64, enable bool) (func(), error) {
	if !enable {
		trace.ApplyConfig(trace.Config{DefaultSampler: trace.NeverSample()})
		return func() {}, nil
	}

	if name == "" {
		return nil, errors.New("tracing service name cannot be empty")
	}

	trace.ApplyConfig(trace.Config{DefaultSampler: trace.ProbabilitySampler(sampleFraction)})

	log.Infof("Starting Jaeger exporter endpoint at address = %s", logs.MaskCredentialsLogging(endpoint))
	exporter, err := jaeger.NewExporter(jaeger.Options{
		CollectorEndpoint: endpoint,
		Process: jaeger.Process{
			ServiceName: name,
		},
		OnError: func(err error) {
			log.WithError(err).Error("Could not export span")
		},
	})
	if err != nil {
		return nil, err
	}
	trace.RegisterExporter(exporter)

	return func() {
		exporter.Flush()
		trace.UnregisterExporter(exporter)
	}, nil
}
