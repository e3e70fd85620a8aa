package prometheus

import (
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/prometheus/prom2json"
)

const (
	// FormatText is the prometheus text exposition format.
	FormatText = "text"
	// FormatJSON is the gathered metric families in prom2json form, with sample values as strings.
	FormatJSON = "json"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// WriteMetrics gathers every metric registered with g and writes them to w in the given format.
func WriteMetrics(w io.Writer, g prometheus.Gatherer, format string) error {
	families, err := g.Gather()
	if err != nil {
		return errors.Wrap(err, "could not gather metrics")
	}
	switch format {
	case FormatText:
		for _, mf := range families {
			if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
				return errors.Wrapf(err, "could not write metric family %s", mf.GetName())
			}
		}
		return nil
	case FormatJSON:
		out := make([]*prom2json.Family, 0, len(families))
		for _, mf := range families {
			out = append(out, prom2json.NewFamily(mf))
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Data []*prom2json.Family `json:"data"`
		}{Data: out})
	default:
		return errors.Errorf("unknown metrics format %q", format)
	}
}
