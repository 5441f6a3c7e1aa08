package cli

import (
	"context"

	"github.com/prometheus/common/expfmt"
)

// Metrics prints the engine counters in Prometheus text format.
func (a *App) Metrics(ctx context.Context) error {
	families, err := a.gatherer.Gather()
	if err != nil {
		a.log.Error(ctx, "gather metrics", "error", err)
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(a.out, mf); err != nil {
			return err
		}
	}
	return nil
}
