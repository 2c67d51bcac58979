package trip

import (
	"context"

	"github.com/ollav12/DAT251/internal/emission"
	"github.com/ollav12/DAT251/internal/routing"
)

// RouteSource supplies candidate routes per travel mode. Satisfied by
// routing.Service, which adds caching in front of the provider.
type RouteSource interface {
	GetRoutes(ctx context.Context, origin, destination string, mode routing.TravelMode) ([]routing.Route, error)
}

// Aggregator estimates a journey across every travel mode, keeping the
// lowest-emission route per mode.
type Aggregator struct {
	routes    RouteSource
	estimator *emission.Estimator
}

// NewAggregator creates a new estimate aggregator.
func NewAggregator(routes RouteSource, estimator *emission.Estimator) *Aggregator {
	return &Aggregator{routes: routes, estimator: estimator}
}

// Estimate computes the best estimate per travel mode. Modes without a
// route are omitted from the result; that is expected, not an error.
// A provider failure for any mode fails the whole estimate.
//
// When override is non-nil it is applied only to the travel mode it
// corresponds to; all other modes are estimated with the factor table.
func (a *Aggregator) Estimate(ctx context.Context, origin, destination string, override *emission.Override) (map[routing.TravelMode]emission.Estimate, error) {
	estimates := make(map[routing.TravelMode]emission.Estimate)

	for _, mode := range routing.AllModes() {
		candidates, err := a.routes.GetRoutes(ctx, origin, destination, mode)
		if err != nil {
			return nil, err
		}
		if len(candidates) == 0 {
			continue
		}

		var modeOverride *emission.Override
		if override != nil && override.Mode == mode {
			modeOverride = override
		}

		best := a.estimator.EstimateRoute(candidates[0], modeOverride)
		for _, candidate := range candidates[1:] {
			est := a.estimator.EstimateRoute(candidate, modeOverride)
			if est.EmissionsCO2eKg < best.EmissionsCO2eKg {
				best = est
			}
		}

		estimates[mode] = best
	}

	return estimates, nil
}

// DrivingBaseline returns the minimum-emission driving estimate using
// the standard factor table, ignoring vehicle overrides. Savings are
// always measured against this baseline. Returns ErrNoDrivingBaseline
// when no driving route exists.
func (a *Aggregator) DrivingBaseline(ctx context.Context, origin, destination string) (emission.Estimate, error) {
	candidates, err := a.routes.GetRoutes(ctx, origin, destination, routing.ModeDriving)
	if err != nil {
		return emission.Estimate{}, err
	}
	if len(candidates) == 0 {
		return emission.Estimate{}, ErrNoDrivingBaseline
	}

	best := a.estimator.EstimateRoute(candidates[0], nil)
	for _, candidate := range candidates[1:] {
		est := a.estimator.EstimateRoute(candidate, nil)
		if est.EmissionsCO2eKg < best.EmissionsCO2eKg {
			best = est
		}
	}
	return best, nil
}
