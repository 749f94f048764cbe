package cosmo

import (
	"fmt"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/interp"
)

const (
	// DefaultZMax is the highest redshift covered by a default DistanceTable.
	DefaultZMax = 100.0
	// DefaultTableSize is the number of redshift intervals in a default
	// DistanceTable.
	DefaultTableSize = 10000

	// Quadrature points per table interval.
	intervalPoints = 8
)

// ComovingDistance returns the line-of-sight comoving distance to redshift z
// in comoving Mpc.
func ComovingDistance(p Params, z float64) float64 {
	if z <= 0 {
		return 0
	}

	n := 1 + int(z/0.05)
	dz, sum := z/float64(n), 0.0
	for i := 0; i < n; i++ {
		z0 := float64(i) * dz
		sum += quad.Fixed(p.inverseE, z0, z0+dz, intervalPoints, nil, 0)
	}
	return p.HubbleDistance() * sum
}

func (p Params) inverseE(z float64) float64 { return 1 / p.E(z) }

// DistanceTable converts between redshift and comoving distance by linear
// interpolation over a precomputed table. Both directions use the same
// nodes, so Redshift(Distance(z)) == z up to rounding, and both are
// monotonically non-decreasing. Arguments outside the table are clamped to
// its ends.
type DistanceTable struct {
	zMax, dMax float64
	toDist     interp.PiecewiseLinear
	toZ        interp.PiecewiseLinear
}

// NewDistanceTable tabulates the comoving distance at n+1 evenly spaced
// redshifts in [0, zMax].
func NewDistanceTable(p Params, zMax float64, n int) (*DistanceTable, error) {
	if zMax <= 0 || n < 1 {
		return nil, fmt.Errorf(
			"cosmo: invalid distance table range zMax = %g, n = %d", zMax, n,
		)
	}

	zs, ds := make([]float64, n+1), make([]float64, n+1)
	dz, dH := zMax/float64(n), p.HubbleDistance()
	for i := 1; i <= n; i++ {
		zs[i] = float64(i) * dz
		ds[i] = ds[i-1] +
			dH*quad.Fixed(p.inverseE, zs[i-1], zs[i], intervalPoints, nil, 0)
	}
	zs[n] = zMax

	t := &DistanceTable{zMax: zMax, dMax: ds[n]}
	if err := t.toDist.Fit(zs, ds); err != nil {
		return nil, fmt.Errorf("cosmo: fitting distance table: %w", err)
	}
	if err := t.toZ.Fit(ds, zs); err != nil {
		return nil, fmt.Errorf("cosmo: fitting inverse distance table: %w", err)
	}
	return t, nil
}

// DefaultDistanceTable returns a table covering 0 <= z <= DefaultZMax.
func DefaultDistanceTable(p Params) (*DistanceTable, error) {
	return NewDistanceTable(p, DefaultZMax, DefaultTableSize)
}

// Distance returns the comoving distance to z in comoving Mpc.
func (t *DistanceTable) Distance(z float64) float64 {
	return t.toDist.Predict(clamp(z, 0, t.zMax))
}

// Redshift returns the redshift at comoving distance d.
func (t *DistanceTable) Redshift(d float64) float64 {
	return t.toZ.Predict(clamp(d, 0, t.dMax))
}

// Redshifts applies Redshift to every element of ds.
func (t *DistanceTable) Redshifts(ds []float64) []float64 {
	out := make([]float64, len(ds))
	for i := range ds {
		out[i] = t.Redshift(ds[i])
	}
	return out
}

// ZMax returns the highest redshift in the table.
func (t *DistanceTable) ZMax() float64 { return t.zMax }

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	} else if x > hi {
		return hi
	}
	return x
}
