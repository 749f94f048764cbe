package temperature

import (
	"fmt"
	"math"

	"github.com/nysa42/c2raytools/array"
	"github.com/nysa42/c2raytools/box"
	"github.com/nysa42/c2raytools/io/cube"
)

// ResolveRedshift picks the redshift for a calculation. If explicit is a
// valid redshift, it wins. Otherwise the sources are checked in order and the
// first one with a known redshift (from its cube or filename) is used. No
// attempt is made to check that the sources agree with each other. Pass
// cube.UnknownRedshift as explicit to rely on the sources alone.
func ResolveRedshift(explicit float64, sources ...cube.Source) (float64, error) {
	if known(explicit) {
		return explicit, nil
	}
	for _, s := range sources {
		if z := s.Redshift(); known(z) {
			return z, nil
		}
	}
	return cube.UnknownRedshift, ErrRedshiftUnknown
}

func known(z float64) bool {
	return z >= 0 && !math.IsInf(z, 0) && !math.IsNaN(z)
}

// resolveRedshift is ResolveRedshift with logging.
func (p *Pipeline) resolveRedshift(
	explicit float64, sources ...cube.Source,
) (float64, error) {
	if !known(explicit) {
		for _, s := range sources {
			if !known(s.Redshift()) {
				p.log.Debug("could not determine redshift", "source", s.String())
			}
		}
	}
	return ResolveRedshift(explicit, sources...)
}

// RedshiftAxis returns the redshifts of n cells along a line of sight. Cell i
// is at a comoving distance of i*cellSize beyond the distance to lowestZ.
// cellSize is in comoving Mpc. For positive cellSize the result is
// non-decreasing. Redshifts past the end of the pipeline's distance table are
// clamped to its edge.
func (p *Pipeline) RedshiftAxis(n int, cellSize, lowestZ float64) []float64 {
	if n < 0 {
		panic(fmt.Sprintf("Redshift axis with %d cells.", n))
	}
	ds := array.Arange(n, cellSize, p.dist.Distance(lowestZ))
	return p.dist.Redshifts(ds)
}

// LightconeRedshifts returns the redshift of every slice along losAxis of a
// lightcone with the given shape whose nearest slice is at lowestZ. The cell
// size is the box width divided by the number of cells along the axis after
// losAxis.
func (p *Pipeline) LightconeRedshifts(
	shape []int, losAxis int, lowestZ float64,
) []float64 {
	cellSize := box.CellWidth(p.params.BoxSizeMpc(), shape, losAxis)
	return p.RedshiftAxis(shape[losAxis], cellSize, lowestZ)
}
