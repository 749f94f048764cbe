package temperature

import (
	"fmt"

	"github.com/ctessum/sparse"
	"github.com/nysa42/c2raytools/box"
	"github.com/nysa42/c2raytools/io/cube"
)

// CalcDT reads the ionization fraction and density sources and returns their
// differential brightness temperature, assuming T_s >> T_CMB. If z isn't a
// valid redshift, it is taken from xfrac and then from dens.
func (p *Pipeline) CalcDT(xfrac, dens cube.Source, z float64) (*sparse.DenseArray, error) {
	z, err := p.resolveRedshift(z, xfrac, dens)
	if err != nil {
		return nil, err
	}

	xi, rho, _, err := resolveAll(xfrac, dens, nil)
	if err != nil {
		return nil, err
	}

	p.log.Info("making dT box", "z", z)
	return p.DT(xi, rho, z)
}

// CalcDTFull is CalcDT without the T_s >> T_CMB assumption. If z isn't a
// valid redshift, it is taken from xfrac, then dens, then temp.
func (p *Pipeline) CalcDTFull(
	xfrac, temp, dens cube.Source, z float64,
) (*sparse.DenseArray, error) {
	z, err := p.resolveRedshift(z, xfrac, dens, temp)
	if err != nil {
		return nil, err
	}

	xi, rho, ts, err := resolveAll(xfrac, dens, &temp)
	if err != nil {
		return nil, err
	}

	p.log.Info("making full dT box", "z", z)
	return p.DTFull(xi, ts, rho, z)
}

// CalcDTLightcone is CalcDT for lightcone sources whose nearest slice along
// losAxis is at lowestZ.
func (p *Pipeline) CalcDTLightcone(
	xfrac, dens cube.Source, lowestZ float64, losAxis int,
) (*sparse.DenseArray, error) {
	xi, rho, _, err := resolveAll(xfrac, dens, nil)
	if err != nil {
		return nil, err
	}

	zs, err := p.lightconeRedshifts(xi, lowestZ, losAxis)
	if err != nil {
		return nil, err
	}

	p.log.Info("making dT lightcone",
		"lowest_z", lowestZ, "highest_z", zs[len(zs)-1], "los_axis", losAxis)
	return p.DTLightcone(xi, rho, zs, losAxis)
}

// CalcDTFullLightcone is CalcDTFull for lightcone sources whose nearest slice
// along losAxis is at lowestZ.
func (p *Pipeline) CalcDTFullLightcone(
	xfrac, temp, dens cube.Source, lowestZ float64, losAxis int,
) (*sparse.DenseArray, error) {
	xi, rho, ts, err := resolveAll(xfrac, dens, &temp)
	if err != nil {
		return nil, err
	}

	zs, err := p.lightconeRedshifts(xi, lowestZ, losAxis)
	if err != nil {
		return nil, err
	}

	p.log.Info("making full dT lightcone",
		"lowest_z", lowestZ, "highest_z", zs[len(zs)-1], "los_axis", losAxis)
	return p.DTFullLightcone(xi, ts, rho, zs, losAxis)
}

func (p *Pipeline) lightconeRedshifts(
	xi *sparse.DenseArray, lowestZ float64, losAxis int,
) ([]float64, error) {
	box.CheckAxis(losAxis)
	if !known(lowestZ) {
		return nil, fmt.Errorf("%w: lowest redshift is %g", ErrRedshiftUnknown, lowestZ)
	}
	if lowestZ > p.dist.ZMax() {
		return nil, fmt.Errorf(
			"%w: lowest redshift %g is beyond the distance table (z <= %g)",
			ErrRedshiftUnknown, lowestZ, p.dist.ZMax(),
		)
	}
	if len(xi.Shape) != 3 {
		return nil, fmt.Errorf(
			"%w: lightcone has %d dimensions, not 3",
			ErrShapeMismatch, len(xi.Shape),
		)
	}
	if xi.Shape[losAxis] == 0 {
		return nil, fmt.Errorf("%w: empty lightcone", ErrShapeMismatch)
	}
	return p.LightconeRedshifts(xi.Shape, losAxis, lowestZ), nil
}

// resolveAll loads the ionization, density and (if temp is non-nil)
// temperature sources, checking that each is tagged with the right kind.
func resolveAll(
	xfrac, dens cube.Source, temp *cube.Source,
) (xi, rho, ts *sparse.DenseArray, err error) {
	if xi, err = resolveKind(xfrac, cube.Ionization); err != nil {
		return nil, nil, nil, err
	}
	if rho, err = resolveKind(dens, cube.Density); err != nil {
		return nil, nil, nil, err
	}
	if temp != nil {
		if ts, err = resolveKind(*temp, cube.Temperature); err != nil {
			return nil, nil, nil, err
		}
	}
	return xi, rho, ts, nil
}

// resolveKind resolves s, which must be tagged as want or as cube.Raw.
func resolveKind(s cube.Source, want cube.Kind) (*sparse.DenseArray, error) {
	values, kind, err := s.Resolve()
	if err != nil {
		return nil, err
	}
	if kind != want && kind != cube.Raw {
		return nil, fmt.Errorf(
			"temperature: expected a %s source, got %s", want, s,
		)
	}
	return values, nil
}
