package temperature

import (
	"fmt"

	"github.com/ctessum/sparse"
	"github.com/nysa42/c2raytools/box"
	"github.com/nysa42/c2raytools/cosmo"
)

// MeanDT returns the mean brightness temperature at redshift z in mK.
func (p *Pipeline) MeanDT(z float64) float64 {
	a1 := 1 + z
	return p.params.MeanDT / p.params.H * a1 * a1 / p.params.E(z)
}

// MeanDTs applies MeanDT to every element of zs.
func (p *Pipeline) MeanDTs(zs []float64) []float64 {
	out := make([]float64, len(zs))
	for i := range zs {
		out[i] = p.MeanDT(zs[i])
	}
	return out
}

// DT returns the differential brightness temperature in mK of a box at
// redshift z, assuming T_s >> T_CMB. xi is the ionization fraction and rho is
// the density in g/cm^3. The result is a new array with the same shape as xi.
func (p *Pipeline) DT(xi, rho *sparse.DenseArray, z float64) (*sparse.DenseArray, error) {
	return p.field(xi, nil, rho, []float64{z}, -1)
}

// DTFull is DT without the T_s >> T_CMB assumption. ts is the spin
// temperature in K, which is assumed to be fully coupled to the kinetic
// temperature. Zero or negative temperatures give NaN and Inf cells.
func (p *Pipeline) DTFull(xi, ts, rho *sparse.DenseArray, z float64) (*sparse.DenseArray, error) {
	if ts == nil {
		return nil, fmt.Errorf("%w: no temperature array", ErrShapeMismatch)
	}
	return p.field(xi, ts, rho, []float64{z}, -1)
}

// DTLightcone is DT for a lightcone: zs[i] is the redshift of slice i along
// losAxis, so len(zs) must equal the lightcone's extent along that axis.
func (p *Pipeline) DTLightcone(
	xi, rho *sparse.DenseArray, zs []float64, losAxis int,
) (*sparse.DenseArray, error) {
	box.CheckAxis(losAxis)
	return p.field(xi, nil, rho, zs, losAxis)
}

// DTFullLightcone is DTFull for a lightcone. See DTLightcone.
func (p *Pipeline) DTFullLightcone(
	xi, ts, rho *sparse.DenseArray, zs []float64, losAxis int,
) (*sparse.DenseArray, error) {
	box.CheckAxis(losAxis)
	if ts == nil {
		return nil, fmt.Errorf("%w: no temperature array", ErrShapeMismatch)
	}
	return p.field(xi, ts, rho, zs, losAxis)
}

// field is the shared kernel behind the DT functions. ts may be nil, in which
// case T_s >> T_CMB is assumed. If losAxis is negative, zs must contain a
// single redshift used for every cell. Otherwise zs[i] is used for slice i
// along losAxis.
func (p *Pipeline) field(
	xi, ts, rho *sparse.DenseArray, zs []float64, losAxis int,
) (*sparse.DenseArray, error) {
	if xi == nil || rho == nil {
		return nil, fmt.Errorf(
			"%w: missing ionization or density array", ErrShapeMismatch,
		)
	}
	if err := sameShape(xi, rho); err != nil {
		return nil, err
	}
	if ts != nil {
		if err := sameShape(xi, ts); err != nil {
			return nil, err
		}
	}

	slice := func(int) int { return 0 }
	if losAxis >= 0 {
		if len(xi.Shape) != 3 {
			return nil, fmt.Errorf(
				"%w: lightcone has %d dimensions, not 3",
				ErrShapeMismatch, len(xi.Shape),
			)
		}
		s := box.NewSlicer(xi.Shape, losAxis)
		if s.Len() != len(zs) {
			return nil, fmt.Errorf(
				"%w: %d redshifts for %d slices along axis %d",
				ErrShapeMismatch, len(zs), s.Len(), losAxis,
			)
		}
		slice = s.Index
	} else if len(zs) != 1 {
		panic(fmt.Sprintf("Box mode given %d redshifts.", len(zs)))
	}

	meanDT := p.MeanDTs(zs)
	tcmb := make([]float64, len(zs))
	for i := range zs {
		tcmb[i] = cosmo.TCMB(zs[i])
	}
	rhoMean := p.params.RhoMean()

	out := sparse.ZerosDense(xi.Shape...)
	for i := range out.Elements {
		s := slice(i)
		dt := meanDT[s] * (1 - xi.Elements[i]) * rho.Elements[i] / rhoMean
		if ts != nil {
			dt *= 1 + tcmb[s]/ts.Elements[i]
		}
		out.Elements[i] = dt
	}

	if err := p.checkFinite(out); err != nil {
		return nil, err
	}
	return out, nil
}

// sameShape returns ErrShapeMismatch if a and b have different shapes.
func sameShape(a, b *sparse.DenseArray) error {
	if len(a.Shape) != len(b.Shape) {
		return fmt.Errorf("%w: %v and %v", ErrShapeMismatch, a.Shape, b.Shape)
	}
	for i := range a.Shape {
		if a.Shape[i] != b.Shape[i] {
			return fmt.Errorf("%w: %v and %v", ErrShapeMismatch, a.Shape, b.Shape)
		}
	}
	return nil
}
