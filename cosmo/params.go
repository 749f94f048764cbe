/*package cosmo contains the cosmological parameters and background
cosmology used when deriving observables from simulation cubes.
*/
package cosmo

import (
	"fmt"
)

const (
	// SpeedOfLight in km/s.
	SpeedOfLight = 299792.458
	// TCMB0 is the present-day CMB temperature in K.
	TCMB0 = 2.725
)

// Params is a set of cosmological parameters. It is a value type: anything
// that needs parameters takes a copy once and never sees later changes.
type Params struct {
	OmegaM   float64 `yaml:"omega_m"`    // Omega_matter(z=0)
	OmegaL   float64 `yaml:"omega_l"`    // Omega_lambda(z=0)
	OmegaB   float64 `yaml:"omega_b"`    // Omega_baryon(z=0)
	H        float64 `yaml:"h"`          // little-h
	RhoCrit0 float64 `yaml:"rho_crit_0"` // Critical density at z=0 in g/cm^3
	MeanDT   float64 `yaml:"mean_dt"`    // 21-cm brightness constant in mK

	BoxSize float64 `yaml:"box_size"` // Simulation box width in comoving Mpc/h
}

// Default returns the WMAP5-like parameters used by the C2Ray runs, with a
// 244 Mpc/h box.
func Default() Params {
	p := Params{
		OmegaM: 0.27, OmegaL: 0.73, OmegaB: 0.044, H: 0.7,
		BoxSize: 244,
	}
	p.RhoCrit0 = RhoCritical(100*p.H, p.OmegaM, p.OmegaL, 0)
	p.MeanDT = MeanDTFor(p.OmegaB)
	return p
}

// MeanDTFor returns the 21-cm brightness constant in mK for a baryon
// density of omegaB.
func MeanDTFor(omegaB float64) float64 { return 2.9 * omegaB / 0.042 }

// H0 returns the Hubble constant in km/s/Mpc.
func (p Params) H0() float64 { return 100 * p.H }

// HubbleDistance returns c/H0 in comoving Mpc.
func (p Params) HubbleDistance() float64 { return SpeedOfLight / p.H0() }

// BoxSizeMpc returns the box width in comoving Mpc (not Mpc/h).
func (p Params) BoxSizeMpc() float64 { return p.BoxSize / p.H }

// RhoMean returns the mean baryon density at z=0 in g/cm^3.
func (p Params) RhoMean() float64 { return p.RhoCrit0 * p.OmegaB }

// Validate returns an error if the parameters can't describe a universe.
func (p Params) Validate() error {
	switch {
	case p.H <= 0:
		return fmt.Errorf("cosmo: h = %g, must be positive", p.H)
	case p.OmegaM < 0:
		return fmt.Errorf("cosmo: omega_m = %g, must be non-negative", p.OmegaM)
	case p.OmegaL < 0:
		return fmt.Errorf("cosmo: omega_l = %g, must be non-negative", p.OmegaL)
	case p.OmegaB <= 0 || p.OmegaB > p.OmegaM:
		return fmt.Errorf(
			"cosmo: omega_b = %g, must be in (0, omega_m = %g]",
			p.OmegaB, p.OmegaM,
		)
	case p.RhoCrit0 <= 0:
		return fmt.Errorf("cosmo: rho_crit_0 = %g, must be positive", p.RhoCrit0)
	case p.MeanDT <= 0:
		return fmt.Errorf("cosmo: mean_dt = %g, must be positive", p.MeanDT)
	case p.BoxSize <= 0:
		return fmt.Errorf("cosmo: box_size = %g, must be positive", p.BoxSize)
	}
	return nil
}
