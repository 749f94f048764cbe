package cosmo

import (
	"math"
)

const (
	// G in cgs units.
	gravitationalConstant = 6.6743e-8
	// Kilometers per megaparsec.
	kmPerMpc = 3.0856775814913673e19
)

// HubbleFrac returns E(z) = H(z)/H0 for a universe with the given matter and
// dark energy densities. Any remainder is treated as curvature.
func HubbleFrac(omegaM, omegaL, z float64) float64 {
	a1 := 1 + z
	omegaK := 1 - omegaM - omegaL
	return math.Sqrt(omegaM*a1*a1*a1 + omegaL + omegaK*a1*a1)
}

// E returns H(z)/H0 for p.
func (p Params) E(z float64) float64 {
	return HubbleFrac(p.OmegaM, p.OmegaL, z)
}

// RhoCritical returns the critical density at redshift z in g/cm^3. H0 is in
// km/s/Mpc.
func RhoCritical(H0, omegaM, omegaL, z float64) float64 {
	H := H0 * HubbleFrac(omegaM, omegaL, z) / kmPerMpc // 1/s
	return 3 * H * H / (8 * math.Pi * gravitationalConstant)
}

// TCMB returns the CMB temperature at redshift z in K.
func TCMB(z float64) float64 { return TCMB0 * (1 + z) }
