package cosmo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	p := Default()
	require.NoError(t, p.Validate())

	// 1.8788e-29 h^2 g/cm^3
	assert.InEpsilon(t, 1.8788e-29*0.7*0.7, p.RhoCrit0, 1e-3)
	assert.InEpsilon(t, 2.9*0.044/0.042, p.MeanDT, 1e-12)
	assert.InEpsilon(t, 244/0.7, p.BoxSizeMpc(), 1e-12)
	assert.InEpsilon(t, p.RhoCrit0*p.OmegaB, p.RhoMean(), 1e-12)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(p *Params)
	}{
		{"h", func(p *Params) { p.H = 0 }},
		{"omega_m", func(p *Params) { p.OmegaM = -0.1 }},
		{"omega_l", func(p *Params) { p.OmegaL = -1 }},
		{"omega_b zero", func(p *Params) { p.OmegaB = 0 }},
		{"omega_b > omega_m", func(p *Params) { p.OmegaB = 0.5 }},
		{"rho_crit_0", func(p *Params) { p.RhoCrit0 = 0 }},
		{"mean_dt", func(p *Params) { p.MeanDT = -2 }},
		{"box_size", func(p *Params) { p.BoxSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Default()
			tt.mod(&p)
			assert.Error(t, p.Validate())
		})
	}
}

func TestHubbleFrac(t *testing.T) {
	assert.InDelta(t, 1, HubbleFrac(0.27, 0.73, 0), 1e-12)
	// Einstein-de Sitter: E(z) = (1+z)^1.5
	assert.InDelta(t, math.Pow(4, 1.5), HubbleFrac(1, 0, 3), 1e-12)
	// Empty universe: E(z) = 1+z
	assert.InDelta(t, 5, HubbleFrac(0, 0, 4), 1e-12)
}

func TestRhoCritical(t *testing.T) {
	rho0 := RhoCritical(100, 0.3, 0.7, 0)
	assert.InEpsilon(t, 1.8788e-29, rho0, 1e-3)

	E := HubbleFrac(0.3, 0.7, 2)
	assert.InEpsilon(t, rho0*E*E, RhoCritical(100, 0.3, 0.7, 2), 1e-12)
}

func TestComovingDistance(t *testing.T) {
	// Einstein-de Sitter has the closed form 2(c/H0)(1 - 1/sqrt(1+z)).
	eds := Params{OmegaM: 1, OmegaL: 0, OmegaB: 0.05, H: 0.7}
	for _, z := range []float64{0.1, 1, 3, 10} {
		want := 2 * eds.HubbleDistance() * (1 - 1/math.Sqrt(1+z))
		assert.InEpsilon(t, want, ComovingDistance(eds, z), 1e-8, "z = %g", z)
	}
	assert.Equal(t, 0.0, ComovingDistance(eds, 0))
	assert.Equal(t, 0.0, ComovingDistance(eds, -1))

	// Roughly 9 Gpc to z = 8 for the default cosmology.
	d := ComovingDistance(Default(), 8)
	assert.Greater(t, d, 8500.0)
	assert.Less(t, d, 9800.0)
}

func TestDistanceTable(t *testing.T) {
	p := Default()
	table, err := NewDistanceTable(p, 20, 2000)
	require.NoError(t, err)
	assert.Equal(t, 20.0, table.ZMax())

	for _, z := range []float64{0, 0.5, 6, 7.3, 12.25, 20} {
		d := table.Distance(z)
		assert.InEpsilon(t, ComovingDistance(p, z)+1, d+1, 1e-5, "z = %g", z)
		assert.InDelta(t, z, table.Redshift(d), 1e-9, "z = %g", z)
	}

	// Clamping
	assert.Equal(t, 0.0, table.Redshift(-10))
	assert.InDelta(t, 20, table.Redshift(1e9), 1e-12)
	assert.Equal(t, table.Distance(20), table.Distance(25))

	zs := table.Redshifts([]float64{1000, 2000, 3000})
	for i := 1; i < len(zs); i++ {
		assert.Greater(t, zs[i], zs[i-1])
	}

	_, err = NewDistanceTable(p, 0, 10)
	assert.Error(t, err)
	_, err = NewDistanceTable(p, 10, 0)
	assert.Error(t, err)
}

func TestTCMB(t *testing.T) {
	assert.InDelta(t, 2.725, TCMB(0), 1e-12)
	assert.InDelta(t, 27.25, TCMB(9), 1e-12)
}
