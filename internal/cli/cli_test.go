package cli

import (
	"bytes"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/ctessum/sparse"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nysa42/c2raytools/config"
	"github.com/nysa42/c2raytools/io/cube"
	"github.com/nysa42/c2raytools/temperature"
)

// run executes the CLI with args and returns what it printed to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(envConfig, "")

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func fill(n int, f func(i, j, k int) float64) *sparse.DenseArray {
	a := sparse.ZerosDense(n, n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				a.Elements[a.Index1d(i, j, k)] = f(i, j, k)
			}
		}
	}
	return a
}

type fixture struct {
	dir              string
	xfrac, dens, tmp string
	xi, rho, ts      *sparse.DenseArray
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rhoMean := config.Default().Cosmology.RhoMean()
	f := &fixture{
		dir: t.TempDir(),
		xi:  fill(4, func(i, j, k int) float64 { return float64((i+j+k)%4) / 4 }),
		rho: fill(4, func(i, j, k int) float64 { return rhoMean * (1 + 0.1*float64(i-j+k)) }),
		ts:  fill(4, func(i, j, k int) float64 { return 100 + float64(i*j*k) }),
	}
	f.xfrac = f.write(t, "xfrac3d_8.000.bin", f.xi)
	f.dens = f.write(t, "8.000n_all.dat", f.rho)
	f.tmp = f.write(t, "Temper3D_8.000.bin", f.ts)
	return f
}

func (f *fixture) write(t *testing.T, name string, values *sparse.DenseArray) string {
	t.Helper()
	c, err := cube.New(values, cube.UnknownRedshift)
	require.NoError(t, err)
	path := filepath.Join(f.dir, name)
	require.NoError(t, cube.Write(path, c, cube.Double))
	return path
}

func testPipeline(t *testing.T) *temperature.Pipeline {
	t.Helper()
	p, err := config.Default().Pipeline(slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return p
}

func TestRootHelp(t *testing.T) {
	out, err := run(t)
	require.NoError(t, err)
	for _, sub := range []string{"info", "meandt", "dt", "dt-lightcone", "export", "config"} {
		assert.Contains(t, out, sub)
	}
}

func TestInfo(t *testing.T) {
	f := newFixture(t)
	bad := filepath.Join(f.dir, "broken.bin")
	require.NoError(t, os.WriteFile(bad, []byte{1, 2, 3}, 0o644))

	out, err := run(t, "info", f.xfrac, f.dens)
	require.NoError(t, err)
	assert.Contains(t, out, "4 x 4 x 4")
	assert.Contains(t, out, "8.000")
	assert.Contains(t, out, "unknown")
	assert.Contains(t, out, filepath.Base(f.xfrac))

	_, err = run(t, "info", bad)
	assert.ErrorIs(t, err, cube.ErrFormat)

	_, err = run(t, "info")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	a := sparse.ZerosDense(1, 1, 4)
	a.Elements = []float64{1, 2, 6, 0}
	c, err := cube.New(a, 7.5)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "1 x 1 x 4", "7.500", "0", "6", "2.25", "0"}, summarize(c))

	nan := sparse.ZerosDense(1, 1, 2)
	nan.Elements[0], nan.Elements[1] = math.NaN(), 3
	c, err = cube.New(nan, cube.UnknownRedshift)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "1 x 1 x 2", "unknown", "3", "3", "3", "1"}, summarize(c))
}

func TestMeanDT(t *testing.T) {
	out, err := run(t, "meandt", "7", "9.5")
	require.NoError(t, err)
	assert.Contains(t, out, "7.000")
	assert.Contains(t, out, "9.500")

	_, err = run(t, "meandt", "seven")
	assert.Error(t, err)
}

func TestDT(t *testing.T) {
	f := newFixture(t)
	p := testPipeline(t)
	output := filepath.Join(f.dir, "dT_8.000.bin")

	_, err := run(t, "dt", "--xfrac", f.xfrac, "--dens", f.dens, "-o", output)
	require.NoError(t, err)

	got, err := cube.Read(output, cube.Double)
	require.NoError(t, err)
	want, err := p.DT(f.xi, f.rho, 8)
	require.NoError(t, err)
	if diff := cmp.Diff(want.Elements, got.Values.Elements, cmpopts.EquateApprox(1e-12, 0)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 8.0, got.Redshift)

	_, err = run(t, "dt", "--xfrac", f.xfrac, "--dens", f.dens, "--temp", f.tmp, "--z", "9", "-o", output)
	require.NoError(t, err)
	got, err = cube.Read(output, cube.Double)
	require.NoError(t, err)
	want, err = p.DTFull(f.xi, f.ts, f.rho, 9)
	require.NoError(t, err)
	if diff := cmp.Diff(want.Elements, got.Values.Elements, cmpopts.EquateApprox(1e-12, 0)); diff != "" {
		t.Errorf("full: mismatch (-want +got):\n%s", diff)
	}
}

func TestDTErrors(t *testing.T) {
	f := newFixture(t)
	noz := f.write(t, "ionization.bin", f.xi)
	output := filepath.Join(f.dir, "out.bin")

	_, err := run(t, "dt", "--xfrac", noz, "--dens", f.dens, "-o", output)
	assert.ErrorIs(t, err, temperature.ErrRedshiftUnknown)

	_, err = run(t, "dt", "--xfrac", f.xfrac, "-o", output)
	assert.Error(t, err)

	c, err := cube.New(f.xi, cube.UnknownRedshift)
	require.NoError(t, err)
	single := filepath.Join(f.dir, "single_8.000.bin")
	require.NoError(t, cube.Write(single, c, cube.Single))
	_, err = run(t, "dt", "--xfrac", single, "--dens", f.dens, "-o", output)
	assert.ErrorIs(t, err, cube.ErrFormat)

	_, err = run(t, "dt", "--xfrac", f.xfrac, "--dens", f.dens, "--precision", "half", "-o", output)
	assert.Error(t, err)

	zero := f.write(t, "Temper3D_8.000.bin", sparse.ZerosDense(4, 4, 4))
	_, err = run(t, "dt", "--raise-invalid",
		"--xfrac", f.xfrac, "--dens", f.dens, "--temp", zero, "-o", output)
	assert.ErrorIs(t, err, temperature.ErrNonFinite)
}

func TestDTLightcone(t *testing.T) {
	f := newFixture(t)
	p := testPipeline(t)
	output := filepath.Join(f.dir, "lightcone.bin")

	_, err := run(t, "dt-lightcone", "--xfrac", f.xfrac, "--dens", f.dens,
		"--lowest-z", "7", "--los-axis", "1", "-o", output)
	require.NoError(t, err)

	got, err := cube.Read(output, cube.Double)
	require.NoError(t, err)
	zs := p.LightconeRedshifts(f.xi.Shape, 1, 7)
	want, err := p.DTLightcone(f.xi, f.rho, zs, 1)
	require.NoError(t, err)
	if diff := cmp.Diff(want.Elements, got.Values.Elements, cmpopts.EquateApprox(1e-12, 0)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	_, err = run(t, "dt-lightcone", "--xfrac", f.xfrac, "--dens", f.dens,
		"--lowest-z", "7", "--los-axis", "5", "-o", output)
	assert.Error(t, err)

	_, err = run(t, "dt-lightcone", "--xfrac", f.xfrac, "--dens", f.dens, "-o", output)
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	f := newFixture(t)
	output := filepath.Join(f.dir, "xfrac.nc")

	_, err := run(t, "export", f.xfrac, output, "--name", "xfrac")
	require.NoError(t, err)

	nc, err := cdf.Open(output)
	require.NoError(t, err)
	defer nc.Close()
	v, err := nc.GetVariable("xfrac")
	require.NoError(t, err)
	z, ok := v.Attributes.Get("redshift")
	require.True(t, ok)
	assert.Equal(t, 8.0, z)

	_, err = run(t, "export", f.xfrac)
	assert.Error(t, err)
}

func TestDTNetCDFOutput(t *testing.T) {
	f := newFixture(t)
	output := filepath.Join(f.dir, "dT.nc")

	_, err := run(t, "dt", "--xfrac", f.xfrac, "--dens", f.dens, "-o", output)
	require.NoError(t, err)

	nc, err := cdf.Open(output)
	require.NoError(t, err)
	defer nc.Close()
	_, err = nc.GetVariable("dT")
	assert.NoError(t, err)
}

func TestConfig(t *testing.T) {
	out, err := run(t, "config")
	require.NoError(t, err)
	c, err := config.Parse([]byte(out))
	require.NoError(t, err)
	if diff := cmp.Diff(config.Default(), c); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	path := filepath.Join(t.TempDir(), "c2t.yaml")
	require.NoError(t, os.WriteFile(path, []byte("precision: single\nlos_axis: 0\n"), 0o644))

	out, err = run(t, "config", "--config", path, "--raise-invalid")
	require.NoError(t, err)
	c, err = config.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, cube.Single, c.Precision)
	assert.Equal(t, 0, c.LOSAxis)
	assert.Equal(t, temperature.RaiseInvalid, c.Policy)

	out, err = run(t, "config", "--config", path, "--precision", "double")
	require.NoError(t, err)
	c, err = config.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, cube.Double, c.Precision)

	_, err = run(t, "config", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
