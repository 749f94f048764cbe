/*package config loads run configurations for the brightness temperature
tools from YAML files. A configuration file may set any subset of the fields
below; missing fields keep their defaults.

	cosmology:
	  omega_m: 0.27
	  omega_l: 0.73
	  omega_b: 0.044
	  h: 0.7
	  box_size: 244      # Mpc/h
	  rho_crit_0: ...    # g/cm^3, derived from h, omega_m and omega_l if unset
	  mean_dt: ...       # mK, derived from omega_b if unset
	precision: double    # or single for legacy files
	los_axis: 2
	float_policy: ignore # or raise
	distance_table:
	  z_max: 100
	  size: 10000
*/
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nysa42/c2raytools/cosmo"
	"github.com/nysa42/c2raytools/io/cube"
	"github.com/nysa42/c2raytools/temperature"
	"gopkg.in/yaml.v3"
)

// Config is a complete run configuration.
type Config struct {
	Cosmology cosmo.Params
	Precision cube.Precision
	LOSAxis   int
	Policy    temperature.FloatPolicy

	// Comoving distance table used for lightcone redshifts.
	ZMax      float64
	TableSize int
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Cosmology: cosmo.Default(),
		Precision: cube.Double,
		LOSAxis:   2,
		Policy:    temperature.IgnoreInvalid,
		ZMax:      cosmo.DefaultZMax,
		TableSize: cosmo.DefaultTableSize,
	}
}

// file is the on-disk layout of a Config. The derived cosmological
// constants are pointers so that an unset value can be recomputed from the
// parameters it depends on.
type file struct {
	Cosmology     cosmologyFile `yaml:"cosmology"`
	Precision     string        `yaml:"precision"`
	LOSAxis       int           `yaml:"los_axis"`
	FloatPolicy   string        `yaml:"float_policy"`
	DistanceTable tableFile     `yaml:"distance_table"`
}

type cosmologyFile struct {
	OmegaM   float64  `yaml:"omega_m"`
	OmegaL   float64  `yaml:"omega_l"`
	OmegaB   float64  `yaml:"omega_b"`
	H        float64  `yaml:"h"`
	BoxSize  float64  `yaml:"box_size"`
	RhoCrit0 *float64 `yaml:"rho_crit_0,omitempty"`
	MeanDT   *float64 `yaml:"mean_dt,omitempty"`
}

type tableFile struct {
	ZMax float64 `yaml:"z_max"`
	Size int     `yaml:"size"`
}

func (c Config) toFile() file {
	p := c.Cosmology
	return file{
		Cosmology: cosmologyFile{
			OmegaM: p.OmegaM, OmegaL: p.OmegaL, OmegaB: p.OmegaB,
			H: p.H, BoxSize: p.BoxSize,
			RhoCrit0: &p.RhoCrit0, MeanDT: &p.MeanDT,
		},
		Precision:     c.Precision.String(),
		LOSAxis:       c.LOSAxis,
		FloatPolicy:   c.Policy.String(),
		DistanceTable: tableFile{ZMax: c.ZMax, Size: c.TableSize},
	}
}

// Load reads and validates the configuration file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, errors.Unwrap(err))
	}
	return c, nil
}

// Parse decodes and validates a YAML configuration. Unknown keys are errors.
func Parse(data []byte) (Config, error) {
	f := Default().toFile()
	f.Cosmology.RhoCrit0, f.Cosmology.MeanDT = nil, nil

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	c, err := f.config()
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

func (f *file) config() (Config, error) {
	prec, err := cube.ParsePrecision(f.Precision)
	if err != nil {
		return Config{}, err
	}
	policy, err := temperature.ParseFloatPolicy(f.FloatPolicy)
	if err != nil {
		return Config{}, err
	}

	cf := f.Cosmology
	p := cosmo.Params{
		OmegaM: cf.OmegaM, OmegaL: cf.OmegaL, OmegaB: cf.OmegaB,
		H: cf.H, BoxSize: cf.BoxSize,
	}
	if cf.RhoCrit0 != nil {
		p.RhoCrit0 = *cf.RhoCrit0
	} else {
		p.RhoCrit0 = cosmo.RhoCritical(p.H0(), p.OmegaM, p.OmegaL, 0)
	}
	if cf.MeanDT != nil {
		p.MeanDT = *cf.MeanDT
	} else {
		p.MeanDT = cosmo.MeanDTFor(p.OmegaB)
	}

	return Config{
		Cosmology: p,
		Precision: prec,
		LOSAxis:   f.LOSAxis,
		Policy:    policy,
		ZMax:      f.DistanceTable.ZMax,
		TableSize: f.DistanceTable.Size,
	}, nil
}

// Validate returns an error if c can't be used to build a pipeline.
func (c Config) Validate() error {
	if err := c.Cosmology.Validate(); err != nil {
		return err
	}
	if c.LOSAxis < 0 || c.LOSAxis > 2 {
		return fmt.Errorf("los_axis = %d, must be 0, 1 or 2", c.LOSAxis)
	}
	if c.ZMax <= 0 || c.TableSize < 1 {
		return fmt.Errorf(
			"distance_table z_max = %g, size = %d, must both be positive",
			c.ZMax, c.TableSize,
		)
	}
	return nil
}

// Marshal returns c as YAML, with the derived constants filled in.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c.toFile())
}

// Pipeline builds a brightness temperature pipeline for c.
func (c Config) Pipeline(log *slog.Logger) (*temperature.Pipeline, error) {
	dist, err := cosmo.NewDistanceTable(c.Cosmology, c.ZMax, c.TableSize)
	if err != nil {
		return nil, err
	}
	return temperature.New(c.Cosmology, temperature.Context{
		Policy:    c.Policy,
		Logger:    log,
		Distances: dist,
	})
}
