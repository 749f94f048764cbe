package cube

import (
	"fmt"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/batchatco/go-native-netcdf/netcdf/util"
)

// NetCDFDims are the dimension names given to exported cubes.
var NetCDFDims = []string{"x", "y", "z"}

// WriteNetCDF writes c to a classic netCDF file at path as a single double
// variable called name, with dimensions NetCDFDims. The cube's redshift is
// stored in the variable's "redshift" attribute and the source file, if any,
// in the global "source" attribute.
func WriteNetCDF(path, name string, c *Cube) (err error) {
	cw, err := cdf.NewCDFWriter(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer func() {
		if cerr := cw.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("%w: %w", ErrIO, cerr)
		}
	}()

	if c.Path != "" {
		global, err := util.NewOrderedMap(
			[]string{"source"}, map[string]any{"source": c.Path},
		)
		if err != nil {
			return err
		}
		if err = cw.AddGlobalAttrs(global); err != nil {
			return fmt.Errorf("adding global attributes: %w", err)
		}
	}

	attrs, err := util.NewOrderedMap(
		[]string{"redshift"}, map[string]any{"redshift": c.Redshift},
	)
	if err != nil {
		return err
	}

	err = cw.AddVar(name, api.Variable{
		Values:     nested(c),
		Dimensions: NetCDFDims,
		Attributes: attrs,
	})
	if err != nil {
		return fmt.Errorf("adding variable %s: %w", name, err)
	}
	return nil
}

// nested returns the cube values as [x][y][z] slices sharing the cube's
// backing array.
func nested(c *Cube) [][][]float64 {
	nx, ny, nz := c.Dims[0], c.Dims[1], c.Dims[2]
	out := make([][][]float64, nx)
	for i := range out {
		out[i] = make([][]float64, ny)
		for j := range out[i] {
			start := (i*ny + j) * nz
			out[i][j] = c.Values.Elements[start : start+nz : start+nz]
		}
	}
	return out
}
