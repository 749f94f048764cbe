/*package cube reads and writes the binary cube files produced by C2Ray and
CubeP3M: ionization fractions, densities, temperatures and velocities sampled
on a regular 3D grid.

Every cube file shares one layout. The header is six little-endian int32
values, of which only elements 1, 2 and 3 are meaningful and give the grid
dimensions (nx, ny, nz). It is followed by nx*ny*nz floats stored in
column-major order (the x index varies fastest). The float width is not
recorded in the file, so callers must say whether they are reading a legacy
single-precision file or a standard double-precision one.

Once loaded, Cube.Values is a row-major (nx, ny, nz) array: Values.Get(i, j, k)
is the cell at x = i, y = j, z = k. Nothing outside this package ever sees the
on-disk ordering.
*/
package cube

import (
	"errors"
	"fmt"

	"github.com/ctessum/sparse"
)

var (
	// ErrIO is returned when a cube file cannot be opened or created.
	ErrIO = errors.New("cube: i/o failure")
	// ErrFormat is returned when a cube file's header or payload is
	// truncated or malformed.
	ErrFormat = errors.New("cube: malformed file")
)

// UnknownRedshift is the redshift of a cube whose redshift couldn't be
// determined.
const UnknownRedshift = -1.0

// Precision is the width of the floats stored in a cube file.
type Precision int

const (
	// Double is the standard 8-byte format.
	Double Precision = iota
	// Single is the legacy 4-byte format.
	Single
)

// Size returns the number of bytes used by one element.
func (p Precision) Size() int {
	switch p {
	case Double:
		return 8
	case Single:
		return 4
	}
	panic(fmt.Sprintf("Unrecognized cube precision %d.", int(p)))
}

func (p Precision) String() string {
	switch p {
	case Double:
		return "double"
	case Single:
		return "single"
	}
	return fmt.Sprintf("Precision(%d)", int(p))
}

// ParsePrecision converts "single"/"double" (or "float32"/"float64", or
// "old"/"new") into a Precision.
func ParsePrecision(s string) (Precision, error) {
	switch s {
	case "double", "float64", "new", "standard":
		return Double, nil
	case "single", "float32", "old", "legacy":
		return Single, nil
	}
	return Double, fmt.Errorf("unrecognized precision '%s'", s)
}

// Cube is one physical quantity sampled on a regular grid. Cubes are not
// modified after they are created.
type Cube struct {
	Dims      [3]int             // nx, ny, nz
	Values    *sparse.DenseArray // Row-major, shape Dims.
	Redshift  float64            // UnknownRedshift if not known.
	Path      string             // Empty for cubes built in memory.
	Precision Precision          // Element width on disk.
}

// New wraps an in-memory 3D array in a Cube. The array is not copied, so the
// caller must not modify it afterwards.
func New(values *sparse.DenseArray, z float64) (*Cube, error) {
	if values == nil || len(values.Shape) != 3 {
		return nil, fmt.Errorf("cube: expected a 3D array")
	}
	if !validRedshift(z) {
		z = UnknownRedshift
	}

	c := &Cube{Values: values, Redshift: z, Precision: Double}
	copy(c.Dims[:], values.Shape)
	return c, nil
}

// Len returns the number of cells in the cube.
func (c *Cube) Len() int { return c.Dims[0] * c.Dims[1] * c.Dims[2] }

// HasRedshift returns true if the cube's redshift is known.
func (c *Cube) HasRedshift() bool { return c.Redshift != UnknownRedshift }

// Get returns the value of the cell (i, j, k).
func (c *Cube) Get(i, j, k int) float64 { return c.Values.Get(i, j, k) }
