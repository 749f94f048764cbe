package cube

import (
	"fmt"

	"github.com/ctessum/sparse"
)

// Kind identifies the physical quantity held by a cube.
type Kind int

const (
	Raw Kind = iota // An array of unknown origin.
	Ionization
	Density
	Temperature
	Velocity
)

var kindNames = []string{
	"raw", "ionization", "density", "temperature", "velocity",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind is the inverse of Kind.String. "xfrac", "dens" and "temper" are
// also accepted.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "xfrac":
		return Ionization, nil
	case "dens":
		return Density, nil
	case "temper", "temp":
		return Temperature, nil
	case "vel":
		return Velocity, nil
	}
	for i := range kindNames {
		if kindNames[i] == s {
			return Kind(i), nil
		}
	}
	return Raw, fmt.Errorf("unrecognized cube kind '%s'", s)
}

// Source is one input to a calculation: a file on disk, an already-loaded
// Cube, or a bare array. Exactly one of Path, Cube and Values should be set.
type Source struct {
	Kind      Kind
	Path      string
	Precision Precision // Only used when reading Path.
	Cube      *Cube
	Values    *sparse.DenseArray
}

// FromFile returns a Source that reads the cube at path when resolved.
func FromFile(kind Kind, path string, prec Precision) Source {
	return Source{Kind: kind, Path: path, Precision: prec}
}

// FromCube returns a Source for an already-loaded cube.
func FromCube(kind Kind, c *Cube) Source {
	return Source{Kind: kind, Cube: c}
}

// FromArray returns a Source for a bare array. Arrays carry no redshift.
func FromArray(kind Kind, values *sparse.DenseArray) Source {
	return Source{Kind: kind, Values: values}
}

// Resolve returns the array held by the source along with its kind, reading
// it from disk if needed.
func (s Source) Resolve() (*sparse.DenseArray, Kind, error) {
	switch {
	case s.Cube != nil:
		return s.Cube.Values, s.Kind, nil
	case s.Values != nil:
		return s.Values, s.Kind, nil
	case s.Path != "":
		c, err := Read(s.Path, s.Precision)
		if err != nil {
			return nil, s.Kind, err
		}
		return c.Values, s.Kind, nil
	}
	return nil, s.Kind, fmt.Errorf("cube: empty %s source", s.Kind)
}

// Redshift returns the redshift the source implies without reading any
// data: the cube's own redshift, or the one in its filename. Arrays give
// UnknownRedshift.
func (s Source) Redshift() float64 {
	switch {
	case s.Cube != nil:
		return s.Cube.Redshift
	case s.Values != nil:
		return UnknownRedshift
	case s.Path != "":
		return RedshiftFromFilename(s.Path)
	}
	return UnknownRedshift
}

// String describes the source for log messages.
func (s Source) String() string {
	switch {
	case s.Cube != nil && s.Cube.Path != "":
		return fmt.Sprintf("%s cube %s", s.Kind, s.Cube.Path)
	case s.Cube != nil:
		return fmt.Sprintf("%s cube", s.Kind)
	case s.Values != nil:
		return fmt.Sprintf("%s array", s.Kind)
	}
	return fmt.Sprintf("%s file %s", s.Kind, s.Path)
}
