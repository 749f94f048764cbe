/*package temperature derives the 21-cm differential brightness temperature
from ionization fraction, density and (optionally) spin temperature cubes.

Two modes are supported. In box mode every cell is at the same redshift. In
lightcone mode each slice along the line-of-sight axis has its own redshift,
found by stepping through comoving distance from the lowest redshift of the
volume.
*/
package temperature

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ctessum/sparse"
	"github.com/nysa42/c2raytools/array"
	"github.com/nysa42/c2raytools/cosmo"
)

var (
	// ErrRedshiftUnknown is returned when no redshift was given and none
	// could be found from the inputs.
	ErrRedshiftUnknown = errors.New("temperature: no redshift specified and none could be determined from the inputs")
	// ErrShapeMismatch is returned when input arrays don't line up.
	ErrShapeMismatch = errors.New("temperature: input shapes do not match")
	// ErrNonFinite is returned under RaiseInvalid when an output contains
	// NaN or Inf.
	ErrNonFinite = errors.New("temperature: non-finite values in output")
)

// FloatPolicy decides what happens when a calculation produces NaN or Inf,
// e.g. because a temperature field contains zeros.
type FloatPolicy int

const (
	// IgnoreInvalid returns outputs containing NaN and Inf as-is.
	IgnoreInvalid FloatPolicy = iota
	// RaiseInvalid turns NaN and Inf outputs into ErrNonFinite.
	RaiseInvalid
)

func (f FloatPolicy) String() string {
	switch f {
	case IgnoreInvalid:
		return "ignore"
	case RaiseInvalid:
		return "raise"
	}
	return fmt.Sprintf("FloatPolicy(%d)", int(f))
}

// ParseFloatPolicy is the inverse of FloatPolicy.String.
func ParseFloatPolicy(s string) (FloatPolicy, error) {
	switch strings.ToLower(s) {
	case "ignore", "":
		return IgnoreInvalid, nil
	case "raise":
		return RaiseInvalid, nil
	}
	return IgnoreInvalid, fmt.Errorf("temperature: unknown float policy %q", s)
}

// Context contains optional settings for a Pipeline.
type Context struct {
	Policy    FloatPolicy
	Logger    *slog.Logger         // Defaults to slog.Default().
	Distances *cosmo.DistanceTable // Defaults to cosmo.DefaultDistanceTable.
}

// Pipeline computes brightness temperatures for a fixed set of cosmological
// parameters. It holds no mutable state, so one Pipeline can be shared freely.
type Pipeline struct {
	params cosmo.Params
	policy FloatPolicy
	log    *slog.Logger
	dist   *cosmo.DistanceTable
}

// New returns a Pipeline using a copy of params. Additional settings may be
// optionally offered in the form of a Context.
func New(params cosmo.Params, context ...Context) (*Pipeline, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	ctx := Context{}
	if len(context) > 0 {
		ctx = context[0]
	}

	p := &Pipeline{params: params, policy: ctx.Policy, log: ctx.Logger}
	if p.log == nil {
		p.log = slog.Default()
	}

	p.dist = ctx.Distances
	if p.dist == nil {
		var err error
		p.dist, err = cosmo.DefaultDistanceTable(params)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Params returns the pipeline's cosmological parameters.
func (p *Pipeline) Params() cosmo.Params { return p.params }

// Policy returns the pipeline's FloatPolicy.
func (p *Pipeline) Policy() FloatPolicy { return p.policy }

// checkFinite applies the pipeline's FloatPolicy to out.
func (p *Pipeline) checkFinite(out *sparse.DenseArray) error {
	if p.policy == IgnoreInvalid {
		return nil
	}

	n := array.Count(array.Not(array.Finite(out.Elements)))
	if n > 0 {
		return fmt.Errorf("%w: %d of %d cells", ErrNonFinite, n, len(out.Elements))
	}
	return nil
}
