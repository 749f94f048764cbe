package cli

import (
	"github.com/nysa42/c2raytools/io/cube"
	"github.com/spf13/pflag"
)

// precisionValue is a pflag.Value for cube.Precision.
type precisionValue struct {
	prec cube.Precision
}

var _ pflag.Value = (*precisionValue)(nil)

func (v *precisionValue) String() string { return v.prec.String() }

func (v *precisionValue) Set(s string) error {
	prec, err := cube.ParsePrecision(s)
	if err != nil {
		return err
	}
	v.prec = prec
	return nil
}

func (v *precisionValue) Type() string { return "precision" }
