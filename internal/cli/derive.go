package cli

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/ctessum/sparse"
	"github.com/nysa42/c2raytools/io/cube"
	"github.com/nysa42/c2raytools/temperature"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// netCDFExt selects netCDF output instead of the raw cube layout.
const netCDFExt = ".nc"

type MeanDTCmd struct{}

func NewMeanDTCmd() *MeanDTCmd {
	return &MeanDTCmd{}
}

func (c *MeanDTCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meandt Z...",
		Short: "Print the mean brightness temperature at each redshift",
		Args:  cobra.MinimumNArgs(1),
		RunE: withEnv(func(e *env, cmd *cobra.Command, args []string) error {
			zs := make([]float64, len(args))
			for i, arg := range args {
				z, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return fmt.Errorf("invalid redshift %q: %w", arg, err)
				}
				zs[i] = z
			}

			p, err := e.pipeline()
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetAutoFormatHeaders(false)
			table.SetHeader([]string{"z", "Mean dT\n(mK)"})
			for i, dt := range p.MeanDTs(zs) {
				table.Append([]string{
					strconv.FormatFloat(zs[i], 'f', 3, 64),
					fmt.Sprintf("%.4f", dt),
				})
			}
			table.Render()
			return nil
		}),
	}

	return cmd
}

// inputs are the cube files shared by the dT commands.
type inputs struct {
	xfrac, dens, temp string
	output            string
}

func (in *inputs) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&in.xfrac, "xfrac", "", "ionization fraction cube")
	cmd.Flags().StringVar(&in.dens, "dens", "", "density cube in g/cm^3")
	cmd.Flags().StringVar(&in.temp, "temp", "", "spin temperature cube in K; if set, T_s >> T_CMB is not assumed")
	cmd.Flags().StringVarP(&in.output, "output", "o", "", "output file; a .nc extension writes netCDF")
	_ = cmd.MarkFlagRequired("xfrac")
	_ = cmd.MarkFlagRequired("dens")
	_ = cmd.MarkFlagRequired("output")
}

func (in *inputs) sources(prec cube.Precision) (xfrac, dens, temp cube.Source) {
	xfrac = cube.FromFile(cube.Ionization, in.xfrac, prec)
	dens = cube.FromFile(cube.Density, in.dens, prec)
	temp = cube.FromFile(cube.Temperature, in.temp, prec)
	return xfrac, dens, temp
}

func (in *inputs) full() bool { return in.temp != "" }

type DTCmd struct{}

func NewDTCmd() *DTCmd {
	return &DTCmd{}
}

func (c *DTCmd) Command() *cobra.Command {
	var in inputs
	var z float64

	cmd := &cobra.Command{
		Use:   "dt",
		Short: "Derive the brightness temperature of a box at one redshift",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(e *env, cmd *cobra.Command, args []string) error {
			p, err := e.pipeline()
			if err != nil {
				return err
			}
			xfrac, dens, temp := in.sources(e.cfg.Precision)

			var out *sparse.DenseArray
			sources := []cube.Source{xfrac, dens}
			if in.full() {
				sources = append(sources, temp)
				out, err = p.CalcDTFull(xfrac, temp, dens, z)
			} else {
				out, err = p.CalcDT(xfrac, dens, z)
			}
			if err != nil {
				return fmt.Errorf("failed to derive dT: %w", err)
			}

			zOut, err := temperature.ResolveRedshift(z, sources...)
			if err != nil {
				return err
			}
			return e.write(in.output, out, zOut)
		}),
	}

	in.addFlags(cmd)
	cmd.Flags().Float64Var(&z, "z", cube.UnknownRedshift, "redshift; taken from the input filenames if unset")

	return cmd
}

type DTLightconeCmd struct{}

func NewDTLightconeCmd() *DTLightconeCmd {
	return &DTLightconeCmd{}
}

func (c *DTLightconeCmd) Command() *cobra.Command {
	var in inputs
	var lowestZ float64
	var losAxis int

	cmd := &cobra.Command{
		Use:   "dt-lightcone",
		Short: "Derive the brightness temperature of a lightcone",
		Long: "Derive the brightness temperature of a lightcone whose nearest slice along\n" +
			"the line of sight is at --lowest-z. Each slice gets the redshift of its\n" +
			"comoving distance from that slice.",
		Args: cobra.NoArgs,
		RunE: withEnv(func(e *env, cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("los-axis") {
				e.cfg.LOSAxis = losAxis
				if err := e.cfg.Validate(); err != nil {
					return err
				}
			}

			p, err := e.pipeline()
			if err != nil {
				return err
			}
			xfrac, dens, temp := in.sources(e.cfg.Precision)

			var out *sparse.DenseArray
			if in.full() {
				out, err = p.CalcDTFullLightcone(xfrac, temp, dens, lowestZ, e.cfg.LOSAxis)
			} else {
				out, err = p.CalcDTLightcone(xfrac, dens, lowestZ, e.cfg.LOSAxis)
			}
			if err != nil {
				return fmt.Errorf("failed to derive dT lightcone: %w", err)
			}

			return e.write(in.output, out, cube.UnknownRedshift)
		}),
	}

	in.addFlags(cmd)
	cmd.Flags().Float64Var(&lowestZ, "lowest-z", cube.UnknownRedshift, "redshift of the nearest slice")
	cmd.Flags().IntVar(&losAxis, "los-axis", 2, "line-of-sight axis 0, 1 or 2; overrides the configuration")
	_ = cmd.MarkFlagRequired("lowest-z")

	return cmd
}

// write saves values as a cube at path, in netCDF if path ends in .nc.
func (e *env) write(path string, values *sparse.DenseArray, z float64) error {
	c, err := cube.New(values, z)
	if err != nil {
		return err
	}

	if filepath.Ext(path) == netCDFExt {
		err = cube.WriteNetCDF(path, "dT", c)
	} else {
		err = cube.Write(path, c, e.cfg.Precision)
	}
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	e.log.Info("wrote output", "path", path, "dims", c.Dims)
	return nil
}
