package cli

import (
	"fmt"
	"strconv"

	"github.com/nysa42/c2raytools/array"
	"github.com/nysa42/c2raytools/io/cube"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
)

type InfoCmd struct{}

func NewInfoCmd() *InfoCmd {
	return &InfoCmd{}
}

func (c *InfoCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info FILE...",
		Short: "Summarize cube files",
		Args:  cobra.MinimumNArgs(1),
		RunE: withEnv(func(e *env, cmd *cobra.Command, args []string) error {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetAutoWrapText(false)
			table.SetAutoFormatHeaders(false)
			table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
			table.SetHeader([]string{
				"File", "Shape", "Redshift", "Min", "Max", "Mean", "Non-finite\n(#)",
			})

			for _, path := range args {
				c, err := cube.Read(path, e.cfg.Precision)
				if err != nil {
					return fmt.Errorf("failed to read cube: %w", err)
				}
				e.log.Debug("read cube", "path", path, "dims", c.Dims)
				table.Append(summarize(c))
			}

			table.Render()
			return nil
		}),
	}

	return cmd
}

// summarize returns the table row for c. Statistics skip NaN and Inf cells.
func summarize(c *cube.Cube) []string {
	xs := c.Values.Elements
	ok := array.Finite(xs)
	finite := make([]float64, 0, len(xs))
	for i := range xs {
		if ok[i] {
			finite = append(finite, xs[i])
		}
	}

	z := "unknown"
	if c.HasRedshift() {
		z = strconv.FormatFloat(c.Redshift, 'f', 3, 64)
	}

	row := []string{
		c.Path,
		fmt.Sprintf("%d x %d x %d", c.Dims[0], c.Dims[1], c.Dims[2]),
		z,
	}
	if len(finite) == 0 {
		row = append(row, "-", "-", "-")
	} else {
		row = append(row,
			fmt.Sprintf("%.4g", floats.Min(finite)),
			fmt.Sprintf("%.4g", floats.Max(finite)),
			fmt.Sprintf("%.4g", floats.Sum(finite)/float64(len(finite))),
		)
	}
	return append(row, strconv.Itoa(len(xs)-len(finite)))
}
