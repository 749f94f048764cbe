package cli

import (
	"fmt"

	"github.com/nysa42/c2raytools/io/cube"
	"github.com/spf13/cobra"
)

type ExportCmd struct{}

func NewExportCmd() *ExportCmd {
	return &ExportCmd{}
}

func (c *ExportCmd) Command() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "export IN OUT",
		Short: "Convert a cube file to netCDF",
		Args:  cobra.ExactArgs(2),
		RunE: withEnv(func(e *env, cmd *cobra.Command, args []string) error {
			c, err := cube.Read(args[0], e.cfg.Precision)
			if err != nil {
				return fmt.Errorf("failed to read cube: %w", err)
			}

			if name == "" {
				name = "values"
			}
			if err := cube.WriteNetCDF(args[1], name, c); err != nil {
				return fmt.Errorf("failed to write netCDF: %w", err)
			}

			e.log.Info("exported cube", "from", args[0], "to", args[1], "variable", name)
			return nil
		}),
	}

	cmd.Flags().StringVar(&name, "name", "values", "netCDF variable name")

	return cmd
}

type ConfigCmd struct{}

func NewConfigCmd() *ConfigCmd {
	return &ConfigCmd{}
}

func (c *ConfigCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(e *env, cmd *cobra.Command, args []string) error {
			data, err := e.cfg.Marshal()
			if err != nil {
				return fmt.Errorf("failed to encode configuration: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}),
	}

	return cmd
}
