package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/nysa42/c2raytools/config"
	"github.com/nysa42/c2raytools/temperature"
	"github.com/spf13/cobra"
)

type ExitCode int

const (
	exitCodeSuccess = 0
	exitCodeError   = 1
)

// envConfig names the configuration file used when --config isn't given.
const envConfig = "C2T_CONFIG"

func Run() ExitCode {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := NewRootCmd().Execute(); err != nil {
		return exitCodeError
	}

	return exitCodeSuccess
}

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "c2t",
		Short:        "Inspect C2Ray cubes and derive 21-cm brightness temperatures.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := cmd.Help()
			if err != nil {
				return fmt.Errorf("failed to show help: %w", err)
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "set debug logging level")
	flags.StringP("config", "c", os.Getenv(envConfig), "YAML configuration file (env: "+envConfig+")")
	flags.Var(&precisionValue{}, "precision", "float width of cube files, double or single; overrides the configuration")
	flags.Bool("raise-invalid", false, "fail instead of writing NaN or Inf cells")

	rootCmd.AddCommand(
		NewInfoCmd().Command(),
		NewMeanDTCmd().Command(),
		NewDTCmd().Command(),
		NewDTLightconeCmd().Command(),
		NewExportCmd().Command(),
		NewConfigCmd().Command(),
	)

	return rootCmd
}

// env is the state shared by every subcommand: the logger and the effective
// configuration after flags are applied.
type env struct {
	log *slog.Logger
	cfg config.Config
}

func (e *env) pipeline() (*temperature.Pipeline, error) {
	p, err := e.cfg.Pipeline(e.log)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}
	return p, nil
}

func withEnv(f func(e *env, cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		flags := cmd.Root().PersistentFlags()

		verbose, err := flags.GetBool("verbose")
		if err != nil {
			return fmt.Errorf("failed to get verbose flag: %w", err)
		}
		log := newLogger(cmd.ErrOrStderr(), verbose)

		cfg, err := loadConfig(cmd)
		if err != nil {
			log.Error("failed to load configuration", "error", err)
			return err
		}
		log.Debug("loaded configuration",
			"precision", cfg.Precision, "los_axis", cfg.LOSAxis,
			"float_policy", cfg.Policy, "box_size", cfg.Cosmology.BoxSize)

		err = f(&env{log: log, cfg: cfg}, cmd, args)
		if err != nil {
			log.Error("failed to run command", "error", err)
			return err
		}

		return nil
	}
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Root().PersistentFlags()

	path, err := flags.GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg := config.Default()
	if path != "" {
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}

	if flags.Changed("precision") {
		cfg.Precision = flags.Lookup("precision").Value.(*precisionValue).prec
	}
	raise, err := flags.GetBool("raise-invalid")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get raise-invalid flag: %w", err)
	}
	if raise {
		cfg.Policy = temperature.RaiseInvalid
	}

	return cfg, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}
