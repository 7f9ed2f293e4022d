// Package cli implements the metnum command line.
package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/njchilds90/metnum/internal/config"
	"github.com/njchilds90/metnum/internal/logging"
	"github.com/njchilds90/metnum/internal/report"
)

// app is the state shared by every subcommand once the root pre-run has
// loaded the configuration.
type app struct {
	v          *viper.Viper
	configPath string
	cfg        config.Config
	format     report.Format
	log        *slog.Logger
}

// NewRootCommand builds the metnum command tree.
func NewRootCommand() *cobra.Command {
	a := &app{v: config.NewViper()}

	root := &cobra.Command{
		Use:   "metnum",
		Short: "Trapezoidal quadrature and Newton–Raphson for 3×3 nonlinear systems",
		Long: `metnum evaluates definite integrals with the composite trapezoidal rule
and solves three nonlinear equations in x, y and z with Newton–Raphson.

Formulas use x**2 or x^2 for powers and may call sin, cos, tan, exp, ln
(or log), sqrt, abs, asin, acos, atan, sinh, cosh and tanh. pi and E are
constants.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			bindAnnotated(a.v, cmd)
			return a.load(cmd.ErrOrStderr())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default ./metnum.yaml if present)")
	pf.String("log-level", "info", "log level: debug, info, warn or error")
	pf.StringP("output", "o", "text", "output format: text or json")
	bind(a.v, "log_level", pf.Lookup("log-level"))
	bind(a.v, "output", pf.Lookup("output"))

	root.AddCommand(
		newIntegrateCommand(a),
		newSolveCommand(a),
		newDiffCommand(a),
		newSampleCommand(a),
		newServeCommand(a),
	)
	return root
}

func (a *app) load(stderr io.Writer) error {
	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(cfg.Output)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.format = format
	a.log = logging.New(stderr, level, stderr == os.Stderr && os.Getenv("NO_COLOR") == "")
	if a.configPath != "" {
		a.log.Debug("config loaded", "file", a.configPath)
	}
	return nil
}
