// Command beamlets analyses PIC simulation dumps for beamlets and keeps a
// history of runs in SQLite.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/banshee-data/pic.report/internal/config"
	"github.com/banshee-data/pic.report/internal/monitoring"
	"github.com/banshee-data/pic.report/internal/pic/dump"
	"github.com/banshee-data/pic.report/internal/pic/simctx"
	"github.com/banshee-data/pic.report/internal/timeutil"
	"github.com/banshee-data/pic.report/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout, os.Stderr).RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Simulation configuration (JSON)",
		EnvVars: []string{"BEAMLETS_CONFIG"},
	}
	optionsFlag = &cli.StringFlag{
		Name:    "options",
		Aliases: []string{"o"},
		Usage:   "Analysis options (JSON); fields left out keep their defaults",
	}
	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level (debug, info, warn, error)",
		Value: "info",
	}
	dbFlag = &cli.StringFlag{
		Name:  "db",
		Usage: "SQLite database holding the run history",
	}
	speciesFlag = &cli.StringFlag{
		Name:    "species",
		Aliases: []string{"s"},
		Usage:   "Beam species to analyse (overrides options)",
	}
	unitSystemFlag = &cli.StringFlag{
		Name:  "unit-system",
		Usage: "Unit system for results: normalized or si (overrides options)",
	}
	ignoreLimitsFlag = &cli.BoolFlag{
		Name:  "ignore-limits",
		Usage: "Analyse the whole box regardless of configured limits",
	}
	dumpsFlag = &cli.IntSliceFlag{
		Name:    "dump",
		Aliases: []string{"d"},
		Usage:   "Dump index to analyse; repeat or comma separate for several",
	}
)

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "beamlets",
		Usage:     "Find and measure beamlets in PIC simulation dumps",
		Version:   version.Version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     []cli.Flag{configFlag, optionsFlag, logLevelFlag},
		Before: func(cCtx *cli.Context) error {
			return monitoring.Configure(cCtx.String(logLevelFlag.Name), stderr)
		},
		Commands: []*cli.Command{
			analyzeCommand(),
			spectrumCommand(),
			runsCommand(),
			{
				Name:  "version",
				Usage: "Print build information",
				Action: func(cCtx *cli.Context) error {
					fmt.Fprintf(cCtx.App.Writer, "beamlets %s\n", version.String())
					return nil
				},
			},
		},
	}
}

// setup holds everything loaded from the global flags.
type setup struct {
	sim    simctx.Context
	opts   *config.Options
	reader dump.Reader
	clock  timeutil.Clock
}

// loadSetup reads the simulation and options files and applies command line
// overrides. The synthetic reader serves dumps for simulations that carry a
// synthetic section.
func loadSetup(cCtx *cli.Context) (*setup, error) {
	path := cCtx.String(configFlag.Name)
	if path == "" {
		return nil, fmt.Errorf("--%s is required", configFlag.Name)
	}
	simCfg, err := config.LoadSimulation(path)
	if err != nil {
		return nil, err
	}

	opts := config.EmptyOptions()
	if p := cCtx.String(optionsFlag.Name); p != "" {
		if opts, err = config.LoadOptions(p); err != nil {
			return nil, err
		}
	}
	if v := cCtx.String(speciesFlag.Name); v != "" {
		opts.Species = &v
	}
	if v := cCtx.String(unitSystemFlag.Name); v != "" {
		opts.UnitSystem = &v
	}
	if cCtx.IsSet(ignoreLimitsFlag.Name) {
		v := cCtx.Bool(ignoreLimitsFlag.Name)
		opts.IgnoreLimits = &v
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	sim, err := simctx.New(simCfg, opts)
	if err != nil {
		return nil, err
	}
	reader, err := dump.NewSynthetic(simCfg)
	if err != nil {
		return nil, fmt.Errorf("no dump reader for %s: %w", simCfg.Name, err)
	}
	return &setup{sim: sim, opts: opts, reader: reader, clock: timeutil.RealClock{}}, nil
}

// dumpIndices returns the requested dumps, defaulting to dump 0.
func dumpIndices(cCtx *cli.Context) ([]int, error) {
	dumps := cCtx.IntSlice(dumpsFlag.Name)
	if len(dumps) == 0 {
		return []int{0}, nil
	}
	for _, d := range dumps {
		if d < 0 {
			return nil, fmt.Errorf("dump index must be non-negative, got %d", d)
		}
	}
	return dumps, nil
}
