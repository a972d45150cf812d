package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/banshee-data/pic.report/internal/monitoring"
	"github.com/banshee-data/pic.report/internal/pic/pipeline"
	"github.com/banshee-data/pic.report/internal/pic/report"
	"github.com/banshee-data/pic.report/internal/pic/spectrum"
	"github.com/banshee-data/pic.report/internal/pic/storage/sqlite"
)

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:    "analyze",
		Aliases: []string{"a"},
		Usage:   "Segment the beam into beamlets and measure them",
		Flags: []cli.Flag{
			dumpsFlag, speciesFlag, unitSystemFlag, ignoreLimitsFlag, dbFlag,
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of dumps analysed concurrently",
				Value: 1,
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "Directory for PNG and HTML reports",
			},
			&cli.BoolFlag{
				Name:  "png",
				Usage: "Write a PNG plot per dump into --out",
			},
			&cli.BoolFlag{
				Name:  "html",
				Usage: "Write an interactive HTML report per dump into --out",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print results as JSON instead of a summary",
			},
		},
		Action: runAnalyze,
	}
}

func runAnalyze(cCtx *cli.Context) error {
	s, err := loadSetup(cCtx)
	if err != nil {
		return err
	}
	dumps, err := dumpIndices(cCtx)
	if err != nil {
		return err
	}
	outDir := cCtx.String("out")
	if (cCtx.Bool("png") || cCtx.Bool("html")) && outDir == "" {
		return fmt.Errorf("--png and --html need --out")
	}

	start := s.clock.Now()
	results, err := analyzeDumps(cCtx.Context, s, dumps, cCtx.Int("workers"))
	if err != nil {
		return err
	}
	monitoring.Logf("analysed %d dumps in %s", len(results), s.clock.Since(start).Round(time.Millisecond))

	files := report.Files{Dir: outDir, PNG: cCtx.Bool("png"), HTML: cCtx.Bool("html")}
	for _, res := range results {
		written, err := files.Write(res)
		if err != nil {
			return fmt.Errorf("dump %d report: %w", res.Dump, err)
		}
		for _, path := range written {
			monitoring.Logf("wrote %s", path)
		}
	}

	if path := cCtx.String(dbFlag.Name); path != "" {
		if err := storeResults(path, results, s); err != nil {
			return err
		}
	}

	if cCtx.Bool("json") {
		enc := json.NewEncoder(cCtx.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	for _, res := range results {
		printSummary(cCtx.App.Writer, res)
	}
	return nil
}

// analyzeDumps runs the analysis for every dump on a bounded pool of
// workers. Results come back in the order of dumps. The first error cancels
// the remaining work.
func analyzeDumps(ctx context.Context, s *setup, dumps []int, workers int) ([]*pipeline.Result, error) {
	if workers < 1 {
		workers = 1
	}
	workers = min(workers, len(dumps))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]*pipeline.Result, len(dumps))
	errs := make([]error, len(dumps))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res, err := pipeline.ComputeBeamlets(ctx, s.reader, s.sim, dumps[i], "", s.opts)
				if err != nil {
					errs[i] = fmt.Errorf("dump %d: %w", dumps[i], err)
					cancel()
					continue
				}
				results[i] = res
			}
		}()
	}

feed:
	for i := range dumps {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	var first error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if !errors.Is(err, context.Canceled) {
			return nil, err
		}
		if first == nil {
			first = err
		}
	}
	if first != nil {
		return nil, first
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func storeResults(path string, results []*pipeline.Result, s *setup) error {
	db, err := sqlite.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	store := sqlite.NewRunStore(db)
	for _, res := range results {
		run, err := sqlite.RunFromResult(res, s.opts)
		if err != nil {
			return err
		}
		if err := store.Insert(run); err != nil {
			return fmt.Errorf("failed to store dump %d: %w", res.Dump, err)
		}
		monitoring.Logf("stored run %s for dump %d", run.RunID, res.Dump)
	}
	return nil
}

func printSummary(w io.Writer, res *pipeline.Result) {
	fmt.Fprintf(w, "%s dump %d species %s: %d beamlets, total charge %.6g %s\n",
		res.Simulation, res.Dump, res.Species, len(res.Beamlets), res.TotalCharge, res.ChargeUnit)
	for i, b := range res.Beamlets {
		fmt.Fprintf(w, "  #%d [%.4g, %.4g] %s peak %.4g fwhm %.4g radius %.4g charge %.6g %s particles %d\n",
			i, b.Start, b.Stop, res.LengthUnit, b.PeakPosition, b.Width, b.Radius, b.Charge, res.ChargeUnit, b.Particles)
	}
}

func spectrumCommand() *cli.Command {
	return &cli.Command{
		Name:  "spectrum",
		Usage: "Print the dominant longitudinal wavelength of the beam projection",
		Flags: []cli.Flag{dumpsFlag, speciesFlag, unitSystemFlag, ignoreLimitsFlag},
		Action: func(cCtx *cli.Context) error {
			s, err := loadSetup(cCtx)
			if err != nil {
				return err
			}
			dumps, err := dumpIndices(cCtx)
			if err != nil {
				return err
			}
			for _, d := range dumps {
				res, err := pipeline.ComputeBeamlets(cCtx.Context, s.reader, s.sim, d, "", s.opts)
				if err != nil {
					return fmt.Errorf("dump %d: %w", d, err)
				}
				if len(res.X1Axis) < 2 {
					return fmt.Errorf("dump %d: %w", d, spectrum.ErrTooShort)
				}
				sp, err := spectrum.Compute(res.Projection, res.X1Axis[1]-res.X1Axis[0])
				if err != nil {
					return fmt.Errorf("dump %d: %w", d, err)
				}
				fmt.Fprintf(cCtx.App.Writer, "%s dump %d species %s: peak wavenumber %.6g, wavelength %.6g %s\n",
					res.Simulation, d, res.Species, sp.PeakWavenumber, sp.PeakWavelength, res.LengthUnit)
			}
			return nil
		},
	}
}
