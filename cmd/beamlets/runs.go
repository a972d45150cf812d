package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/banshee-data/pic.report/internal/pic/storage/sqlite"
)

func runsCommand() *cli.Command {
	requiredDB := &cli.StringFlag{
		Name:     dbFlag.Name,
		Usage:    dbFlag.Usage,
		Required: true,
	}
	return &cli.Command{
		Name:  "runs",
		Usage: "Inspect stored analysis runs",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List stored runs, newest first",
				Flags: []cli.Flag{
					requiredDB,
					&cli.StringFlag{Name: "simulation", Usage: "Only list runs of this simulation"},
					&cli.IntFlag{Name: "limit", Usage: "Maximum number of runs (0 lists all)", Value: 20},
				},
				Action: func(cCtx *cli.Context) error {
					db, err := sqlite.Open(cCtx.String(dbFlag.Name))
					if err != nil {
						return err
					}
					defer db.Close()

					runs, err := sqlite.NewRunStore(db).List(cCtx.String("simulation"), cCtx.Int("limit"))
					if err != nil {
						return err
					}
					for _, r := range runs {
						fmt.Fprintf(cCtx.App.Writer, "%s  %s  %s dump %d species %s  %d beamlets  %.6g %s\n",
							r.RunID, time.Unix(0, r.CreatedAt).UTC().Format(time.RFC3339),
							r.Simulation, r.Dump, r.Species, r.PeakCount, r.TotalCharge, r.ChargeUnit)
					}
					return nil
				},
			},
			{
				Name:      "show",
				Usage:     "Print one run with its beamlets as JSON",
				ArgsUsage: "RUN_ID",
				Flags:     []cli.Flag{requiredDB},
				Action: func(cCtx *cli.Context) error {
					id := cCtx.Args().First()
					if id == "" {
						return fmt.Errorf("run id is required")
					}
					db, err := sqlite.Open(cCtx.String(dbFlag.Name))
					if err != nil {
						return err
					}
					defer db.Close()

					run, err := sqlite.NewRunStore(db).Get(id)
					if err != nil {
						return err
					}
					enc := json.NewEncoder(cCtx.App.Writer)
					enc.SetIndent("", "  ")
					return enc.Encode(run)
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a stored run",
				ArgsUsage: "RUN_ID",
				Flags:     []cli.Flag{requiredDB},
				Action: func(cCtx *cli.Context) error {
					id := cCtx.Args().First()
					if id == "" {
						return fmt.Errorf("run id is required")
					}
					db, err := sqlite.Open(cCtx.String(dbFlag.Name))
					if err != nil {
						return err
					}
					defer db.Close()
					return sqlite.NewRunStore(db).Delete(id)
				},
			},
		},
	}
}
