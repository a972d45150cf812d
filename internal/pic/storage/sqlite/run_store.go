package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/banshee-data/pic.report/internal/config"
	"github.com/banshee-data/pic.report/internal/pic/pipeline"
	"github.com/banshee-data/pic.report/internal/timeutil"
)

// ErrRunNotFound is returned by Get and Delete for unknown run ids.
var ErrRunNotFound = errors.New("run not found")

// Run is a persisted beamlet analysis run.
type Run struct {
	RunID       string          `json:"run_id"`
	Simulation  string          `json:"simulation"`
	Dump        int             `json:"dump"`
	Species     string          `json:"species"`
	PeakCount   int             `json:"peak_count"`
	TotalCharge float64         `json:"total_charge"`
	LengthUnit  string          `json:"length_unit"`
	ChargeUnit  string          `json:"charge_unit"`
	OptionsJSON json.RawMessage `json:"options_json,omitempty"`
	CreatedAt   int64           `json:"created_at"`

	// Beamlets is only populated by Get.
	Beamlets []BeamletRow `json:"beamlets,omitempty"`
}

// BeamletRow is the persisted summary of one beamlet.
type BeamletRow struct {
	Ordinal         int     `json:"ordinal"`
	Start           float64 `json:"start"`
	Stop            float64 `json:"stop"`
	PeakPosition    float64 `json:"peak_position"`
	Prominence      float64 `json:"prominence"`
	Width           float64 `json:"width"`
	Mean            float64 `json:"mean"`
	Std             float64 `json:"std"`
	TransverseWidth float64 `json:"transverse_width"`
	TransverseStd   float64 `json:"transverse_std"`
	Radius          float64 `json:"radius"`
	Charge          float64 `json:"charge"`
	Particles       int     `json:"particles"`
	Emittance       float64 `json:"emittance"`
	EnergySpread    float64 `json:"energy_spread"`
}

// RunFromResult summarises an analysis result for storage. opts may be nil.
func RunFromResult(res *pipeline.Result, opts *config.Options) (*Run, error) {
	run := &Run{
		Simulation:  res.Simulation,
		Dump:        res.Dump,
		Species:     res.Species,
		PeakCount:   res.PeakCount,
		TotalCharge: res.TotalCharge,
		LengthUnit:  res.LengthUnit,
		ChargeUnit:  res.ChargeUnit,
	}
	if opts != nil {
		data, err := json.Marshal(opts)
		if err != nil {
			return nil, fmt.Errorf("marshal options: %w", err)
		}
		run.OptionsJSON = data
	}
	for i, b := range res.Beamlets {
		run.Beamlets = append(run.Beamlets, BeamletRow{
			Ordinal:         i,
			Start:           b.Start,
			Stop:            b.Stop,
			PeakPosition:    b.PeakPosition,
			Prominence:      prominence(res, i),
			Width:           b.Width,
			Mean:            b.Mean,
			Std:             b.Std,
			TransverseWidth: b.TransverseWidth,
			TransverseStd:   b.TransverseStd,
			Radius:          b.Radius,
			Charge:          b.Charge,
			Particles:       b.Particles,
			Emittance:       b.Emittance,
			EnergySpread:    b.EnergySpread,
		})
	}
	return run, nil
}

// RunStore provides persistence for analysis runs.
type RunStore struct {
	db    *sql.DB
	clock timeutil.Clock
}

// NewRunStore creates a new RunStore stamping runs with the wall clock.
func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db, clock: timeutil.RealClock{}}
}

// WithClock replaces the clock used for created_at.
func (s *RunStore) WithClock(c timeutil.Clock) *RunStore {
	s.clock = c
	return s
}

// Insert persists run and its beamlets in one transaction. If RunID is empty
// a UUID is generated.
func (s *RunStore) Insert(run *Run) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = s.clock.Now().UnixNano()
	}
	var optionsStr interface{}
	if len(run.OptionsJSON) > 0 {
		optionsStr = string(run.OptionsJSON)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO beamlet_runs (
			run_id, simulation, dump, species, peak_count, total_charge,
			length_unit, charge_unit, options_json, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.Simulation, run.Dump, run.Species, run.PeakCount, run.TotalCharge,
		run.LengthUnit, run.ChargeUnit, optionsStr, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, b := range run.Beamlets {
		_, err := tx.Exec(`
			INSERT INTO beamlets (
				run_id, ordinal, start, stop, peak_position, prominence, width, mean, std,
				transverse_width, transverse_std, radius, charge, particles, emittance, energy_spread
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID, b.Ordinal, b.Start, b.Stop, b.PeakPosition, b.Prominence, b.Width, b.Mean, b.Std,
			b.TransverseWidth, b.TransverseStd, b.Radius, b.Charge, b.Particles, b.Emittance, b.EnergySpread,
		)
		if err != nil {
			return fmt.Errorf("insert beamlet %d: %w", b.Ordinal, err)
		}
	}
	return tx.Commit()
}

const runColumns = `run_id, simulation, dump, species, peak_count, total_charge,
	length_unit, charge_unit, options_json, created_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (*Run, error) {
	var r Run
	var options sql.NullString
	if err := row.Scan(
		&r.RunID, &r.Simulation, &r.Dump, &r.Species, &r.PeakCount, &r.TotalCharge,
		&r.LengthUnit, &r.ChargeUnit, &options, &r.CreatedAt,
	); err != nil {
		return nil, err
	}
	if options.Valid {
		r.OptionsJSON = json.RawMessage(options.String)
	}
	return &r, nil
}

// List returns runs newest first. An empty simulation lists every run; limit
// <= 0 means no limit.
func (s *RunStore) List(simulation string, limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM beamlet_runs`
	var args []interface{}
	if simulation != "" {
		query += ` WHERE simulation = ?`
		args = append(args, simulation)
	}
	query += ` ORDER BY created_at DESC, run_id`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Get returns a run with its beamlets.
func (s *RunStore) Get(runID string) (*Run, error) {
	r, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM beamlet_runs WHERE run_id = ?`, runID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT ordinal, start, stop, peak_position, prominence, width, mean, std,
		       transverse_width, transverse_std, radius, charge, particles, emittance, energy_spread
		FROM beamlets
		WHERE run_id = ?
		ORDER BY ordinal`, runID)
	if err != nil {
		return nil, fmt.Errorf("query beamlets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b BeamletRow
		if err := rows.Scan(
			&b.Ordinal, &b.Start, &b.Stop, &b.PeakPosition, &b.Prominence, &b.Width, &b.Mean, &b.Std,
			&b.TransverseWidth, &b.TransverseStd, &b.Radius, &b.Charge, &b.Particles, &b.Emittance, &b.EnergySpread,
		); err != nil {
			return nil, fmt.Errorf("scan beamlet: %w", err)
		}
		r.Beamlets = append(r.Beamlets, b)
	}
	return r, rows.Err()
}

// Delete removes a run and its beamlets.
func (s *RunStore) Delete(runID string) error {
	res, err := s.db.Exec(`DELETE FROM beamlet_runs WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

func prominence(res *pipeline.Result, i int) float64 {
	if i < len(res.Segments) {
		return res.Segments[i].Prominence
	}
	return 0
}
