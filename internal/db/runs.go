package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/centerout/internal/analysis"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Run is one stored analysis of a session. Non-finite statistics are stored
// as NULL and read back as NaN.
type Run struct {
	RunID          string   `json:"run_id"`
	SessionID      string   `json:"session_id"`
	Strategy       string   `json:"strategy"`
	CopilotAlpha   float64  `json:"copilot_alpha"`
	TargetDistance float64  `json:"target_distance"`
	TargetDiameter float64  `json:"target_diameter"`
	TrialCount     int      `json:"trial_count"`
	MeanEfficiency float64  `json:"mean_efficiency"`
	StdEfficiency  float64  `json:"std_efficiency"`
	ExcludedCount  int      `json:"excluded_count"`
	Warnings       []string `json:"warnings,omitempty"`
	CreatedAt      int64    `json:"created_at"`

	Trials []TrialResult `json:"trials,omitempty"`
}

// TrialResult is the stored metrics of one trial of a run.
type TrialResult struct {
	TrialIndex  int     `json:"trial_index"`
	TargetCode  int     `json:"target_code"`
	TargetIndex int     `json:"target_index"`
	Start       int     `json:"start"`
	End         int     `json:"end"`
	PathLength  float64 `json:"path_length"`
	Efficiency  float64 `json:"efficiency"`
	Degenerate  bool    `json:"degenerate"`
}

// RunFromReport converts an analysed session into a Run ready to insert.
func RunFromReport(rep *analysis.SessionReport) *Run {
	run := &Run{
		SessionID:      rep.SessionID,
		Strategy:       rep.Strategy.String(),
		CopilotAlpha:   rep.Metadata.CopilotAlpha,
		TargetDistance: rep.Metadata.TargetDistance(),
		TargetDiameter: rep.Metadata.TargetDiameter,
		TrialCount:     len(rep.Efficiency.Values),
		MeanEfficiency: rep.Efficiency.Mean,
		StdEfficiency:  rep.Efficiency.Std,
		ExcludedCount:  rep.Efficiency.Excluded,
	}
	for _, w := range rep.Warnings {
		run.Warnings = append(run.Warnings, w.Message)
	}
	for i, m := range rep.Efficiency.Trials {
		run.Trials = append(run.Trials, TrialResult{
			TrialIndex:  i,
			TargetCode:  m.Trial.Target,
			TargetIndex: m.Trial.Index,
			Start:       m.Trial.Start,
			End:         m.Trial.End,
			PathLength:  m.PathLength,
			Efficiency:  m.Efficiency,
			Degenerate:  m.Degenerate,
		})
	}
	return run
}

func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func fromNullable(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

// InsertRun stores run and its trials in one transaction. If RunID is empty
// a UUID is generated.
func (db *DB) InsertRun(run *Run) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = db.now()
	}

	var warnings interface{}
	if len(run.Warnings) > 0 {
		b, err := json.Marshal(run.Warnings)
		if err != nil {
			return fmt.Errorf("marshal warnings: %w", err)
		}
		warnings = string(b)
	}

	return retryOnBusy(func() error {
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		_, err = tx.Exec(`
			INSERT INTO analysis_runs (
				run_id, session_id, strategy, copilot_alpha, target_distance,
				target_diameter, trial_count, mean_efficiency, std_efficiency,
				excluded_count, warnings_json, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID, run.SessionID, run.Strategy, run.CopilotAlpha, run.TargetDistance,
			run.TargetDiameter, run.TrialCount, nullable(run.MeanEfficiency), nullable(run.StdEfficiency),
			run.ExcludedCount, warnings, run.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		for _, tr := range run.Trials {
			_, err = tx.Exec(`
				INSERT INTO trial_results (
					run_id, trial_index, target_code, target_index, start_sample,
					end_sample, path_length, efficiency, degenerate
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				run.RunID, tr.TrialIndex, tr.TargetCode, tr.TargetIndex, tr.Start,
				tr.End, tr.PathLength, nullable(tr.Efficiency), tr.Degenerate,
			)
			if err != nil {
				return fmt.Errorf("insert trial %d: %w", tr.TrialIndex, err)
			}
		}
		return tx.Commit()
	})
}

const runColumns = `run_id, session_id, strategy, copilot_alpha, target_distance,
	target_diameter, trial_count, mean_efficiency, std_efficiency,
	excluded_count, warnings_json, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		r        Run
		mean     sql.NullFloat64
		std      sql.NullFloat64
		warnings sql.NullString
	)
	err := row.Scan(
		&r.RunID, &r.SessionID, &r.Strategy, &r.CopilotAlpha, &r.TargetDistance,
		&r.TargetDiameter, &r.TrialCount, &mean, &std,
		&r.ExcludedCount, &warnings, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.MeanEfficiency = fromNullable(mean)
	r.StdEfficiency = fromNullable(std)
	if warnings.Valid && warnings.String != "" {
		if err := json.Unmarshal([]byte(warnings.String), &r.Warnings); err != nil {
			return nil, fmt.Errorf("unmarshal warnings: %w", err)
		}
	}
	return &r, nil
}

// GetRun returns a run and its trials.
func (db *DB) GetRun(runID string) (*Run, error) {
	row := db.QueryRow(`SELECT `+runColumns+` FROM analysis_runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	if run.Trials, err = db.ListTrials(runID); err != nil {
		return nil, err
	}
	return run, nil
}

// ListRunsBySession returns the runs of a session, newest first, without
// their trials.
func (db *DB) ListRunsBySession(sessionID string) ([]*Run, error) {
	rows, err := db.Query(`
		SELECT `+runColumns+`
		FROM analysis_runs
		WHERE session_id = ?
		ORDER BY created_at DESC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListTrials returns the trials of a run in trial order.
func (db *DB) ListTrials(runID string) ([]TrialResult, error) {
	rows, err := db.Query(`
		SELECT trial_index, target_code, target_index, start_sample, end_sample,
		       path_length, efficiency, degenerate
		FROM trial_results
		WHERE run_id = ?
		ORDER BY trial_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("list trials: %w", err)
	}
	defer rows.Close()

	var out []TrialResult
	for rows.Next() {
		var (
			tr  TrialResult
			eff sql.NullFloat64
		)
		if err := rows.Scan(&tr.TrialIndex, &tr.TargetCode, &tr.TargetIndex, &tr.Start, &tr.End,
			&tr.PathLength, &eff, &tr.Degenerate); err != nil {
			return nil, fmt.Errorf("scan trial: %w", err)
		}
		tr.Efficiency = fromNullable(eff)
		out = append(out, tr)
	}
	return out, rows.Err()
}

// DeleteRun removes a run. Its trials and comparisons cascade.
func (db *DB) DeleteRun(runID string) error {
	return retryOnBusy(func() error {
		res, err := db.Exec(`DELETE FROM analysis_runs WHERE run_id = ?`, runID)
		if err != nil {
			return fmt.Errorf("delete run: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("run %s: %w", runID, ErrNotFound)
		}
		return nil
	})
}
