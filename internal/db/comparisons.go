package db

import (
	"database/sql"
	"fmt"

	"github.com/banshee-data/centerout/internal/analysis"
	"github.com/banshee-data/centerout/internal/trajectory"
	"github.com/google/uuid"
)

// StoredComparison is a t-test between two stored runs.
type StoredComparison struct {
	ComparisonID string  `json:"comparison_id"`
	RunAID       string  `json:"run_a_id"`
	RunBID       string  `json:"run_b_id"`
	TStatistic   float64 `json:"t_statistic"`
	PValue       float64 `json:"p_value"`
	DF           float64 `json:"df"`
	NA           int     `json:"n_a"`
	NB           int     `json:"n_b"`
	Stars        int     `json:"stars"`
	CreatedAt    int64   `json:"created_at"`
}

// NewStoredComparison links a comparison result to the two runs it was
// computed from.
func NewStoredComparison(runA, runB string, c trajectory.Comparison) *StoredComparison {
	return &StoredComparison{
		RunAID:     runA,
		RunBID:     runB,
		TStatistic: c.TStatistic,
		PValue:     c.PValue,
		DF:         c.DF,
		NA:         c.NA,
		NB:         c.NB,
		Stars:      c.Stars,
	}
}

// InsertComparison stores c. If ComparisonID is empty a UUID is generated.
func (db *DB) InsertComparison(c *StoredComparison) error {
	if c.ComparisonID == "" {
		c.ComparisonID = uuid.New().String()
	}
	if c.CreatedAt == 0 {
		c.CreatedAt = db.now()
	}
	return retryOnBusy(func() error {
		_, err := db.Exec(`
			INSERT INTO session_comparisons (
				comparison_id, run_a_id, run_b_id, t_statistic, p_value,
				df, n_a, n_b, stars, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ComparisonID, c.RunAID, c.RunBID, nullable(c.TStatistic), nullable(c.PValue),
			c.DF, c.NA, c.NB, c.Stars, c.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert comparison: %w", err)
		}
		return nil
	})
}

// SaveComparison stores both sessions of cmp as runs and links them with
// a comparison row.
func (db *DB) SaveComparison(cmp *analysis.ComparisonReport) (*StoredComparison, error) {
	runA := RunFromReport(cmp.A)
	if err := db.InsertRun(runA); err != nil {
		return nil, err
	}
	runB := RunFromReport(cmp.B)
	if err := db.InsertRun(runB); err != nil {
		return nil, err
	}
	c := NewStoredComparison(runA.RunID, runB.RunID, cmp.Result)
	if err := db.InsertComparison(c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListComparisons returns every comparison that involves runID on either
// side, newest first.
func (db *DB) ListComparisons(runID string) ([]*StoredComparison, error) {
	rows, err := db.Query(`
		SELECT comparison_id, run_a_id, run_b_id, t_statistic, p_value,
		       df, n_a, n_b, stars, created_at
		FROM session_comparisons
		WHERE run_a_id = ? OR run_b_id = ?
		ORDER BY created_at DESC`, runID, runID)
	if err != nil {
		return nil, fmt.Errorf("list comparisons: %w", err)
	}
	defer rows.Close()

	var out []*StoredComparison
	for rows.Next() {
		var (
			c    StoredComparison
			t, p sql.NullFloat64
		)
		if err := rows.Scan(&c.ComparisonID, &c.RunAID, &c.RunBID, &t, &p,
			&c.DF, &c.NA, &c.NB, &c.Stars, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comparison: %w", err)
		}
		c.TStatistic = fromNullable(t)
		c.PValue = fromNullable(p)
		out = append(out, &c)
	}
	return out, rows.Err()
}
