// Package analysis runs the segmentation and path efficiency pipeline over
// whole sessions and compares sessions with each other.
package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/banshee-data/centerout/internal/monitoring"
	"github.com/banshee-data/centerout/internal/session"
	"github.com/banshee-data/centerout/internal/task"
	"github.com/banshee-data/centerout/internal/trajectory"
)

// Warning kinds. They are reported on a SessionReport, never returned as
// errors, so one bad trial or empty session does not stop a batch.
var (
	ErrEmptySession    = errors.New("no trials recovered")
	ErrDegenerateTrial = errors.New("degenerate trial")
)

// Warning is a non-fatal finding about a session.
type Warning struct {
	Kind    error
	Trial   int // index into SessionReport.Trials, or -1
	Message string
}

func (w Warning) String() string {
	return w.Message
}

// SessionReport is everything the reporting layer needs about a session.
type SessionReport struct {
	SessionID  string
	Strategy   task.Strategy
	Metadata   *session.Metadata
	Table      *task.SampleTable
	Trials     []task.Trial
	Efficiency trajectory.EfficiencyResult
	Warnings   []Warning
}

// HasWarning reports whether the session carries a warning of kind.
func (r *SessionReport) HasWarning(kind error) bool {
	for _, w := range r.Warnings {
		if errors.Is(w.Kind, kind) {
			return true
		}
	}
	return false
}

// Copilot labels the session with policy.
func (r *SessionReport) Copilot(policy session.CopilotPolicy) session.CopilotLabel {
	return policy(r.Metadata.CopilotAlpha)
}

// Analyzer loads sessions and runs the pipeline on them.
type Analyzer struct {
	Loader   session.Loader
	Metadata session.MetadataReader
	Strategy task.Strategy
	// Sentinel is the center-hold state value.
	Sentinel int
}

// NewAnalyzer returns an Analyzer reading sessions from a DirLoader.
func NewAnalyzer(l *session.DirLoader, strategy task.Strategy) *Analyzer {
	return &Analyzer{
		Loader:   l,
		Metadata: l,
		Strategy: strategy,
		Sentinel: task.CenterHold,
	}
}

// AnalyzeSession loads one session and analyses it.
func (a *Analyzer) AnalyzeSession(ctx context.Context, sessionID string) (*SessionReport, error) {
	meta, err := a.Metadata.ReadMetadata(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	table, err := a.Loader.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return a.Analyze(sessionID, table, meta)
}

// Analyze segments an already loaded table and computes path efficiency
// for every trial.
func (a *Analyzer) Analyze(sessionID string, table *task.SampleTable, meta *session.Metadata) (*SessionReport, error) {
	trials, err := task.SegmentTable(table, a.Strategy, a.Sentinel)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	rep := &SessionReport{
		SessionID: sessionID,
		Strategy:  a.Strategy,
		Metadata:  meta,
		Table:     table,
		Trials:    trials,
	}

	if len(trials) == 0 {
		rep.Warnings = append(rep.Warnings, Warning{
			Kind:    ErrEmptySession,
			Trial:   -1,
			Message: fmt.Sprintf("%s: %v", sessionID, ErrEmptySession),
		})
		monitoring.Warnf(sessionID, "%v", ErrEmptySession)
	}

	rep.Efficiency = trajectory.EfficiencyForSession(trials, table.Positions, meta.TargetDistance(), a.Sentinel)

	for i, m := range rep.Efficiency.Trials {
		if !m.Degenerate {
			continue
		}
		msg := fmt.Sprintf("%s: trial %d (target %s, samples %d-%d) has zero path length",
			sessionID, i, task.TargetName(m.Trial.Target), m.Trial.Start, m.Trial.End)
		rep.Warnings = append(rep.Warnings, Warning{Kind: ErrDegenerateTrial, Trial: i, Message: msg})
		monitoring.Warnf(sessionID, "trial %d has zero path length", i)
	}

	monitoring.Logf("[analysis] session=%s strategy=%s trials=%d mean=%.2f std=%.2f excluded=%d",
		sessionID, a.Strategy, len(trials), rep.Efficiency.Mean, rep.Efficiency.Std, rep.Efficiency.Excluded)
	return rep, nil
}

// ComparisonReport pairs two sessions with the t-test on their efficiency
// values. A is conventionally the session without assistance.
type ComparisonReport struct {
	A      *SessionReport
	B      *SessionReport
	Result trajectory.Comparison
}

// CompareSessions analyses a then b, one after the other, and compares
// their path efficiency distributions.
func (a *Analyzer) CompareSessions(ctx context.Context, idA, idB string) (*ComparisonReport, error) {
	ra, err := a.AnalyzeSession(ctx, idA)
	if err != nil {
		return nil, err
	}
	rb, err := a.AnalyzeSession(ctx, idB)
	if err != nil {
		return nil, err
	}
	return Compare(ra, rb)
}

// Compare runs the t-test between two analysed sessions.
func Compare(ra, rb *SessionReport) (*ComparisonReport, error) {
	res, err := trajectory.Compare(ra.Efficiency.Values, rb.Efficiency.Values)
	if err != nil {
		return nil, fmt.Errorf("compare %s and %s: %w", ra.SessionID, rb.SessionID, err)
	}
	if res.ExcludedA+res.ExcludedB > 0 {
		monitoring.Logf("[analysis] compare %s/%s: excluded %d and %d non-finite values",
			ra.SessionID, rb.SessionID, res.ExcludedA, res.ExcludedB)
	}
	return &ComparisonReport{A: ra, B: rb, Result: res}, nil
}
