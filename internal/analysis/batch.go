package analysis

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/banshee-data/centerout/internal/monitoring"
	"github.com/sourcegraph/conc/pool"
)

// BatchResult collects the outcome of every session in a batch. A session
// appears in exactly one of Reports or Failures.
type BatchResult struct {
	Reports  map[string]*SessionReport
	Failures map[string]error
	// Order is the order sessions were requested in.
	Order []string
}

// Succeeded returns the successful reports in request order.
func (b *BatchResult) Succeeded() []*SessionReport {
	out := make([]*SessionReport, 0, len(b.Reports))
	for _, id := range b.Order {
		if r, ok := b.Reports[id]; ok {
			out = append(out, r)
		}
	}
	return out
}

// FailedIDs returns the failed session IDs, sorted.
func (b *BatchResult) FailedIDs() []string {
	out := make([]string, 0, len(b.Failures))
	for id := range b.Failures {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// RunBatch analyses sessions concurrently with at most workers goroutines.
// Each session is independent: its failure is recorded and the batch
// continues. Sessions not started before ctx is done fail with ctx.Err().
func (a *Analyzer) RunBatch(ctx context.Context, sessionIDs []string, workers int) *BatchResult {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	res := &BatchResult{
		Reports:  make(map[string]*SessionReport, len(sessionIDs)),
		Failures: make(map[string]error),
		Order:    append([]string(nil), sessionIDs...),
	}
	var mu sync.Mutex

	p := pool.New().WithMaxGoroutines(workers)
	for _, id := range sessionIDs {
		p.Go(func() {
			var (
				rep *SessionReport
				err = ctx.Err()
			)
			if err == nil {
				rep, err = a.AnalyzeSession(ctx, id)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failures[id] = err
				monitoring.Logf("[batch] session=%s failed: %v", id, err)
				return
			}
			res.Reports[id] = rep
		})
	}
	p.Wait()

	monitoring.Logf("[batch] %d sessions: %d ok, %d failed", len(sessionIDs), len(res.Reports), len(res.Failures))
	return res
}
