// Command batch analyses many sessions in parallel, stores every run in
// SQLite and writes an HTML report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/banshee-data/centerout/internal/analysis"
	"github.com/banshee-data/centerout/internal/config"
	"github.com/banshee-data/centerout/internal/db"
	"github.com/banshee-data/centerout/internal/fsutil"
	"github.com/banshee-data/centerout/internal/report"
	"github.com/banshee-data/centerout/internal/security"
	"github.com/banshee-data/centerout/internal/session"
	"github.com/banshee-data/centerout/internal/version"
)

// parsePairs parses "a:b,c:d" into session pairs to compare.
func parsePairs(s string) ([][2]string, error) {
	if s == "" {
		return nil, nil
	}
	var out [][2]string
	for _, p := range strings.Split(s, ",") {
		a, b, ok := strings.Cut(strings.TrimSpace(p), ":")
		if !ok || a == "" || b == "" {
			return nil, fmt.Errorf("invalid pair '%s', want a:b", p)
		}
		out = append(out, [2]string{a, b})
	}
	return out, nil
}

// storeResults inserts every successful run and the comparisons between
// stored runs. Per-row failures are logged and skipped.
func storeResults(dbPath string, res *analysis.BatchResult, comparisons []*analysis.ComparisonReport) error {
	store, err := db.NewDB(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	runIDs := make(map[string]string, len(res.Reports))
	for _, rep := range res.Succeeded() {
		run := db.RunFromReport(rep)
		if err := store.InsertRun(run); err != nil {
			log.Printf("store %s: %v", rep.SessionID, err)
			continue
		}
		runIDs[rep.SessionID] = run.RunID
	}
	for _, cmp := range comparisons {
		runA, runB := runIDs[cmp.A.SessionID], runIDs[cmp.B.SessionID]
		if runA == "" || runB == "" {
			continue
		}
		if err := store.InsertComparison(db.NewStoredComparison(runA, runB, cmp.Result)); err != nil {
			log.Printf("store comparison %s: %v", report.EfficiencyCaption(cmp), err)
		}
	}
	log.Printf("stored %d runs in %s", len(runIDs), dbPath)
	return nil
}

func main() {
	var (
		configPath  string
		dataDir     string
		outDir      string
		dbPath      string
		pairsStr    string
		workers     int
		noDB        bool
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "path to analysis config JSON (defaults when empty)")
	flag.StringVar(&dataDir, "data", "", "directory holding session directories (overrides config)")
	flag.StringVar(&outDir, "out", "", "directory the HTML report is written to (overrides config)")
	flag.StringVar(&dbPath, "db", "", "sqlite db path (overrides config)")
	flag.StringVar(&pairsStr, "pairs", "", "comma-separated session pairs to compare, e.g. off1:on1,off2:on2")
	flag.IntVar(&workers, "workers", 0, "parallel sessions (overrides config)")
	flag.BoolVar(&noDB, "no-db", false, "do not store runs")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] [session-id...]\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "With no session ids every session under the data directory is analysed.")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Println(version.String("batch"))
		return
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if dataDir == "" {
		dataDir = cfg.GetDataDir()
	}
	if outDir == "" {
		outDir = cfg.GetOutputDir()
	}
	if dbPath == "" {
		dbPath = cfg.GetDBPath()
	}
	if workers <= 0 {
		workers = cfg.GetWorkers()
	}
	pairs, err := parsePairs(pairsStr)
	if err != nil {
		log.Fatalf("%v", err)
	}

	loader := session.NewDirLoader(dataDir)
	ids := flag.Args()
	if len(ids) == 0 {
		if ids, err = loader.Sessions(); err != nil {
			log.Fatalf("%v", err)
		}
	}
	if len(ids) == 0 {
		log.Fatalf("no sessions found under %s", dataDir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if timeout := cfg.GetBatchTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	a := analysis.NewAnalyzer(loader, cfg.GetStrategy())
	a.Sentinel = cfg.GetCenterSentinel()

	log.Printf("analysing %d sessions with %d workers", len(ids), workers)
	res := a.RunBatch(ctx, ids, workers)

	var comparisons []*analysis.ComparisonReport
	for _, p := range pairs {
		ra, okA := res.Reports[p[0]]
		rb, okB := res.Reports[p[1]]
		if !okA || !okB {
			log.Printf("skip comparison %s:%s: session not analysed", p[0], p[1])
			continue
		}
		cmp, err := analysis.Compare(ra, rb)
		if err != nil {
			log.Printf("skip comparison %s:%s: %v", p[0], p[1], err)
			continue
		}
		comparisons = append(comparisons, cmp)
	}

	if !noDB {
		if err := storeResults(dbPath, res, comparisons); err != nil {
			log.Fatalf("%v", err)
		}
	}

	fsys := fsutil.OSFileSystem{}
	if outDir, err = security.EnsureOutputDir(fsys, outDir); err != nil {
		log.Fatalf("%v", err)
	}
	htmlPath, err := report.WriteHTMLReport(fsys, outDir, res.Succeeded(), comparisons)
	if err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("wrote %s", htmlPath)

	report.PrintBatch(os.Stdout, res)
	for _, cmp := range comparisons {
		report.PrintComparison(os.Stdout, cmp)
	}
	if len(res.Failures) > 0 {
		os.Exit(1)
	}
}
