// Command path-efficiency compares the path efficiency of two sessions,
// typically without and with copilot assistance, and draws the bar figure.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/banshee-data/centerout/internal/analysis"
	"github.com/banshee-data/centerout/internal/config"
	"github.com/banshee-data/centerout/internal/db"
	"github.com/banshee-data/centerout/internal/fsutil"
	"github.com/banshee-data/centerout/internal/report"
	"github.com/banshee-data/centerout/internal/security"
	"github.com/banshee-data/centerout/internal/session"
	"github.com/banshee-data/centerout/internal/version"
)

// storeComparison saves both runs and the comparison, closing the db
// before returning.
func storeComparison(dbPath string, cmp *analysis.ComparisonReport) error {
	store, err := db.NewDB(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close()

	stored, err := store.SaveComparison(cmp)
	if err != nil {
		return fmt.Errorf("store comparison: %w", err)
	}
	log.Printf("stored comparison %s (runs %s, %s)", stored.ComparisonID, stored.RunAID, stored.RunBID)
	return nil
}

func main() {
	var (
		configPath  string
		dataDir     string
		outDir      string
		formats     string
		dbPath      string
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "path to analysis config JSON (defaults when empty)")
	flag.StringVar(&dataDir, "data", "", "directory holding session directories (overrides config)")
	flag.StringVar(&outDir, "out", "", "directory figures are written to (overrides config)")
	flag.StringVar(&formats, "formats", "", "comma-separated figure formats (overrides config)")
	flag.StringVar(&dbPath, "db", "", "store both runs and the comparison in this sqlite db")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <session-without-copilot> <session-with-copilot>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Println(version.String("path-efficiency"))
		return
	}
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
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
	exts := cfg.GetFormats()
	if formats != "" {
		exts = strings.Split(formats, ",")
	}
	fsys := fsutil.OSFileSystem{}
	if outDir, err = security.EnsureOutputDir(fsys, outDir); err != nil {
		log.Fatalf("%v", err)
	}

	a := analysis.NewAnalyzer(session.NewDirLoader(dataDir), cfg.GetStrategy())
	a.Sentinel = cfg.GetCenterSentinel()

	cmp, err := a.CompareSessions(context.Background(), flag.Arg(0), flag.Arg(1))
	if err != nil {
		log.Fatalf("compare: %v", err)
	}

	for _, ext := range exts {
		path, err := report.WriteEfficiencyFigure(fsys, outDir, cmp, ext)
		if err != nil {
			log.Fatalf("write figure: %v", err)
		}
		log.Printf("wrote %s", path)
	}

	if dbPath != "" {
		if err := storeComparison(dbPath, cmp); err != nil {
			log.Fatalf("%v", err)
		}
	}

	report.PrintComparison(os.Stdout, cmp)
}
