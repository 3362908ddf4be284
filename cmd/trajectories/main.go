// Command trajectories draws the cursor paths of one session on a
// four-panel figure and prints its path efficiency.
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
	"github.com/banshee-data/centerout/internal/fsutil"
	"github.com/banshee-data/centerout/internal/report"
	"github.com/banshee-data/centerout/internal/security"
	"github.com/banshee-data/centerout/internal/session"
	"github.com/banshee-data/centerout/internal/task"
	"github.com/banshee-data/centerout/internal/version"
)

func main() {
	var (
		configPath  string
		dataDir     string
		outDir      string
		formats     string
		layoutName  string
		showTrials  bool
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "path to analysis config JSON (defaults when empty)")
	flag.StringVar(&dataDir, "data", "", "directory holding session directories (overrides config)")
	flag.StringVar(&outDir, "out", "", "directory figures are written to (overrides config)")
	flag.StringVar(&formats, "formats", "", "comma-separated figure formats, e.g. pdf,png (overrides config)")
	flag.StringVar(&layoutName, "layout", "four-panel", "figure layout: four-panel or eight-panel")
	flag.BoolVar(&showTrials, "trials", false, "print one line per trial")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <session-id>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Println(version.String("trajectories"))
		return
	}
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	sessionID := flag.Arg(0)

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
	layout, err := session.LayoutByName(layoutName)
	if err != nil {
		log.Fatalf("layout: %v", err)
	}
	fsys := fsutil.OSFileSystem{}
	if outDir, err = security.EnsureOutputDir(fsys, outDir); err != nil {
		log.Fatalf("%v", err)
	}

	a := analysis.NewAnalyzer(session.NewDirLoader(dataDir), task.StrategyChangeIndex)
	a.Sentinel = cfg.GetCenterSentinel()

	rep, err := a.AnalyzeSession(context.Background(), sessionID)
	if err != nil {
		log.Fatalf("analyse %s: %v", sessionID, err)
	}

	paths, err := report.WriteTrajectoryFigures(fsys, outDir, rep, layout, cfg.GetCopilotPolicy(), exts)
	if err != nil {
		log.Fatalf("write figure: %v", err)
	}
	for _, p := range paths {
		log.Printf("wrote %s", p)
	}

	if showTrials {
		report.PrintTrials(os.Stdout, rep)
	}
	report.PrintSummary(os.Stdout, rep)
}
