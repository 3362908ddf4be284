// Command centerout8 segments a session on center-to-target transitions
// and draws one panel per target.
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
		legacy      bool
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "path to analysis config JSON (defaults when empty)")
	flag.StringVar(&dataDir, "data", "", "directory holding session directories (overrides config)")
	flag.StringVar(&outDir, "out", "", "directory figures are written to (overrides config)")
	flag.StringVar(&formats, "formats", "", "comma-separated figure formats (overrides config)")
	flag.BoolVar(&legacy, "legacy-labels", false, "leave the copilot label empty when the copilot is off")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <session-id>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Println(version.String("centerout8"))
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
	policy := cfg.GetCopilotPolicy()
	if legacy {
		policy = session.CopilotOnWhenZeroLegacy
	}
	fsys := fsutil.OSFileSystem{}
	if outDir, err = security.EnsureOutputDir(fsys, outDir); err != nil {
		log.Fatalf("%v", err)
	}

	a := analysis.NewAnalyzer(session.NewDirLoader(dataDir), task.StrategyCenterTransition)
	a.Sentinel = cfg.GetCenterSentinel()

	rep, err := a.AnalyzeSession(context.Background(), sessionID)
	if err != nil {
		log.Fatalf("analyse %s: %v", sessionID, err)
	}

	counts := task.CountByTarget(rep.Trials)
	for _, code := range task.TargetCodes {
		log.Printf("%-9s %d trials", task.TargetName(code), counts[code])
	}

	paths, err := report.WriteTrajectoryFigures(fsys, outDir, rep, session.EightPanelLayout(), policy, exts)
	if err != nil {
		log.Fatalf("write figure: %v", err)
	}
	for _, p := range paths {
		log.Printf("wrote %s", p)
	}
	report.PrintSummary(os.Stdout, rep)
}
