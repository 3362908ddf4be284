package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/banshee-data/centerout/internal/session"
	"github.com/banshee-data/centerout/internal/task"
)

// DefaultConfigPath is the path to the canonical analysis defaults file.
const DefaultConfigPath = "config/analysis.defaults.json"

const maxConfigSize = 1 * 1024 * 1024 // 1MB

// AnalysisConfig is the configuration shared by the command-line tools.
// Every field is optional; the Get* methods supply defaults, and flags
// given on the command line override both.
type AnalysisConfig struct {
	DataDir   *string `json:"data_dir,omitempty"`
	OutputDir *string `json:"output_dir,omitempty"`
	DBPath    *string `json:"db_path,omitempty"`

	// Segmentation
	Strategy       *string `json:"strategy,omitempty"`
	CenterSentinel *int    `json:"center_sentinel,omitempty"`

	// Figures
	Layout        *string  `json:"layout,omitempty"`
	CopilotPolicy *string  `json:"copilot_policy,omitempty"`
	Formats       []string `json:"formats,omitempty"`

	// Batch
	Workers      *int    `json:"workers,omitempty"`
	BatchTimeout *string `json:"batch_timeout,omitempty"` // duration string like "10m"
}

func ptrString(v string) *string { return &v }
func ptrInt(v int) *int          { return &v }

// DefaultAnalysisConfig returns a config with every field set to its
// default.
func DefaultAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		DataDir:        ptrString("/data/raspy"),
		OutputDir:      ptrString("figures"),
		DBPath:         ptrString("centerout.db"),
		Strategy:       ptrString(task.StrategyChangeIndex.String()),
		CenterSentinel: ptrInt(task.CenterHold),
		Layout:         ptrString("four-panel"),
		CopilotPolicy:  ptrString("on-when-zero"),
		Formats:        []string{"pdf"},
		Workers:        ptrInt(4),
		BatchTimeout:   ptrString("10m"),
	}
}

// LoadAnalysisConfig loads an AnalysisConfig from a JSON file. The file must
// have a .json extension and be under 1MB. Omitted fields keep falling back
// to the defaults.
func LoadAnalysisConfig(path string) (*AnalysisConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &AnalysisConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads path when it is set, otherwise returns the defaults.
func LoadOrDefault(path string) (*AnalysisConfig, error) {
	if path == "" {
		return DefaultAnalysisConfig(), nil
	}
	return LoadAnalysisConfig(path)
}

// Validate checks the values that are set.
func (c *AnalysisConfig) Validate() error {
	if c.Strategy != nil {
		if _, err := task.ParseStrategy(*c.Strategy); err != nil {
			return err
		}
	}
	if c.Layout != nil {
		if _, err := session.LayoutByName(*c.Layout); err != nil {
			return err
		}
	}
	if c.CopilotPolicy != nil {
		if _, ok := session.CopilotPolicyByName(*c.CopilotPolicy); !ok {
			return fmt.Errorf("unknown copilot_policy %q", *c.CopilotPolicy)
		}
	}
	if c.Workers != nil && *c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", *c.Workers)
	}
	if c.CenterSentinel != nil {
		if _, ok := task.DenseIndex(*c.CenterSentinel); ok {
			return fmt.Errorf("center_sentinel %d collides with a target code", *c.CenterSentinel)
		}
	}
	for _, f := range c.Formats {
		if !validFormat(f) {
			return fmt.Errorf("unsupported figure format %q", f)
		}
	}
	if c.BatchTimeout != nil && *c.BatchTimeout != "" {
		if _, err := time.ParseDuration(*c.BatchTimeout); err != nil {
			return fmt.Errorf("invalid batch_timeout '%s': %w", *c.BatchTimeout, err)
		}
	}
	return nil
}

func validFormat(f string) bool {
	switch strings.ToLower(strings.TrimPrefix(f, ".")) {
	case "pdf", "png", "svg":
		return true
	}
	return false
}

// GetDataDir returns the root directory holding session directories.
func (c *AnalysisConfig) GetDataDir() string {
	if c.DataDir == nil || *c.DataDir == "" {
		return "/data/raspy"
	}
	return *c.DataDir
}

// GetOutputDir returns the directory figures and reports are written to.
func (c *AnalysisConfig) GetOutputDir() string {
	if c.OutputDir == nil || *c.OutputDir == "" {
		return "figures"
	}
	return *c.OutputDir
}

// GetDBPath returns the SQLite database path.
func (c *AnalysisConfig) GetDBPath() string {
	if c.DBPath == nil || *c.DBPath == "" {
		return "centerout.db"
	}
	return *c.DBPath
}

// GetStrategy returns the segmentation strategy.
func (c *AnalysisConfig) GetStrategy() task.Strategy {
	if c.Strategy == nil {
		return task.StrategyChangeIndex
	}
	s, err := task.ParseStrategy(*c.Strategy)
	if err != nil {
		return task.StrategyChangeIndex
	}
	return s
}

// GetCenterSentinel returns the center-hold state value.
func (c *AnalysisConfig) GetCenterSentinel() int {
	if c.CenterSentinel == nil {
		return task.CenterHold
	}
	return *c.CenterSentinel
}

// GetLayout returns the figure layout, falling back to the one the
// strategy's figures use.
func (c *AnalysisConfig) GetLayout() *session.Layout {
	if c.Layout == nil || *c.Layout == "" {
		return session.LayoutForStrategy(c.GetStrategy())
	}
	l, err := session.LayoutByName(*c.Layout)
	if err != nil {
		return session.LayoutForStrategy(c.GetStrategy())
	}
	return l
}

// GetCopilotPolicy returns the copilot label policy.
func (c *AnalysisConfig) GetCopilotPolicy() session.CopilotPolicy {
	if c.CopilotPolicy != nil {
		if p, ok := session.CopilotPolicyByName(*c.CopilotPolicy); ok {
			return p
		}
	}
	return session.CopilotOnWhenZero
}

// GetFormats returns the figure formats, without leading dots.
func (c *AnalysisConfig) GetFormats() []string {
	if len(c.Formats) == 0 {
		return []string{"pdf"}
	}
	out := make([]string, 0, len(c.Formats))
	for _, f := range c.Formats {
		out = append(out, strings.ToLower(strings.TrimPrefix(f, ".")))
	}
	return out
}

// GetWorkers returns the batch worker count.
func (c *AnalysisConfig) GetWorkers() int {
	if c.Workers == nil {
		return 4
	}
	return *c.Workers
}

// GetBatchTimeout returns the batch deadline, or 0 for none.
func (c *AnalysisConfig) GetBatchTimeout() time.Duration {
	if c.BatchTimeout == nil || *c.BatchTimeout == "" {
		return 10 * time.Minute
	}
	d, err := time.ParseDuration(*c.BatchTimeout)
	if err != nil {
		return 10 * time.Minute
	}
	return d
}
