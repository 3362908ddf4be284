package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/banshee-data/centerout/internal/task"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultsFileMatchesDefaults(t *testing.T) {
	cfg, err := LoadAnalysisConfig(filepath.Join("..", "..", DefaultConfigPath))
	require.NoError(t, err)

	if diff := cmp.Diff(DefaultAnalysisConfig(), cfg); diff != "" {
		t.Errorf("defaults file mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyConfigGetters(t *testing.T) {
	cfg := &AnalysisConfig{}

	assert.Equal(t, "/data/raspy", cfg.GetDataDir())
	assert.Equal(t, "figures", cfg.GetOutputDir())
	assert.Equal(t, "centerout.db", cfg.GetDBPath())
	assert.Equal(t, task.StrategyChangeIndex, cfg.GetStrategy())
	assert.Equal(t, task.CenterHold, cfg.GetCenterSentinel())
	assert.Equal(t, "four-panel", cfg.GetLayout().Name)
	assert.Equal(t, []string{"pdf"}, cfg.GetFormats())
	assert.Equal(t, 4, cfg.GetWorkers())
	assert.Equal(t, 10*time.Minute, cfg.GetBatchTimeout())
	assert.Equal(t, "copilot_ON", cfg.GetCopilotPolicy()(0).Title)
}

func TestLoadAnalysisConfig_Partial(t *testing.T) {
	path := writeConfig(t, "partial.json", `{
  "strategy": "center-transition",
  "formats": [".PNG", "pdf"],
  "workers": 8,
  "batch_timeout": "90s",
  "copilot_policy": "legacy"
}`)
	cfg, err := LoadAnalysisConfig(path)
	require.NoError(t, err)

	assert.Equal(t, task.StrategyCenterTransition, cfg.GetStrategy())
	// Layout follows the strategy when not set.
	assert.Equal(t, "eight-panel", cfg.GetLayout().Name)
	assert.Equal(t, []string{"png", "pdf"}, cfg.GetFormats())
	assert.Equal(t, 8, cfg.GetWorkers())
	assert.Equal(t, 90*time.Second, cfg.GetBatchTimeout())
	assert.Equal(t, "_", cfg.GetCopilotPolicy()(1).FileSuffix)
	assert.Equal(t, "/data/raspy", cfg.GetDataDir())
}

func TestLoadAnalysisConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"strategy", `{"strategy": "diagonal"}`, "strategy"},
		{"layout", `{"layout": "sixteen"}`, "layout"},
		{"policy", `{"copilot_policy": "always"}`, "copilot_policy"},
		{"workers", `{"workers": 0}`, "workers"},
		{"sentinel", `{"center_sentinel": 3}`, "center_sentinel"},
		{"format", `{"formats": ["gif"]}`, "format"},
		{"timeout", `{"batch_timeout": "soon"}`, "batch_timeout"},
		{"json", `{"workers": `, "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadAnalysisConfig(writeConfig(t, "c.json", tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadAnalysisConfig_FileChecks(t *testing.T) {
	_, err := LoadAnalysisConfig(writeConfig(t, "c.yaml", `{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".json extension")

	_, err = LoadAnalysisConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	big := writeConfig(t, "big.json", `{"data_dir": "`+strings.Repeat("x", maxConfigSize)+`"}`)
	_, err = LoadAnalysisConfig(big)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAnalysisConfig(), cfg)

	cfg, err = LoadOrDefault(writeConfig(t, "c.json", `{"db_path": "/tmp/x.db"}`))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.GetDBPath())
}
