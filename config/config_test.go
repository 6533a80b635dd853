package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/frontier/tree"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "frontier.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, tree.DefaultParams(), cfg.TreeParams())
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 400, cfg.StepSize)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
workers: 8
step_size: 120
max_iterations: 5000
seed: 42
wander: 0.1
tree:
  switch_to_best: 0.75
  maintenance_period: 250
  max_indexed: 4096
walk:
  wall_density: 0.35
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 120, cfg.StepSize)
	assert.Equal(t, int64(5000), cfg.MaxIterations)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 0.1, cfg.Wander)
	assert.Equal(t, 0.75, cfg.Tree.SwitchToBest)
	assert.Equal(t, 250, cfg.Tree.MaintenancePeriod)
	assert.Equal(t, 4096, cfg.Tree.MaxIndexed)
	assert.Equal(t, 0.35, cfg.WalkParams().WallDensity)

	// Unset keys keep their defaults.
	def := tree.DefaultParams()
	assert.Equal(t, def.DescendStop, cfg.Tree.DescendStop)
	assert.Equal(t, def.RankAdvance, cfg.Tree.RankAdvance)
	assert.Equal(t, Default().Walk.NoveltyWeight, cfg.Walk.NoveltyWeight)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "workers: 8\nstep_size: 120\n")
	t.Setenv("FRONTIER_WORKERS", "3")
	t.Setenv("FRONTIER_RANK_ADVANCE", "0.5")
	t.Setenv("FRONTIER_SEED", "9")
	t.Setenv("FRONTIER_MAX_ITERATIONS", "77")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 120, cfg.StepSize)
	assert.Equal(t, 0.5, cfg.Tree.RankAdvance)
	assert.Equal(t, uint64(9), cfg.Seed)
	assert.Equal(t, int64(77), cfg.MaxIterations)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		env     map[string]string
		invalid bool
	}{
		{name: "zero workers", file: "workers: 0\n", invalid: true},
		{name: "probability above one", file: "tree:\n  descend_stop: 1.5\n", invalid: true},
		{name: "negative wander", file: "wander: -0.1\n", invalid: true},
		{name: "wall density one", file: "walk:\n  wall_density: 1\n", invalid: true},
		{name: "negative maintenance period", env: map[string]string{"FRONTIER_MAINTENANCE_PERIOD": "-1"}, invalid: true},
		{name: "malformed yaml", file: "workers: [\n"},
		{name: "malformed env", env: map[string]string{"FRONTIER_STEP_SIZE": "many"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfig(t, tt.file)
			}
			_, err := Load(path)
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NotErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	cfg := Default()
	cfg.MaxIterations = 10
	assert.Len(t, cfg.Options(), 5)
}
