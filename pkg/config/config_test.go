package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeFoldsSingularStage(t *testing.T) {
	cfg := &Config{
		Stage: &Stage{Name: "prod", Type: StageTypeRemote, Hostname: "web-1"},
	}
	require.NoError(t, cfg.Normalize())
	require.Nil(t, cfg.Stage)
	require.Contains(t, cfg.Stages, "prod")
	require.Equal(t, "web-1", cfg.Stages["prod"].Hostname)
}

func TestNormalizeSingularStageWithoutName(t *testing.T) {
	cfg := &Config{Stage: &Stage{Type: StageTypeLocal}}
	require.NoError(t, cfg.Normalize())
	require.Contains(t, cfg.Stages, DefaultStageName)
}

func TestNormalizeRejectsSingularAndPluralStage(t *testing.T) {
	cfg := &Config{
		Stage:  &Stage{Name: "prod"},
		Stages: map[string]*Stage{"prod": {Type: StageTypeLocal}},
	}
	require.Error(t, cfg.Normalize())
}

func TestNormalizeBackfillsNamesAndDefaults(t *testing.T) {
	cfg := &Config{
		Stages: map[string]*Stage{"dev": {}},
	}
	require.NoError(t, cfg.Normalize())
	require.Equal(t, "dev", cfg.Stages["dev"].Name)
	require.Equal(t, StageTypeLocal, cfg.Stages["dev"].Type)
}

func TestNormalizeSynthesizesDefaultLocalStage(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Normalize())
	stage, ok := cfg.GetStage(DefaultStageName)
	require.True(t, ok)
	require.Equal(t, StageTypeLocal, stage.Type)
	require.False(t, stage.IsRemote())
}

func TestNormalizeRejectsRemoteStageWithoutHostname(t *testing.T) {
	cfg := &Config{
		Stages: map[string]*Stage{"prod": {Type: StageTypeRemote}},
	}
	require.Error(t, cfg.Normalize())
}

func TestNormalizeRejectsUnknownStageType(t *testing.T) {
	cfg := &Config{
		Stages: map[string]*Stage{"prod": {Type: "cloud"}},
	}
	require.Error(t, cfg.Normalize())
}

func TestNormalizeFoldsSingularStack(t *testing.T) {
	cfg := &Config{Stack: &Stack{Name: "app", File: "compose.yaml"}}
	require.NoError(t, cfg.Normalize())
	require.Nil(t, cfg.Stack)
	require.Equal(t, "compose.yaml", cfg.Stacks["app"].File)
}

func TestStageHosts(t *testing.T) {
	stage := &Stage{Hostname: "web-1", Hostnames: []string{"web-2", "web-3"}}
	require.Equal(t, []string{"web-1", "web-2", "web-3"}, stage.Hosts())
}

func TestDefaultStage(t *testing.T) {
	cfg := &Config{Stages: map[string]*Stage{"only": {Type: StageTypeLocal}}}
	require.NoError(t, cfg.Normalize())
	stage, err := cfg.DefaultStage()
	require.NoError(t, err)
	require.Equal(t, "only", stage.Name)

	cfg = &Config{Stages: map[string]*Stage{
		"default": {Type: StageTypeLocal},
		"prod":    {Type: StageTypeRemote, Hostname: "web-1"},
	}}
	require.NoError(t, cfg.Normalize())
	stage, err = cfg.DefaultStage()
	require.NoError(t, err)
	require.Equal(t, DefaultStageName, stage.Name)

	cfg = &Config{Stages: map[string]*Stage{
		"dev":  {Type: StageTypeLocal},
		"prod": {Type: StageTypeRemote, Hostname: "web-1"},
	}}
	require.NoError(t, cfg.Normalize())
	_, err = cfg.DefaultStage()
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kittools.yaml")
	content := `
stages:
  dev:
    type: local
  prod:
    type: remote
    hostname: web-1
    hostnames: [web-2]
    ssh_config: deploy/ssh_config
    basedir: /srv/app
stacks:
  app:
    file: compose.yaml
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, path, cfg.Path)
	require.Equal(t, []string{"dev", "prod"}, cfg.StageNames())
	require.Equal(t, []string{"app"}, cfg.StackNames())

	prod, ok := cfg.GetStage("prod")
	require.True(t, ok)
	require.True(t, prod.IsRemote())
	require.Equal(t, []string{"web-1", "web-2"}, prod.Hosts())
	require.Equal(t, "/srv/app", prod.Basedir)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
