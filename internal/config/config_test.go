package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8082", cfg.Addr())
	assert.Equal(t, []string{"*"}, cfg.AllowOrigins)
	assert.Equal(t, "keywords.xlsx", cfg.Keywords.File)
	assert.Equal(t, 30*time.Second, cfg.Catalog.Timeout)

	opt := cfg.Options()
	assert.Equal(t, 70.0, opt.ProductMin)
	assert.Equal(t, 20, opt.MaxCandidates)
	assert.Equal(t, 3*time.Second, opt.RowTimeout)
	assert.Equal(t, "levenshtein", opt.Metric)
	assert.Equal(t, 100, opt.Fallback.PrefixLimit)
	assert.Equal(t, 5*time.Second, opt.Fallback.ItemTimeout)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "brandmatch.yaml")
	yaml := "port: 9000\nmatching:\n  metric: damerau\n  workers: 4\ncatalog:\n  url: http://sheets.local/export\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("BRANDMATCH_MATCHING_ROW_TIMEOUT", "750ms")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "damerau", cfg.Matching.Metric)
	assert.Equal(t, 4, cfg.Matching.Workers)
	assert.Equal(t, "http://sheets.local/export", cfg.Catalog.URL)
	assert.Equal(t, 750*time.Millisecond, cfg.Matching.RowTimeout)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	chdir(t, t.TempDir())
	base, err := Load("")
	require.NoError(t, err)

	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"weights", func(c *Config) { c.Matching.WeightColor = 0.3 }},
		{"fallback weights", func(c *Config) { c.Fallback.WeightSize = 0 }},
		{"row timeout", func(c *Config) { c.Matching.RowTimeout = 0 }},
		{"item timeout", func(c *Config) { c.Fallback.ItemTimeout = -time.Second }},
		{"metric", func(c *Config) { c.Matching.Metric = "cosine" }},
		{"port", func(c *Config) { c.Port = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := base
			tc.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
	assert.NoError(t, base.Validate())
}
