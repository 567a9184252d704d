package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cpt/internal/transport"
	"cpt/pkg/configutil"
	"cpt/pkg/osutil"

	"github.com/stretchr/testify/require"
)

const sampleConfig = `{
	// comments are allowed
	codeforces: {
		api_key: "file-key",
		limits: {permits: 3, period: "1s"},
	},
	leetcode: {base_url: "https://leetcode.cn/"},
	transport: {
		retry_interval: "500ms",
		max_retries: 5,
		timeout: "10s",
	},
}`

func TestLoadMergesLocalAndEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(sampleConfig), 0644))
	require.NoError(t, configutil.WriteConfig(filepath.Join(dir, configutil.LocalName(FileName)), Config{
		Codeforces: Codeforces{ApiSecret: "local-secret"},
	}))

	t.Setenv(EnvAocSession, "env-session")
	t.Setenv(EnvCodeforcesApiKey, "")

	var cfg Config
	err := osutil.InDir(dir, func() error {
		var err error
		cfg, err = Load()
		return err
	})
	require.NoError(t, err)

	require.Equal(t, "file-key", cfg.Codeforces.ApiKey)
	require.Equal(t, "local-secret", cfg.Codeforces.ApiSecret)
	require.Equal(t, "env-session", cfg.AdventOfCode.Session)
	require.Equal(t, "https://leetcode.cn/", cfg.Leetcode.BaseUrl)

	opts, err := cfg.CodeforcesOptions()
	require.NoError(t, err)
	require.Equal(t, transport.Limits{Permits: 3, Period: time.Second}, opts.Transport.Limits)
	require.Equal(t, 500*time.Millisecond, opts.Transport.RetryInterval)
	require.Equal(t, 5, opts.Transport.MaxRetries)
	require.Equal(t, 10*time.Second, opts.Transport.Timeout)
	require.Equal(t, "file-key", opts.ApiKey)

	aoc, err := cfg.AdventOfCodeOptions()
	require.NoError(t, err)
	require.Equal(t, "env-session", aoc.Session)
	require.Equal(t, transport.Limits{}, aoc.Transport.Limits)
}

func TestLoadWithoutFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvCodeforcesApiKey, "k")
	t.Setenv(EnvCodeforcesApiSecret, "s")

	var cfg Config
	err := osutil.InDir(dir, func() error {
		var err error
		cfg, err = Load()
		return err
	})
	require.NoError(t, err)
	require.Equal(t, "k", cfg.Codeforces.ApiKey)
	require.Equal(t, "s", cfg.Codeforces.ApiSecret)
}

func TestInvalidDurations(t *testing.T) {
	_, err := Config{Transport: Transport{Timeout: "soon"}}.CsesOptions()
	require.Error(t, err)

	_, err = Config{Leetcode: Site{Limits: Limits{Permits: 1}}}.LeetcodeOptions()
	require.Error(t, err)

	_, err = Config{Cses: Site{Limits: Limits{Permits: 0, Period: "1s"}}}.CsesOptions()
	require.Error(t, err)
}
