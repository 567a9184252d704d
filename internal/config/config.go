// Package config is the cpt.json5 schema and its translation into client
// options.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"cpt/internal/components/telemetry"
	"cpt/internal/scrapers/adventofcode"
	"cpt/internal/scrapers/codeforces"
	"cpt/internal/scrapers/cses"
	"cpt/internal/scrapers/leetcode"
	"cpt/internal/transport"
	"cpt/pkg/configutil"
)

const FileName = "cpt.json5"

const (
	EnvCodeforcesApiKey    = "CPT_CODEFORCES_API_KEY"
	EnvCodeforcesApiSecret = "CPT_CODEFORCES_API_SECRET"
	EnvAocSession          = "CPT_AOC_SESSION"
)

type Limits struct {
	Permits int `json:"permits,omitempty"`
	// Period is a duration string, ex. "2s".
	Period string `json:"period,omitempty"`
}

type Site struct {
	BaseUrl string `json:"base_url,omitempty"`
	Limits  Limits `json:"limits,omitempty"`
}

type Codeforces struct {
	BaseUrl   string `json:"base_url,omitempty"`
	PageUrl   string `json:"page_url,omitempty"`
	ApiKey    string `json:"api_key,omitempty"`
	ApiSecret string `json:"api_secret,omitempty"`
	Limits    Limits `json:"limits,omitempty"`
}

type AdventOfCode struct {
	BaseUrl string `json:"base_url,omitempty"`
	Session string `json:"session,omitempty"`
	Limits  Limits `json:"limits,omitempty"`
}

type Transport struct {
	RetryInterval    string `json:"retry_interval,omitempty"`
	MaxRetries       int    `json:"max_retries,omitempty"`
	Timeout          string `json:"timeout,omitempty"`
	UserAgent        string `json:"user_agent,omitempty"`
	BypassCloudflare bool   `json:"bypass_cloudflare,omitempty"`
}

type Config struct {
	Codeforces   Codeforces           `json:"codeforces,omitempty"`
	Leetcode     Site                 `json:"leetcode,omitempty"`
	Cses         Site                 `json:"cses,omitempty"`
	AdventOfCode AdventOfCode         `json:"adventofcode,omitempty"`
	Transport    Transport            `json:"transport,omitempty"`
	Otlp         telemetry.OtlpConfig `json:"otlp,omitempty"`
}

// Load reads .env, then the closest cpt.json5 (and its local overrides) and
// finally lets the environment override secrets. A missing config file is
// not an error.
func Load() (Config, error) {
	err := configutil.LoadDotenv()
	if err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg, err := configutil.ReadRecursively[Config](FileName)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvCodeforcesApiKey); ok && v != "" {
		c.Codeforces.ApiKey = v
	}
	if v, ok := lookup(EnvCodeforcesApiSecret); ok && v != "" {
		c.Codeforces.ApiSecret = v
	}
	if v, ok := lookup(EnvAocSession); ok && v != "" {
		c.AdventOfCode.Session = v
	}
}

func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: negative duration %s", field, value)
	}
	return d, nil
}

// Transport is the zero value when unset so clients fall back to their own
// defaults.
func (l Limits) Transport() (transport.Limits, error) {
	if l.Permits == 0 && l.Period == "" {
		return transport.Limits{}, nil
	}
	period, err := parseDuration("limits.period", l.Period)
	if err != nil {
		return transport.Limits{}, err
	}
	if l.Permits <= 0 || period == 0 {
		return transport.Limits{}, fmt.Errorf("limits: permits and period must both be positive, got %d per %q", l.Permits, l.Period)
	}
	return transport.Limits{Permits: l.Permits, Period: period}, nil
}

func (c Config) transportOptions(baseUrl string, limits Limits) (transport.Options, error) {
	l, err := limits.Transport()
	if err != nil {
		return transport.Options{}, err
	}
	retryInterval, err := parseDuration("transport.retry_interval", c.Transport.RetryInterval)
	if err != nil {
		return transport.Options{}, err
	}
	timeout, err := parseDuration("transport.timeout", c.Transport.Timeout)
	if err != nil {
		return transport.Options{}, err
	}
	return transport.Options{
		BaseUrl:          baseUrl,
		Limits:           l,
		RetryInterval:    retryInterval,
		MaxRetries:       c.Transport.MaxRetries,
		Timeout:          timeout,
		UserAgent:        c.Transport.UserAgent,
		BypassCloudflare: c.Transport.BypassCloudflare,
	}, nil
}

func (c Config) CodeforcesOptions() (codeforces.Options, error) {
	opts, err := c.transportOptions(c.Codeforces.BaseUrl, c.Codeforces.Limits)
	if err != nil {
		return codeforces.Options{}, fmt.Errorf("codeforces: %w", err)
	}
	return codeforces.Options{
		Transport: opts,
		PageUrl:   c.Codeforces.PageUrl,
		ApiKey:    c.Codeforces.ApiKey,
		ApiSecret: c.Codeforces.ApiSecret,
	}, nil
}

func (c Config) LeetcodeOptions() (leetcode.Options, error) {
	opts, err := c.transportOptions(c.Leetcode.BaseUrl, c.Leetcode.Limits)
	if err != nil {
		return leetcode.Options{}, fmt.Errorf("leetcode: %w", err)
	}
	return leetcode.Options{Transport: opts}, nil
}

func (c Config) CsesOptions() (cses.Options, error) {
	opts, err := c.transportOptions(c.Cses.BaseUrl, c.Cses.Limits)
	if err != nil {
		return cses.Options{}, fmt.Errorf("cses: %w", err)
	}
	return cses.Options{Transport: opts}, nil
}

func (c Config) AdventOfCodeOptions() (adventofcode.Options, error) {
	opts, err := c.transportOptions(c.AdventOfCode.BaseUrl, c.AdventOfCode.Limits)
	if err != nil {
		return adventofcode.Options{}, fmt.Errorf("adventofcode: %w", err)
	}
	return adventofcode.Options{Transport: opts, Session: c.AdventOfCode.Session}, nil
}
