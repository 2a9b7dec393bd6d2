package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	want := &Config{
		ServerURL:           "http://127.0.0.1:8000",
		HealthAddr:          "127.0.0.1:50051",
		StateDBPath:         "jobportal.db",
		DownloadDir:         "downloads",
		OnlineCheckInterval: 5 * time.Second,
	}
	assert.Empty(t, cmp.Diff(want, defaults()))
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Setenv("JOBPORTAL_CONFIG", "")

	path := writeTempJSON(t, "", "", map[string]any{
		"server_url":            "http://json:8000",
		"download_dir":          "/tmp/dl",
		"online_check_interval": "30s",
	})
	os.Args = []string{"cli", "-c", path, "-a", "http://flag:9000", "-v", "jobs"}

	cfg := LoadConfig()

	want := defaults()
	want.ServerURL = "http://flag:9000"
	want.DownloadDir = "/tmp/dl"
	want.OnlineCheckInterval = 30 * time.Second
	want.Verbose = true
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd", "-a", "http://10.0.0.1:8000", "-g", "10.0.0.1:50051", "-d", "state.db", "-o", "out", "-i", "10", "-v"},
			expected: &Config{
				ServerURL: "http://10.0.0.1:8000", HealthAddr: "10.0.0.1:50051", StateDBPath: "state.db",
				DownloadDir: "out", OnlineCheckInterval: 10 * time.Second, Verbose: true,
			},
		},
		{
			name:     "unknown args ignored",
			args:     []string{"cmd", "login", "-x", "1", "-i", "2"},
			expected: func() *Config { c := defaults(); c.OnlineCheckInterval = 2 * time.Second; return c }(),
		},
		{name: "incorrect check interval", args: []string{"cmd", "-i", "abc"}, expectPanic: true},
		{name: "zero check interval", args: []string{"cmd", "-i", "0"}, expectPanic: true},
		{name: "negative check interval", args: []string{"cmd", "-i", "-3"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			cfg := defaults()

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg) })
				return
			}
			require.NotPanics(t, func() { parseFlags(cfg) })
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}

func TestLoadConfig_SubSecondIntervalFromJSON(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Setenv("JOBPORTAL_CONFIG", "")

	for _, tc := range []struct {
		value string
		want  time.Duration
	}{
		{"500ms", 500 * time.Millisecond},
		{"1500ms", 1500 * time.Millisecond},
	} {
		t.Run(tc.value, func(t *testing.T) {
			path := writeTempJSON(t, "", "", map[string]any{"online_check_interval": tc.value})
			os.Args = []string{"cli", "-c", path, "-a", "http://flag:9000"}

			cfg := LoadConfig()
			assert.Equal(t, tc.want, cfg.OnlineCheckInterval)
		})
	}
}
