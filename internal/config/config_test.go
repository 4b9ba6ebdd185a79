package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSettings struct {
	Addr    string        `mapstructure:"addr"`
	Timeout time.Duration `mapstructure:"timeout"`
	Log     struct {
		Level string `mapstructure:"level"`
		Keep  int    `mapstructure:"keep"`
	} `mapstructure:"log"`
}

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("addr", ":8080", "")
	fs.Duration("timeout", time.Second, "")
	fs.String("log-level", "info", "")
	return fs
}

var testKeys = map[string]string{
	"addr":      "addr",
	"timeout":   "timeout",
	"log-level": "log.level",
}

func TestLoad_Precedence(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		env         map[string]string
		file        string
		wantAddr    string
		wantLevel   string
		wantTimeout time.Duration
	}{
		{
			name:        "flag defaults",
			wantAddr:    ":8080",
			wantLevel:   "info",
			wantTimeout: time.Second,
		},
		{
			name:        "environment overrides defaults",
			env:         map[string]string{"TEST_ADDR": ":9000", "TEST_LOG_LEVEL": "debug", "TEST_TIMEOUT": "5s"},
			wantAddr:    ":9000",
			wantLevel:   "debug",
			wantTimeout: 5 * time.Second,
		},
		{
			name:        "explicit flag overrides environment",
			args:        []string{"--addr", ":7000"},
			env:         map[string]string{"TEST_ADDR": ":9000"},
			wantAddr:    ":7000",
			wantLevel:   "info",
			wantTimeout: time.Second,
		},
		{
			name:        "file overrides defaults",
			file:        "addr: \":6000\"\nlog:\n  level: warn\n",
			wantAddr:    ":6000",
			wantLevel:   "warn",
			wantTimeout: time.Second,
		},
		{
			name:        "environment overrides file",
			file:        "addr: \":6000\"\n",
			env:         map[string]string{"TEST_ADDR": ":9000"},
			wantAddr:    ":9000",
			wantLevel:   "info",
			wantTimeout: time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, val := range tt.env {
				t.Setenv(k, val)
			}

			fs := newFlags()
			require.NoError(t, fs.Parse(tt.args))

			v := New("TEST")
			require.NoError(t, BindFlags(v, fs, testKeys))

			var path string
			if tt.file != "" {
				path = filepath.Join(t.TempDir(), "config.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.file), 0o600))
			}

			var got testSettings
			got.Log.Keep = 3
			require.NoError(t, Load(v, path, &got))

			assert.Equal(t, tt.wantAddr, got.Addr)
			assert.Equal(t, tt.wantLevel, got.Log.Level)
			assert.Equal(t, tt.wantTimeout, got.Timeout)
			assert.Equal(t, 3, got.Log.Keep, "unset fields keep their values")
		})
	}
}

func TestBindFlags_UnknownFlag(t *testing.T) {
	err := BindFlags(New("TEST"), newFlags(), map[string]string{"missing": "missing"})
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	var got testSettings
	err := Load(New("TEST"), filepath.Join(t.TempDir(), "nope.yaml"), &got)
	assert.Error(t, err)
}
