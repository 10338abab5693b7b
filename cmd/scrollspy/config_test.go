package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinytelemetry/scrollspy/internal/model"
)

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	isolateHome(t)

	cfg, err := loadConfig(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, model.DefaultObserverConfig(), cfg.Observer)
	assert.Equal(t, model.DefaultSuppressDuration, cfg.SuppressDuration)
	assert.Equal(t, model.DefaultDeadZoneTop, cfg.ScrollOffset)
	assert.True(t, cfg.SmoothScroll)
	assert.Equal(t, model.DefaultSmoothFrames, cfg.SmoothFrames)
	assert.Equal(t, model.DefaultHeadingLevel, cfg.HeadingLevel)
	assert.Equal(t, model.DefaultCodeStyle, cfg.CodeStyle)
	assert.False(t, cfg.APIEnabled)
	assert.Equal(t, defaultAPIAddr, cfg.APIAddr)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigHomeFile(t *testing.T) {
	home := isolateHome(t)
	dir := filepath.Join(home, ".config", "scrollspy")
	require.NoError(t, os.MkdirAll(dir, 0755))
	writeConfig(t, dir, "dead-zone-top: 4\ndead-zone-bottom: 0.5\nsuppress-duration: 750ms\nsmooth-scroll: false\ncode-style: dracula\n")

	cfg, err := loadConfig(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Observer.DeadZoneTop)
	assert.InDelta(t, 0.5, cfg.Observer.DeadZoneBottomFraction, 1e-9)
	assert.Equal(t, 750*time.Millisecond, cfg.SuppressDuration)
	assert.False(t, cfg.SmoothScroll)
	assert.Equal(t, "dracula", cfg.CodeStyle)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	isolateHome(t)
	path := writeConfig(t, t.TempDir(), "scroll-offset: 3\napi-enabled: true\n")
	t.Setenv("SCROLLSPY_SCROLL_OFFSET", "6")
	t.Setenv("SCROLLSPY_API_ADDR", "127.0.0.1:9999")

	cfg, err := loadConfig(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.ScrollOffset)
	assert.True(t, cfg.APIEnabled)
	assert.Equal(t, "127.0.0.1:9999", cfg.APIAddr)
}

func TestLoadConfigFlagWins(t *testing.T) {
	isolateHome(t)
	t.Setenv("SCROLLSPY_HEADING_LEVEL", "3")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("heading-level", model.DefaultHeadingLevel, "")
	require.NoError(t, fs.Parse([]string{"--heading-level=1"}))

	v := viper.New()
	require.NoError(t, v.BindPFlag("heading-level", fs.Lookup("heading-level")))

	cfg, err := loadConfig(v, "")
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.HeadingLevel)
}

func TestLoadConfigExplicitFileMissing(t *testing.T) {
	isolateHome(t)

	_, err := loadConfig(viper.New(), filepath.Join(t.TempDir(), "absent.yml"))
	require.Error(t, err)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"negative dead zone":  "dead-zone-top: -1\n",
		"bottom fraction":     "dead-zone-bottom: 1.5\n",
		"negative suppress":   "suppress-duration: -1s\n",
		"negative offset":     "scroll-offset: -2\n",
		"zero frames":         "smooth-frames: 0\n",
		"heading level":       "heading-level: 7\n",
		"log level":           "log-level: chatty\n",
		"api without address": "api-enabled: true\napi-addr: \"\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			isolateHome(t)
			path := writeConfig(t, t.TempDir(), body)

			_, err := loadConfig(viper.New(), path)
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrInvalidArgument)
		})
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Version:    dev")
}

func TestRootRequiresFile(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	require.Error(t, cmd.Execute())
}
