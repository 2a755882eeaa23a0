package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRejectsInvalidFields(t *testing.T) {
	cases := map[string]struct {
		mutate  func(*Config)
		wantErr string
	}{
		"empty engine grpc":      {func(c *Config) { c.Engine.GRPC = "" }, "engine.grpc"},
		"empty engine http":      {func(c *Config) { c.Engine.HTTP = "" }, "engine.http"},
		"bad health path":        {func(c *Config) { c.Engine.HealthPath = "health" }, "must start"},
		"bad inference path":     {func(c *Config) { c.Engine.InferencePath = "inference" }, "must start"},
		"empty language":         {func(c *Config) { c.Engine.Language = "" }, "engine.language"},
		"zero engine timeout":    {func(c *Config) { c.Engine.TimeoutMS = 0 }, "engine.timeout_ms"},
		"zero sample rate":       {func(c *Config) { c.Audio.SampleRate = 0 }, "audio.sample_rate"},
		"negative energy":        {func(c *Config) { c.Audio.EnergyThreshold = -1 }, "audio.energy_threshold"},
		"zero silence":           {func(c *Config) { c.Audio.SilenceMS = 0 }, "audio.silence_ms"},
		"max utterance not past min": {
			func(c *Config) { c.Audio.MaxUtteranceMS = c.Audio.MinUtteranceMS }, "max_utterance_ms",
		},
		"negative preroll":      {func(c *Config) { c.Audio.PrerollMS = -1 }, "audio.preroll_ms"},
		"confidence above one":  {func(c *Config) { c.Commands.ConfidenceThreshold = 1.5 }, "confidence_threshold"},
		"confidence below zero": {func(c *Config) { c.Commands.ConfidenceThreshold = -0.1 }, "confidence_threshold"},
		"empty type cmd":        {func(c *Config) { c.Automation.TypeCmd.Argv = nil }, "automation.type_cmd"},
		"empty key cmd":         {func(c *Config) { c.Automation.KeyCmd.Argv = nil }, "automation.key_cmd"},
		"negative pause":        {func(c *Config) { c.Automation.PauseMS = -1 }, "automation.pause_ms"},
		"blank server host while enabled": {
			func(c *Config) { c.Server.Enable = true; c.Server.Host = " " }, "server.host",
		},
		"port out of range": {func(c *Config) { c.Server.Port = 0 }, "server.port"},
		"blank app name while notifying": {
			func(c *Config) { c.Notifications.Enable = true; c.Notifications.AppName = "" }, "notifications.app_name",
		},
		"negative error timeout": {func(c *Config) { c.Notifications.ErrorTimeoutMS = -1 }, "error_timeout"},
		"bad log level":          {func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)

			_, err := Validate(cfg)
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestValidateWarnsOnUnusualSampleRate(t *testing.T) {
	cfg := Default()
	cfg.Audio.SampleRate = 44100

	warnings, err := Validate(cfg)
	require.NoError(t, err)
	require.NotEmpty(t, warnings)
	require.Contains(t, warnings[0].Message, "sample_rate")
}

func TestValidateDefaultsAreClean(t *testing.T) {
	warnings, err := Validate(Default())
	require.NoError(t, err)
	require.Empty(t, warnings)
}
