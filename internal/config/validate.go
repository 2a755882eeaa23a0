package config

import (
	"fmt"
	"strings"
)

// Validate rejects configs that cannot drive the pipeline and reports soft
// problems, like unusual sample rates, as warnings.
func Validate(cfg Config) ([]Warning, error) {
	sections := []func(Config) error{
		validateEngine,
		validateAudio,
		validateCommands,
		validateAutomation,
		validateServer,
		validateNotifications,
		validateLogging,
	}
	for _, section := range sections {
		if err := section(cfg); err != nil {
			return nil, err
		}
	}

	warnings := make([]Warning, 0)
	if cfg.Audio.SampleRate != 16000 {
		warnings = append(warnings, Warning{Message: fmt.Sprintf("audio.sample_rate=%d; recognition engines are typically trained for 16000", cfg.Audio.SampleRate)})
	}
	return warnings, nil
}

func validateEngine(cfg Config) error {
	eng := cfg.Engine
	switch {
	case strings.TrimSpace(eng.GRPC) == "":
		return fmt.Errorf("engine.grpc must not be empty")
	case strings.TrimSpace(eng.HTTP) == "":
		return fmt.Errorf("engine.http must not be empty")
	case !strings.HasPrefix(strings.TrimSpace(eng.HealthPath), "/"):
		return fmt.Errorf("engine.health_path must start with '/'")
	case !strings.HasPrefix(strings.TrimSpace(eng.InferencePath), "/"):
		return fmt.Errorf("engine.inference_path must start with '/'")
	case strings.TrimSpace(eng.Language) == "":
		return fmt.Errorf("engine.language must not be empty")
	case eng.TimeoutMS <= 0:
		return fmt.Errorf("engine.timeout_ms must be > 0")
	}
	return nil
}

func validateAudio(cfg Config) error {
	audio := cfg.Audio
	switch {
	case audio.SampleRate <= 0:
		return fmt.Errorf("audio.sample_rate must be > 0")
	case audio.EnergyThreshold < 0:
		return fmt.Errorf("audio.energy_threshold must be >= 0")
	case audio.SilenceMS <= 0:
		return fmt.Errorf("audio.silence_ms must be > 0")
	case audio.MinUtteranceMS < 0:
		return fmt.Errorf("audio.min_utterance_ms must be >= 0")
	case audio.MaxUtteranceMS <= 0:
		return fmt.Errorf("audio.max_utterance_ms must be > 0")
	case audio.MaxUtteranceMS <= audio.MinUtteranceMS:
		return fmt.Errorf("audio.max_utterance_ms must be > audio.min_utterance_ms")
	case audio.PrerollMS < 0:
		return fmt.Errorf("audio.preroll_ms must be >= 0")
	}
	return nil
}

func validateCommands(cfg Config) error {
	if t := cfg.Commands.ConfidenceThreshold; t < 0 || t > 1 {
		return fmt.Errorf("commands.confidence_threshold must be within [0, 1]")
	}
	return nil
}

func validateAutomation(cfg Config) error {
	auto := cfg.Automation
	switch {
	case len(auto.TypeCmd.Argv) == 0:
		return fmt.Errorf("automation.type_cmd must not be empty")
	case len(auto.KeyCmd.Argv) == 0:
		return fmt.Errorf("automation.key_cmd must not be empty")
	case auto.PauseMS < 0:
		return fmt.Errorf("automation.pause_ms must be >= 0")
	}
	return nil
}

func validateServer(cfg Config) error {
	if cfg.Server.Enable && strings.TrimSpace(cfg.Server.Host) == "" {
		return fmt.Errorf("server.host must not be empty when server.enable=true")
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be within [1, 65535]")
	}
	return nil
}

func validateNotifications(cfg Config) error {
	if cfg.Notifications.Enable && strings.TrimSpace(cfg.Notifications.AppName) == "" {
		return fmt.Errorf("notifications.app_name must not be empty when notifications.enable=true")
	}
	if cfg.Notifications.ErrorTimeoutMS < 0 {
		return fmt.Errorf("notifications.error_timeout_ms must be >= 0")
	}
	return nil
}

func validateLogging(cfg Config) error {
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Level)) {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
}
