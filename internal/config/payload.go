package config

import (
	"fmt"
	"strings"
)

// filePayload mirrors the on-disk schema. Every field is a pointer so that
// absent keys leave the base configuration untouched; the same structs
// decode from both JSONC and YAML.
type filePayload struct {
	Engine        *enginePayload     `json:"engine" yaml:"engine"`
	Audio         *audioPayload      `json:"audio" yaml:"audio"`
	Commands      *commandsPayload   `json:"commands" yaml:"commands"`
	Automation    *automationPayload `json:"automation" yaml:"automation"`
	Server        *serverPayload     `json:"server" yaml:"server"`
	Notifications *notifyPayload     `json:"notifications" yaml:"notifications"`
	Logging       *loggingPayload    `json:"logging" yaml:"logging"`
}

type enginePayload struct {
	GRPC          *string `json:"grpc" yaml:"grpc"`
	HTTP          *string `json:"http" yaml:"http"`
	HealthPath    *string `json:"health_path" yaml:"health_path"`
	InferencePath *string `json:"inference_path" yaml:"inference_path"`
	Language      *string `json:"language" yaml:"language"`
	TimeoutMS     *int    `json:"timeout_ms" yaml:"timeout_ms"`
}

type audioPayload struct {
	Input           *string `json:"input" yaml:"input"`
	Fallback        *string `json:"fallback" yaml:"fallback"`
	SampleRate      *int    `json:"sample_rate" yaml:"sample_rate"`
	EnergyThreshold *int    `json:"energy_threshold" yaml:"energy_threshold"`
	SilenceMS       *int    `json:"silence_ms" yaml:"silence_ms"`
	MinUtteranceMS  *int    `json:"min_utterance_ms" yaml:"min_utterance_ms"`
	MaxUtteranceMS  *int    `json:"max_utterance_ms" yaml:"max_utterance_ms"`
	PrerollMS       *int    `json:"preroll_ms" yaml:"preroll_ms"`
}

type commandsPayload struct {
	ConfidenceThreshold *float64 `json:"confidence_threshold" yaml:"confidence_threshold"`
}

type automationPayload struct {
	TypeCmd *string `json:"type_cmd" yaml:"type_cmd"`
	KeyCmd  *string `json:"key_cmd" yaml:"key_cmd"`
	PauseMS *int    `json:"pause_ms" yaml:"pause_ms"`
}

type serverPayload struct {
	Enable     *bool   `json:"enable" yaml:"enable"`
	Host       *string `json:"host" yaml:"host"`
	Port       *int    `json:"port" yaml:"port"`
	EnableCORS *bool   `json:"enable_cors" yaml:"enable_cors"`
}

type notifyPayload struct {
	Enable         *bool   `json:"enable" yaml:"enable"`
	AppName        *string `json:"app_name" yaml:"app_name"`
	ErrorTimeoutMS *int    `json:"error_timeout_ms" yaml:"error_timeout_ms"`
}

type loggingPayload struct {
	Level *string `json:"level" yaml:"level"`
}

func (payload filePayload) applyTo(cfg *Config) error {
	if eng := payload.Engine; eng != nil {
		setTrimmed(&cfg.Engine.GRPC, eng.GRPC)
		setTrimmed(&cfg.Engine.HTTP, eng.HTTP)
		setTrimmed(&cfg.Engine.HealthPath, eng.HealthPath)
		setTrimmed(&cfg.Engine.InferencePath, eng.InferencePath)
		setTrimmed(&cfg.Engine.Language, eng.Language)
		set(&cfg.Engine.TimeoutMS, eng.TimeoutMS)
	}

	if audio := payload.Audio; audio != nil {
		set(&cfg.Audio.Input, audio.Input)
		set(&cfg.Audio.Fallback, audio.Fallback)
		set(&cfg.Audio.SampleRate, audio.SampleRate)
		set(&cfg.Audio.EnergyThreshold, audio.EnergyThreshold)
		set(&cfg.Audio.SilenceMS, audio.SilenceMS)
		set(&cfg.Audio.MinUtteranceMS, audio.MinUtteranceMS)
		set(&cfg.Audio.MaxUtteranceMS, audio.MaxUtteranceMS)
		set(&cfg.Audio.PrerollMS, audio.PrerollMS)
	}

	if cmds := payload.Commands; cmds != nil {
		set(&cfg.Commands.ConfidenceThreshold, cmds.ConfidenceThreshold)
	}

	if auto := payload.Automation; auto != nil {
		if err := setCommand(&cfg.Automation.TypeCmd, auto.TypeCmd, "automation.type_cmd"); err != nil {
			return err
		}
		if err := setCommand(&cfg.Automation.KeyCmd, auto.KeyCmd, "automation.key_cmd"); err != nil {
			return err
		}
		set(&cfg.Automation.PauseMS, auto.PauseMS)
	}

	if srv := payload.Server; srv != nil {
		set(&cfg.Server.Enable, srv.Enable)
		setTrimmed(&cfg.Server.Host, srv.Host)
		set(&cfg.Server.Port, srv.Port)
		set(&cfg.Server.EnableCORS, srv.EnableCORS)
	}

	if notif := payload.Notifications; notif != nil {
		set(&cfg.Notifications.Enable, notif.Enable)
		setTrimmed(&cfg.Notifications.AppName, notif.AppName)
		set(&cfg.Notifications.ErrorTimeoutMS, notif.ErrorTimeoutMS)
	}

	if logp := payload.Logging; logp != nil && logp.Level != nil {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*logp.Level))
	}

	return nil
}

// set copies src over dst when the key was present in the file.
func set[T any](dst, src *T) {
	if src != nil {
		*dst = *src
	}
}

// setTrimmed is set for string fields that should not keep stray whitespace.
func setTrimmed(dst, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// setCommand parses a command string into argv form when present.
func setCommand(dst *CommandConfig, src *string, field string) error {
	if src == nil {
		return nil
	}
	argv, err := parseArgv(*src)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", field, err)
	}
	*dst = CommandConfig{Raw: *src, Argv: argv}
	return nil
}
