// Package config loads the serenade runtime configuration: path resolution,
// JSONC/YAML parsing, defaulting, and validation.
package config

// Config is the fully materialized runtime configuration used by serenade.
type Config struct {
	Engine        EngineConfig
	Audio         AudioConfig
	Commands      CommandsConfig
	Automation    AutomationConfig
	Server        ServerConfig
	Notifications NotifyConfig
	Logging       LoggingConfig
}

// EngineConfig locates the speech-recognition sidecar and sets request hints.
type EngineConfig struct {
	GRPC          string
	HTTP          string
	HealthPath    string
	InferencePath string
	Language      string
	TimeoutMS     int
}

// AudioConfig controls input-source selection and utterance segmentation.
type AudioConfig struct {
	Input           string
	Fallback        string
	SampleRate      int
	EnergyThreshold int
	SilenceMS       int
	MinUtteranceMS  int
	MaxUtteranceMS  int
	PrerollMS       int
}

// CommandsConfig controls transcript acceptance ahead of command dispatch.
type CommandsConfig struct {
	ConfidenceThreshold float64
}

// AutomationConfig controls how actions are driven into the desktop.
type AutomationConfig struct {
	TypeCmd CommandConfig
	KeyCmd  CommandConfig
	PauseMS int
}

// ServerConfig controls the optional HTTP observer service.
type ServerConfig struct {
	Enable     bool
	Host       string
	Port       int
	EnableCORS bool
}

// NotifyConfig controls desktop outcome notifications.
type NotifyConfig struct {
	Enable         bool
	AppName        string
	ErrorTimeoutMS int
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string
}

// CommandConfig stores a raw command string and its parsed argv form.
type CommandConfig struct {
	Raw  string
	Argv []string
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}
