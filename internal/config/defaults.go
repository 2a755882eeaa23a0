package config

// Default returns the built-in baseline configuration. Every Load result
// starts from these values before file overrides apply.
func Default() Config {
	typeCmd := "xdotool type --clearmodifiers --delay 10 --file -"
	keyCmd := "xdotool key --clearmodifiers"

	return Config{
		Engine: EngineConfig{
			GRPC:          "127.0.0.1:50051",
			HTTP:          "127.0.0.1:8080",
			HealthPath:    "/health",
			InferencePath: "/inference",
			Language:      "en",
			TimeoutMS:     30000,
		},
		Audio: AudioConfig{
			Input:           "default",
			Fallback:        "default",
			SampleRate:      16000,
			EnergyThreshold: 300,
			SilenceMS:       1500,
			MinUtteranceMS:  300,
			MaxUtteranceMS:  15000,
			PrerollMS:       300,
		},
		Commands: CommandsConfig{
			ConfidenceThreshold: 0.7,
		},
		Automation: AutomationConfig{
			TypeCmd: CommandConfig{Raw: typeCmd, Argv: mustParseArgv(typeCmd)},
			KeyCmd:  CommandConfig{Raw: keyCmd, Argv: mustParseArgv(keyCmd)},
			PauseMS: 100,
		},
		Server: ServerConfig{
			Enable:     false,
			Host:       "127.0.0.1",
			Port:       8765,
			EnableCORS: true,
		},
		Notifications: NotifyConfig{
			Enable:         true,
			AppName:        "serenade",
			ErrorTimeoutMS: 1600,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
