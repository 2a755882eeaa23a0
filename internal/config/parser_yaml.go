package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

func parseYAML(content string, base Config) (Config, []Warning, error) {
	decoder := yaml.NewDecoder(strings.NewReader(content))
	decoder.KnownFields(true)

	var payload filePayload
	if err := decoder.Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			payload = filePayload{}
		} else {
			return Config{}, nil, fmt.Errorf("decode yaml: %w", err)
		}
	}

	var extra struct{}
	if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		if err == nil {
			return Config{}, nil, errors.New("multiple YAML documents are not allowed")
		}
		return Config{}, nil, fmt.Errorf("decode yaml: %w", err)
	}

	cfg := base
	if err := payload.applyTo(&cfg); err != nil {
		return Config{}, nil, err
	}

	warnings, err := Validate(cfg)
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, warnings, nil
}
