package config

import "strings"

// Parse decodes content over base. A leading `{` selects JSONC; anything
// else is decoded as YAML. Empty content validates base as-is.
func Parse(content string, base Config) (Config, []Warning, error) {
	switch trimmed := strings.TrimSpace(content); {
	case trimmed == "":
		warnings, err := Validate(base)
		if err != nil {
			return Config{}, nil, err
		}
		return base, warnings, nil
	case strings.HasPrefix(trimmed, "{"):
		return parseJSONC(content, base)
	default:
		return parseYAML(content, base)
	}
}
