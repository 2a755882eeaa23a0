package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const configFileName = "config.conf"

// ResolvePath picks the config location: an explicit CLI path wins, then
// $XDG_CONFIG_HOME/serenade, then ~/.config/serenade.
func ResolvePath(explicit string) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		return explicit, nil
	}
	base, err := configBaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "serenade", configFileName), nil
}

func configBaseDir() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return xdg, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.New("unable to resolve user home for config fallback")
	}
	return filepath.Join(home, ".config"), nil
}
