package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DefaultConfigPath returns the per-user configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/framecast/config.toml")
}

// Load overlays a TOML file onto cfg. When path is empty the per-user file
// and then ./framecast.toml are tried; a missing file is not an error.
// It returns the resolved path and whether a file was actually read.
func Load(cfg *Config, path string) (string, bool, error) {
	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return "", false, err
	}
	if !exists {
		return resolved, false, nil
	}

	file, err := os.Open(resolved)
	if err != nil {
		return "", false, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		return "", false, fmt.Errorf("parse config %s: %w", resolved, err)
	}

	if cfg.OutputDir != "" {
		expanded, err := ExpandPath(cfg.OutputDir)
		if err != nil {
			return "", false, err
		}
		cfg.OutputDir = expanded
	}
	if cfg.LogFile != "" {
		expanded, err := ExpandPath(cfg.LogFile)
		if err != nil {
			return "", false, err
		}
		cfg.LogFile = expanded
	}
	return resolved, true, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf("config file not found: %s", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("framecast.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// ExpandPath resolves a leading "~" and returns a cleaned absolute path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
