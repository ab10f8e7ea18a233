package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment
// variables first.
// Environment variables:
//   - TOSS_CONFIG_PATH: config file location (default: ~/.config/toss.toml)
//   - TOSS_HOME: base directory for toss data (default: ~/.local/share/toss)
//   - TOSS_CACHE_DIR: cache directory (default: ~/.cache/toss)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	dataDir, err := getDataDir()
	if err != nil {
		return nil, err
	}

	cacheDir, err := getCacheDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"data_dir":    dataDir,
		"log_dir":     filepath.Join(dataDir, "log"),
		"cache_dir":   cacheDir,
	}, nil
}

func getConfigPath() (string, error) {
	if path := os.Getenv("TOSS_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "toss.toml"), nil
}

func getDataDir() (string, error) {
	if path := os.Getenv("TOSS_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "toss"), nil
}

func getCacheDir() (string, error) {
	if path := os.Getenv("TOSS_CACHE_DIR"); path != "" {
		return path, nil
	}

	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine cache directory: %w", err)
	}
	return filepath.Join(cacheDir, "toss"), nil
}
