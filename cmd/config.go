// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 LoopAndLearn

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// fileConfig holds connection defaults loaded from the YAML defaults file.
// Explicit flags always override file values.
type fileConfig struct {
	Port     string `yaml:"port"`
	Baud     int    `yaml:"baud"`
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Family   string `yaml:"family"`
}

// validate checks configuration correctness. It performs declarative
// validation only and never mutates the configuration.
func (c *fileConfig) validate() error {
	if c.Baud < 0 {
		return fmt.Errorf("baud must be positive, got %d", c.Baud)
	}
	if c.Family != "" {
		if _, err := parseFamily(c.Family); err != nil {
			return err
		}
	}
	return nil
}

// defaultConfigPath returns the default defaults-file location
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "omnikit", "config.yaml")
}

// loadFileConfig reads and validates a defaults file
func loadFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &fileConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// applyConfigDefaults merges defaults-file values under any flags the user
// did not set explicitly. A missing default-location file is not an error;
// a missing --config file is.
func applyConfigDefaults(cmd *cobra.Command, args []string) error {
	path := configFile
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
		if path == "" {
			return nil
		}
	}

	cfg, err := loadFileConfig(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return nil
		}
		return err
	}

	flags := rootCmd.PersistentFlags()
	if cfg.Port != "" && !flags.Changed("port") {
		portName = cfg.Port
	}
	if cfg.Baud != 0 && !flags.Changed("baud") {
		baudRate = cfg.Baud
	}
	if cfg.URL != "" && !flags.Changed("url") {
		wsURL = cfg.URL
	}
	if cfg.Username != "" && !flags.Changed("username") {
		wsUsername = cfg.Username
	}
	if cfg.Family != "" && !flags.Changed("family") {
		familyName = cfg.Family
	}

	return nil
}
