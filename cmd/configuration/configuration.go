// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package configuration

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFileName is the file read from the docweave home
	// directory when DOCWEAVECONFIG does not point elsewhere.
	DefaultConfigFileName = "config"
	// DocweaveHomeDir is the per-user docweave directory under $HOME.
	DocweaveHomeDir = ".docweave"
	// DocweaveConfigEnv overrides the configuration file location.
	DocweaveConfigEnv = "DOCWEAVECONFIG"
)

// Loader yields the file-based configuration.
type Loader interface {
	Load() (*Config, error)
}

// DefaultConfigurationLoader reads the configuration from DOCWEAVECONFIG or
// from the default location under the user home directory. A missing file
// loads as an empty configuration.
type DefaultConfigurationLoader struct{}

func (d *DefaultConfigurationLoader) Load() (*Config, error) {
	if configFilePath, found := os.LookupEnv(DocweaveConfigEnv); found {
		if configFilePath == "" {
			return nil, fmt.Errorf("the environment variable %s is set to an empty string", DocweaveConfigEnv)
		}
		return load(configFilePath)
	}

	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %v", err)
	}
	return load(filepath.Join(userHomeDir, DocweaveHomeDir, DefaultConfigFileName))
}

func load(configFilePath string) (*Config, error) {
	stat, err := os.Stat(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to get file info for configuration file %s: %v", configFilePath, err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("the configuration file path %s is a directory, not a file", configFilePath)
	}

	content, err := os.ReadFile(configFilePath)
	if err != nil {
		return nil, err
	}
	config := &Config{}
	if err := yaml.Unmarshal(content, config); err != nil {
		return nil, err
	}
	return config, nil
}
