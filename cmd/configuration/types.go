// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package configuration

// Config is the optional file-based configuration. Explicit flags and
// DOCWEAVE_* environment variables take precedence over it; pointer fields
// distinguish an absent setting from a zero one.
type Config struct {
	WorkingDir          *string   `yaml:"workingDir,omitempty"`
	OutputDir           *string   `yaml:"outputDir,omitempty"`
	CacheHome           *string   `yaml:"cacheHome,omitempty"`
	CatalogURL          *string   `yaml:"catalogURL,omitempty"`
	CatalogStaleMinutes *int      `yaml:"catalogStaleMinutes,omitempty"`
	AuthToken           *string   `yaml:"authToken,omitempty"`
	FetchWorkers        *int      `yaml:"fetchWorkers,omitempty"`
	Assembly            *Assembly `yaml:"assembly,omitempty"`
}

// Assembly carries default assembly settings applied when the generate
// command does not spell them out.
type Assembly struct {
	Strategy       *string  `yaml:"strategy,omitempty"`
	Layout         *string  `yaml:"layout,omitempty"`
	ChunkSize      *string  `yaml:"chunkSize,omitempty"`
	LayoutForPrint *bool    `yaml:"layoutForPrint,omitempty"`
	Outputs        []string `yaml:"outputs,omitempty"`
}
