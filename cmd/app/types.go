// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"k8s.io/utils/pointer"

	"github.com/bibletranslationtools/docweave/cmd/configuration"
	"github.com/bibletranslationtools/docweave/pkg/assemble"
	"github.com/bibletranslationtools/docweave/pkg/fetch"
	"github.com/bibletranslationtools/docweave/pkg/pipeline"
)

// options collects every setting the commands run with, resolved from
// flags, DOCWEAVE_* environment variables and the configuration file, in
// that order of precedence.
type options struct {
	WorkingDir             string `mapstructure:"working-dir"`
	OutputDir              string `mapstructure:"output-dir"`
	CacheDir               string `mapstructure:"cache-dir"`
	CatalogURL             string `mapstructure:"catalog-url"`
	CatalogStaleMinutes    int    `mapstructure:"catalog-stale-minutes"`
	AuthToken              string `mapstructure:"auth-token"`
	FetchWorkers           int    `mapstructure:"fetch-workers"`
	FetchTimeoutSeconds    int    `mapstructure:"fetch-timeout-seconds"`
	ParseTimeoutSeconds    int    `mapstructure:"parse-timeout-seconds"`
	AssembleTimeoutSeconds int    `mapstructure:"assemble-timeout-seconds"`

	Strategy       string   `mapstructure:"assembly-strategy"`
	Layout         string   `mapstructure:"assembly-layout"`
	ChunkSize      string   `mapstructure:"chunk-size"`
	LayoutForPrint bool     `mapstructure:"layout-for-print"`
	Outputs        []string `mapstructure:"output"`
	DryRun         bool     `mapstructure:"dry-run"`

	Listen string `mapstructure:"listen"`
}

// newOptions resolves the effective settings for one command invocation.
func newOptions(flags *pflag.FlagSet, loader configuration.Loader) (*options, error) {
	opts := &options{}
	if err := vip.Unmarshal(opts); err != nil {
		return nil, err
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	opts.applyConfig(flags, cfg)
	return opts, nil
}

// applyConfig merges configuration file values under everything set
// explicitly on the command line or in the environment.
func (o *options) applyConfig(flags *pflag.FlagSet, cfg *configuration.Config) {
	if cfg == nil {
		return
	}
	if !isSet(flags, "working-dir") {
		o.WorkingDir = pointer.StringDeref(cfg.WorkingDir, o.WorkingDir)
	}
	if !isSet(flags, "output-dir") {
		o.OutputDir = pointer.StringDeref(cfg.OutputDir, o.OutputDir)
	}
	if !isSet(flags, "cache-dir") {
		o.CacheDir = pointer.StringDeref(cfg.CacheHome, o.CacheDir)
	}
	if !isSet(flags, "catalog-url") {
		o.CatalogURL = pointer.StringDeref(cfg.CatalogURL, o.CatalogURL)
	}
	if !isSet(flags, "catalog-stale-minutes") {
		o.CatalogStaleMinutes = pointer.IntDeref(cfg.CatalogStaleMinutes, o.CatalogStaleMinutes)
	}
	if !isSet(flags, "auth-token") {
		o.AuthToken = pointer.StringDeref(cfg.AuthToken, o.AuthToken)
	}
	if !isSet(flags, "fetch-workers") {
		o.FetchWorkers = pointer.IntDeref(cfg.FetchWorkers, o.FetchWorkers)
	}

	a := cfg.Assembly
	if a == nil {
		return
	}
	if !isSet(flags, "assembly-strategy") {
		o.Strategy = pointer.StringDeref(a.Strategy, o.Strategy)
	}
	if !isSet(flags, "assembly-layout") {
		o.Layout = pointer.StringDeref(a.Layout, o.Layout)
	}
	if !isSet(flags, "chunk-size") {
		o.ChunkSize = pointer.StringDeref(a.ChunkSize, o.ChunkSize)
	}
	if !isSet(flags, "layout-for-print") {
		o.LayoutForPrint = pointer.BoolDeref(a.LayoutForPrint, o.LayoutForPrint)
	}
	if !isSet(flags, "output") && len(a.Outputs) > 0 {
		o.Outputs = a.Outputs
	}
}

// assembleConfig validates the assembly spellings and builds the document
// configuration.
func (o *options) assembleConfig() (assemble.Config, error) {
	var cfg assemble.Config
	var err error
	if cfg.Strategy, err = assemble.ParseStrategy(o.Strategy); err != nil {
		return cfg, err
	}
	if cfg.Layout, err = assemble.ParseLayout(o.Layout); err != nil {
		return cfg, err
	}
	if cfg.ChunkSize, err = assemble.ParseChunkSize(o.ChunkSize); err != nil {
		return cfg, err
	}
	cfg.LayoutForPrint = o.LayoutForPrint
	cfg.Outputs = o.Outputs
	return cfg, nil
}

// pipelineOptions wires the orchestrator with a disk-cached HTTP client.
func (o *options) pipelineOptions(ctx context.Context) pipeline.Options {
	return pipeline.Options{
		WorkDir:         o.WorkingDir,
		OutDir:          o.OutputDir,
		CatalogURL:      o.CatalogURL,
		CatalogStale:    time.Duration(o.CatalogStaleMinutes) * time.Minute,
		FetchWorkers:    o.FetchWorkers,
		FetchTimeout:    time.Duration(o.FetchTimeoutSeconds) * time.Second,
		ParseTimeout:    time.Duration(o.ParseTimeoutSeconds) * time.Second,
		AssembleTimeout: time.Duration(o.AssembleTimeoutSeconds) * time.Second,
		Client:          fetch.NewClient(ctx, filepath.Join(o.CacheDir, "httpcache"), o.AuthToken),
	}
}

// outDir is where documents land, for display purposes.
func (o *options) outDir() string {
	if o.OutputDir != "" {
		return o.OutputDir
	}
	return o.WorkingDir
}
