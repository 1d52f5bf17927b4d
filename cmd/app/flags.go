// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bibletranslationtools/docweave/cmd/configuration"
	"github.com/bibletranslationtools/docweave/pkg/pipeline"
)

func configureFlags(command *cobra.Command) {
	flags := command.PersistentFlags()

	flags.String("working-dir", pipeline.DefaultWorkDir,
		"Directory where the catalog and fetched resources are kept.")
	_ = vip.BindPFlag("working-dir", flags.Lookup("working-dir"))

	flags.StringP("output-dir", "d", "",
		"Directory where finished documents are written. Defaults to the working directory.")
	_ = vip.BindPFlag("output-dir", flags.Lookup("output-dir"))

	flags.String("catalog-url", pipeline.DefaultCatalogURL,
		"URL of the resource catalog.")
	_ = vip.BindPFlag("catalog-url", flags.Lookup("catalog-url"))

	flags.Int("catalog-stale-minutes", int(pipeline.DefaultCatalogStale/time.Minute),
		"Age in minutes after which the cached catalog is refreshed.")
	_ = vip.BindPFlag("catalog-stale-minutes", flags.Lookup("catalog-stale-minutes"))

	flags.String("auth-token", "",
		"Bearer token for catalog and asset downloads, when the host requires one.")
	_ = vip.BindPFlag("auth-token", flags.Lookup("auth-token"))

	flags.Int("fetch-workers", pipeline.DefaultFetchWorkers,
		"Number of resources fetched in parallel.")
	_ = vip.BindPFlag("fetch-workers", flags.Lookup("fetch-workers"))

	flags.Int("fetch-timeout-seconds", int(pipeline.DefaultFetchTimeout/time.Second),
		"Timeout for fetching one resource.")
	_ = vip.BindPFlag("fetch-timeout-seconds", flags.Lookup("fetch-timeout-seconds"))

	flags.Int("parse-timeout-seconds", int(pipeline.DefaultParseTimeout/time.Second),
		"Timeout for the parse phase.")
	_ = vip.BindPFlag("parse-timeout-seconds", flags.Lookup("parse-timeout-seconds"))

	flags.Int("assemble-timeout-seconds", int(pipeline.DefaultAssembleTimeout/time.Second),
		"Timeout for assembling the document.")
	_ = vip.BindPFlag("assemble-timeout-seconds", flags.Lookup("assemble-timeout-seconds"))

	cacheDir := ""
	userHomeDir, err := os.UserHomeDir()
	if err == nil {
		// default value $HOME/.docweave
		cacheDir = filepath.Join(userHomeDir, configuration.DocweaveHomeDir)
	}
	flags.String("cache-dir", cacheDir,
		"Cache directory, used for the HTTP response cache.")
	_ = vip.BindPFlag("cache-dir", flags.Lookup("cache-dir"))
}

func configureGenerateFlags(command *cobra.Command) {
	flags := command.Flags()

	flags.String("assembly-strategy", "language-book-order",
		"Top-level document order: language-book-order or book-language-order.")
	_ = vip.BindPFlag("assembly-strategy", flags.Lookup("assembly-strategy"))

	flags.String("assembly-layout", "one-column",
		"Column arrangement: one-column, one-column-compact, two-column-sl-sr or two-column-sl-sr-compact.")
	_ = vip.BindPFlag("assembly-layout", flags.Lookup("assembly-layout"))

	flags.String("chunk-size", "book",
		"Interleaving granularity: book, chapter or verse.")
	_ = vip.BindPFlag("chunk-size", flags.Lookup("chunk-size"))

	flags.Bool("layout-for-print", false,
		"Add print-oriented page rules to the document.")
	_ = vip.BindPFlag("layout-for-print", flags.Lookup("layout-for-print"))

	flags.StringSliceP("output", "o", nil,
		"Additional output formats converted from the assembled HTML: pdf, epub, docx.")
	_ = vip.BindPFlag("output", flags.Lookup("output"))

	flags.Bool("dry-run", false,
		"Resolve the requests and print the projected plan without fetching resources or writing documents.")
	_ = vip.BindPFlag("dry-run", flags.Lookup("dry-run"))
}

func configureServeFlags(command *cobra.Command) {
	flags := command.Flags()

	flags.String("listen", ":8000",
		"Address the HTTP API listens on.")
	_ = vip.BindPFlag("listen", flags.Lookup("listen"))
}

// isSet reports whether a setting arrived explicitly by flag or by
// environment variable; only then does it outrank the configuration file.
func isSet(flags *pflag.FlagSet, name string) bool {
	if f := flags.Lookup(name); f != nil && f.Changed {
		return true
	}
	_, ok := os.LookupEnv(envName(name))
	return ok
}

func envName(flagName string) string {
	return "DOCWEAVE_" + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}
