// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bibletranslationtools/docweave/cmd/configuration"
	"github.com/bibletranslationtools/docweave/pkg/pipeline"
)

func newListCmd(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:       "list languages|resource-types|book-codes",
		Short:     "List codes the catalog offers",
		ValidArgs: []string{"languages", "resource-types", "book-codes"},
		Args:      cobra.ExactValidArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			opts, err := newOptions(cmd.Flags(), new(configuration.DefaultConfigurationLoader))
			if err != nil {
				return err
			}
			cat, err := pipeline.New(opts.pipelineOptions(ctx)).Catalog(ctx)
			if err != nil {
				return err
			}

			var codes []string
			switch args[0] {
			case "languages":
				codes = cat.LanguageCodes()
			case "resource-types":
				codes = cat.ResourceTypes()
			case "book-codes":
				codes = cat.BookCodes()
			}
			for _, code := range codes {
				fmt.Fprintln(cmd.OutOrStdout(), code)
			}
			return nil
		},
	}
}
