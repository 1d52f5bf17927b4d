// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/bibletranslationtools/docweave/cmd/configuration"
	"github.com/bibletranslationtools/docweave/pkg/pipeline"
	"github.com/bibletranslationtools/docweave/pkg/resource"
	"github.com/bibletranslationtools/docweave/pkg/writers"
)

func newGenerateCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate lang/type[/book] ...",
		Short: "Generate one interleaved document",
		Long: `Generate resolves the requested resources against the catalog, fetches
and parses them, and writes a single interleaved HTML document named by
the content-addressed key of the request. Resources that cannot be
resolved, fetched or parsed are listed on the cover page as not
available instead of failing the document.`,
		Example: `  docweave generate en/ulb-wa/tit en/tn-wa/tit --chunk-size chapter
  docweave generate en/ulb-wa/tit fr/f10/tit --assembly-layout two-column-sl-sr --output pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			reqs, err := parseRequests(args)
			if err != nil {
				return err
			}
			opts, err := newOptions(cmd.Flags(), new(configuration.DefaultConfigurationLoader))
			if err != nil {
				return err
			}
			cfg, err := opts.assembleConfig()
			if err != nil {
				return err
			}

			o := pipeline.New(opts.pipelineOptions(ctx))
			out := cmd.OutOrStdout()

			if opts.DryRun {
				planned, files, err := o.Plan(ctx, reqs, cfg)
				if err != nil {
					return err
				}
				for _, p := range planned {
					if p.Found {
						fmt.Fprintf(out, "%s -> %s\n", p.Request, p.Locator.URL)
					} else {
						fmt.Fprintf(out, "%s -> not in catalog\n", p.Request)
					}
				}
				dry := writers.NewDryRunWriter(out, opts.outDir())
				for _, f := range files {
					if _, err := dry.Write(f, nil); err != nil {
						return err
					}
				}
				dry.Flush()
				return nil
			}

			res, err := o.Generate(ctx, reqs, cfg)
			if err != nil {
				return err
			}
			for _, u := range res.Unfulfilled {
				klog.Warningf("%s is not available and was left off the document", u)
			}
			for _, n := range res.Notes {
				klog.Warning(n)
			}
			for _, f := range res.Files {
				fmt.Fprintln(out, f)
			}
			return nil
		},
	}
	configureGenerateFlags(cmd)
	return cmd
}

// parseRequests reads positional arguments of the form lang/type or
// lang/type/book.
func parseRequests(args []string) ([]resource.Request, error) {
	reqs := make([]resource.Request, 0, len(args))
	for _, arg := range args {
		parts := strings.Split(arg, "/")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("request %q must have the form lang/type or lang/type/book", arg)
		}
		for _, p := range parts {
			if p == "" {
				return nil, fmt.Errorf("request %q has an empty segment", arg)
			}
		}
		req := resource.Request{LangCode: parts[0], ResourceType: parts[1]}
		if len(parts) == 3 {
			req.BookCode = parts[2]
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}
