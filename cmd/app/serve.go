// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/bibletranslationtools/docweave/cmd/configuration"
	"github.com/bibletranslationtools/docweave/pkg/httpapi"
	"github.com/bibletranslationtools/docweave/pkg/pipeline"
)

const shutdownGrace = 10 * time.Second

func newServeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the document generation HTTP API",
		Long: `Serve exposes document generation over HTTP: POST /documents accepts a
request and returns a task id, GET /task_status/{id} reports its state,
and /language_codes, /resource_types and /resource_codes enumerate the
catalog. Tasks live in memory and do not survive a restart.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			opts, err := newOptions(cmd.Flags(), new(configuration.DefaultConfigurationLoader))
			if err != nil {
				return err
			}

			o := pipeline.New(opts.pipelineOptions(ctx))
			registry := pipeline.NewRegistry(ctx, o)
			server := &http.Server{
				Addr:    opts.Listen,
				Handler: httpapi.New(o, registry).Handler(),
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.ListenAndServe()
			}()
			klog.Infof("docweave API listening on %s", opts.Listen)

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}
	configureServeFlags(cmd)
	return cmd
}
