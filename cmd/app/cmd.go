// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"flag"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"

	"github.com/bibletranslationtools/docweave/cmd/gendocs"
)

var vip = viper.New()

// klog registers on the process-global flag set, which panics on double
// registration.
var klogFlagsOnce sync.Once

// NewCommand creates the docweave root command and propagates ctx to the
// subcommand Run closures.
func NewCommand(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docweave",
		Short: "Weave Bible translation resources into interleaved documents",
		Long: `docweave resolves translation resources (scripture, notes, questions,
words, academy articles and commentary) from a catalog, fetches them, and
assembles a single interleaved HTML document, optionally converted to
PDF, EPUB or DOCX.`,
		SilenceErrors: true,
	}

	vip.SetEnvPrefix("DOCWEAVE")
	vip.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	vip.AutomaticEnv()

	configureFlags(cmd)

	cmd.AddCommand(newGenerateCmd(ctx))
	cmd.AddCommand(newServeCmd(ctx))
	cmd.AddCommand(newListCmd(ctx))
	cmd.AddCommand(NewVersionCmd())
	cmd.AddCommand(newCompletionCmd())
	cmd.AddCommand(gendocs.NewGenCmdDocs())

	klogFlagsOnce.Do(func() {
		klog.InitFlags(nil)
	})
	AddFlags(cmd)

	return cmd
}

// AddFlags adds go flags, klog's verbosity switches included, to the root
// command so every subcommand accepts them.
func AddFlags(rootCmd *cobra.Command) {
	flag.CommandLine.VisitAll(func(gf *flag.Flag) {
		rootCmd.PersistentFlags().AddGoFlag(gf)
	})
}
