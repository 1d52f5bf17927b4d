// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCmd represents the completion command
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate completion script",
	Long: `To load completions:

**Bash**:

$ source <(docweave completion bash)

To load completions for each session, execute once:
- Linux:
  $ docweave completion bash > /etc/bash_completion.d/docweave
- MacOS:
  $ docweave completion bash > /usr/local/etc/bash_completion.d/docweave

**Zsh**:

If shell completion is not already enabled in your environment you will need
to enable it.  You can execute the following once:

$ echo "autoload -U compinit; compinit" >> ~/.zshrc

To load completions for each session, execute once:
$ docweave completion zsh > "${fpath[1]}/_docweave"

You will need to start a new shell for this setup to take effect.

**Fish**:

$ docweave completion fish | source

To load completions for each session, execute once:
$ docweave completion fish > ~/.config/fish/completions/docweave.fish
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.ExactValidArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "bash":
			cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			cmd.Root().GenFishCompletion(os.Stdout, true)
		case "powershell":
			cmd.Root().GenPowerShellCompletion(os.Stdout)
		}
	},
}

func newCompletionCmd() *cobra.Command {
	return completionCmd
}
