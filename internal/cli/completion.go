package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/splitgrid/pkg/config"
	"github.com/matzehuels/splitgrid/pkg/workspace"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for splitgrid.

To load completions:

Bash:
  $ source <(splitgrid completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ splitgrid completion bash > /etc/bash_completion.d/splitgrid
  # macOS:
  $ splitgrid completion bash > $(brew --prefix)/etc/bash_completion.d/splitgrid

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ splitgrid completion zsh > "${fpath[1]}/_splitgrid"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ splitgrid completion fish | source

  # To load completions for each session, execute once:
  $ splitgrid completion fish > ~/.config/fish/completions/splitgrid.fish

PowerShell:
  PS> splitgrid completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> splitgrid completion powershell > splitgrid.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// completeDocuments completes a leading DOC argument with stored layout names.
func (c *CLI) completeDocuments(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var names []string
	_ = c.withRunner(cmd.Context(), func(_ config.Config, runner *workspace.Runner) error {
		docs, err := runner.Store.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, d := range docs {
			if strings.HasPrefix(d.Name, toComplete) {
				names = append(names, d.Name)
			}
		}
		return nil
	})
	return names, cobra.ShellCompDirectiveNoFileComp
}
