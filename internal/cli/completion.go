package cli

import "github.com/spf13/cobra"

// completionCommand creates the completion command. Completions cover the
// flags and the fetcher names accepted by --fetcher and --fallback.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion bash|zsh|fish",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for nurl.

  source <(nurl completion bash)
  nurl completion zsh > "${fpath[1]}/_nurl"
  nurl completion fish > ~/.config/fish/completions/nurl.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, w := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(w, true)
			case "zsh":
				return root.GenZshCompletion(w)
			default:
				return root.GenFishCompletion(w, true)
			}
		},
	}
}
