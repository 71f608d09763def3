package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/circuitgen/pkg/gen"
	"github.com/matzehuels/circuitgen/pkg/pipeline"
	"github.com/matzehuels/circuitgen/pkg/tier"
)

// completionShells lists the shells cobra can complete for.
var completionShells = []string{"bash", "zsh", "fish", "powershell"}

// completionCommand prints a completion script covering every subcommand and
// flag, including tier, generator and format values.
func (c *CLI) completionCommand() *cobra.Command {
	var noDesc bool

	cmd := &cobra.Command{
		Use:   "completion <shell>",
		Short: "Print a shell completion script",
		Long: `Print a completion script for bash, zsh, fish or powershell to stdout.

Source it in the current shell, or save it where your shell loads
completions from:

  source <(circuitgen completion bash)
  circuitgen completion zsh > "${fpath[1]}/_circuitgen"
  circuitgen completion fish > ~/.config/fish/completions/circuitgen.fish
  circuitgen completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             completionShells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, w := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(w, !noDesc)
			case "zsh":
				if noDesc {
					return root.GenZshCompletionNoDesc(w)
				}
				return root.GenZshCompletion(w)
			case "fish":
				return root.GenFishCompletion(w, !noDesc)
			case "powershell":
				if noDesc {
					return root.GenPowerShellCompletion(w)
				}
				return root.GenPowerShellCompletionWithDesc(w)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}

	cmd.Flags().BoolVar(&noDesc, "no-descriptions", false, "omit flag and command descriptions from completions")
	return cmd
}

// completeFixed completes a flag from a closed set of values.
func completeFixed(values ...string) cobra.CompletionFunc {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

func tierValues() []string {
	out := make([]string, len(tier.All))
	for i, t := range tier.All {
		out[i] = t.String()
	}
	return out
}

func generatorValues() []string {
	out := make([]string, len(gen.Kinds))
	for i, k := range gen.Kinds {
		out[i] = string(k)
	}
	return out
}

var formatValues = []string{
	pipeline.FormatJSON, pipeline.FormatYAML, pipeline.FormatDOT,
	pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF,
}

// completeFlag registers completions for a flag the command is known to have.
func completeFlag(cmd *cobra.Command, name string, values ...string) {
	if err := cmd.RegisterFlagCompletionFunc(name, completeFixed(values...)); err != nil {
		panic(err)
	}
}
