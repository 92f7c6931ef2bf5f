package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgpai22/fixsrt/internal/rewrite"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the correction rules for a language",
	Long: `Print the compiled rule set, built-in rules first, then the rules of any
extra files, in the order they are applied.

With --test, rewrite a sample line instead and print the result.

Examples:
  fixsrt rules
  fixsrt rules -l en
  fixsrt rules --test "Ca va?"
  fixsrt rules --rules my-rules.yaml --test "Salut"`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().String("test", "", "Rewrite this line and print the result")
	rulesCmd.Flags().Bool("languages", false, "List the built-in rule sets")
}

func runRules(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if list, _ := cmd.Flags().GetBool("languages"); list {
		for _, lang := range rewrite.Languages() {
			fmt.Fprintln(out, lang)
		}
		return nil
	}

	rs, err := loadRuleSet(cmd)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("test") {
		sample, _ := cmd.Flags().GetString("test")
		fmt.Fprintln(out, rs.ReplaceOne(sample))
		return nil
	}

	fmt.Fprintf(out, "%s: %d rules\n", rs.Language, rs.Len())
	fmt.Fprintln(out, renderRules(rs))
	return nil
}
