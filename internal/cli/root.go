package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mgpai22/fixsrt/internal/config"
	"github.com/mgpai22/fixsrt/internal/fixer"
	"github.com/mgpai22/fixsrt/internal/logging"
	"github.com/mgpai22/fixsrt/internal/rewrite"
	"github.com/mgpai22/fixsrt/internal/subtitle"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "fixsrt [flags] FILE...",
	Short: "Fix typography and timing of SRT subtitle files",
	Long: `fixsrt corrects SRT subtitle files in place.

Each file is decoded (UTF-8 with or without BOM, UTF-16, or Windows-1252),
parsed, rewritten with the selected language's correction rules, optionally
shifted and stretched in time, and saved back as UTF-8 with a BOM and CRLF
line endings. The original is kept as FILE~ unless --no-backup is given.

Examples:
  fixsrt movie.srt
  fixsrt -l en episode1.srt episode2.srt -j 4
  fixsrt movie.srt --shift 1500 --stretch -300
  fixsrt movie.srt -o fixed/movie.srt --rules my-rules.yaml`,
	Args:              cobra.MinimumNArgs(1),
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
	RunE:              runFix,
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file (default ~/.config/fixsrt/config.toml)")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Rule set language (e.g., fr, en)")
	rootCmd.PersistentFlags().
		StringArray("rules", nil, "Extra YAML rule file, applied after the built-in rules (repeatable)")

	rootCmd.Flags().StringP("output", "o", "", "Output file path (single input file only)")
	addFixFlags(rootCmd.Flags())
}

// flags shared by every command that runs the fixer
func addFixFlags(fs *pflag.FlagSet) {
	fs.Bool("no-backup", false, "Do not keep a copy of the original file")
	fs.Int64("shift", 0, "Shift every subtitle by this many milliseconds")
	fs.Int64("stretch", 0, "Spread this many milliseconds linearly over the file")
	fs.IntP("jobs", "j", 0, "Number of files processed in parallel")
}

func loadSettings(cmd *cobra.Command, args []string) error {
	loaded, _, _, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logger, err = logging.New(logging.Options{Level: level, Format: cfg.Logging.Format})
	if err != nil {
		return err
	}
	return nil
}

// loads the rule set from --language and --rules, falling back to the config
func loadRuleSet(cmd *cobra.Command) (*rewrite.RuleSet, error) {
	lang := cfg.Rules.Language
	if cmd.Flags().Changed("language") {
		lang, _ = cmd.Flags().GetString("language")
	}

	extra := append([]string{}, cfg.Rules.ExtraFiles...)
	flagRules, _ := cmd.Flags().GetStringArray("rules")
	extra = append(extra, flagRules...)

	rs, err := rewrite.Load(lang, extra...)
	if err != nil {
		return nil, err
	}
	logger.Debugw("Loaded rule set",
		"language", rs.Language,
		"rules", rs.Len(),
		"extra_files", len(extra),
	)
	return rs, nil
}

// merges fix flags over config values
func fixOptions(cmd *cobra.Command) (fixer.Options, int, error) {
	flags := cmd.Flags()

	rs, err := loadRuleSet(cmd)
	if err != nil {
		return fixer.Options{}, 0, err
	}

	noBackup, _ := flags.GetBool("no-backup")
	shift, _ := flags.GetInt64("shift")
	stretch, _ := flags.GetInt64("stretch")

	jobs := cfg.Files.Jobs
	if flags.Changed("jobs") {
		jobs, _ = flags.GetInt("jobs")
		if jobs < 1 {
			return fixer.Options{}, 0, fmt.Errorf("--jobs must be positive, got %d", jobs)
		}
	}

	opts := fixer.Options{
		Rules:        rs,
		Shift:        subtitle.Millis(shift),
		Stretch:      subtitle.Millis(stretch),
		Backup:       cfg.Files.Backup && !noBackup,
		BackupSuffix: cfg.Files.BackupSuffix,
		NormalizeNFC: cfg.Text.NormalizeNFC,
	}
	return opts, jobs, nil
}

func runFix(cmd *cobra.Command, args []string) error {
	opts, jobs, err := fixOptions(cmd)
	if err != nil {
		return err
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath != "" && len(args) > 1 {
		return fixer.ErrOutputWithManyFiles
	}
	opts.Output = outputPath

	results, err := fixer.New(opts, logger).Run(cmd.Context(), args, jobs)
	if err != nil {
		return err
	}

	return report(cmd, results)
}

// prints the summary table and per-file problems; fails if any file failed
func report(cmd *cobra.Command, results []fixer.Result) error {
	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(results))

	failed := 0
	for _, r := range results {
		for _, w := range r.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: warning: %s\n", r.Path, w)
		}
		if r.Err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.Path, r.Err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d %s failed", failed, len(results), plural(len(results), "file", "files"))
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// user-facing message; parse errors collapse to their line, everything else keeps its context
func shortError(err error) string {
	var perr *subtitle.ParseError
	if errors.As(err, &perr) {
		return fmt.Sprintf("line %d: %v", perr.Line, perr.Err)
	}
	return err.Error()
}
