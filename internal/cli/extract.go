package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/fixsrt/internal/fileutil"
	"github.com/mgpai22/fixsrt/internal/fixer"
	"github.com/mgpai22/fixsrt/internal/video"
)

var extractCmd = &cobra.Command{
	Use:   "extract [video_file]",
	Short: "Extract subtitles from a video file and fix them",
	Long: `Extract a subtitle stream from a video container with ffmpeg, convert it to
SRT, then run the same corrections as the root command on the result.

Bitmap subtitle streams (PGS, VobSub) cannot be converted to text.

Examples:
  fixsrt extract movie.mkv
  fixsrt extract movie.mkv --list
  fixsrt extract movie.mkv -s 1 -o movie.fr.srt -l fr`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("output", "o", "", "Output subtitle path (default: video name with .srt)")
	extractCmd.Flags().IntP("stream", "s", 0, "Subtitle stream number (0 is the first subtitle stream)")
	extractCmd.Flags().Bool("list", false, "List subtitle streams and exit")
	addFixFlags(extractCmd.Flags())
}

func defaultExtractOutput(videoPath string, stream int) string {
	base := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
	if stream > 0 {
		return fmt.Sprintf("%s.%d.srt", base, stream)
	}
	return base + ".srt"
}

// copies path aside before ffmpeg overwrites it; returns "" when there is nothing to keep
func backupExisting(path, suffix string) (string, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%s is not a regular file", path)
	}
	if suffix == "" {
		suffix = "~"
	}
	backup := path + suffix
	if err := fileutil.CopyFile(path, backup); err != nil {
		return "", err
	}
	return backup, nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	videoPath := args[0]
	ctx := cmd.Context()
	processor := video.NewProcessor()

	if list, _ := cmd.Flags().GetBool("list"); list {
		streams, err := processor.SubtitleStreams(ctx, videoPath)
		if err != nil {
			return err
		}
		if len(streams) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No subtitle streams found")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderStreams(streams))
		return nil
	}

	stream, _ := cmd.Flags().GetInt("stream")
	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = defaultExtractOutput(videoPath, stream)
	}

	opts, _, err := fixOptions(cmd)
	if err != nil {
		return err
	}
	if opts.Backup {
		backup, err := backupExisting(outputPath, opts.BackupSuffix)
		if err != nil {
			return fmt.Errorf("back up existing output: %w", err)
		}
		if backup != "" {
			logger.Infow("Backed up existing output", "backup", backup)
		}
	}
	// the fresh extraction has nothing worth keeping
	opts.Backup = false

	logger.Infow("Extracting subtitles",
		"video", videoPath,
		"output", outputPath,
		"stream", stream,
	)

	if err := processor.ExtractSubtitles(ctx, videoPath, outputPath, video.ExtractOptions{
		Stream: stream,
	}); err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	res := fixer.New(opts, logger).File(ctx, outputPath)
	return report(cmd, []fixer.Result{res})
}
