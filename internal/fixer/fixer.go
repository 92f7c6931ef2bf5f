// Package fixer drives the per-file correction pipeline and runs it over
// many files at once.
package fixer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mgpai22/fixsrt/internal/fileutil"
	"github.com/mgpai22/fixsrt/internal/logging"
	"github.com/mgpai22/fixsrt/internal/rewrite"
	"github.com/mgpai22/fixsrt/internal/subtitle"
)

// ErrOutputWithManyFiles is returned by Run when an output override is set
// for more than one input.
var ErrOutputWithManyFiles = errors.New("output path can only be used with a single input file")

// Options controls how each file is corrected.
type Options struct {
	// nil skips text rules
	Rules   *rewrite.RuleSet
	Shift   subtitle.Millis
	Stretch subtitle.Millis

	Backup       bool
	BackupSuffix string

	// writes here instead of over the input; single file only
	Output string

	NormalizeNFC bool
}

// Result reports the outcome for one input file.
type Result struct {
	Path         string
	Output       string
	Entries      int
	ChangedLines int
	Encoding     subtitle.Encoding
	Backup       string
	Warnings     []string
	Err          error
	Duration     time.Duration
}

// OK reports whether the file was written.
func (r Result) OK() bool {
	return r.Err == nil
}

// Fixer runs the correction pipeline over subtitle files.
type Fixer struct {
	opts   Options
	logger *logging.Logger
}

func New(opts Options, logger *logging.Logger) *Fixer {
	if logger == nil {
		logger = logging.NewNop()
	}
	if opts.BackupSuffix == "" {
		opts.BackupSuffix = "~"
	}
	return &Fixer{opts: opts, logger: logger}
}

// File corrects a single file: lock, load, rewrite, shift and stretch,
// backup, then an atomic save. A failed backup is only a warning.
func (f *Fixer) File(ctx context.Context, path string) Result {
	started := time.Now()
	res := f.file(ctx, path, f.logger.With("file", path))
	res.Duration = time.Since(started)
	return res
}

func (f *Fixer) file(ctx context.Context, path string, logger *logging.Logger) Result {
	res := Result{Path: path, Output: path}
	if f.opts.Output != "" {
		res.Output = f.opts.Output
	}

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	lock, err := fileutil.Lock(path)
	if err != nil {
		res.Err = err
		return res
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warnw("Failed to release lock", "error", err)
		}
	}()

	sub, err := subtitle.LoadWithOptions(path, subtitle.LoadOptions{
		NormalizeNFC: f.opts.NormalizeNFC,
	})
	if err != nil {
		res.Err = err
		return res
	}
	res.Entries = len(sub.Entries)
	res.Encoding = sub.Encoding

	logger.Debugw("Parsed subtitle file",
		"entries", res.Entries,
		"lines", sub.LineCount(),
		"encoding", sub.Encoding,
	)

	if f.opts.Rules != nil {
		res.ChangedLines = sub.ApplyTextRules(f.opts.Rules)
	}

	if err := sub.ApplyTimeShiftStretch(f.opts.Shift, f.opts.Stretch); err != nil {
		if !errors.Is(err, subtitle.ErrTooManyEntries) {
			res.Err = err
			return res
		}
		res.Warnings = append(res.Warnings, fmt.Sprintf("time shift skipped: %v", err))
		logger.Warnw("Skipping time shift", "error", err)
	}

	if f.opts.Backup && samePath(res.Output, path) {
		backup := path + f.opts.BackupSuffix
		if err := fileutil.CopyFile(path, backup); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("no backup: %v", err))
			logger.Warnw("Backup failed, continuing without it", "backup", backup, "error", err)
		} else {
			res.Backup = backup
		}
	}

	if err := subtitle.Save(sub, res.Output); err != nil {
		res.Err = err
		return res
	}

	logger.Infow("Fixed subtitle file",
		"output", res.Output,
		"entries", res.Entries,
		"changed_lines", res.ChangedLines,
	)
	return res
}

// Run corrects every path with up to jobs files in flight. Files are
// independent: one failure never stops the others. Results come back in
// input order.
func (f *Fixer) Run(ctx context.Context, paths []string, jobs int) ([]Result, error) {
	if f.opts.Output != "" && len(paths) > 1 {
		return nil, ErrOutputWithManyFiles
	}
	if len(paths) == 0 {
		return []Result{}, nil
	}
	if jobs <= 0 {
		jobs = 1
	}

	runID := uuid.NewString()
	logger := f.logger.With("run", runID)
	logger.Infow("Starting subtitle correction",
		"files", len(paths),
		"jobs", jobs,
		"shift_ms", int64(f.opts.Shift),
		"stretch_ms", int64(f.opts.Stretch),
	)

	worker := &Fixer{opts: f.opts, logger: logger}
	results := make([]Result, len(paths))

	workChan := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < jobs && i < len(paths); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range workChan {
				results[idx] = worker.File(ctx, paths[idx])
			}
		}()
	}

	for i := range paths {
		workChan <- i
	}
	close(workChan)
	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			logger.Errorw("Failed to fix subtitle file", "file", r.Path, "error", r.Err)
		}
	}
	logger.Infow("Subtitle correction complete",
		"files", len(paths),
		"failed", failed,
	)

	return results, nil
}

func samePath(a, b string) bool {
	if a == b {
		return true
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
