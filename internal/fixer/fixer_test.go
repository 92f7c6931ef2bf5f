package fixer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mgpai22/fixsrt/internal/fileutil"
	"github.com/mgpai22/fixsrt/internal/rewrite"
	"github.com/mgpai22/fixsrt/internal/subtitle"
)

const bom = "\xef\xbb\xbf"

func writeSRT(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func frenchRules(t *testing.T) *rewrite.RuleSet {
	t.Helper()
	rs, err := rewrite.Load("fr")
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	return rs
}

func TestFileRewritesInPlaceWithBackup(t *testing.T) {
	dir := t.TempDir()
	original := "1\n00:00:01,000 --> 00:00:02,000\nCa va?\n\n2\n00:00:03,000 --> 00:00:04,000\nMerci\n"
	path := writeSRT(t, dir, "a.srt", original)

	f := New(Options{Rules: frenchRules(t), Backup: true}, nil)
	res := f.File(context.Background(), path)
	if res.Err != nil {
		t.Fatalf("File returned error: %v", res.Err)
	}

	want := bom +
		"1\r\n00:00:01,000 --> 00:00:02,000\r\nÇa va\u00a0?\r\n\r\n" +
		"2\r\n00:00:03,000 --> 00:00:04,000\r\nMerci\r\n\r\n"
	if got := readFile(t, path); got != want {
		t.Fatalf("unexpected output:\n got %q\nwant %q", got, want)
	}

	if res.Backup != path+"~" {
		t.Fatalf("backup = %q, want %q", res.Backup, path+"~")
	}
	if got := readFile(t, res.Backup); got != original {
		t.Fatalf("backup content changed: %q", got)
	}
	if res.Entries != 2 || res.ChangedLines != 1 {
		t.Errorf("entries=%d changed=%d, want 2 and 1", res.Entries, res.ChangedLines)
	}
	if res.Encoding != subtitle.EncodingUTF8 {
		t.Errorf("encoding = %q", res.Encoding)
	}
	if !res.OK() || len(res.Warnings) != 0 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestFileWithoutBackup(t *testing.T) {
	dir := t.TempDir()
	path := writeSRT(t, dir, "a.srt", "1\n00:00:01,000 --> 00:00:02,000\nHello\n")

	res := New(Options{}, nil).File(context.Background(), path)
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	if res.Backup != "" {
		t.Errorf("unexpected backup %q", res.Backup)
	}
	if _, err := os.Stat(path + "~"); !os.IsNotExist(err) {
		t.Errorf("backup file created: %v", err)
	}
}

func TestFileShiftAndStretch(t *testing.T) {
	dir := t.TempDir()
	path := writeSRT(t, dir, "a.srt",
		"1\n00:00:01,000 --> 00:00:02,000\na\n\n"+
			"2\n00:00:02,000 --> 00:00:03,000\nb\n\n"+
			"3\n00:00:03,000 --> 00:00:04,000\nc\n")

	res := New(Options{Shift: 500, Stretch: 300}, nil).File(context.Background(), path)
	if res.Err != nil {
		t.Fatal(res.Err)
	}

	sub, err := subtitle.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	wantStarts := []subtitle.Millis{1500, 2650, 3800}
	for i, e := range sub.Entries {
		if e.Start != wantStarts[i] {
			t.Errorf("entry %d start = %v, want %v", i, e.Start, wantStarts[i])
		}
	}
}

func TestFileOutputOverride(t *testing.T) {
	dir := t.TempDir()
	content := "1\n00:00:01,000 --> 00:00:02,000\nCa\n"
	path := writeSRT(t, dir, "in.srt", content)
	out := filepath.Join(dir, "out", "fixed.srt")

	res := New(Options{Rules: frenchRules(t), Backup: true, Output: out}, nil).
		File(context.Background(), path)
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	if res.Output != out {
		t.Errorf("output = %q, want %q", res.Output, out)
	}
	if res.Backup != "" {
		t.Errorf("no backup expected when the input is not overwritten, got %q", res.Backup)
	}
	if got := readFile(t, path); got != content {
		t.Errorf("input modified: %q", got)
	}
	if got := readFile(t, out); !strings.Contains(got, "Ça") {
		t.Errorf("output not corrected: %q", got)
	}
}

func TestFileParseErrorLeavesInputUntouched(t *testing.T) {
	dir := t.TempDir()
	content := "1\n00:00:01,000 --> 00:00:02,000\na\n\nnot a number\n"
	path := writeSRT(t, dir, "bad.srt", content)

	res := New(Options{Backup: true}, nil).File(context.Background(), path)

	var perr *subtitle.ParseError
	if !errors.As(res.Err, &perr) {
		t.Fatalf("expected ParseError, got %v", res.Err)
	}
	if perr.Line != 5 {
		t.Errorf("error line = %d, want 5", perr.Line)
	}
	if got := readFile(t, path); got != content {
		t.Errorf("input modified: %q", got)
	}
	if _, err := os.Stat(path + "~"); !os.IsNotExist(err) {
		t.Errorf("backup written for a failed parse")
	}
}

func TestFileBackupFailureIsWarning(t *testing.T) {
	dir := t.TempDir()
	path := writeSRT(t, dir, "a.srt", "1\n00:00:01,000 --> 00:00:02,000\nHello\n")

	// the backup path lands inside a regular file, so the copy fails
	res := New(Options{Backup: true, BackupSuffix: "/backup"}, nil).File(context.Background(), path)
	if res.Err != nil {
		t.Fatalf("backup failure should not be fatal: %v", res.Err)
	}
	if res.Backup != "" {
		t.Errorf("backup = %q, want none", res.Backup)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "no backup") {
		t.Errorf("warnings = %v", res.Warnings)
	}
	if got := readFile(t, path); !strings.HasPrefix(got, bom) {
		t.Errorf("file not rewritten: %q", got)
	}
}

func TestFileLocked(t *testing.T) {
	dir := t.TempDir()
	path := writeSRT(t, dir, "a.srt", "1\n00:00:01,000 --> 00:00:02,000\nHello\n")

	lock, err := fileutil.Lock(path)
	if err != nil {
		t.Fatal(err)
	}
	defer lock.Unlock()

	res := New(Options{}, nil).File(context.Background(), path)
	if !errors.Is(res.Err, fileutil.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", res.Err)
	}
}

func TestFileCancelledContext(t *testing.T) {
	dir := t.TempDir()
	path := writeSRT(t, dir, "a.srt", "1\n00:00:01,000 --> 00:00:02,000\nHello\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := New(Options{}, nil).File(ctx, path)
	if !errors.Is(res.Err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", res.Err)
	}
}

func TestRunKeepsOrderAndIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.srt", "b.srt", "c.srt", "d.srt", "e.srt"} {
		content := "1\n00:00:01,000 --> 00:00:02,000\nCa\n"
		if name == "c.srt" {
			content = "x\n"
		}
		paths = append(paths, writeSRT(t, dir, name, content))
	}
	paths = append(paths, filepath.Join(dir, "missing.srt"))

	results, err := New(Options{Rules: frenchRules(t)}, nil).Run(context.Background(), paths, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(paths) {
		t.Fatalf("got %d results, want %d", len(results), len(paths))
	}

	for i, r := range results {
		if r.Path != paths[i] {
			t.Errorf("result %d path = %q, want %q", i, r.Path, paths[i])
		}
		wantErr := i == 2 || i == 5
		if (r.Err != nil) != wantErr {
			t.Errorf("result %d err = %v, want error: %v", i, r.Err, wantErr)
		}
		if !wantErr && r.ChangedLines != 1 {
			t.Errorf("result %d changed lines = %d", i, r.ChangedLines)
		}
	}
	if !errors.Is(results[2].Err, subtitle.ErrBadIndex) {
		t.Errorf("c.srt err = %v, want ErrBadIndex", results[2].Err)
	}
}

func TestRunRejectsOutputWithManyFiles(t *testing.T) {
	f := New(Options{Output: "out.srt"}, nil)
	if _, err := f.Run(context.Background(), []string{"a.srt", "b.srt"}, 1); !errors.Is(err, ErrOutputWithManyFiles) {
		t.Fatalf("expected ErrOutputWithManyFiles, got %v", err)
	}
}

func TestRunEmpty(t *testing.T) {
	results, err := New(Options{}, nil).Run(context.Background(), nil, 4)
	if err != nil || len(results) != 0 {
		t.Fatalf("Run(nil) = %v, %v", results, err)
	}
}
