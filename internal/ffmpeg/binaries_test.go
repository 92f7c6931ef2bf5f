package ffmpeg

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func fakeEnv(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLocatePrefersEnv(t *testing.T) {
	dir := t.TempDir()
	ffmpegPath := filepath.Join(dir, "my-ffmpeg")
	ffprobePath := filepath.Join(dir, "my-ffprobe")
	for _, p := range []string{ffmpegPath, ffprobePath} {
		if err := os.WriteFile(p, []byte("#!/bin/sh\n"), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	lookPath := func(name string) (string, error) {
		t.Errorf("unexpected PATH lookup for %s", name)
		return "", errors.New("not called")
	}

	paths, err := locate(fakeEnv(map[string]string{
		ffmpegEnv:  ffmpegPath,
		ffprobeEnv: ffprobePath,
	}), lookPath)
	if err != nil {
		t.Fatalf("locate returned error: %v", err)
	}
	if paths.FFmpeg != ffmpegPath || paths.FFprobe != ffprobePath {
		t.Fatalf("unexpected paths: %+v", paths)
	}
}

func TestLocateFallsBackToPath(t *testing.T) {
	lookPath := func(name string) (string, error) {
		return "/usr/bin/" + name, nil
	}

	paths, err := locate(fakeEnv(nil), lookPath)
	if err != nil {
		t.Fatalf("locate returned error: %v", err)
	}
	if paths.FFmpeg != "/usr/bin/ffmpeg" || paths.FFprobe != "/usr/bin/ffprobe" {
		t.Fatalf("unexpected paths: %+v", paths)
	}
}

func TestLocateErrors(t *testing.T) {
	missing := func(string) (string, error) { return "", errors.New("not on PATH") }

	if _, err := locate(fakeEnv(nil), missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	env := fakeEnv(map[string]string{ffmpegEnv: filepath.Join(t.TempDir(), "nope")})
	found := func(name string) (string, error) { return "/usr/bin/" + name, nil }
	if _, err := locate(env, found); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing configured binary, got %v", err)
	}
}
