package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	cardgen "github.com/promoforge/cardgen"
	"github.com/promoforge/cardgen/internal/config"
)

func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Environment{Stdout: &stdout, Stderr: &stderr}, &stdout, &stderr
}

func TestRunNoArgs(t *testing.T) {
	t.Parallel()

	env, _, stderr := testEnv()
	if code := run(nil, env); code != ExitUsage {
		t.Errorf("run() = %d, want ExitUsage", code)
	}
	if !strings.Contains(stderr.String(), "Usage: cardgen") {
		t.Errorf("stderr = %q, want usage text", stderr.String())
	}
}

func TestRunTooManyArgs(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv()
	if code := run([]string{"a.xlsx", "b.xlsx"}, env); code != ExitUsage {
		t.Errorf("run() = %d, want ExitUsage", code)
	}
}

func TestRunUnknownFlag(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv()
	if code := run([]string{"--bogus"}, env); code != ExitUsage {
		t.Errorf("run() = %d, want ExitUsage", code)
	}
}

func TestRunVersion(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv()
	if code := run([]string{"--version"}, env); code != ExitSuccess {
		t.Errorf("run() = %d, want ExitSuccess", code)
	}
	if got := strings.TrimSpace(stdout.String()); got != Version {
		t.Errorf("stdout = %q, want %q", got, Version)
	}
}

func TestRunMissingConfig(t *testing.T) {
	t.Parallel()

	env, _, stderr := testEnv()
	code := run([]string{"-c", "/nonexistent/cardgen.yaml", "cards.xlsx"}, env)
	if code != ExitUsage {
		t.Errorf("run() = %d, want ExitUsage", code)
	}
	if stderr.Len() == 0 {
		t.Error("config error not reported on stderr")
	}
}

func TestRunInvalidTemplateDir(t *testing.T) {
	t.Parallel()

	// The default config points at relative directories that do not exist
	// under a scratch working directory, so generator construction fails
	// before any browser work.
	env, _, stderr := testEnv()
	code := run([]string{"-o", t.TempDir(), "cards.xlsx"}, env)
	if code != ExitUsage {
		t.Errorf("run() = %d, want ExitUsage for missing template dir", code)
	}
	if stderr.Len() == 0 {
		t.Error("constructor error not reported on stderr")
	}
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitSuccess},
		{name: "browser connect", err: fmt.Errorf("wrap: %w", cardgen.ErrBrowserConnect), want: ExitBrowser},
		{name: "page create", err: cardgen.ErrPageCreate, want: ExitBrowser},
		{name: "page load", err: cardgen.ErrPageLoad, want: ExitBrowser},
		{name: "pdf generation", err: cardgen.ErrPDFGeneration, want: ExitBrowser},
		{name: "workbook open", err: fmt.Errorf("wrap: %w", cardgen.ErrWorkbookOpen), want: ExitIO},
		{name: "output dir", err: cardgen.ErrOutputDir, want: ExitIO},
		{name: "archive create", err: cardgen.ErrArchiveCreate, want: ExitIO},
		{name: "file not found", err: os.ErrNotExist, want: ExitIO},
		{name: "config not found", err: config.ErrConfigNotFound, want: ExitUsage},
		{name: "config parse", err: fmt.Errorf("wrap: %w", config.ErrConfigParse), want: ExitUsage},
		{name: "invalid dimensions", err: config.ErrInvalidDimensions, want: ExitUsage},
		{name: "template dir", err: cardgen.ErrInvalidTemplateDir, want: ExitUsage},
		{name: "anything else", err: errors.New("boom"), want: ExitGeneral},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
