package main

import (
	"errors"
	"os"

	cardgen "github.com/promoforge/cardgen"
	"github.com/promoforge/cardgen/internal/config"
)

// Exit codes for the cardgen CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, custom codes < 126.
const (
	ExitSuccess = 0 // Archive produced (or empty input, which is not an error)
	ExitGeneral = 1 // General/unexpected error, or no row produced output
	ExitUsage   = 2 // Invalid flags or config
	ExitIO      = 3 // Workbook/output I/O problems
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must wrap with %w.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, cardgen.ErrBrowserConnect) ||
		errors.Is(err, cardgen.ErrPageCreate) ||
		errors.Is(err, cardgen.ErrPageLoad) ||
		errors.Is(err, cardgen.ErrPDFGeneration) {
		return ExitBrowser
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, cardgen.ErrWorkbookOpen) ||
		errors.Is(err, cardgen.ErrWorkbookEmpty) ||
		errors.Is(err, cardgen.ErrOutputDir) ||
		errors.Is(err, cardgen.ErrArchiveCreate) {
		return ExitIO
	}

	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidDimensions) ||
		errors.Is(err, cardgen.ErrInvalidTemplateDir) {
		return ExitUsage
	}

	return ExitGeneral
}
