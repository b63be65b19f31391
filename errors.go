package cardgen

import "errors"

// Sentinel errors for pipeline operations.
var (
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load card page")
	ErrPDFGeneration  = errors.New("PDF generation failed")

	// Workbook ingestion errors.
	ErrWorkbookOpen  = errors.New("failed to open workbook")
	ErrWorkbookEmpty = errors.New("workbook has no sheets")

	// Store configuration errors.
	ErrInvalidTemplateDir = errors.New("invalid template directory")
	ErrTemplateRead       = errors.New("failed to read template")

	// Run-level errors.
	ErrOutputDir     = errors.New("invalid output directory")
	ErrArchiveCreate = errors.New("failed to create archive")
)
