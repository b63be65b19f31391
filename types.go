package cardgen

import (
	"log/slog"
	"time"
)

// CardRow is one input record derived from one line of the spreadsheet.
// Every field defaults to the empty string when the cell is absent; a row
// with no recognizable Type is inert.
type CardRow struct {
	Order      string // optional, used for output ordering
	Type       string // free text, classified by NormalizeType
	Text       string
	Value      string // numeric or percentage-like string
	Complement string
	Legal      string
	UF         string
	Segment    string
	Coupon     string
	Seal       string // "novo", "renovado" or empty
	Category   string // optional grouping label
	Logo       string // optional asset reference (file name in the logo store)
	URN        string // optional reference code
}

// ProgressSnapshot is broadcast after every successfully rendered card.
// Processed is monotonically non-decreasing across a single run and never
// exceeds Total.
type ProgressSnapshot struct {
	Total       int    `json:"total"`
	Processed   int    `json:"processed"`
	Percentage  int    `json:"percentage"`
	CurrentCard string `json:"currentCard"`
}

// Outcome classifies the result of a generation run.
type Outcome int

const (
	// OutcomeArchive means at least one card was rendered and archived.
	OutcomeArchive Outcome = iota

	// OutcomeEmptyInput means no row had a renderable type; the rendering
	// surface was never touched.
	OutcomeEmptyInput

	// OutcomeNoOutput means renderable rows existed but every one of them
	// failed to produce a document.
	OutcomeNoOutput
)

// String returns a short label for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeArchive:
		return "archive"
	case OutcomeEmptyInput:
		return "empty-input"
	case OutcomeNoOutput:
		return "no-output"
	}
	return "unknown"
}

// Result reports the outcome of one generation run.
type Result struct {
	Outcome     Outcome
	RunID       string
	ArchivePath string // set only when Outcome == OutcomeArchive
	Total       int    // rows whose normalized type had a template
	Processed   int    // cards actually rendered
	Skipped     int    // renderable rows that failed and were skipped
	Files       []string
}

// Default card dimensions in CSS pixels (9:16 social card) and the
// conversion factor to print inches.
const (
	DefaultCardWidthPx  = 1080
	DefaultCardHeightPx = 1920
	pixelsPerInch       = 96.0
)

// defaultRowTimeout bounds the load-and-idle wait of a single card; a row
// that exceeds it is skipped, not the whole run.
const defaultRowTimeout = 30 * time.Second

// Option configures a Generator.
type Option func(*Generator)

// generatorConfig holds internal configuration for Generator.
type generatorConfig struct {
	rowTimeout time.Duration
	widthPx    int
	heightPx   int
}

// WithRowTimeout sets the per-card rendering timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithRowTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("cardgen: WithRowTimeout duration must be positive")
	}
	return func(g *Generator) {
		g.cfg.rowTimeout = d
	}
}

// WithCardSize sets the card dimensions in CSS pixels.
// Panics if either dimension is not positive.
func WithCardSize(widthPx, heightPx int) Option {
	if widthPx <= 0 || heightPx <= 0 {
		panic("cardgen: WithCardSize dimensions must be positive")
	}
	return func(g *Generator) {
		g.cfg.widthPx = widthPx
		g.cfg.heightPx = heightPx
	}
}

// WithLogger sets the logger used for per-row skip decisions and run
// milestones. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}
