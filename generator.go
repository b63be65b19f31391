package cardgen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/promoforge/cardgen/internal/assets"
	"github.com/promoforge/cardgen/internal/config"
	"github.com/promoforge/cardgen/internal/fileutil"
)

// noCategorySlug names output files for rows that carry no category.
const noCategorySlug = "sem-categoria"

// progressBuffer sizes the snapshot channel. Emission is fire-and-forget:
// when the consumer lags past the buffer, snapshots are dropped rather
// than blocking the row loop.
const progressBuffer = 64

// filePermissions is used for produced card documents.
const filePermissions = 0o644

// Generator drives the card generation pipeline: it classifies rows,
// renders each one through a shared browser instance, names the output
// artifacts, publishes progress and packs the archive.
//
// A Generator owns exactly one rendering engine for its lifetime. Close
// releases it and ends the progress stream; call Close on every exit path,
// including after a failed run.
type Generator struct {
	cfg       generatorConfig
	templates *TemplateStore
	assets    *assets.Store
	renderer  docRenderer
	outputDir string
	log       *slog.Logger

	progress  chan ProgressSnapshot
	closeOnce sync.Once
}

// NewGenerator creates a Generator from the service configuration.
// Use options to adjust behavior (e.g. WithRowTimeout, WithCardSize).
func NewGenerator(cfg *config.Config, opts ...Option) (*Generator, error) {
	templates, err := NewTemplateStore(cfg.Templates.Dir)
	if err != nil {
		return nil, err
	}
	store, err := assets.NewStore(cfg.Assets.LogosDir, cfg.Assets.SealsDir, cfg.Assets.DefaultLogo)
	if err != nil {
		return nil, err
	}
	if cfg.Output.Dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrOutputDir)
	}

	g := &Generator{
		cfg: generatorConfig{
			rowTimeout: defaultRowTimeout,
			widthPx:    DefaultCardWidthPx,
			heightPx:   DefaultCardHeightPx,
		},
		templates: templates,
		assets:    store,
		outputDir: cfg.Output.Dir,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		progress:  make(chan ProgressSnapshot, progressBuffer),
	}

	// Config file values first, options override.
	if cfg.Card.WidthPx > 0 && cfg.Card.HeightPx > 0 {
		g.cfg.widthPx = cfg.Card.WidthPx
		g.cfg.heightPx = cfg.Card.HeightPx
	}
	if d := cfg.Card.RowTimeout(); d > 0 {
		g.cfg.rowTimeout = d
	}

	for _, opt := range opts {
		opt(g)
	}

	// Create the renderer if not injected (e.g., by tests). The browser
	// itself connects lazily on the first composed card.
	if g.renderer == nil {
		g.renderer = newRodRenderer(g.cfg.rowTimeout, g.cfg.widthPx, g.cfg.heightPx)
	}

	return g, nil
}

// Progress returns the stream of snapshots for the generator's runs, in
// processing order. The channel is closed by Close.
func (g *Generator) Progress() <-chan ProgressSnapshot {
	return g.progress
}

// Close releases the rendering engine and closes the progress stream.
func (g *Generator) Close() error {
	var err error
	g.closeOnce.Do(func() {
		err = g.renderer.Close()
		close(g.progress)
	})
	return err
}

// job is one renderable row, owned exclusively by one loop iteration.
type job struct {
	seq int // 1-based position among renderable rows
	typ CardType
	row CardRow
}

// Generate runs the whole pipeline for one workbook and returns the
// outcome. Per-row anomalies are logged and skipped; only engine-level or
// I/O-level failures are returned as errors.
func (g *Generator) Generate(ctx context.Context, workbookPath string) (*Result, error) {
	runID := uuid.NewString()
	log := g.log.With("run", runID)

	// Stale artifacts from a prior run must not leak into this archive.
	if err := fileutil.ClearDir(g.outputDir); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutputDir, err)
	}

	rows, err := ReadWorkbook(workbookPath)
	if err != nil {
		return nil, err
	}

	jobs := g.classify(rows, log)

	res := &Result{RunID: runID, Total: len(jobs)}
	if len(jobs) == 0 {
		res.Outcome = OutcomeEmptyInput
		log.Info("no renderable rows in workbook", "rows", len(rows))
		return res, nil
	}

	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := g.renderRow(ctx, j, res, log); err != nil {
			return nil, err
		}
	}

	if res.Processed == 0 {
		res.Outcome = OutcomeNoOutput
		log.Warn("no row produced output", "total", res.Total)
		return res, nil
	}

	archivePath, err := BuildArchive(g.outputDir)
	if err != nil {
		return nil, err
	}
	res.ArchivePath = archivePath
	res.Outcome = OutcomeArchive

	if err := writeReport(g.outputDir, res); err != nil {
		log.Warn("run report not written", "error", err)
	}

	log.Info("generation complete",
		"processed", res.Processed, "total", res.Total, "archive", filepath.Base(archivePath))
	return res, nil
}

// classify filters rows down to the renderable ones. Only the
// type-and-template check gates inclusion: the total is fixed here, and
// rows that later fail for other reasons still count toward it.
func (g *Generator) classify(rows []CardRow, log *slog.Logger) []job {
	var jobs []job
	for _, row := range rows {
		t := NormalizeType(row.Type)
		if t == TypeUnknown {
			continue
		}
		if !g.templates.Has(t) {
			// Configuration gap, not a data error: this deployment simply
			// does not render the category.
			log.Info("no template for card type, row skipped", "type", string(t))
			continue
		}
		jobs = append(jobs, job{seq: len(jobs) + 1, typ: t, row: row})
	}
	return jobs
}

// renderRow renders one card, writes its artifact and publishes progress.
// Row-level failures are absorbed (counted and logged); the returned error
// is reserved for failures that must abort the run.
func (g *Generator) renderRow(ctx context.Context, j job, res *Result, log *slog.Logger) error {
	markup, err := g.templates.Render(j.typ, j.row, g.assets)
	if err != nil {
		res.Skipped++
		log.Warn("template render failed, row skipped", "type", string(j.typ), "error", err)
		return nil
	}

	rowCtx, cancel := context.WithTimeout(ctx, g.cfg.rowTimeout)
	pdf, err := g.renderer.ComposePDF(rowCtx, markup)
	cancel()
	if err != nil {
		if errors.Is(err, ErrBrowserConnect) || errors.Is(err, ErrPageCreate) {
			// The engine is gone; the remaining rows cannot render.
			return err
		}
		res.Skipped++
		log.Warn("card composition failed, row skipped", "type", string(j.typ), "error", err)
		return nil
	}

	name := g.artifactName(j)
	if err := os.WriteFile(filepath.Join(g.outputDir, name), pdf, filePermissions); err != nil {
		return fmt.Errorf("writing card %s: %w", name, err)
	}

	res.Files = append(res.Files, name)
	res.Processed++
	g.emit(ProgressSnapshot{
		Total:       res.Total,
		Processed:   res.Processed,
		Percentage:  int(math.Round(float64(res.Processed) / float64(res.Total) * 100)),
		CurrentCard: name,
	})
	return nil
}

// artifactName computes {order}_{type}_{category}.pdf. Order defaults to
// the row's 1-based renderable sequence, category to the "sem-categoria"
// sentinel. A name already taken on disk gets a -2, -3, ... suffix instead
// of silently overwriting the earlier card.
func (g *Generator) artifactName(j job) string {
	order := slugify(j.row.Order)
	if order == "" {
		order = strconv.Itoa(j.seq)
	}
	category := slugify(j.row.Category)
	if category == "" {
		category = noCategorySlug
	}

	base := order + "_" + string(j.typ) + "_" + category
	name := base + ".pdf"
	for n := 2; fileutil.FileExists(filepath.Join(g.outputDir, name)); n++ {
		name = fmt.Sprintf("%s-%d.pdf", base, n)
	}
	return name
}

// emit publishes a snapshot without ever blocking the row loop.
func (g *Generator) emit(s ProgressSnapshot) {
	select {
	case g.progress <- s:
	default:
		g.log.Warn("progress consumer lagging, snapshot dropped", "processed", s.Processed)
	}
}

// slugify folds s and reduces it to [a-z0-9-] for safe use in file names.
func slugify(s string) string {
	s = foldText(s)
	var b strings.Builder
	pendingDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		default:
			pendingDash = true
		}
	}
	return b.String()
}
