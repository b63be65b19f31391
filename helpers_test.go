package cardgen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/promoforge/cardgen/internal/assets"
	"github.com/promoforge/cardgen/internal/config"
)

// fakePNG stands in for real image bytes; inlining never sniffs content.
var fakePNG = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 1, 2, 3}

// writeFileT writes a fixture file or fails the test.
func writeFileT(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", path, err)
	}
}

// newTestStores creates logo and seal directories with the default
// placeholder, one named logo and both seal assets.
func newTestStores(t *testing.T) *assets.Store {
	t.Helper()

	logosDir := t.TempDir()
	sealsDir := t.TempDir()
	writeFileT(t, filepath.Join(logosDir, assets.DefaultLogoName), fakePNG)
	writeFileT(t, filepath.Join(logosDir, "acme.png"), fakePNG)
	writeFileT(t, filepath.Join(sealsDir, "selo-novo.png"), fakePNG)
	writeFileT(t, filepath.Join(sealsDir, "selo-renovado.png"), fakePNG)

	store, err := assets.NewStore(logosDir, sealsDir, "")
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return store
}

// newTestTemplates creates a template directory holding the given types,
// each template carrying every placeholder token.
func newTestTemplates(t *testing.T, types ...CardType) *TemplateStore {
	t.Helper()

	dir := t.TempDir()
	const tpl = `<!DOCTYPE html>
<html><body>
<h1>{{TEXTO}}</h1>
<p class="value">{{VALOR}}</p>
<p>{{COMPLEMENTO}}</p>
<small>{{LEGAL}}</small>
<span>{{SEGMENTO}}</span>
<span>{{CUPOM}}</span>
<span>{{UF}}</span>
<span>{{URN}}</span>
<img src="{{LOGO}}">
<img src="{{SELO}}">
</body></html>`
	for _, typ := range types {
		writeFileT(t, filepath.Join(dir, string(typ)+".html"), []byte(tpl))
	}

	store, err := NewTemplateStore(dir)
	if err != nil {
		t.Fatalf("NewTemplateStore() error = %v", err)
	}
	return store
}

// writeWorkbook builds an xlsx fixture with the standard header row plus
// the given data rows.
func writeWorkbook(t *testing.T, header []string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetList()[0]

	cell, err := excelize.CoordinatesToCellName(1, 1)
	if err != nil {
		t.Fatalf("CoordinatesToCellName: %v", err)
	}
	headerAny := make([]any, len(header))
	for i, h := range header {
		headerAny[i] = h
	}
	if err := f.SetSheetRow(sheet, cell, &headerAny); err != nil {
		t.Fatalf("SetSheetRow(header): %v", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			t.Fatalf("CoordinatesToCellName: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow(row %d): %v", i, err)
		}
	}

	path := filepath.Join(t.TempDir(), "cards.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	return path
}

// newTestConfig wires a config around fixture directories matching the
// stores built above.
func newTestConfig(t *testing.T, templates *TemplateStore, store *assets.Store) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Templates.Dir = templates.dir
	cfg.Assets.LogosDir = store.LogosDir()
	cfg.Assets.SealsDir = store.SealsDir()
	cfg.Output.Dir = t.TempDir()
	return cfg
}
