package cardgen

import (
	"errors"
	"path/filepath"
	"testing"
)

var standardHeader = []string{
	"Ordem", "Tipo", "Texto", "Valor", "Complemento", "Legal",
	"UF", "Segmento", "Cupom", "Selo", "Categoria", "Logo", "URN",
}

func TestReadWorkbook(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, standardHeader, [][]any{
		{"1", "Cupom", "Leve 2 pague 1", "50%", "na segunda", "Regras no site",
			"SP", "Mercado", "LEVE2", "novo", "Alimentos", "acme.png", "X1"},
		{nil, "Promoção", "Frete grátis"},
	})

	rows, err := ReadWorkbook(path)
	if err != nil {
		t.Fatalf("ReadWorkbook() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ReadWorkbook() returned %d rows, want 2", len(rows))
	}

	first := rows[0]
	if first.Order != "1" || first.Type != "Cupom" || first.Text != "Leve 2 pague 1" {
		t.Errorf("first row core fields = %+v", first)
	}
	if first.Value != "50%" || first.UF != "SP" || first.Seal != "novo" {
		t.Errorf("first row detail fields = %+v", first)
	}
	if first.Category != "Alimentos" || first.Logo != "acme.png" || first.URN != "X1" {
		t.Errorf("first row asset fields = %+v", first)
	}

	second := rows[1]
	if second.Type != "Promoção" || second.Text != "Frete grátis" {
		t.Errorf("second row = %+v", second)
	}
	// Absent cells default to empty strings, never error.
	if second.Order != "" || second.Value != "" || second.Logo != "" {
		t.Errorf("second row missing cells not defaulted: %+v", second)
	}
}

func TestReadWorkbookHeaderVariants(t *testing.T) {
	t.Parallel()

	// Accented, cased and English headers map onto the same fields, and
	// column order is irrelevant.
	path := writeWorkbook(t,
		[]string{"TEXTO", "type", "Válor", "categoria"},
		[][]any{{"texto da oferta", "cupom", "10", "Bebidas"}},
	)

	rows, err := ReadWorkbook(path)
	if err != nil {
		t.Fatalf("ReadWorkbook() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	r := rows[0]
	if r.Text != "texto da oferta" || r.Type != "cupom" || r.Value != "10" || r.Category != "Bebidas" {
		t.Errorf("row = %+v", r)
	}
}

func TestReadWorkbookHeaderOnly(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, standardHeader, nil)

	rows, err := ReadWorkbook(path)
	if err != nil {
		t.Fatalf("ReadWorkbook() error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}

func TestReadWorkbookMissingFile(t *testing.T) {
	t.Parallel()

	_, err := ReadWorkbook(filepath.Join(t.TempDir(), "missing.xlsx"))
	if !errors.Is(err, ErrWorkbookOpen) {
		t.Errorf("ReadWorkbook(missing) error = %v, want ErrWorkbookOpen", err)
	}
}

func TestMapColumnsIgnoresUnknownHeaders(t *testing.T) {
	t.Parallel()

	cols := mapColumns([]string{"Tipo", "Observações internas", "Valor"})
	if len(cols) != 2 {
		t.Errorf("mapColumns() mapped %d columns, want 2", len(cols))
	}
	if _, ok := cols[1]; ok {
		t.Error("unknown header was mapped to a field")
	}
}
