package cardgen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/promoforge/cardgen/internal/assets"
)

// templateExt is appended to the canonical type name to form the template
// file name, e.g. "cupom" -> "cupom.html".
const templateExt = ".html"

// TemplateStore loads card templates from a read-only directory, one file
// per CardType. Loaded templates are cached for the store's lifetime.
type TemplateStore struct {
	dir string

	mu    sync.Mutex
	cache map[CardType]string
}

// NewTemplateStore creates a TemplateStore over dir.
func NewTemplateStore(dir string) (*TemplateStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidTemplateDir)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplateDir, err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplateDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidTemplateDir, absDir)
	}
	return &TemplateStore{dir: absDir, cache: make(map[CardType]string)}, nil
}

// Has reports whether a template file exists for the type. A CardType with
// no template is unrenderable for the current deployment, not an error.
func (s *TemplateStore) Has(t CardType) bool {
	if t == TypeUnknown {
		return false
	}
	_, err := s.load(t)
	return err == nil
}

// load returns the template text for the type, reading it at most once.
func (s *TemplateStore) load(t CardType) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tpl, ok := s.cache[t]; ok {
		return tpl, nil
	}
	b, err := os.ReadFile(filepath.Join(s.dir, string(t)+templateExt)) // #nosec G304 -- name is a fixed CardType constant
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRead, err)
	}
	s.cache[t] = string(b)
	return string(b), nil
}

// Render loads the template for the type and substitutes every placeholder
// token with row-derived, asset-derived and computed values.
//
// Substitution is literal, global and non-escaping: template content is
// trusted, and the LOGO/SELO slots carry raw data URIs. A token with no
// value substitutes the empty string, never "undefined" or an error; a
// template lacking a token simply never receives that substitution.
func (s *TemplateStore) Render(t CardType, row CardRow, store *assets.Store) (string, error) {
	tpl, err := s.load(t)
	if err != nil {
		return "", err
	}

	r := strings.NewReplacer(
		"{{TEXTO}}", row.Text,
		"{{VALOR}}", formatValue(t, row.Value),
		"{{COMPLEMENTO}}", row.Complement,
		"{{LEGAL}}", row.Legal,
		"{{SEGMENTO}}", row.Segment,
		"{{CUPOM}}", row.Coupon,
		"{{UF}}", labeled("UF: ", row.UF),
		"{{URN}}", labeled("URN: ", row.URN),
		"{{LOGO}}", store.ResolveLogo(row.Logo),
		"{{SELO}}", store.SealURI(row.Seal),
	)
	return r.Replace(tpl), nil
}

// formatValue normalizes the VALOR field. Every template except the
// promotion one renders its own fixed percent glyph, so an embedded sign
// would show up twice.
func formatValue(t CardType, v string) string {
	v = strings.TrimSpace(v)
	if t == TypePromocao {
		return v
	}
	return strings.ReplaceAll(v, "%", "")
}

// labeled prefixes a non-empty value with its descriptive label; an empty
// value yields "" so the template slot can collapse.
func labeled(label, v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	return label + v
}
