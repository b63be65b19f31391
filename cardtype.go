package cardgen

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CardType identifies one of the fixed card template categories.
// The string value doubles as the template file name (without extension).
type CardType string

// Known card types.
const (
	TypePromocao   CardType = "promocao"
	TypeCupom      CardType = "cupom"
	TypeQuedaPreco CardType = "queda-de-preco"
	TypeCashback   CardType = "cashback"
	TypeBC         CardType = "bc"

	// TypeUnknown marks rows whose type text matches no known category.
	TypeUnknown CardType = ""
)

// foldText lower-cases, trims and strips diacritics so that "Promoção",
// "PROMOCAO" and " promoção " all compare equal.
func foldText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// NormalizeType maps a free-text card type label onto a CardType.
// Classification is by substring containment after folding; the order of
// the cases below is a deliberate tie-break, because multi-token labels
// such as "cupom promocional" must resolve by the first keyword.
func NormalizeType(raw string) CardType {
	s := foldText(raw)

	switch {
	case strings.Contains(s, "promo"):
		return TypePromocao
	case strings.Contains(s, "cupom"):
		return TypeCupom
	case strings.Contains(s, "queda"):
		return TypeQuedaPreco
	case strings.Contains(s, "cashback"):
		return TypeCashback
	case s == "bc":
		return TypeBC
	}
	return TypeUnknown
}
