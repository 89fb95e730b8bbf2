// Package textnorm normaliza textos en turco para búsquedas y comparación de nombres.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold pasa a minúsculas con reglas turcas (I→ı, İ→i) y colapsa espacios.
func Fold(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return cases.Lower(language.Turkish).String(s)
}

// Key devuelve una clave sin diacríticos para comparar encabezados y nombres
// ("Ürün Adı", "urun adi" y "ÜRÜN ADI" producen la misma clave).
func Key(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, Fold(s))
	if err != nil {
		out = Fold(s)
	}
	return strings.ReplaceAll(out, "ı", "i")
}

// Contains indica si needle aparece en haystack ignorando mayúsculas y diacríticos.
func Contains(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(Key(haystack), Key(needle))
}
