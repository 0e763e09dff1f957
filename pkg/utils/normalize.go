// =============================================================================
// Sales Ledger - Text Normalization Utility
// =============================================================================
//
// Header cells in real ledgers are typed by hand: "ARTÍCULO", "Artículo ",
// "Nombre del artículo" all name the same column. Normalize reduces such
// variants to one canonical spelling so the synonym table can match them.
//
// STEPS:
//   1. Decompose (NFD) and drop combining marks ("í" -> "i")
//   2. Recompose (NFC)
//   3. Collapse whitespace runs, including non-breaking spaces, to one space
//   4. Trim and case-fold
//
// =============================================================================

package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes free text for tolerant comparison.
// Empty input yields an empty string; it never fails.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	// Transformers carry state, so the chain is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		// Invalid UTF-8 sequences are left as-is rather than dropped.
		stripped = s
	}

	// strings.Fields splits on unicode.IsSpace, which covers U+00A0.
	collapsed := strings.Join(strings.Fields(stripped), " ")

	return cases.Fold().String(collapsed)
}
