// Package names provides the rule-based cleanup of legacy free-text account
// names. The canonical form is a heuristic join key between the old and the
// new schema: it is deliberately lossy, and collisions are what merge
// near-duplicate legacy names into one category.
package names

import (
	"regexp"
	"strings"
)

var (
	trailingAnnotation = regexp.MustCompile(`\s*\((?:INTERES|INTERÉS|PAGOS)\)\s*$`)
	trailingHashCode   = regexp.MustCompile(`\s*#\d+\s*$`)
	trailingYearCode   = regexp.MustCompile(`\s+\d{4}$`)
	ordinalToken       = regexp.MustCompile(`\b(?:6TO|7MO)\b`)
	whitespaceRun      = regexp.MustCompile(`\s+`)
	nonLetterRun       = regexp.MustCompile(`[^A-Z ]`)
)

// Canonical returns the canonical join key for a legacy account name.
// Rules, in order: uppercase; drop a trailing (PAGOS)/(INTERES) annotation;
// drop a trailing #<digits> code; drop a trailing 4-digit token when a space
// precedes it; drop 6TO/7MO ordinal tokens; collapse whitespace and trim.
// The suffix rules run until they stop matching so that stacked suffixes
// ("VISA 2023 (PAGOS)") reduce fully and the function is idempotent.
func Canonical(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))

	for {
		prev := s
		s = trailingAnnotation.ReplaceAllString(s, "")
		s = trailingHashCode.ReplaceAllString(s, "")
		s = trailingYearCode.ReplaceAllString(s, "")
		if s == prev {
			break
		}
	}

	s = ordinalToken.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// LoanBase strips only the payment-side annotations from a legacy account
// name, leaving everything else untouched. Loans join on the raw
// disbursement-side name, so this must not collapse codes or ordinals the
// way Canonical does: "LOAN A 2023 (PAGOS)" must still find "LOAN A 2023".
func LoanBase(raw string) string {
	s := strings.TrimSpace(raw)
	for _, annotation := range []string{"(PAGOS)", "(INTERES)", "(INTERÉS)"} {
		s = strings.ReplaceAll(s, annotation, "")
	}
	return strings.TrimSpace(s)
}

// LettersOnly reduces a name to uppercase A-Z words. It is the key of the
// transfer counterpart-account lookup table, which must survive punctuation
// and digit noise in savings account names.
func LettersOnly(raw string) string {
	s := strings.ToUpper(raw)
	s = nonLetterRun.ReplaceAllString(s, " ")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
