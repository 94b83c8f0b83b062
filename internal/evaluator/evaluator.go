// Package evaluator compares free-text answers against expected answers.
//
// Two policies exist. Diagnostic answers are short, so they are compared
// exactly: numerically when both sides parse as numbers, otherwise as
// case-insensitive trimmed strings. Tutoring replies are conversational, so
// they are judged by whether any number in the message also appears in the
// expected answer.
package evaluator

import (
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

var (
	decimalPattern   = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)
	fractionPattern  = regexp.MustCompile(`^[+-]?\d+\s*/\s*\d+$`)
	thousandsPattern = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)
	numberToken      = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// CheckDiagnostic reports whether submitted matches expected.
//
// Normalization rules:
// - Whitespace is trimmed
// - Integers ignore leading zeros ("007" matches "7")
// - Decimals ignore trailing zeros ("3.50" matches "3.5")
// - Fractions match equivalent values ("2/4" matches "1/2" and "0.5")
// - Thousands separators are accepted ("1,200" matches "1200")
// - Anything non-numeric is compared case-insensitively
func CheckDiagnostic(submitted, expected string) bool {
	submitted = strings.TrimSpace(submitted)
	expected = strings.TrimSpace(expected)
	if submitted == "" {
		return false
	}

	s, sok := parseNumber(submitted)
	e, eok := parseNumber(expected)
	if sok && eok {
		return s.Cmp(e) == 0
	}
	return strings.EqualFold(submitted, expected)
}

// parseNumber parses integers, decimals, fractions and comma-grouped
// numbers into an exact rational.
func parseNumber(s string) (*big.Rat, bool) {
	s = strings.TrimSpace(s)
	if thousandsPattern.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	}

	switch {
	case decimalPattern.MatchString(s):
		r, ok := new(big.Rat).SetString(strings.TrimPrefix(s, "+"))
		return r, ok

	case fractionPattern.MatchString(s):
		num, den, err := parseFraction(s)
		if err != nil || den == 0 {
			return nil, false
		}
		return big.NewRat(num, den), true
	}
	return nil, false
}

// parseFraction parses "a/b" into numerator and denominator.
func parseFraction(s string) (int64, int64, error) {
	parts := strings.SplitN(s, "/", 2)
	num, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(parts[0]), "+"), 10, 64)
	if err != nil {
		return 0, 0, err
	}
	den, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return num, den, nil
}

// ExtractNumbers returns the unsigned integer and decimal tokens found in s,
// normalized so that "7", "07" and "7.0" produce the same token. Order of
// first appearance is kept and duplicates are dropped.
func ExtractNumbers(s string) []string {
	matches := numberToken.FindAllString(s, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		n := normalizeToken(m)
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func normalizeToken(tok string) string {
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return tok
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ContainsExpectedNumber reports whether the number sets of message and
// expected intersect. It accepts a correct number embedded in a sentence
// ("I think it's 42!") and is order- and unit-insensitive, so incidental
// numbers can produce false positives.
func ContainsExpectedNumber(message, expected string) bool {
	want := ExtractNumbers(expected)
	if len(want) == 0 {
		return false
	}
	got := make(map[string]bool)
	for _, n := range ExtractNumbers(message) {
		got[n] = true
	}
	for _, n := range want {
		if got[n] {
			return true
		}
	}
	return false
}
