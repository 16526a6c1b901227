package matcher

import (
	"fmt"
	"regexp"

	"github.com/lexiweek/matcher/internal/domain"
)

// Negation regexes are boundary-anchored so "notice" never matches
// "not" and "nonsense" never matches the "non-" prefix.
var negationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bnot\b`),
	regexp.MustCompile(`(?i)\bwithout\b`),
	regexp.MustCompile(`(?i)\bnever\b`),
	regexp.MustCompile(`(?i)\bno\b`),
	regexp.MustCompile(`(?i)\bnone\b`),
	regexp.MustCompile(`(?i)\bneither\b`),
	regexp.MustCompile(`(?i)\bnor\b`),
	regexp.MustCompile(`(?i)\bnon-\w`),
}

// Qualifier patterns indicate the guess is answering a different kind
// of question than the theme intends (spelling, phonetics, length)
// rather than naming the connection itself.
var qualifierPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bbegins?\s+with\b`),
	regexp.MustCompile(`(?i)\bstarts?\s+with\b`),
	regexp.MustCompile(`(?i)\bends?\s+with\b`),
	regexp.MustCompile(`(?i)\brhymes?\s+with\b`),
	regexp.MustCompile(`(?i)\bsounds?\s+like\b`),
	regexp.MustCompile(`(?i)\bhas\s+\d+\s+letters?\b`),
	regexp.MustCompile(`(?i)\b\d+\s+letters?\s+long\b`),
	regexp.MustCompile(`(?i)\bspell(ed|ing|s)?\b`),
	regexp.MustCompile(`(?i)\banagrams?\b`),
}

// DetectNegation reports whether the guess targets the wrong kind of
// property, independent of semantic closeness. It penalizes when
// negation presence differs between theme and guess, or when the guess
// carries a qualifier pattern the theme does not.
func DetectNegation(themeRaw, guessRaw string) domain.NegationResult {
	res := domain.NegationResult{
		ThemeHasNegation:  matchesAny(negationPatterns, themeRaw),
		GuessHasNegation:  matchesAny(negationPatterns, guessRaw),
		ThemeHasQualifier: matchesAny(qualifierPatterns, themeRaw),
		GuessHasQualifier: matchesAny(qualifierPatterns, guessRaw),
	}

	switch {
	case res.GuessHasNegation && !res.ThemeHasNegation:
		res.ShouldPenalise = true
		res.Reason = "guess negates a property the theme asserts"
	case res.ThemeHasNegation && !res.GuessHasNegation:
		res.ShouldPenalise = true
		res.Reason = "theme negates a property the guess asserts"
	case res.GuessHasQualifier && !res.ThemeHasQualifier:
		res.ShouldPenalise = true
		res.Reason = fmt.Sprintf("guess %q targets a surface property the theme does not", guessRaw)
	}

	return res
}

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
