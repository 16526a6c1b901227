package matcher

import (
	"strings"

	"github.com/lexiweek/matcher/internal/domain"
)

// Default templates wrapping raw text before it is sent to the
// semantic models. The plain pair is used when no context words are
// available; the contextual pair embeds the week's other words.
const (
	DefaultThemeTemplate           = "What connects this week's words? {theme}"
	DefaultGuessTemplate           = "{guess}"
	DefaultThemeTemplateContextual = "What connects the words {words}? {theme}"
	DefaultGuessTemplateContextual = "What connects the words {words}? {guess}"
)

// Templates is the full template set used by Prepare. Zero-value
// fields fall back to the package defaults.
type Templates struct {
	Theme           string
	Guess           string
	ThemeContextual string
	GuessContextual string
}

func (t Templates) withDefaults() Templates {
	if t.Theme == "" {
		t.Theme = DefaultThemeTemplate
	}
	if t.Guess == "" {
		t.Guess = DefaultGuessTemplate
	}
	if t.ThemeContextual == "" {
		t.ThemeContextual = DefaultThemeTemplateContextual
	}
	if t.GuessContextual == "" {
		t.GuessContextual = DefaultGuessTemplateContextual
	}
	return t
}

// Prepare splits a theme/guess pair into its raw (trim-only) and
// processed (template-wrapped) forms. Raw strings are what the lexical
// analyzers consume; only the processed strings may reach the network
// producers. Contextual templates are selected iff contextWords is
// non-empty. Pure function, no failure modes.
func Prepare(rawTheme, rawGuess string, contextWords []string, tpl Templates) domain.PreparedInputs {
	tpl = tpl.withDefaults()

	theme := strings.TrimSpace(rawTheme)
	guess := strings.TrimSpace(rawGuess)

	words := make([]string, 0, len(contextWords))
	for _, w := range contextWords {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}

	themeTpl, guessTpl := tpl.Theme, tpl.Guess
	if len(words) > 0 {
		themeTpl, guessTpl = tpl.ThemeContextual, tpl.GuessContextual
	}

	joined := strings.Join(words, ", ")

	return domain.PreparedInputs{
		Raw: domain.RawInputs{
			Theme:        theme,
			Guess:        guess,
			ContextWords: words,
		},
		Processed: domain.ProcessedInputs{
			Theme: expandTemplate(themeTpl, theme, guess, joined),
			Guess: expandTemplate(guessTpl, theme, guess, joined),
		},
		TemplatesUsed: domain.TemplatesUsed{
			Theme: themeTpl,
			Guess: guessTpl,
		},
	}
}

func expandTemplate(tpl, theme, guess, words string) string {
	r := strings.NewReplacer(
		"{theme}", theme,
		"{guess}", guess,
		"{words}", words,
	)
	return r.Replace(tpl)
}
