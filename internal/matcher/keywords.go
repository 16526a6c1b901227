package matcher

import (
	"strings"
	"unicode"

	"github.com/lexiweek/matcher/internal/domain"
)

// Match scores in strictly descending priority. The first method that
// produces a hit wins; later methods are not consulted for that keyword.
const (
	scoreExact     = 1.0
	scoreStem      = 0.9
	scoreSynonym   = 0.6
	scoreSubstring = 0.3
)

// defaultStopWords are dropped during tokenization. Besides the usual
// articles and function words, the set contains meta-words ("theme",
// "connects", "describe", ...) that players use to talk about the
// puzzle itself and that would otherwise pollute every comparison.
var defaultStopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "was": {}, "were": {},
	"but": {}, "not": {}, "you": {}, "your": {}, "all": {}, "any": {},
	"can": {}, "had": {}, "has": {}, "have": {}, "her": {}, "his": {},
	"its": {}, "our": {}, "out": {}, "she": {}, "they": {}, "them": {},
	"their": {}, "this": {}, "that": {}, "these": {}, "those": {},
	"what": {}, "which": {}, "with": {}, "from": {}, "into": {},
	"about": {}, "some": {}, "something": {}, "things": {}, "thing": {},
	"kind": {}, "sort": {}, "type": {}, "types": {},

	// Puzzle meta-words.
	"theme": {}, "themes": {}, "connect": {}, "connects": {},
	"connection": {}, "connecting": {}, "describe": {}, "describes": {},
	"describing": {}, "related": {}, "relating": {}, "word": {},
	"words": {}, "week": {}, "weeks": {}, "weekly": {}, "answer": {},
	"guess": {}, "common": {},
}

// defaultSynonyms maps a keyword to terms treated as equivalent at
// synonym strength. Lookups consult both directions, so entries only
// need to be declared once.
var defaultSynonyms = map[string][]string{
	"fear":    {"phobia", "terror", "dread", "fright"},
	"phobia":  {"fear"},
	"film":    {"movie", "cinema", "picture"},
	"movie":   {"film", "cinema"},
	"big":     {"large", "huge", "giant"},
	"small":   {"little", "tiny"},
	"happy":   {"joyful", "glad", "cheerful"},
	"sad":     {"unhappy", "gloomy"},
	"begin":   {"start", "commence"},
	"start":   {"begin"},
	"end":     {"finish", "stop", "conclude"},
	"group":   {"collection", "set", "cluster", "bunch"},
	"animal":  {"creature", "beast"},
	"repeat":  {"recur", "echo", "duplicate"},
	"sport":   {"game", "athletics"},
	"job":     {"occupation", "profession", "career", "work"},
	"money":   {"currency", "cash"},
	"food":    {"dish", "meal", "cuisine"},
	"color":   {"colour", "hue", "shade"},
	"colour":  {"color", "hue", "shade"},
	"sound":   {"noise"},
	"place":   {"location", "spot"},
	"country": {"nation", "state"},
	"city":    {"town"},
	"water":   {"liquid", "aqua"},
	"weather": {"climate"},
	"body":    {"anatomy"},
	"music":   {"song", "melody", "tune"},
	"bird":    {"fowl", "avian"},
	"tool":    {"instrument", "implement"},
	"shape":   {"form", "figure"},
	"name":    {"title"},
	"old":     {"ancient", "antique"},
	"fast":    {"quick", "rapid", "speedy"},
	"hidden":  {"concealed", "secret"},
	"double":  {"twin", "pair", "dual"},
}

// stemSuffixes are stripped by lightStem, longest first so "-ness"
// wins over "-s" and "-ies" over "-es".
var stemSuffixes = []string{"ness", "ies", "ing", "ful", "es", "ed", "ly", "s"}

// KeywordAnalyzer computes lexical overlap between raw theme and guess
// text. It never performs I/O and is deterministic for fixed inputs.
type KeywordAnalyzer struct {
	stopWords  map[string]struct{}
	synonyms   map[string][]string
	overlapMin float64
}

// KeywordOption customizes a KeywordAnalyzer.
type KeywordOption func(*KeywordAnalyzer)

// WithExtraStopWords extends the built-in stop-word set.
func WithExtraStopWords(words []string) KeywordOption {
	return func(a *KeywordAnalyzer) {
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				a.stopWords[w] = struct{}{}
			}
		}
	}
}

// WithSynonyms replaces the built-in synonym dictionary.
func WithSynonyms(synonyms map[string][]string) KeywordOption {
	return func(a *KeywordAnalyzer) {
		a.synonyms = synonyms
	}
}

// NewKeywordAnalyzer creates an analyzer with the given match
// threshold (weightedOverlap >= overlapMin counts as a lexical match).
func NewKeywordAnalyzer(overlapMin float64, opts ...KeywordOption) *KeywordAnalyzer {
	a := &KeywordAnalyzer{
		stopWords:  make(map[string]struct{}, len(defaultStopWords)),
		synonyms:   defaultSynonyms,
		overlapMin: overlapMin,
	}
	for w := range defaultStopWords {
		a.stopWords[w] = struct{}{}
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Overlap scores how much of the theme's substance appears in the
// guess. For every theme keyword the best available match is found in
// strictly descending priority: exact, shared light stem, synonym (in
// either direction), substring containment (either way), none.
// WeightedOverlap is the mean of best scores; a theme with no keywords
// is vacuously satisfied (overlap 1).
func (a *KeywordAnalyzer) Overlap(themeRaw, guessRaw string) domain.KeywordOverlapResult {
	themeKw := a.Keywords(themeRaw)
	guessKw := a.Keywords(guessRaw)

	res := domain.KeywordOverlapResult{
		ThemeKeywords: themeKw,
		GuessKeywords: guessKw,
		MatchDetails:  make([]domain.MatchDetail, 0, len(themeKw)),
	}

	if len(themeKw) == 0 {
		res.WeightedOverlap = 1
		res.Overlap = 1
		res.IsMatch = true
		return res
	}

	var sum float64
	var matched int
	for _, tk := range themeKw {
		detail := a.bestMatch(tk, guessKw)
		res.MatchDetails = append(res.MatchDetails, detail)
		sum += detail.Score
		if detail.MatchType != domain.MatchNone {
			matched++
		}
		if detail.MatchType == domain.MatchSynonym {
			res.HasSynonymMatches = true
		}
	}

	res.WeightedOverlap = sum / float64(len(themeKw))
	res.Overlap = float64(matched) / float64(len(themeKw))
	res.IsMatch = res.WeightedOverlap >= a.overlapMin
	return res
}

// Keywords tokenizes raw text on non-alphanumeric boundaries,
// lower-cases the tokens, and drops tokens of two characters or fewer
// along with stop words.
func (a *KeywordAnalyzer) Keywords(raw string) []string {
	tokens := strings.FieldsFunc(strings.ToLower(raw), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	keywords := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if len(tok) <= 2 {
			continue
		}
		if _, stop := a.stopWords[tok]; stop {
			continue
		}
		keywords = append(keywords, tok)
	}
	return keywords
}

func (a *KeywordAnalyzer) bestMatch(themeKw string, guessKw []string) domain.MatchDetail {
	detail := domain.MatchDetail{
		ThemeKeyword: themeKw,
		MatchType:    domain.MatchNone,
	}

	for _, gk := range guessKw {
		if themeKw == gk {
			return domain.MatchDetail{ThemeKeyword: themeKw, GuessToken: gk, MatchType: domain.MatchExact, Score: scoreExact}
		}
	}

	themeStem := lightStem(themeKw)
	for _, gk := range guessKw {
		if themeStem == lightStem(gk) {
			return domain.MatchDetail{ThemeKeyword: themeKw, GuessToken: gk, MatchType: domain.MatchStem, Score: scoreStem}
		}
	}

	for _, gk := range guessKw {
		if a.areSynonyms(themeKw, gk) {
			return domain.MatchDetail{ThemeKeyword: themeKw, GuessToken: gk, MatchType: domain.MatchSynonym, Score: scoreSynonym}
		}
	}

	for _, gk := range guessKw {
		if strings.Contains(themeKw, gk) || strings.Contains(gk, themeKw) {
			return domain.MatchDetail{ThemeKeyword: themeKw, GuessToken: gk, MatchType: domain.MatchSubstring, Score: scoreSubstring}
		}
	}

	return detail
}

// areSynonyms checks the dictionary in both directions, comparing both
// surface forms and light stems so "phobias" still reaches "phobia".
func (a *KeywordAnalyzer) areSynonyms(x, y string) bool {
	return a.synonymOf(x, y) || a.synonymOf(y, x)
}

func (a *KeywordAnalyzer) synonymOf(key, candidate string) bool {
	candStem := lightStem(candidate)
	for _, k := range []string{key, lightStem(key)} {
		for _, syn := range a.synonyms[k] {
			if syn == candidate || lightStem(syn) == candStem {
				return true
			}
		}
	}
	return false
}

// lightStem strips one common inflectional or derivational suffix.
// It is intentionally crude: the goal is matching "groups" to "group",
// not linguistic correctness. Stems shorter than three characters are
// rejected to avoid collapsing unrelated short tokens.
func lightStem(token string) string {
	for _, suf := range stemSuffixes {
		if !strings.HasSuffix(token, suf) {
			continue
		}
		stem := token[:len(token)-len(suf)]
		if suf == "ies" {
			stem += "y"
		}
		if len(stem) >= 3 {
			return stem
		}
	}
	return token
}
