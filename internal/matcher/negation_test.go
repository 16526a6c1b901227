package matcher

import "testing"

func TestDetectNegation_GuessOnlyNegation(t *testing.T) {
	t.Parallel()

	res := DetectNegation("words that repeat", "words that never repeat")

	if !res.GuessHasNegation || res.ThemeHasNegation {
		t.Errorf("negation flags = %+v", res)
	}
	if !res.ShouldPenalise {
		t.Error("ShouldPenalise = false, want true")
	}
}

func TestDetectNegation_ThemeOnlyNegation(t *testing.T) {
	t.Parallel()

	res := DetectNegation("words without vowels", "words with vowels")
	if !res.ShouldPenalise {
		t.Error("ShouldPenalise = false, want true")
	}
}

func TestDetectNegation_SymmetricNegationIsFine(t *testing.T) {
	t.Parallel()

	res := DetectNegation("words that never repeat", "no repeating words")
	if res.ShouldPenalise {
		t.Errorf("ShouldPenalise = true, want false: %+v", res)
	}
}

func TestDetectNegation_BoundaryAnchoring(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want bool
	}{
		{"things you notice", false},  // "not" inside "notice"
		{"nonsense words", false},     // "non-" requires the hyphen
		{"non-fiction books", true},   // genuine non- prefix
		{"normandy landings", false},  // "nor" inside "normandy"
		{"neither here nor there", true},
		{"not a chance", true},
		{"knots and ropes", false},
	}
	for _, tt := range tests {
		if got := matchesAny(negationPatterns, tt.text); got != tt.want {
			t.Errorf("negation(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestDetectNegation_QualifierMismatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		theme string
		guess string
		want  bool
	}{
		{"begins with", "types of cheese", "words that begin with c", true},
		{"rhymes with", "animal groups", "things that rhyme with moose", true},
		{"letter count", "colors", "words that has 5 letters", true},
		{"qualifier on both sides", "words that sound like animals", "each sounds like another word", false},
		{"plain guess", "types of cheese", "dairy products", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := DetectNegation(tt.theme, tt.guess)
			if res.ShouldPenalise != tt.want {
				t.Errorf("ShouldPenalise = %v, want %v (%+v)", res.ShouldPenalise, tt.want, res)
			}
		})
	}
}
