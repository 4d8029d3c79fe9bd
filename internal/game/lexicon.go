package game

import "strings"

const maxMeter = 100

// Scorer turns a message into pressure and patience deltas.
type Scorer struct {
	lexicons []Lexicon
}

// NewScorer folds the lexicon terms once so Score only folds the input.
func NewScorer(lexicons []Lexicon) *Scorer {
	s := &Scorer{lexicons: make([]Lexicon, len(lexicons))}
	for i, l := range lexicons {
		l.Terms = foldAll(l.Terms)
		s.lexicons[i] = l
	}
	return s
}

// Score sums the deltas of every lexicon with at least one term in input.
// A lexicon counts once no matter how many of its terms match.
func (s *Scorer) Score(input string) (pressure, patience int) {
	text := fold(input)
	for _, l := range s.lexicons {
		if containsAny(text, l.Terms) {
			pressure += l.Pressure
			patience += l.Patience
		}
	}
	return pressure, patience
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func clampMeter(v int) int {
	return max(0, min(maxMeter, v))
}
