package game

import "strings"

// InputKind is what a free-text message asks for.
type InputKind string

const (
	KindInterrogation InputKind = "interrogation"
	KindMeta          InputKind = "meta"
	KindAccusation    InputKind = "accusation"
)

// Classifier sorts messages by their leading marker.
type Classifier struct {
	accusation []string
	meta       []string
}

func NewClassifier(p Prefixes) *Classifier {
	return &Classifier{
		accusation: foldAll(p.Accusation),
		meta:       foldAll(p.Meta),
	}
}

// Classify checks accusation markers first, then meta markers. Leading
// whitespace is ignored.
func (c *Classifier) Classify(input string) InputKind {
	text := fold(strings.TrimLeft(input, " \t\r\n"))
	if hasAnyPrefix(text, c.accusation) {
		return KindAccusation
	}
	if hasAnyPrefix(text, c.meta) {
		return KindMeta
	}
	return KindInterrogation
}

// AccusationArgument returns the text following an accusation marker.
func (c *Classifier) AccusationArgument(input string) (string, bool) {
	text := strings.TrimLeft(input, " \t\r\n")
	folded := fold(text)
	for _, p := range c.accusation {
		if strings.HasPrefix(folded, p) {
			// Folding may change byte lengths; cut the marker off the original.
			rest, ok := cutFoldedPrefix(text, p)
			if !ok {
				return "", true
			}
			return strings.TrimSpace(rest), true
		}
	}
	return "", false
}

func hasAnyPrefix(text string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}

// cutFoldedPrefix drops the shortest leading part of text whose folded form
// equals prefix.
func cutFoldedPrefix(text, prefix string) (string, bool) {
	for i := range text {
		if i == 0 {
			continue
		}
		if fold(text[:i]) == prefix {
			return text[i:], true
		}
	}
	if fold(text) == prefix {
		return "", true
	}
	return "", false
}
