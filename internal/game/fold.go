package game

import "golang.org/x/text/cases"

// fold case-folds s for caseless matching. A Caser keeps state, so each
// call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

func foldAll(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t == "" {
			continue
		}
		out = append(out, fold(t))
	}
	return out
}
