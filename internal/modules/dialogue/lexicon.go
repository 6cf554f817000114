// README: Affirmation and decline vocabularies used to read short user replies.
package dialogue

import (
	"strings"

	"golang.org/x/text/cases"
)

var dataAffirmations = wordSet(
	"yes", "y", "yeah", "yep", "yup", "ok", "okay", "correct", "confirmed", "confirm",
	"that's right", "thats right", "right", "sure", "yes please", "yes correct",
	"yes that's right", "that is correct", "looks good",
)

var finalAffirmations = wordSet(
	"yes", "y", "yeah", "yep", "ok", "okay", "sure", "proceed", "go", "go ahead", "book",
	"book it", "search", "confirm", "yes please", "let's go", "do it",
)

var declinePhrases = []string{
	"no", "nope", "no thanks", "skip", "don't care", "dont care", "not interested",
	"just book", "just search", "proceed", "go", "search",
}

var punctuation = strings.NewReplacer(
	"’", "'", "‘", "'",
	",", " ", ".", " ", "!", " ", "?", " ", ";", " ", ":", " ",
)

// normalize folds case, straightens apostrophes and drops sentence punctuation.
func normalize(s string) string {
	s = cases.Fold().String(s)
	s = punctuation.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

func wordSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// AffirmsData reports whether the reply accepts a data confirmation. Only whole replies count.
func AffirmsData(utterance string) bool {
	_, ok := dataAffirmations[normalize(utterance)]
	return ok
}

func AffirmsFinal(utterance string) bool {
	_, ok := finalAffirmations[normalize(utterance)]
	return ok
}

// Declines reports whether the reply contains a decline phrase as whole words.
func Declines(utterance string) bool {
	padded := " " + normalize(utterance) + " "
	for _, p := range declinePhrases {
		if strings.Contains(padded, " "+p+" ") {
			return true
		}
	}
	return false
}
