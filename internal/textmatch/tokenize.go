// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textmatch normalizes strings into comparable token sets and
// scores their similarity. It is the shared primitive behind catalog
// matching and lookup-result acceptance.
package textmatch

import (
	"regexp"
	"strings"
)

// nonAlnumPattern matches runs of characters outside [a-z0-9] after lowering.
var nonAlnumPattern = regexp.MustCompile(`[^a-z0-9]+`)

// stopWords are dropped before token-set construction: articles,
// conjunctions, and common prepositions carry no matching signal in titles.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {},
	"and": {}, "or": {}, "but": {}, "nor": {}, "so": {}, "yet": {},
	"of": {}, "in": {}, "on": {}, "at": {}, "to": {}, "by": {},
	"for": {}, "with": {}, "from": {}, "as": {}, "into": {},
}

// TokenSet is a set of comparable tokens derived from a string.
type TokenSet map[string]struct{}

// Tokenize lowercases text, strips punctuation, drops stop words and
// single-character words, and builds a set containing each remaining word
// plus every overlapping two-character substring of it. The bigrams make
// the set tolerant of typos and partial-word matches.
func Tokenize(text string) TokenSet {
	lowered := strings.ToLower(text)
	cleaned := nonAlnumPattern.ReplaceAllString(lowered, " ")

	set := make(TokenSet)
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 1 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		set[word] = struct{}{}
		for i := 0; i+2 <= len(word); i++ {
			set[word[i:i+2]] = struct{}{}
		}
	}
	return set
}

// intersectionSize counts tokens present in both sets.
func intersectionSize(a, b TokenSet) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for token := range a {
		if _, ok := b[token]; ok {
			n++
		}
	}
	return n
}
