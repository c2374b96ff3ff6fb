// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textmatch

// containmentDamping keeps a pure subset relationship (short title vs. the
// same title with a subtitle) from outscoring a near-exact match.
const containmentDamping = 0.9

// Dice returns the Dice coefficient 2|A∩B| / (|A|+|B|). Two empty sets
// score 1: within title comparison an empty-vs-empty pair is identical by
// vacuity.
func Dice(a, b TokenSet) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	inter := intersectionSize(a, b)
	return 2 * float64(inter) / float64(len(a)+len(b))
}

// TitleSimilarity scores two title token sets as the better of the Dice
// coefficient and a dampened containment ratio. Containment handles the
// subtitle case: a catalog title extended with an edition or subtitle still
// fully contains the shorter query title.
func TitleSimilarity(a, b TokenSet) float64 {
	d := Dice(a, b)
	if c := containment(a, b); c > d {
		return c
	}
	return d
}

// Compare scores two token sets for lookup-result acceptance. Unlike the
// title context, exactly one empty set scores 0 here: a lookup result with
// no usable title must never be accepted against a real query.
func Compare(a, b TokenSet) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return TitleSimilarity(a, b)
}

// containment returns |smaller∩larger| / |smaller| dampened by 0.9, using
// the smaller set as the base. Returns 0 when either set is empty.
func containment(a, b TokenSet) float64 {
	smaller, larger := a, b
	if len(larger) < len(smaller) {
		smaller, larger = larger, smaller
	}
	if len(smaller) == 0 {
		return 0
	}
	inter := intersectionSize(smaller, larger)
	return float64(inter) / float64(len(smaller)) * containmentDamping
}
