package resolve

import "strings"

const (
	// substringMinLen is the normalized length both names must exceed before a
	// containment relationship counts as evidence. Short words like "west"
	// appear inside too many unrelated names.
	substringMinLen = 10

	// substringScore is the floor applied when one long name contains the other.
	substringScore = 0.9
)

// MatchResult is the best candidate found for a query name. Candidate is the
// raw candidate string as passed in; Found is false only when the pool is empty.
type MatchResult struct {
	Candidate string
	Score     float64
	Found     bool
}

// Score compares two already-normalized names.
func Score(normQuery, normCand string) float64 {
	score := Ratio(normQuery, normCand)
	if len(normQuery) > substringMinLen && len(normCand) > substringMinLen &&
		(strings.Contains(normCand, normQuery) || strings.Contains(normQuery, normCand)) {
		score = max(score, substringScore)
	}
	return score
}

// Pool is an ordered, read-only set of candidate names normalized once up
// front. It is safe for concurrent use.
type Pool struct {
	raw  []string
	norm []string
}

// NewPool normalizes every candidate. Order and duplicates are preserved.
func NewPool(candidates []string) *Pool {
	p := &Pool{
		raw:  make([]string, len(candidates)),
		norm: make([]string, len(candidates)),
	}
	copy(p.raw, candidates)
	for i, c := range candidates {
		p.norm[i] = NormalizeName(c)
	}
	return p
}

// Len returns the number of candidates.
func (p *Pool) Len() int { return len(p.raw) }

// Best scores the query against every candidate and returns the highest
// scoring one. Ties keep the earliest candidate. No threshold is applied;
// the caller decides whether the score is good enough.
func (p *Pool) Best(query string) MatchResult {
	normQuery := NormalizeName(query)

	var res MatchResult
	for i, cand := range p.norm {
		score := Score(normQuery, cand)
		if !res.Found || score > res.Score {
			res = MatchResult{Candidate: p.raw[i], Score: score, Found: true}
		}
	}
	return res
}

// BestMatch is a one-shot Pool lookup.
func BestMatch(query string, candidates []string) MatchResult {
	return NewPool(candidates).Best(query)
}
