package rankings

import (
	"errors"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

var ErrNoMatch = errors.New("no institution matched above the accept threshold")

// MatchResult is the single best candidate for a query.
type MatchResult struct {
	Query string
	Name  string
	ID    string
	Score float64
}

type MatchOptions struct {
	// AcceptThreshold is the minimum score for a match to be accepted.
	AcceptThreshold float64
	// SubstringFloor is the minimum score assigned when the query is a
	// case-insensitive substring of the institution name.
	SubstringFloor float64
}

func DefaultMatchOptions() MatchOptions {
	return MatchOptions{
		AcceptThreshold: 0.4,
		SubstringFloor:  0.95,
	}
}

// similarityRatio is the symmetric sequence similarity between two
// strings: 2*M/T where M is the length of the longest common
// subsequence and T the total length of both inputs. Case-insensitive.
func similarityRatio(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return 2 * float64(lcsLength(ra, rb)) / float64(total)
}

func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func score(name, query string, opts MatchOptions) float64 {
	s := similarityRatio(name, query)
	if strings.Contains(strings.ToLower(name), strings.ToLower(query)) && s < opts.SubstringFloor {
		s = opts.SubstringFloor
	}
	return s
}

// Match picks the institution most similar to the query. Ties are broken
// by first occurrence in the input. ErrNoMatch is returned when even the
// best candidate scores below the accept threshold.
func Match(institutions []Institution, query string, opts MatchOptions) (MatchResult, error) {
	best := MatchResult{Query: query, Score: -1}
	for _, inst := range institutions {
		s := score(inst.Name, query, opts)
		if s > best.Score {
			best = MatchResult{Query: query, Name: inst.Name, ID: inst.ID, Score: s}
		}
	}

	if best.Score < opts.AcceptThreshold {
		return MatchResult{Query: query}, ErrNoMatch
	}
	return best, nil
}

// Candidate is one scored institution, used by the inspection command.
type Candidate struct {
	Institution
	Score float64
	// JaroWinkler is a secondary correlation shown alongside the primary
	// score when listing candidates, it plays no part in selection.
	JaroWinkler float64
}

// ScoreCandidates scores every institution against the query and returns
// them ordered best-first. The sort is stable so equal scores keep their
// document order.
func ScoreCandidates(institutions []Institution, query string, opts MatchOptions) []Candidate {
	candidates := make([]Candidate, len(institutions))
	for i, inst := range institutions {
		candidates[i] = Candidate{
			Institution: inst,
			Score:       score(inst.Name, query, opts),
			JaroWinkler: matchr.JaroWinkler(strings.ToLower(inst.Name), strings.ToLower(query), false),
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}
