package rankings

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimilarityRatioBounds(t *testing.T) {
	testCases := []struct{ a, b string }{
		{"", ""},
		{"Stanford University", "stanford"},
		{"MIT", "Massachusetts Institute of Technology"},
		{"abc", "xyz"},
		{"Carnegie Mellon University", "carnegie mellon university"},
	}
	for _, test := range testCases {
		ratio := similarityRatio(test.a, test.b)
		require.GreaterOrEqual(t, ratio, 0.0, "%q vs %q", test.a, test.b)
		require.LessOrEqual(t, ratio, 1.0, "%q vs %q", test.a, test.b)
	}
}

func TestSimilarityRatioIdentical(t *testing.T) {
	require.Equal(t, 1.0, similarityRatio("Stanford University", "stanford university"))
}

func TestMatchSubstringFloor(t *testing.T) {
	institutions := []Institution{
		{ID: "a", Name: "Stanford University"},
	}
	result, err := Match(institutions, "stanford", DefaultMatchOptions())
	require.NoError(t, err)
	require.GreaterOrEqual(t, result.Score, 0.95)
	require.Equal(t, "Stanford University", result.Name)
}

func TestMatchRejectsBelowThreshold(t *testing.T) {
	institutions := []Institution{
		{ID: "a", Name: "Massachusetts Institute of Technology"},
	}
	_, err := Match(institutions, "zzzz qqqq", DefaultMatchOptions())
	require.True(t, errors.Is(err, ErrNoMatch))
}

func TestMatchTieBreaksOnFirstOccurrence(t *testing.T) {
	institutions := []Institution{
		{ID: "first", Name: "Stanford University"},
		{ID: "second", Name: "Stanford University"},
	}
	result, err := Match(institutions, "Stanford University", DefaultMatchOptions())
	require.NoError(t, err)
	require.Equal(t, "first", result.ID)
}

func TestMatchIsDeterministic(t *testing.T) {
	institutions := []Institution{
		{ID: "a", Name: "University of Washington"},
		{ID: "b", Name: "Washington University in St. Louis"},
		{ID: "c", Name: "Western Washington University"},
	}
	first, err := Match(institutions, "washington", DefaultMatchOptions())
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Match(institutions, "washington", DefaultMatchOptions())
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestMatchTunableThreshold(t *testing.T) {
	institutions := []Institution{
		{ID: "a", Name: "Stanford University"},
	}
	opts := DefaultMatchOptions()
	opts.AcceptThreshold = 0.99
	opts.SubstringFloor = 0.97

	result, err := Match(institutions, "zzzz", opts)
	require.True(t, errors.Is(err, ErrNoMatch), "got %+v", result)

	result, err = Match(institutions, "Stanford University", opts)
	require.NoError(t, err)
	require.Equal(t, 1.0, result.Score)
}

func TestScoreCandidatesOrderedBestFirst(t *testing.T) {
	institutions := []Institution{
		{ID: "a", Name: "Massachusetts Institute of Technology"},
		{ID: "b", Name: "Stanford University"},
		{ID: "c", Name: "Stanford Online"},
	}
	candidates := ScoreCandidates(institutions, "stanford", DefaultMatchOptions())
	require.Len(t, candidates, 3)
	for i := 1; i < len(candidates); i++ {
		require.GreaterOrEqual(t, candidates[i-1].Score, candidates[i].Score)
	}
	require.Equal(t, "b", candidates[0].ID)
}
