package htmlutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestGetText(t *testing.T) {
	node, err := html.Parse(strings.NewReader("<p>hello <b>nested</b> world</p>"))
	require.NoError(t, err)
	require.Contains(t, GetText(node), "hello nested world")
}

func TestCleanText(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{"  Carnegie   Mellon\n\tUniversity  ", "Carnegie Mellon University"},
		{"plain", "plain"},
		{"\n\n", ""},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, CleanText(test.in))
	}
}
