package roster

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStripDeclaration(t *testing.T) {
	testCases := []struct {
		name     string
		src      string
		varName  string
		expected string
	}{
		{
			name:     "plain declaration",
			src:      `let X = {"a":1};`,
			varName:  "X",
			expected: `{"a":1}`,
		},
		{
			name:     "declaration with export clause",
			src:      "let X = {\"a\":1};\nexport { X };",
			varName:  "X",
			expected: `{"a":1}`,
		},
		{
			name:     "const declaration",
			src:      `const profs = {"a":1};`,
			varName:  "profs",
			expected: `{"a":1}`,
		},
		{
			name:     "other variable names are left alone",
			src:      `let other = {"a":1};`,
			varName:  "X",
			expected: `let other = {"a":1}`,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, StripDeclaration(test.src, test.varName))
		})
	}
}

const profBySchoolBlob = `let profBySchool_normalized = {
	"Stanford University": {
		"p1": {"name": "Zoe Carter", "subfield": "AI", "google scholar": "https://scholar.example/zc"},
		"p2": {"name": "Amir Basha", "subfield": "nlp", "google scholar": "https://scholar.example/ab"},
		"p3": {"name": "Lee Wong", "subfield": "theory", "google scholar": "https://scholar.example/lw"},
	},
};
export { profBySchool_normalized };`

func TestLoadScriptObject(t *testing.T) {
	dataset, err := LoadScriptObject(profBySchoolBlob, "profBySchool_normalized")
	require.NoError(t, err)

	block := dataset["Stanford University"]
	require.Len(t, block, 3)
	require.Equal(t, "Zoe Carter", block["p1"].Name)
	require.Equal(t, "https://scholar.example/ab", block["p2"].GoogleScholar)
}

func TestLoadScriptObjectMalformed(t *testing.T) {
	_, err := LoadScriptObject(`let X = {"a": };`, "X")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMalformedData))
}

func TestFilterFacultyAllowListAndOrder(t *testing.T) {
	dataset, err := LoadScriptObject(profBySchoolBlob, "profBySchool_normalized")
	require.NoError(t, err)

	professors := FilterFaculty(dataset, "Stanford University")
	require.Len(t, professors, 2)
	// theory is not in the allow-list, the rest come back sorted by name
	require.Equal(t, "Amir Basha", professors[0].Name)
	require.Equal(t, "Zoe Carter", professors[1].Name)
	for _, prof := range professors {
		require.Contains(t, AllowedSubfields, strings.ToLower(prof.Subfield))
	}
}

func TestFilterFacultyMissingInstitution(t *testing.T) {
	dataset, err := LoadScriptObject(profBySchoolBlob, "profBySchool_normalized")
	require.NoError(t, err)
	require.Empty(t, FilterFaculty(dataset, "Nowhere University"))
}
