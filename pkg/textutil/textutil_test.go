package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	table := []struct {
		input    string
		expected string
	}{
		{input: "user.info", expected: "user.info"},
		{input: " User.Info\n", expected: "user.info"},
		{input: "two pointers", expected: "twopointers"},
	}
	for _, row := range table {
		require.Equal(t, row.expected, NormalizeName(row.input))
	}
}

func TestSuggest(t *testing.T) {
	routes := []string{"user.info", "user.rating", "contest.list", "contest.standings"}

	require.Equal(t, "user.info", Suggest("user.inf", routes))
	require.Equal(t, "contest.standings", Suggest("Contest.Standing", routes))
	require.Equal(t, "", Suggest("zzzzzz", routes))

	best, score := Closest("user.info", routes)
	require.Equal(t, "user.info", best)
	require.Equal(t, 1.0, score)
}
