package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"cpt/internal/scrapers/adventofcode"
	"cpt/internal/scrapers/codeforces"
	"cpt/internal/scrapers/leetcode"
	"cpt/pkg/na"

	"github.com/stretchr/testify/require"
)

func TestDirName(t *testing.T) {
	require.Equal(t, "1A-theatre-square", DirName("1A", "Theatre Square"))
	require.Equal(t, "1850B1-ten-words-of-wisdom", DirName("1850B1", "Ten Words of Wisdom!"))
	require.Equal(t, "7", DirName("7", "?!"))
}

func TestCodeforcesPlan(t *testing.T) {
	root := t.TempDir()
	plan, err := Codeforces(codeforces.ProblemPage{
		ContestId: 1,
		Index:     "A",
		Name:      "Theatre Square",
		Samples: []codeforces.Sample{
			{Input: "6 6 4\n", Output: "4\n"},
			{Input: "1 1 1\n", Output: "1\n"},
		},
	})
	require.NoError(t, err)

	dir, err := plan.Write(root)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "1A-theatre-square"), dir)

	readme, err := os.ReadFile(filepath.Join(dir, "README.md"))
	require.NoError(t, err)
	require.Contains(t, string(readme), "# A. Theatre Square")

	main, err := os.ReadFile(filepath.Join(dir, "main.cpp"))
	require.NoError(t, err)
	require.Empty(t, main)

	input, err := os.ReadFile(filepath.Join(dir, "2.in"))
	require.NoError(t, err)
	require.Equal(t, "1 1 1\n", string(input))
	expected, err := os.ReadFile(filepath.Join(dir, "1-expected.out"))
	require.NoError(t, err)
	require.Equal(t, "4\n", string(expected))

	info, err := os.Stat(filepath.Join(dir, "test.sh"))
	require.NoError(t, err)
	require.NotZero(t, info.Mode()&0100)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 7)
}

func TestTestScriptCoversEverySample(t *testing.T) {
	script, err := TestScript(3)
	require.NoError(t, err)
	require.Contains(t, script, "#!/usr/bin/env bash")
	require.Contains(t, script, "$(seq 1 3)")
	require.Contains(t, script, `"$i-expected.out"`)
}

func TestLeetcodePlan(t *testing.T) {
	root := t.TempDir()
	plan, err := Leetcode(leetcode.Problem{
		FrontendId: na.IntOf(1),
		Title:      "Two Sum",
		Slug:       "two-sum",
	}, "https://leetcode.com")
	require.NoError(t, err)

	dir, err := plan.Write(root)
	require.NoError(t, err)
	require.Equal(t, root, dir)

	md, err := os.ReadFile(filepath.Join(root, "1-two-sum.md"))
	require.NoError(t, err)
	require.Contains(t, string(md), "# [1] Two Sum")
}

func TestAdventOfCodePlanFailsBeforeWriting(t *testing.T) {
	root := t.TempDir()
	_, err := AdventOfCode(adventofcode.Problem{Year: 2023, Day: 1})
	require.Error(t, err)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Empty(t, entries)
}
