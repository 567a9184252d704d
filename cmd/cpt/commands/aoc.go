package commands

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"cpt/cmd/cpt/globals"
	"cpt/internal/render"
	"cpt/internal/scaffold"
	"cpt/internal/scrapers/adventofcode"

	"github.com/spf13/cobra"
)

var aocPath string

func init() {
	aocCloneCmd.Flags().StringVar(&aocPath, "path", "", "Where to write README.md, defaults to <year>/day-<day>.")
	aocCmd.AddCommand(aocProblemCmd, aocCloneCmd)
	rootCmd.AddCommand(aocCmd)
}

var aocCmd = &cobra.Command{
	Use:     "aoc",
	Aliases: []string{"adventofcode"},
	Short:   "Fetch advent of code puzzles.",
}

func newAocClient(cmd *cobra.Command) *adventofcode.Client {
	g := globals.Get(cmd.Context())
	opts, err := g.Config.AdventOfCodeOptions()
	if err != nil {
		Fatal("invalid adventofcode config", err)
	}
	if opts.Session == "" {
		slog.Warn("no session cookie configured, only the first part of a puzzle will be visible")
	}
	client, err := adventofcode.New(opts, g.Tel)
	if err != nil {
		Fatal("failed to create adventofcode client", err)
	}
	atExit(func() { client.Close() })
	return client
}

func fetchPuzzle(cmd *cobra.Command, raw string) adventofcode.Problem {
	year, day, err := adventofcode.ParseUrl(raw)
	if err != nil {
		Fatal("invalid advent of code url", err)
	}
	client := newAocClient(cmd)

	ctx, cancel := requestContext(cmd)
	defer cancel()
	problem, err := client.Problem(ctx, year, day)
	if err != nil {
		Fatal(fmt.Sprintf("aoc problem %d/%d", year, day), err)
	}
	return problem
}

var aocProblemCmd = &cobra.Command{
	Use:   "problem <puzzle url>",
	Short: "Print a puzzle as markdown.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		problem := fetchPuzzle(cmd, args[0])
		md, err := render.AdventOfCodeMarkdown(problem)
		if err != nil {
			Fatal("aoc problem", err)
		}
		fmt.Print(md)
	},
}

var aocCloneCmd = &cobra.Command{
	Use:   "clone <puzzle url> [--path dir]",
	Short: "Write a puzzle's description to README.md.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		problem := fetchPuzzle(cmd, args[0])
		plan, err := scaffold.AdventOfCode(problem)
		if err != nil {
			Fatal(fmt.Sprintf("aoc clone %d/%d", problem.Year, problem.Day), err)
		}
		path := aocPath
		if path == "" {
			path = filepath.Join(fmt.Sprint(problem.Year), fmt.Sprintf("day-%02d", problem.Day))
		}
		writePlan("adventofcode", fmt.Sprintf("%d/%d", problem.Year, problem.Day), path, plan.Write)
	},
}
