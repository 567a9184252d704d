package commands

import (
	"fmt"
	"os"

	"cpt/cmd/cpt/globals"
	"cpt/internal/render"
	"cpt/internal/scaffold"
	"cpt/internal/scrapers/leetcode"

	"github.com/spf13/cobra"
)

var leetcodePath string

func init() {
	leetcodeCloneCmd.Flags().StringVar(&leetcodePath, "path", ".", "Where to write the markdown files.")
	leetcodeCmd.AddCommand(leetcodeProblemCmd, leetcodeContestCmd, leetcodeCloneCmd)
	rootCmd.AddCommand(leetcodeCmd)
}

var leetcodeCmd = &cobra.Command{
	Use:     "leetcode",
	Aliases: []string{"lc"},
	Short:   "Fetch leetcode problems and contests.",
}

func newLeetcodeClient(cmd *cobra.Command) (*leetcode.Client, string) {
	g := globals.Get(cmd.Context())
	opts, err := g.Config.LeetcodeOptions()
	if err != nil {
		Fatal("invalid leetcode config", err)
	}
	client, err := leetcode.New(opts, g.Tel)
	if err != nil {
		Fatal("failed to create leetcode client", err)
	}
	atExit(func() { client.Close() })
	baseUrl := opts.Transport.BaseUrl
	if baseUrl == "" {
		baseUrl = leetcode.DefaultBaseUrl
	}
	return client, baseUrl
}

var leetcodeProblemCmd = &cobra.Command{
	Use:   "problem <slug>",
	Short: "Print a problem as markdown.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, baseUrl := newLeetcodeClient(cmd)

		ctx, cancel := requestContext(cmd)
		defer cancel()
		problem, err := client.Problem(ctx, args[0])
		if err != nil {
			Fatal(fmt.Sprintf("leetcode problem %s", args[0]), err)
		}
		md, err := render.LeetcodeMarkdown(problem, baseUrl)
		if err != nil {
			Fatal(fmt.Sprintf("leetcode problem %s", args[0]), err)
		}
		fmt.Print(md)
	},
}

var leetcodeContestCmd = &cobra.Command{
	Use:   "contest <slug>",
	Short: "List the questions of a contest.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, _ := newLeetcodeClient(cmd)

		ctx, cancel := requestContext(cmd)
		defer cancel()
		contest, err := client.Contest(ctx, args[0])
		if err != nil {
			Fatal(fmt.Sprintf("leetcode contest %s", args[0]), err)
		}
		fmt.Printf("start: %s, duration: %ss\n", contest.StartTime, contest.Duration)
		render.LeetcodeContestTable(os.Stdout, contest)
	},
}

var leetcodeCloneCmd = &cobra.Command{
	Use:   "clone <problem or contest url> [--path dir]",
	Short: "Write a problem, or every problem of a contest, as markdown files.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		target, err := leetcode.ParseUrl(args[0])
		if err != nil {
			Fatal("invalid leetcode url", err)
		}
		client, baseUrl := newLeetcodeClient(cmd)

		ctx, cancel := requestContext(cmd)
		defer cancel()

		slugs := []string{target.Slug}
		if target.Kind == leetcode.ContestUrl {
			contest, err := client.Contest(ctx, target.Slug)
			if err != nil {
				Fatal(fmt.Sprintf("leetcode contest %s", target.Slug), err)
			}
			slugs = slugs[:0]
			for _, q := range contest.Questions {
				slugs = append(slugs, q.Slug)
			}
		}

		// everything is fetched and rendered before the first file is written
		plans := make([]scaffold.Plan, 0, len(slugs))
		for _, slug := range slugs {
			problem, err := client.Problem(ctx, slug)
			if err != nil {
				Fatal(fmt.Sprintf("leetcode clone %s", slug), err)
			}
			plan, err := scaffold.Leetcode(problem, baseUrl)
			if err != nil {
				Fatal(fmt.Sprintf("leetcode clone %s", slug), err)
			}
			plans = append(plans, plan)
		}
		for i, plan := range plans {
			writePlan("leetcode", slugs[i], leetcodePath, plan.Write)
		}
	},
}
