package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"cpt/cmd/cpt/globals"
	"cpt/internal/render"
	"cpt/internal/scaffold"
	"cpt/internal/scrapers/codeforces"

	"github.com/spf13/cobra"
)

var codeforcesCmd = &cobra.Command{
	Use:     "codeforces",
	Aliases: []string{"cf"},
	Short:   "Query the codeforces api and clone problems.",
}

var (
	cfFrom           int
	cfCount          int
	cfGym            bool
	cfHandles        []string
	cfRoom           int
	cfShowUnofficial bool
	cfHandle         string
	cfTags           []string
	cfProblemset     string
	cfOnlyOnline     bool
	cfActiveOnly     bool
	cfIncludeRetired bool
	cfContestId      int
	cfRecentCount    int
	cfActionsCount   int
	cfPath           string
)

func init() {
	rootCmd.AddCommand(codeforcesCmd)

	for _, cmd := range []*cobra.Command{cfContestStandingsCmd, cfContestStatusCmd, cfUserStatusCmd} {
		cmd.Flags().IntVar(&cfFrom, "from", 0, "1-based index of the first row to return.")
		cmd.Flags().IntVar(&cfCount, "count", 0, "How many rows to return.")
	}
	cfContestListCmd.Flags().BoolVar(&cfGym, "gym", false, "List gym contests instead.")
	cfContestStandingsCmd.Flags().StringSliceVar(&cfHandles, "handles", nil, "Only show these handles.")
	cfContestStandingsCmd.Flags().IntVar(&cfRoom, "room", 0, "Only show this room.")
	cfContestStandingsCmd.Flags().BoolVar(&cfShowUnofficial, "unofficial", false, "Include unofficial participants.")
	cfContestStatusCmd.Flags().StringVar(&cfHandle, "handle", "", "Only show submissions of this handle.")
	for _, cmd := range []*cobra.Command{cfProblemsetProblemsCmd, cfProblemsetRecentStatusCmd} {
		cmd.Flags().StringVar(&cfProblemset, "problemset", "", "Problemset name, ex. acmsguru.")
	}
	cfProblemsetProblemsCmd.Flags().StringSliceVar(&cfTags, "tags", nil, "Only problems with all of these tags.")
	cfProblemsetRecentStatusCmd.Flags().IntVar(&cfRecentCount, "count", 50, "How many submissions to return (at most 1000).")
	cfRecentActionsCmd.Flags().IntVar(&cfActionsCount, "count", 30, "How many actions to return (at most 100).")
	cfUserFriendsCmd.Flags().BoolVar(&cfOnlyOnline, "online", false, "Only friends that are online.")
	cfUserRatedListCmd.Flags().BoolVar(&cfActiveOnly, "active", true, "Only users that took part in a rated contest recently.")
	cfUserRatedListCmd.Flags().BoolVar(&cfIncludeRetired, "retired", false, "Include retired users.")
	cfUserRatedListCmd.Flags().IntVar(&cfContestId, "contest", 0, "Only users that took part in this contest.")
	cfCloneCmd.Flags().StringVar(&cfPath, "path", ".", "Where to create the problem's directory.")

	codeforcesCmd.AddCommand(
		cfBlogEntryCommentsCmd,
		cfBlogEntryViewCmd,
		cfContestHacksCmd,
		cfContestListCmd,
		cfContestRatingChangesCmd,
		cfContestStandingsCmd,
		cfContestStatusCmd,
		cfProblemsetProblemsCmd,
		cfProblemsetRecentStatusCmd,
		cfRecentActionsCmd,
		cfUserBlogEntriesCmd,
		cfUserFriendsCmd,
		cfUserInfoCmd,
		cfUserRatedListCmd,
		cfUserRatingCmd,
		cfUserStatusCmd,
		cfCallCmd,
		cfProblemCmd,
		cfCloneCmd,
	)
}

func newCodeforcesClient(cmd *cobra.Command) *codeforces.Client {
	g := globals.Get(cmd.Context())
	opts, err := g.Config.CodeforcesOptions()
	if err != nil {
		Fatal("invalid codeforces config", err)
	}
	client, err := codeforces.New(opts, g.Tel)
	if err != nil {
		Fatal("failed to create codeforces client", err)
	}
	atExit(func() { client.Close() })
	return client
}

func intArg(name, value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		Fatal(fmt.Sprintf("%s must be a number", name), err)
	}
	return n
}

// cfRun wraps a command that needs a client and a bounded context.
func cfRun(run func(cmd *cobra.Command, client *codeforces.Client, args []string) error) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		client := newCodeforcesClient(cmd)
		err := run(cmd, client, args)
		if err != nil {
			Fatal(fmt.Sprintf("codeforces %s %s", cmd.Name(), strings.Join(args, " ")), err)
		}
	}
}

var cfBlogEntryCommentsCmd = &cobra.Command{
	Use:   "blog-entry-comments <blog entry id>",
	Short: "List the comments of a blog entry.",
	Args:  cobra.ExactArgs(1),
	Run: cfRun(func(cmd *cobra.Command, client *codeforces.Client, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()
		comments, err := client.BlogEntryComments(ctx, intArg("blog entry id", args[0]))
		if err != nil {
			return err
		}
		render.CommentsTable(os.Stdout, comments)
		return nil
	}),
}

var cfBlogEntryViewCmd = &cobra.Command{
	Use:   "blog-entry-view <blog entry id>",
	Short: "Print a blog entry.",
	Args:  cobra.ExactArgs(1),
	Run: cfRun(func(cmd *cobra.Command, client *codeforces.Client, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()
		entry, err := client.BlogEntryView(ctx, intArg("blog entry id", args[0]))
		if err != nil {
			return err
		}
		fmt.Println(entry)
		return nil
	}),
}

var cfContestHacksCmd = &cobra.Command{
	Use:   "contest-hacks <contest id>",
	Short: "List the hacks of a contest.",
	Args:  cobra.ExactArgs(1),
	Run: cfRun(func(cmd *cobra.Command, client *codeforces.Client, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()
		hacks, err := client.ContestHacks(ctx, intArg("contest id", args[0]))
		if err != nil {
			return err
		}
		render.HacksTable(os.Stdout, hacks)
		return nil
	}),
}

var cfContestListCmd = &cobra.Command{
	Use:   "contest-list [--gym]",
	Short: "List every contest.",
	Args:  cobra.NoArgs,
	Run: cfRun(func(cmd *cobra.Command, client *codeforces.Client, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()
		contests, err := client.ContestList(ctx, cfGym)
		if err != nil {
			return err
		}
		render.ContestsTable(os.Stdout, contests)
		return nil
	}),
}

var cfContestRatingChangesCmd = &cobra.Command{
	Use:   "contest-rating-changes <contest id>",
	Short: "List the rating changes caused by a contest.",
	Args:  cobra.ExactArgs(1),
	Run: cfRun(func(cmd *cobra.Command, client *codeforces.Client, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()
		changes, err := client.ContestRatingChanges(ctx, intArg("contest id", args[0]))
		if err != nil {
			return err
		}
		render.RatingChangesTable(os.Stdout, changes)
		return nil
	}),
}

var cfContestStandingsCmd = &cobra.Command{
	Use:   "contest-standings <contest id> [--from n] [--count n] [--handles a,b] [--room n] [--unofficial]",
	Short: "Print the standings of a contest.",
	Args:  cobra.ExactArgs(1),
	Run: cfRun(func(cmd *cobra.Command, client *codeforces.Client, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()
		standings, err := client.ContestStandings(ctx, codeforces.StandingsOptions{
			ContestId:      intArg("contest id", args[0]),
			Page:           codeforces.Page{From: cfFrom, Count: cfCount},
			Handles:        cfHandles,
			Room:           cfRoom,
			ShowUnofficial: cfShowUnofficial,
		})
		if err != nil {
			return err
		}
		render.StandingsTable(os.Stdout, standings)
		return nil
	}),
}

var cfContestStatusCmd = &cobra.Command{
	Use:   "contest-status <contest id> [--handle h] [--from n] [--count n]",
	Short: "List the submissions of a contest.",
	Args:  cobra.ExactArgs(1),
	Run: cfRun(func(cmd *cobra.Command, client *codeforces.Client, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()
		submissions, err := client.ContestStatus(ctx, codeforces.StatusOptions{
			ContestId: intArg("contest id", args[0]),
			Handle:    cfHandle,
			Page:      codeforces.Page{From: cfFrom, Count: cfCount},
		})
		if err != nil {
			return err
		}
		render.SubmissionsTable(os.Stdout, submissions)
		return nil
	}),
}

var cfProblemsetProblemsCmd = &cobra.Command{
	Use:   "problemset-problems [--tags a,b] [--problemset name]",
	Short: "List the problems of the problemset.",
	Args:  cobra.NoArgs,
	Run: cfRun(func(cmd *cobra.Command, client *codeforces.Client, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()
		set, err := client.ProblemsetProblems(ctx, cfTags, cfProblemset)
		if err != nil {
			return err
		}
		render.ProblemsTable(os.Stdout, set.Problems)
		render.ProblemStatisticsTable(os.Stdout, set.Statistics)
		return nil
	}),
}

var cfProblemsetRecentStatusCmd = &cobra.Command{
	Use:   "problemset-recent-status [--count n] [--problemset name]",
	Short: "List recent submissions to the problemset.",
	Args:  cobra.NoArgs,
	Run: cfRun(func(cmd *cobra.Command, client *codeforces.Client, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()
		submissions, err := client.ProblemsetRecentStatus(ctx, cfRecentCount, cfProblemset)
		if err != nil {
			return err
		}
		render.SubmissionsTable(os.Stdout, submissions)
		return nil
	}),
}

var cfRecentActionsCmd = &cobra.Command{
	Use:   "recent-actions [--count n]",
	Short: "List recent blog entries and comments.",
	Args:  cobra.NoArgs,
	Run: cfRun(func(cmd *cobra.Command, client *codeforces.Client, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()
		actions, err := client.RecentActions(ctx, cfActionsCount)
		if err != nil {
			return err
		}
		render.RecentActionsTable(os.Stdout, actions)
		return nil
	}),
}

var cfUserBlogEntriesCmd = &cobra.Command{
	Use:   "user-blog-entries <handle>",
	Short: "List the blog entries of a user.",
	Args:  cobra.ExactArgs(1),
	Run: cfRun(func(cmd *cobra.Command, client *codeforces.Client, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()
		entries, err := client.UserBlogEntries(ctx, args[0])
		if err != nil {
			return err
		}
		render.BlogEntriesTable(os.Stdout, entries)
		return nil
	}),
}

var cfUserFriendsCmd = &cobra.Command{
	Use:   "user-friends [--online]",
	Short: "List the friends of the api key's owner.",
	Args:  cobra.NoArgs,
	Run: cfRun(func(cmd *cobra.Command, client *codeforces.Client, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()
		handles, err := client.UserFriends(ctx, cfOnlyOnline)
		if err != nil {
			return err
		}
		render.HandlesTable(os.Stdout, handles)
		return nil
	}),
}

var cfUserInfoCmd = &cobra.Command{
	Use:   "user-info <handle>...",
	Short: "Print information about users.",
	Args:  cobra.MinimumNArgs(1),
	Run: cfRun(func(cmd *cobra.Command, client *codeforces.Client, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()
		users, err := client.UserInfo(ctx, args)
		if err != nil {
			return err
		}
		render.UsersTable(os.Stdout, users)
		return nil
	}),
}

var cfUserRatedListCmd = &cobra.Command{
	Use:   "user-rated-list [--active] [--retired] [--contest id]",
	Short: "List rated users.",
	Args:  cobra.NoArgs,
	Run: cfRun(func(cmd *cobra.Command, client *codeforces.Client, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()
		users, err := client.UserRatedList(ctx, codeforces.RatedListOptions{
			ActiveOnly:     cfActiveOnly,
			IncludeRetired: cfIncludeRetired,
			ContestId:      cfContestId,
		})
		if err != nil {
			return err
		}
		render.UsersTable(os.Stdout, users)
		return nil
	}),
}

var cfUserRatingCmd = &cobra.Command{
	Use:   "user-rating <handle>",
	Short: "List the rating history of a user.",
	Args:  cobra.ExactArgs(1),
	Run: cfRun(func(cmd *cobra.Command, client *codeforces.Client, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()
		changes, err := client.UserRating(ctx, args[0])
		if err != nil {
			return err
		}
		render.RatingChangesTable(os.Stdout, changes)
		return nil
	}),
}

var cfUserStatusCmd = &cobra.Command{
	Use:   "user-status <handle> [--from n] [--count n]",
	Short: "List the submissions of a user.",
	Args:  cobra.ExactArgs(1),
	Run: cfRun(func(cmd *cobra.Command, client *codeforces.Client, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()
		submissions, err := client.UserStatus(ctx, args[0], codeforces.Page{From: cfFrom, Count: cfCount})
		if err != nil {
			return err
		}
		render.SubmissionsTable(os.Stdout, submissions)
		return nil
	}),
}

var cfCallCmd = &cobra.Command{
	Use:   "call <route> [key=value]...",
	Short: "Call an api route and print the raw result.",
	Args:  cobra.MinimumNArgs(1),
	Run: cfRun(func(cmd *cobra.Command, client *codeforces.Client, args []string) error {
		params := map[string][]string{}
		for _, pair := range args[1:] {
			key, value, found := strings.Cut(pair, "=")
			if !found {
				return fmt.Errorf("%w: parameter %q is not key=value", codeforces.InvalidInput, pair)
			}
			params[key] = append(params[key], value)
		}

		ctx, cancel := requestContext(cmd)
		defer cancel()
		result, err := client.Call(ctx, args[0], params)
		if err != nil {
			return err
		}
		fmt.Println(string(result))
		return nil
	}),
}

func problemRef(raw string) codeforces.ProblemRef {
	ref, err := codeforces.ParseProblemUrl(raw)
	if err != nil {
		Fatal("invalid problem url", err)
	}
	return ref
}

var cfProblemCmd = &cobra.Command{
	Use:   "problem <problem url>",
	Short: "Print a problem as markdown.",
	Args:  cobra.ExactArgs(1),
	Run: cfRun(func(cmd *cobra.Command, client *codeforces.Client, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()
		page, err := client.ScrapeProblem(ctx, problemRef(args[0]))
		if err != nil {
			return err
		}
		md, err := render.CodeforcesMarkdown(page)
		if err != nil {
			return err
		}
		fmt.Print(md)
		return nil
	}),
}

var cfCloneCmd = &cobra.Command{
	Use:   "clone <problem url> [--path dir]",
	Short: "Create a directory with the statement, samples and a test script for a problem.",
	Args:  cobra.ExactArgs(1),
	Run: cfRun(func(cmd *cobra.Command, client *codeforces.Client, args []string) error {
		ref := problemRef(args[0])

		ctx, cancel := requestContext(cmd)
		defer cancel()
		page, err := client.ScrapeProblem(ctx, ref)
		if err != nil {
			return err
		}
		plan, err := scaffold.Codeforces(page)
		if err != nil {
			return err
		}
		writePlan("codeforces", ref.String(), cfPath, plan.Write)
		return nil
	}),
}
