package commands

import (
	"fmt"
	"strconv"

	"cpt/cmd/cpt/globals"
	"cpt/internal/render"
	"cpt/internal/scaffold"
	"cpt/internal/scrapers/cses"

	"github.com/spf13/cobra"
)

var csesPath string

func init() {
	csesCloneCmd.Flags().StringVar(&csesPath, "path", ".", "Where to create the task's directory.")
	csesCmd.AddCommand(csesProblemCmd, csesCloneCmd)
	rootCmd.AddCommand(csesCmd)
}

var csesCmd = &cobra.Command{
	Use:   "cses",
	Short: "Fetch tasks from the cses problemset.",
}

func newCsesClient(cmd *cobra.Command) *cses.Client {
	g := globals.Get(cmd.Context())
	opts, err := g.Config.CsesOptions()
	if err != nil {
		Fatal("invalid cses config", err)
	}
	client, err := cses.New(opts, g.Tel)
	if err != nil {
		Fatal("failed to create cses client", err)
	}
	atExit(func() { client.Close() })
	return client
}

// csesTaskId accepts either a task url or a bare id.
func csesTaskId(arg string) int {
	id, err := strconv.Atoi(arg)
	if err == nil {
		return id
	}
	id, err = cses.ParseUrl(arg)
	if err != nil {
		Fatal("invalid cses task", err)
	}
	return id
}

var csesProblemCmd = &cobra.Command{
	Use:   "problem <task url or id>",
	Short: "Print a task as markdown.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := csesTaskId(args[0])
		client := newCsesClient(cmd)

		ctx, cancel := requestContext(cmd)
		defer cancel()
		problem, err := client.Problem(ctx, id)
		if err != nil {
			Fatal(fmt.Sprintf("cses problem %d", id), err)
		}
		md, err := render.CsesMarkdown(problem)
		if err != nil {
			Fatal(fmt.Sprintf("cses problem %d", id), err)
		}
		fmt.Print(md)
	},
}

var csesCloneCmd = &cobra.Command{
	Use:   "clone <task url or id> [--path dir]",
	Short: "Create a directory with the statement, samples and a test script for a task.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := csesTaskId(args[0])
		client := newCsesClient(cmd)

		ctx, cancel := requestContext(cmd)
		defer cancel()
		problem, err := client.Problem(ctx, id)
		if err != nil {
			Fatal(fmt.Sprintf("cses clone %d", id), err)
		}
		plan, err := scaffold.Cses(problem)
		if err != nil {
			Fatal(fmt.Sprintf("cses clone %d", id), err)
		}
		writePlan("cses", strconv.Itoa(id), csesPath, plan.Write)
	},
}
