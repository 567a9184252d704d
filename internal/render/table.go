package render

import (
	"fmt"
	"io"
	"strings"

	"cpt/internal/scrapers/codeforces"
	"cpt/internal/scrapers/leetcode"

	"github.com/jedib0t/go-pretty/v6/table"
)

func NewTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

func party(p *codeforces.Party) string {
	if p == nil {
		return ""
	}
	return p.Handles()
}

func problemId(p *codeforces.Problem) string {
	if p == nil {
		return ""
	}
	return p.Id()
}

func truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func UsersTable(out io.Writer, users []codeforces.User) {
	t := NewTable(out)
	t.AppendHeader(table.Row{"Handle", "Rank", "Rating", "Max Rating", "Contribution", "Country", "Organization", "Last Online"})
	for _, u := range users {
		t.AppendRow(table.Row{u.Handle, u.Rank, u.Rating, u.MaxRating, u.Contribution, u.Country, u.Organization, u.LastOnline})
	}
	t.Render()
}

func ProblemsTable(out io.Writer, problems []codeforces.Problem) {
	t := NewTable(out)
	t.AppendHeader(table.Row{"Id", "Name", "Rating", "Points", "Tags"})
	for _, p := range problems {
		t.AppendRow(table.Row{p.Id(), p.Name, p.Rating, p.Points, strings.Join(p.Tags, ", ")})
	}
	t.Render()
}

func ProblemStatisticsTable(out io.Writer, stats []codeforces.ProblemStatistics) {
	t := NewTable(out)
	t.AppendHeader(table.Row{"Contest", "Index", "Solved"})
	for _, s := range stats {
		t.AppendRow(table.Row{s.ContestId, s.Index, s.SolvedCount})
	}
	t.Render()
}

func SubmissionsTable(out io.Writer, submissions []codeforces.Submission) {
	t := NewTable(out)
	t.AppendHeader(table.Row{"Id", "When", "Who", "Problem", "Language", "Verdict", "Tests", "Time (ms)", "Memory (KB)"})
	for _, s := range submissions {
		memory := "NA"
		if s.MemoryConsumedBytes.Valid {
			memory = fmt.Sprint(s.MemoryConsumedBytes.Value / 1024)
		}
		t.AppendRow(table.Row{
			s.Id, s.CreationTime, party(s.Author), problemId(s.Problem),
			s.ProgrammingLanguage, s.Verdict, s.PassedTestCount, s.TimeConsumedMillis, memory,
		})
	}
	t.Render()
}

func StandingsTable(out io.Writer, standings codeforces.Standings) {
	t := NewTable(out)
	t.SetTitle(standings.Contest.Name)

	header := table.Row{"Rank", "Who", "Points", "Penalty", "Hacks"}
	for _, p := range standings.Problems {
		header = append(header, p.Index)
	}
	t.AppendHeader(header)

	for _, r := range standings.Rows {
		row := table.Row{
			r.Rank, party(r.Party), r.Points, r.Penalty,
			fmt.Sprintf("+%s:-%s", r.SuccessfulHackCount, r.UnsuccessfulHackCount),
		}
		for _, result := range r.ProblemResults {
			row = append(row, problemResult(result))
		}
		t.AppendRow(row)
	}
	t.Render()
}

func problemResult(r codeforces.ProblemResult) string {
	solved := r.Points.Valid && r.Points.Value > 0
	switch {
	case solved && r.RejectedAttemptCount.Or(0) > 0:
		return fmt.Sprintf("%s (-%s)", r.Points, r.RejectedAttemptCount)
	case solved:
		return r.Points.String()
	case r.RejectedAttemptCount.Or(0) > 0:
		return fmt.Sprintf("-%s", r.RejectedAttemptCount)
	default:
		return ""
	}
}

func RatingChangesTable(out io.Writer, changes []codeforces.RatingChange) {
	t := NewTable(out)
	t.AppendHeader(table.Row{"Contest", "Handle", "Rank", "Old", "New", "Delta", "Updated"})
	for _, c := range changes {
		delta := "NA"
		if c.OldRating.Valid && c.NewRating.Valid {
			delta = fmt.Sprintf("%+d", c.NewRating.Value-c.OldRating.Value)
		}
		t.AppendRow(table.Row{c.ContestName, c.Handle, c.Rank, c.OldRating, c.NewRating, delta, c.RatingUpdateTime})
	}
	t.Render()
}

func HacksTable(out io.Writer, hacks []codeforces.Hack) {
	t := NewTable(out)
	t.AppendHeader(table.Row{"Id", "When", "Hacker", "Defender", "Problem", "Verdict"})
	for _, h := range hacks {
		t.AppendRow(table.Row{h.Id, h.CreationTime, party(h.Hacker), party(h.Defender), problemId(h.Problem), h.Verdict})
	}
	t.Render()
}

func ContestsTable(out io.Writer, contests []codeforces.Contest) {
	t := NewTable(out)
	t.AppendHeader(table.Row{"Id", "Name", "Type", "Phase", "Start", "Duration (s)"})
	for _, c := range contests {
		t.AppendRow(table.Row{c.Id, truncate(c.Name, 60), c.Type, c.Phase, c.StartTime, c.DurationSeconds})
	}
	t.Render()
}

func BlogEntriesTable(out io.Writer, entries []codeforces.BlogEntry) {
	t := NewTable(out)
	t.AppendHeader(table.Row{"Id", "Author", "Title", "Created", "Rating", "Tags"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.Id, e.AuthorHandle, truncate(e.Title, 60), e.CreationTime, e.Rating, strings.Join(e.Tags, ", ")})
	}
	t.Render()
}

func CommentsTable(out io.Writer, comments []codeforces.Comment) {
	t := NewTable(out)
	t.AppendHeader(table.Row{"Id", "Author", "Created", "Rating", "Reply To", "Text"})
	for _, c := range comments {
		t.AppendRow(table.Row{c.Id, c.CommentatorHandle, c.CreationTime, c.Rating, c.ParentCommentId, truncate(c.Text, 60)})
	}
	t.Render()
}

func RecentActionsTable(out io.Writer, actions []codeforces.RecentAction) {
	t := NewTable(out)
	t.AppendHeader(table.Row{"When", "Blog Entry", "Author", "Comment By", "Comment"})
	for _, a := range actions {
		row := table.Row{a.Time, "", "", "", ""}
		if a.BlogEntry != nil {
			row[1] = truncate(a.BlogEntry.Title, 40)
			row[2] = a.BlogEntry.AuthorHandle
		}
		if a.Comment != nil {
			row[3] = a.Comment.CommentatorHandle
			row[4] = truncate(a.Comment.Text, 40)
		}
		t.AppendRow(row)
	}
	t.Render()
}

func HandlesTable(out io.Writer, handles []string) {
	t := NewTable(out)
	t.AppendHeader(table.Row{"Handle"})
	for _, h := range handles {
		t.AppendRow(table.Row{h})
	}
	t.Render()
}

func LeetcodeContestTable(out io.Writer, contest leetcode.Contest) {
	t := NewTable(out)
	t.SetTitle(contest.Title)
	t.AppendHeader(table.Row{"Id", "Title", "Slug", "Credit"})
	for _, q := range contest.Questions {
		t.AppendRow(table.Row{q.Id, q.Title, q.Slug, q.Credit})
	}
	t.Render()
}
