package leetcode

import (
	"fmt"
	"strings"

	"cpt/pkg/na"
)

type SimilarProblem struct {
	Title      string
	Slug       string
	Difficulty string
}

type CodeSnippet struct {
	Lang     string
	LangSlug string
	Code     string
}

type Problem struct {
	Id               na.Int
	FrontendId       na.Int
	Title            string
	Slug             string
	Statement        string
	Difficulty       string
	Likes            na.Int
	Dislikes         na.Int
	Tags             []string
	TotalAccepted    na.Int
	TotalSubmissions na.Int
	// AcceptanceRate is kept as reported, ex. "51.3%".
	AcceptanceRate  string
	Hints           []string
	SimilarProblems []SimilarProblem
	PaidOnly        bool
	CodeSnippets    []CodeSnippet
	SampleTestCase  string
}

func (p Problem) Url(baseUrl string) string {
	return fmt.Sprintf("%s/problems/%s/", strings.TrimRight(baseUrl, "/"), p.Slug)
}

func (p Problem) String() string {
	similar := make([]string, len(p.SimilarProblems))
	for i, s := range p.SimilarProblems {
		similar[i] = fmt.Sprintf("%s (%s, %s)", s.Title, s.Slug, s.Difficulty)
	}
	langs := make([]string, len(p.CodeSnippets))
	for i, s := range p.CodeSnippets {
		langs[i] = s.LangSlug
	}
	return fmt.Sprintf(
		"[%s] %s (%s)\nid: %s\ndifficulty: %s\npaid only: %t\nlikes: %s, dislikes: %s\ntags: %s\naccepted: %s / %s (%s)\nhints: %s\nsimilar: %s\nsnippets: %s\nsample test case: %q\n\n%s",
		p.FrontendId, p.Title, p.Slug,
		p.Id,
		p.Difficulty,
		p.PaidOnly,
		p.Likes, p.Dislikes,
		strings.Join(p.Tags, ", "),
		p.TotalAccepted, p.TotalSubmissions, p.AcceptanceRate,
		strings.Join(p.Hints, " | "),
		strings.Join(similar, ", "),
		strings.Join(langs, ", "),
		p.SampleTestCase,
		p.Statement,
	)
}

type ContestQuestion struct {
	Id     na.Int
	Title  string
	Slug   string
	Credit na.Int
}

type Contest struct {
	Slug      string
	Title     string
	StartTime na.Time
	// Duration is in seconds.
	Duration  na.Int
	Questions []ContestQuestion
}

func (c Contest) String() string {
	var out strings.Builder
	fmt.Fprintf(&out, "%s (%s)\nstart: %s\nduration: %s\n", c.Title, c.Slug, c.StartTime, c.Duration)
	for _, q := range c.Questions {
		fmt.Fprintf(&out, "- [%s] %s (%s) credit %s\n", q.Id, q.Title, q.Slug, q.Credit)
	}
	return strings.TrimSuffix(out.String(), "\n")
}
