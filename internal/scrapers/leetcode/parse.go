package leetcode

import (
	"strings"

	"cpt/pkg/htmlutil"
	"cpt/pkg/payload"
)

var statementConverter = htmlutil.NewConverter(htmlutil.MarkdownOptions{SupSymbol: "^"})

var contentReplacer = strings.NewReplacer("<p>", "", "</p>", "", "&nbsp;", "")

// statementMarkdown drops paragraph tags and non breaking spaces before
// converting, leetcode pads every paragraph with them.
func statementMarkdown(content string) string {
	content = contentReplacer.Replace(strings.TrimSpace(content))
	if content == "" {
		return ""
	}
	md, err := statementConverter.ConvertString(content)
	if err != nil {
		return content
	}
	return md
}

// decodeEmbedded decodes an object that the api sends as a json string.
func decodeEmbedded(text string) payload.Object {
	obj, err := payload.Decode([]byte(text))
	if err != nil || obj == nil {
		return payload.Object{}
	}
	return obj
}

func decodeEmbeddedList(text string) []payload.Object {
	list, err := payload.DecodeList([]byte(text))
	if err != nil {
		return []payload.Object{}
	}
	return list
}

func parseSimilarProblem(obj payload.Object) SimilarProblem {
	return SimilarProblem{
		Title:      obj.String("title"),
		Slug:       obj.String("titleSlug"),
		Difficulty: obj.String("difficulty"),
	}
}

func parseCodeSnippet(obj payload.Object) CodeSnippet {
	return CodeSnippet{
		Lang:     obj.String("lang"),
		LangSlug: obj.String("langSlug"),
		Code:     obj.String("code"),
	}
}

func parseProblem(obj payload.Object) Problem {
	stats := decodeEmbedded(obj.String("stats"))

	tags := []string{}
	for _, tag := range obj.Objects("topicTags") {
		slug := tag.String("slug")
		if slug != "" {
			tags = append(tags, slug)
		}
	}

	similar := []SimilarProblem{}
	for _, s := range decodeEmbeddedList(obj.String("similarQuestions")) {
		similar = append(similar, parseSimilarProblem(s))
	}

	snippets := []CodeSnippet{}
	for _, s := range obj.Objects("codeSnippets") {
		snippets = append(snippets, parseCodeSnippet(s))
	}

	return Problem{
		Id:               obj.Int("questionId"),
		FrontendId:       obj.Int("questionFrontendId"),
		Title:            obj.String("title"),
		Slug:             obj.String("titleSlug"),
		Statement:        statementMarkdown(obj.String("content")),
		Difficulty:       obj.String("difficulty"),
		Likes:            obj.Int("likes"),
		Dislikes:         obj.Int("dislikes"),
		Tags:             tags,
		TotalAccepted:    stats.Int("totalAcceptedRaw"),
		TotalSubmissions: stats.Int("totalSubmissionRaw"),
		AcceptanceRate:   stats.String("acRate"),
		Hints:            obj.Strings("hints"),
		SimilarProblems:  similar,
		PaidOnly:         obj.Bool("isPaidOnly"),
		CodeSnippets:     snippets,
		SampleTestCase:   obj.String("sampleTestCase"),
	}
}

func parseContestQuestion(obj payload.Object) ContestQuestion {
	id := obj.Int("question_id")
	if !id.Valid {
		id = obj.Int("id")
	}
	return ContestQuestion{
		Id:     id,
		Title:  obj.String("title"),
		Slug:   obj.String("title_slug"),
		Credit: obj.Int("credit"),
	}
}

// parseContest reads the contest info endpoint, which nests the contest
// itself next to its question list.
func parseContest(obj payload.Object) Contest {
	info := obj.Object("contest")
	if info == nil {
		info = payload.Object{}
	}
	questions := []ContestQuestion{}
	for _, q := range obj.Objects("questions") {
		questions = append(questions, parseContestQuestion(q))
	}
	return Contest{
		Slug:      info.String("title_slug"),
		Title:     info.String("title"),
		StartTime: info.Time("start_time"),
		Duration:  info.Int("duration"),
		Questions: questions,
	}
}
