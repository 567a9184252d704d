package codeforces

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"cpt/internal/transport"
	"cpt/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/PuerkitoBio/purell"
)

type Sample struct {
	Input  string
	Output string
}

// ProblemPage is a problem scraped from its rendered page, the text fields
// are markdown with $ math delimiters.
type ProblemPage struct {
	Url                 string
	ContestId           int
	Index               string
	Name                string
	TimeLimit           string
	MemoryLimit         string
	InputFile           string
	OutputFile          string
	Statement           string
	InputSpecification  string
	OutputSpecification string
	Note                string
	Samples             []Sample
}

// ProblemRef identifies a problem page.
type ProblemRef struct {
	ContestId int
	Index     string
	Gym       bool
}

func (r ProblemRef) Path() string {
	if r.Gym {
		return fmt.Sprintf("/gym/%d/problem/%s", r.ContestId, r.Index)
	}
	return fmt.Sprintf("/problemset/problem/%d/%s", r.ContestId, r.Index)
}

func (r ProblemRef) String() string {
	return fmt.Sprintf("%d%s", r.ContestId, r.Index)
}

var problemPathRegexes = []*regexp.Regexp{
	regexp.MustCompile(`^/problemset/problem/(\d+)/([A-Za-z][A-Za-z0-9]*)$`),
	regexp.MustCompile(`^/contest/(\d+)/problem/([A-Za-z][A-Za-z0-9]*)$`),
	regexp.MustCompile(`^/(gym)/(\d+)/problem/([A-Za-z][A-Za-z0-9]*)$`),
}

// ParseProblemUrl understands problemset, contest and gym problem urls.
func ParseProblemUrl(raw string) (ProblemRef, error) {
	normalized, err := purell.NormalizeURLString(
		strings.TrimSpace(raw),
		purell.FlagsSafe|purell.FlagRemoveTrailingSlash|purell.FlagRemoveDuplicateSlashes|purell.FlagRemoveFragment,
	)
	if err != nil {
		return ProblemRef{}, fmt.Errorf("%w: %w", InvalidInput, err)
	}
	parsed, err := url.Parse(normalized)
	if err != nil {
		return ProblemRef{}, fmt.Errorf("%w: %w", InvalidInput, err)
	}
	host := parsed.Hostname()
	if host != "codeforces.com" && !strings.HasSuffix(host, ".codeforces.com") {
		return ProblemRef{}, fmt.Errorf("%w: %q is not a codeforces url", InvalidInput, raw)
	}

	for _, re := range problemPathRegexes {
		groups := re.FindStringSubmatch(parsed.Path)
		if groups == nil {
			continue
		}
		gym := groups[1] == "gym"
		if gym {
			groups = groups[1:]
		}
		contestId, err := strconv.Atoi(groups[1])
		if err != nil {
			return ProblemRef{}, fmt.Errorf("%w: %w", InvalidInput, err)
		}
		return ProblemRef{
			ContestId: contestId,
			Index:     strings.ToUpper(groups[2]),
			Gym:       gym,
		}, nil
	}
	return ProblemRef{}, fmt.Errorf("%w: %q is not a codeforces problem url", InvalidInput, raw)
}

var statementConverter = htmlutil.NewConverter(htmlutil.MarkdownOptions{NoEscape: true})

// sectionMarkdown converts a section to markdown without its title.
func sectionMarkdown(sel *goquery.Selection, titles ...string) (string, error) {
	if sel.Length() == 0 {
		return "", nil
	}
	clone := sel.First().Clone()
	clone.Find(".section-title").Remove()

	md, err := statementConverter.ConvertSelection(clone)
	if err != nil {
		return "", err
	}
	return htmlutil.Latexify(htmlutil.StripPrefix(md, titles...)), nil
}

// preText keeps the line structure of a sample, newer pages put every line
// in its own div.
func preText(pre *goquery.Selection) string {
	lines := pre.Find(".test-example-line")
	var text string
	if lines.Length() > 0 {
		parts := []string{}
		lines.Each(func(_ int, line *goquery.Selection) {
			parts = append(parts, htmlutil.SelectionText(line))
		})
		text = strings.Join(parts, "\n")
	} else {
		text = htmlutil.SelectionText(pre)
	}
	text = strings.Trim(text, "\n")
	if text == "" {
		return ""
	}
	return text + "\n"
}

func splitTitle(title string) (index, name string) {
	title = htmlutil.CleanText(title)
	index, name, found := strings.Cut(title, ". ")
	if !found {
		return "", title
	}
	return index, name
}

func parseProblemPage(body []byte, pageUrl string) (ProblemPage, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		return ProblemPage{}, err
	}

	statement, err := htmlutil.Require(doc.Selection, ".problem-statement", pageUrl)
	if err != nil {
		return ProblemPage{}, err
	}
	header, err := htmlutil.Require(statement, ".header", pageUrl)
	if err != nil {
		return ProblemPage{}, err
	}
	title, err := htmlutil.Require(header, ".title", pageUrl)
	if err != nil {
		return ProblemPage{}, err
	}
	timeLimit, err := htmlutil.Require(header, ".time-limit", pageUrl)
	if err != nil {
		return ProblemPage{}, err
	}
	memoryLimit, err := htmlutil.Require(header, ".memory-limit", pageUrl)
	if err != nil {
		return ProblemPage{}, err
	}

	page := ProblemPage{
		Url:         pageUrl,
		TimeLimit:   htmlutil.StripPrefix(htmlutil.CleanText(timeLimit.Text()), "time limit per test"),
		MemoryLimit: htmlutil.StripPrefix(htmlutil.CleanText(memoryLimit.Text()), "memory limit per test"),
		InputFile:   htmlutil.StripPrefix(htmlutil.CleanText(header.Find(".input-file").Text()), "input"),
		OutputFile:  htmlutil.StripPrefix(htmlutil.CleanText(header.Find(".output-file").Text()), "output"),
		Samples:     []Sample{},
	}
	page.Index, page.Name = splitTitle(title.Text())

	legend := statement.ChildrenFiltered("div:not([class])").First()
	if legend.Length() > 0 {
		md, err := statementConverter.ConvertSelection(legend)
		if err != nil {
			return ProblemPage{}, err
		}
		page.Statement = htmlutil.Latexify(md)
	}

	page.InputSpecification, err = sectionMarkdown(statement.Find(".input-specification"), "Input")
	if err != nil {
		return ProblemPage{}, err
	}
	page.OutputSpecification, err = sectionMarkdown(statement.Find(".output-specification"), "Output")
	if err != nil {
		return ProblemPage{}, err
	}
	page.Note, err = sectionMarkdown(statement.Find(".note"), "Note")
	if err != nil {
		return ProblemPage{}, err
	}

	inputs := statement.Find(".sample-test .input pre")
	outputs := statement.Find(".sample-test .output pre")
	for i := 0; i < inputs.Length() && i < outputs.Length(); i++ {
		page.Samples = append(page.Samples, Sample{
			Input:  preText(inputs.Eq(i)),
			Output: preText(outputs.Eq(i)),
		})
	}

	return page, nil
}

// ScrapeProblem fetches and parses a problem page. A page without the
// expected layout fails with *htmlutil.NodeNotFound.
func (c *Client) ScrapeProblem(ctx context.Context, ref ProblemRef) (ProblemPage, error) {
	if ref.ContestId <= 0 || ref.Index == "" {
		return ProblemPage{}, fmt.Errorf("%w: incomplete problem reference %+v", InvalidInput, ref)
	}
	pageUrl := c.pageUrl + ref.Path()

	res, err := c.transport.Execute(ctx, transport.Get(pageUrl, nil))
	if err == nil {
		err = res.Check()
	}
	if err != nil {
		c.tel.ReportBroken(report_client_scrape, err, pageUrl)
		return ProblemPage{}, fmt.Errorf("problem %s: %w", ref, err)
	}

	page, err := parseProblemPage(res.Body, pageUrl)
	if err != nil {
		c.tel.ReportBroken(report_client_scrape, err, pageUrl)
		return ProblemPage{}, fmt.Errorf("problem %s: %w", ref, err)
	}
	page.ContestId = ref.ContestId
	return page, nil
}
