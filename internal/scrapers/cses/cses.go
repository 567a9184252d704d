package cses

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"cpt/internal/components/assert"
	"cpt/internal/components/telemetry"
	"cpt/internal/transport"
	"cpt/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/PuerkitoBio/purell"
)

const (
	report_client_problem = "client.problem"
)

const DefaultBaseUrl = "https://cses.fi/"

var (
	InvalidUrl   = errors.New("cses: invalid url")
	InvalidInput = errors.New("cses: invalid input")
)

type Sample struct {
	Input  string
	Output string
}

type Problem struct {
	Id          int
	Name        string
	Url         string
	TimeLimit   string
	MemoryLimit string
	// Statement is markdown with $ math delimiters, samples are left out.
	Statement string
	Samples   []Sample
}

func (p Problem) String() string {
	var out strings.Builder
	fmt.Fprintf(&out, "%d. %s\n%s\ntime limit: %s\nmemory limit: %s\n\n%s\n", p.Id, p.Name, p.Url, p.TimeLimit, p.MemoryLimit, p.Statement)
	for i, s := range p.Samples {
		fmt.Fprintf(&out, "\nsample %d input:\n%s\nsample %d output:\n%s", i+1, s.Input, i+1, s.Output)
	}
	return strings.TrimSuffix(out.String(), "\n")
}

type Options struct {
	// Transport.Name and Transport.BaseUrl default to "cses" and the public
	// site.
	Transport transport.Options
}

type Client struct {
	transport *transport.Transport
	tel       telemetry.API
}

func New(opts Options, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)

	if opts.Transport.Name == "" {
		opts.Transport.Name = "cses"
	}
	if opts.Transport.BaseUrl == "" {
		opts.Transport.BaseUrl = DefaultBaseUrl
	}
	if opts.Transport.Limits == (transport.Limits{}) {
		opts.Transport.Limits = transport.PageLimits
	}

	tr, err := transport.New(opts.Transport, tel)
	if err != nil {
		return nil, err
	}
	return &Client{
		transport: tr,
		tel:       telemetry.NewScopedAPI("cses_client", tel),
	}, nil
}

func (c *Client) Close() error {
	return c.transport.Close()
}

func taskPath(id int) string {
	return fmt.Sprintf("problemset/task/%d", id)
}

// Problem scrapes a problemset task page.
func (c *Client) Problem(ctx context.Context, id int) (Problem, error) {
	if id <= 0 {
		return Problem{}, fmt.Errorf("%w: task id must be positive, got %d", InvalidInput, id)
	}

	res, err := c.transport.Execute(ctx, transport.Get(taskPath(id), nil))
	if err == nil {
		err = res.Check()
	}
	if err != nil {
		c.tel.ReportBroken(report_client_problem, err, id)
		return Problem{}, fmt.Errorf("task %d: %w", id, err)
	}

	problem, err := parseProblem(res.Body, res.Url)
	if err != nil {
		c.tel.ReportBroken(report_client_problem, err, id)
		return Problem{}, fmt.Errorf("task %d: %w", id, err)
	}
	problem.Id = id
	return problem, nil
}

var (
	converter       = htmlutil.NewConverter(htmlutil.MarkdownOptions{NoEscape: true})
	mathDelimiters  = strings.NewReplacer(`\(`, "", `\)`, "", `\[`, "", `\]`, "")
	exampleHeadings = []string{"example", "examples"}
)

// rewriteMath turns the page's mathjax spans into $ delimited text.
func rewriteMath(sel *goquery.Selection) {
	sel.Find("span.math").Each(func(_ int, span *goquery.Selection) {
		text := strings.TrimSpace(mathDelimiters.Replace(span.Text()))
		span.SetText(fmt.Sprintf("$%s$", text))
	})
}

func sampleText(pre *goquery.Selection) string {
	text := strings.Trim(htmlutil.SelectionText(pre), "\n")
	if text == "" {
		return ""
	}
	return text + "\n"
}

func constraint(constraints *goquery.Selection, label string) string {
	var value string
	constraints.Find("li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		text := htmlutil.CleanText(li.Text())
		if strings.HasPrefix(strings.ToLower(text), strings.ToLower(label)) {
			value = strings.TrimSpace(strings.TrimPrefix(text[len(label):], ":"))
			return false
		}
		return true
	})
	return value
}

func parseProblem(body []byte, pageUrl string) (Problem, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		return Problem{}, err
	}

	title, err := htmlutil.Require(doc.Selection, ".title-block h1", pageUrl)
	if err != nil {
		return Problem{}, err
	}
	content, err := htmlutil.Require(doc.Selection, ".content .md", pageUrl)
	if err != nil {
		return Problem{}, err
	}
	constraints := doc.Find("ul.task-constraints")

	problem := Problem{
		Name:        htmlutil.CleanText(title.Text()),
		Url:         pageUrl,
		TimeLimit:   constraint(constraints, "Time limit"),
		MemoryLimit: constraint(constraints, "Memory limit"),
		Samples:     []Sample{},
	}

	statement := content.Clone()
	rewriteMath(statement)

	pres := statement.Find("pre")
	for i := 0; i+1 < pres.Length(); i += 2 {
		problem.Samples = append(problem.Samples, Sample{
			Input:  sampleText(pres.Eq(i)),
			Output: sampleText(pres.Eq(i + 1)),
		})
	}

	statement.Find("h1").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		heading := strings.ToLower(htmlutil.CleanText(h.Text()))
		for _, e := range exampleHeadings {
			if heading == e {
				h.NextAll().Remove()
				h.Remove()
				return false
			}
		}
		return true
	})

	md, err := converter.ConvertSelection(statement)
	if err != nil {
		return Problem{}, err
	}
	problem.Statement = md
	return problem, nil
}

var taskPathRegex = regexp.MustCompile(`^/problemset/(?:task|view|stats|result)/(\d+)$`)

// ParseUrl returns the task id of a problemset url.
func ParseUrl(raw string) (int, error) {
	normalized, err := purell.NormalizeURLString(
		strings.TrimSpace(raw),
		purell.FlagsSafe|purell.FlagRemoveTrailingSlash|purell.FlagRemoveDuplicateSlashes|purell.FlagRemoveFragment,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", InvalidUrl, err)
	}
	parsed, err := url.Parse(normalized)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", InvalidUrl, err)
	}
	if parsed.Hostname() != "cses.fi" {
		return 0, fmt.Errorf("%w: %q is not a cses url", InvalidUrl, raw)
	}
	groups := taskPathRegex.FindStringSubmatch(parsed.Path)
	if groups == nil {
		return 0, fmt.Errorf("%w: %q is not a problemset task url", InvalidUrl, raw)
	}
	id, err := strconv.Atoi(groups[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %w", InvalidUrl, err)
	}
	return id, nil
}
