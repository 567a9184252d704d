package adventofcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
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

const (
	DefaultBaseUrl = "https://adventofcode.com/"
	FirstYear      = 2015
	LastDay        = 25
)

var (
	InvalidUrl   = errors.New("adventofcode: invalid url")
	InvalidInput = errors.New("adventofcode: invalid input")
)

type Problem struct {
	Year  int
	Day   int
	Title string
	Url   string
	// Description is the markdown of every visible part, part two is only
	// visible to a logged in user who solved part one.
	Description string
	Parts       int
}

func (p Problem) String() string {
	return fmt.Sprintf("%d day %d: %s\n%s\nparts: %d\n\n%s", p.Year, p.Day, p.Title, p.Url, p.Parts, p.Description)
}

type Options struct {
	Transport transport.Options
	// Session is the value of the "session" cookie of a logged in user.
	Session string
}

type Client struct {
	transport *transport.Transport
	session   string
	tel       telemetry.API
}

func New(opts Options, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)

	if opts.Transport.Name == "" {
		opts.Transport.Name = "adventofcode"
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
		session:   opts.Session,
		tel:       telemetry.NewScopedAPI("adventofcode_client", tel),
	}, nil
}

func (c *Client) Close() error {
	return c.transport.Close()
}

func validateDay(year, day int) error {
	if year < FirstYear {
		return fmt.Errorf("%w: there is no event in %d", InvalidInput, year)
	}
	if day < 1 || day > LastDay {
		return fmt.Errorf("%w: day must be within 1 and %d, got %d", InvalidInput, LastDay, day)
	}
	return nil
}

func (c *Client) Problem(ctx context.Context, year, day int) (Problem, error) {
	err := validateDay(year, day)
	if err != nil {
		return Problem{}, err
	}

	req := transport.Get(fmt.Sprintf("%d/day/%d", year, day), nil)
	if c.session != "" {
		req.Header = http.Header{}
		req.Header.Set("Cookie", (&http.Cookie{Name: "session", Value: c.session}).String())
	}

	res, err := c.transport.Execute(ctx, req)
	if err == nil {
		err = res.Check()
	}
	if err != nil {
		c.tel.ReportBroken(report_client_problem, err, year, day)
		return Problem{}, fmt.Errorf("%d day %d: %w", year, day, err)
	}

	problem, err := parseProblem(res.Body, res.Url)
	if err != nil {
		c.tel.ReportBroken(report_client_problem, err, year, day)
		return Problem{}, fmt.Errorf("%d day %d: %w", year, day, err)
	}
	problem.Year = year
	problem.Day = day
	return problem, nil
}

var converter = htmlutil.NewConverter(htmlutil.MarkdownOptions{
	PlainLinks:   true,
	StarEmphasis: true,
})

var titleRegex = regexp.MustCompile(`^-*\s*Day\s+\d+:\s*(.*?)\s*-*$`)

func parseProblem(body []byte, pageUrl string) (Problem, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		return Problem{}, err
	}
	articles := doc.Find("article.day-desc")
	if articles.Length() == 0 {
		return Problem{}, &htmlutil.NodeNotFound{Selector: "article.day-desc", Url: pageUrl}
	}

	problem := Problem{Url: pageUrl, Parts: articles.Length()}
	heading := htmlutil.CleanText(articles.First().Find("h2").First().Text())
	problem.Title = heading
	if groups := titleRegex.FindStringSubmatch(heading); groups != nil {
		problem.Title = groups[1]
	}

	parts := []string{}
	var convertErr error
	articles.EachWithBreak(func(_ int, article *goquery.Selection) bool {
		md, err := converter.ConvertSelection(article)
		if err != nil {
			convertErr = err
			return false
		}
		parts = append(parts, md)
		return true
	})
	if convertErr != nil {
		return Problem{}, convertErr
	}
	problem.Description = strings.Join(parts, "\n\n")
	return problem, nil
}

var dayPathRegex = regexp.MustCompile(`^/(\d{4})/day/(\d{1,2})(?:/input)?$`)

// ParseUrl returns the year and day of a puzzle url.
func ParseUrl(raw string) (year, day int, err error) {
	normalized, err := purell.NormalizeURLString(
		strings.TrimSpace(raw),
		purell.FlagsSafe|purell.FlagRemoveTrailingSlash|purell.FlagRemoveDuplicateSlashes|purell.FlagRemoveFragment,
	)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", InvalidUrl, err)
	}
	parsed, err := url.Parse(normalized)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", InvalidUrl, err)
	}
	if parsed.Hostname() != "adventofcode.com" {
		return 0, 0, fmt.Errorf("%w: %q is not an advent of code url", InvalidUrl, raw)
	}
	groups := dayPathRegex.FindStringSubmatch(parsed.Path)
	if groups == nil {
		return 0, 0, fmt.Errorf("%w: %q is not a puzzle url", InvalidUrl, raw)
	}
	year, _ = strconv.Atoi(groups[1])
	day, _ = strconv.Atoi(groups[2])
	err = validateDay(year, day)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", InvalidUrl, err)
	}
	return year, day, nil
}
