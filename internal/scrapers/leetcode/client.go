package leetcode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"cpt/internal/components/assert"
	"cpt/internal/components/telemetry"
	"cpt/internal/transport"
	"cpt/pkg/payload"
)

const (
	report_client_csrf          = "client.csrf"
	report_client_graphql_query = "client.graphql-query"
	report_client_contest       = "client.contest"
)

const DefaultBaseUrl = "https://leetcode.com/"

var (
	InvalidUrl   = errors.New("leetcode: invalid url")
	InvalidInput = errors.New("leetcode: invalid input")
	CsrfMissing  = errors.New("leetcode: landing page did not set a csrftoken cookie")
	NotFound     = errors.New("leetcode: not found")
)

type Options struct {
	// Transport.Name and Transport.BaseUrl default to "leetcode" and the
	// public site.
	Transport transport.Options
}

type Client struct {
	transport *transport.Transport
	baseUrl   string
	tel       telemetry.API

	csrfMutex sync.Mutex
	csrf      string
}

func New(opts Options, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)

	if opts.Transport.Name == "" {
		opts.Transport.Name = "leetcode"
	}
	if opts.Transport.BaseUrl == "" {
		opts.Transport.BaseUrl = DefaultBaseUrl
	}
	if !strings.HasSuffix(opts.Transport.BaseUrl, "/") {
		opts.Transport.BaseUrl += "/"
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
		baseUrl:   opts.Transport.BaseUrl,
		tel:       telemetry.NewScopedAPI("leetcode_client", tel),
	}, nil
}

func (c *Client) Close() error {
	return c.transport.Close()
}

// csrfToken fetches the landing page once to obtain the token every graphql
// request must echo back, the token is kept for the client's lifetime.
func (c *Client) csrfToken(ctx context.Context) (string, error) {
	c.csrfMutex.Lock()
	defer c.csrfMutex.Unlock()
	if c.csrf != "" {
		return c.csrf, nil
	}

	res, err := c.transport.Execute(ctx, transport.Get(c.baseUrl, nil))
	if err == nil {
		err = res.Check()
	}
	if err != nil {
		c.tel.ReportBroken(report_client_csrf, fmt.Errorf("fetch: %w", err))
		return "", err
	}
	token, ok := res.Cookie("csrftoken")
	if !ok || token == "" {
		c.tel.ReportBroken(report_client_csrf, CsrfMissing)
		return "", CsrfMissing
	}

	c.csrf = token
	c.tel.ReportDebug(report_client_csrf, "obtained token")
	return token, nil
}

func (c *Client) headers(token string) http.Header {
	header := http.Header{}
	header.Set("Referer", c.baseUrl)
	header.Set("Content-Type", "application/json")
	header.Set("X-CSRFToken", token)
	return header
}

const questionDataQuery = `query questionData($titleSlug: String!) {
  question(titleSlug: $titleSlug) {
    questionId
    questionFrontendId
    title
    titleSlug
    content
    isPaidOnly
    difficulty
    likes
    dislikes
    similarQuestions
    topicTags {
      name
      slug
    }
    codeSnippets {
      lang
      langSlug
      code
    }
    stats
    hints
    sampleTestCase
  }
}`

type questionData struct {
	Question payload.Object `json:"question"`
}

// Problem fetches a problem by its slug (ex. "two-sum").
func (c *Client) Problem(ctx context.Context, slug string) (Problem, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return Problem{}, fmt.Errorf("%w: empty problem slug", InvalidInput)
	}

	var data questionData
	err := graphqlQuery(ctx, c, "questionData", questionDataQuery, map[string]any{
		"titleSlug": slug,
	}, &data)
	if err != nil {
		return Problem{}, fmt.Errorf("problem %s: %w", slug, err)
	}
	if data.Question == nil {
		return Problem{}, fmt.Errorf("problem %s: %w", slug, NotFound)
	}
	return parseProblem(data.Question), nil
}

// Contest fetches a contest and its question list by the contest's slug
// (ex. "weekly-contest-400").
func (c *Client) Contest(ctx context.Context, slug string) (Contest, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return Contest{}, fmt.Errorf("%w: empty contest slug", InvalidInput)
	}

	res, err := c.transport.Execute(ctx, transport.Get(fmt.Sprintf("contest/api/info/%s/", slug), nil))
	if err == nil {
		err = res.Check()
	}
	if err != nil {
		var status *transport.HttpStatus
		if errors.As(err, &status) && status.Code == http.StatusNotFound {
			return Contest{}, fmt.Errorf("contest %s: %w", slug, NotFound)
		}
		c.tel.ReportBroken(report_client_contest, err, slug)
		return Contest{}, fmt.Errorf("contest %s: %w", slug, err)
	}

	obj, err := payload.Decode(res.Body)
	if err != nil {
		c.tel.ReportBroken(report_client_contest, fmt.Errorf("decode: %w", err), slug)
		return Contest{}, fmt.Errorf("contest %s: %w", slug, err)
	}
	contest := parseContest(obj)
	if contest.Slug == "" {
		contest.Slug = slug
	}
	return contest, nil
}
