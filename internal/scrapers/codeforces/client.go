package codeforces

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cpt/internal/components/assert"
	"cpt/internal/components/chrono"
	"cpt/internal/components/telemetry"
	"cpt/internal/envelope"
	"cpt/internal/transport"
	"cpt/pkg/payload"
	"cpt/pkg/textutil"

	random "github.com/mazen160/go-random"
)

const (
	report_client_call    = "client.call"
	report_client_decode  = "client.decode"
	report_client_tags    = "client.tags"
	report_client_scrape  = "client.scrape-problem"
	report_client_sign    = "client.sign"
	report_client_friends = "client.user-friends"
)

const (
	DefaultApiUrl  = "https://codeforces.com/api/"
	DefaultPageUrl = "https://codeforces.com"
)

// ApiLimits is the documented call limit of the api, one call every 2
// seconds.
var ApiLimits = transport.Limits{Permits: 1, Period: 2 * time.Second}

// ThrottledStatuses are the statuses the api answers over-limit calls with,
// 503 carries a {"status":"FAILED","comment":"Call limit exceeded"} envelope.
var ThrottledStatuses = []int{http.StatusTooManyRequests, http.StatusServiceUnavailable}

const (
	RouteBlogEntryComments      = "blogEntry.comments"
	RouteBlogEntryView          = "blogEntry.view"
	RouteContestHacks           = "contest.hacks"
	RouteContestList            = "contest.list"
	RouteContestRatingChanges   = "contest.ratingChanges"
	RouteContestStandings       = "contest.standings"
	RouteContestStatus          = "contest.status"
	RouteProblemsetProblems     = "problemset.problems"
	RouteProblemsetRecentStatus = "problemset.recentStatus"
	RouteRecentActions          = "recentActions"
	RouteUserBlogEntries        = "user.blogEntries"
	RouteUserFriends            = "user.friends"
	RouteUserInfo               = "user.info"
	RouteUserRatedList          = "user.ratedList"
	RouteUserRating             = "user.rating"
	RouteUserStatus             = "user.status"
)

// Routes lists every api method the client knows how to call.
var Routes = []string{
	RouteBlogEntryComments,
	RouteBlogEntryView,
	RouteContestHacks,
	RouteContestList,
	RouteContestRatingChanges,
	RouteContestStandings,
	RouteContestStatus,
	RouteProblemsetProblems,
	RouteProblemsetRecentStatus,
	RouteRecentActions,
	RouteUserBlogEntries,
	RouteUserFriends,
	RouteUserInfo,
	RouteUserRatedList,
	RouteUserRating,
	RouteUserStatus,
}

var (
	InvalidRoute       = errors.New("codeforces: invalid route")
	InvalidInput       = errors.New("codeforces: invalid input")
	MissingCredentials = errors.New("codeforces: api key and secret are required")
)

type Options struct {
	// Transport.Name and Transport.BaseUrl default to "codeforces" and the
	// public api url.
	Transport transport.Options
	// PageUrl is where problem pages are scraped from.
	PageUrl   string
	ApiKey    string
	ApiSecret string
	Clock     chrono.API
	// Nonce generates the random prefix of signed requests.
	Nonce func() (string, error)
}

type Client struct {
	transport *transport.Transport
	pageUrl   string
	apiKey    string
	apiSecret string
	clock     chrono.API
	nonce     func() (string, error)
	tel       telemetry.API
}

func defaultNonce() (string, error) {
	return random.String(6)
}

func New(opts Options, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)

	if opts.Transport.Name == "" {
		opts.Transport.Name = "codeforces"
	}
	if opts.Transport.BaseUrl == "" {
		opts.Transport.BaseUrl = DefaultApiUrl
	}
	if opts.Transport.Limits == (transport.Limits{}) {
		opts.Transport.Limits = ApiLimits
	}
	if len(opts.Transport.RetryStatuses) == 0 {
		opts.Transport.RetryStatuses = ThrottledStatuses
	}
	if opts.PageUrl == "" {
		opts.PageUrl = DefaultPageUrl
	}
	if opts.Clock == nil {
		opts.Clock = chrono.NewStandardImpl()
	}
	if opts.Nonce == nil {
		opts.Nonce = defaultNonce
	}

	tr, err := transport.New(opts.Transport, tel)
	if err != nil {
		return nil, err
	}

	return &Client{
		transport: tr,
		pageUrl:   strings.TrimRight(opts.PageUrl, "/"),
		apiKey:    opts.ApiKey,
		apiSecret: opts.ApiSecret,
		clock:     opts.Clock,
		nonce:     opts.Nonce,
		tel:       telemetry.NewScopedAPI("codeforces_client", tel),
	}, nil
}

func (c *Client) Close() error {
	return c.transport.Close()
}

func validateRoute(route string) error {
	for _, r := range Routes {
		if r == route {
			return nil
		}
	}
	suggestion := textutil.Suggest(route, Routes)
	if suggestion != "" {
		return fmt.Errorf("%w %q, did you mean %q?", InvalidRoute, route, suggestion)
	}
	return fmt.Errorf("%w %q, valid routes are: %s", InvalidRoute, route, strings.Join(Routes, ", "))
}

// Call sends a request to an api route and returns the validated result
// payload. Envelope failures are returned as the envelope package's errors.
func (c *Client) Call(ctx context.Context, route string, params url.Values) (json.RawMessage, error) {
	err := validateRoute(route)
	if err != nil {
		return nil, err
	}
	c.tel.ReportDebug(report_client_call, route, params.Encode())

	res, err := c.transport.Execute(ctx, transport.Get(route, params))
	if err != nil {
		return nil, err
	}

	result, err := envelope.Validate(res.Body)
	if errors.Is(err, envelope.Undecodable) && !res.Ok() {
		// an html error page instead of an envelope
		err = res.Check()
	}
	if err != nil {
		var failed *envelope.StatusFailed
		if !errors.As(err, &failed) {
			c.tel.ReportBroken(report_client_call, err, route)
		}
		return nil, err
	}
	return result, nil
}

// callList calls a route whose result is a list of objects.
func (c *Client) callList(ctx context.Context, route string, params url.Values) ([]payload.Object, error) {
	result, err := c.Call(ctx, route, params)
	if err != nil {
		return nil, err
	}
	list, err := payload.DecodeList(result)
	if err != nil {
		c.tel.ReportBroken(report_client_decode, fmt.Errorf("decode list: %w", err), route)
		return nil, err
	}
	return list, nil
}

// callObject calls a route whose result is a single object.
func (c *Client) callObject(ctx context.Context, route string, params url.Values) (payload.Object, error) {
	result, err := c.Call(ctx, route, params)
	if err != nil {
		return nil, err
	}
	obj, err := payload.Decode(result)
	if err != nil {
		c.tel.ReportBroken(report_client_decode, fmt.Errorf("decode object: %w", err), route)
		return nil, err
	}
	return obj, nil
}
