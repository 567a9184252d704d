// Package transport is the single chokepoint every site client sends its
// requests through. It paces requests with a per-transport rate limiter and
// re-sends requests the remote side throttled.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"cpt/internal/components/assert"
	"cpt/internal/components/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/time/rate"
)

const (
	report_transport_execute = "transport.execute"
	report_transport_retry   = "transport.retry"
	report_transport_limiter = "transport.limiter"
)

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

var (
	InvalidRequest   = errors.New("transport: invalid request")
	RetriesExhausted = errors.New("transport: retries exhausted")
)

var meter = otel.Meter("cpt/internal/transport")
var requestCounter, _ = meter.Int64Counter(
	"cpt.transport.requests",
	metric.WithDescription("requests sent to a site, including retries"),
)
var retryCounter, _ = meter.Int64Counter(
	"cpt.transport.retries",
	metric.WithDescription("requests re-sent after being throttled"),
)

// Limits allow at most Permits requests every Period.
type Limits struct {
	Permits int
	Period  time.Duration
}

var (
	// PageLimits is used for clients that scrape rendered pages.
	PageLimits = Limits{Permits: 1, Period: 2 * time.Second}
	// ApiLimits is used for clients of JSON APIs.
	ApiLimits = Limits{Permits: 2, Period: time.Second}
)

// newLimiter spaces requests evenly across the period with a burst of 1, so
// only one request passes the gate at a time and the (Permits+1)-th request
// in a row is held until a whole Period has passed since the first.
func (l Limits) newLimiter() *rate.Limiter {
	assert.Positive("permits", l.Permits)
	assert.Positive("period", l.Period)
	return rate.NewLimiter(rate.Every(l.Period/time.Duration(l.Permits)), 1)
}

type Options struct {
	// Name identifies the site in logs, traces and metrics.
	Name    string
	BaseUrl string
	Limits  Limits
	// RetryInterval is the fixed pause before re-sending a throttled
	// request, defaults to 1 second.
	RetryInterval time.Duration
	// MaxRetries caps how many times a throttled request is re-sent, 0
	// means it is re-sent until it succeeds or the context is done.
	MaxRetries int
	// RetryStatuses are the response statuses that mean "throttled",
	// defaults to 429.
	RetryStatuses []int
	// Timeout bounds a single attempt, defaults to 30 seconds.
	Timeout          time.Duration
	UserAgent        string
	BypassCloudflare bool
}

type Request struct {
	Method string
	// Url is either absolute or relative to the transport's base url.
	Url    string
	Header http.Header
	// Only one of Query or Body may be set.
	Query url.Values
	Body  []byte
}

func Get(u string, query url.Values) Request {
	return Request{Method: http.MethodGet, Url: u, Query: query}
}

func Post(u string, body []byte) Request {
	return Request{Method: http.MethodPost, Url: u, Body: body}
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Cookies    []*http.Cookie
	Url        string
}

func (r Response) Ok() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Cookie returns the value of the named cookie set by the response.
func (r Response) Cookie(name string) (string, bool) {
	for _, c := range r.Cookies {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

// HttpStatus is returned by callers that require a successful status.
type HttpStatus struct {
	Code int
	Url  string
}

func (e *HttpStatus) Error() string {
	return fmt.Sprintf("unexpected http status %d (%s) from %s", e.Code, http.StatusText(e.Code), e.Url)
}

// Check returns *HttpStatus if the response is not successful.
func (r Response) Check() error {
	if r.Ok() {
		return nil
	}
	return &HttpStatus{Code: r.StatusCode, Url: r.Url}
}

type Transport struct {
	name          string
	baseUrl       string
	http          *resty.Client
	limiter       *rate.Limiter
	limits        Limits
	retryInterval time.Duration
	maxRetries    int
	retryStatuses map[int]struct{}
	attrs         metric.MeasurementOption
	tel           telemetry.API
}

func New(opts Options, tel telemetry.API) (*Transport, error) {
	assert.NotNil(tel)
	assert.NotEmptyStr(opts.Name)

	tel = telemetry.NewScopedAPI(fmt.Sprintf("%s_transport", opts.Name), tel)

	if opts.Limits == (Limits{}) {
		opts.Limits = ApiLimits
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = time.Second
	}
	if opts.MaxRetries < 0 {
		return nil, fmt.Errorf("%w: negative max retries %d", InvalidRequest, opts.MaxRetries)
	}
	if len(opts.RetryStatuses) == 0 {
		opts.RetryStatuses = []int{http.StatusTooManyRequests}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.BaseUrl != "" {
		_, err := url.Parse(opts.BaseUrl)
		if err != nil {
			return nil, fmt.Errorf("%w: base url: %w", InvalidRequest, err)
		}
	}

	httpClient := resty.New()
	if opts.BaseUrl != "" {
		httpClient.SetBaseURL(opts.BaseUrl)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	if opts.BypassCloudflare {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	httpClient.SetHeader("user-agent", opts.UserAgent)
	httpClient.SetTimeout(opts.Timeout)

	limiter := opts.Limits.newLimiter()
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if !limiter.Allow() {
			tel.ReportDebug(report_transport_limiter, "waiting for permit", req.Method, req.URL)
			err := limiter.Wait(req.Context())
			if err != nil {
				return err
			}
		}
		return nil
	})

	telemetry.InstrumentResty(httpClient, fmt.Sprintf("cpt/%s", opts.Name), tel)

	retryStatuses := map[int]struct{}{}
	for _, status := range opts.RetryStatuses {
		retryStatuses[status] = struct{}{}
	}

	return &Transport{
		name:          opts.Name,
		baseUrl:       opts.BaseUrl,
		http:          httpClient,
		limiter:       limiter,
		limits:        opts.Limits,
		retryInterval: opts.RetryInterval,
		maxRetries:    opts.MaxRetries,
		retryStatuses: retryStatuses,
		attrs:         metric.WithAttributes(attribute.String("site", opts.Name)),
		tel:           tel,
	}, nil
}

func (t *Transport) validate(req *Request) error {
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	req.Method = strings.ToUpper(req.Method)

	if req.Url == "" {
		return fmt.Errorf("%w: empty url", InvalidRequest)
	}
	parsed, err := url.Parse(req.Url)
	if err != nil {
		return fmt.Errorf("%w: %w", InvalidRequest, err)
	}
	if !parsed.IsAbs() && t.baseUrl == "" {
		return fmt.Errorf("%w: relative url %q without a base url", InvalidRequest, req.Url)
	}
	if len(req.Body) > 0 && (req.Method == http.MethodGet || req.Method == http.MethodHead) {
		return fmt.Errorf("%w: %s request with a body", InvalidRequest, req.Method)
	}
	if len(req.Body) > 0 && len(req.Query) > 0 {
		return fmt.Errorf("%w: both query parameters and a body were given", InvalidRequest)
	}
	return nil
}

func (t *Transport) send(ctx context.Context, req Request) (Response, error) {
	r := t.http.R().SetContext(ctx)
	for key, values := range req.Header {
		for _, v := range values {
			r.Header.Add(key, v)
		}
	}
	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}
	if len(req.Body) > 0 {
		r.SetBody(req.Body)
	}

	res, err := r.Execute(req.Method, req.Url)
	requestCounter.Add(ctx, 1, t.attrs)
	if err != nil {
		return Response{}, err
	}

	return Response{
		StatusCode: res.StatusCode(),
		Header:     res.Header(),
		Body:       res.Body(),
		Cookies:    res.Cookies(),
		Url:        res.Request.URL,
	}, nil
}

// Execute sends the request through the limiter. A throttled response is
// re-sent after RetryInterval until it goes through, MaxRetries is reached or
// ctx is done. Any other response is returned as is, whatever its status.
func (t *Transport) Execute(ctx context.Context, req Request) (Response, error) {
	err := t.validate(&req)
	if err != nil {
		return Response{}, err
	}

	retries := 0
	for {
		res, err := t.send(ctx, req)
		if err != nil {
			t.tel.ReportBroken(report_transport_execute, fmt.Errorf("fetch: %w", err), req.Method, req.Url)
			return Response{}, fmt.Errorf("%s %s: %w", req.Method, req.Url, err)
		}
		if _, throttled := t.retryStatuses[res.StatusCode]; !throttled {
			return res, nil
		}

		retries++
		if t.maxRetries > 0 && retries > t.maxRetries {
			t.tel.ReportWarning(report_transport_retry, "giving up", req.Method, req.Url, t.maxRetries)
			return res, fmt.Errorf("%w: %s %s was throttled %d times", RetriesExhausted, req.Method, req.Url, retries)
		}
		retryCounter.Add(ctx, 1, t.attrs)
		t.tel.ReportWarning(report_transport_retry, req.Method, req.Url, res.StatusCode, retries)

		timer := time.NewTimer(t.retryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Response{}, fmt.Errorf("%s %s: %w", req.Method, req.Url, ctx.Err())
		case <-timer.C:
		}
	}
}

func (t *Transport) Limits() Limits {
	return t.limits
}

// Close releases the transport's idle connections, the transport must not be
// used afterwards.
func (t *Transport) Close() error {
	t.http.GetClient().CloseIdleConnections()
	return nil
}
