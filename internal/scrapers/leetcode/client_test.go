package leetcode

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"cpt/internal/components/telemetry"
	"cpt/internal/transport"
	"cpt/pkg/na"

	"github.com/stretchr/testify/require"
)

const twoSumQuestion = `{
	"data": {
		"question": {
			"questionId": "1",
			"questionFrontendId": "1",
			"title": "Two Sum",
			"titleSlug": "two-sum",
			"content": "<p>Given an array&nbsp;<code>nums</code>, return <em>indices</em>.</p><p>2<sup>31</sup></p>",
			"isPaidOnly": false,
			"difficulty": "Easy",
			"likes": 50000,
			"dislikes": null,
			"similarQuestions": "[{\"title\": \"3Sum\", \"titleSlug\": \"3sum\", \"difficulty\": \"Medium\"}]",
			"topicTags": [{"name": "Array", "slug": "array"}, {"name": "Hash Table", "slug": "hash-table"}],
			"codeSnippets": [{"lang": "C++", "langSlug": "cpp", "code": "class Solution {};"}],
			"stats": "{\"totalAcceptedRaw\": 100, \"totalSubmissionRaw\": 200, \"acRate\": \"50.0%\"}",
			"hints": ["use a map"],
			"sampleTestCase": "[2,7,11,15]\n9"
		}
	}
}`

type fakeSite struct {
	server     *httptest.Server
	landings   int64
	mutex      sync.Mutex
	lastHeader http.Header
	lastQuery  graphqlRequest
}

func (f *fakeSite) last() (http.Header, graphqlRequest) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.lastHeader, f.lastQuery
}

func newFakeSite(t testing.TB, graphql func(req graphqlRequest) string) *fakeSite {
	f := &fakeSite{}
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		atomic.AddInt64(&f.landings, 1)
		http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "token123"})
		w.Write([]byte("<html></html>"))
	})
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-CSRFToken") != "token123" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		body, _ := io.ReadAll(r.Body)
		var req graphqlRequest
		json.Unmarshal(body, &req)
		f.mutex.Lock()
		f.lastHeader = r.Header.Clone()
		f.lastQuery = req
		f.mutex.Unlock()
		w.Write([]byte(graphql(req)))
	})
	mux.HandleFunc("/contest/api/info/weekly-contest-400/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"contest": {"title": "Weekly Contest 400", "title_slug": "weekly-contest-400", "start_time": 1716689400, "duration": 5400},
			"questions": [
				{"id": 3300, "question_id": 3427, "credit": 3, "title": "Minimum Number of Chairs", "title_slug": "minimum-number-of-chairs"},
				{"id": 3301, "credit": "bad", "title": "Count Days", "title_slug": "count-days"}
			]
		}`))
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func newTestClient(t testing.TB, f *fakeSite) (*Client, *telemetry.Recorder) {
	recorder := telemetry.NewRecorder()
	client, err := New(Options{Transport: transport.Options{
		BaseUrl: f.server.URL,
		Limits:  transport.Limits{Permits: 1000, Period: time.Second},
	}}, recorder)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client, recorder
}

func TestProblem(t *testing.T) {
	f := newFakeSite(t, func(graphqlRequest) string { return twoSumQuestion })
	client, _ := newTestClient(t, f)
	ctx := context.Background()

	problem, err := client.Problem(ctx, "two-sum")
	require.NoError(t, err)

	header, query := f.last()
	require.Equal(t, "questionData", query.Name)
	require.Equal(t, f.server.URL+"/", header.Get("Referer"))
	require.Equal(t, "application/json", header.Get("Content-Type"))

	require.Equal(t, na.IntOf(1), problem.Id)
	require.Equal(t, na.IntOf(1), problem.FrontendId)
	require.Equal(t, "Two Sum", problem.Title)
	require.Equal(t, "two-sum", problem.Slug)
	require.Equal(t, "Easy", problem.Difficulty)
	require.Equal(t, na.IntOf(50000), problem.Likes)
	require.False(t, problem.Dislikes.Valid)
	require.Equal(t, []string{"array", "hash-table"}, problem.Tags)
	require.Equal(t, na.IntOf(100), problem.TotalAccepted)
	require.Equal(t, na.IntOf(200), problem.TotalSubmissions)
	require.Equal(t, "50.0%", problem.AcceptanceRate)
	require.Equal(t, []string{"use a map"}, problem.Hints)
	require.Equal(t, []SimilarProblem{{Title: "3Sum", Slug: "3sum", Difficulty: "Medium"}}, problem.SimilarProblems)
	require.Equal(t, []CodeSnippet{{Lang: "C++", LangSlug: "cpp", Code: "class Solution {};"}}, problem.CodeSnippets)
	require.Equal(t, "[2,7,11,15]\n9", problem.SampleTestCase)

	require.Contains(t, problem.Statement, "`nums`")
	require.Contains(t, problem.Statement, "2^31")
	require.NotContains(t, problem.Statement, "<p>")
	require.NotContains(t, problem.Statement, "&nbsp;")

	_, err = client.Problem(ctx, "two-sum")
	require.NoError(t, err)
	require.Equal(t, int64(1), atomic.LoadInt64(&f.landings))
}

func TestProblemErrors(t *testing.T) {
	f := newFakeSite(t, func(req graphqlRequest) string {
		vars, _ := req.Variable.(map[string]any)
		if vars["titleSlug"] == "missing" {
			return `{"data": {"question": null}}`
		}
		return `{"data": null, "errors": [{"message": "rate limited"}, {"message": "try later"}]}`
	})
	client, _ := newTestClient(t, f)
	ctx := context.Background()

	_, err := client.Problem(ctx, "missing")
	require.ErrorIs(t, err, NotFound)

	_, err = client.Problem(ctx, "two-sum")
	var gqlErr *GraphqlError
	require.True(t, errors.As(err, &gqlErr))
	require.Equal(t, []string{"rate limited", "try later"}, gqlErr.Messages)

	_, err = client.Problem(ctx, " ")
	require.ErrorIs(t, err, InvalidInput)
}

func TestMissingCsrfCookie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	recorder := telemetry.NewRecorder()
	client, err := New(Options{Transport: transport.Options{
		BaseUrl: server.URL,
		Limits:  transport.Limits{Permits: 1000, Period: time.Second},
	}}, recorder)
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Problem(context.Background(), "two-sum")
	require.ErrorIs(t, err, CsrfMissing)
	require.True(t, recorder.Has(telemetry.RecordBroken, "leetcode_client: "+report_client_csrf))
}

func TestContest(t *testing.T) {
	f := newFakeSite(t, nil)
	client, _ := newTestClient(t, f)
	ctx := context.Background()

	contest, err := client.Contest(ctx, "weekly-contest-400")
	require.NoError(t, err)
	require.Equal(t, "Weekly Contest 400", contest.Title)
	require.Equal(t, "weekly-contest-400", contest.Slug)
	require.Equal(t, na.UnixOf(1716689400), contest.StartTime)
	require.Equal(t, na.IntOf(5400), contest.Duration)
	require.Equal(t, []ContestQuestion{
		{Id: na.IntOf(3427), Title: "Minimum Number of Chairs", Slug: "minimum-number-of-chairs", Credit: na.IntOf(3)},
		{Id: na.IntOf(3301), Title: "Count Days", Slug: "count-days", Credit: na.Int{}},
	}, contest.Questions)

	_, err = client.Contest(ctx, "weekly-contest-1")
	require.ErrorIs(t, err, NotFound)
}

func TestParseUrl(t *testing.T) {
	cases := []struct {
		raw      string
		expected Url
	}{
		{"https://leetcode.com/problems/two-sum/", Url{Kind: ProblemUrl, Slug: "two-sum"}},
		{"https://leetcode.com/problems/two-sum/description/#x", Url{Kind: ProblemUrl, Slug: "two-sum"}},
		{"https://leetcode.com/contest/weekly-contest-400/problems/count-days/", Url{Kind: ProblemUrl, Slug: "count-days"}},
		{"https://leetcode.com/contest/weekly-contest-400/", Url{Kind: ContestUrl, Slug: "weekly-contest-400"}},
		{" https://www.leetcode.com/contest/biweekly-contest-1 ", Url{Kind: ContestUrl, Slug: "biweekly-contest-1"}},
	}
	for _, test := range cases {
		t.Run(test.raw, func(t *testing.T) {
			parsed, err := ParseUrl(test.raw)
			require.NoError(t, err)
			require.Equal(t, test.expected, parsed)
		})
	}

	for _, raw := range []string{
		"https://codeforces.com/problemset/problem/1/A",
		"https://leetcode.com/discuss/general",
		"https://leetcode.com/contest/api/info/x/",
	} {
		_, err := ParseUrl(raw)
		require.ErrorIs(t, err, InvalidUrl, raw)
	}
}

func TestProblemRenderingSurfacesEveryField(t *testing.T) {
	problem := parseProblem(mustDecodeQuestion(t))
	text := problem.String()
	for _, expected := range []string{
		"Two Sum", "two-sum", "Easy", "50000", "NA", "array", "hash-table",
		"100", "200", "50.0%", "use a map", "3sum", "cpp", "[2,7,11,15]",
	} {
		require.Contains(t, text, expected)
	}
}

func mustDecodeQuestion(t testing.TB) map[string]json.RawMessage {
	var res struct {
		Data struct {
			Question map[string]json.RawMessage `json:"question"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(twoSumQuestion), &res))
	return res.Data.Question
}
