package codeforces

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"cpt/internal/components/chrono"
	"cpt/internal/components/telemetry"
	"cpt/internal/envelope"
	"cpt/internal/transport"
	"cpt/pkg/na"

	"github.com/stretchr/testify/require"
)

type fakeApi struct {
	server  *httptest.Server
	calls   int64
	mutex   sync.Mutex
	lastQry url.Values
}

func (f *fakeApi) query() url.Values {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.lastQry
}

// newFakeApi serves the given bodies keyed by api route, every other path
// returns a 404 html page.
func newFakeApi(t testing.TB, routes map[string]string) *fakeApi {
	f := &fakeApi{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&f.calls, 1)
		f.mutex.Lock()
		f.lastQry = r.URL.Query()
		f.mutex.Unlock()

		body, ok := routes[strings.TrimPrefix(r.URL.Path, "/api/")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("<html>not found</html>"))
			return
		}
		if strings.Contains(body, `"FAILED"`) {
			w.WriteHeader(http.StatusBadRequest)
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(f.server.Close)
	return f
}

func newTestClient(t testing.TB, f *fakeApi, opts Options) (*Client, *telemetry.Recorder) {
	recorder := telemetry.NewRecorder()
	opts.Transport.BaseUrl = f.server.URL + "/api/"
	opts.Transport.Limits = transport.Limits{Permits: 1000, Period: time.Second}
	opts.PageUrl = f.server.URL
	client, err := New(opts, recorder)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client, recorder
}

func TestProblemsetProblemsScenario(t *testing.T) {
	f := newFakeApi(t, map[string]string{
		RouteProblemsetProblems: `{
			"status": "OK",
			"result": {
				"problems": [
					{"contestId": 1, "index": "A", "name": "first", "type": "PROGRAMMING", "rating": 1500, "tags": ["dp"]},
					{"contestId": 2, "index": "B", "name": "second", "type": "PROGRAMMING", "tags": ["graphs", "dp"]}
				],
				"problemStatistics": [
					{"contestId": 1, "index": "A", "solvedCount": 10},
					{"contestId": 2, "index": "B", "solvedCount": 3}
				]
			}
		}`,
	})
	client, _ := newTestClient(t, f, Options{})

	set, err := client.ProblemsetProblems(context.Background(), []string{"dp", "graphs"}, "")
	require.NoError(t, err)
	require.Equal(t, "dp;graphs", f.query().Get("tags"))
	require.False(t, f.query().Has("problemsetName"))

	require.Len(t, set.Problems, 2)
	require.Equal(t, na.IntOf(1500), set.Problems[0].Rating)
	require.Equal(t, []string{"dp"}, set.Problems[0].Tags)
	require.Equal(t, na.IntOf(0), set.Problems[1].Rating)
	require.Equal(t, []string{"graphs", "dp"}, set.Problems[1].Tags)

	require.Len(t, set.Statistics, 2)
	require.Equal(t, na.IntOf(3), set.Statistics[1].SolvedCount)
}

func TestFailedEnvelopeIsSurfaced(t *testing.T) {
	f := newFakeApi(t, map[string]string{
		RouteUserInfo: `{"status":"FAILED","comment":"handle not found"}`,
	})
	client, recorder := newTestClient(t, f, Options{})

	_, err := client.UserInfo(context.Background(), []string{"nobody"})
	var failed *envelope.StatusFailed
	require.True(t, errors.As(err, &failed))
	require.Equal(t, "handle not found", failed.Comment)
	require.Contains(t, err.Error(), "user.info nobody")

	require.Empty(t, recorder.Records(telemetry.RecordBroken))
}

func TestEnvelopeContractViolations(t *testing.T) {
	f := newFakeApi(t, map[string]string{
		RouteUserRating:  `{"status": "OK"}`,
		RouteUserStatus:  `{"result": []}`,
		RouteContestList: `{"status": "FAILED"}`,
	})
	client, _ := newTestClient(t, f, Options{})
	ctx := context.Background()

	_, err := client.UserRating(ctx, "tourist")
	require.ErrorIs(t, err, envelope.ResultMissing)

	_, err = client.UserStatus(ctx, "tourist", Page{})
	require.ErrorIs(t, err, envelope.StatusMissing)

	_, err = client.ContestList(ctx, false)
	require.ErrorIs(t, err, envelope.CommentMissing)
}

func TestHtmlErrorPageIsHttpStatus(t *testing.T) {
	f := newFakeApi(t, map[string]string{})
	client, _ := newTestClient(t, f, Options{})

	_, err := client.UserRating(context.Background(), "tourist")
	var status *transport.HttpStatus
	require.True(t, errors.As(err, &status))
	require.Equal(t, http.StatusNotFound, status.Code)
}

func TestContestStandings(t *testing.T) {
	f := newFakeApi(t, map[string]string{
		RouteContestStandings: `{
			"status": "OK",
			"result": {
				"contest": {"id": 566, "name": "VK Cup", "type": "CF", "phase": "FINISHED", "frozen": false, "durationSeconds": 7200},
				"problems": [{"contestId": 566, "index": "A", "name": "Matching Names", "points": 500.0, "tags": []}],
				"rows": [{
					"party": {"contestId": 566, "members": [{"handle": "tourist"}], "participantType": "CONTESTANT", "room": 4},
					"rank": 1,
					"points": 500,
					"penalty": 0,
					"successfulHackCount": 2,
					"unsuccessfulHackCount": 0,
					"problemResults": [{"points": 500, "rejectedAttemptCount": 0, "type": "FINAL", "bestSubmissionTimeSeconds": 300}]
				}]
			}
		}`,
	})
	client, _ := newTestClient(t, f, Options{})

	standings, err := client.ContestStandings(context.Background(), StandingsOptions{
		ContestId:      566,
		Page:           Page{From: 1, Count: 5},
		Handles:        []string{"tourist", "petr"},
		ShowUnofficial: true,
	})
	require.NoError(t, err)

	require.Equal(t, "566", f.query().Get("contestId"))
	require.Equal(t, "1", f.query().Get("from"))
	require.Equal(t, "5", f.query().Get("count"))
	require.Equal(t, "tourist;petr", f.query().Get("handles"))
	require.Equal(t, "true", f.query().Get("showUnofficial"))
	require.False(t, f.query().Has("room"))

	require.Equal(t, PhaseFinished, standings.Contest.Phase)
	require.Equal(t, na.IntOf(7200), standings.Contest.DurationSeconds)
	require.Len(t, standings.Problems, 1)
	require.Equal(t, na.FloatOf(500), standings.Problems[0].Points)
	require.Len(t, standings.Rows, 1)
	require.Equal(t, "tourist", standings.Rows[0].Party.Handles())
	require.Equal(t, na.IntOf(4), standings.Rows[0].Party.Room)
	require.Equal(t, na.IntOf(-1), standings.Rows[0].LastSubmissionTime)
	require.Equal(t, na.IntOf(300), standings.Rows[0].ProblemResults[0].BestSubmissionTime)
}

func TestInvalidInputFailsBeforeIO(t *testing.T) {
	f := newFakeApi(t, map[string]string{})
	client, _ := newTestClient(t, f, Options{})
	ctx := context.Background()

	_, err := client.UserInfo(ctx, nil)
	require.ErrorIs(t, err, InvalidInput)
	_, err = client.UserInfo(ctx, []string{"tourist", " "})
	require.ErrorIs(t, err, InvalidInput)
	_, err = client.RecentActions(ctx, 101)
	require.ErrorIs(t, err, InvalidInput)
	_, err = client.ContestHacks(ctx, 0)
	require.ErrorIs(t, err, InvalidInput)
	_, err = client.UserStatus(ctx, "tourist", Page{From: -1})
	require.ErrorIs(t, err, InvalidInput)
	_, err = client.UserFriends(ctx, false)
	require.ErrorIs(t, err, MissingCredentials)

	_, err = client.Call(ctx, "user.inf", nil)
	require.ErrorIs(t, err, InvalidRoute)
	require.Contains(t, err.Error(), `did you mean "user.info"`)

	require.Equal(t, int64(0), atomic.LoadInt64(&f.calls))
}

func TestUserFriendsIsSigned(t *testing.T) {
	f := newFakeApi(t, map[string]string{
		RouteUserFriends: `{"status": "OK", "result": ["petr", "Um_nik"]}`,
	})
	client, _ := newTestClient(t, f, Options{
		ApiKey:    "key",
		ApiSecret: "secret",
		Clock:     chrono.NewFixedImpl(time.Unix(1700000000, 0)),
		Nonce:     func() (string, error) { return "abcdef", nil },
	})

	friends, err := client.UserFriends(context.Background(), false)
	require.NoError(t, err)
	require.Equal(t, []string{"petr", "Um_nik"}, friends)

	require.Equal(t, "key", f.query().Get("apiKey"))
	require.Equal(t, "1700000000", f.query().Get("time"))
	require.Equal(t, "false", f.query().Get("onlyOnline"))

	sum := sha512.Sum512([]byte("abcdef/user.friends?apiKey=key&onlyOnline=false&time=1700000000#secret"))
	require.Equal(t, "abcdef"+hex.EncodeToString(sum[:]), f.query().Get("apiSig"))
}

func TestRecentActionsAndBlogs(t *testing.T) {
	f := newFakeApi(t, map[string]string{
		RouteRecentActions: `{"status": "OK", "result": [
			{"timeSeconds": 1, "blogEntry": {"id": 1, "title": "t", "authorHandle": "a"}, "comment": {"id": 2, "commentatorHandle": "c", "text": "hi"}}
		]}`,
		RouteBlogEntryView:     `{"status": "OK", "result": {"id": 79, "title": "Codeforces API", "tags": ["api"], "rating": 300}}`,
		RouteBlogEntryComments: `{"status": "OK", "result": [{"id": 1, "text": "first", "parentCommentId": null}]}`,
	})
	client, _ := newTestClient(t, f, Options{})
	ctx := context.Background()

	actions, err := client.RecentActions(ctx, 30)
	require.NoError(t, err)
	require.Equal(t, "30", f.query().Get("maxCount"))
	require.Len(t, actions, 1)
	require.Equal(t, "c", actions[0].Comment.CommentatorHandle)

	entry, err := client.BlogEntryView(ctx, 79)
	require.NoError(t, err)
	require.Equal(t, "Codeforces API", entry.Title)
	require.Equal(t, na.IntOf(300), entry.Rating)

	comments, err := client.BlogEntryComments(ctx, 79)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.False(t, comments[0].ParentCommentId.Valid)
}

func TestUnknownTagIsReported(t *testing.T) {
	f := newFakeApi(t, map[string]string{
		RouteProblemsetProblems: `{"status": "OK", "result": {"problems": [], "problemStatistics": []}}`,
	})
	client, recorder := newTestClient(t, f, Options{})

	_, err := client.ProblemsetProblems(context.Background(), []string{"grapsh"}, "")
	require.NoError(t, err)
	require.True(t, recorder.Has(telemetry.RecordWarning, "codeforces_client: "+report_client_tags))
}

func TestCallLimitExceededIsRetried(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"FAILED","comment":"Call limit exceeded"}`))
			return
		}
		w.Write([]byte(`{"status":"OK","result":[{"handle":"tourist","rating":3800}]}`))
	}))
	defer server.Close()

	recorder := telemetry.NewRecorder()
	client, err := New(Options{Transport: transport.Options{
		BaseUrl:       server.URL + "/api/",
		Limits:        transport.Limits{Permits: 1000, Period: time.Second},
		RetryInterval: 10 * time.Millisecond,
	}}, recorder)
	require.NoError(t, err)
	defer client.Close()

	users, err := client.UserInfo(context.Background(), []string{"tourist"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "tourist", users[0].Handle)
	require.Equal(t, int64(2), atomic.LoadInt64(&calls))
	require.True(t, recorder.Has(telemetry.RecordWarning, "codeforces_transport: transport.retry"))
}

func TestDefaultLimitsMatchApiCallLimit(t *testing.T) {
	client, err := New(Options{}, telemetry.NewRecorder())
	require.NoError(t, err)
	defer client.Close()
	require.Equal(t, transport.Limits{Permits: 1, Period: 2 * time.Second}, client.transport.Limits())
}
