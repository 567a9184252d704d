package cses

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cpt/internal/components/telemetry"
	"cpt/internal/transport"
	"cpt/pkg/htmlutil"

	"github.com/stretchr/testify/require"
)

const taskFixture = `<html><body>
<div class="header"></div>
<div class="skeleton">
<div class="title-block"><h1>Weird Algorithm</h1></div>
<div class="content">
<ul class="task-constraints">
<li><b>Time limit:</b> 1.00 s</li>
<li><b>Memory limit:</b> 512 MB</li>
</ul>
<div class="md">
<p>Consider an algorithm that takes as input a positive integer <span class="math inline">\(n\)</span>.</p>
<p><span class="math display">\[n \cdot 3 + 1\]</span></p>
<h1 id="input">Input</h1>
<p>The only input line contains an integer <span class="math inline">\(n\)</span>.</p>
<h1 id="output">Output</h1>
<p>Print a line that contains all values of <span class="math inline">\(n\)</span> during the algorithm.</p>
<h1 id="example">Example</h1>
<p>Input:</p>
<pre>3
</pre>
<p>Output:</p>
<pre>3 10 5 16 8 4 2 1</pre>
</div>
</div>
</div>
</body></html>`

func TestParseProblem(t *testing.T) {
	problem, err := parseProblem([]byte(taskFixture), "https://cses.fi/problemset/task/1068")
	require.NoError(t, err)

	require.Equal(t, "Weird Algorithm", problem.Name)
	require.Equal(t, "1.00 s", problem.TimeLimit)
	require.Equal(t, "512 MB", problem.MemoryLimit)
	require.Equal(t, []Sample{{Input: "3\n", Output: "3 10 5 16 8 4 2 1\n"}}, problem.Samples)

	require.Contains(t, problem.Statement, "positive integer $n$.")
	require.Contains(t, problem.Statement, `$n \cdot 3 + 1$`)
	require.Contains(t, problem.Statement, "Output")
	require.NotContains(t, problem.Statement, "Example")
	require.NotContains(t, problem.Statement, "3 10 5")
	require.NotContains(t, problem.Statement, `\(`)
}

func TestParseProblemLayoutChanged(t *testing.T) {
	_, err := parseProblem([]byte(`<html><body><div class="title-block"><h1>x</h1></div></body></html>`), "u")
	var notFound *htmlutil.NodeNotFound
	require.True(t, errors.As(err, &notFound))
	require.Equal(t, ".content .md", notFound.Selector)
}

func TestClientProblem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/problemset/task/1068" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(taskFixture))
	}))
	defer server.Close()

	recorder := telemetry.NewRecorder()
	client, err := New(Options{Transport: transport.Options{
		BaseUrl: server.URL,
		Limits:  transport.Limits{Permits: 1000, Period: time.Second},
	}}, recorder)
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	problem, err := client.Problem(ctx, 1068)
	require.NoError(t, err)
	require.Equal(t, 1068, problem.Id)
	require.Equal(t, server.URL+"/problemset/task/1068", problem.Url)
	require.Contains(t, problem.String(), "1068. Weird Algorithm")

	_, err = client.Problem(ctx, 9999)
	var status *transport.HttpStatus
	require.True(t, errors.As(err, &status))
	require.True(t, recorder.Has(telemetry.RecordBroken, "cses_client: "+report_client_problem))

	_, err = client.Problem(ctx, 0)
	require.ErrorIs(t, err, InvalidInput)
}

func TestParseUrl(t *testing.T) {
	cases := map[string]int{
		"https://cses.fi/problemset/task/1068":   1068,
		"https://cses.fi/problemset/task/1068/":  1068,
		" https://CSES.fi//problemset/view/1083": 1083,
		"https://cses.fi/problemset/stats/1621#": 1621,
	}
	for raw, expected := range cases {
		id, err := ParseUrl(raw)
		require.NoError(t, err, raw)
		require.Equal(t, expected, id, raw)
	}

	for _, raw := range []string{
		"https://cses.fi/problemset/",
		"https://cses.fi/problemset/task/abc",
		"https://adventofcode.com/problemset/task/1068",
	} {
		_, err := ParseUrl(raw)
		require.ErrorIs(t, err, InvalidUrl, raw)
	}
}
