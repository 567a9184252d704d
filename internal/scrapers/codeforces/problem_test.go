package codeforces

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

const problemFixture = `<html><body>
<div class="problem-statement">
	<div class="header">
		<div class="title">A. Theatre Square</div>
		<div class="time-limit"><div class="property-title">time limit per test</div>1 second</div>
		<div class="memory-limit"><div class="property-title">memory limit per test</div>256 megabytes</div>
		<div class="input-file"><div class="property-title">input</div>standard input</div>
		<div class="output-file"><div class="property-title">output</div>standard output</div>
	</div>
	<div><p>Theatre Square has size $$$n \times m$$$ meters.</p></div>
	<div class="input-specification"><div class="section-title">Input</div><p>The input contains $$$n$$$, $$$m$$$ and $$$a$$$.</p></div>
	<div class="output-specification"><div class="section-title">Output</div><p>Write the needed number of flagstones.</p></div>
	<div class="sample-tests">
		<div class="sample-test">
			<div class="input"><div class="title">Input</div><pre>6 6 4
</pre></div>
			<div class="output"><div class="title">Output</div><pre>4
</pre></div>
			<div class="input"><div class="title">Input</div><pre><div class="test-example-line">1 1</div><div class="test-example-line">1</div></pre></div>
			<div class="output"><div class="title">Output</div><pre><div class="test-example-line">1</div></pre></div>
		</div>
	</div>
	<div class="note"><div class="section-title">Note</div><p>Flagstones may overlap.</p></div>
</div>
</body></html>`

func TestParseProblemPage(t *testing.T) {
	page, err := parseProblemPage([]byte(problemFixture), "https://codeforces.com/problemset/problem/1/A")
	require.NoError(t, err)

	require.Equal(t, "A", page.Index)
	require.Equal(t, "Theatre Square", page.Name)
	require.Equal(t, "1 second", page.TimeLimit)
	require.Equal(t, "256 megabytes", page.MemoryLimit)
	require.Equal(t, "standard input", page.InputFile)
	require.Equal(t, "standard output", page.OutputFile)

	require.Contains(t, page.Statement, `$n \times m$`)
	require.NotContains(t, page.Statement, "$$")
	require.Contains(t, page.InputSpecification, "$n$, $m$ and $a$")
	require.NotContains(t, page.InputSpecification, "Input")
	require.Equal(t, "Write the needed number of flagstones.", page.OutputSpecification)
	require.Equal(t, "Flagstones may overlap.", page.Note)

	require.Equal(t, []Sample{
		{Input: "6 6 4\n", Output: "4\n"},
		{Input: "1 1\n1\n", Output: "1\n"},
	}, page.Samples)
}

func TestParseProblemPageMissingStatement(t *testing.T) {
	_, err := parseProblemPage([]byte("<html><body><p>Just a moment...</p></body></html>"), "https://codeforces.com/x")
	var notFound *htmlutil.NodeNotFound
	require.True(t, errors.As(err, &notFound))
	require.Equal(t, ".problem-statement", notFound.Selector)
	require.Equal(t, "https://codeforces.com/x", notFound.Url)
}

func TestParseProblemUrl(t *testing.T) {
	cases := []struct {
		raw      string
		expected ProblemRef
		path     string
	}{
		{
			raw:      "https://codeforces.com/problemset/problem/1/A",
			expected: ProblemRef{ContestId: 1, Index: "A"},
			path:     "/problemset/problem/1/A",
		},
		{
			raw:      "https://codeforces.com//contest/1850/problem/b1/#statement",
			expected: ProblemRef{ContestId: 1850, Index: "B1"},
			path:     "/problemset/problem/1850/B1",
		},
		{
			raw:      "https://m1.codeforces.com/contest/4/problem/A",
			expected: ProblemRef{ContestId: 4, Index: "A"},
			path:     "/problemset/problem/4/A",
		},
		{
			raw:      "  https://codeforces.com/gym/102001/problem/K  ",
			expected: ProblemRef{ContestId: 102001, Index: "K", Gym: true},
			path:     "/gym/102001/problem/K",
		},
	}

	for _, test := range cases {
		t.Run(test.raw, func(t *testing.T) {
			ref, err := ParseProblemUrl(test.raw)
			require.NoError(t, err)
			require.Equal(t, test.expected, ref)
			require.Equal(t, test.path, ref.Path())
		})
	}

	_, err := ParseProblemUrl("https://leetcode.com/problems/two-sum/")
	require.ErrorIs(t, err, InvalidInput)
	_, err = ParseProblemUrl("https://codeforces.com/contest/abc/problem/A")
	require.ErrorIs(t, err, InvalidInput)
	_, err = ParseProblemUrl("https://example.com/contest/1/problem/A")
	require.ErrorIs(t, err, InvalidInput)
	_, err = ParseProblemUrl("https://notcodeforces.com/contest/1/problem/A")
	require.ErrorIs(t, err, InvalidInput)
}

func TestScrapeProblem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/problemset/problem/1/A" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(problemFixture))
	}))
	defer server.Close()

	recorder := telemetry.NewRecorder()
	client, err := New(Options{
		PageUrl:   server.URL + "/",
		Transport: transport.Options{Limits: transport.Limits{Permits: 100, Period: time.Second}},
	}, recorder)
	require.NoError(t, err)
	defer client.Close()

	page, err := client.ScrapeProblem(context.Background(), ProblemRef{ContestId: 1, Index: "A"})
	require.NoError(t, err)
	require.Equal(t, 1, page.ContestId)
	require.Equal(t, "Theatre Square", page.Name)
	require.Equal(t, server.URL+"/problemset/problem/1/A", page.Url)

	_, err = client.ScrapeProblem(context.Background(), ProblemRef{ContestId: 2, Index: "A"})
	require.Error(t, err)
	require.True(t, recorder.Has(telemetry.RecordBroken, "codeforces_client: "+report_client_scrape))

	_, err = client.ScrapeProblem(context.Background(), ProblemRef{ContestId: 1})
	require.ErrorIs(t, err, InvalidInput)
}
