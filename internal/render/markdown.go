// Package render turns scraped records into markdown documents and terminal
// tables.
package render

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"cpt/internal/scrapers/adventofcode"
	"cpt/internal/scrapers/codeforces"
	"cpt/internal/scrapers/cses"
	"cpt/internal/scrapers/leetcode"
)

var funcs = template.FuncMap{
	"join": strings.Join,
	"inc":  func(i int) int { return i + 1 },
	"orNone": func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "None"
		}
		return s
	},
	"fence": func(s string) string {
		return "```\n" + strings.TrimRight(s, "\n") + "\n```"
	},
}

func execute(tmpl *template.Template, data any) (string, error) {
	var out bytes.Buffer
	err := tmpl.Execute(&out, data)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return strings.TrimSpace(out.String()) + "\n", nil
}

var codeforcesTemplate = template.Must(template.New("codeforces").Funcs(funcs).Parse(`
# {{ .Index }}. {{ .Name }}

[{{ .Url }}]({{ .Url }})

- time limit per test: {{ .TimeLimit }}
- memory limit per test: {{ .MemoryLimit }}
{{- if .InputFile }}
- input: {{ .InputFile }}
{{- end }}
{{- if .OutputFile }}
- output: {{ .OutputFile }}
{{- end }}

### Statement

{{ .Statement }}

### Input

{{ .InputSpecification }}

### Output

{{ .OutputSpecification }}
{{ range $i, $s := .Samples }}
### Sample {{ inc $i }}

Input

{{ fence $s.Input }}

Output

{{ fence $s.Output }}
{{ end }}
{{- if .Note }}
### Note

{{ .Note }}
{{- end }}
`))

func CodeforcesMarkdown(page codeforces.ProblemPage) (string, error) {
	return execute(codeforcesTemplate, page)
}

type leetcodeView struct {
	leetcode.Problem
	BaseUrl string
}

var leetcodeTemplate = template.Must(template.New("leetcode").Funcs(funcs).Parse(`
# [{{ .FrontendId }}] {{ .Title }}
{{ if .Tags }}
**[{{ join .Tags ", " }}]**
{{ end }}
### Statement

{{ .Statement }}

<br />

### Hints

{{ if .Hints }}{{ range .Hints }}- {{ . }}
{{ end }}{{ else }}None
{{ end }}
<br />

### Solution

` + "```\n```" + `

<br />

### Statistics

- total accepted: {{ .TotalAccepted }}
- total submissions: {{ .TotalSubmissions }}
- acceptance rate: {{ orNone .AcceptanceRate }}
- likes: {{ .Likes }}
- dislikes: {{ .Dislikes }}

<br />

### Similar Problems

{{ if .SimilarProblems }}{{ range .SimilarProblems }}- [{{ .Title }}]({{ $.BaseUrl }}/problems/{{ .Slug }}) ({{ .Difficulty }})
{{ end }}{{ else }}None
{{ end }}
`))

func LeetcodeMarkdown(problem leetcode.Problem, baseUrl string) (string, error) {
	return execute(leetcodeTemplate, leetcodeView{
		Problem: problem,
		BaseUrl: strings.TrimRight(baseUrl, "/"),
	})
}

var csesTemplate = template.Must(template.New("cses").Funcs(funcs).Parse(`
# {{ .Id }}. {{ .Name }}

[{{ .Url }}]({{ .Url }})

- time limit: {{ .TimeLimit }}
- memory limit: {{ .MemoryLimit }}

{{ .Statement }}
{{ range $i, $s := .Samples }}
### Sample {{ inc $i }}

Input

{{ fence $s.Input }}

Output

{{ fence $s.Output }}
{{ end }}
`))

func CsesMarkdown(problem cses.Problem) (string, error) {
	return execute(csesTemplate, problem)
}

// AdventOfCodeMarkdown is the puzzle description as is, it already carries
// the day's heading.
func AdventOfCodeMarkdown(problem adventofcode.Problem) (string, error) {
	if strings.TrimSpace(problem.Description) == "" {
		return "", fmt.Errorf("render adventofcode: %d day %d has no description", problem.Year, problem.Day)
	}
	return strings.TrimSpace(problem.Description) + "\n", nil
}
