// Package scaffold lays out a solving workspace for a scraped problem.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"cpt/internal/render"
	"cpt/internal/scrapers/adventofcode"
	"cpt/internal/scrapers/codeforces"
	"cpt/internal/scrapers/cses"
	"cpt/internal/scrapers/leetcode"
	"cpt/pkg/osutil"

	"github.com/gosimple/slug"
)

type File struct {
	Name     string
	Contents []byte
	Mode     os.FileMode
}

// Plan is every file of a workspace, rendered before anything touches the
// filesystem.
type Plan struct {
	// Dir is relative to the root the plan is written under, "" writes the
	// files directly into the root.
	Dir   string
	Files []File
}

// Write creates the plan's directory under root and writes every file
// atomically, it returns the directory the files were written to.
func (p Plan) Write(root string) (string, error) {
	dir := filepath.Join(root, osutil.SanitizePath(p.Dir))
	err := osutil.InDir(dir, func() error {
		for _, f := range p.Files {
			mode := f.Mode
			if mode == 0 {
				mode = 0644
			}
			err := osutil.WriteFileAtomic(f.Name, f.Contents, mode)
			if err != nil {
				return fmt.Errorf("write %s: %w", f.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return dir, nil
}

// DirName is "<id>-<slugified name>" restricted to characters that are safe
// in a path.
func DirName(id, name string) string {
	s := slug.Make(name)
	if s == "" {
		return osutil.SanitizePath(id)
	}
	return osutil.SanitizePath(fmt.Sprintf("%s-%s", id, s))
}

type Sample struct {
	Input  string
	Output string
}

var testScriptTemplate = template.Must(template.New("test.sh").Parse(`#!/usr/bin/env bash
# compiles main.cpp and checks it against every sample
cd "$(dirname "$0")"
g++ -std=c++17 -O2 -Wall -o main main.cpp || exit 1

status=0
for i in $(seq 1 {{ . }}); do
	./main < "$i.in" > "$i.out"
	if diff -b "$i.out" "$i-expected.out" > /dev/null; then
		echo "sample $i: ok"
	else
		echo "sample $i: wrong answer"
		status=1
	fi
done
exit $status
`))

func TestScript(sampleCount int) (string, error) {
	var out strings.Builder
	err := testScriptTemplate.Execute(&out, sampleCount)
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

// solutionFiles are the files every judge style workspace gets besides its
// readme.
func solutionFiles(samples []Sample) ([]File, error) {
	files := []File{{Name: "main.cpp", Contents: []byte{}}}
	for i, s := range samples {
		files = append(files,
			File{Name: fmt.Sprintf("%d.in", i+1), Contents: []byte(s.Input)},
			File{Name: fmt.Sprintf("%d-expected.out", i+1), Contents: []byte(s.Output)},
		)
	}
	script, err := TestScript(len(samples))
	if err != nil {
		return nil, err
	}
	files = append(files, File{Name: "test.sh", Contents: []byte(script), Mode: 0755})
	return files, nil
}

func Codeforces(page codeforces.ProblemPage) (Plan, error) {
	readme, err := render.CodeforcesMarkdown(page)
	if err != nil {
		return Plan{}, err
	}
	samples := make([]Sample, len(page.Samples))
	for i, s := range page.Samples {
		samples[i] = Sample(s)
	}
	files, err := solutionFiles(samples)
	if err != nil {
		return Plan{}, err
	}
	return Plan{
		Dir:   DirName(fmt.Sprintf("%d%s", page.ContestId, page.Index), page.Name),
		Files: append([]File{{Name: "README.md", Contents: []byte(readme)}}, files...),
	}, nil
}

func Cses(problem cses.Problem) (Plan, error) {
	readme, err := render.CsesMarkdown(problem)
	if err != nil {
		return Plan{}, err
	}
	samples := make([]Sample, len(problem.Samples))
	for i, s := range problem.Samples {
		samples[i] = Sample(s)
	}
	files, err := solutionFiles(samples)
	if err != nil {
		return Plan{}, err
	}
	return Plan{
		Dir:   DirName(fmt.Sprint(problem.Id), problem.Name),
		Files: append([]File{{Name: "README.md", Contents: []byte(readme)}}, files...),
	}, nil
}

// Leetcode is a single markdown file, leetcode runs solutions itself.
func Leetcode(problem leetcode.Problem, baseUrl string) (Plan, error) {
	md, err := render.LeetcodeMarkdown(problem, baseUrl)
	if err != nil {
		return Plan{}, err
	}
	name := fmt.Sprintf("%s.md", DirName(problem.FrontendId.String(), problem.Slug))
	return Plan{Files: []File{{Name: name, Contents: []byte(md)}}}, nil
}

func AdventOfCode(problem adventofcode.Problem) (Plan, error) {
	md, err := render.AdventOfCodeMarkdown(problem)
	if err != nil {
		return Plan{}, err
	}
	return Plan{Files: []File{{Name: "README.md", Contents: []byte(md)}}}, nil
}
