package leetcode

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/purell"
)

type UrlKind int

const (
	ProblemUrl UrlKind = iota
	ContestUrl
)

// Url is a parsed leetcode link, problems linked from inside a contest are
// still problem urls.
type Url struct {
	Kind UrlKind
	Slug string
}

var (
	problemSlugRegex = regexp.MustCompile(`/problems/([a-zA-Z0-9\-]+)`)
	contestSlugRegex = regexp.MustCompile(`^/contest/([a-zA-Z0-9\-]+)`)
)

func ParseUrl(raw string) (Url, error) {
	normalized, err := purell.NormalizeURLString(
		strings.TrimSpace(raw),
		purell.FlagsSafe|purell.FlagRemoveDuplicateSlashes|purell.FlagRemoveFragment,
	)
	if err != nil {
		return Url{}, fmt.Errorf("%w: %w", InvalidUrl, err)
	}
	parsed, err := url.Parse(normalized)
	if err != nil {
		return Url{}, fmt.Errorf("%w: %w", InvalidUrl, err)
	}
	host := strings.TrimPrefix(parsed.Hostname(), "www.")
	if host != "leetcode.com" && host != "leetcode.cn" {
		return Url{}, fmt.Errorf("%w: %q is not a leetcode url", InvalidUrl, raw)
	}

	if strings.HasPrefix(parsed.Path, "/problems/") || strings.HasPrefix(parsed.Path, "/contest/") {
		groups := problemSlugRegex.FindStringSubmatch(parsed.Path)
		if groups != nil {
			return Url{Kind: ProblemUrl, Slug: groups[1]}, nil
		}
	}
	groups := contestSlugRegex.FindStringSubmatch(parsed.Path)
	if groups != nil && groups[1] != "api" {
		return Url{Kind: ContestUrl, Slug: groups[1]}, nil
	}
	return Url{}, fmt.Errorf("%w: %q is neither a problem nor a contest url", InvalidUrl, raw)
}
