package codeforces

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"cpt/pkg/textutil"
)

// KnownTags are the problem tags codeforces filters by.
var KnownTags = []string{
	"*special", "2-sat", "binary search", "bitmasks", "brute force",
	"chinese remainder theorem", "combinatorics", "constructive algorithms",
	"data structures", "dfs and similar", "divide and conquer", "dp", "dsu",
	"expression parsing", "fft", "flows", "games", "geometry",
	"graph matchings", "graphs", "greedy", "hashing", "implementation",
	"interactive", "math", "matrices", "meet-in-the-middle", "number theory",
	"probabilities", "schedules", "shortest paths", "sortings",
	"string suffix structures", "strings", "ternary search", "trees",
	"two pointers",
}

// Page selects a slice of a list, zero values are left out of the request.
type Page struct {
	// From is 1-based.
	From  int
	Count int
}

func (p Page) validate() error {
	if p.From < 0 || p.Count < 0 {
		return fmt.Errorf("%w: negative pagination (from %d, count %d)", InvalidInput, p.From, p.Count)
	}
	return nil
}

func (p Page) apply(params url.Values) {
	if p.From > 0 {
		params.Set("from", strconv.Itoa(p.From))
	}
	if p.Count > 0 {
		params.Set("count", strconv.Itoa(p.Count))
	}
}

func requirePositive(name string, value int) error {
	if value <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %d", InvalidInput, name, value)
	}
	return nil
}

func requireHandle(handle string) error {
	if strings.TrimSpace(handle) == "" {
		return fmt.Errorf("%w: empty handle", InvalidInput)
	}
	return nil
}

// joinList joins multi-value parameters the way the api expects them.
func joinList(values []string) string {
	return strings.Join(values, ";")
}

func (c *Client) BlogEntryComments(ctx context.Context, blogEntryId int) ([]Comment, error) {
	err := requirePositive("blog entry id", blogEntryId)
	if err != nil {
		return nil, err
	}
	list, err := c.callList(ctx, RouteBlogEntryComments, url.Values{
		"blogEntryId": {strconv.Itoa(blogEntryId)},
	})
	if err != nil {
		return nil, fmt.Errorf("%s %d: %w", RouteBlogEntryComments, blogEntryId, err)
	}
	return parseComments(list), nil
}

func (c *Client) BlogEntryView(ctx context.Context, blogEntryId int) (BlogEntry, error) {
	err := requirePositive("blog entry id", blogEntryId)
	if err != nil {
		return BlogEntry{}, err
	}
	obj, err := c.callObject(ctx, RouteBlogEntryView, url.Values{
		"blogEntryId": {strconv.Itoa(blogEntryId)},
	})
	if err != nil {
		return BlogEntry{}, fmt.Errorf("%s %d: %w", RouteBlogEntryView, blogEntryId, err)
	}
	return parseBlogEntry(obj), nil
}

func (c *Client) ContestHacks(ctx context.Context, contestId int) ([]Hack, error) {
	err := requirePositive("contest id", contestId)
	if err != nil {
		return nil, err
	}
	list, err := c.callList(ctx, RouteContestHacks, url.Values{
		"contestId": {strconv.Itoa(contestId)},
	})
	if err != nil {
		return nil, fmt.Errorf("%s %d: %w", RouteContestHacks, contestId, err)
	}
	return parseHacks(list), nil
}

func (c *Client) ContestList(ctx context.Context, gym bool) ([]Contest, error) {
	list, err := c.callList(ctx, RouteContestList, url.Values{
		"gym": {strconv.FormatBool(gym)},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", RouteContestList, err)
	}
	return parseContests(list), nil
}

func (c *Client) ContestRatingChanges(ctx context.Context, contestId int) ([]RatingChange, error) {
	err := requirePositive("contest id", contestId)
	if err != nil {
		return nil, err
	}
	list, err := c.callList(ctx, RouteContestRatingChanges, url.Values{
		"contestId": {strconv.Itoa(contestId)},
	})
	if err != nil {
		return nil, fmt.Errorf("%s %d: %w", RouteContestRatingChanges, contestId, err)
	}
	return parseRatingChanges(list), nil
}

type StandingsOptions struct {
	ContestId      int
	Page           Page
	Handles        []string
	Room           int
	ShowUnofficial bool
}

func (c *Client) ContestStandings(ctx context.Context, opts StandingsOptions) (Standings, error) {
	err := requirePositive("contest id", opts.ContestId)
	if err == nil {
		err = opts.Page.validate()
	}
	if err != nil {
		return Standings{}, err
	}

	params := url.Values{
		"contestId":      {strconv.Itoa(opts.ContestId)},
		"showUnofficial": {strconv.FormatBool(opts.ShowUnofficial)},
	}
	opts.Page.apply(params)
	if len(opts.Handles) > 0 {
		params.Set("handles", joinList(opts.Handles))
	}
	if opts.Room > 0 {
		params.Set("room", strconv.Itoa(opts.Room))
	}

	obj, err := c.callObject(ctx, RouteContestStandings, params)
	if err != nil {
		return Standings{}, fmt.Errorf("%s %d: %w", RouteContestStandings, opts.ContestId, err)
	}

	standings := Standings{
		Problems: parseProblems(obj.Objects("problems")),
		Rows:     parseRanklistRows(obj.Objects("rows")),
	}
	if contest := obj.Object("contest"); contest != nil {
		standings.Contest = parseContest(contest)
	}
	return standings, nil
}

type StatusOptions struct {
	ContestId int
	// Handle is optional, when empty every submission is returned.
	Handle string
	Page   Page
}

func (c *Client) ContestStatus(ctx context.Context, opts StatusOptions) ([]Submission, error) {
	err := requirePositive("contest id", opts.ContestId)
	if err == nil {
		err = opts.Page.validate()
	}
	if err != nil {
		return nil, err
	}

	params := url.Values{"contestId": {strconv.Itoa(opts.ContestId)}}
	if opts.Handle != "" {
		params.Set("handle", opts.Handle)
	}
	opts.Page.apply(params)

	list, err := c.callList(ctx, RouteContestStatus, params)
	if err != nil {
		return nil, fmt.Errorf("%s %d: %w", RouteContestStatus, opts.ContestId, err)
	}
	return parseSubmissions(list), nil
}

func (c *Client) warnUnknownTags(tags []string) {
	for _, tag := range tags {
		best, score := textutil.Closest(tag, KnownTags)
		if score == 1 {
			continue
		}
		c.tel.ReportWarning(report_client_tags, "unknown tag", tag, "closest", best)
	}
}

func (c *Client) ProblemsetProblems(ctx context.Context, tags []string, problemsetName string) (Problemset, error) {
	c.warnUnknownTags(tags)

	params := url.Values{}
	if len(tags) > 0 {
		params.Set("tags", joinList(tags))
	}
	if problemsetName != "" {
		params.Set("problemsetName", problemsetName)
	}

	obj, err := c.callObject(ctx, RouteProblemsetProblems, params)
	if err != nil {
		return Problemset{}, fmt.Errorf("%s %s: %w", RouteProblemsetProblems, joinList(tags), err)
	}
	return Problemset{
		Problems:   parseProblems(obj.Objects("problems")),
		Statistics: parseProblemStatisticsList(obj.Objects("problemStatistics")),
	}, nil
}

func (c *Client) ProblemsetRecentStatus(ctx context.Context, count int, problemsetName string) ([]Submission, error) {
	if count <= 0 || count > 1000 {
		return nil, fmt.Errorf("%w: count must be within 1 and 1000, got %d", InvalidInput, count)
	}
	params := url.Values{"count": {strconv.Itoa(count)}}
	if problemsetName != "" {
		params.Set("problemsetName", problemsetName)
	}

	list, err := c.callList(ctx, RouteProblemsetRecentStatus, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", RouteProblemsetRecentStatus, err)
	}
	return parseSubmissions(list), nil
}

func (c *Client) RecentActions(ctx context.Context, maxCount int) ([]RecentAction, error) {
	if maxCount <= 0 || maxCount > 100 {
		return nil, fmt.Errorf("%w: max count must be within 1 and 100, got %d", InvalidInput, maxCount)
	}
	list, err := c.callList(ctx, RouteRecentActions, url.Values{
		"maxCount": {strconv.Itoa(maxCount)},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", RouteRecentActions, err)
	}
	return parseRecentActions(list), nil
}

func (c *Client) UserBlogEntries(ctx context.Context, handle string) ([]BlogEntry, error) {
	err := requireHandle(handle)
	if err != nil {
		return nil, err
	}
	list, err := c.callList(ctx, RouteUserBlogEntries, url.Values{"handle": {handle}})
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", RouteUserBlogEntries, handle, err)
	}
	return parseBlogEntries(list), nil
}

// UserFriends is the only authorized route, it requires an api key and
// secret and returns the handles of the key owner's friends.
func (c *Client) UserFriends(ctx context.Context, onlyOnline bool) ([]string, error) {
	params, err := c.sign(RouteUserFriends, url.Values{
		"onlyOnline": {strconv.FormatBool(onlyOnline)},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", RouteUserFriends, err)
	}

	result, err := c.Call(ctx, RouteUserFriends, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", RouteUserFriends, err)
	}

	handles := []string{}
	err = json.Unmarshal(result, &handles)
	if err != nil {
		c.tel.ReportBroken(report_client_friends, fmt.Errorf("decode handles: %w", err))
		return nil, fmt.Errorf("%s: %w", RouteUserFriends, err)
	}
	if handles == nil {
		handles = []string{}
	}
	return handles, nil
}

func (c *Client) UserInfo(ctx context.Context, handles []string) ([]User, error) {
	if len(handles) == 0 {
		return nil, fmt.Errorf("%w: at least one handle is required", InvalidInput)
	}
	for _, h := range handles {
		err := requireHandle(h)
		if err != nil {
			return nil, err
		}
	}

	list, err := c.callList(ctx, RouteUserInfo, url.Values{"handles": {joinList(handles)}})
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", RouteUserInfo, joinList(handles), err)
	}
	return parseUsers(list), nil
}

type RatedListOptions struct {
	ActiveOnly     bool
	IncludeRetired bool
	// ContestId, if set, only returns users that took part in the contest.
	ContestId int
}

func (c *Client) UserRatedList(ctx context.Context, opts RatedListOptions) ([]User, error) {
	params := url.Values{
		"activeOnly":     {strconv.FormatBool(opts.ActiveOnly)},
		"includeRetired": {strconv.FormatBool(opts.IncludeRetired)},
	}
	if opts.ContestId > 0 {
		params.Set("contestId", strconv.Itoa(opts.ContestId))
	}

	list, err := c.callList(ctx, RouteUserRatedList, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", RouteUserRatedList, err)
	}
	return parseUsers(list), nil
}

func (c *Client) UserRating(ctx context.Context, handle string) ([]RatingChange, error) {
	err := requireHandle(handle)
	if err != nil {
		return nil, err
	}
	list, err := c.callList(ctx, RouteUserRating, url.Values{"handle": {handle}})
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", RouteUserRating, handle, err)
	}
	return parseRatingChanges(list), nil
}

func (c *Client) UserStatus(ctx context.Context, handle string, page Page) ([]Submission, error) {
	err := requireHandle(handle)
	if err == nil {
		err = page.validate()
	}
	if err != nil {
		return nil, err
	}

	params := url.Values{"handle": {handle}}
	page.apply(params)

	list, err := c.callList(ctx, RouteUserStatus, params)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", RouteUserStatus, handle, err)
	}
	return parseSubmissions(list), nil
}
