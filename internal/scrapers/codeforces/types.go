package codeforces

import (
	"fmt"
	"strings"

	"cpt/pkg/na"
)

// Phase is the contest phase as reported by codeforces.
type Phase string

const (
	PhaseBefore            Phase = "BEFORE"
	PhaseCoding            Phase = "CODING"
	PhasePendingSystemTest Phase = "PENDING_SYSTEM_TEST"
	PhaseSystemTest        Phase = "SYSTEM_TEST"
	PhaseFinished          Phase = "FINISHED"
)

type Problem struct {
	ContestId      na.Int
	ProblemsetName string
	Index          string
	Name           string
	Type           string
	Points         na.Float
	Rating         na.Int
	Tags           []string
}

type ProblemStatistics struct {
	ContestId   na.Int
	Index       string
	SolvedCount na.Int
}

type User struct {
	Handle        string
	Email         string
	VkId          string
	OpenId        string
	FirstName     string
	LastName      string
	Country       string
	City          string
	Organization  string
	Contribution  na.Int
	Rank          string
	Rating        na.Int
	MaxRank       string
	MaxRating     na.Int
	LastOnline    na.Time
	Registered    na.Time
	FriendOfCount na.Int
	Avatar        string
	TitlePhoto    string
}

type Member struct {
	Handle string
	Name   string
}

// Party is either a single contestant or a team.
type Party struct {
	ContestId       na.Int
	Members         []Member
	ParticipantType string
	TeamId          na.Int
	TeamName        string
	Ghost           bool
	Room            na.Int
	StartTime       na.Time
}

type Submission struct {
	Id                  na.Int
	ContestId           na.Int
	CreationTime        na.Time
	RelativeTimeSeconds na.Int
	Problem             *Problem
	Author              *Party
	ProgrammingLanguage string
	Verdict             string
	Testset             string
	PassedTestCount     na.Int
	TimeConsumedMillis  na.Int
	MemoryConsumedBytes na.Int
	Points              na.Float
}

type Contest struct {
	Id                  na.Int
	Name                string
	Type                string
	Phase               Phase
	Frozen              bool
	DurationSeconds     na.Int
	StartTime           na.Time
	RelativeTimeSeconds na.Int
	PreparedBy          string
	WebsiteUrl          string
	Description         string
	Difficulty          na.Int
	Kind                string
	IcpcRegion          string
	Country             string
	City                string
	Season              string
}

type RatingChange struct {
	ContestId        na.Int
	ContestName      string
	Handle           string
	Rank             na.Int
	RatingUpdateTime na.Time
	OldRating        na.Int
	NewRating        na.Int
}

type JudgeProtocol struct {
	Manual   bool
	Protocol string
	Verdict  string
}

type Hack struct {
	Id            na.Int
	CreationTime  na.Time
	Hacker        *Party
	Defender      *Party
	Verdict       string
	Problem       *Problem
	Test          string
	JudgeProtocol *JudgeProtocol
}

type ProblemResult struct {
	Points               na.Float
	Penalty              na.Int
	RejectedAttemptCount na.Int
	Type                 string
	// BestSubmissionTime is -1 when the problem has not been solved.
	BestSubmissionTime na.Int
}

type RanklistRow struct {
	Party                 *Party
	Rank                  na.Int
	Points                na.Float
	Penalty               na.Int
	SuccessfulHackCount   na.Int
	UnsuccessfulHackCount na.Int
	ProblemResults        []ProblemResult
	// LastSubmissionTime is -1 when nothing has been submitted.
	LastSubmissionTime na.Int
}

type BlogEntry struct {
	Id               na.Int
	OriginalLocale   string
	CreationTime     na.Time
	AuthorHandle     string
	Title            string
	Content          string
	Locale           string
	ModificationTime na.Time
	AllowViewHistory bool
	Tags             []string
	Rating           na.Int
}

type Comment struct {
	Id                na.Int
	CreationTime      na.Time
	CommentatorHandle string
	Locale            string
	Text              string
	ParentCommentId   na.Int
	Rating            na.Int
}

type RecentAction struct {
	Time      na.Time
	BlogEntry *BlogEntry
	Comment   *Comment
}

// Standings is the result of contest.standings.
type Standings struct {
	Contest  Contest
	Problems []Problem
	Rows     []RanklistRow
}

// Problemset is the result of problemset.problems.
type Problemset struct {
	Problems   []Problem
	Statistics []ProblemStatistics
}

type fieldWriter struct {
	strings.Builder
}

func (w *fieldWriter) field(name string, value any) {
	fmt.Fprintf(&w.Builder, "%s: %v\n", name, value)
}

func (w *fieldWriter) String() string {
	return strings.TrimSuffix(w.Builder.String(), "\n")
}

// Id is the usual short name of a problem, ex. 1A.
func (p Problem) Id() string {
	if !p.ContestId.Valid {
		return p.Index
	}
	return fmt.Sprintf("%d%s", p.ContestId.Value, p.Index)
}

func (p Problem) String() string {
	w := fieldWriter{}
	w.field("contest id", p.ContestId)
	w.field("problemset", p.ProblemsetName)
	w.field("index", p.Index)
	w.field("name", p.Name)
	w.field("type", p.Type)
	w.field("points", p.Points)
	w.field("rating", p.Rating)
	w.field("tags", strings.Join(p.Tags, ", "))
	return w.String()
}

func (u User) String() string {
	w := fieldWriter{}
	w.field("handle", u.Handle)
	w.field("email", u.Email)
	w.field("vk id", u.VkId)
	w.field("open id", u.OpenId)
	w.field("first name", u.FirstName)
	w.field("last name", u.LastName)
	w.field("country", u.Country)
	w.field("city", u.City)
	w.field("organization", u.Organization)
	w.field("contribution", u.Contribution)
	w.field("rank", u.Rank)
	w.field("rating", u.Rating)
	w.field("max rank", u.MaxRank)
	w.field("max rating", u.MaxRating)
	w.field("last online", u.LastOnline)
	w.field("registered", u.Registered)
	w.field("friend of", u.FriendOfCount)
	w.field("avatar", u.Avatar)
	w.field("title photo", u.TitlePhoto)
	return w.String()
}

// Handles returns the handles of every member, joined by ", ".
func (p Party) Handles() string {
	handles := make([]string, len(p.Members))
	for i, m := range p.Members {
		handles[i] = m.Handle
	}
	return strings.Join(handles, ", ")
}

func (p Party) String() string {
	if p.TeamName != "" {
		return fmt.Sprintf("%s (%s)", p.TeamName, p.Handles())
	}
	return p.Handles()
}

func (s Submission) String() string {
	w := fieldWriter{}
	w.field("id", s.Id)
	w.field("contest id", s.ContestId)
	w.field("created", s.CreationTime)
	w.field("relative time", s.RelativeTimeSeconds)
	if s.Problem != nil {
		w.field("problem", fmt.Sprintf("%s %s", s.Problem.Id(), s.Problem.Name))
	}
	if s.Author != nil {
		w.field("author", s.Author.String())
	}
	w.field("language", s.ProgrammingLanguage)
	w.field("verdict", s.Verdict)
	w.field("testset", s.Testset)
	w.field("passed tests", s.PassedTestCount)
	w.field("time", fmt.Sprintf("%s ms", s.TimeConsumedMillis))
	w.field("memory", fmt.Sprintf("%s bytes", s.MemoryConsumedBytes))
	w.field("points", s.Points)
	return w.String()
}

func (c Contest) String() string {
	w := fieldWriter{}
	w.field("id", c.Id)
	w.field("name", c.Name)
	w.field("type", c.Type)
	w.field("phase", c.Phase)
	w.field("frozen", c.Frozen)
	w.field("duration", c.DurationSeconds)
	w.field("start", c.StartTime)
	w.field("relative time", c.RelativeTimeSeconds)
	w.field("prepared by", c.PreparedBy)
	w.field("website", c.WebsiteUrl)
	w.field("description", c.Description)
	w.field("difficulty", c.Difficulty)
	w.field("kind", c.Kind)
	w.field("icpc region", c.IcpcRegion)
	w.field("country", c.Country)
	w.field("city", c.City)
	w.field("season", c.Season)
	return w.String()
}

func (r RatingChange) String() string {
	return fmt.Sprintf(
		"%s: %s -> %s in %s (#%s, rank %s, %s)",
		r.Handle, r.OldRating, r.NewRating, r.ContestName, r.ContestId, r.Rank, r.RatingUpdateTime,
	)
}

func (h Hack) String() string {
	w := fieldWriter{}
	w.field("id", h.Id)
	w.field("created", h.CreationTime)
	if h.Hacker != nil {
		w.field("hacker", h.Hacker.String())
	}
	if h.Defender != nil {
		w.field("defender", h.Defender.String())
	}
	w.field("verdict", h.Verdict)
	if h.Problem != nil {
		w.field("problem", fmt.Sprintf("%s %s", h.Problem.Id(), h.Problem.Name))
	}
	w.field("test", h.Test)
	if h.JudgeProtocol != nil {
		w.field("judge verdict", h.JudgeProtocol.Verdict)
		w.field("judge protocol", h.JudgeProtocol.Protocol)
		w.field("manual", h.JudgeProtocol.Manual)
	}
	return w.String()
}

func (r RanklistRow) String() string {
	party := ""
	if r.Party != nil {
		party = r.Party.String()
	}
	results := make([]string, len(r.ProblemResults))
	for i, pr := range r.ProblemResults {
		results[i] = pr.Points.String()
	}
	return fmt.Sprintf(
		"#%s %s: %s points, %s penalty, +%s/-%s hacks [%s]",
		r.Rank, party, r.Points, r.Penalty, r.SuccessfulHackCount, r.UnsuccessfulHackCount,
		strings.Join(results, " "),
	)
}

func (b BlogEntry) String() string {
	w := fieldWriter{}
	w.field("id", b.Id)
	w.field("title", b.Title)
	w.field("author", b.AuthorHandle)
	w.field("created", b.CreationTime)
	w.field("modified", b.ModificationTime)
	w.field("locale", b.Locale)
	w.field("original locale", b.OriginalLocale)
	w.field("allow view history", b.AllowViewHistory)
	w.field("tags", strings.Join(b.Tags, ", "))
	w.field("rating", b.Rating)
	if b.Content != "" {
		w.field("content", b.Content)
	}
	return w.String()
}

func (c Comment) String() string {
	w := fieldWriter{}
	w.field("id", c.Id)
	w.field("author", c.CommentatorHandle)
	w.field("created", c.CreationTime)
	w.field("locale", c.Locale)
	w.field("parent", c.ParentCommentId)
	w.field("rating", c.Rating)
	w.field("text", c.Text)
	return w.String()
}

func (a RecentAction) String() string {
	switch {
	case a.Comment != nil && a.BlogEntry != nil:
		return fmt.Sprintf("%s: %s commented on %q", a.Time, a.Comment.CommentatorHandle, a.BlogEntry.Title)
	case a.BlogEntry != nil:
		return fmt.Sprintf("%s: %s posted %q", a.Time, a.BlogEntry.AuthorHandle, a.BlogEntry.Title)
	default:
		return a.Time.String()
	}
}
