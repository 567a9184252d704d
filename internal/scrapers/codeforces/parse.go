package codeforces

import (
	"cpt/pkg/payload"
)

// parseMany applies parse to every element, it never returns nil.
func parseMany[T any](objects []payload.Object, parse func(payload.Object) T) []T {
	out := make([]T, len(objects))
	for i, o := range objects {
		out[i] = parse(o)
	}
	return out
}

// parseOptional returns nil for an absent nested object.
func parseOptional[T any](o payload.Object, parse func(payload.Object) T) *T {
	if o == nil {
		return nil
	}
	parsed := parse(o)
	return &parsed
}

func parseProblem(o payload.Object) Problem {
	return Problem{
		ContestId:      o.Int("contestId"),
		ProblemsetName: o.String("problemsetName"),
		Index:          o.String("index"),
		Name:           o.String("name"),
		Type:           o.String("type"),
		Points:         o.FloatOr("points", 0),
		Rating:         o.IntOr("rating", 0),
		Tags:           o.Strings("tags"),
	}
}

func parseProblems(objects []payload.Object) []Problem {
	return parseMany(objects, parseProblem)
}

func parseProblemStatistics(o payload.Object) ProblemStatistics {
	return ProblemStatistics{
		ContestId:   o.Int("contestId"),
		Index:       o.String("index"),
		SolvedCount: o.IntOr("solvedCount", 0),
	}
}

func parseProblemStatisticsList(objects []payload.Object) []ProblemStatistics {
	return parseMany(objects, parseProblemStatistics)
}

func parseUser(o payload.Object) User {
	return User{
		Handle:        o.String("handle"),
		Email:         o.String("email"),
		VkId:          o.String("vkId"),
		OpenId:        o.String("openId"),
		FirstName:     o.String("firstName"),
		LastName:      o.String("lastName"),
		Country:       o.String("country"),
		City:          o.String("city"),
		Organization:  o.String("organization"),
		Contribution:  o.Int("contribution"),
		Rank:          o.String("rank"),
		Rating:        o.Int("rating"),
		MaxRank:       o.String("maxRank"),
		MaxRating:     o.Int("maxRating"),
		LastOnline:    o.Time("lastOnlineTimeSeconds"),
		Registered:    o.Time("registrationTimeSeconds"),
		FriendOfCount: o.IntOr("friendOfCount", 0),
		Avatar:        o.String("avatar"),
		TitlePhoto:    o.String("titlePhoto"),
	}
}

func parseUsers(objects []payload.Object) []User {
	return parseMany(objects, parseUser)
}

func parseMember(o payload.Object) Member {
	return Member{
		Handle: o.String("handle"),
		Name:   o.String("name"),
	}
}

func parseMembers(objects []payload.Object) []Member {
	return parseMany(objects, parseMember)
}

func parseParty(o payload.Object) Party {
	return Party{
		ContestId:       o.Int("contestId"),
		Members:         parseMembers(o.Objects("members")),
		ParticipantType: o.String("participantType"),
		TeamId:          o.Int("teamId"),
		TeamName:        o.String("teamName"),
		Ghost:           o.Bool("ghost"),
		Room:            o.Int("room"),
		StartTime:       o.Time("startTimeSeconds"),
	}
}

func parseParties(objects []payload.Object) []Party {
	return parseMany(objects, parseParty)
}

func parseSubmission(o payload.Object) Submission {
	return Submission{
		Id:                  o.Int("id"),
		ContestId:           o.Int("contestId"),
		CreationTime:        o.Time("creationTimeSeconds"),
		RelativeTimeSeconds: o.Int("relativeTimeSeconds"),
		Problem:             parseOptional(o.Object("problem"), parseProblem),
		Author:              parseOptional(o.Object("author"), parseParty),
		ProgrammingLanguage: o.String("programmingLanguage"),
		Verdict:             o.String("verdict"),
		Testset:             o.String("testset"),
		PassedTestCount:     o.IntOr("passedTestCount", 0),
		TimeConsumedMillis:  o.IntOr("timeConsumedMillis", 0),
		MemoryConsumedBytes: o.IntOr("memoryConsumedBytes", 0),
		Points:              o.FloatOr("points", 0),
	}
}

func parseSubmissions(objects []payload.Object) []Submission {
	return parseMany(objects, parseSubmission)
}

func parseContest(o payload.Object) Contest {
	return Contest{
		Id:                  o.Int("id"),
		Name:                o.String("name"),
		Type:                o.String("type"),
		Phase:               Phase(o.String("phase")),
		Frozen:              o.Bool("frozen"),
		DurationSeconds:     o.Int("durationSeconds"),
		StartTime:           o.Time("startTimeSeconds"),
		RelativeTimeSeconds: o.Int("relativeTimeSeconds"),
		PreparedBy:          o.String("preparedBy"),
		WebsiteUrl:          o.String("websiteUrl"),
		Description:         o.String("description"),
		Difficulty:          o.Int("difficulty"),
		Kind:                o.String("kind"),
		IcpcRegion:          o.String("icpcRegion"),
		Country:             o.String("country"),
		City:                o.String("city"),
		Season:              o.String("season"),
	}
}

func parseContests(objects []payload.Object) []Contest {
	return parseMany(objects, parseContest)
}

func parseRatingChange(o payload.Object) RatingChange {
	return RatingChange{
		ContestId:        o.Int("contestId"),
		ContestName:      o.String("contestName"),
		Handle:           o.String("handle"),
		Rank:             o.Int("rank"),
		RatingUpdateTime: o.Time("ratingUpdateTimeSeconds"),
		OldRating:        o.Int("oldRating"),
		NewRating:        o.Int("newRating"),
	}
}

func parseRatingChanges(objects []payload.Object) []RatingChange {
	return parseMany(objects, parseRatingChange)
}

func parseJudgeProtocol(o payload.Object) JudgeProtocol {
	return JudgeProtocol{
		Manual:   o.Bool("manual"),
		Protocol: o.String("protocol"),
		Verdict:  o.String("verdict"),
	}
}

func parseHack(o payload.Object) Hack {
	return Hack{
		Id:            o.Int("id"),
		CreationTime:  o.Time("creationTimeSeconds"),
		Hacker:        parseOptional(o.Object("hacker"), parseParty),
		Defender:      parseOptional(o.Object("defender"), parseParty),
		Verdict:       o.String("verdict"),
		Problem:       parseOptional(o.Object("problem"), parseProblem),
		Test:          o.String("test"),
		JudgeProtocol: parseOptional(o.Object("judgeProtocol"), parseJudgeProtocol),
	}
}

func parseHacks(objects []payload.Object) []Hack {
	return parseMany(objects, parseHack)
}

func parseProblemResult(o payload.Object) ProblemResult {
	return ProblemResult{
		Points:               o.FloatOr("points", 0),
		Penalty:              o.IntOr("penalty", 0),
		RejectedAttemptCount: o.IntOr("rejectedAttemptCount", 0),
		Type:                 o.String("type"),
		BestSubmissionTime:   o.IntOr("bestSubmissionTimeSeconds", -1),
	}
}

func parseProblemResults(objects []payload.Object) []ProblemResult {
	return parseMany(objects, parseProblemResult)
}

func parseRanklistRow(o payload.Object) RanklistRow {
	return RanklistRow{
		Party:                 parseOptional(o.Object("party"), parseParty),
		Rank:                  o.Int("rank"),
		Points:                o.FloatOr("points", 0),
		Penalty:               o.IntOr("penalty", 0),
		SuccessfulHackCount:   o.IntOr("successfulHackCount", 0),
		UnsuccessfulHackCount: o.IntOr("unsuccessfulHackCount", 0),
		ProblemResults:        parseProblemResults(o.Objects("problemResults")),
		LastSubmissionTime:    o.IntOr("lastSubmissionTimeSeconds", -1),
	}
}

func parseRanklistRows(objects []payload.Object) []RanklistRow {
	return parseMany(objects, parseRanklistRow)
}

func parseBlogEntry(o payload.Object) BlogEntry {
	return BlogEntry{
		Id:               o.Int("id"),
		OriginalLocale:   o.String("originalLocale"),
		CreationTime:     o.Time("creationTimeSeconds"),
		AuthorHandle:     o.String("authorHandle"),
		Title:            o.String("title"),
		Content:          o.String("content"),
		Locale:           o.String("locale"),
		ModificationTime: o.Time("modificationTimeSeconds"),
		AllowViewHistory: o.Bool("allowViewHistory"),
		Tags:             o.Strings("tags"),
		Rating:           o.IntOr("rating", 0),
	}
}

func parseBlogEntries(objects []payload.Object) []BlogEntry {
	return parseMany(objects, parseBlogEntry)
}

func parseComment(o payload.Object) Comment {
	return Comment{
		Id:                o.Int("id"),
		CreationTime:      o.Time("creationTimeSeconds"),
		CommentatorHandle: o.String("commentatorHandle"),
		Locale:            o.String("locale"),
		Text:              o.String("text"),
		ParentCommentId:   o.Int("parentCommentId"),
		Rating:            o.IntOr("rating", 0),
	}
}

func parseComments(objects []payload.Object) []Comment {
	return parseMany(objects, parseComment)
}

func parseRecentAction(o payload.Object) RecentAction {
	return RecentAction{
		Time:      o.Time("timeSeconds"),
		BlogEntry: parseOptional(o.Object("blogEntry"), parseBlogEntry),
		Comment:   parseOptional(o.Object("comment"), parseComment),
	}
}

func parseRecentActions(objects []payload.Object) []RecentAction {
	return parseMany(objects, parseRecentAction)
}
