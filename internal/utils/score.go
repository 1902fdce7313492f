package utils

// TrendingWindowDays is how far back an upvote still counts as "recent"
// for the trending bonus.
const TrendingWindowDays = 7

// TrendingBonusWeight multiplies recent upvotes into the score.
const TrendingBonusWeight = 2

// ComputeScore derives a tool's public score from ledger counts.
//
//	base  = upvotes - downvotes
//	bonus = recentUpvotes * 2   (upvotes within the trailing 7 days)
//	score = base + bonus
//
// The cached score column and the API both report this number.
func ComputeScore(upvotes, downvotes, recentUpvotes int) int {
	base := upvotes - downvotes
	return base + recentUpvotes*TrendingBonusWeight
}

// ComputeVoteCount is the public vote total shown next to the score.
func ComputeVoteCount(upvotes, downvotes int) int {
	return upvotes + downvotes
}
