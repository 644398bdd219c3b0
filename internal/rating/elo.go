// Package rating implements the Elo update rules for single assets and
// bundles. Everything here is a pure function so callers can run what-if
// projections without touching the store.
package rating

import "math"

// DefaultRating is the score every asset starts at.
const DefaultRating = 1500

const (
	baseK       = 24
	kCap        = 2
	kVoteScale  = 5
	roundDigits = 4
)

// Result attributes the win/loss/tie counters. It is derived purely from the
// vote counts, never from the rating comparison.
type Result string

const (
	ResultLeft  Result = "left"
	ResultRight Result = "right"
	ResultTie   Result = "tie"
)

// Update is the outcome of one single-side Elo computation. When
// AffectsScore is false the ratings are returned unchanged and callers must
// not persist wins/losses/poll counters.
type Update struct {
	LeftRating   float64
	RightRating  float64
	LeftDelta    float64
	RightDelta   float64
	KFactor      float64
	Result       Result
	AffectsScore bool
}

// UpdateElo computes the new ratings for one matchup given the vote tallies.
// The K-factor ramps with vote volume, K = 24 x min(2, sqrt(total/5)), so
// high-turnout matchups move ratings faster but never more than twice base.
func UpdateElo(leftRating, rightRating float64, votesLeft, votesRight, minVotes int) Update {
	total := votesLeft + votesRight
	up := Update{
		LeftRating:  leftRating,
		RightRating: rightRating,
		Result:      resultFromVotes(votesLeft, votesRight),
	}
	if total <= 0 || total < minVotes {
		return up
	}

	k := dynamicK(total)
	expectedLeft := expectedScore(leftRating, rightRating)
	actualLeft := float64(votesLeft) / float64(total)

	rawLeft := k * (actualLeft - expectedLeft)
	up.KFactor = k
	up.LeftDelta = round(rawLeft)
	up.RightDelta = round(-rawLeft)
	up.LeftRating = round(leftRating + rawLeft)
	up.RightRating = round(rightRating - rawLeft)
	up.AffectsScore = true
	return up
}

// TeamUpdate is the outcome of one bundle-vs-bundle Elo computation. The
// team-level delta is redistributed to members proportionally to each
// member's share of the side's logistic mass, so stronger members absorb
// more of the move.
type TeamUpdate struct {
	LeftRatings     []float64
	RightRatings    []float64
	LeftDeltas      []float64
	RightDeltas     []float64
	LeftTeamRating  float64
	RightTeamRating float64
	LeftTeamDelta   float64
	RightTeamDelta  float64
	KFactor         float64
	Result          Result
	AffectsScore    bool
}

// UpdateTeamElo folds each side's member ratings into a team rating,
// 400 x log10 of the summed logistic masses, runs the single-side update
// between the two team ratings, and spreads the delta back over the members.
func UpdateTeamElo(leftRatings, rightRatings []float64, votesLeft, votesRight, minVotes int) TeamUpdate {
	leftMass, leftSum := logisticMasses(leftRatings)
	rightMass, rightSum := logisticMasses(rightRatings)
	leftTeam := teamRating(leftSum)
	rightTeam := teamRating(rightSum)

	up := TeamUpdate{
		LeftRatings:     append([]float64(nil), leftRatings...),
		RightRatings:    append([]float64(nil), rightRatings...),
		LeftDeltas:      make([]float64, len(leftRatings)),
		RightDeltas:     make([]float64, len(rightRatings)),
		LeftTeamRating:  round(leftTeam),
		RightTeamRating: round(rightTeam),
		Result:          resultFromVotes(votesLeft, votesRight),
	}

	total := votesLeft + votesRight
	if total <= 0 || total < minVotes {
		return up
	}

	k := dynamicK(total)
	expectedLeft := expectedScore(leftTeam, rightTeam)
	actualLeft := float64(votesLeft) / float64(total)
	rawDelta := k * (actualLeft - expectedLeft)

	up.KFactor = k
	up.LeftTeamDelta = round(rawDelta)
	up.RightTeamDelta = round(-rawDelta)
	up.AffectsScore = true

	for i, r := range leftRatings {
		memberDelta := rawDelta * leftMass[i] / leftSum
		up.LeftDeltas[i] = round(memberDelta)
		up.LeftRatings[i] = round(r + memberDelta)
	}
	for i, r := range rightRatings {
		memberDelta := -rawDelta * rightMass[i] / rightSum
		up.RightDeltas[i] = round(memberDelta)
		up.RightRatings[i] = round(r + memberDelta)
	}
	return up
}

func resultFromVotes(votesLeft, votesRight int) Result {
	switch {
	case votesLeft > votesRight:
		return ResultLeft
	case votesRight > votesLeft:
		return ResultRight
	default:
		return ResultTie
	}
}

func dynamicK(total int) float64 {
	return baseK * math.Min(kCap, math.Sqrt(float64(total)/kVoteScale))
}

func expectedScore(a, b float64) float64 {
	return 1 / (1 + math.Pow(10, (b-a)/400))
}

func logisticMasses(ratings []float64) ([]float64, float64) {
	masses := make([]float64, len(ratings))
	var sum float64
	for i, r := range ratings {
		masses[i] = math.Pow(10, r/400)
		sum += masses[i]
	}
	return masses, sum
}

func teamRating(massSum float64) float64 {
	return 400 * math.Log10(massSum)
}

// round keeps ratings deterministic across platforms at 4 decimal places.
func round(x float64) float64 {
	shift := math.Pow(10, roundDigits)
	return math.Round(x*shift) / shift
}
