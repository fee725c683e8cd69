package risk

import (
	"math"

	"github.com/kelvinosei/momograph/internal/domain"
)

// Rule thresholds. The high-risk PageRank threshold (2 sigma) is
// intentionally looser than the suspicious trigger (3 sigma): given
// suspicious=true, either disjunct is independently sufficient.
const (
	suspiciousSigma    = 3.0
	highRiskSigma      = 2.0
	suspiciousCoUsers  = 2
	suspiciousTriangle = 2
	highRiskCoUsers    = 4
)

// Classify applies the two-tier rule set in one pass over the full user
// population. PageRank mean and standard deviation are computed once over
// the same population, never per user.
func Classify(users []domain.UserFeatures) []domain.RiskAssessment {
	mean, std := pageRankStats(users)
	suspiciousCut := mean + suspiciousSigma*std
	highRiskCut := mean + highRiskSigma*std

	assessments := make([]domain.RiskAssessment, 0, len(users))
	for _, u := range users {
		suspicious := u.PageRank > suspiciousCut ||
			u.CoUsers >= suspiciousCoUsers ||
			u.Triangles >= suspiciousTriangle
		highRisk := suspicious &&
			(u.CoUsers >= highRiskCoUsers || u.PageRank > highRiskCut)

		assessments = append(assessments, domain.RiskAssessment{
			UserID:     u.UserID,
			Suspicious: suspicious,
			HighRisk:   highRisk,
		})
	}
	return assessments
}

// pageRankStats returns the mean and sample standard deviation of PageRank
// over the population, matching the stDev aggregation the graph engine uses.
func pageRankStats(users []domain.UserFeatures) (mean, std float64) {
	if len(users) == 0 {
		return 0, 0
	}

	var sum float64
	for _, u := range users {
		sum += u.PageRank
	}
	mean = sum / float64(len(users))

	if len(users) < 2 {
		return mean, 0
	}
	var sq float64
	for _, u := range users {
		d := u.PageRank - mean
		sq += d * d
	}
	std = math.Sqrt(sq / float64(len(users)-1))
	return mean, std
}
