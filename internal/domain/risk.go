package domain

// CommunityUnassigned is the sentinel community id for users the community
// detection step never reached.
const CommunityUnassigned = -1

// UserFeatures aggregates the per-user scores produced by the graph
// algorithms plus the derived shared-device co-user count.
type UserFeatures struct {
	UserID    string
	Degree    int
	Triangles int
	Community int64
	PageRank  float64
	CoUsers   int
}

// RiskAssessment is the outcome of the rule set for a single user.
type RiskAssessment struct {
	UserID     string
	Suspicious bool
	HighRisk   bool
}

// RiskRow is one line of the exported risk report.
type RiskRow struct {
	UserID    string
	HighRisk  bool
	CoUsers   int
	PageRank  float64
	Degree    int
	Triangles int
	Community int64
}
