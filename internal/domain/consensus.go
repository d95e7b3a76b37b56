package domain

// Both consensus vocabularies share the same thresholds on the 0-100 credibility
// scale but are reported at different call sites with different literals.
const (
	CredibleThreshold = 70.0
	DisputedThreshold = 40.0
)

// SubmissionConsensus is the label returned with a quiz submission result.
type SubmissionConsensus string

const (
	SubmissionLikelyCredible     SubmissionConsensus = "likely_credible"
	SubmissionPossiblyMisleading SubmissionConsensus = "possibly_misleading"
	SubmissionLikelyFake         SubmissionConsensus = "likely_fake"
)

// SubmissionConsensusFor labels a credibility score for submission results.
func SubmissionConsensusFor(score float64) SubmissionConsensus {
	switch {
	case score >= CredibleThreshold:
		return SubmissionLikelyCredible
	case score >= DisputedThreshold:
		return SubmissionPossiblyMisleading
	default:
		return SubmissionLikelyFake
	}
}

// ArticleConsensus is the label reported by article statistics.
type ArticleConsensus string

const (
	ArticleHighCredibility        ArticleConsensus = "high_credibility"
	ArticleDisputed               ArticleConsensus = "disputed"
	ArticleLikelyMisinformation   ArticleConsensus = "likely_misinformation"
	ArticleConsensusNotEnoughData ArticleConsensus = "not_enough_data"
)

// ArticleConsensusFor labels a credibility score for article statistics.
func ArticleConsensusFor(score float64) ArticleConsensus {
	switch {
	case score >= CredibleThreshold:
		return ArticleHighCredibility
	case score >= DisputedThreshold:
		return ArticleDisputed
	default:
		return ArticleLikelyMisinformation
	}
}

// ContributionLevel buckets a user's participation.
type ContributionLevel string

const (
	ContributionBeginner     ContributionLevel = "beginner"
	ContributionIntermediate ContributionLevel = "intermediate"
	ContributionExpert       ContributionLevel = "expert"
)

// ContributionLevelFor derives the level from aggregate statistics.
func ContributionLevelFor(stats UserStats) ContributionLevel {
	switch {
	case stats.TotalQuizzesTaken >= 25 && stats.AccuracyRate >= 80:
		return ContributionExpert
	case stats.TotalQuizzesTaken >= 5:
		return ContributionIntermediate
	default:
		return ContributionBeginner
	}
}
