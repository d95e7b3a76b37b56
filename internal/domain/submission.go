package domain

import (
	"fmt"
	"unicode/utf8"
)

const (
	maxCommentLength   = 1000
	minReasoningLength = 20
	maxReasoningLength = 1000
	maxEvidenceLength  = 2000
)

// AnswerSubmission is one submitted answer.
type AnswerSubmission struct {
	QuestionID       int64       `json:"questionId"`
	SelectedOption   OptionIndex `json:"selectedOption"`
	TimeTakenSeconds *int        `json:"timeTakenSeconds,omitempty"`
}

// QuizSubmission is a complete quiz attempt plus the user's credibility assessment.
type QuizSubmission struct {
	QuizID                  int64              `json:"quizId"`
	UserID                  int64              `json:"userId"`
	Answers                 []AnswerSubmission `json:"answers"`
	CredibilityRating       int                `json:"credibilityRating"`
	FlaggedAsMisinformation bool               `json:"flaggedAsMisinformation"`
	ConfidenceLevel         int                `json:"confidenceLevel"`
	Comment                 string             `json:"comment,omitempty"`
	TotalTimeSeconds        *int               `json:"totalTimeSeconds,omitempty"`
}

// Validate enforces the range checks on a submission.
func (s QuizSubmission) Validate() error {
	for i, a := range s.Answers {
		if !a.SelectedOption.Valid() {
			return invalid(fmt.Sprintf("answers[%d].selectedOption", i), "must be between 1 and 4")
		}
		if a.TimeTakenSeconds != nil && *a.TimeTakenSeconds < 0 {
			return invalid(fmt.Sprintf("answers[%d].timeTakenSeconds", i), "must not be negative")
		}
	}
	if !inScale(s.CredibilityRating) {
		return invalid("credibilityRating", "must be between 1 and 5")
	}
	if !inScale(s.ConfidenceLevel) {
		return invalid("confidenceLevel", "must be between 1 and 5")
	}
	if utf8.RuneCountInString(s.Comment) > maxCommentLength {
		return invalid("comment", fmt.Sprintf("must be at most %d characters", maxCommentLength))
	}
	if s.TotalTimeSeconds != nil && *s.TotalTimeSeconds < 0 {
		return invalid("totalTimeSeconds", "must not be negative")
	}
	return nil
}

// SubmissionResult is returned to the caller once a submission is committed.
type SubmissionResult struct {
	ResponseID              int64               `json:"responseId"`
	QuizID                  int64               `json:"quizId"`
	TotalQuestions          int                 `json:"totalQuestions"`
	CorrectAnswers          int                 `json:"correctAnswers"`
	ScorePercentage         float64             `json:"scorePercentage"`
	CredibilityRating       int                 `json:"credibilityRating"`
	ArticleCredibilityScore float64             `json:"articleCredibilityScore"`
	CommunityConsensus      SubmissionConsensus `json:"communityConsensus"`
	Warnings                []IntegrityWarning  `json:"warnings,omitempty"`
}

// FlagSubmission is a user's request to flag an article.
type FlagSubmission struct {
	ArticleID int64    `json:"articleId"`
	UserID    int64    `json:"userId"`
	Type      FlagType `json:"flagType"`
	Severity  int      `json:"severity"`
	Reasoning string   `json:"reasoning"`
	Evidence  string   `json:"evidenceProvided,omitempty"`
}

// Validate enforces the shape of a flag.
func (f FlagSubmission) Validate() error {
	if !f.Type.Valid() {
		return invalid("flagType", fmt.Sprintf("unknown type %q", f.Type))
	}
	if !inScale(f.Severity) {
		return invalid("severity", "must be between 1 and 5")
	}
	n := utf8.RuneCountInString(f.Reasoning)
	if n < minReasoningLength || n > maxReasoningLength {
		return invalid("reasoning", fmt.Sprintf("must be between %d and %d characters", minReasoningLength, maxReasoningLength))
	}
	if utf8.RuneCountInString(f.Evidence) > maxEvidenceLength {
		return invalid("evidenceProvided", fmt.Sprintf("must be at most %d characters", maxEvidenceLength))
	}
	return nil
}

func inScale(v int) bool {
	return v >= 1 && v <= 5
}
