package domain

import "time"

// OptionIndex identifies one of the four answer options of a question (1-4).
type OptionIndex int

const (
	Option1 OptionIndex = iota + 1
	Option2
	Option3
	Option4
)

// OptionsPerQuestion is fixed: every question carries exactly four options.
const OptionsPerQuestion = 4

// Valid reports whether the index is within 1..4.
func (o OptionIndex) Valid() bool {
	return o >= Option1 && o <= Option4
}

// Article is a news article analyzed by the crowd. The credibility fields are
// derived and only written by the aggregator.
type Article struct {
	ID                      int64     `json:"id"`
	URL                     string    `json:"url"`
	Title                   string    `json:"title,omitempty"`
	Content                 string    `json:"content"`
	Summary                 string    `json:"summary"`
	WordCount               int       `json:"wordCount"`
	SourceDomain            string    `json:"sourceDomain,omitempty"`
	CredibilityScore        float64   `json:"credibilityScore"`
	TotalResponses          int       `json:"totalResponses"`
	FlaggedAsMisinformation int       `json:"flaggedAsMisinformation"`
	FlaggedAsCredible       int       `json:"flaggedAsCredible"`
	CreatedAt               time.Time `json:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

// ArticleDerived holds the fields the aggregator recomputes for an article.
type ArticleDerived struct {
	CredibilityScore        float64
	TotalResponses          int
	FlaggedAsMisinformation int
	FlaggedAsCredible       int
}

// Apply copies the derived fields onto the article.
func (d ArticleDerived) Apply(a *Article) {
	a.CredibilityScore = d.CredibilityScore
	a.TotalResponses = d.TotalResponses
	a.FlaggedAsMisinformation = d.FlaggedAsMisinformation
	a.FlaggedAsCredible = d.FlaggedAsCredible
}

// Quiz belongs to one article and is immutable after creation.
type Quiz struct {
	ID                    int64      `json:"id"`
	ArticleID             int64      `json:"articleId"`
	Title                 string     `json:"title"`
	FocusOnMisinformation bool       `json:"focusOnMisinformation"`
	Questions             []Question `json:"questions"`
	CreatedAt             time.Time  `json:"createdAt"`
}

// Question is a four-option MCQ with a single correct option.
type Question struct {
	ID            int64                      `json:"id"`
	QuizID        int64                      `json:"quizId"`
	Number        int                        `json:"questionNumber"` // 1-indexed within the quiz
	Text          string                     `json:"question"`
	Options       [OptionsPerQuestion]string `json:"options"`
	CorrectOption OptionIndex                `json:"correctOption"`
}

// User is a quiz taker. Stats are a fold over the user's responses.
type User struct {
	ID          int64     `json:"id"`
	Identifier  string    `json:"userIdentifier"`
	IsAnonymous bool      `json:"isAnonymous"`
	Stats       UserStats `json:"stats"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UserStats are the aggregate statistics of a user.
type UserStats struct {
	TotalQuizzesTaken      int       `json:"totalQuizzesTaken"`
	TotalCorrectAnswers    int       `json:"totalCorrectAnswers"`
	TotalAnswers           int       `json:"totalAnswers"`
	AccuracyRate           float64   `json:"accuracyRate"`
	ArticlesFlagged        int       `json:"articlesFlagged"`
	CredibilityRatingGiven int       `json:"credibilityRatingGiven"`
	LastActive             time.Time `json:"lastActive"`
}

// UserResponse is one quiz attempt by one user against one article.
type UserResponse struct {
	ID                      int64        `json:"id"`
	UserID                  int64        `json:"userId"`
	ArticleID               int64        `json:"articleId"`
	QuizID                  int64        `json:"quizId"`
	TotalQuestions          int          `json:"totalQuestions"`
	CorrectAnswers          int          `json:"correctAnswers"`
	ScorePercentage         float64      `json:"scorePercentage"`
	CredibilityRating       int          `json:"credibilityRating"`
	FlaggedAsMisinformation bool         `json:"flaggedAsMisinformation"`
	ConfidenceLevel         int          `json:"confidenceLevel"`
	Comment                 string       `json:"comment,omitempty"`
	TimeTakenSeconds        *int         `json:"timeTakenSeconds,omitempty"`
	CompletedAt             time.Time    `json:"completedAt"`
	Answers                 []UserAnswer `json:"answers,omitempty"`
}

// UserAnswer is a single answer within a response.
type UserAnswer struct {
	ID               int64       `json:"id"`
	ResponseID       int64       `json:"responseId"`
	QuestionID       int64       `json:"questionId"`
	SelectedOption   OptionIndex `json:"selectedOption"`
	IsCorrect        bool        `json:"isCorrect"`
	TimeTakenSeconds *int        `json:"timeTakenSeconds,omitempty"`
	AnsweredAt       time.Time   `json:"answeredAt"`
}

// FlagType classifies a misinformation flag.
type FlagType string

const (
	FlagFakeNews   FlagType = "fake_news"
	FlagMisleading FlagType = "misleading"
	FlagSatire     FlagType = "satire"
	FlagClickbait  FlagType = "clickbait"
	FlagOther      FlagType = "other"
)

// Valid reports whether t is a known flag type.
func (t FlagType) Valid() bool {
	switch t {
	case FlagFakeNews, FlagMisleading, FlagSatire, FlagClickbait, FlagOther:
		return true
	}
	return false
}

// MisinformationFlag is a user's formal flag against an article.
type MisinformationFlag struct {
	ID              int64     `json:"id"`
	ArticleID       int64     `json:"articleId"`
	UserID          int64     `json:"userId"`
	Type            FlagType  `json:"flagType"`
	Severity        int       `json:"severity"`
	Reasoning       string    `json:"reasoning"`
	Evidence        string    `json:"evidenceProvided,omitempty"`
	VerifiedByAdmin bool      `json:"verifiedByAdmin"`
	AdminVerdict    string    `json:"adminVerdict,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ArticleUpdate is pushed to feed subscribers after an article is re-aggregated.
type ArticleUpdate struct {
	ArticleID               int64            `json:"articleId"`
	CredibilityScore        float64          `json:"credibilityScore"`
	TotalResponses          int              `json:"totalResponses"`
	FlaggedAsMisinformation int              `json:"flaggedAsMisinformation"`
	FlaggedAsCredible       int              `json:"flaggedAsCredible"`
	Consensus               ArticleConsensus `json:"consensus"`
	UpdatedAt               time.Time        `json:"updatedAt"`
}

// NewArticleUpdate snapshots an article for the feed.
func NewArticleUpdate(a Article, at time.Time) ArticleUpdate {
	consensus := ArticleConsensusNotEnoughData
	if a.TotalResponses > 0 {
		consensus = ArticleConsensusFor(a.CredibilityScore)
	}
	return ArticleUpdate{
		ArticleID:               a.ID,
		CredibilityScore:        a.CredibilityScore,
		TotalResponses:          a.TotalResponses,
		FlaggedAsMisinformation: a.FlaggedAsMisinformation,
		FlaggedAsCredible:       a.FlaggedAsCredible,
		Consensus:               consensus,
		UpdatedAt:               at,
	}
}
