package postgres

import (
	"time"

	"github.com/uptrace/bun"

	"news-credibility-service/internal/domain"
)

type articleRow struct {
	bun.BaseModel `bun:"table:articles,alias:a"`

	ID                      int64     `bun:"id,pk,autoincrement"`
	URL                     string    `bun:"url,notnull"`
	Title                   string    `bun:"title,nullzero"`
	Content                 string    `bun:"content,notnull"`
	Summary                 string    `bun:"summary,nullzero"`
	WordCount               int       `bun:"word_count"`
	SourceDomain            string    `bun:"source_domain,nullzero"`
	CredibilityScore        float64   `bun:"credibility_score"`
	TotalResponses          int       `bun:"total_responses"`
	FlaggedAsMisinformation int       `bun:"flagged_as_misinformation"`
	FlaggedAsCredible       int       `bun:"flagged_as_credible"`
	CreatedAt               time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt               time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func (r articleRow) toDomain() domain.Article {
	return domain.Article{
		ID:                      r.ID,
		URL:                     r.URL,
		Title:                   r.Title,
		Content:                 r.Content,
		Summary:                 r.Summary,
		WordCount:               r.WordCount,
		SourceDomain:            r.SourceDomain,
		CredibilityScore:        r.CredibilityScore,
		TotalResponses:          r.TotalResponses,
		FlaggedAsMisinformation: r.FlaggedAsMisinformation,
		FlaggedAsCredible:       r.FlaggedAsCredible,
		CreatedAt:               r.CreatedAt,
		UpdatedAt:               r.UpdatedAt,
	}
}

type quizRow struct {
	bun.BaseModel `bun:"table:quizzes,alias:qz"`

	ID                    int64     `bun:"id,pk,autoincrement"`
	ArticleID             int64     `bun:"article_id,notnull"`
	Title                 string    `bun:"title,notnull"`
	NumQuestions          int       `bun:"num_questions,notnull"`
	FocusOnMisinformation bool      `bun:"focus_on_misinformation,notnull"`
	CreatedAt             time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type questionRow struct {
	bun.BaseModel `bun:"table:questions,alias:q"`

	ID            int64     `bun:"id,pk,autoincrement"`
	QuizID        int64     `bun:"quiz_id,notnull"`
	Number        int       `bun:"question_number,notnull"`
	Text          string    `bun:"question_text,notnull"`
	Option1       string    `bun:"option_1,notnull"`
	Option2       string    `bun:"option_2,notnull"`
	Option3       string    `bun:"option_3,notnull"`
	Option4       string    `bun:"option_4,notnull"`
	CorrectOption int       `bun:"correct_option,notnull"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func (r questionRow) toDomain() domain.Question {
	return domain.Question{
		ID:            r.ID,
		QuizID:        r.QuizID,
		Number:        r.Number,
		Text:          r.Text,
		Options:       [domain.OptionsPerQuestion]string{r.Option1, r.Option2, r.Option3, r.Option4},
		CorrectOption: domain.OptionIndex(r.CorrectOption),
	}
}

type userRow struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID                     int64     `bun:"id,pk,autoincrement"`
	Identifier             string    `bun:"user_identifier,notnull"`
	IsAnonymous            bool      `bun:"is_anonymous,notnull"`
	TotalQuizzesTaken      int       `bun:"total_quizzes_taken"`
	TotalCorrectAnswers    int       `bun:"total_correct_answers"`
	TotalAnswers           int       `bun:"total_answers"`
	AccuracyRate           float64   `bun:"accuracy_rate"`
	ArticlesFlagged        int       `bun:"articles_flagged"`
	CredibilityRatingGiven int       `bun:"credibility_rating_given"`
	CreatedAt              time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	LastActive             time.Time `bun:"last_active,nullzero,notnull,default:current_timestamp"`
}

func (r userRow) toDomain() domain.User {
	return domain.User{
		ID:          r.ID,
		Identifier:  r.Identifier,
		IsAnonymous: r.IsAnonymous,
		Stats: domain.UserStats{
			TotalQuizzesTaken:      r.TotalQuizzesTaken,
			TotalCorrectAnswers:    r.TotalCorrectAnswers,
			TotalAnswers:           r.TotalAnswers,
			AccuracyRate:           r.AccuracyRate,
			ArticlesFlagged:        r.ArticlesFlagged,
			CredibilityRatingGiven: r.CredibilityRatingGiven,
			LastActive:             r.LastActive,
		},
		CreatedAt: r.CreatedAt,
	}
}

type responseRow struct {
	bun.BaseModel `bun:"table:user_responses,alias:r"`

	ID                      int64     `bun:"id,pk,autoincrement"`
	UserID                  int64     `bun:"user_id,notnull"`
	ArticleID               int64     `bun:"article_id,notnull"`
	QuizID                  int64     `bun:"quiz_id,notnull"`
	TotalQuestions          int       `bun:"total_questions,notnull"`
	CorrectAnswers          int       `bun:"correct_answers,notnull"`
	ScorePercentage         float64   `bun:"score_percentage,notnull"`
	CredibilityRating       int       `bun:"user_credibility_rating,notnull"`
	FlaggedAsMisinformation bool      `bun:"user_flagged_as_misinformation,notnull"`
	ConfidenceLevel         int       `bun:"user_confidence_level,notnull"`
	Comment                 string    `bun:"user_comments,nullzero"`
	TimeTakenSeconds        *int      `bun:"time_taken_seconds"`
	CompletedAt             time.Time `bun:"completed_at,nullzero,notnull,default:current_timestamp"`
}

func newResponseRow(r domain.UserResponse) *responseRow {
	return &responseRow{
		UserID:                  r.UserID,
		ArticleID:               r.ArticleID,
		QuizID:                  r.QuizID,
		TotalQuestions:          r.TotalQuestions,
		CorrectAnswers:          r.CorrectAnswers,
		ScorePercentage:         r.ScorePercentage,
		CredibilityRating:       r.CredibilityRating,
		FlaggedAsMisinformation: r.FlaggedAsMisinformation,
		ConfidenceLevel:         r.ConfidenceLevel,
		Comment:                 r.Comment,
		TimeTakenSeconds:        r.TimeTakenSeconds,
		CompletedAt:             r.CompletedAt,
	}
}

func (r responseRow) toDomain() domain.UserResponse {
	return domain.UserResponse{
		ID:                      r.ID,
		UserID:                  r.UserID,
		ArticleID:               r.ArticleID,
		QuizID:                  r.QuizID,
		TotalQuestions:          r.TotalQuestions,
		CorrectAnswers:          r.CorrectAnswers,
		ScorePercentage:         r.ScorePercentage,
		CredibilityRating:       r.CredibilityRating,
		FlaggedAsMisinformation: r.FlaggedAsMisinformation,
		ConfidenceLevel:         r.ConfidenceLevel,
		Comment:                 r.Comment,
		TimeTakenSeconds:        r.TimeTakenSeconds,
		CompletedAt:             r.CompletedAt,
	}
}

type answerRow struct {
	bun.BaseModel `bun:"table:user_answers,alias:ua"`

	ID               int64     `bun:"id,pk,autoincrement"`
	ResponseID       int64     `bun:"response_id,notnull"`
	QuestionID       int64     `bun:"question_id,notnull"`
	SelectedOption   int       `bun:"selected_option,notnull"`
	IsCorrect        bool      `bun:"is_correct,notnull"`
	TimeTakenSeconds *int      `bun:"time_taken_seconds"`
	AnsweredAt       time.Time `bun:"answered_at,nullzero,notnull,default:current_timestamp"`
}

type flagRow struct {
	bun.BaseModel `bun:"table:misinformation_flags,alias:f"`

	ID              int64     `bun:"id,pk,autoincrement"`
	ArticleID       int64     `bun:"article_id,notnull"`
	UserID          int64     `bun:"user_id,notnull"`
	Type            string    `bun:"flag_type,notnull"`
	Severity        int       `bun:"severity,notnull"`
	Reasoning       string    `bun:"reasoning,notnull"`
	Evidence        string    `bun:"evidence_provided,nullzero"`
	VerifiedByAdmin bool      `bun:"verified_by_admin,notnull"`
	AdminVerdict    string    `bun:"admin_verdict,nullzero"`
	CreatedAt       time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func (r flagRow) toDomain() domain.MisinformationFlag {
	return domain.MisinformationFlag{
		ID:              r.ID,
		ArticleID:       r.ArticleID,
		UserID:          r.UserID,
		Type:            domain.FlagType(r.Type),
		Severity:        r.Severity,
		Reasoning:       r.Reasoning,
		Evidence:        r.Evidence,
		VerifiedByAdmin: r.VerifiedByAdmin,
		AdminVerdict:    r.AdminVerdict,
		CreatedAt:       r.CreatedAt,
	}
}
