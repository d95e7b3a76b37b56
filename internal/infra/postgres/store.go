package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/uptrace/bun"

	"news-credibility-service/internal/app"
	"news-credibility-service/internal/domain"
)

// Store persists the credibility data in Postgres through bun.
type Store struct {
	db  *bun.DB
	idb bun.IDB
}

func NewStore(db *bun.DB) *Store {
	return &Store{db: db, idb: db}
}

// RunInTx runs fn inside a database transaction; any error rolls it back.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, repo app.Repository) error) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &Store{db: s.db, idb: tx})
	})
}

// CreateArticle inserts an article and fills its ID and timestamps.
func (s *Store) CreateArticle(ctx context.Context, article *domain.Article) error {
	if article.SourceDomain == "" {
		if u, err := url.Parse(article.URL); err == nil {
			article.SourceDomain = u.Host
		}
	}
	row := &articleRow{
		URL:          article.URL,
		Title:        article.Title,
		Content:      article.Content,
		Summary:      article.Summary,
		WordCount:    article.WordCount,
		SourceDomain: article.SourceDomain,
	}
	if _, err := s.idb.NewInsert().Model(row).Returning("*").Exec(ctx); err != nil {
		return fmt.Errorf("insert article: %w", err)
	}
	*article = row.toDomain()
	return nil
}

// CreateQuiz inserts a quiz with its questions, numbering them from 1.
func (s *Store) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		row := &quizRow{
			ArticleID:             quiz.ArticleID,
			Title:                 quiz.Title,
			NumQuestions:          len(quiz.Questions),
			FocusOnMisinformation: quiz.FocusOnMisinformation,
		}
		if _, err := tx.NewInsert().Model(row).Returning("id, created_at").Exec(ctx); err != nil {
			return fmt.Errorf("insert quiz: %w", err)
		}
		quiz.ID, quiz.CreatedAt = row.ID, row.CreatedAt
		for i := range quiz.Questions {
			q := &quiz.Questions[i]
			qr := &questionRow{
				QuizID:        quiz.ID,
				Number:        i + 1,
				Text:          q.Text,
				Option1:       q.Options[0],
				Option2:       q.Options[1],
				Option3:       q.Options[2],
				Option4:       q.Options[3],
				CorrectOption: int(q.CorrectOption),
			}
			if _, err := tx.NewInsert().Model(qr).Returning("id").Exec(ctx); err != nil {
				return fmt.Errorf("insert question %d: %w", i+1, err)
			}
			q.ID, q.QuizID, q.Number = qr.ID, quiz.ID, qr.Number
		}
		return nil
	})
}

func (s *Store) GetArticle(ctx context.Context, articleID int64) (domain.Article, error) {
	row := new(articleRow)
	err := s.idb.NewSelect().Model(row).Where("id = ?", articleID).Scan(ctx)
	if err != nil {
		return domain.Article{}, notFound(err, domain.ErrArticleNotFound)
	}
	return row.toDomain(), nil
}

func (s *Store) GetUser(ctx context.Context, userID int64) (domain.User, error) {
	row := new(userRow)
	err := s.idb.NewSelect().Model(row).Where("id = ?", userID).Scan(ctx)
	if err != nil {
		return domain.User{}, notFound(err, domain.ErrUserNotFound)
	}
	return row.toDomain(), nil
}

func (s *Store) GetUserByIdentifier(ctx context.Context, identifier string) (domain.User, error) {
	row := new(userRow)
	err := s.idb.NewSelect().Model(row).Where("user_identifier = ?", identifier).Scan(ctx)
	if err != nil {
		return domain.User{}, notFound(err, domain.ErrUserNotFound)
	}
	return row.toDomain(), nil
}

func (s *Store) GetQuestion(ctx context.Context, questionID int64) (domain.Question, error) {
	row := new(questionRow)
	err := s.idb.NewSelect().Model(row).Where("id = ?", questionID).Scan(ctx)
	if err != nil {
		return domain.Question{}, notFound(err, domain.ErrQuestionNotFound)
	}
	return row.toDomain(), nil
}

func (s *Store) ResponsesByArticle(ctx context.Context, articleID int64) ([]domain.UserResponse, error) {
	return s.responses(ctx, "article_id = ?", articleID)
}

func (s *Store) ResponsesByUser(ctx context.Context, userID int64) ([]domain.UserResponse, error) {
	return s.responses(ctx, "user_id = ?", userID)
}

func (s *Store) responses(ctx context.Context, where string, id int64) ([]domain.UserResponse, error) {
	var rows []responseRow
	if err := s.idb.NewSelect().Model(&rows).Where(where, id).OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("select responses: %w", err)
	}
	out := make([]domain.UserResponse, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}

func (s *Store) FlagCountByUser(ctx context.Context, userID int64) (int, error) {
	n, err := s.idb.NewSelect().Model((*flagRow)(nil)).Where("user_id = ?", userID).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count flags: %w", err)
	}
	return n, nil
}

func (s *Store) FlagsByArticle(ctx context.Context, articleID int64) ([]domain.MisinformationFlag, error) {
	var rows []flagRow
	err := s.idb.NewSelect().Model(&rows).
		Where("article_id = ?", articleID).
		OrderExpr("created_at DESC, id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select flags: %w", err)
	}
	out := make([]domain.MisinformationFlag, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}

func (s *Store) EligibleUsers(ctx context.Context) ([]domain.User, error) {
	var rows []userRow
	err := s.idb.NewSelect().Model(&rows).
		Where("total_quizzes_taken >= 1").
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	out := make([]domain.User, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}

func (s *Store) TopFlaggedArticles(ctx context.Context, limit int) ([]domain.Article, error) {
	q := s.idb.NewSelect().Model((*articleRow)(nil)).OrderExpr("flagged_as_misinformation DESC, id ASC")
	return s.articles(ctx, q, limit)
}

func (s *Store) MostCredibleArticles(ctx context.Context, minResponses, limit int) ([]domain.Article, error) {
	q := s.idb.NewSelect().Model((*articleRow)(nil)).
		Where("total_responses >= ?", minResponses).
		OrderExpr("credibility_score DESC, id ASC")
	return s.articles(ctx, q, limit)
}

func (s *Store) articles(ctx context.Context, q *bun.SelectQuery, limit int) ([]domain.Article, error) {
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []articleRow
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("select articles: %w", err)
	}
	out := make([]domain.Article, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}

func (s *Store) ArticleIDs(ctx context.Context) ([]int64, error) {
	return s.ids(ctx, (*articleRow)(nil))
}

func (s *Store) UserIDs(ctx context.Context) ([]int64, error) {
	return s.ids(ctx, (*userRow)(nil))
}

func (s *Store) ids(ctx context.Context, model interface{}) ([]int64, error) {
	var ids []int64
	if err := s.idb.NewSelect().Model(model).Column("id").OrderExpr("id ASC").Scan(ctx, &ids); err != nil {
		return nil, fmt.Errorf("select ids: %w", err)
	}
	return ids, nil
}

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	row := &userRow{Identifier: user.Identifier, IsAnonymous: user.IsAnonymous}
	if _, err := s.idb.NewInsert().Model(row).Returning("*").Exec(ctx); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	*user = row.toDomain()
	return nil
}

func (s *Store) SaveResponse(ctx context.Context, response *domain.UserResponse) error {
	row := newResponseRow(*response)
	if _, err := s.idb.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		return fmt.Errorf("insert response: %w", err)
	}
	response.ID = row.ID
	return nil
}

func (s *Store) SaveAnswer(ctx context.Context, answer *domain.UserAnswer) error {
	row := &answerRow{
		ResponseID:       answer.ResponseID,
		QuestionID:       answer.QuestionID,
		SelectedOption:   int(answer.SelectedOption),
		IsCorrect:        answer.IsCorrect,
		TimeTakenSeconds: answer.TimeTakenSeconds,
		AnsweredAt:       answer.AnsweredAt,
	}
	if _, err := s.idb.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		return fmt.Errorf("insert answer: %w", err)
	}
	answer.ID = row.ID
	return nil
}

func (s *Store) SaveFlag(ctx context.Context, flag *domain.MisinformationFlag) error {
	row := &flagRow{
		ArticleID: flag.ArticleID,
		UserID:    flag.UserID,
		Type:      string(flag.Type),
		Severity:  flag.Severity,
		Reasoning: flag.Reasoning,
		Evidence:  flag.Evidence,
		CreatedAt: flag.CreatedAt,
	}
	if _, err := s.idb.NewInsert().Model(row).Returning("id, created_at").Exec(ctx); err != nil {
		return fmt.Errorf("insert flag: %w", err)
	}
	flag.ID, flag.CreatedAt = row.ID, row.CreatedAt
	return nil
}

func (s *Store) UpdateArticleDerived(ctx context.Context, articleID int64, derived domain.ArticleDerived) error {
	res, err := s.idb.NewUpdate().Model((*articleRow)(nil)).
		Set("credibility_score = ?", derived.CredibilityScore).
		Set("total_responses = ?", derived.TotalResponses).
		Set("flagged_as_misinformation = ?", derived.FlaggedAsMisinformation).
		Set("flagged_as_credible = ?", derived.FlaggedAsCredible).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", articleID).
		Exec(ctx)
	return affected(res, err, domain.ErrArticleNotFound)
}

func (s *Store) UpdateUserDerived(ctx context.Context, userID int64, stats domain.UserStats) error {
	res, err := s.idb.NewUpdate().Model((*userRow)(nil)).
		Set("total_quizzes_taken = ?", stats.TotalQuizzesTaken).
		Set("total_correct_answers = ?", stats.TotalCorrectAnswers).
		Set("total_answers = ?", stats.TotalAnswers).
		Set("accuracy_rate = ?", stats.AccuracyRate).
		Set("articles_flagged = ?", stats.ArticlesFlagged).
		Set("credibility_rating_given = ?", stats.CredibilityRatingGiven).
		Set("last_active = ?", stats.LastActive).
		Where("id = ?", userID).
		Exec(ctx)
	return affected(res, err, domain.ErrUserNotFound)
}

func notFound(err, sentinel error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel
	}
	return err
}

func affected(res sql.Result, err error, sentinel error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sentinel
	}
	return nil
}

var _ app.Store = (*Store)(nil)
