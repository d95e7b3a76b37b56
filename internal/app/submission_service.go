package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"news-credibility-service/internal/aggregate"
	"news-credibility-service/internal/domain"
	"news-credibility-service/internal/scoring"
)

// SubmissionService turns quiz submissions into stored responses and refreshed
// article and user aggregates.
type SubmissionService struct {
	store   Store
	quizzes QuizRepository
	board   LeaderboardCache
	feed    *ArticleFeed
	now     func() time.Time
}

func NewSubmissionService(store Store, quizzes QuizRepository, board LeaderboardCache, feed *ArticleFeed) *SubmissionService {
	return NewSubmissionServiceWithClock(store, quizzes, board, feed, time.Now)
}

// NewSubmissionServiceWithClock is used by tests for deterministic timestamps.
func NewSubmissionServiceWithClock(store Store, quizzes QuizRepository, board LeaderboardCache, feed *ArticleFeed, now func() time.Time) *SubmissionService {
	return &SubmissionService{store: store, quizzes: quizzes, board: board, feed: feed, now: now}
}

// Submit scores a quiz attempt, persists it with its answers and re-aggregates the
// quiz's article and the submitting user in a single transaction. Unknown quizzes
// and users reject the submission without writing anything.
func (s *SubmissionService) Submit(ctx context.Context, sub domain.QuizSubmission) (domain.SubmissionResult, error) {
	if err := sub.Validate(); err != nil {
		return domain.SubmissionResult{}, err
	}

	quiz, err := s.quizzes.GetQuiz(ctx, sub.QuizID)
	if err != nil {
		return domain.SubmissionResult{}, err
	}

	var (
		result  domain.SubmissionResult
		article domain.Article
	)
	err = s.store.RunInTx(ctx, func(ctx context.Context, repo Repository) error {
		if _, err := repo.GetUser(ctx, sub.UserID); err != nil {
			return err
		}

		correct, err := correctOptions(ctx, repo, quiz, sub.Answers)
		if err != nil {
			return err
		}
		answers := make([]scoring.Answer, len(sub.Answers))
		for i, a := range sub.Answers {
			answers[i] = scoring.Answer{QuestionID: a.QuestionID, Selected: a.SelectedOption}
		}
		scored := scoring.Score(answers, correct)

		now := s.now()
		response := &domain.UserResponse{
			UserID:                  sub.UserID,
			ArticleID:               quiz.ArticleID,
			QuizID:                  quiz.ID,
			TotalQuestions:          scored.Total,
			CorrectAnswers:          scored.Correct,
			ScorePercentage:         scored.Percentage,
			CredibilityRating:       sub.CredibilityRating,
			FlaggedAsMisinformation: sub.FlaggedAsMisinformation,
			ConfidenceLevel:         sub.ConfidenceLevel,
			Comment:                 sub.Comment,
			TimeTakenSeconds:        sub.TotalTimeSeconds,
			CompletedAt:             now,
		}
		if err := repo.SaveResponse(ctx, response); err != nil {
			return fmt.Errorf("save response: %w", err)
		}
		for _, g := range scored.Graded {
			answer := &domain.UserAnswer{
				ResponseID:       response.ID,
				QuestionID:       g.QuestionID,
				SelectedOption:   g.Selected,
				IsCorrect:        g.Correct,
				TimeTakenSeconds: sub.Answers[g.Index].TimeTakenSeconds,
				AnsweredAt:       now,
			}
			if err := repo.SaveAnswer(ctx, answer); err != nil {
				return fmt.Errorf("save answer: %w", err)
			}
		}

		agg := aggregate.NewWithClock(repo, s.now)
		article, err = agg.RecomputeArticle(ctx, quiz.ArticleID)
		if err != nil {
			return err
		}
		if _, err := agg.RecomputeUser(ctx, sub.UserID); err != nil {
			return err
		}

		result = domain.SubmissionResult{
			ResponseID:              response.ID,
			QuizID:                  quiz.ID,
			TotalQuestions:          scored.Total,
			CorrectAnswers:          scored.Correct,
			ScorePercentage:         scored.Percentage,
			CredibilityRating:       sub.CredibilityRating,
			ArticleCredibilityScore: article.CredibilityScore,
			CommunityConsensus:      domain.SubmissionConsensusFor(article.CredibilityScore),
		}
		for _, id := range scored.Skipped {
			result.Warnings = append(result.Warnings, domain.IntegrityWarning{QuestionID: id})
		}
		return nil
	})
	if err != nil {
		return domain.SubmissionResult{}, err
	}

	for _, w := range result.Warnings {
		log.Printf("submission %d (quiz %d, user %d): %s", result.ResponseID, sub.QuizID, sub.UserID, w)
	}
	s.board.Invalidate(ctx)
	s.feed.Publish(domain.NewArticleUpdate(article, s.now()))
	return result, nil
}

// correctOptions maps every resolvable answered question to its correct option.
// Questions outside the cached quiz are looked up individually; ones that do
// not exist are left out so the scorer skips them.
func correctOptions(ctx context.Context, repo Repository, quiz domain.Quiz, answers []domain.AnswerSubmission) (map[int64]domain.OptionIndex, error) {
	correct := make(map[int64]domain.OptionIndex, len(quiz.Questions))
	for _, q := range quiz.Questions {
		correct[q.ID] = q.CorrectOption
	}
	for _, a := range answers {
		if _, ok := correct[a.QuestionID]; ok {
			continue
		}
		q, err := repo.GetQuestion(ctx, a.QuestionID)
		if errors.Is(err, domain.ErrQuestionNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("lookup question %d: %w", a.QuestionID, err)
		}
		correct[q.ID] = q.CorrectOption
	}
	return correct, nil
}
