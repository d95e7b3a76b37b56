package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-credibility-service/internal/domain"
)

func TestSubmitScoresAndAggregates(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.user(t, "alice")

	secs := 12
	sub := domain.QuizSubmission{
		QuizID:            e.quiz.ID,
		UserID:            u.ID,
		Answers:           e.answers(2),
		CredibilityRating: 4,
		ConfidenceLevel:   5,
		Comment:           "checked the sources",
		TotalTimeSeconds:  &secs,
	}
	sub.Answers[0].TimeTakenSeconds = &secs

	res, err := e.submissions.Submit(ctx, sub)
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalQuestions)
	assert.Equal(t, 2, res.CorrectAnswers)
	assert.InDelta(t, 66.67, res.ScorePercentage, 0.01)
	assert.Equal(t, 80.0, res.ArticleCredibilityScore)
	assert.Equal(t, domain.SubmissionLikelyCredible, res.CommunityConsensus)
	assert.Empty(t, res.Warnings)

	article, err := e.store.GetArticle(ctx, e.article.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, article.TotalResponses)
	assert.Equal(t, 0, article.FlaggedAsMisinformation)
	assert.Equal(t, 1, article.FlaggedAsCredible)

	user, err := e.store.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, user.Stats.TotalQuizzesTaken)
	assert.Equal(t, 2, user.Stats.TotalCorrectAnswers)
	assert.Equal(t, 3, user.Stats.TotalAnswers)
	assert.Equal(t, fixedNow, user.Stats.LastActive)

	answers := e.store.AnswersByResponse(ctx, res.ResponseID)
	require.Len(t, answers, 3)
	assert.True(t, answers[0].IsCorrect)
	require.NotNil(t, answers[0].TimeTakenSeconds)
	assert.Equal(t, 12, *answers[0].TimeTakenSeconds)
	assert.False(t, answers[2].IsCorrect)
}

func TestSubmitWeightsByConfidence(t *testing.T) {
	e := newEnv(t)
	a := e.user(t, "a")
	b := e.user(t, "b")

	e.submit(t, a.ID, 3, 5, 4)
	res := e.submit(t, b.ID, 3, 1, 1)

	// (5*4 + 1*1) / 5 * 20
	assert.Equal(t, 84.0, res.ArticleCredibilityScore)
	assert.Equal(t, domain.SubmissionLikelyCredible, res.CommunityConsensus)

	c := e.user(t, "c")
	res = e.submit(t, c.ID, 0, 1, 5)
	// (20 + 1 + 5) / 10 * 20
	assert.Equal(t, 52.0, res.ArticleCredibilityScore)
	assert.Equal(t, domain.SubmissionPossiblyMisleading, res.CommunityConsensus)
}

func TestSubmitSkipsUnknownQuestions(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "alice")

	answers := e.answers(3)
	answers = append(answers, domain.AnswerSubmission{QuestionID: 9999, SelectedOption: domain.Option1})
	res, err := e.submissions.Submit(context.Background(), domain.QuizSubmission{
		QuizID:            e.quiz.ID,
		UserID:            u.ID,
		Answers:           answers,
		CredibilityRating: 3,
		ConfidenceLevel:   3,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalQuestions)
	assert.Equal(t, 3, res.CorrectAnswers)
	assert.Equal(t, 100.0, res.ScorePercentage)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, int64(9999), res.Warnings[0].QuestionID)
	assert.Len(t, e.store.AnswersByResponse(context.Background(), res.ResponseID), 3)
}

func TestSubmitRejectsUnknownQuizWithoutWrites(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.user(t, "alice")

	_, err := e.submissions.Submit(ctx, domain.QuizSubmission{
		QuizID:            404,
		UserID:            u.ID,
		CredibilityRating: 3,
		ConfidenceLevel:   3,
	})
	require.ErrorIs(t, err, domain.ErrQuizNotFound)
	assert.True(t, domain.IsNotFound(err))

	responses, err := e.store.ResponsesByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, responses)
}

func TestSubmitUnknownUserRollsBack(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.submissions.Submit(ctx, domain.QuizSubmission{
		QuizID:            e.quiz.ID,
		UserID:            77,
		Answers:           e.answers(3),
		CredibilityRating: 5,
		ConfidenceLevel:   5,
	})
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	responses, err := e.store.ResponsesByArticle(ctx, e.article.ID)
	require.NoError(t, err)
	assert.Empty(t, responses)
	article, err := e.store.GetArticle(ctx, e.article.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, article.TotalResponses)
}

func TestSubmitRejectsInvalidInput(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "alice")

	_, err := e.submissions.Submit(context.Background(), domain.QuizSubmission{
		QuizID:            e.quiz.ID,
		UserID:            u.ID,
		Answers:           []domain.AnswerSubmission{{QuestionID: e.quiz.Questions[0].ID, SelectedOption: 5}},
		CredibilityRating: 3,
		ConfidenceLevel:   3,
	})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestSubmitPublishesArticleUpdate(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "alice")
	updates, cancel := e.feed.Subscribe(e.article.ID)
	defer cancel()

	e.submit(t, u.ID, 1, 2, 5)

	select {
	case update := <-updates:
		assert.Equal(t, e.article.ID, update.ArticleID)
		assert.Equal(t, 1, update.TotalResponses)
		assert.Equal(t, 40.0, update.CredibilityScore)
		assert.Equal(t, domain.ArticleDisputed, update.Consensus)
	default:
		t.Fatal("expected an update to be published")
	}
}

func TestSubmitLeavesOtherUsersUntouched(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.user(t, "alice")
	e.submit(t, u.ID, 2, 4, 3)
	e.submit(t, u.ID, 3, 2, 2)

	before, err := e.store.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, before.Stats.TotalQuizzesTaken)
	assert.Equal(t, 5, before.Stats.TotalCorrectAnswers)
	assert.Equal(t, 6, before.Stats.TotalAnswers)

	e.submit(t, e.user(t, "bob").ID, 0, 1, 1)

	after, err := e.store.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Stats, after.Stats)
	article, err := e.store.GetArticle(ctx, e.article.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, article.TotalResponses)
}
