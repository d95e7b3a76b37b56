package redis

import (
	"context"
	"math/rand"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"news-credibility-service/internal/domain"
	"news-credibility-service/internal/infra/memory"
)

// QuizRepository caches quiz answer keys in Redis and falls back to a loader on cache miss.
// Answers are stored as: HSET quiz:{quizID}:answers {questionID} {correctOption}
// The owning article as: HSET quiz:{quizID}:meta    article_id {articleID}
type QuizRepository struct {
	client *redis.Client
	loader memory.QuizLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewQuizRepository(client *redis.Client, loader memory.QuizLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID int64) (domain.Quiz, error) {
	if quiz, ok := r.cached(ctx, quizID); ok {
		return quiz, nil
	}

	result, err, _ := r.sf.Do(strconv.FormatInt(quizID, 10), func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quiz, ok := r.cached(ctx, quizID); ok {
			return quiz, nil
		}

		quiz, err := r.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}

		answerKey, metaKey := r.answersKey(quizID), r.metaKey(quizID)
		ttl := r.ttlWithJitter()
		pipe := r.client.Pipeline()
		for _, q := range quiz.Questions {
			pipe.HSet(ctx, answerKey, strconv.FormatInt(q.ID, 10), int(q.CorrectOption))
		}
		pipe.HSet(ctx, metaKey, "article_id", quiz.ArticleID)
		if ttl > 0 {
			pipe.Expire(ctx, answerKey, ttl)
			pipe.Expire(ctx, metaKey, ttl)
		}
		_, _ = pipe.Exec(ctx)

		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

func (r *QuizRepository) cached(ctx context.Context, quizID int64) (domain.Quiz, bool) {
	answers, err := r.client.HGetAll(ctx, r.answersKey(quizID)).Result()
	if err != nil || len(answers) == 0 {
		return domain.Quiz{}, false
	}
	raw, err := r.client.HGet(ctx, r.metaKey(quizID), "article_id").Result()
	if err != nil {
		return domain.Quiz{}, false
	}
	articleID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return domain.Quiz{}, false
	}
	return buildQuizFromCache(quizID, articleID, answers), true
}

func (r *QuizRepository) answersKey(quizID int64) string {
	return "quiz:" + strconv.FormatInt(quizID, 10) + ":answers"
}

func (r *QuizRepository) metaKey(quizID int64) string {
	return "quiz:" + strconv.FormatInt(quizID, 10) + ":meta"
}

// buildQuizFromCache rebuilds the answer key only; question text is not cached.
func buildQuizFromCache(quizID, articleID int64, answers map[string]string) domain.Quiz {
	questions := make([]domain.Question, 0, len(answers))
	for rawID, rawOption := range answers {
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			continue
		}
		option, err := strconv.Atoi(rawOption)
		if err != nil {
			continue
		}
		questions = append(questions, domain.Question{
			ID:            id,
			QuizID:        quizID,
			CorrectOption: domain.OptionIndex(option),
		})
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	for i := range questions {
		questions[i].Number = i + 1
	}
	return domain.Quiz{ID: quizID, ArticleID: articleID, Questions: questions}
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
