package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"news-credibility-service/internal/domain"
	"news-credibility-service/internal/infra/memory"
)

func TestQuizRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	store, quiz := seededStore(t)
	loader := &countingLoader{QuizLoader: store}
	repo := NewQuizRepository(client, loader, time.Minute)

	got, err := repo.GetQuiz(context.Background(), quiz.ID)
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if len(got.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(got.Questions))
	}

	// Second call should hit cache, loader not incremented.
	cached, err := repo.GetQuiz(context.Background(), quiz.ID)
	if err != nil {
		t.Fatalf("get cached quiz: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if cached.ArticleID != quiz.ArticleID {
		t.Fatalf("expected article %d, got %d", quiz.ArticleID, cached.ArticleID)
	}
	for i, q := range quiz.Questions {
		if cached.Questions[i].ID != q.ID || cached.Questions[i].CorrectOption != q.CorrectOption {
			t.Fatalf("question %d: got %+v, want id=%d correct=%d", i, cached.Questions[i], q.ID, q.CorrectOption)
		}
	}
	if ttl := mr.TTL("quiz:1:answers"); ttl < time.Minute {
		t.Fatalf("expected ttl with jitter >= 1m, got %s", ttl)
	}
}

func TestQuizRepositoryUnknownQuizIsNotCached(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store, _ := seededStore(t)
	repo := NewQuizRepository(newClient(mr), store, time.Minute)

	_, err = repo.GetQuiz(context.Background(), 99)
	if !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
	if mr.Exists("quiz:99:answers") {
		t.Fatalf("unknown quiz must not be cached")
	}
}

type countingLoader struct {
	memory.QuizLoader
	calls int
}

func (l *countingLoader) LoadQuiz(ctx context.Context, quizID int64) (domain.Quiz, error) {
	l.calls++
	return l.QuizLoader.LoadQuiz(ctx, quizID)
}

func seededStore(t *testing.T) (*memory.Store, domain.Quiz) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	article := &domain.Article{URL: "https://news.example/story", Content: "body"}
	if err := store.CreateArticle(ctx, article); err != nil {
		t.Fatalf("create article: %v", err)
	}
	quiz := &domain.Quiz{
		ArticleID: article.ID,
		Questions: []domain.Question{
			{Text: "Who is quoted?", Options: [4]string{"A", "B", "C", "D"}, CorrectOption: domain.Option2},
			{Text: "When?", Options: [4]string{"Mon", "Tue", "Wed", "Thu"}, CorrectOption: domain.Option4},
		},
	}
	if err := store.CreateQuiz(ctx, quiz); err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	return store, *quiz
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
