package memory

import (
	"context"
	"net/url"
	"sync"
	"time"

	"news-credibility-service/internal/app"
	"news-credibility-service/internal/domain"
)

// Store is an in-memory implementation of app.Store. Transactions run against a
// staged copy of the state that replaces the live state only on success, so
// readers never observe a half-applied unit of work.
type Store struct {
	mu  sync.RWMutex
	st  *state
	now func() time.Time
}

func NewStore() *Store {
	return &Store{st: newState(), now: time.Now}
}

// RunInTx applies fn atomically. Transactions are serialized.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, repo app.Repository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	staged := s.st.clone()
	if err := fn(ctx, staged); err != nil {
		return err
	}
	s.st = staged
	return nil
}

// CreateArticle stores a new article. The URL must be unique.
func (s *Store) CreateArticle(_ context.Context, article *domain.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.st.articles {
		if a.URL == article.URL {
			return errDuplicate("article url", article.URL)
		}
	}
	now := s.now()
	article.ID = s.st.next(kindArticle)
	if article.SourceDomain == "" {
		if u, err := url.Parse(article.URL); err == nil {
			article.SourceDomain = u.Host
		}
	}
	article.CreatedAt, article.UpdatedAt = now, now
	s.st.articles[article.ID] = *article
	return nil
}

// CreateQuiz stores a quiz and its questions, numbering questions from 1.
func (s *Store) CreateQuiz(_ context.Context, quiz *domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.articles[quiz.ArticleID]; !ok {
		return domain.ErrArticleNotFound
	}
	quiz.ID = s.st.next(kindQuiz)
	quiz.CreatedAt = s.now()
	questions := make([]domain.Question, len(quiz.Questions))
	for i, q := range quiz.Questions {
		q.ID = s.st.next(kindQuestion)
		q.QuizID = quiz.ID
		q.Number = i + 1
		questions[i] = q
		s.st.questions[q.ID] = q
	}
	quiz.Questions = questions
	s.st.quizzes[quiz.ID] = *quiz
	return nil
}

// LoadQuiz satisfies QuizLoader.
func (s *Store) LoadQuiz(_ context.Context, quizID int64) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.st.quizzes[quizID]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}

// AnswersByResponse returns the stored answers of a response in insertion order.
func (s *Store) AnswersByResponse(_ context.Context, responseID int64) []domain.UserAnswer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.UserAnswer
	for _, id := range sortedIDs(s.st.answers) {
		if a := s.st.answers[id]; a.ResponseID == responseID {
			out = append(out, a)
		}
	}
	return out
}

func (s *Store) GetArticle(ctx context.Context, articleID int64) (domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.GetArticle(ctx, articleID)
}

func (s *Store) GetUser(ctx context.Context, userID int64) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.GetUser(ctx, userID)
}

func (s *Store) GetUserByIdentifier(ctx context.Context, identifier string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.GetUserByIdentifier(ctx, identifier)
}

func (s *Store) GetQuestion(ctx context.Context, questionID int64) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.GetQuestion(ctx, questionID)
}

func (s *Store) ResponsesByArticle(ctx context.Context, articleID int64) ([]domain.UserResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.ResponsesByArticle(ctx, articleID)
}

func (s *Store) ResponsesByUser(ctx context.Context, userID int64) ([]domain.UserResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.ResponsesByUser(ctx, userID)
}

func (s *Store) FlagCountByUser(ctx context.Context, userID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.FlagCountByUser(ctx, userID)
}

func (s *Store) FlagsByArticle(ctx context.Context, articleID int64) ([]domain.MisinformationFlag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.FlagsByArticle(ctx, articleID)
}

func (s *Store) EligibleUsers(ctx context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.EligibleUsers(ctx)
}

func (s *Store) TopFlaggedArticles(ctx context.Context, limit int) ([]domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.TopFlaggedArticles(ctx, limit)
}

func (s *Store) MostCredibleArticles(ctx context.Context, minResponses, limit int) ([]domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.MostCredibleArticles(ctx, minResponses, limit)
}

func (s *Store) ArticleIDs(ctx context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.ArticleIDs(ctx)
}

func (s *Store) UserIDs(ctx context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.UserIDs(ctx)
}

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.CreateUser(ctx, user)
}

func (s *Store) SaveResponse(ctx context.Context, response *domain.UserResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.SaveResponse(ctx, response)
}

func (s *Store) SaveAnswer(ctx context.Context, answer *domain.UserAnswer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.SaveAnswer(ctx, answer)
}

func (s *Store) SaveFlag(ctx context.Context, flag *domain.MisinformationFlag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.SaveFlag(ctx, flag)
}

func (s *Store) UpdateArticleDerived(ctx context.Context, articleID int64, derived domain.ArticleDerived) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.UpdateArticleDerived(ctx, articleID, derived)
}

func (s *Store) UpdateUserDerived(ctx context.Context, userID int64, stats domain.UserStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.UpdateUserDerived(ctx, userID, stats)
}

var _ app.Store = (*Store)(nil)
