package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"news-credibility-service/internal/app"
	"news-credibility-service/internal/domain"
)

type kind int

const (
	kindArticle kind = iota
	kindQuiz
	kindQuestion
	kindUser
	kindResponse
	kindAnswer
	kindFlag
	kindCount
)

// state is the unlocked data set. It implements app.Repository and is handed to
// transaction callbacks as a staged copy.
type state struct {
	articles  map[int64]domain.Article
	quizzes   map[int64]domain.Quiz
	questions map[int64]domain.Question
	users     map[int64]domain.User
	responses map[int64]domain.UserResponse
	answers   map[int64]domain.UserAnswer
	flags     map[int64]domain.MisinformationFlag
	seq       [kindCount]int64
}

func newState() *state {
	return &state{
		articles:  make(map[int64]domain.Article),
		quizzes:   make(map[int64]domain.Quiz),
		questions: make(map[int64]domain.Question),
		users:     make(map[int64]domain.User),
		responses: make(map[int64]domain.UserResponse),
		answers:   make(map[int64]domain.UserAnswer),
		flags:     make(map[int64]domain.MisinformationFlag),
	}
}

// clone copies every map. Quiz question slices are shared; quizzes are immutable.
func (st *state) clone() *state {
	return &state{
		articles:  copyMap(st.articles),
		quizzes:   copyMap(st.quizzes),
		questions: copyMap(st.questions),
		users:     copyMap(st.users),
		responses: copyMap(st.responses),
		answers:   copyMap(st.answers),
		flags:     copyMap(st.flags),
		seq:       st.seq,
	}
}

func (st *state) next(k kind) int64 {
	st.seq[k]++
	return st.seq[k]
}

func (st *state) GetArticle(_ context.Context, articleID int64) (domain.Article, error) {
	a, ok := st.articles[articleID]
	if !ok {
		return domain.Article{}, domain.ErrArticleNotFound
	}
	return a, nil
}

func (st *state) GetUser(_ context.Context, userID int64) (domain.User, error) {
	u, ok := st.users[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (st *state) GetUserByIdentifier(_ context.Context, identifier string) (domain.User, error) {
	for _, u := range st.users {
		if u.Identifier == identifier {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (st *state) GetQuestion(_ context.Context, questionID int64) (domain.Question, error) {
	q, ok := st.questions[questionID]
	if !ok {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	return q, nil
}

func (st *state) ResponsesByArticle(_ context.Context, articleID int64) ([]domain.UserResponse, error) {
	return st.filterResponses(func(r domain.UserResponse) bool { return r.ArticleID == articleID }), nil
}

func (st *state) ResponsesByUser(_ context.Context, userID int64) ([]domain.UserResponse, error) {
	return st.filterResponses(func(r domain.UserResponse) bool { return r.UserID == userID }), nil
}

func (st *state) filterResponses(keep func(domain.UserResponse) bool) []domain.UserResponse {
	var out []domain.UserResponse
	for _, id := range sortedIDs(st.responses) {
		if r := st.responses[id]; keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func (st *state) FlagCountByUser(_ context.Context, userID int64) (int, error) {
	n := 0
	for _, f := range st.flags {
		if f.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (st *state) FlagsByArticle(_ context.Context, articleID int64) ([]domain.MisinformationFlag, error) {
	var out []domain.MisinformationFlag
	for _, f := range st.flags {
		if f.ArticleID == articleID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (st *state) EligibleUsers(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, id := range sortedIDs(st.users) {
		if u := st.users[id]; u.Stats.TotalQuizzesTaken >= 1 {
			out = append(out, u)
		}
	}
	return out, nil
}

func (st *state) TopFlaggedArticles(_ context.Context, limit int) ([]domain.Article, error) {
	out := st.sortedArticles(nil, func(a, b domain.Article) bool {
		return a.FlaggedAsMisinformation > b.FlaggedAsMisinformation
	})
	return limitArticles(out, limit), nil
}

func (st *state) MostCredibleArticles(_ context.Context, minResponses, limit int) ([]domain.Article, error) {
	out := st.sortedArticles(func(a domain.Article) bool { return a.TotalResponses >= minResponses },
		func(a, b domain.Article) bool { return a.CredibilityScore > b.CredibilityScore })
	return limitArticles(out, limit), nil
}

func (st *state) sortedArticles(keep func(domain.Article) bool, less func(a, b domain.Article) bool) []domain.Article {
	out := make([]domain.Article, 0, len(st.articles))
	for _, id := range sortedIDs(st.articles) {
		if a := st.articles[id]; keep == nil || keep(a) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func (st *state) ArticleIDs(_ context.Context) ([]int64, error) {
	return sortedIDs(st.articles), nil
}

func (st *state) UserIDs(_ context.Context) ([]int64, error) {
	return sortedIDs(st.users), nil
}

func (st *state) CreateUser(_ context.Context, user *domain.User) error {
	for _, u := range st.users {
		if u.Identifier == user.Identifier {
			return errDuplicate("user identifier", user.Identifier)
		}
	}
	user.ID = st.next(kindUser)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	st.users[user.ID] = *user
	return nil
}

func (st *state) SaveResponse(_ context.Context, response *domain.UserResponse) error {
	if _, ok := st.users[response.UserID]; !ok {
		return domain.ErrUserNotFound
	}
	if _, ok := st.articles[response.ArticleID]; !ok {
		return domain.ErrArticleNotFound
	}
	response.ID = st.next(kindResponse)
	stored := *response
	stored.Answers = nil
	st.responses[response.ID] = stored
	return nil
}

func (st *state) SaveAnswer(_ context.Context, answer *domain.UserAnswer) error {
	if _, ok := st.responses[answer.ResponseID]; !ok {
		return fmt.Errorf("response %d: %w", answer.ResponseID, domain.ErrNotFound)
	}
	if _, ok := st.questions[answer.QuestionID]; !ok {
		return domain.ErrQuestionNotFound
	}
	answer.ID = st.next(kindAnswer)
	st.answers[answer.ID] = *answer
	return nil
}

func (st *state) SaveFlag(_ context.Context, flag *domain.MisinformationFlag) error {
	if _, ok := st.articles[flag.ArticleID]; !ok {
		return domain.ErrArticleNotFound
	}
	flag.ID = st.next(kindFlag)
	st.flags[flag.ID] = *flag
	return nil
}

func (st *state) UpdateArticleDerived(_ context.Context, articleID int64, derived domain.ArticleDerived) error {
	a, ok := st.articles[articleID]
	if !ok {
		return domain.ErrArticleNotFound
	}
	derived.Apply(&a)
	a.UpdatedAt = time.Now()
	st.articles[articleID] = a
	return nil
}

func (st *state) UpdateUserDerived(_ context.Context, userID int64, stats domain.UserStats) error {
	u, ok := st.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Stats = stats
	st.users[userID] = u
	return nil
}

var _ app.Repository = (*state)(nil)

func copyMap[V any](m map[int64]V) map[int64]V {
	out := make(map[int64]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func sortedIDs[V any](m map[int64]V) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func limitArticles(articles []domain.Article, limit int) []domain.Article {
	if limit > 0 && len(articles) > limit {
		return articles[:limit]
	}
	return articles
}

func errDuplicate(field, value string) error {
	return fmt.Errorf("duplicate %s %q", field, value)
}
