package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"news-credibility-service/internal/domain"
)

const anonymousPrefix = "anon_"

// UserService registers quiz takers.
type UserService struct {
	repo Repository
	now  func() time.Time
}

func NewUserService(repo Repository) *UserService {
	return &UserService{repo: repo, now: time.Now}
}

// Register returns the user with the given identifier, creating it if needed.
// An empty identifier creates a fresh anonymous user.
func (s *UserService) Register(ctx context.Context, identifier string) (domain.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return s.create(ctx, anonymousIdentifier(), true)
	}

	user, err := s.repo.GetUserByIdentifier(ctx, identifier)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, err
	}
	user, err = s.create(ctx, identifier, false)
	if err != nil {
		// Lost a race with a concurrent registration of the same identifier.
		if existing, getErr := s.repo.GetUserByIdentifier(ctx, identifier); getErr == nil {
			return existing, nil
		}
		return domain.User{}, err
	}
	return user, nil
}

func (s *UserService) create(ctx context.Context, identifier string, anonymous bool) (domain.User, error) {
	now := s.now()
	user := domain.User{
		Identifier:  identifier,
		IsAnonymous: anonymous,
		Stats:       domain.UserStats{LastActive: now},
		CreatedAt:   now,
	}
	if err := s.repo.CreateUser(ctx, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func anonymousIdentifier() string {
	return anonymousPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}
