package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/yellow_pages_system/backend/models"
	"github.com/dcode-github/yellow_pages_system/backend/repository"
	"github.com/dcode-github/yellow_pages_system/backend/utils"
)

var (
	ErrEmailTaken      = errors.New("email already in use")
	ErrAlreadyFavorite = errors.New("business already in favorites")
	ErrNotFavorite     = errors.New("business not in favorites")
)

type UserService struct {
	users      repository.UserRepository
	businesses repository.BusinessRepository
}

func NewUserService(users repository.UserRepository, businesses repository.BusinessRepository) *UserService {
	return &UserService{users: users, businesses: businesses}
}

func (s *UserService) Register(ctx context.Context, firstName, lastName, email, password string) (*models.User, error) {
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  hashed,
		Role:      models.RoleUser,
		Favorites: []primitive.ObjectID{},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.users.Insert(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Authenticate verifies credentials and returns the user. Inactive users
// and wrong passwords both come back as ErrNotFound so callers cannot
// distinguish which part failed.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !user.IsActive || !utils.CheckPasswordHash(password, user.Password) {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, firstName, lastName, email string) (*models.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if email != "" && email != user.Email {
		if _, err := s.users.FindByEmail(ctx, email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	fields := bson.M{"updatedAt": time.Now().UTC()}
	if firstName != "" {
		fields["firstName"] = firstName
	}
	if lastName != "" {
		fields["lastName"] = lastName
	}
	if email != "" {
		fields["email"] = email
	}

	updated, err := s.users.UpdateProfile(ctx, id, fields)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return updated, nil
}

// AddFavorite puts an active business into the user's favorites set and
// bumps the business favorite counter.
func (s *UserService) AddFavorite(ctx context.Context, userID, businessID primitive.ObjectID) (*models.User, error) {
	business, err := s.businesses.FindByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if !business.IsActive {
		return nil, repository.ErrNotFound
	}

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.HasFavorite(businessID) {
		return nil, ErrAlreadyFavorite
	}

	if err := s.users.AddFavorite(ctx, userID, businessID); err != nil {
		return nil, err
	}
	if err := s.businesses.IncrementFavoriteCount(ctx, businessID, 1); err != nil {
		return nil, err
	}

	return s.users.FindByID(ctx, userID)
}

// RemoveFavorite drops a business from the user's favorites set. The
// counter decrement is clamped at zero by the store.
func (s *UserService) RemoveFavorite(ctx context.Context, userID, businessID primitive.ObjectID) (*models.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.HasFavorite(businessID) {
		return nil, ErrNotFavorite
	}

	if err := s.users.RemoveFavorite(ctx, userID, businessID); err != nil {
		return nil, err
	}
	if err := s.businesses.IncrementFavoriteCount(ctx, businessID, -1); err != nil {
		return nil, err
	}

	return s.users.FindByID(ctx, userID)
}

func (s *UserService) ListActive(ctx context.Context, page, limit int) ([]models.User, int64, error) {
	return s.users.FindAllActive(ctx, page, limit)
}
