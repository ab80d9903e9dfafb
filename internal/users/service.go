package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kasuwa-dev/kasuwa-backend/pkg/db"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/db/models"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/enums"
	pkgerrors "github.com/kasuwa-dev/kasuwa-backend/pkg/errors"
)

// Service defines the profile operations exposed to controllers.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.User, error)
}

type service struct {
	repo Repository
}

// NewService builds a user service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo}, nil
}

// UpdateProfileInput carries optional profile updates. Nil means unchanged.
type UpdateProfileInput struct {
	FirstName   *string
	LastName    *string
	Gender      *enums.Gender
	DateOfBirth *time.Time
	Phone       *string
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.User, error) {
	if _, err := s.GetProfile(ctx, userID); err != nil {
		return nil, err
	}

	userUpdates := map[string]any{}
	if input.FirstName != nil {
		name := strings.TrimSpace(*input.FirstName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "first name must not be empty")
		}
		userUpdates["first_name"] = name
	}
	if input.LastName != nil {
		name := strings.TrimSpace(*input.LastName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "last name must not be empty")
		}
		userUpdates["last_name"] = name
	}

	profileUpdates := map[string]any{}
	if input.Gender != nil {
		if !input.Gender.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid gender")
		}
		profileUpdates["gender"] = *input.Gender
	}
	if input.DateOfBirth != nil {
		if input.DateOfBirth.After(time.Now()) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "date of birth must be in the past")
		}
		profileUpdates["date_of_birth"] = *input.DateOfBirth
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		if phone == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone must not be empty")
		}
		profileUpdates["phone"] = phone
	}

	if len(userUpdates) > 0 {
		if err := s.repo.UpdateUser(ctx, userID, userUpdates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
		}
	}
	if len(profileUpdates) > 0 {
		if err := s.repo.UpdateProfile(ctx, userID, profileUpdates); err != nil {
			if db.IsUniqueViolation(err, "uq_user_profiles_phone", "user_profiles.phone") {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "phone number already in use")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
		}
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload user")
	}
	return user, nil
}
