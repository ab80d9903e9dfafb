package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/kasuwa-dev/kasuwa-backend/pkg/db/models"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/enums"
)

const dateOfBirthLayout = "2006-01-02"

// ProfileView is the JSON shape of an account with its profile attributes.
type ProfileView struct {
	ID          uuid.UUID      `json:"id"`
	Username    string         `json:"username"`
	Email       string         `json:"email"`
	FirstName   string         `json:"first_name"`
	LastName    string         `json:"last_name"`
	Role        enums.UserRole `json:"role"`
	Gender      *enums.Gender  `json:"gender,omitempty"`
	DateOfBirth *string        `json:"date_of_birth,omitempty"`
	Phone       *string        `json:"phone,omitempty"`
	IsActive    bool           `json:"is_active"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// BuildProfileView converts a user and its profile into the response shape.
func BuildProfileView(user *models.User) ProfileView {
	view := ProfileView{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Role:        enums.UserRoleCustomer,
		IsActive:    user.IsActive,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
	if user.Profile != nil {
		view.Role = user.Profile.Role
		view.Gender = user.Profile.Gender
		view.Phone = user.Profile.Phone
		if user.Profile.DateOfBirth != nil {
			formatted := user.Profile.DateOfBirth.Format(dateOfBirthLayout)
			view.DateOfBirth = &formatted
		}
	}
	return view
}
