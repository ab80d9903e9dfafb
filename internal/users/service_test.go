package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kasuwa-dev/kasuwa-backend/pkg/db/models"
	"github.com/kasuwa-dev/kasuwa-backend/pkg/enums"
	pkgerrors "github.com/kasuwa-dev/kasuwa-backend/pkg/errors"
)

func setupUserTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:users_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{`
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS user_profiles (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  role TEXT NOT NULL DEFAULT 'customer',
  gender TEXT,
  date_of_birth DATE,
  phone TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE UNIQUE INDEX IF NOT EXISTS uq_user_profiles_phone
  ON user_profiles (phone) WHERE phone IS NOT NULL;`}

	for _, stmt := range ddl {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func seedUser(t *testing.T, repo Repository, username string, phone *string) *models.User {
	t.Helper()
	user, err := repo.CreateUser(context.Background(), &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		FirstName:    "Amina",
		LastName:     "Bello",
		IsActive:     true,
		Profile: &models.UserProfile{
			Role:  enums.UserRoleCustomer,
			Phone: phone,
		},
	})
	require.NoError(t, err)
	return user
}

func TestGetProfileLoadsUserWithProfile(t *testing.T) {
	conn := setupUserTestDB(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo)
	require.NoError(t, err)

	seeded := seedUser(t, repo, "amina", nil)

	user, err := svc.GetProfile(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "amina", user.Username)
	require.NotNil(t, user.Profile)
	assert.Equal(t, enums.UserRoleCustomer, user.Profile.Role)

	_, err = svc.GetProfile(context.Background(), uuid.New())
	assertUserErrCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdateProfileFields(t *testing.T) {
	conn := setupUserTestDB(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo)
	require.NoError(t, err)

	seeded := seedUser(t, repo, "amina", nil)

	first := "Hauwa"
	gender := enums.GenderFemale
	dob := time.Date(1995, 4, 12, 0, 0, 0, 0, time.UTC)
	phone := "+2348012345678"
	user, err := svc.UpdateProfile(context.Background(), seeded.ID, UpdateProfileInput{
		FirstName:   &first,
		Gender:      &gender,
		DateOfBirth: &dob,
		Phone:       &phone,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hauwa", user.FirstName)
	assert.Equal(t, "Bello", user.LastName)
	require.NotNil(t, user.Profile)
	require.NotNil(t, user.Profile.Gender)
	assert.Equal(t, enums.GenderFemale, *user.Profile.Gender)
	require.NotNil(t, user.Profile.Phone)
	assert.Equal(t, phone, *user.Profile.Phone)

	view := BuildProfileView(user)
	require.NotNil(t, view.DateOfBirth)
	assert.Equal(t, "1995-04-12", *view.DateOfBirth)
}

func TestUpdateProfileValidation(t *testing.T) {
	conn := setupUserTestDB(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo)
	require.NoError(t, err)

	seeded := seedUser(t, repo, "amina", nil)

	empty := " "
	_, err = svc.UpdateProfile(context.Background(), seeded.ID, UpdateProfileInput{FirstName: &empty})
	assertUserErrCode(t, err, pkgerrors.CodeValidation)

	future := time.Now().Add(24 * time.Hour)
	_, err = svc.UpdateProfile(context.Background(), seeded.ID, UpdateProfileInput{DateOfBirth: &future})
	assertUserErrCode(t, err, pkgerrors.CodeValidation)

	badGender := enums.Gender("robot")
	_, err = svc.UpdateProfile(context.Background(), seeded.ID, UpdateProfileInput{Gender: &badGender})
	assertUserErrCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateProfilePhoneConflict(t *testing.T) {
	conn := setupUserTestDB(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo)
	require.NoError(t, err)

	taken := "+2348012345678"
	seedUser(t, repo, "amina", &taken)
	other := seedUser(t, repo, "hauwa", nil)

	_, err = svc.UpdateProfile(context.Background(), other.ID, UpdateProfileInput{Phone: &taken})
	assertUserErrCode(t, err, pkgerrors.CodeConflict)
}

func assertUserErrCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, code, typed.Code())
}
