package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cargoflow/cargoflow/database"
	"github.com/cargoflow/cargoflow/models"
	"github.com/cargoflow/cargoflow/repositories"
)

func seedUser(t *testing.T, repos *repositories.Repositories, email, password string, active bool) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	// setupTestServices pre-seeds the actor accounts; update such a row in
	// place instead of tripping the unique email constraint.
	if existing, err := repos.Users.GetByEmail(context.Background(), email); err == nil && existing != nil {
		_, err := database.GetDB().Exec(
			"UPDATE users SET password_hash = ?, is_active = ? WHERE id = ?",
			string(hash), active, existing.ID)
		require.NoError(t, err)
		existing.PasswordHash = string(hash)
		existing.IsActive = active
		return existing
	}

	user := &models.User{
		Email:        email,
		FullName:     "Test User",
		Role:         models.RoleBranchAgent,
		Site:         models.SitePN,
		PasswordHash: string(hash),
		IsActive:     active,
	}
	require.NoError(t, repos.Users.Create(context.Background(), user))
	return user
}

// TestLogin verifies the password path and the last login stamp.
func TestLogin(t *testing.T) {
	services, repos := setupTestServices(t)
	seedUser(t, repos, "agent@example.com", "s3cret", true)
	ctx := context.Background()

	user, err := services.Users.Login(ctx, &models.LoginForm{
		Email:    "  Agent@Example.COM  ",
		Password: "s3cret",
	})
	require.NoError(t, err)
	assert.Equal(t, "agent@example.com", user.Email)
	require.NotNil(t, user.LastLogin)

	// The stamp persisted
	stored, err := repos.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLogin)
}

// TestLoginFailuresAreIndistinguishable verifies wrong password, unknown
// email and deactivated accounts all surface the same error.
func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	services, repos := setupTestServices(t)
	seedUser(t, repos, "agent@example.com", "s3cret", true)
	seedUser(t, repos, "former@example.com", "s3cret", false)
	ctx := context.Background()

	tests := []struct {
		name string
		form models.LoginForm
	}{
		{"wrong password", models.LoginForm{Email: "agent@example.com", Password: "wrong"}},
		{"unknown email", models.LoginForm{Email: "nobody@example.com", Password: "s3cret"}},
		{"deactivated account", models.LoginForm{Email: "former@example.com", Password: "s3cret"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := services.Users.Login(ctx, &tt.form)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

// TestLoginSSO verifies SSO identities map onto pre-provisioned accounts.
func TestLoginSSO(t *testing.T) {
	services, repos := setupTestServices(t)
	seedUser(t, repos, "agent@example.com", "unused", true)
	ctx := context.Background()

	user, err := services.Users.LoginSSO(ctx, "Agent@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "agent@example.com", user.Email)
	assert.NotNil(t, user.LastLogin)

	// No local account, no access
	_, err = services.Users.LoginSSO(ctx, "stranger@example.com")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// TestCreateUser verifies account creation hashes the password and rejects
// duplicate emails.
func TestCreateUser(t *testing.T) {
	services, _ := setupTestServices(t)
	ctx := context.Background()

	form := &models.UserForm{
		Email:    "New@Example.com",
		FullName: " New Agent ",
		Role:     models.RoleBranchAgent,
		Site:     models.SiteKIN,
		Password: "longenough",
	}

	user, err := services.Users.CreateUser(ctx, form)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, "New Agent", user.FullName)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "longenough", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("longenough")))

	// The fresh account can log in
	_, err = services.Users.Login(ctx, &models.LoginForm{Email: "new@example.com", Password: "longenough"})
	assert.NoError(t, err)

	// Same email again is refused
	_, err = services.Users.CreateUser(ctx, form)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Problems, "Email is already in use")
}
