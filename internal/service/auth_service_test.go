package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/uniflow/uniflow-api/internal/models"
	"github.com/uniflow/uniflow-api/pkg/config"
	appErrors "github.com/uniflow/uniflow-api/pkg/errors"
)

type authUserRepoStub struct {
	byEmail   map[string]*models.User
	lastLogin string
}

func (s *authUserRepoStub) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (s *authUserRepoStub) FindByID(_ context.Context, id string) (*models.User, error) {
	for _, user := range s.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *authUserRepoStub) UpdateLastLogin(_ context.Context, id string, _ time.Time) error {
	s.lastLogin = id
	return nil
}

func authFixture(t *testing.T) (*AuthService, *authUserRepoStub) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &authUserRepoStub{byEmail: map[string]*models.User{
		"tutor@example.edu": {
			ID:           "user-1",
			Email:        "tutor@example.edu",
			PasswordHash: string(hash),
			FullName:     "Pat Tutor",
			Role:         models.RoleTutor,
			Active:       true,
		},
	}}
	cfg := config.JWTConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "uniflow-api"}
	return NewAuthService(repo, cfg, nil, nil), repo
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, repo := authFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "tutor@example.edu", Password: "s3cret"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, "user-1", repo.lastLogin)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleTutor, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := authFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "tutor@example.edu", Password: "wrong"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	svc, _ := authFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "nobody@example.edu", Password: "s3cret"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestLoginInactiveAccount(t *testing.T) {
	svc, repo := authFixture(t)
	repo.byEmail["tutor@example.edu"].Active = false

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "tutor@example.edu", Password: "s3cret"})
	assert.ErrorIs(t, err, appErrors.ErrInactiveAccount)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _ := authFixture(t)
	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}
