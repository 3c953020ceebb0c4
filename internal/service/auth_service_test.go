package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/medisys-io/ipdflow/internal/config"
	"github.com/medisys-io/ipdflow/internal/domain"
	"github.com/medisys-io/ipdflow/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users map[string]*domain.User
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrInvalidCredentials
}

func (r *fakeUserRepo) RecordLogin(_ context.Context, _ uuid.UUID) error { return nil }

func newAuthFixture(t *testing.T) (*AuthService, *auth.JWTManager) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pw"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeUserRepo{users: map[string]*domain.User{
		"nurse@hospital.test": {
			ID:           uuid.New(),
			Email:        "nurse@hospital.test",
			PasswordHash: string(hash),
			Role:         domain.RoleNurse,
			IsActive:     true,
		},
		"gone@hospital.test": {
			ID:           uuid.New(),
			Email:        "gone@hospital.test",
			PasswordHash: string(hash),
			Role:         domain.RoleDoctor,
			IsActive:     false,
		},
	}}

	jwtManager := auth.NewJWTManager(config.JWTConfig{
		Secret:          "0123456789abcdef0123456789abcdef",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
		Issuer:          "ipdflow-test",
	})

	return NewAuthService(repo, jwtManager, zap.NewNop()), jwtManager
}

func TestLogin(t *testing.T) {
	svc, jwtManager := newAuthFixture(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "nurse@hospital.test", "s3cret-pw", "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)

	claims, err := jwtManager.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleNurse, claims.Role)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "nurse@hospital.test", "wrong", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsUnknownUser(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "nobody@hospital.test", "s3cret-pw", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "gone@hospital.test", "s3cret-pw", "")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestRefreshToken(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "nurse@hospital.test", "s3cret-pw", "")
	require.NoError(t, err)

	renewed, err := svc.RefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, renewed.AccessToken)

	// An access token is not accepted in place of a refresh token.
	_, err = svc.RefreshToken(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
