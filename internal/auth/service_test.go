package auth

import (
	"context"
	"testing"
	"time"

	"tourops/internal/shared/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	byEmail map[string]*User
	byID    map[string]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*User),
		byID:    make(map[string]*User),
	}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *User) error {
	f.byEmail[user.Email] = user
	f.byID[user.ID.String()] = user
	return nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:           "test-secret-do-not-use",
			JWTExpiresIn:     time.Hour,
			RefreshExpiresIn: 24 * time.Hour,
		},
	}
}

func TestRegisterNewOrgMakesAdmin(t *testing.T) {
	svc := NewService(newFakeUserRepo(), testConfig())

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		FirstName: "Ana",
		LastName:  "Costa",
		Email:     "ana@example.com",
		Password:  "password123",
	})

	require.NoError(t, err)
	assert.Equal(t, string(RoleAdmin), resp.User.Role)
	assert.NotEmpty(t, resp.User.OrgID)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
}

func TestRegisterJoiningOrgMakesAgent(t *testing.T) {
	svc := NewService(newFakeUserRepo(), testConfig())
	orgID := uuid.New()

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		FirstName: "Rui",
		LastName:  "Gomes",
		Email:     "rui@example.com",
		Password:  "password123",
		OrgID:     orgID.String(),
	})

	require.NoError(t, err)
	assert.Equal(t, string(RoleAgent), resp.User.Role)
	assert.Equal(t, orgID.String(), resp.User.OrgID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(newFakeUserRepo(), testConfig())
	req := &RegisterRequest{
		FirstName: "Ana", LastName: "Costa",
		Email: "ana@example.com", Password: "password123",
	}

	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLogin(t *testing.T) {
	svc := NewService(newFakeUserRepo(), testConfig())
	_, err := svc.Register(context.Background(), &RegisterRequest{
		FirstName: "Ana", LastName: "Costa",
		Email: "ana@example.com", Password: "password123",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &LoginRequest{
		Email: "ana@example.com", Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = svc.Login(context.Background(), &LoginRequest{
		Email: "ana@example.com", Password: "wrong-password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown email reports the same error as a bad password
	_, err = svc.Login(context.Background(), &LoginRequest{
		Email: "nobody@example.com", Password: "password123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc := NewService(newFakeUserRepo(), testConfig())
	resp, err := svc.Register(context.Background(), &RegisterRequest{
		FirstName: "Ana", LastName: "Costa",
		Email: "ana@example.com", Password: "password123",
	})
	require.NoError(t, err)

	pair, err := svc.RefreshToken(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.Equal(t, int64(3600), pair.ExpiresIn)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc := NewService(newFakeUserRepo(), testConfig())
	resp, err := svc.Register(context.Background(), &RegisterRequest{
		FirstName: "Ana", LastName: "Costa",
		Email: "ana@example.com", Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc := NewService(newFakeUserRepo(), testConfig())

	_, err := svc.RefreshToken(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
