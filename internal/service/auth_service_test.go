package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aradhya-7-7/XC/internal/domain"
	"github.com/aradhya-7-7/XC/internal/util"
	"github.com/aradhya-7-7/XC/pkg/jwt"
)

// fakeRepo is an in-memory domain.UserRepository enforcing the same
// uniqueness rules as the real store's indexes.
type fakeRepo struct {
	users     map[string]*domain.User // keyed by hex ID
	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[string]*domain.User)}
}

func (r *fakeRepo) Create(_ context.Context, user *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, u := range r.users {
		if u.Username == user.Username {
			return domain.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	clone := *user
	r.users[user.ID.Hex()] = &clone
	return nil
}

func (r *fakeRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	clone.Password = ""
	return &clone, nil
}

func newTestService(t *testing.T, repo domain.UserRepository) domain.AuthService {
	t.Helper()
	svc, err := NewAuthService(repo, jwt.NewTokenManager("test-secret", time.Hour))
	require.NoError(t, err)
	return svc
}

func validSignup() domain.SignupRequest {
	return domain.SignupRequest{
		Username: "jane",
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Password: "s3cret-pass",
	}
}

func TestSignupSuccess(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	user, token, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEmpty(t, token)
	assert.False(t, user.ID.IsZero())
	assert.NotEmpty(t, user.Password, "digest should be set on the persisted user")
	assert.NotEqual(t, "s3cret-pass", user.Password)
	assert.NoError(t, util.CheckPassword(user.Password, "s3cret-pass"))
	assert.Empty(t, user.Followers)
	assert.Empty(t, user.Following)
}

func TestSignupValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.SignupRequest)
		wantErr error
	}{
		{"invalid email", func(r *domain.SignupRequest) { r.Email = "not-an-email" }, domain.ErrInvalidEmail},
		{"email without tld", func(r *domain.SignupRequest) { r.Email = "jane@example" }, domain.ErrInvalidEmail},
		{"short password", func(r *domain.SignupRequest) { r.Password = "12345" }, domain.ErrPasswordTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			svc := newTestService(t, repo)

			req := validSignup()
			tt.mutate(&req)
			_, _, err := svc.Signup(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, repo.users, "nothing should be persisted")
		})
	}
}

func TestSignupDuplicates(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	_, _, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	dupUsername := validSignup()
	dupUsername.Email = "other@example.com"
	_, _, err = svc.Signup(context.Background(), dupUsername)
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	dupEmail := validSignup()
	dupEmail.Username = "janet"
	_, _, err = svc.Signup(context.Background(), dupEmail)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	assert.Len(t, repo.users, 1, "duplicates must not create records")
}

func TestSignupNoTokenWhenPersistenceFails(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = errors.New("write failed")
	svc := newTestService(t, repo)

	_, token, err := svc.Signup(context.Background(), validSignup())
	assert.Error(t, err)
	assert.Empty(t, token, "no session token may be issued for an unpersisted user")
}

func TestLoginSuccessAfterSignup(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	_, _, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	user, token, err := svc.Login(context.Background(), "jane", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "jane", user.Username)
	assert.NotEmpty(t, token)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	_, _, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	_, _, wrongPassword := svc.Login(context.Background(), "jane", "wrong-pass")
	_, _, unknownUser := svc.Login(context.Background(), "nobody", "s3cret-pass")

	assert.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, domain.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestGetUserByID(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(t, repo)

	created, _, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	user, err := svc.GetUserByID(context.Background(), created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Empty(t, user.Password, "lookup by ID must exclude the digest")

	_, err = svc.GetUserByID(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
