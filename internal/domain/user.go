package domain

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sentinel errors returned by the repository and service layers. The handler
// layer maps these to HTTP statuses; anything else is treated as internal.
var (
	ErrInvalidEmail       = errors.New("Invalid email format")
	ErrUsernameTaken      = errors.New("Username already taken!")
	ErrEmailTaken         = errors.New("Email already in use!")
	ErrPasswordTooShort   = errors.New("Password must be at least 6 characters long")
	ErrInvalidCredentials = errors.New("Invalid username or password")
	ErrUserNotFound       = errors.New("User not found")
	ErrInvalidUserData    = errors.New("Invalid user data")
)

// User is the persisted user document.
type User struct {
	ID         primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Username   string               `json:"username" bson:"username"`
	FullName   string               `json:"fullName" bson:"fullName"`
	Email      string               `json:"email" bson:"email"`
	Password   string               `json:"-" bson:"password,omitempty"` // bcrypt digest, hidden in JSON responses
	Followers  []primitive.ObjectID `json:"followers" bson:"followers"`
	Following  []primitive.ObjectID `json:"following" bson:"following"`
	ProfileImg string               `json:"profileImg" bson:"profileImg"`
	CoverImg   string               `json:"coverImg" bson:"coverImg"`
	Bio        string               `json:"bio" bson:"bio"`
	Link       string               `json:"link" bson:"link"`
	CreatedAt  time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// NewUser builds a user with the document defaults applied.
func NewUser(username, fullName, email, passwordHash string) *User {
	return &User{
		Username:  username,
		FullName:  fullName,
		Email:     email,
		Password:  passwordHash,
		Followers: []primitive.ObjectID{},
		Following: []primitive.ObjectID{},
	}
}

// PublicUser is the projection of a user that is safe to return to clients.
type PublicUser struct {
	ID         primitive.ObjectID   `json:"id"`
	FullName   string               `json:"fullName"`
	Username   string               `json:"username"`
	Email      string               `json:"email"`
	Followers  []primitive.ObjectID `json:"followers"`
	Following  []primitive.ObjectID `json:"following"`
	ProfileImg string               `json:"profileImg"`
	CoverImg   string               `json:"coverImg"`
}

// Public returns the client-safe projection of the user.
func (u *User) Public() PublicUser {
	followers := u.Followers
	if followers == nil {
		followers = []primitive.ObjectID{}
	}
	following := u.Following
	if following == nil {
		following = []primitive.ObjectID{}
	}
	return PublicUser{
		ID:         u.ID,
		FullName:   u.FullName,
		Username:   u.Username,
		Email:      u.Email,
		Followers:  followers,
		Following:  following,
		ProfileImg: u.ProfileImg,
		CoverImg:   u.CoverImg,
	}
}

// SignupRequest is the signup request payload.
type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest is the login request payload.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserRepository is the credential store.
type UserRepository interface {
	// Create inserts the user, assigning its ID and timestamps. Duplicate
	// username/email inserts fail with ErrUsernameTaken / ErrEmailTaken.
	Create(ctx context.Context, user *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByID never includes the password digest in the returned user.
	GetByID(ctx context.Context, id string) (*User, error)
}

// AuthService orchestrates the authentication flows. Signup and Login return
// the persisted user together with a freshly signed session token.
type AuthService interface {
	Signup(ctx context.Context, req SignupRequest) (*User, string, error)
	Login(ctx context.Context, username, password string) (*User, string, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
}
