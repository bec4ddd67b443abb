package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aradhya-7-7/XC/internal/domain"
)

const usersCollection = "users"

// UserRepository implements domain.UserRepository on MongoDB.
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository creates a UserRepository backed by the given database.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique indexes on username and email. These are
// the authoritative uniqueness guarantee; the service's pre-insert lookups
// only exist for friendlier error messages.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

// Create inserts a new user, assigning its ID and timestamps.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return duplicateKeyToDomain(err)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByUsername retrieves a user by username, digest included.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username}, nil)
}

// GetByEmail retrieves a user by email, digest included.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, nil)
}

// GetByID retrieves a user by its hex ID with the password digest projected
// out. A malformed ID is reported the same way as a missing user.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	opts := options.FindOne().SetProjection(bson.M{"password": 0})
	return r.findOne(ctx, bson.M{"_id": oid}, opts)
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*domain.User, error) {
	var user domain.User
	var err error
	if opts != nil {
		err = r.coll.FindOne(ctx, filter, opts).Decode(&user)
	} else {
		err = r.coll.FindOne(ctx, filter).Decode(&user)
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// duplicateKeyToDomain maps a unique-index violation to the conflicting
// field. The server names the violated index in the error message.
func duplicateKeyToDomain(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "email"):
		return domain.ErrEmailTaken
	case strings.Contains(msg, "username"):
		return domain.ErrUsernameTaken
	default:
		return fmt.Errorf("failed to create user: %w", err)
	}
}
