package repositories

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockUserRepository is an in-memory implementation of UserRepository.
// Emails are unique, compared case-insensitively like the Mongo collation index.
type MockUserRepository struct {
	users map[primitive.ObjectID]models.User
	mu    sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[primitive.ObjectID]models.User),
	}
}

func (r *MockUserRepository) findByEmail(email string) (models.User, bool) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return models.User{}, false
}

// Create adds a new user, rejecting a taken email.
func (r *MockUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.findByEmail(user.Email); taken {
		return fmt.Errorf("email %s: %w", user.Email, ErrDuplicate)
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

// GetByEmail returns a user by email.
func (r *MockUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.findByEmail(email)
	if !ok {
		return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
	}
	return &u, nil
}

// GetByID returns a user by ID.
func (r *MockUserRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %s: %w", id.Hex(), ErrNotFound)
	}
	return &u, nil
}

// Update applies the non-nil fields of update.
func (r *MockUserRepository) Update(_ context.Context, id primitive.ObjectID, update models.UserUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user with ID %s for update: %w", id.Hex(), ErrNotFound)
	}
	if update.Email != nil {
		if other, taken := r.findByEmail(*update.Email); taken && other.ID != id {
			return fmt.Errorf("email %s: %w", *update.Email, ErrDuplicate)
		}
		u.Email = *update.Email
	}
	if update.ProfilePicture != nil {
		u.ProfilePicture = *update.ProfilePicture
	}
	u.UpdatedAt = time.Now().UTC()
	r.users[id] = u
	return nil
}

// UpdatePassword stores a new password hash.
func (r *MockUserRepository) UpdatePassword(_ context.Context, id primitive.ObjectID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user with ID %s for password update: %w", id.Hex(), ErrNotFound)
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now().UTC()
	r.users[id] = u
	return nil
}
