package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/clientdesk/clientdesk/internal/cache"
	"github.com/clientdesk/clientdesk/internal/models"
	"github.com/clientdesk/clientdesk/internal/repository"
	"github.com/clientdesk/clientdesk/pkg/crypto"
	apperrors "github.com/clientdesk/clientdesk/pkg/errors"
)

var userUpdatableFields = []string{"name", "email", "roles"}

// DefaultUserTTLs match the customer cache policy for records and listings.
var DefaultUserTTLs = repository.TTLConfig{
	Entry: 10 * time.Minute,
	List:  5 * time.Minute,
	Stats: 15 * time.Minute,
}

// defaultRoles is assigned to accounts registered without an explicit role set.
var defaultRoles = []string{"user"}

// CreateUserInput describes the fields accepted when creating a user.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Roles    []string
}

// UpdateUserInput enumerates mutable user attributes.
type UpdateUserInput struct {
	Name  *string
	Email *string
	Roles *[]string
}

// UserService manages account CRUD with hashed credentials, riding on the same
// cache-aside repository as customers.
type UserService struct {
	repo *repository.Repository[models.User]
}

// NewUserService constructs a UserService over the shared database and cache handles.
func NewUserService(db *gorm.DB, cacheStore cache.Store, ttl repository.TTLConfig) (*UserService, error) {
	if db == nil {
		return nil, errors.New("user service: db is required")
	}

	store, err := repository.NewGormStore[models.User](db, userUpdatableFields)
	if err != nil {
		return nil, err
	}

	repo, err := repository.New(store, cacheStore, "users", ttl)
	if err != nil {
		return nil, err
	}

	return &UserService{repo: repo}, nil
}

// Get returns a user by id together with the source the read was served from.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, repository.Source, error) {
	ctx = ensureContext(ctx)
	return s.repo.Get(ctx, id)
}

// List returns all users ordered newest first.
func (s *UserService) List(ctx context.Context) ([]models.User, repository.Source, error) {
	ctx = ensureContext(ctx)
	return s.repo.List(ctx)
}

// FindByEmail queries the store directly, bypassing the cache. Login must
// always verify credentials against the authoritative record.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx = ensureContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperrors.ErrNotFound
	}
	return s.repo.FindByField(ctx, "email", email)
}

// Create validates required fields and provisions a new user with a hashed password.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" {
		return nil, apperrors.NewValidation("name is required")
	}
	if email == "" {
		return nil, apperrors.NewValidation("email is required")
	}
	if strings.TrimSpace(input.Password) == "" {
		return nil, apperrors.NewValidation("password is required")
	}

	hashed, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("user service: hash password: %w", err)
	}

	roles := normaliseRoles(input.Roles)
	if len(roles) == 0 {
		roles = defaultRoles
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Roles:        datatypes.NewJSONSlice(roles),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update applies a partial field set to an existing user.
func (s *UserService) Update(ctx context.Context, id string, input UpdateUserInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	fields := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidation("name cannot be empty")
		}
		fields["name"] = name
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" {
			return nil, apperrors.NewValidation("email cannot be empty")
		}
		fields["email"] = email
	}
	if input.Roles != nil {
		roles := normaliseRoles(*input.Roles)
		if len(roles) == 0 {
			return nil, apperrors.NewValidation("roles cannot be empty")
		}
		fields["roles"] = datatypes.NewJSONSlice(roles)
	}

	if len(fields) == 0 {
		return nil, apperrors.NewValidation("no updatable fields supplied")
	}

	return s.repo.Update(ctx, id, fields)
}

// Delete removes a user by id.
func (s *UserService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)
	return s.repo.Delete(ctx, id)
}
