package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/clientdesk/clientdesk/internal/cache"
	"github.com/clientdesk/clientdesk/internal/models"
	"github.com/clientdesk/clientdesk/internal/repository"
	apperrors "github.com/clientdesk/clientdesk/pkg/errors"
)

// customerUpdatableFields enumerates the columns a partial update may touch.
var customerUpdatableFields = []string{"name", "email", "phone", "notes"}

// DefaultCustomerTTLs mirror the cache lifetimes used in production: per-id
// snapshots 10 minutes, listings 5 minutes, aggregates 15 minutes.
var DefaultCustomerTTLs = repository.TTLConfig{
	Entry: 10 * time.Minute,
	List:  5 * time.Minute,
	Stats: 15 * time.Minute,
}

// CreateCustomerInput describes the fields accepted when creating a customer.
type CreateCustomerInput struct {
	Name  string
	Email string
	Phone string
	Notes string
}

// UpdateCustomerInput enumerates mutable customer attributes.
type UpdateCustomerInput struct {
	Name  *string
	Email *string
	Phone *string
	Notes *string
}

// CustomerService manages the CRM customer lifecycle through the cache-aside
// repository.
type CustomerService struct {
	repo *repository.Repository[models.Customer]
}

// NewCustomerService constructs a CustomerService over the shared database and
// cache handles.
func NewCustomerService(db *gorm.DB, cacheStore cache.Store, ttl repository.TTLConfig) (*CustomerService, error) {
	if db == nil {
		return nil, errors.New("customer service: db is required")
	}

	store, err := repository.NewGormStore[models.Customer](db, customerUpdatableFields)
	if err != nil {
		return nil, err
	}

	repo, err := repository.New(store, cacheStore, "customers", ttl)
	if err != nil {
		return nil, err
	}

	return &CustomerService{repo: repo}, nil
}

// Get returns a customer by id together with the source the read was served from.
func (s *CustomerService) Get(ctx context.Context, id string) (*models.Customer, repository.Source, error) {
	ctx = ensureContext(ctx)
	return s.repo.Get(ctx, id)
}

// List returns all customers ordered newest first.
func (s *CustomerService) List(ctx context.Context) ([]models.Customer, repository.Source, error) {
	ctx = ensureContext(ctx)
	return s.repo.List(ctx)
}

// Create validates required fields and writes the customer through to the store.
func (s *CustomerService) Create(ctx context.Context, input CreateCustomerInput) (*models.Customer, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" {
		return nil, apperrors.NewValidation("name is required")
	}
	if email == "" {
		return nil, apperrors.NewValidation("email is required")
	}

	customer := &models.Customer{
		Name:  name,
		Email: email,
		Phone: strings.TrimSpace(input.Phone),
		Notes: strings.TrimSpace(input.Notes),
	}

	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// Update applies a partial field set to an existing customer.
func (s *CustomerService) Update(ctx context.Context, id string, input UpdateCustomerInput) (*models.Customer, error) {
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
	if input.Phone != nil {
		fields["phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.Notes != nil {
		fields["notes"] = strings.TrimSpace(*input.Notes)
	}

	if len(fields) == 0 {
		return nil, apperrors.NewValidation("no updatable fields supplied")
	}

	return s.repo.Update(ctx, id, fields)
}

// Delete removes a customer by id.
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)
	return s.repo.Delete(ctx, id)
}

// Stats derives customer aggregates from a full scan, cached independently of
// the listing. "Created this month" uses the server's local calendar month at
// call time.
func (s *CustomerService) Stats(ctx context.Context) (models.CustomerStats, repository.Source, error) {
	ctx = ensureContext(ctx)

	now := time.Now()
	return repository.Aggregate(ctx, s.repo, func(customers []models.Customer) models.CustomerStats {
		stats := models.CustomerStats{Total: len(customers)}
		for _, customer := range customers {
			if customer.Phone != "" {
				stats.WithPhone++
			}
			if customer.Notes != "" {
				stats.WithNotes++
			}
			if customer.CreatedAt.Month() == now.Month() && customer.CreatedAt.Year() == now.Year() {
				stats.CreatedThisMonth++
			}
		}
		return stats
	})
}
