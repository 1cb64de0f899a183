package biz

import (
	"context"
	"time"

	"github.com/Wassit-app/backend/internal/auth"
	apperrors "github.com/Wassit-app/backend/internal/pkg/errors"
	"github.com/Wassit-app/backend/internal/pkg/geo"
)

// User represents the account shared by both roles.
type User struct {
	ID         string
	Username   string
	FullName   string
	Email      string
	Phone      *string
	Role       auth.Role
	IsVerified bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CustomerProfile is the customer-specific half of a profile.
type CustomerProfile struct {
	ID              string
	DeliveryAddress string
	Latitude        *float64
	Longitude       *float64
}

// ChefProfile is the chef-specific half of a profile.
type ChefProfile struct {
	ID             string
	Address        string
	Bio            string
	Certification  string
	Latitude       *float64
	Longitude      *float64
	AvgReviewScore float64
	TotalReviews   int
}

// ProfileUpdate carries the optional fields of a profile update.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Username        *string
	FullName        *string
	Phone           *string
	Password        *string
	DeliveryAddress *string
	Latitude        *float64
	Longitude       *float64
}

// ProfileRepo defines the interface for profile data operations.
type ProfileRepo interface {
	GetUser(ctx context.Context, id string) (*User, error)
	GetCustomer(ctx context.Context, id string) (*CustomerProfile, error)
	GetChef(ctx context.Context, id string) (*ChefProfile, error)
	// UpdateCustomerProfile updates user and customer rows in one transaction.
	UpdateCustomerProfile(ctx context.Context, userID string, update *ProfileUpdate, passwordHash *string) (*User, *CustomerProfile, error)
	UpdateCustomerLocation(ctx context.Context, userID string, coord geo.Coordinate) (*CustomerProfile, error)
}

// PasswordHasher hashes plaintext passwords for storage.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// ProfileUseCase contains business logic for profile operations.
type ProfileUseCase struct {
	repo   ProfileRepo
	hasher PasswordHasher
}

func NewProfileUseCase(repo ProfileRepo, hasher PasswordHasher) *ProfileUseCase {
	return &ProfileUseCase{repo: repo, hasher: hasher}
}

// GetCustomerProfile returns the account and customer halves of a profile.
func (uc *ProfileUseCase) GetCustomerProfile(ctx context.Context, userID string) (*User, *CustomerProfile, error) {
	user, err := uc.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.ErrAuthUserNotFound)
	}

	customer, err := uc.repo.GetCustomer(ctx, userID)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.ErrCustomerNotFound)
	}

	return user, customer, nil
}

// GetChefProfile returns the account and chef halves of a profile.
func (uc *ProfileUseCase) GetChefProfile(ctx context.Context, userID string) (*User, *ChefProfile, error) {
	user, err := uc.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.ErrAuthUserNotFound)
	}

	chef, err := uc.repo.GetChef(ctx, userID)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.ErrChefNotFound)
	}

	return user, chef, nil
}

// UpdateCustomerProfile applies a partial profile update. A new password
// is hashed before it reaches the repo; a new coordinate is validated.
func (uc *ProfileUseCase) UpdateCustomerProfile(ctx context.Context, userID string, update *ProfileUpdate) (*User, *CustomerProfile, error) {
	if update.Latitude != nil || update.Longitude != nil {
		if update.Latitude == nil || update.Longitude == nil {
			return nil, nil, apperrors.New(apperrors.ErrInvalidCoordinates, "latitude and longitude must be provided together")
		}
		if !geo.IsValid(*update.Latitude, *update.Longitude) {
			return nil, nil, apperrors.New(apperrors.ErrInvalidCoordinates)
		}
	}

	var passwordHash *string
	if update.Password != nil {
		hashed, err := uc.hasher.Hash(*update.Password)
		if err != nil {
			return nil, nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
		}
		passwordHash = &hashed
	}

	user, customer, err := uc.repo.UpdateCustomerProfile(ctx, userID, update, passwordHash)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}

	return user, customer, nil
}

// UpdateCustomerLocation sets the customer's delivery coordinate.
func (uc *ProfileUseCase) UpdateCustomerLocation(ctx context.Context, userID string, coord geo.Coordinate) (*CustomerProfile, error) {
	if err := coord.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidCoordinates)
	}

	customer, err := uc.repo.UpdateCustomerLocation(ctx, userID, coord)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}

	return customer, nil
}
