package biz

import (
	"context"
	"errors"
	"testing"

	"github.com/Wassit-app/backend/internal/auth"
	apperrors "github.com/Wassit-app/backend/internal/pkg/errors"
	"github.com/Wassit-app/backend/internal/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfileRepo struct {
	user     *User
	customer *CustomerProfile
	chef     *ChefProfile
	lastHash *string
}

func (f *fakeProfileRepo) GetUser(ctx context.Context, id string) (*User, error) {
	return f.user, nil
}

func (f *fakeProfileRepo) GetCustomer(ctx context.Context, id string) (*CustomerProfile, error) {
	return f.customer, nil
}

func (f *fakeProfileRepo) GetChef(ctx context.Context, id string) (*ChefProfile, error) {
	if f.chef == nil {
		return nil, errors.New("record not found")
	}
	return f.chef, nil
}

func (f *fakeProfileRepo) UpdateCustomerProfile(ctx context.Context, userID string, update *ProfileUpdate, passwordHash *string) (*User, *CustomerProfile, error) {
	f.lastHash = passwordHash
	if update.DeliveryAddress != nil {
		f.customer.DeliveryAddress = *update.DeliveryAddress
	}
	return f.user, f.customer, nil
}

func (f *fakeProfileRepo) UpdateCustomerLocation(ctx context.Context, userID string, coord geo.Coordinate) (*CustomerProfile, error) {
	f.customer.Latitude = &coord.Latitude
	f.customer.Longitude = &coord.Longitude
	return f.customer, nil
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hash:" + password, nil }

func newProfileFixture() (*ProfileUseCase, *fakeProfileRepo) {
	repo := &fakeProfileRepo{
		user:     &User{ID: "u1", Email: "a@b.com"},
		customer: &CustomerProfile{ID: "u1", DeliveryAddress: "Algiers"},
	}
	return NewProfileUseCase(repo, plainHasher{}), repo
}

func TestUpdateCustomerProfilePasswordHashed(t *testing.T) {
	uc, repo := newProfileFixture()

	password := "newpass"
	_, _, err := uc.UpdateCustomerProfile(context.Background(), "u1", &ProfileUpdate{Password: &password})
	require.NoError(t, err)
	require.NotNil(t, repo.lastHash)
	// 明文绝不落库
	assert.Equal(t, "hash:newpass", *repo.lastHash)
}

func TestUpdateCustomerProfileCoordinatePairRequired(t *testing.T) {
	uc, _ := newProfileFixture()

	lat := 36.75
	_, _, err := uc.UpdateCustomerProfile(context.Background(), "u1", &ProfileUpdate{Latitude: &lat})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrInvalidCoordinates, apperrors.ExtractCode(err))
}

func TestUpdateCustomerProfileInvalidCoordinate(t *testing.T) {
	uc, _ := newProfileFixture()

	lat, lon := 95.0, 3.06
	_, _, err := uc.UpdateCustomerProfile(context.Background(), "u1", &ProfileUpdate{Latitude: &lat, Longitude: &lon})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrInvalidCoordinates, apperrors.ExtractCode(err))
}

func TestGetChefProfile(t *testing.T) {
	repo := &fakeProfileRepo{
		user: &User{ID: "c1", Email: "chef@b.com", Role: auth.RoleChef},
		chef: &ChefProfile{ID: "c1", Address: "Algiers", AvgReviewScore: 4.5, TotalReviews: 12},
	}
	uc := NewProfileUseCase(repo, plainHasher{})

	user, chef, err := uc.GetChefProfile(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "chef@b.com", user.Email)
	assert.Equal(t, 4.5, chef.AvgReviewScore)
	assert.Equal(t, 12, chef.TotalReviews)
}

func TestGetChefProfileMissing(t *testing.T) {
	repo := &fakeProfileRepo{user: &User{ID: "u1"}}
	uc := NewProfileUseCase(repo, plainHasher{})

	_, _, err := uc.GetChefProfile(context.Background(), "u1")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrChefNotFound, apperrors.ExtractCode(err))
}

func TestUpdateCustomerLocation(t *testing.T) {
	uc, repo := newProfileFixture()

	customer, err := uc.UpdateCustomerLocation(context.Background(), "u1", geo.Coordinate{Latitude: 36.75, Longitude: 3.06})
	require.NoError(t, err)
	require.NotNil(t, customer.Latitude)
	assert.Equal(t, 36.75, *repo.customer.Latitude)

	_, err = uc.UpdateCustomerLocation(context.Background(), "u1", geo.Coordinate{Latitude: -91, Longitude: 0})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrInvalidCoordinates, apperrors.ExtractCode(err))
}
