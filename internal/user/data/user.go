package data

import (
	"context"
	"time"

	"github.com/Wassit-app/backend/internal/auth"
	"github.com/Wassit-app/backend/internal/pkg/geo"
	"github.com/Wassit-app/backend/internal/user/biz"
	"gorm.io/gorm"
)

// ProfileRepo implements biz.ProfileRepo over the users/chefs/customers tables.
type ProfileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) biz.ProfileRepo {
	return &ProfileRepo{db: db}
}

func (r *ProfileRepo) GetUser(ctx context.Context, id string) (*biz.User, error) {
	var po UserPO
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&po).Error; err != nil {
		return nil, err
	}
	return toUser(&po), nil
}

func (r *ProfileRepo) GetCustomer(ctx context.Context, id string) (*biz.CustomerProfile, error) {
	var po CustomerPO
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&po).Error; err != nil {
		return nil, err
	}
	return toCustomer(&po), nil
}

func (r *ProfileRepo) GetChef(ctx context.Context, id string) (*biz.ChefProfile, error) {
	var po ChefPO
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&po).Error; err != nil {
		return nil, err
	}
	return toChef(&po), nil
}

func (r *ProfileRepo) UpdateCustomerProfile(ctx context.Context, userID string, update *biz.ProfileUpdate, passwordHash *string) (*biz.User, *biz.CustomerProfile, error) {
	userUpdates := map[string]interface{}{}
	if update.Username != nil {
		userUpdates["username"] = *update.Username
	}
	if update.FullName != nil {
		userUpdates["full_name"] = *update.FullName
	}
	if update.Phone != nil {
		userUpdates["phone"] = *update.Phone
	}
	if passwordHash != nil {
		userUpdates["password_hash"] = *passwordHash
	}

	customerUpdates := map[string]interface{}{}
	if update.DeliveryAddress != nil {
		customerUpdates["delivery_address"] = *update.DeliveryAddress
	}
	if update.Latitude != nil {
		customerUpdates["latitude"] = *update.Latitude
	}
	if update.Longitude != nil {
		customerUpdates["longitude"] = *update.Longitude
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(userUpdates) > 0 {
			userUpdates["updated_at"] = time.Now()
			if err := tx.Model(&UserPO{}).Where("id = ?", userID).Updates(userUpdates).Error; err != nil {
				return err
			}
		}
		if len(customerUpdates) > 0 {
			customerUpdates["updated_at"] = time.Now()
			if err := tx.Model(&CustomerPO{}).Where("id = ?", userID).Updates(customerUpdates).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	user, err := r.GetUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	customer, err := r.GetCustomer(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, customer, nil
}

func (r *ProfileRepo) UpdateCustomerLocation(ctx context.Context, userID string, coord geo.Coordinate) (*biz.CustomerProfile, error) {
	updates := map[string]interface{}{
		"latitude":   coord.Latitude,
		"longitude":  coord.Longitude,
		"updated_at": time.Now(),
	}
	if err := r.db.WithContext(ctx).Model(&CustomerPO{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetCustomer(ctx, userID)
}

func toUser(po *UserPO) *biz.User {
	return &biz.User{
		ID:         po.ID,
		Username:   po.Username,
		FullName:   po.FullName,
		Email:      po.Email,
		Phone:      po.Phone,
		Role:       auth.Role(po.Role),
		IsVerified: po.IsVerified,
		CreatedAt:  po.CreatedAt,
		UpdatedAt:  po.UpdatedAt,
	}
}

func toCustomer(po *CustomerPO) *biz.CustomerProfile {
	return &biz.CustomerProfile{
		ID:              po.ID,
		DeliveryAddress: po.DeliveryAddress,
		Latitude:        po.Latitude,
		Longitude:       po.Longitude,
	}
}

func toChef(po *ChefPO) *biz.ChefProfile {
	return &biz.ChefProfile{
		ID:             po.ID,
		Address:        po.Address,
		Bio:            po.Bio,
		Certification:  po.Certification,
		Latitude:       po.Latitude,
		Longitude:      po.Longitude,
		AvgReviewScore: po.AvgReviewScore,
		TotalReviews:   po.TotalReviews,
	}
}
