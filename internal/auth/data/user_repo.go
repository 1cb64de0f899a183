package data

import (
	"context"
	"errors"
	"time"

	"github.com/Wassit-app/backend/internal/auth"
	"github.com/Wassit-app/backend/internal/auth/biz"
	userdata "github.com/Wassit-app/backend/internal/user/data"
	"gorm.io/gorm"
)

// AuthRepo implements biz.AuthRepo over the users/chefs/customers tables.
type AuthRepo struct {
	db *gorm.DB
}

func NewAuthRepo(db *gorm.DB) biz.AuthRepo {
	return &AuthRepo{db: db}
}

func (r *AuthRepo) GetByEmail(ctx context.Context, email string) (*biz.Account, error) {
	var po userdata.UserPO
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&po).Error; err != nil {
		return nil, err
	}
	return toAccount(&po), nil
}

func (r *AuthRepo) GetByID(ctx context.Context, id string) (*biz.Account, error) {
	var po userdata.UserPO
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&po).Error; err != nil {
		return nil, err
	}
	return toAccount(&po), nil
}

func (r *AuthRepo) GetByOAuth(ctx context.Context, provider, oauthID string) (*biz.Account, error) {
	var po userdata.UserPO
	err := r.db.WithContext(ctx).
		Where("oauth_provider = ? AND oauth_id = ?", provider, oauthID).
		First(&po).Error
	if err != nil {
		return nil, err
	}
	return toAccount(&po), nil
}

func (r *AuthRepo) CreateWithProfile(ctx context.Context, account *biz.Account, address string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(toUserPO(account)).Error; err != nil {
			return err
		}
		return createProfile(tx, account, address)
	})
}

func (r *AuthRepo) ReplaceUnverified(ctx context.Context, account *biz.Account, address string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"username":       account.Username,
			"full_name":      account.FullName,
			"phone":          account.Phone,
			"role":           string(account.Role),
			"password_hash":  account.PasswordHash,
			"otp":            account.OTP,
			"otp_expires_at": account.OTPExpiresAt,
			"updated_at":     time.Now(),
		}
		if err := tx.Model(&userdata.UserPO{}).Where("id = ?", account.ID).Updates(updates).Error; err != nil {
			return err
		}

		// 角色可能在两次注册之间变化，清掉旧档案再建新档案
		if err := tx.Where("id = ?", account.ID).Delete(&userdata.ChefPO{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", account.ID).Delete(&userdata.CustomerPO{}).Error; err != nil {
			return err
		}
		return createProfile(tx, account, address)
	})
}

func (r *AuthRepo) SetOTP(ctx context.Context, userID, otp string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&userdata.UserPO{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"otp":            otp,
			"otp_expires_at": expiresAt,
			"updated_at":     time.Now(),
		}).Error
}

func (r *AuthRepo) MarkVerified(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Model(&userdata.UserPO{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"is_verified":    true,
			"otp":            nil,
			"otp_expires_at": nil,
			"updated_at":     time.Now(),
		}).Error
}

func (r *AuthRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&userdata.UserPO{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password_hash":  passwordHash,
			"otp":            nil,
			"otp_expires_at": nil,
			"updated_at":     time.Now(),
		}).Error
}

func (r *AuthRepo) CreateOAuthAccount(ctx context.Context, account *biz.Account, provider, oauthID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		po := toUserPO(account)
		po.OAuthProvider = &provider
		po.OAuthID = &oauthID
		if err := tx.Create(po).Error; err != nil {
			return err
		}
		return createProfile(tx, account, "")
	})
}

func (r *AuthRepo) IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func createProfile(tx *gorm.DB, account *biz.Account, address string) error {
	switch account.Role {
	case auth.RoleChef:
		return tx.Create(&userdata.ChefPO{ID: account.ID, Address: address}).Error
	default:
		return tx.Create(&userdata.CustomerPO{ID: account.ID, DeliveryAddress: address}).Error
	}
}

func toUserPO(account *biz.Account) *userdata.UserPO {
	return &userdata.UserPO{
		ID:           account.ID,
		Username:     account.Username,
		FullName:     account.FullName,
		Email:        account.Email,
		Phone:        account.Phone,
		Role:         string(account.Role),
		IsVerified:   account.IsVerified,
		PasswordHash: account.PasswordHash,
		OTP:          account.OTP,
		OTPExpiresAt: account.OTPExpiresAt,
	}
}

func toAccount(po *userdata.UserPO) *biz.Account {
	return &biz.Account{
		ID:           po.ID,
		Username:     po.Username,
		FullName:     po.FullName,
		Email:        po.Email,
		Phone:        po.Phone,
		Role:         auth.Role(po.Role),
		IsVerified:   po.IsVerified,
		PasswordHash: po.PasswordHash,
		OTP:          po.OTP,
		OTPExpiresAt: po.OTPExpiresAt,
	}
}
