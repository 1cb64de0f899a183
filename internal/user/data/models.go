package data

import (
	"time"

	"gorm.io/gorm"
)

// UserPO represents the users table shared by both roles.
type UserPO struct {
	ID         string `gorm:"type:uuid;primarykey"`
	Username   string `gorm:"size:100"`
	FullName   string `gorm:"size:255;not null"`
	Email      string `gorm:"size:255;not null;uniqueIndex:idx_users_email,where:deleted_at IS NULL"`
	Phone      *string `gorm:"size:32"`
	Role       string `gorm:"size:16;not null"`
	IsVerified bool   `gorm:"not null;default:false"`

	PasswordHash string `gorm:"size:255;not null"`

	// Email OTP verification / password reset
	OTP          *string    `gorm:"size:8"`
	OTPExpiresAt *time.Time

	// OAuth login
	OAuthProvider *string `gorm:"size:32"`
	OAuthID       *string `gorm:"size:255;index:idx_users_oauth_id,where:oauth_id IS NOT NULL"`

	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (UserPO) TableName() string {
	return "users"
}

// ChefPO holds chef-specific profile data. The primary key is the user ID.
type ChefPO struct {
	ID            string `gorm:"type:uuid;primarykey"`
	Address       string `gorm:"size:512"`
	Bio           string `gorm:"type:text"`
	Certification string `gorm:"size:255"`

	// Kitchen coordinate. Nullable: a chef without a recorded location
	// is excluded from location-based search.
	Latitude  *float64
	Longitude *float64

	AvgReviewScore float64 `gorm:"not null;default:0"`
	TotalReviews   int     `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ChefPO) TableName() string {
	return "chefs"
}

// CustomerPO holds customer-specific profile data keyed by user ID.
type CustomerPO struct {
	ID              string `gorm:"type:uuid;primarykey"`
	DeliveryAddress string `gorm:"size:512"`

	Latitude  *float64
	Longitude *float64

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (CustomerPO) TableName() string {
	return "customers"
}
