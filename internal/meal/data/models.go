package data

import (
	"time"

	"gorm.io/gorm"
)

// MealPO 餐品持久化对象
type MealPO struct {
	ID              string         `gorm:"type:uuid;primaryKey"`
	ChefID          string         `gorm:"type:uuid;not null;index"`
	Name            string         `gorm:"type:varchar(255);not null"`
	Description     string         `gorm:"type:text"`
	Price           float64        `gorm:"type:numeric(10,2);not null;index"`
	PhotoURL        string         `gorm:"type:text"`
	Category        string         `gorm:"type:varchar(32);not null;index"`
	PreparationTime int            `gorm:"not null;default:0"`
	IsAvailable     bool           `gorm:"not null;default:true;index"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (MealPO) TableName() string {
	return "meals"
}

// mealChefRow is the flattened row of the meals-chefs-users join used
// by search candidate listing.
type mealChefRow struct {
	MealPO
	ChefUsername   string
	ChefFullName   string
	ChefAddress    string
	ChefBio        string
	ChefLatitude   *float64
	ChefLongitude  *float64
	AvgReviewScore float64
	TotalReviews   int
}
