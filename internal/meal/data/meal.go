package data

import (
	"context"

	"github.com/Wassit-app/backend/internal/meal/biz"
	"gorm.io/gorm"
)

// MealRepo implements biz.MealRepo over the meals table.
type MealRepo struct {
	db *gorm.DB
}

func NewMealRepo(db *gorm.DB) biz.MealRepo {
	return &MealRepo{db: db}
}

func (r *MealRepo) Create(ctx context.Context, meal *biz.Meal) error {
	return r.db.WithContext(ctx).Create(toMealPO(meal)).Error
}

func (r *MealRepo) GetByID(ctx context.Context, id string) (*biz.Meal, error) {
	var po MealPO
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&po).Error; err != nil {
		return nil, err
	}
	return toMeal(&po), nil
}

func (r *MealRepo) GetWithChef(ctx context.Context, id string) (*biz.MealWithChef, error) {
	var row mealChefRow
	err := r.joinedQuery(ctx).
		Where("meals.id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return toMealWithChef(&row), nil
}

func (r *MealRepo) ListByChef(ctx context.Context, chefID string, offset, limit int) ([]*biz.Meal, int64, error) {
	var total int64
	base := r.db.WithContext(ctx).Model(&MealPO{}).Where("chef_id = ?", chefID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var pos []MealPO
	err := base.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&pos).Error
	if err != nil {
		return nil, 0, err
	}

	meals := make([]*biz.Meal, 0, len(pos))
	for i := range pos {
		meals = append(meals, toMeal(&pos[i]))
	}
	return meals, total, nil
}

func (r *MealRepo) ListWithChef(ctx context.Context, filter biz.ListFilter) ([]*biz.MealWithChef, error) {
	q := r.joinedQuery(ctx)
	if filter.AvailableOnly {
		q = q.Where("meals.is_available = ?", true)
	}
	if filter.Category != nil {
		q = q.Where("meals.category = ?", string(*filter.Category))
	}
	if filter.MinPrice != nil {
		q = q.Where("meals.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("meals.price <= ?", *filter.MaxPrice)
	}

	var rows []mealChefRow
	if err := q.Order("meals.created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]*biz.MealWithChef, 0, len(rows))
	for i := range rows {
		result = append(result, toMealWithChef(&rows[i]))
	}
	return result, nil
}

func (r *MealRepo) Update(ctx context.Context, meal *biz.Meal) error {
	// Save writes every column so false/zero fields are not skipped.
	return r.db.WithContext(ctx).Save(toMealPO(meal)).Error
}

func (r *MealRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&MealPO{}).Error
}

func (r *MealRepo) ChefExists(ctx context.Context, chefID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("chefs").
		Where("id = ?", chefID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *MealRepo) joinedQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&MealPO{}).
		Select(`meals.*,
			users.username AS chef_username,
			users.full_name AS chef_full_name,
			chefs.address AS chef_address,
			chefs.bio AS chef_bio,
			chefs.latitude AS chef_latitude,
			chefs.longitude AS chef_longitude,
			chefs.avg_review_score,
			chefs.total_reviews`).
		Joins("JOIN chefs ON chefs.id = meals.chef_id").
		Joins("JOIN users ON users.id = chefs.id")
}

func toMealPO(meal *biz.Meal) *MealPO {
	return &MealPO{
		ID:              meal.ID,
		ChefID:          meal.ChefID,
		Name:            meal.Name,
		Description:     meal.Description,
		Price:           meal.Price,
		PhotoURL:        meal.PhotoURL,
		Category:        string(meal.Category),
		PreparationTime: meal.PreparationTime,
		IsAvailable:     meal.IsAvailable,
		CreatedAt:       meal.CreatedAt,
		UpdatedAt:       meal.UpdatedAt,
	}
}

func toMeal(po *MealPO) *biz.Meal {
	return &biz.Meal{
		ID:              po.ID,
		ChefID:          po.ChefID,
		Name:            po.Name,
		Description:     po.Description,
		Price:           po.Price,
		PhotoURL:        po.PhotoURL,
		Category:        biz.Category(po.Category),
		PreparationTime: po.PreparationTime,
		IsAvailable:     po.IsAvailable,
		CreatedAt:       po.CreatedAt,
		UpdatedAt:       po.UpdatedAt,
	}
}

func toMealWithChef(row *mealChefRow) *biz.MealWithChef {
	return &biz.MealWithChef{
		Meal: *toMeal(&row.MealPO),
		Chef: biz.ChefInfo{
			ID:             row.ChefID,
			Username:       row.ChefUsername,
			FullName:       row.ChefFullName,
			Address:        row.ChefAddress,
			Bio:            row.ChefBio,
			Latitude:       row.ChefLatitude,
			Longitude:      row.ChefLongitude,
			AvgReviewScore: row.AvgReviewScore,
			TotalReviews:   row.TotalReviews,
		},
	}
}
