package biz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Wassit-app/backend/internal/pkg/cache"
	apperrors "github.com/Wassit-app/backend/internal/pkg/errors"
	"github.com/Wassit-app/backend/internal/pkg/geo"
	"github.com/Wassit-app/backend/internal/pkg/logger"
	"github.com/google/uuid"
)

// Category is a meal category tag.
type Category string

const (
	CategorySandwiches  Category = "SANDWICHES"
	CategoryPizza       Category = "PIZZA"
	CategoryHealthy     Category = "HEALTHY"
	CategoryTraditional Category = "TRADITIONAL"
	CategoryFastFood    Category = "FASTFOOD"
	CategoryDessert     Category = "DESSERT"
	CategorySweets      Category = "SWEETS"
)

// Categories lists all valid meal categories.
var Categories = []Category{
	CategorySandwiches,
	CategoryPizza,
	CategoryHealthy,
	CategoryTraditional,
	CategoryFastFood,
	CategoryDessert,
	CategorySweets,
}

// ParseCategory parses a category string case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	for _, valid := range Categories {
		if c == valid {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid meal category: %q", s)
}

// Meal is a listing offered by a chef.
type Meal struct {
	ID              string    `json:"id"`
	ChefID          string    `json:"chefId"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	PhotoURL        string    `json:"photoUrl"`
	Category        Category  `json:"category"`
	PreparationTime int       `json:"preparationTime"` // minutes
	IsAvailable     bool      `json:"isAvailable"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ChefInfo is the chef snapshot denormalized into search results and
// meal details. Rating fields are display-only, not authoritative.
type ChefInfo struct {
	ID             string   `json:"id"`
	Username       string   `json:"username"`
	FullName       string   `json:"fullName"`
	Address        string   `json:"address"`
	Bio            string   `json:"bio,omitempty"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	AvgReviewScore float64  `json:"avgReviewScore"`
	TotalReviews   int      `json:"totalReviews"`
}

// MealWithChef joins a meal with its chef snapshot.
type MealWithChef struct {
	Meal Meal     `json:"meal"`
	Chef ChefInfo `json:"chef"`
}

// ListFilter holds the storage-indexable predicates of a meal query.
// The geographic radius is deliberately absent: distance is not a
// storage-indexable predicate and is applied in memory by the search
// engine.
type ListFilter struct {
	AvailableOnly bool
	Category      *Category
	MinPrice      *float64
	MaxPrice      *float64
}

// MealRepo defines the interface for meal data operations.
type MealRepo interface {
	Create(ctx context.Context, meal *Meal) error
	GetByID(ctx context.Context, id string) (*Meal, error)
	GetWithChef(ctx context.Context, id string) (*MealWithChef, error)
	ListByChef(ctx context.Context, chefID string, offset, limit int) ([]*Meal, int64, error)
	// ListWithChef returns every meal matching the filter together with
	// its chef snapshot, most recent first.
	ListWithChef(ctx context.Context, filter ListFilter) ([]*MealWithChef, error)
	Update(ctx context.Context, meal *Meal) error
	Delete(ctx context.Context, id string) error
	ChefExists(ctx context.Context, chefID string) (bool, error)
}

// Pagination is the page metadata attached to list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// MealPage is a page of a chef's meals.
type MealPage struct {
	Meals      []*Meal    `json:"meals"`
	Pagination Pagination `json:"pagination"`
}

// MealUseCase contains business logic for chef meal management.
type MealUseCase struct {
	repo  MealRepo
	store cache.Store
	ttl   time.Duration
	log   *logger.Logger
}

func NewMealUseCase(repo MealRepo, store cache.Store, cacheTTL time.Duration, log *logger.Logger) *MealUseCase {
	if cacheTTL <= 0 {
		cacheTTL = 300 * time.Second
	}
	return &MealUseCase{repo: repo, store: store, ttl: cacheTTL, log: log}
}

// CreateMealInput carries the fields of a new meal.
type CreateMealInput struct {
	ChefID          string
	Name            string
	Description     string
	Price           float64
	PhotoURL        string
	Category        Category
	PreparationTime int
	IsAvailable     bool
}

func (uc *MealUseCase) CreateMeal(ctx context.Context, input *CreateMealInput) (*Meal, error) {
	exists, err := uc.repo.ChefExists(ctx, input.ChefID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}
	if !exists {
		return nil, apperrors.New(apperrors.ErrChefNotFound)
	}

	now := time.Now()
	meal := &Meal{
		ID:              uuid.Must(uuid.NewV7()).String(),
		ChefID:          input.ChefID,
		Name:            input.Name,
		Description:     input.Description,
		Price:           input.Price,
		PhotoURL:        input.PhotoURL,
		Category:        input.Category,
		PreparationTime: input.PreparationTime,
		IsAvailable:     input.IsAvailable,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := uc.repo.Create(ctx, meal); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}

	return meal, nil
}

// ListChefMeals returns a page of a chef's meals, cached per page for
// the configured TTL. Entries are not invalidated on meal mutation;
// staleness up to the TTL is accepted.
func (uc *MealUseCase) ListChefMeals(ctx context.Context, chefID string, page, limit int) (*MealPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	exists, err := uc.repo.ChefExists(ctx, chefID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}
	if !exists {
		return nil, apperrors.New(apperrors.ErrChefNotFound)
	}

	key := cache.Key("mealsByChef", chefID, page, limit)
	return cache.GetOrCompute(ctx, uc.store, uc.log, key, uc.ttl, func(ctx context.Context) (*MealPage, error) {
		offset := (page - 1) * limit
		meals, total, err := uc.repo.ListByChef(ctx, chefID, offset, limit)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
		}
		return &MealPage{
			Meals:      meals,
			Pagination: buildPagination(page, limit, total),
		}, nil
	})
}

func (uc *MealUseCase) GetMeal(ctx context.Context, id string) (*Meal, error) {
	meal, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrMealNotFound)
	}
	return meal, nil
}

// MealDetails is a meal with its chef snapshot and, when the caller
// supplied a location, the distance to the chef.
type MealDetails struct {
	Meal       Meal     `json:"meal"`
	Chef       ChefInfo `json:"chef"`
	DistanceKm *float64 `json:"distanceKm,omitempty"`
}

// GetMealDetails returns a meal with its chef snapshot. When origin is
// given it is validated and the chef distance is attached; chefs
// without a stored location yield no distance.
func (uc *MealUseCase) GetMealDetails(ctx context.Context, id string, origin *geo.Coordinate) (*MealDetails, error) {
	if origin != nil {
		if err := origin.Validate(); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrInvalidCoordinates)
		}
	}

	mc, err := uc.repo.GetWithChef(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrMealNotFound)
	}

	details := &MealDetails{Meal: mc.Meal, Chef: mc.Chef}
	if origin != nil && mc.Chef.Latitude != nil && mc.Chef.Longitude != nil {
		distance := geo.Round2(geo.DistanceKm(*origin, geo.Coordinate{
			Latitude:  *mc.Chef.Latitude,
			Longitude: *mc.Chef.Longitude,
		}))
		details.DistanceKm = &distance
	}
	return details, nil
}

// UpdateMealInput carries the optional fields of a meal update.
type UpdateMealInput struct {
	Name            *string
	Description     *string
	Price           *float64
	PhotoURL        *string
	Category        *Category
	PreparationTime *int
	IsAvailable     *bool
}

func (uc *MealUseCase) UpdateMeal(ctx context.Context, id string, input *UpdateMealInput) (*Meal, error) {
	meal, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrMealNotFound)
	}

	if input.Name != nil {
		meal.Name = *input.Name
	}
	if input.Description != nil {
		meal.Description = *input.Description
	}
	if input.Price != nil {
		meal.Price = *input.Price
	}
	if input.PhotoURL != nil {
		meal.PhotoURL = *input.PhotoURL
	}
	if input.Category != nil {
		meal.Category = *input.Category
	}
	if input.PreparationTime != nil {
		meal.PreparationTime = *input.PreparationTime
	}
	if input.IsAvailable != nil {
		meal.IsAvailable = *input.IsAvailable
	}
	meal.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, meal); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInternalServer)
	}

	return meal, nil
}

func (uc *MealUseCase) DeleteMeal(ctx context.Context, id string) error {
	if _, err := uc.repo.GetByID(ctx, id); err != nil {
		return apperrors.Wrap(err, apperrors.ErrMealNotFound)
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return apperrors.Wrap(err, apperrors.ErrInternalServer)
	}
	return nil
}

func buildPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Page:       page,
		PageSize:   limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
